// Package cache wraps a ledger.Store with a read-through TTL cache.
// Purchase records are immutable once written, so a short TTL only bounds
// memory, not staleness.
package cache

import (
	"context"
	"time"

	"github.com/ReneKroon/ttlcache"

	"github.com/imagestudio/billing-server/ledger"
	"github.com/imagestudio/billing-server/model"
)

type Cache struct {
	db    ledger.Store
	cache *ttlcache.Cache
}

func NewInCache(db ledger.Store, ttl time.Duration) ledger.Store {
	cache := ttlcache.NewCache()
	cache.SetTTL(ttl)
	return &Cache{
		db:    db,
		cache: cache,
	}
}

func (c *Cache) CreatePurchase(ctx context.Context, record *ledger.Record) error {
	if err := c.db.CreatePurchase(ctx, record); err != nil {
		return err
	}
	c.cache.Set(toCacheKey(record.ReceiptID), record.Clone())
	return nil
}

func (c *Cache) GetPurchase(ctx context.Context, receiptID []byte) (*ledger.Record, error) {
	cacheKey := toCacheKey(receiptID)

	if cached, ok := c.cache.Get(cacheKey); ok {
		return cached.(*ledger.Record).Clone(), nil
	}

	record, err := c.db.GetPurchase(ctx, receiptID)
	if err != nil {
		return nil, err
	}

	c.cache.Set(cacheKey, record.Clone())
	return record, nil
}

func toCacheKey(receiptID []byte) string {
	return model.ReceiptIDString(receiptID)
}
