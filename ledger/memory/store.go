package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/imagestudio/billing-server/ledger"
)

type InMemoryStore struct {
	mu        sync.RWMutex
	purchases map[string]*ledger.Record
}

func NewInMemory() ledger.Store {
	return &InMemoryStore{
		purchases: map[string]*ledger.Record{},
	}
}

func (s *InMemoryStore) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.purchases = make(map[string]*ledger.Record)
}

func (s *InMemoryStore) CreatePurchase(ctx context.Context, record *ledger.Record) error {
	if len(record.ReceiptID) == 0 {
		return errors.New("receipt id is required")
	}
	if record.State == ledger.StateUnknown {
		return errors.New("state must be set")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.purchases[string(record.ReceiptID)]; ok {
		return ledger.ErrExists
	}

	s.purchases[string(record.ReceiptID)] = record.Clone()
	return nil
}

func (s *InMemoryStore) GetPurchase(ctx context.Context, receiptID []byte) (*ledger.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.purchases[string(receiptID)]
	if !ok {
		return nil, ledger.ErrNotFound
	}
	return record.Clone(), nil
}
