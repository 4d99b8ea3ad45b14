// Package ledger records the terminal outcomes of purchase flows so a
// re-delivered receipt can be recognized and audited.
package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/imagestudio/billing-server/billing"
)

var (
	ErrExists   = errors.New("purchase already exists")
	ErrNotFound = errors.New("purchase not found")
)

type State uint8

const (
	StateUnknown State = iota
	StatePending
	StateVerified
	StateRejected
)

// Record is one purchase result. ReceiptID is derived from the exact
// payload/signature strings (model.ReceiptID) and identifies the receipt
// across deliveries.
type Record struct {
	ReceiptID []byte
	ItemType  billing.ItemType
	SKU       string
	Token     string
	State     State
	CreatedAt time.Time
}

type Store interface {
	CreatePurchase(ctx context.Context, record *Record) error
	GetPurchase(ctx context.Context, receiptID []byte) (*Record, error)
}

func (r *Record) Clone() *Record {
	receiptID := make([]byte, len(r.ReceiptID))
	copy(receiptID, r.ReceiptID)

	return &Record{
		ReceiptID: receiptID,
		ItemType:  r.ItemType,
		SKU:       r.SKU,
		Token:     r.Token,
		State:     r.State,
		CreatedAt: r.CreatedAt,
	}
}
