package tests

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/imagestudio/billing-server/billing"
	"github.com/imagestudio/billing-server/ledger"
	"github.com/imagestudio/billing-server/model"
)

func RunStoreTests(t *testing.T, s ledger.Store, teardown func()) {
	for _, tf := range []func(t *testing.T, s ledger.Store){
		testLedgerStore_HappyPath,
		testLedgerStore_DuplicateReceipt,
		testLedgerStore_RejectedPurchase,
	} {
		tf(t, s)
		teardown()
	}
}

func newTestRecord(state ledger.State) *ledger.Record {
	token := uuid.NewString()
	return &ledger.Record{
		ReceiptID: model.ReceiptID(`{"productId":"premium_upgrade","purchaseToken":"`+token+`"}`, "sig"),
		ItemType:  billing.ItemTypeInApp,
		SKU:       "premium_upgrade",
		Token:     token,
		State:     state,
		CreatedAt: time.Now(),
	}
}

func testLedgerStore_HappyPath(t *testing.T, store ledger.Store) {
	ctx := context.Background()
	expected := newTestRecord(ledger.StateVerified)

	_, err := store.GetPurchase(ctx, expected.ReceiptID)
	require.Equal(t, ledger.ErrNotFound, err)

	require.NoError(t, store.CreatePurchase(ctx, expected))

	actual, err := store.GetPurchase(ctx, expected.ReceiptID)
	require.NoError(t, err)
	require.Equal(t, expected.ReceiptID, actual.ReceiptID)
	require.Equal(t, expected.ItemType, actual.ItemType)
	require.Equal(t, expected.SKU, actual.SKU)
	require.Equal(t, expected.Token, actual.Token)
	require.Equal(t, expected.State, actual.State)
	require.False(t, actual.CreatedAt.IsZero())
}

func testLedgerStore_DuplicateReceipt(t *testing.T, store ledger.Store) {
	ctx := context.Background()
	record := newTestRecord(ledger.StateVerified)

	require.NoError(t, store.CreatePurchase(ctx, record))
	require.Equal(t, ledger.ErrExists, store.CreatePurchase(ctx, record))

	// A different receipt for the same SKU is a separate purchase.
	other := newTestRecord(ledger.StateVerified)
	require.NoError(t, store.CreatePurchase(ctx, other))
}

func testLedgerStore_RejectedPurchase(t *testing.T, store ledger.Store) {
	ctx := context.Background()
	record := newTestRecord(ledger.StateRejected)

	require.NoError(t, store.CreatePurchase(ctx, record))

	actual, err := store.GetPurchase(ctx, record.ReceiptID)
	require.NoError(t, err)
	require.Equal(t, ledger.StateRejected, actual.State)
}
