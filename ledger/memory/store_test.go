package memory

import (
	"testing"

	"github.com/imagestudio/billing-server/ledger/tests"
)

func TestLedger_MemoryStore(t *testing.T) {
	testStore := NewInMemory()
	teardown := func() {
		testStore.(*InMemoryStore).reset()
	}
	tests.RunStoreTests(t, testStore, teardown)
}
