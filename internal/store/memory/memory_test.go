package memory

import (
	"testing"

	"todo-ledger/internal/store"
	"todo-ledger/internal/store/storetest"
)

func TestMemoryStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T) store.Store { return New() })
}
