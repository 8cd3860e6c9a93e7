package memory

import (
	"context"
	"sync"

	"curriculum/internal/domain/repositories"
)

// TransactionManager runs transactions one at a time. The in-memory store
// has no rollback; a failing function leaves earlier writes in place.
type TransactionManager struct {
	mu sync.Mutex
}

// NewTransactionManager creates a transaction manager for the in-memory store
func NewTransactionManager() repositories.TransactionManager {
	return &TransactionManager{}
}

// ExecTx runs fn while holding the store-wide transaction lock
func (tm *TransactionManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return fn(ctx)
}
