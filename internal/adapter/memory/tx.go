package memory

import (
	"context"
	"sync"
)

type txKey struct{}

// TxManager runs transactions one at a time, standing in for the row lock
// the Postgres ledger takes. Nested calls reuse the outer transaction.
// There is no rollback in memory.
type TxManager struct {
	mu sync.Mutex
}

// NewTxManager creates a TxManager.
func NewTxManager() *TxManager {
	return &TxManager{}
}

// RunInTx calls fn while holding the transaction lock.
func (m *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, struct{}{}))
}
