package driver

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jackc/pgx/v5"
)

// TransactionManager wraps a unit of work in a database transaction. Every
// negotiation transition runs its whole read-modify-write inside one
// transaction so row locks taken during the read phase hold until commit.
type TransactionManager interface {
	ExecuteTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error
}

type transactionManager struct {
	pool PostgresPool
}

func NewTransactionManager(pool PostgresPool) TransactionManager {
	return &transactionManager{pool: pool}
}

func (tm *transactionManager) ExecuteTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := tm.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return fmt.Errorf("rollback failed: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// memoryTransactionManager runs the unit of work with a nil transaction,
// serialized under one mutex. In-memory repositories ignore the tx argument;
// the mutex stands in for the row lock the pgx implementation takes, so
// concurrent read-modify-write sequences never interleave in tests.
type memoryTransactionManager struct {
	mu sync.Mutex
}

func NewMemoryTransactionManager() TransactionManager {
	return &memoryTransactionManager{}
}

func (tm *memoryTransactionManager) ExecuteTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()
	return fn(nil)
}
