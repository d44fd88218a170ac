package driver

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubTx embeds pgx.Tx for interface coverage and overrides only the
// lifecycle methods the transaction manager touches.
type stubTx struct {
	pgx.Tx
	commitErr   error
	rollbackErr error
	committed   bool
	rolledBack  bool
}

func (tx *stubTx) Commit(_ context.Context) error {
	tx.committed = true
	return tx.commitErr
}

func (tx *stubTx) Rollback(_ context.Context) error {
	tx.rolledBack = true
	return tx.rollbackErr
}

type stubPool struct {
	tx       *stubTx
	beginErr error
}

func (p *stubPool) Exec(_ context.Context, _ string, _ ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (p *stubPool) Query(_ context.Context, _ string, _ ...any) (pgx.Rows, error) {
	return nil, nil
}

func (p *stubPool) QueryRow(_ context.Context, _ string, _ ...any) pgx.Row {
	return nil
}

func (p *stubPool) Begin(_ context.Context) (pgx.Tx, error) {
	if p.beginErr != nil {
		return nil, p.beginErr
	}
	return p.tx, nil
}

func TestExecuteTransactionCommitsOnSuccess(t *testing.T) {
	tx := &stubTx{}
	tm := NewTransactionManager(&stubPool{tx: tx})

	err := tm.ExecuteTransaction(context.Background(), func(_ pgx.Tx) error {
		return nil
	})
	require.NoError(t, err)
	assert.True(t, tx.committed)
	assert.False(t, tx.rolledBack)
}

func TestExecuteTransactionRollsBackOnError(t *testing.T) {
	tx := &stubTx{}
	tm := NewTransactionManager(&stubPool{tx: tx})
	unitErr := errors.New("constraint violated")

	err := tm.ExecuteTransaction(context.Background(), func(_ pgx.Tx) error {
		return unitErr
	})
	assert.ErrorIs(t, err, unitErr)
	assert.True(t, tx.rolledBack)
	assert.False(t, tx.committed)
}

func TestExecuteTransactionIgnoresWrappedTxClosedOnRollback(t *testing.T) {
	tx := &stubTx{rollbackErr: fmt.Errorf("conn teardown: %w", pgx.ErrTxClosed)}
	tm := NewTransactionManager(&stubPool{tx: tx})
	unitErr := errors.New("constraint violated")

	err := tm.ExecuteTransaction(context.Background(), func(_ pgx.Tx) error {
		return unitErr
	})
	// A rollback error that wraps ErrTxClosed is benign noise; the unit of
	// work's own error comes back unmodified.
	assert.ErrorIs(t, err, unitErr)
	assert.NotErrorIs(t, err, pgx.ErrTxClosed)
}

func TestExecuteTransactionSurfacesRealRollbackFailure(t *testing.T) {
	rbErr := errors.New("connection reset")
	tx := &stubTx{rollbackErr: rbErr}
	tm := NewTransactionManager(&stubPool{tx: tx})
	unitErr := errors.New("constraint violated")

	err := tm.ExecuteTransaction(context.Background(), func(_ pgx.Tx) error {
		return unitErr
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, unitErr)
	assert.Contains(t, err.Error(), "rollback failed")
}

func TestExecuteTransactionWrapsCommitError(t *testing.T) {
	commitErr := errors.New("serialization failure")
	tx := &stubTx{commitErr: commitErr}
	tm := NewTransactionManager(&stubPool{tx: tx})

	err := tm.ExecuteTransaction(context.Background(), func(_ pgx.Tx) error {
		return nil
	})
	assert.ErrorIs(t, err, commitErr)
}

func TestExecuteTransactionBeginFailure(t *testing.T) {
	beginErr := errors.New("pool exhausted")
	tm := NewTransactionManager(&stubPool{beginErr: beginErr})

	err := tm.ExecuteTransaction(context.Background(), func(_ pgx.Tx) error {
		t.Fatal("unit of work must not run when Begin fails")
		return nil
	})
	assert.ErrorIs(t, err, beginErr)
}
