package repositories

import (
	"context"
	"database/sql"
	"fmt"
)

// TxManager runs fn as one unit of work. Repositories called with the ctx
// handed to fn join the same transaction. Nested calls reuse the outer one.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

const defaultTxRetries = 3

type postgresTxManager struct {
	db         *sql.DB
	maxRetries int
}

func NewPostgresTxManager(db *sql.DB) TxManager {
	return &postgresTxManager{db: db, maxRetries: defaultTxRetries}
}

// WithinTx runs fn in a SERIALIZABLE transaction and retries it when Postgres
// reports a serialization failure or deadlock.
func (m *postgresTxManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := txFromContext(ctx); ok {
		return fn(ctx)
	}

	var err error
	for attempt := 0; attempt <= m.maxRetries; attempt++ {
		err = m.runOnce(ctx, fn)
		if err == nil || !isRetryable(err) {
			return err
		}
	}
	return fmt.Errorf("transaction failed after %d attempts: %w", m.maxRetries+1, err)
}

func (m *postgresTxManager) runOnce(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	tx, err := m.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable})
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(contextWithTx(ctx, tx)); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
