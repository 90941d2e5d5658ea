package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// SQLExecutor is satisfied by both *sql.DB and *sql.Tx.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type txContextKey struct{}

func contextWithTx(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txContextKey{}, tx)
}

func txFromContext(ctx context.Context) (*sql.Tx, bool) {
	tx, ok := ctx.Value(txContextKey{}).(*sql.Tx)
	return tx, ok
}

// getExecutor returns the transaction carried by ctx, or db when there is none.
func getExecutor(ctx context.Context, db *sql.DB) SQLExecutor {
	if tx, ok := txFromContext(ctx); ok {
		return tx
	}
	return db
}

func checkAffectedRows(result sql.Result, notFoundError error) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check affected rows: %w", err)
	}
	if rowsAffected == 0 {
		return notFoundError
	}
	return nil
}

// pq error codes we translate.
const (
	pqUniqueViolation      = "23505"
	pqForeignKeyViolation  = "23503"
	pqCheckViolation       = "23514"
	pqSerializationFailure = "40001"
	pqDeadlockDetected     = "40P01"
)

func asPQError(err error) (*pq.Error, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr, true
	}
	return nil, false
}

func isRetryable(err error) bool {
	pqErr, ok := asPQError(err)
	if !ok {
		return false
	}
	return pqErr.Code == pqSerializationFailure || pqErr.Code == pqDeadlockDetected
}

// wrapPQError wraps a driver error the caller did not map itself. Integrity
// violations (class 23) become ErrConstraint; serialization failures and
// deadlocks keep their *pq.Error so the tx retry loop still sees them.
func wrapPQError(op string, err error) error {
	pqErr, ok := asPQError(err)
	if !ok || isRetryable(err) || pqErr.Code.Class() != "23" {
		return fmt.Errorf("%s: %w", op, err)
	}
	if pqErr.Code == pqCheckViolation {
		return fmt.Errorf("%w: %s: check %s: %w", ErrConstraint, op, pqErr.Constraint, err)
	}
	return fmt.Errorf("%w: %s: %w", ErrConstraint, op, err)
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}
