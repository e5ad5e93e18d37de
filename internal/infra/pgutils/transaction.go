package pgutils

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrTxConflict marks a transaction that lost a serialization or deadlock
// race. Nothing was applied; callers may retry the whole operation.
var ErrTxConflict = errors.New("transaction conflict")

// WithTx runs fn inside a transaction.
// It commits if fn returns nil, otherwise it rolls back.
func WithTx(ctx context.Context, db *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil) // default isolation level
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	err = fn(tx)
	if err != nil {
		rbErr := tx.Rollback()
		if rbErr != nil {
			return fmt.Errorf("rollback after fn error: %v (fn err: %w)", rbErr, err)
		}

		return fmt.Errorf("fn: %w", asConflict(err))
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("commit tx: %w", asConflict(err))
	}

	return nil
}

// Runner binds WithTx to a database handle so services can take the
// transaction boundary as a dependency and substitute it in tests.
type Runner struct {
	db *sql.DB
}

func NewRunner(db *sql.DB) *Runner {
	return &Runner{db: db}
}

func (r *Runner) WithTx(ctx context.Context, fn func(*sql.Tx) error) error {
	return WithTx(ctx, r.db, fn)
}

// asConflict rewraps serialization failures and deadlocks as ErrTxConflict
// while keeping the original error in the chain.
func asConflict(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "40001" || pgErr.Code == "40P01" {
			return fmt.Errorf("%w: %v", ErrTxConflict, err)
		}
	}

	return err
}
