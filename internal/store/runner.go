package store

import (
	"context"
	"database/sql"
)

// TxRunner abstracts the unit-of-work boundary so services can run
// multi-store operations atomically without holding the *sql.DB themselves.
type TxRunner interface {
	// RunInTransaction executes fn within a single transaction; it commits
	// when fn returns nil and rolls back otherwise.
	RunInTransaction(ctx context.Context, fn TxFn) error
}

// sqlTxRunner is the database-backed TxRunner.
type sqlTxRunner struct {
	db *sql.DB
}

// NewTxRunner creates a TxRunner over the given database handle.
func NewTxRunner(db *sql.DB) TxRunner {
	return &sqlTxRunner{db: db}
}

func (r *sqlTxRunner) RunInTransaction(ctx context.Context, fn TxFn) error {
	return RunInTransaction(ctx, r.db, fn)
}
