package storage

import (
	"context"
	"database/sql"
)

// Querier is the statement surface shared by *sql.DB, *sql.Tx and *TimedDB.
// Stores take a Querier so the same store runs inside or outside a transaction.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// SQLDB is a Querier that can also start transactions.
// Both *sql.DB and *TimedDB satisfy this interface.
type SQLDB interface {
	Querier
	BeginTx(ctx context.Context, opts *sql.TxOptions) (*sql.Tx, error)
}

var (
	_ Querier = (*sql.Tx)(nil)
	_ SQLDB   = (*sql.DB)(nil)
)
