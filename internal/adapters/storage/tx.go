package storage

import (
	"context"
	"fmt"
)

// RunInTx runs fn inside a transaction.
// PRE: db is a valid database connection
// POST: committed when fn returns nil; rolled back on error or panic
func RunInTx(ctx context.Context, db SQLDB, fn func(q Querier) error) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
