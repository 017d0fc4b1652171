package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TxMode selects the transaction flavour used by WithTx.
type TxMode int

const (
	// ReadWrite runs at RepeatableRead and may mutate.
	ReadWrite TxMode = iota
	// ReadOnly runs at RepeatableRead in a read-only transaction.
	ReadOnly
)

func (m TxMode) options() pgx.TxOptions {
	opts := pgx.TxOptions{IsoLevel: pgx.RepeatableRead}
	if m == ReadOnly {
		opts.AccessMode = pgx.ReadOnly
	}
	return opts
}

// WithTx acquires exactly one pooled connection, runs fn inside a single
// transaction on it and releases the connection on every path.
func WithTx(ctx context.Context, pool *pgxpool.Pool, mode TxMode, fn func(pgx.Tx) error) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("platform/db: acquire conn: %w", err)
	}
	defer conn.Release()

	tx, err := conn.BeginTx(ctx, mode.options())
	if err != nil {
		return fmt.Errorf("platform/db: begin tx: %w", err)
	}

	defer func() {
		_ = tx.Rollback(ctx)
	}()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("platform/db: commit tx: %w", err)
	}

	return nil
}
