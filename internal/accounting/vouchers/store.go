package vouchers

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/odyssey-erp/payroll-jv/internal/accounting/journals"
	"github.com/odyssey-erp/payroll-jv/internal/accounting/mappings"
	"github.com/odyssey-erp/payroll-jv/internal/payroll"
	"github.com/odyssey-erp/payroll-jv/internal/platform/db"
)

// Store abstracts the single-connection transaction every request runs in.
type Store interface {
	WithTx(ctx context.Context, mode db.TxMode, fn func(context.Context, TxStore) error) error
}

// TxStore exposes the repositories bound to one transaction.
type TxStore interface {
	Payroll() payroll.Source
	Mappings() mappings.Repository
	Journals() journals.Repository
}

type pgStore struct {
	pool *pgxpool.Pool
}

// NewStore returns a Store backed by pool.
func NewStore(pool *pgxpool.Pool) Store {
	return &pgStore{pool: pool}
}

func (s *pgStore) WithTx(ctx context.Context, mode db.TxMode, fn func(context.Context, TxStore) error) error {
	return db.WithTx(ctx, s.pool, mode, func(tx pgx.Tx) error {
		return fn(ctx, txStore{
			payroll:  payroll.NewRepository(tx),
			mappings: mappings.NewRepository(tx),
			journals: journals.NewRepository(tx),
		})
	})
}

type txStore struct {
	payroll  payroll.Source
	mappings mappings.Repository
	journals journals.Repository
}

func (t txStore) Payroll() payroll.Source       { return t.payroll }
func (t txStore) Mappings() mappings.Repository { return t.mappings }
func (t txStore) Journals() journals.Repository { return t.journals }
