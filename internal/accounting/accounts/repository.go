package accounts

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/odyssey-erp/payroll-jv/internal/platform/db"
)

type Repository interface {
	List(ctx context.Context) ([]AccountCode, error)
	Exists(ctx context.Context, code string) (bool, error)
}

type repository struct {
	db db.Querier
}

func NewRepository(q db.Querier) Repository {
	return &repository{db: q}
}

func (r *repository) List(ctx context.Context) ([]AccountCode, error) {
	rows, err := r.db.Query(ctx, `SELECT code, description, is_active, created_at, updated_at FROM account_codes ORDER BY code`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []AccountCode
	for rows.Next() {
		var a AccountCode
		if err := rows.Scan(&a.Code, &a.Description, &a.IsActive, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

// Exists reports whether code is present in the account master.
func (r *repository) Exists(ctx context.Context, code string) (bool, error) {
	var found string
	err := r.db.QueryRow(ctx, `SELECT code FROM account_codes WHERE code=$1`, code).Scan(&found)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
