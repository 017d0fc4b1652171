package mappings

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/odyssey-erp/payroll-jv/internal/accounting/shared"
	"github.com/odyssey-erp/payroll-jv/internal/platform/db"
)

const uniqueTupleConstraint = "uq_location_account_mappings_tuple"

type Repository interface {
	List(ctx context.Context, filter ListFilter) ([]LocationAccountMapping, error)
	Get(ctx context.Context, id int64) (LocationAccountMapping, error)
	TupleExists(ctx context.Context, locationID string, mappingType MappingType, voucherType VoucherType) (bool, error)
	Create(ctx context.Context, m LocationAccountMapping) (LocationAccountMapping, error)
	Update(ctx context.Context, m LocationAccountMapping) (LocationAccountMapping, error)
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db db.Querier
}

// NewRepository binds the repository to a pool, connection or transaction.
func NewRepository(q db.Querier) Repository {
	return &repository{db: q}
}

const selectMapping = `SELECT m.id, m.location_id, m.location_name, m.mapping_type, m.account_code,
COALESCE(a.description, ''), m.voucher_type, m.is_active, m.created_by, m.updated_by, m.created_at, m.updated_at
FROM location_account_mappings m
LEFT JOIN account_codes a ON a.code = m.account_code`

func (r *repository) List(ctx context.Context, filter ListFilter) ([]LocationAccountMapping, error) {
	query := selectMapping + ` WHERE 1=1`
	args := []any{}
	if filter.VoucherType != "" {
		args = append(args, filter.VoucherType)
		query += ` AND m.voucher_type = $` + strconv.Itoa(len(args))
	}
	if filter.LocationID != "" {
		args = append(args, filter.LocationID)
		query += ` AND m.location_id = $` + strconv.Itoa(len(args))
	}
	if filter.IsActive != nil {
		args = append(args, *filter.IsActive)
		query += ` AND m.is_active = $` + strconv.Itoa(len(args))
	}
	query += ` ORDER BY m.voucher_type, m.location_id, m.mapping_type`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []LocationAccountMapping
	for rows.Next() {
		m, err := scanMapping(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *repository) Get(ctx context.Context, id int64) (LocationAccountMapping, error) {
	m, err := scanMapping(r.db.QueryRow(ctx, selectMapping+` WHERE m.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LocationAccountMapping{}, shared.ErrMappingNotFound
		}
		return LocationAccountMapping{}, err
	}
	return m, nil
}

func (r *repository) TupleExists(ctx context.Context, locationID string, mappingType MappingType, voucherType VoucherType) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM location_account_mappings
WHERE location_id = $1 AND mapping_type = $2 AND voucher_type = $3)`, locationID, mappingType, voucherType).Scan(&exists)
	return exists, err
}

func (r *repository) Create(ctx context.Context, m LocationAccountMapping) (LocationAccountMapping, error) {
	err := r.db.QueryRow(ctx, `INSERT INTO location_account_mappings
(location_id, location_name, mapping_type, account_code, voucher_type, is_active, created_by, updated_by)
VALUES ($1,$2,$3,$4,$5,$6,$7,$7) RETURNING id, created_at, updated_at`,
		m.LocationID, m.LocationName, m.MappingType, m.AccountCode, m.VoucherType, m.IsActive, m.CreatedBy).
		Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if db.IsUniqueViolation(err, uniqueTupleConstraint) {
			return LocationAccountMapping{}, shared.ErrDuplicateMapping
		}
		return LocationAccountMapping{}, err
	}
	m.UpdatedBy = m.CreatedBy
	return m, nil
}

func (r *repository) Update(ctx context.Context, m LocationAccountMapping) (LocationAccountMapping, error) {
	err := r.db.QueryRow(ctx, `UPDATE location_account_mappings
SET location_name = $2, account_code = $3, is_active = $4, updated_by = $5, updated_at = NOW()
WHERE id = $1 RETURNING updated_at`, m.ID, m.LocationName, m.AccountCode, m.IsActive, m.UpdatedBy).
		Scan(&m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return LocationAccountMapping{}, shared.ErrMappingNotFound
		}
		return LocationAccountMapping{}, err
	}
	return m, nil
}

func (r *repository) Delete(ctx context.Context, id int64) error {
	cmd, err := r.db.Exec(ctx, `DELETE FROM location_account_mappings WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return shared.ErrMappingNotFound
	}
	return nil
}

func scanMapping(row pgx.Row) (LocationAccountMapping, error) {
	var m LocationAccountMapping
	err := row.Scan(&m.ID, &m.LocationID, &m.LocationName, &m.MappingType, &m.AccountCode,
		&m.AccountDescription, &m.VoucherType, &m.IsActive, &m.CreatedBy, &m.UpdatedBy, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}
