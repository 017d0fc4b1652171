package payroll

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/payroll-jv/internal/platform/db"
)

// LeaveStatusApproved is the only leave status that produces a payout.
const LeaveStatusApproved = "approved"

// Source reads the upstream payroll tables. Implementations never write.
type Source interface {
	EmployeePayrolls(ctx context.Context, p Period) ([]EmployeePayroll, error)
	LeavePayouts(ctx context.Context, p Period, leaveType string) (map[string]decimal.Decimal, error)
	JobLocations(ctx context.Context) ([]JobLocation, error)
	RoleAssignments(ctx context.Context, role string) ([]RoleAssignment, error)
	CommissionSplitRules(ctx context.Context) ([]CommissionSplitRule, error)
}

// LoadSnapshot reads everything Aggregate needs for one period.
func LoadSnapshot(ctx context.Context, src Source, p Period, leaveType string) (Snapshot, error) {
	snap := Snapshot{Period: p}
	var err error
	if snap.Payrolls, err = src.EmployeePayrolls(ctx, p); err != nil {
		return Snapshot{}, fmt.Errorf("load payrolls: %w", err)
	}
	if snap.LeavePayouts, err = src.LeavePayouts(ctx, p, leaveType); err != nil {
		return Snapshot{}, fmt.Errorf("load leave payouts: %w", err)
	}
	if snap.JobLocations, err = src.JobLocations(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("load job locations: %w", err)
	}
	if snap.Directors, err = src.RoleAssignments(ctx, RoleDirector); err != nil {
		return Snapshot{}, fmt.Errorf("load director roster: %w", err)
	}
	if snap.SplitRules, err = src.CommissionSplitRules(ctx); err != nil {
		return Snapshot{}, fmt.Errorf("load commission split rules: %w", err)
	}
	return snap, nil
}

type repository struct {
	db db.Querier
}

// NewRepository binds the payroll reader to a pool, connection or transaction.
func NewRepository(q db.Querier) Source {
	return &repository{db: q}
}

func (r *repository) EmployeePayrolls(ctx context.Context, p Period) ([]EmployeePayroll, error) {
	rows, err := r.db.Query(ctx, `SELECT ep.id, ep.employee_id, COALESCE(ep.employee_name, ''), COALESCE(ep.job_type, ''), ep.gross_pay, ep.net_pay
FROM employee_payrolls ep
JOIN monthly_payrolls mp ON mp.id = ep.monthly_payroll_id
WHERE mp.year = $1 AND mp.month = $2
ORDER BY ep.employee_id, ep.id`, p.Year, p.Month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EmployeePayroll
	index := make(map[int64]int)
	for rows.Next() {
		var ep EmployeePayroll
		var gross, net pgtype.Numeric
		if err := rows.Scan(&ep.ID, &ep.EmployeeID, &ep.EmployeeName, &ep.JobID, &gross, &net); err != nil {
			return nil, err
		}
		ep.GrossPay = db.Decimal(gross)
		ep.NetPay = db.Decimal(net)
		index[ep.ID] = len(out)
		out = append(out, ep)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	if err := r.attachItems(ctx, p, out, index); err != nil {
		return nil, err
	}
	if err := r.attachDeductions(ctx, p, out, index); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) attachItems(ctx context.Context, p Period, out []EmployeePayroll, index map[int64]int) error {
	rows, err := r.db.Query(ctx, `SELECT pi.employee_payroll_id, pi.pay_type, COALESCE(pr.type, ''), SUM(pi.amount)
FROM payroll_items pi
JOIN employee_payrolls ep ON ep.id = pi.employee_payroll_id
JOIN monthly_payrolls mp ON mp.id = ep.monthly_payroll_id
LEFT JOIN products pr ON pr.id = pi.product_id
WHERE mp.year = $1 AND mp.month = $2
GROUP BY pi.employee_payroll_id, pi.pay_type, COALESCE(pr.type, '')
ORDER BY pi.employee_payroll_id`, p.Year, p.Month)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var item PayItem
		var amount pgtype.Numeric
		if err := rows.Scan(&id, &item.PayType, &item.ProductType, &amount); err != nil {
			return err
		}
		item.Amount = db.Decimal(amount)
		if i, ok := index[id]; ok {
			out[i].Items = append(out[i].Items, item)
		}
	}
	return rows.Err()
}

func (r *repository) attachDeductions(ctx context.Context, p Period, out []EmployeePayroll, index map[int64]int) error {
	rows, err := r.db.Query(ctx, `SELECT pd.employee_payroll_id, pd.deduction_type, SUM(pd.employee_amount), SUM(pd.employer_amount)
FROM payroll_deductions pd
JOIN employee_payrolls ep ON ep.id = pd.employee_payroll_id
JOIN monthly_payrolls mp ON mp.id = ep.monthly_payroll_id
WHERE mp.year = $1 AND mp.month = $2
GROUP BY pd.employee_payroll_id, pd.deduction_type
ORDER BY pd.employee_payroll_id`, p.Year, p.Month)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var id int64
		var d Deduction
		var employee, employer pgtype.Numeric
		if err := rows.Scan(&id, &d.Type, &employee, &employer); err != nil {
			return err
		}
		d.Employee = db.Decimal(employee)
		d.Employer = db.Decimal(employer)
		if i, ok := index[id]; ok {
			out[i].Deductions = append(out[i].Deductions, d)
		}
	}
	return rows.Err()
}

func (r *repository) LeavePayouts(ctx context.Context, p Period, leaveType string) (map[string]decimal.Decimal, error) {
	rows, err := r.db.Query(ctx, `SELECT employee_id, SUM(amount_paid)
FROM leave_records
WHERE leave_type = $1 AND status = $2 AND leave_date >= $3 AND leave_date < $4
GROUP BY employee_id`, leaveType, LeaveStatusApproved, p.Start(), p.Start().AddDate(0, 1, 0))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make(map[string]decimal.Decimal)
	for rows.Next() {
		var employeeID string
		var amount pgtype.Numeric
		if err := rows.Scan(&employeeID, &amount); err != nil {
			return nil, err
		}
		out[employeeID] = db.Decimal(amount)
	}
	return out, rows.Err()
}

func (r *repository) JobLocations(ctx context.Context) ([]JobLocation, error) {
	rows, err := r.db.Query(ctx, `SELECT job_id, location_id, COALESCE(location_name, '')
FROM job_location_mappings WHERE is_active ORDER BY job_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []JobLocation
	for rows.Next() {
		var jl JobLocation
		if err := rows.Scan(&jl.JobID, &jl.LocationID, &jl.LocationName); err != nil {
			return nil, err
		}
		out = append(out, jl)
	}
	return out, rows.Err()
}

func (r *repository) RoleAssignments(ctx context.Context, role string) ([]RoleAssignment, error) {
	rows, err := r.db.Query(ctx, `SELECT employee_id, role, location_id, COALESCE(display_label, '')
FROM employee_role_assignments WHERE role = $1 AND is_active ORDER BY employee_id`, role)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []RoleAssignment
	for rows.Next() {
		var ra RoleAssignment
		if err := rows.Scan(&ra.EmployeeID, &ra.Role, &ra.LocationID, &ra.Label); err != nil {
			return nil, err
		}
		out = append(out, ra)
	}
	return out, rows.Err()
}

func (r *repository) CommissionSplitRules(ctx context.Context) ([]CommissionSplitRule, error) {
	rows, err := r.db.Query(ctx, `SELECT location_id, category_a_product_type, category_b_product_type
FROM commission_split_rules WHERE is_active ORDER BY location_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []CommissionSplitRule
	for rows.Next() {
		var rule CommissionSplitRule
		if err := rows.Scan(&rule.LocationID, &rule.CategoryA, &rule.CategoryB); err != nil {
			return nil, err
		}
		out = append(out, rule)
	}
	return out, rows.Err()
}
