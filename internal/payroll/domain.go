package payroll

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/payroll-jv/internal/accounting/shared"
)

// Pay item types as recorded by the payroll module.
const (
	PayTypeBase       = "Base"
	PayTypeAllowance  = "Tambahan"
	PayTypeOvertime   = "Overtime"
	PayTypeCommission = "Commission"
)

// Deduction types as recorded by the payroll module.
const (
	DeductionEPF       = "EPF"
	DeductionSOCSO     = "SOCSO"
	DeductionSIP       = "SIP"
	DeductionIncomeTax = "INCOME_TAX"
)

// RoleDirector marks roster entries that post to the director voucher.
const RoleDirector = "DIRECTOR"

// DefaultJobID is the job_location_mappings row every unmapped job falls back to.
const DefaultJobID = "*"

// Period is a payroll month.
type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

// Validate checks that the period is a real month the reference format can encode.
func (p Period) Validate() error {
	if p.Year < 2000 || p.Year > 2099 {
		return fmt.Errorf("%w: year %d", shared.ErrInvalidPeriod, p.Year)
	}
	if p.Month < 1 || p.Month > 12 {
		return fmt.Errorf("%w: month %d", shared.ErrInvalidPeriod, p.Month)
	}
	return nil
}

// Start returns the first day of the period.
func (p Period) Start() time.Time {
	return time.Date(p.Year, time.Month(p.Month), 1, 0, 0, 0, 0, time.UTC)
}

// End returns the last day of the period.
func (p Period) End() time.Time {
	return p.Start().AddDate(0, 1, -1)
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, p.Month)
}

// PayItem is a pay line summed per pay type and product type.
type PayItem struct {
	PayType     string
	ProductType string
	Amount      decimal.Decimal
}

// Deduction is a statutory deduction with employee and employer shares.
type Deduction struct {
	Type     string
	Employee decimal.Decimal
	Employer decimal.Decimal
}

// EmployeePayroll is one employee's processed payroll for the period.
type EmployeePayroll struct {
	ID           int64
	EmployeeID   string
	EmployeeName string
	JobID        string
	GrossPay     decimal.Decimal
	NetPay       decimal.Decimal
	Items        []PayItem
	Deductions   []Deduction
}

// JobLocation maps a job code to its posting location.
type JobLocation struct {
	JobID        string
	LocationID   string
	LocationName string
}

// RoleAssignment classifies an employee, e.g. onto the director roster.
type RoleAssignment struct {
	EmployeeID string
	Role       string
	LocationID string
	Label      string
}

// CommissionSplitRule names the product types whose commission a location posts separately.
type CommissionSplitRule struct {
	LocationID string
	CategoryA  string
	CategoryB  string
}

// Snapshot holds every upstream row the aggregation reads for one period.
type Snapshot struct {
	Period       Period
	Payrolls     []EmployeePayroll
	LeavePayouts map[string]decimal.Decimal
	JobLocations []JobLocation
	Directors    []RoleAssignment
	SplitRules   []CommissionSplitRule
}
