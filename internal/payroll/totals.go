package payroll

import "github.com/shopspring/decimal"

// Amounts are the per-category totals for one location or director.
type Amounts struct {
	GrossPay      decimal.Decimal `json:"gross_pay"`
	NetPay        decimal.Decimal `json:"net_pay"`
	Salary        decimal.Decimal `json:"salary"`
	Overtime      decimal.Decimal `json:"overtime"`
	CommissionA   decimal.Decimal `json:"commission_a"`
	CommissionB   decimal.Decimal `json:"commission_b"`
	LeavePayout   decimal.Decimal `json:"leave_payout"`
	EmployerEPF   decimal.Decimal `json:"employer_epf"`
	EmployerSOCSO decimal.Decimal `json:"employer_socso"`
	EmployerSIP   decimal.Decimal `json:"employer_sip"`
	EmployeeEPF   decimal.Decimal `json:"employee_epf"`
	EmployeeSOCSO decimal.Decimal `json:"employee_socso"`
	EmployeeSIP   decimal.Decimal `json:"employee_sip"`
	PCB           decimal.Decimal `json:"pcb"`
}

func (a Amounts) fields() []decimal.Decimal {
	return []decimal.Decimal{
		a.GrossPay, a.NetPay, a.Salary, a.Overtime, a.CommissionA, a.CommissionB, a.LeavePayout,
		a.EmployerEPF, a.EmployerSOCSO, a.EmployerSIP, a.EmployeeEPF, a.EmployeeSOCSO, a.EmployeeSIP, a.PCB,
	}
}

// Add accumulates b into a.
func (a *Amounts) Add(b Amounts) {
	a.GrossPay = a.GrossPay.Add(b.GrossPay)
	a.NetPay = a.NetPay.Add(b.NetPay)
	a.Salary = a.Salary.Add(b.Salary)
	a.Overtime = a.Overtime.Add(b.Overtime)
	a.CommissionA = a.CommissionA.Add(b.CommissionA)
	a.CommissionB = a.CommissionB.Add(b.CommissionB)
	a.LeavePayout = a.LeavePayout.Add(b.LeavePayout)
	a.EmployerEPF = a.EmployerEPF.Add(b.EmployerEPF)
	a.EmployerSOCSO = a.EmployerSOCSO.Add(b.EmployerSOCSO)
	a.EmployerSIP = a.EmployerSIP.Add(b.EmployerSIP)
	a.EmployeeEPF = a.EmployeeEPF.Add(b.EmployeeEPF)
	a.EmployeeSOCSO = a.EmployeeSOCSO.Add(b.EmployeeSOCSO)
	a.EmployeeSIP = a.EmployeeSIP.Add(b.EmployeeSIP)
	a.PCB = a.PCB.Add(b.PCB)
}

// IsZero reports whether every category is zero.
func (a Amounts) IsZero() bool {
	for _, v := range a.fields() {
		if !v.IsZero() {
			return false
		}
	}
	return true
}

// EPFPayable is the employee plus employer EPF owed to the fund.
func (a Amounts) EPFPayable() decimal.Decimal { return a.EmployeeEPF.Add(a.EmployerEPF) }

// SOCSOPayable is the employee plus employer SOCSO owed.
func (a Amounts) SOCSOPayable() decimal.Decimal { return a.EmployeeSOCSO.Add(a.EmployerSOCSO) }

// SIPPayable is the employee plus employer SIP owed.
func (a Amounts) SIPPayable() decimal.Decimal { return a.EmployeeSIP.Add(a.EmployerSIP) }

// LocationTotals are staff totals for one posting location.
type LocationTotals struct {
	LocationID   string `json:"location_id"`
	LocationName string `json:"location_name"`
	Employees    int    `json:"employees"`
	Amounts
}

// DirectorTotals are one director's totals. Directors are never merged.
type DirectorTotals struct {
	EmployeeID string `json:"employee_id"`
	Label      string `json:"label"`
	LocationID string `json:"location_id"`
	Amounts
}

// PeriodTotals is the aggregation result for one period.
type PeriodTotals struct {
	Period           Period           `json:"period"`
	Locations        []LocationTotals `json:"locations"`
	Directors        []DirectorTotals `json:"directors"`
	DirectorCombined Amounts          `json:"director_combined"`
}

// StaffCombined sums every location.
func (t PeriodTotals) StaffCombined() Amounts {
	var sum Amounts
	for _, loc := range t.Locations {
		sum.Add(loc.Amounts)
	}
	return sum
}
