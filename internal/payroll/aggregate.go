package payroll

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/payroll-jv/internal/accounting/shared"
)

// Aggregate folds a period snapshot into per-location staff totals and
// per-director totals. It performs no I/O.
func Aggregate(s Snapshot) (PeriodTotals, error) {
	out := PeriodTotals{Period: s.Period, Locations: []LocationTotals{}, Directors: []DirectorTotals{}}

	jobs := make(map[string]JobLocation, len(s.JobLocations))
	for _, jl := range s.JobLocations {
		if _, dup := jobs[jl.JobID]; !dup {
			jobs[jl.JobID] = jl
		}
	}
	directors := make(map[string]RoleAssignment, len(s.Directors))
	for _, d := range s.Directors {
		directors[d.EmployeeID] = d
	}
	splits := make(map[string]CommissionSplitRule, len(s.SplitRules))
	for _, r := range s.SplitRules {
		splits[r.LocationID] = r
	}

	locations := make(map[string]*LocationTotals)
	headcount := make(map[string]map[string]struct{})
	byDirector := make(map[string]*DirectorTotals)
	leaveApplied := make(map[string]bool)

	for _, p := range s.Payrolls {
		if d, ok := directors[p.EmployeeID]; ok {
			amt := directorAmounts(p)
			dt, seen := byDirector[p.EmployeeID]
			if !seen {
				dt = &DirectorTotals{EmployeeID: d.EmployeeID, Label: d.Label, LocationID: d.LocationID}
				if dt.Label == "" {
					dt.Label = p.EmployeeName
				}
				byDirector[p.EmployeeID] = dt
			}
			dt.Add(amt)
			continue
		}

		loc, err := resolveLocation(jobs, p.JobID)
		if err != nil {
			return PeriodTotals{}, fmt.Errorf("employee %s: %w", p.EmployeeID, err)
		}

		var leave decimal.Decimal
		if !leaveApplied[p.EmployeeID] {
			leave = s.LeavePayouts[p.EmployeeID]
			leaveApplied[p.EmployeeID] = true
		}
		var rule *CommissionSplitRule
		if r, ok := splits[loc.LocationID]; ok {
			rule = &r
		}
		amt := staffAmounts(p, rule, leave)

		lt, seen := locations[loc.LocationID]
		if !seen {
			lt = &LocationTotals{LocationID: loc.LocationID, LocationName: loc.LocationName}
			locations[loc.LocationID] = lt
			headcount[loc.LocationID] = make(map[string]struct{})
		}
		lt.Add(amt)
		headcount[loc.LocationID][p.EmployeeID] = struct{}{}
	}

	for id, lt := range locations {
		if lt.IsZero() {
			continue
		}
		lt.Employees = len(headcount[id])
		out.Locations = append(out.Locations, *lt)
	}
	sort.Slice(out.Locations, func(i, j int) bool {
		return out.Locations[i].LocationID < out.Locations[j].LocationID
	})

	for _, dt := range byDirector {
		if dt.IsZero() {
			continue
		}
		out.Directors = append(out.Directors, *dt)
		out.DirectorCombined.Add(dt.Amounts)
	}
	sort.Slice(out.Directors, func(i, j int) bool {
		a, b := out.Directors[i], out.Directors[j]
		if a.Label != b.Label {
			return a.Label < b.Label
		}
		return a.EmployeeID < b.EmployeeID
	})

	return out, nil
}

func resolveLocation(jobs map[string]JobLocation, jobID string) (JobLocation, error) {
	if jl, ok := jobs[jobID]; ok && jobID != "" {
		return jl, nil
	}
	if jl, ok := jobs[DefaultJobID]; ok {
		return jl, nil
	}
	return JobLocation{}, fmt.Errorf("%w: job %q", shared.ErrNoDefaultLocation, jobID)
}

// staffAmounts carves gross pay into the categories the staff voucher debits.
// Salary takes the remainder so the debit side always sums to gross. The leave
// payout comes from leave records rather than gross, so it is capped at what
// gross has left after overtime and split commission.
func staffAmounts(p EmployeePayroll, rule *CommissionSplitRule, leave decimal.Decimal) Amounts {
	a := Amounts{GrossPay: p.GrossPay, NetPay: p.NetPay}
	for _, it := range p.Items {
		switch it.PayType {
		case PayTypeOvertime:
			a.Overtime = a.Overtime.Add(it.Amount)
		case PayTypeCommission:
			if rule == nil {
				continue
			}
			switch it.ProductType {
			case rule.CategoryA:
				a.CommissionA = a.CommissionA.Add(it.Amount)
			case rule.CategoryB:
				a.CommissionB = a.CommissionB.Add(it.Amount)
			}
		}
	}
	applyDeductions(&a, p.Deductions)
	remaining := a.GrossPay.Sub(a.Overtime).Sub(a.CommissionA).Sub(a.CommissionB)
	a.LeavePayout = decimal.Max(decimal.Min(leave, remaining), decimal.Zero)
	a.Salary = remaining.Sub(a.LeavePayout)
	return a
}

// directorAmounts posts the whole gross as salary.
func directorAmounts(p EmployeePayroll) Amounts {
	a := Amounts{GrossPay: p.GrossPay, NetPay: p.NetPay, Salary: p.GrossPay}
	applyDeductions(&a, p.Deductions)
	return a
}

func applyDeductions(a *Amounts, deductions []Deduction) {
	for _, d := range deductions {
		switch d.Type {
		case DeductionEPF:
			a.EmployeeEPF = a.EmployeeEPF.Add(d.Employee)
			a.EmployerEPF = a.EmployerEPF.Add(d.Employer)
		case DeductionSOCSO:
			a.EmployeeSOCSO = a.EmployeeSOCSO.Add(d.Employee)
			a.EmployerSOCSO = a.EmployerSOCSO.Add(d.Employer)
		case DeductionSIP:
			a.EmployeeSIP = a.EmployeeSIP.Add(d.Employee)
			a.EmployerSIP = a.EmployerSIP.Add(d.Employer)
		case DeductionIncomeTax:
			a.PCB = a.PCB.Add(d.Employee)
		}
	}
}
