package vouchers

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/payroll-jv/internal/accounting/mappings"
	"github.com/odyssey-erp/payroll-jv/internal/payroll"
)

var categoryLabels = map[mappings.MappingType]string{
	mappings.MappingSalary:        "Salary",
	mappings.MappingOvertime:      "Overtime",
	mappings.MappingEPFEmployer:   "EPF employer",
	mappings.MappingSOCSOEmployer: "SOCSO employer",
	mappings.MappingSIPEmployer:   "SIP employer",
	mappings.MappingCommissionA:   "Commission A",
	mappings.MappingCommissionB:   "Commission B",
	mappings.MappingLeavePayout:   "Leave payout",
	mappings.MappingAccrualSalary: "Accrued salary",
	mappings.MappingAccrualEPF:    "Accrued EPF",
	mappings.MappingAccrualSOCSO:  "Accrued SOCSO",
	mappings.MappingAccrualSIP:    "Accrued SIP",
	mappings.MappingAccrualPCB:    "Accrued PCB",
}

// HasData reports whether totals carry anything the voucher type posts.
func HasData(vt mappings.VoucherType, totals payroll.PeriodTotals) bool {
	switch vt {
	case mappings.VoucherDirector:
		return len(totals.Directors) > 0
	case mappings.VoucherStaff:
		return len(totals.Locations) > 0
	}
	return false
}

type categoryAmount struct {
	mappingType mappings.MappingType
	amount      decimal.Decimal
}

func employerDebits(a payroll.Amounts) []categoryAmount {
	return []categoryAmount{
		{mappings.MappingEPFEmployer, a.EmployerEPF},
		{mappings.MappingSOCSOEmployer, a.EmployerSOCSO},
		{mappings.MappingSIPEmployer, a.EmployerSIP},
	}
}

func statutoryCredits(a payroll.Amounts) []categoryAmount {
	return []categoryAmount{
		{mappings.MappingAccrualEPF, a.EPFPayable()},
		{mappings.MappingAccrualSOCSO, a.SOCSOPayable()},
		{mappings.MappingAccrualSIP, a.SIPPayable()},
		{mappings.MappingAccrualPCB, a.PCB},
	}
}

type builder struct {
	draft    Draft
	resolver *mappings.Resolver
}

func (b *builder) add(location, name string, mt mappings.MappingType, amount decimal.Decimal, credit bool) {
	amount = amount.Round(2)
	if amount.IsZero() {
		return
	}
	if amount.IsNegative() {
		b.draft.Negative = append(b.draft.Negative, Negative{LocationID: location, MappingType: mt, Amount: amount, Credit: credit})
		return
	}
	account, ok := b.resolver.Resolve(location, mt)
	if !ok {
		b.draft.Unmapped = append(b.draft.Unmapped, Unmapped{LocationID: location, MappingType: mt, Amount: amount, Credit: credit})
		return
	}
	line := Line{
		LineNumber:  len(b.draft.Lines) + 1,
		AccountCode: account,
		Particulars: particulars(mt, name, b.draft.ReferenceNo),
		LocationID:  location,
		MappingType: mt,
	}
	if credit {
		line.Credit = amount
	} else {
		line.Debit = amount
	}
	b.draft.Lines = append(b.draft.Lines, line)
}

func particulars(mt mappings.MappingType, name, ref string) string {
	label, ok := categoryLabels[mt]
	if !ok {
		label = string(mt)
	}
	if name == "" {
		return fmt.Sprintf("%s %s", label, ref)
	}
	return fmt.Sprintf("%s - %s %s", label, name, ref)
}

// Assemble turns period totals into a voucher draft. Debits are emitted before
// credits and lines are numbered as they are emitted. Amounts that round to
// zero produce no line. Negative amounts are listed in Draft.Negative and
// positive amounts without a mapping in Draft.Unmapped instead.
func Assemble(vt mappings.VoucherType, totals payroll.PeriodTotals, resolver *mappings.Resolver, accrualLocation string) Draft {
	p := totals.Period
	b := &builder{
		resolver: resolver,
		draft: Draft{
			VoucherType: vt,
			ReferenceNo: ReferenceNo(vt, p.Year, p.Month),
			EntryDate:   p.End(),
			Description: description(vt, p),
			Lines:       []Line{},
			Unmapped:    []Unmapped{},
			Negative:    []Negative{},
		},
	}
	switch vt {
	case mappings.VoucherStaff:
		assembleStaff(b, totals, accrualLocation)
	case mappings.VoucherDirector:
		assembleDirector(b, totals, accrualLocation)
	}
	return b.draft
}

func assembleStaff(b *builder, totals payroll.PeriodTotals, accrualLocation string) {
	for _, loc := range totals.Locations {
		debits := []categoryAmount{
			{mappings.MappingSalary, loc.Salary},
			{mappings.MappingOvertime, loc.Overtime},
		}
		debits = append(debits, employerDebits(loc.Amounts)...)
		debits = append(debits,
			categoryAmount{mappings.MappingCommissionA, loc.CommissionA},
			categoryAmount{mappings.MappingCommissionB, loc.CommissionB},
			categoryAmount{mappings.MappingLeavePayout, loc.LeavePayout},
		)
		name := loc.LocationName
		if name == "" {
			name = loc.LocationID
		}
		for _, c := range debits {
			b.add(loc.LocationID, name, c.mappingType, c.amount, false)
		}
	}

	staff := totals.StaffCombined()
	b.add(accrualLocation, "", mappings.MappingAccrualSalary, staff.NetPay, true)
	for _, c := range statutoryCredits(staff) {
		b.add(accrualLocation, "", c.mappingType, c.amount, true)
	}
}

func assembleDirector(b *builder, totals payroll.PeriodTotals, accrualLocation string) {
	combined := totals.DirectorCombined
	b.add(accrualLocation, "", mappings.MappingSalary, combined.Salary, false)
	for _, c := range employerDebits(combined) {
		b.add(accrualLocation, "", c.mappingType, c.amount, false)
	}

	for _, d := range totals.Directors {
		b.add(d.LocationID, d.Label, mappings.MappingAccrualSalary, d.NetPay, true)
	}
	for _, c := range statutoryCredits(combined) {
		b.add(accrualLocation, "", c.mappingType, c.amount, true)
	}
}

func description(vt mappings.VoucherType, p payroll.Period) string {
	month := p.Start().Format("January 2006")
	if vt == mappings.VoucherDirector {
		return "Director remuneration for " + month
	}
	return "Staff salary and wages for " + month
}
