package vouchers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/payroll-jv/internal/accounting/journals"
	"github.com/odyssey-erp/payroll-jv/internal/accounting/mappings"
	"github.com/odyssey-erp/payroll-jv/internal/payroll"
)

// Skip reasons reported for voucher types that were not generated.
const (
	ReasonAlreadyExists = "already exists"
	ReasonNoData        = "no qualifying payroll data"
)

// GenerateRequest is the body of a generate call.
type GenerateRequest struct {
	Year         int      `json:"year" validate:"required,gte=2000,lte=2099"`
	Month        int      `json:"month" validate:"required,gte=1,lte=12"`
	VoucherTypes []string `json:"voucher_types"`
	CreatedBy    string   `json:"created_by"`
}

// Outcome is the per voucher type result of a generate call.
type Outcome struct {
	VoucherType mappings.VoucherType `json:"voucher_type"`
	ReferenceNo string               `json:"reference_no"`
	Created     bool                 `json:"created"`
	Skipped     bool                 `json:"skipped"`
	Reason      string               `json:"reason,omitempty"`
	EntryID     int64                `json:"entry_id,omitempty"`
	LineCount   int                  `json:"line_count,omitempty"`
	TotalDebit  decimal.Decimal      `json:"total_debit"`
	TotalCredit decimal.Decimal      `json:"total_credit"`
}

// GenerateResult groups outcomes; only requested voucher types are set.
type GenerateResult struct {
	Period       payroll.Period `json:"period"`
	GenerationID uuid.UUID      `json:"generation_id"`
	JVDR         *Outcome       `json:"jvdr,omitempty"`
	JVSL         *Outcome       `json:"jvsl,omitempty"`
}

func (r *GenerateResult) set(o Outcome) {
	switch o.VoucherType {
	case mappings.VoucherDirector:
		r.JVDR = &o
	case mappings.VoucherStaff:
		r.JVSL = &o
	}
}

// Outcomes lists the set outcomes in generation order.
func (r GenerateResult) Outcomes() []Outcome {
	var out []Outcome
	for _, o := range []*Outcome{r.JVDR, r.JVSL} {
		if o != nil {
			out = append(out, *o)
		}
	}
	return out
}

// AnySkipped reports whether any requested voucher type was skipped.
func (r GenerateResult) AnySkipped() bool {
	for _, o := range r.Outcomes() {
		if o.Skipped {
			return true
		}
	}
	return false
}

// VoucherPreview is the read-only view of one voucher type for a period.
type VoucherPreview struct {
	VoucherType mappings.VoucherType     `json:"voucher_type"`
	ReferenceNo string                   `json:"reference_no"`
	Exists      bool                     `json:"exists"`
	EntryID     int64                    `json:"entry_id,omitempty"`
	HasData     bool                     `json:"has_data"`
	Locations   []payroll.LocationTotals `json:"locations,omitempty"`
	Directors   []payroll.DirectorTotals `json:"directors,omitempty"`
	Draft       Draft                    `json:"draft"`
	TotalDebit  decimal.Decimal          `json:"total_debit"`
	TotalCredit decimal.Decimal          `json:"total_credit"`
	Balanced    bool                     `json:"balanced"`
	Warnings    []string                 `json:"warnings"`
}

// Preview is the result of a preview call.
type Preview struct {
	Period   payroll.Period   `json:"period"`
	Vouchers []VoucherPreview `json:"vouchers"`
}

// CheckEntry is the stored metadata of one voucher type, if generated.
type CheckEntry struct {
	VoucherType mappings.VoucherType   `json:"voucher_type"`
	ReferenceNo string                 `json:"reference_no"`
	Exists      bool                   `json:"exists"`
	EntryID     int64                  `json:"entry_id,omitempty"`
	EntryDate   *time.Time             `json:"entry_date,omitempty"`
	Status      journals.JournalStatus `json:"status,omitempty"`
	CreatedBy   string                 `json:"created_by,omitempty"`
	CreatedAt   *time.Time             `json:"created_at,omitempty"`
}

// Check is the result of a check call.
type Check struct {
	Period   payroll.Period `json:"period"`
	Vouchers []CheckEntry   `json:"vouchers"`
}
