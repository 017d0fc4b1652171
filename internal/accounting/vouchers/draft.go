package vouchers

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/payroll-jv/internal/accounting/journals"
	"github.com/odyssey-erp/payroll-jv/internal/accounting/mappings"
)

// Line is an assembled posting line with the location and category it came from.
type Line struct {
	LineNumber  int                  `json:"line_number"`
	AccountCode string               `json:"account_code"`
	Debit       decimal.Decimal      `json:"debit"`
	Credit      decimal.Decimal      `json:"credit"`
	Particulars string               `json:"particulars"`
	LocationID  string               `json:"location_id"`
	MappingType mappings.MappingType `json:"mapping_type"`
}

// Unmapped is a nonzero amount that found no active mapping and so has no line.
type Unmapped struct {
	LocationID  string               `json:"location_id"`
	MappingType mappings.MappingType `json:"mapping_type"`
	Amount      decimal.Decimal      `json:"amount"`
	Credit      bool                 `json:"credit"`
}

// Negative is a category that summed below zero. It gets no line because a
// posting line must carry a positive amount.
type Negative struct {
	LocationID  string               `json:"location_id"`
	MappingType mappings.MappingType `json:"mapping_type"`
	Amount      decimal.Decimal      `json:"amount"`
	Credit      bool                 `json:"credit"`
}

// Draft is an assembled, not yet persisted voucher.
type Draft struct {
	VoucherType mappings.VoucherType `json:"voucher_type"`
	ReferenceNo string               `json:"reference_no"`
	EntryDate   time.Time            `json:"entry_date"`
	Description string               `json:"description"`
	Lines       []Line               `json:"lines"`
	Unmapped    []Unmapped           `json:"unmapped"`
	Negative    []Negative           `json:"negative"`
}

// Postable reports whether every nonzero amount made it onto a line.
func (d Draft) Postable() bool {
	return len(d.Unmapped) == 0 && len(d.Negative) == 0
}

// Totals returns both sides of the draft.
func (d Draft) Totals() (debit, credit decimal.Decimal) {
	return journals.Totals(d.postingLines())
}

// PostingInput converts the draft into a journal posting.
func (d Draft) PostingInput(createdBy string, generationID uuid.UUID) journals.PostingInput {
	return journals.PostingInput{
		ReferenceNo:  d.ReferenceNo,
		EntryDate:    d.EntryDate,
		EntryType:    string(d.VoucherType),
		Description:  d.Description,
		CreatedBy:    createdBy,
		GenerationID: generationID,
		Lines:        d.postingLines(),
	}
}

// Validate applies the journal posting rules to the draft.
func (d Draft) Validate() error {
	return d.PostingInput("", uuid.Nil).Validate()
}

func (d Draft) postingLines() []journals.PostingLineInput {
	out := make([]journals.PostingLineInput, 0, len(d.Lines))
	for _, l := range d.Lines {
		out = append(out, journals.PostingLineInput{
			LineNumber:  l.LineNumber,
			AccountCode: l.AccountCode,
			Debit:       l.Debit,
			Credit:      l.Credit,
			Particulars: l.Particulars,
		})
	}
	return out
}
