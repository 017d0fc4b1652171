package journals

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/payroll-jv/internal/accounting/shared"
)

// PostingLineInput describes a journal line for posting request.
type PostingLineInput struct {
	LineNumber  int
	AccountCode string
	Debit       decimal.Decimal
	Credit      decimal.Decimal
	Particulars string
}

// IsDebit reports whether the line posts to the debit side.
func (l PostingLineInput) IsDebit() bool {
	return l.Debit.IsPositive()
}

// PostingInput groups fields required to create a journal entry.
type PostingInput struct {
	ReferenceNo  string
	EntryDate    time.Time
	EntryType    string
	Description  string
	CreatedBy    string
	GenerationID uuid.UUID
	Lines        []PostingLineInput
}

// Validate ensures posting input meets minimum criteria.
func (in PostingInput) Validate() error {
	if strings.TrimSpace(in.ReferenceNo) == "" {
		return errors.New("accounting: reference number required")
	}
	if in.EntryDate.IsZero() {
		return errors.New("accounting: entry date required")
	}
	if len(in.Lines) < 2 {
		return shared.ErrTooFewLines
	}
	seenCredit := false
	for idx, line := range in.Lines {
		if line.LineNumber != idx+1 {
			return fmt.Errorf("%w: position %d carries number %d", shared.ErrLineNumbering, idx+1, line.LineNumber)
		}
		if strings.TrimSpace(line.AccountCode) == "" {
			return fmt.Errorf("accounting: line %d missing account", line.LineNumber)
		}
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return fmt.Errorf("%w: line %d negative amount", shared.ErrInvalidLine, line.LineNumber)
		}
		if line.Debit.IsPositive() == line.Credit.IsPositive() {
			return fmt.Errorf("%w: line %d", shared.ErrInvalidLine, line.LineNumber)
		}
		if line.IsDebit() && seenCredit {
			return fmt.Errorf("%w: debit line %d follows a credit", shared.ErrLineNumbering, line.LineNumber)
		}
		if !line.IsDebit() {
			seenCredit = true
		}
	}
	debit, credit := Totals(in.Lines)
	if !debit.Equal(credit) {
		return fmt.Errorf("%w: debit %s credit %s", shared.ErrUnbalanced, debit.StringFixed(2), credit.StringFixed(2))
	}
	return nil
}

// Totals sums both sides, each rounded to two decimals per line.
func Totals(lines []PostingLineInput) (debit, credit decimal.Decimal) {
	for _, line := range lines {
		debit = debit.Add(line.Debit.Round(2))
		credit = credit.Add(line.Credit.Round(2))
	}
	return debit, credit
}
