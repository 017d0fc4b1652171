package journals

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/payroll-jv/internal/accounting/shared"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func balancedInput() PostingInput {
	return PostingInput{
		ReferenceNo: "JVSL/03/25",
		EntryDate:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		EntryType:   "JVSL",
		Lines: []PostingLineInput{
			{LineNumber: 1, AccountCode: "6001", Debit: d("1200.00")},
			{LineNumber: 2, AccountCode: "6101", Debit: d("135.00")},
			{LineNumber: 3, AccountCode: "2101", Credit: d("1065.00")},
			{LineNumber: 4, AccountCode: "2102", Credit: d("270.00")},
		},
	}
}

func TestValidateAcceptsBalancedInput(t *testing.T) {
	require.NoError(t, balancedInput().Validate())
	debit, credit := Totals(balancedInput().Lines)
	assert.Equal(t, "1335.00", debit.StringFixed(2))
	assert.True(t, debit.Equal(credit))
}

func TestValidateRejectsUnbalanced(t *testing.T) {
	in := balancedInput()
	in.Lines[3].Credit = d("269.99")
	require.ErrorIs(t, in.Validate(), shared.ErrUnbalanced)
}

func TestValidateRejectsNumberingGaps(t *testing.T) {
	in := balancedInput()
	in.Lines[2].LineNumber = 4
	require.ErrorIs(t, in.Validate(), shared.ErrLineNumbering)
}

func TestValidateRejectsDebitAfterCredit(t *testing.T) {
	in := balancedInput()
	in.Lines[1], in.Lines[2] = in.Lines[2], in.Lines[1]
	in.Lines[1].LineNumber, in.Lines[2].LineNumber = 2, 3
	require.ErrorIs(t, in.Validate(), shared.ErrLineNumbering)
}

func TestValidateRejectsTwoSidedOrEmptyLines(t *testing.T) {
	in := balancedInput()
	in.Lines[0].Credit = d("1")
	require.ErrorIs(t, in.Validate(), shared.ErrInvalidLine)

	in = balancedInput()
	in.Lines[0].Debit = decimal.Zero
	require.ErrorIs(t, in.Validate(), shared.ErrInvalidLine)
}

func TestValidateRejectsTooFewLines(t *testing.T) {
	in := balancedInput()
	in.Lines = in.Lines[:1]
	require.ErrorIs(t, in.Validate(), shared.ErrTooFewLines)
}
