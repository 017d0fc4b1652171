package shared

import "github.com/odyssey-erp/payroll-jv/internal/platform/httpx"

// kindError carries a readable message while unwrapping to an httpx sentinel.
type kindError struct {
	msg  string
	kind error
}

func (e *kindError) Error() string { return e.msg }

func (e *kindError) Unwrap() error { return e.kind }

func newError(kind error, msg string) error {
	return &kindError{msg: msg, kind: kind}
}

var (
	// ErrUnbalanced indicates debit != credit.
	ErrUnbalanced = newError(httpx.ErrUnprocessable, "accounting: journal lines must balance")
	// ErrTooFewLines indicates less than two lines.
	ErrTooFewLines = newError(httpx.ErrUnprocessable, "accounting: journal requires at least two lines")
	// ErrLineNumbering indicates gaps, duplicates or credits ahead of debits.
	ErrLineNumbering = newError(httpx.ErrUnprocessable, "accounting: journal lines must be numbered 1..N with debits first")
	// ErrInvalidLine indicates a line that is not a single positive debit or credit.
	ErrInvalidLine = newError(httpx.ErrUnprocessable, "accounting: journal line must carry exactly one positive amount")
	// ErrJournalNotFound indicates missing entry.
	ErrJournalNotFound = newError(httpx.ErrNotFound, "accounting: journal entry not found")
	// ErrReferenceConflict indicates another writer committed the same reference number.
	ErrReferenceConflict = newError(httpx.ErrDuplicate, "accounting: journal reference already posted")

	// ErrMappingNotFound indicates account mapping missing.
	ErrMappingNotFound = newError(httpx.ErrNotFound, "accounting: account mapping not found")
	// ErrDuplicateMapping indicates the location/mapping type/voucher type tuple is taken.
	ErrDuplicateMapping = newError(httpx.ErrDuplicate, "accounting: mapping already exists for location, mapping type and voucher type")
	// ErrUnknownMappingType indicates a mapping type outside the closed set.
	ErrUnknownMappingType = newError(httpx.ErrValidation, "accounting: unknown mapping type")
	// ErrUnknownVoucherType indicates a voucher type other than JVDR or JVSL.
	ErrUnknownVoucherType = newError(httpx.ErrValidation, "accounting: unknown voucher type")
	// ErrAccountNotFound indicates the account code is absent from the account master.
	ErrAccountNotFound = newError(httpx.ErrValidation, "accounting: account code does not exist")

	// ErrInvalidPeriod indicates a year or month outside the accepted range.
	ErrInvalidPeriod = newError(httpx.ErrValidation, "accounting: invalid payroll period")
	// ErrNoDefaultLocation indicates an employee job without mapping and no default row.
	ErrNoDefaultLocation = newError(httpx.ErrUnprocessable, "accounting: job has no location mapping and no default location is configured")
	// ErrUnmappedAmounts indicates nonzero amounts that no active mapping can post.
	ErrUnmappedAmounts = newError(httpx.ErrUnprocessable, "accounting: nonzero amounts have no active account mapping")
	// ErrGenerationInProgress indicates another generation holds the period lock.
	ErrGenerationInProgress = newError(httpx.ErrDuplicate, "accounting: voucher generation already running for period")
)
