package journals

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// JournalStatus enumerates journal lifecycle values.
type JournalStatus string

const (
	JournalStatusPosted JournalStatus = "POSTED"
)

// JournalEntry captures posting metadata. ReferenceNo is globally unique.
type JournalEntry struct {
	ID           int64         `json:"id"`
	ReferenceNo  string        `json:"reference_no"`
	EntryDate    time.Time     `json:"entry_date"`
	EntryType    string        `json:"entry_type"`
	Description  string        `json:"description"`
	Status       JournalStatus `json:"status"`
	CreatedBy    string        `json:"created_by"`
	GenerationID uuid.UUID     `json:"generation_id"`
	CreatedAt    time.Time     `json:"created_at"`
	Lines        []JournalLine `json:"lines,omitempty"`
}

// JournalLine stores debit or credit amount for an account.
type JournalLine struct {
	ID             int64           `json:"id"`
	JournalEntryID int64           `json:"journal_entry_id"`
	LineNumber     int             `json:"line_number"`
	AccountCode    string          `json:"account_code"`
	Debit          decimal.Decimal `json:"debit_amount"`
	Credit         decimal.Decimal `json:"credit_amount"`
	Particulars    string          `json:"particulars"`
}
