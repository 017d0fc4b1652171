package journals

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/odyssey-erp/payroll-jv/internal/accounting/shared"
	"github.com/odyssey-erp/payroll-jv/internal/platform/db"
)

const uniqueReferenceConstraint = "uq_journal_entries_reference_no"

// Repository encapsulates DB operations for journals. Bind it to a pgx.Tx to
// take part in a generation transaction.
type Repository interface {
	FindByReference(ctx context.Context, referenceNo string) (JournalEntry, error)
	GetWithLines(ctx context.Context, id int64) (JournalEntry, error)
	InsertJournalEntry(ctx context.Context, in PostingInput) (JournalEntry, error)
	InsertJournalLines(ctx context.Context, entryID int64, lines []PostingLineInput) error
}

type repository struct {
	db db.Querier
}

func NewRepository(q db.Querier) Repository {
	return &repository{db: q}
}

const selectEntry = `SELECT id, reference_no, entry_date, entry_type, description, status, created_by, generation_id, created_at
FROM journal_entries`

// FindByReference looks an entry up by its exact reference number.
func (r *repository) FindByReference(ctx context.Context, referenceNo string) (JournalEntry, error) {
	return r.scanEntry(r.db.QueryRow(ctx, selectEntry+` WHERE reference_no = $1`, referenceNo))
}

func (r *repository) GetWithLines(ctx context.Context, id int64) (JournalEntry, error) {
	entry, err := r.scanEntry(r.db.QueryRow(ctx, selectEntry+` WHERE id = $1`, id))
	if err != nil {
		return JournalEntry{}, err
	}
	rows, err := r.db.Query(ctx, `SELECT id, journal_entry_id, line_number, account_code, debit_amount, credit_amount, particulars
FROM journal_entry_lines WHERE journal_entry_id = $1 ORDER BY line_number`, id)
	if err != nil {
		return JournalEntry{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var line JournalLine
		var debit, credit pgtype.Numeric
		if err := rows.Scan(&line.ID, &line.JournalEntryID, &line.LineNumber, &line.AccountCode, &debit, &credit, &line.Particulars); err != nil {
			return JournalEntry{}, err
		}
		line.Debit = db.Decimal(debit)
		line.Credit = db.Decimal(credit)
		entry.Lines = append(entry.Lines, line)
	}
	return entry, rows.Err()
}

func (r *repository) InsertJournalEntry(ctx context.Context, in PostingInput) (JournalEntry, error) {
	entry := JournalEntry{
		ReferenceNo:  in.ReferenceNo,
		EntryDate:    in.EntryDate,
		EntryType:    in.EntryType,
		Description:  in.Description,
		Status:       JournalStatusPosted,
		CreatedBy:    in.CreatedBy,
		GenerationID: in.GenerationID,
	}
	err := r.db.QueryRow(ctx, `INSERT INTO journal_entries (reference_no, entry_date, entry_type, description, status, created_by, generation_id)
VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id, created_at`,
		in.ReferenceNo, in.EntryDate, in.EntryType, in.Description, JournalStatusPosted, in.CreatedBy, in.GenerationID).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		if db.IsUniqueViolation(err, uniqueReferenceConstraint) {
			return JournalEntry{}, shared.ErrReferenceConflict
		}
		return JournalEntry{}, err
	}
	return entry, nil
}

// InsertJournalLines writes lines in their numbered order.
func (r *repository) InsertJournalLines(ctx context.Context, entryID int64, lines []PostingLineInput) error {
	for _, line := range lines {
		if _, err := r.db.Exec(ctx, `INSERT INTO journal_entry_lines (journal_entry_id, line_number, account_code, debit_amount, credit_amount, particulars)
VALUES ($1,$2,$3,$4,$5,$6)`, entryID, line.LineNumber, line.AccountCode, db.Numeric(line.Debit), db.Numeric(line.Credit), line.Particulars); err != nil {
			return err
		}
	}
	return nil
}

func (r *repository) scanEntry(row pgx.Row) (JournalEntry, error) {
	var e JournalEntry
	err := row.Scan(&e.ID, &e.ReferenceNo, &e.EntryDate, &e.EntryType, &e.Description, &e.Status, &e.CreatedBy, &e.GenerationID, &e.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return JournalEntry{}, shared.ErrJournalNotFound
		}
		return JournalEntry{}, err
	}
	return e, nil
}

// ToJournalLines mirrors persisted lines for an entry that was just inserted.
func ToJournalLines(entryID int64, lines []PostingLineInput) []JournalLine {
	out := make([]JournalLine, 0, len(lines))
	for _, line := range lines {
		out = append(out, JournalLine{
			JournalEntryID: entryID,
			LineNumber:     line.LineNumber,
			AccountCode:    line.AccountCode,
			Debit:          line.Debit,
			Credit:         line.Credit,
			Particulars:    line.Particulars,
		})
	}
	return out
}
