package vouchers

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/odyssey-erp/payroll-jv/internal/accounting/journals"
	"github.com/odyssey-erp/payroll-jv/internal/accounting/mappings"
	"github.com/odyssey-erp/payroll-jv/internal/accounting/shared"
	"github.com/odyssey-erp/payroll-jv/internal/payroll"
	"github.com/odyssey-erp/payroll-jv/internal/platform/cache"
	"github.com/odyssey-erp/payroll-jv/internal/platform/db"
	internalShared "github.com/odyssey-erp/payroll-jv/internal/shared"
)

// Locker guards a period against concurrent generation.
type Locker interface {
	Acquire(ctx context.Context, key string) (func(context.Context) error, error)
}

// AuditPort records generated vouchers.
type AuditPort interface {
	Record(ctx context.Context, log internalShared.AuditLog) error
}

// MetricsPort receives generation outcomes.
type MetricsPort interface {
	VoucherOutcome(voucherType, outcome string)
	GenerationObserved(result string, elapsed time.Duration)
}

// Config carries the posting defaults.
type Config struct {
	// AccrualLocation is where voucher level lines resolve their accounts.
	AccrualLocation string
	// LeavePayoutType is the leave type whose approved payouts are carved out of salary.
	LeavePayoutType string
}

// Service runs preview, generate and check over one transaction per call.
type Service struct {
	store    Store
	locker   Locker
	audit    AuditPort
	metrics  MetricsPort
	logger   *slog.Logger
	cfg      Config
	validate *validator.Validate
	previews singleflight.Group
	now      func() time.Time
	newID    func() uuid.UUID
}

// NewService wires the voucher pipeline. locker, audit and metrics may be nil.
func NewService(store Store, locker Locker, audit AuditPort, metrics MetricsPort, logger *slog.Logger, cfg Config) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.AccrualLocation == "" {
		cfg.AccrualLocation = "00"
	}
	if cfg.LeavePayoutType == "" {
		cfg.LeavePayoutType = string(mappings.MappingLeavePayout)
	}
	return &Service{
		store:    store,
		locker:   locker,
		audit:    audit,
		metrics:  metrics,
		logger:   logger,
		cfg:      cfg,
		validate: newValidator(),
		now:      time.Now,
		newID:    uuid.New,
	}
}

// WithNow overrides the clock for testing.
func (s *Service) WithNow(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// Preview computes every voucher type for a period without writing.
// Identical concurrent previews share one computation, which is detached from
// any single caller's cancellation; each caller still stops waiting when its
// own context ends.
func (s *Service) Preview(ctx context.Context, year, month int) (Preview, error) {
	p := payroll.Period{Year: year, Month: month}
	if err := p.Validate(); err != nil {
		return Preview{}, err
	}
	detached := context.WithoutCancel(ctx)
	ch := s.previews.DoChan(p.String(), func() (any, error) {
		return s.preview(detached, p)
	})
	select {
	case <-ctx.Done():
		return Preview{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Preview{}, res.Err
		}
		return res.Val.(Preview), nil
	}
}

func (s *Service) preview(ctx context.Context, p payroll.Period) (Preview, error) {
	out := Preview{Period: p}
	err := s.store.WithTx(ctx, db.ReadOnly, func(ctx context.Context, tx TxStore) error {
		totals, drafts, err := s.compute(ctx, tx, p, mappings.VoucherTypes)
		if err != nil {
			return err
		}
		for _, vt := range mappings.VoucherTypes {
			draft := drafts[vt]
			vp := VoucherPreview{
				VoucherType: vt,
				ReferenceNo: draft.ReferenceNo,
				HasData:     HasData(vt, totals),
				Draft:       draft,
				Warnings:    warnings(draft),
			}
			entry, err := tx.Journals().FindByReference(ctx, draft.ReferenceNo)
			switch {
			case err == nil:
				vp.Exists = true
				vp.EntryID = entry.ID
			case !errors.Is(err, shared.ErrJournalNotFound):
				return err
			}
			if vt == mappings.VoucherDirector {
				vp.Directors = totals.Directors
			} else {
				vp.Locations = totals.Locations
			}
			vp.TotalDebit, vp.TotalCredit = draft.Totals()
			vp.Balanced = vp.HasData && draft.Postable() && draft.Validate() == nil
			out.Vouchers = append(out.Vouchers, vp)
		}
		return nil
	})
	if err != nil {
		return Preview{}, err
	}
	return out, nil
}

// Generate posts every requested voucher type that does not exist yet, all in
// one transaction. Any failure rolls back every voucher of the request.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (GenerateResult, error) {
	start := s.now()
	if err := translate(s.validate.Struct(req)); err != nil {
		return GenerateResult{}, err
	}
	types, err := NormalizeTypes(req.VoucherTypes)
	if err != nil {
		return GenerateResult{}, err
	}
	p := payroll.Period{Year: req.Year, Month: req.Month}
	actor := strings.TrimSpace(req.CreatedBy)
	if actor == "" {
		actor = internalShared.SystemActor
	}
	logger := s.logger.With(slog.String("period", p.String()), slog.String("actor", actor))

	if s.locker != nil {
		release, err := s.locker.Acquire(ctx, internalShared.PayrollVoucherLockKey(p.Year, p.Month))
		if err != nil {
			if errors.Is(err, cache.ErrLockHeld) {
				return GenerateResult{}, shared.ErrGenerationInProgress
			}
			return GenerateResult{}, err
		}
		defer func() {
			if err := release(context.WithoutCancel(ctx)); err != nil {
				logger.Warn("release generation lock", slog.Any("error", err))
			}
		}()
	}

	var result GenerateResult
	var created []journals.JournalEntry
	err = s.store.WithTx(ctx, db.ReadWrite, func(ctx context.Context, tx TxStore) error {
		result = GenerateResult{Period: p, GenerationID: s.newID()}
		created = nil
		return s.generate(ctx, tx, p, types, actor, &result, &created)
	})
	if err != nil {
		for _, vt := range types {
			s.observe(string(vt), "failed")
		}
		s.observeGeneration("error", start)
		logger.Error("voucher generation rolled back", slog.Any("error", err))
		return GenerateResult{}, err
	}

	for _, o := range result.Outcomes() {
		if o.Created {
			s.observe(string(o.VoucherType), "created")
		} else {
			s.observe(string(o.VoucherType), "skipped")
		}
	}
	s.observeGeneration("ok", start)
	for _, entry := range created {
		s.recordAudit(ctx, logger, entry, result.GenerationID)
		logger.Info("voucher generated",
			slog.String("reference_no", entry.ReferenceNo),
			slog.Int64("entry_id", entry.ID),
			slog.Int("lines", len(entry.Lines)))
	}
	return result, nil
}

func (s *Service) generate(ctx context.Context, tx TxStore, p payroll.Period, types []mappings.VoucherType, actor string, result *GenerateResult, created *[]journals.JournalEntry) error {
	var pending []mappings.VoucherType
	for _, vt := range types {
		ref := ReferenceNo(vt, p.Year, p.Month)
		existing, err := tx.Journals().FindByReference(ctx, ref)
		switch {
		case err == nil:
			result.set(Outcome{VoucherType: vt, ReferenceNo: ref, Skipped: true, Reason: ReasonAlreadyExists, EntryID: existing.ID})
			continue
		case !errors.Is(err, shared.ErrJournalNotFound):
			return err
		}
		pending = append(pending, vt)
	}
	if len(pending) == 0 {
		return nil
	}

	totals, drafts, err := s.compute(ctx, tx, p, pending)
	if err != nil {
		return err
	}
	for _, vt := range pending {
		draft := drafts[vt]
		outcome := Outcome{VoucherType: vt, ReferenceNo: draft.ReferenceNo}
		if !HasData(vt, totals) {
			outcome.Skipped = true
			outcome.Reason = ReasonNoData
			result.set(outcome)
			continue
		}
		if len(draft.Negative) > 0 {
			return fmt.Errorf("%s: %w: %s", vt, shared.ErrInvalidLine, strings.Join(warnings(Draft{Negative: draft.Negative}), "; "))
		}
		if len(draft.Unmapped) > 0 {
			return fmt.Errorf("%w: %s", shared.ErrUnmappedAmounts, strings.Join(warnings(Draft{Unmapped: draft.Unmapped}), "; "))
		}
		input := draft.PostingInput(actor, result.GenerationID)
		if err := input.Validate(); err != nil {
			return fmt.Errorf("%s: %w", vt, err)
		}
		entry, err := tx.Journals().InsertJournalEntry(ctx, input)
		if err != nil {
			return err
		}
		if err := tx.Journals().InsertJournalLines(ctx, entry.ID, input.Lines); err != nil {
			return err
		}
		entry.Lines = journals.ToJournalLines(entry.ID, input.Lines)
		*created = append(*created, entry)

		outcome.Created = true
		outcome.EntryID = entry.ID
		outcome.LineCount = len(input.Lines)
		outcome.TotalDebit, outcome.TotalCredit = journals.Totals(input.Lines)
		result.set(outcome)
	}
	return nil
}

// compute is shared by preview and generate so both see identical drafts.
func (s *Service) compute(ctx context.Context, tx TxStore, p payroll.Period, types []mappings.VoucherType) (payroll.PeriodTotals, map[mappings.VoucherType]Draft, error) {
	snap, err := payroll.LoadSnapshot(ctx, tx.Payroll(), p, s.cfg.LeavePayoutType)
	if err != nil {
		return payroll.PeriodTotals{}, nil, err
	}
	totals, err := payroll.Aggregate(snap)
	if err != nil {
		return payroll.PeriodTotals{}, nil, err
	}
	active := true
	drafts := make(map[mappings.VoucherType]Draft, len(types))
	for _, vt := range types {
		rows, err := tx.Mappings().List(ctx, mappings.ListFilter{VoucherType: vt, IsActive: &active})
		if err != nil {
			return payroll.PeriodTotals{}, nil, fmt.Errorf("load %s mappings: %w", vt, err)
		}
		drafts[vt] = Assemble(vt, totals, mappings.NewResolver(vt, rows), s.cfg.AccrualLocation)
	}
	return totals, drafts, nil
}

// Check reports the stored entry of each voucher type without recomputing.
func (s *Service) Check(ctx context.Context, year, month int) (Check, error) {
	p := payroll.Period{Year: year, Month: month}
	if err := p.Validate(); err != nil {
		return Check{}, err
	}
	out := Check{Period: p}
	err := s.store.WithTx(ctx, db.ReadOnly, func(ctx context.Context, tx TxStore) error {
		for _, vt := range mappings.VoucherTypes {
			ce := CheckEntry{VoucherType: vt, ReferenceNo: ReferenceNo(vt, year, month)}
			entry, err := tx.Journals().FindByReference(ctx, ce.ReferenceNo)
			switch {
			case err == nil:
				ce.Exists = true
				ce.EntryID = entry.ID
				ce.EntryDate = &entry.EntryDate
				ce.Status = entry.Status
				ce.CreatedBy = entry.CreatedBy
				ce.CreatedAt = &entry.CreatedAt
			case !errors.Is(err, shared.ErrJournalNotFound):
				return err
			}
			out.Vouchers = append(out.Vouchers, ce)
		}
		return nil
	})
	if err != nil {
		return Check{}, err
	}
	return out, nil
}

// Entry loads a generated entry with its lines.
func (s *Service) Entry(ctx context.Context, id int64) (journals.JournalEntry, error) {
	if id <= 0 {
		return journals.JournalEntry{}, shared.ErrJournalNotFound
	}
	var entry journals.JournalEntry
	err := s.store.WithTx(ctx, db.ReadOnly, func(ctx context.Context, tx TxStore) error {
		var err error
		entry, err = tx.Journals().GetWithLines(ctx, id)
		return err
	})
	return entry, err
}

func (s *Service) recordAudit(ctx context.Context, logger *slog.Logger, entry journals.JournalEntry, generationID uuid.UUID) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, internalShared.AuditLog{
		Actor:    entry.CreatedBy,
		Action:   "payroll_jv.generate",
		Entity:   "journal_entry",
		EntityID: strconv.FormatInt(entry.ID, 10),
		Meta: map[string]any{
			"reference_no":  entry.ReferenceNo,
			"entry_type":    entry.EntryType,
			"generation_id": generationID.String(),
			"lines":         len(entry.Lines),
		},
		At: s.now(),
	})
	if err != nil {
		logger.Warn("audit voucher generation", slog.String("reference_no", entry.ReferenceNo), slog.Any("error", err))
	}
}

func (s *Service) observe(voucherType, outcome string) {
	if s.metrics != nil {
		s.metrics.VoucherOutcome(voucherType, outcome)
	}
}

func (s *Service) observeGeneration(result string, start time.Time) {
	if s.metrics != nil {
		s.metrics.GenerationObserved(result, s.now().Sub(start))
	}
}

func warnings(d Draft) []string {
	out := make([]string, 0, len(d.Negative)+len(d.Unmapped))
	for _, n := range d.Negative {
		out = append(out, fmt.Sprintf("negative %s at location %s (%s)", n.MappingType, n.LocationID, n.Amount.StringFixed(2)))
	}
	for _, u := range d.Unmapped {
		out = append(out, fmt.Sprintf("no active mapping for %s at location %s (%s)", u.MappingType, u.LocationID, u.Amount.StringFixed(2)))
	}
	return out
}
