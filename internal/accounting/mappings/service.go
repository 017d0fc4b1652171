package mappings

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/odyssey-erp/payroll-jv/internal/accounting/shared"
	internalShared "github.com/odyssey-erp/payroll-jv/internal/shared"
)

// AccountChecker reports whether an account code exists in the account master.
type AccountChecker interface {
	Exists(ctx context.Context, code string) (bool, error)
}

type AuditPort interface {
	Record(ctx context.Context, log internalShared.AuditLog) error
}

type Service struct {
	repo     Repository
	accounts AccountChecker
	audit    AuditPort
	logger   *slog.Logger
	validate *validator.Validate
	now      func() time.Time
}

// NewService wires the mapping service. audit may be nil.
func NewService(repo Repository, accounts AccountChecker, audit AuditPort, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:     repo,
		accounts: accounts,
		audit:    audit,
		logger:   logger,
		validate: newValidator(),
		now:      time.Now,
	}
}

func (s *Service) List(ctx context.Context, filter ListFilter) ([]LocationAccountMapping, error) {
	if filter.VoucherType != "" && !filter.VoucherType.Valid() {
		return nil, fmt.Errorf("%w: %q", shared.ErrUnknownVoucherType, filter.VoucherType)
	}
	return s.repo.List(ctx, filter)
}

func (s *Service) Get(ctx context.Context, id int64) (LocationAccountMapping, error) {
	if id <= 0 {
		return LocationAccountMapping{}, shared.ErrMappingNotFound
	}
	return s.repo.Get(ctx, id)
}

// Create validates and stores a new mapping. Every rejection happens before the insert.
func (s *Service) Create(ctx context.Context, in CreateInput) (LocationAccountMapping, error) {
	in.LocationID = strings.TrimSpace(in.LocationID)
	in.LocationName = strings.TrimSpace(in.LocationName)
	in.MappingType = strings.ToLower(strings.TrimSpace(in.MappingType))
	in.AccountCode = strings.TrimSpace(in.AccountCode)
	in.VoucherType = strings.ToUpper(strings.TrimSpace(in.VoucherType))
	if err := translate(s.validate.Struct(in)); err != nil {
		return LocationAccountMapping{}, err
	}
	if err := s.ensureAccount(ctx, in.AccountCode); err != nil {
		return LocationAccountMapping{}, err
	}
	m := LocationAccountMapping{
		LocationID:   in.LocationID,
		LocationName: in.LocationName,
		MappingType:  MappingType(in.MappingType),
		AccountCode:  in.AccountCode,
		VoucherType:  VoucherType(in.VoucherType),
		IsActive:     in.IsActive == nil || *in.IsActive,
		CreatedBy:    actorOrSystem(in.CreatedBy),
	}
	taken, err := s.repo.TupleExists(ctx, m.LocationID, m.MappingType, m.VoucherType)
	if err != nil {
		return LocationAccountMapping{}, err
	}
	if taken {
		return LocationAccountMapping{}, shared.ErrDuplicateMapping
	}
	created, err := s.repo.Create(ctx, m)
	if err != nil {
		return LocationAccountMapping{}, err
	}
	s.record(ctx, created.CreatedBy, "mapping.create", created.ID, map[string]any{
		"location_id":  created.LocationID,
		"mapping_type": created.MappingType,
		"voucher_type": created.VoucherType,
		"account_code": created.AccountCode,
	})
	return created, nil
}

// Update applies a partial update. The account is re-validated only when it changes.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (LocationAccountMapping, error) {
	if err := translate(s.validate.Struct(in)); err != nil {
		return LocationAccountMapping{}, err
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return LocationAccountMapping{}, err
	}
	next := current
	if in.LocationName != nil {
		next.LocationName = strings.TrimSpace(*in.LocationName)
	}
	if in.AccountCode != nil {
		code := strings.TrimSpace(*in.AccountCode)
		if code != current.AccountCode {
			if err := s.ensureAccount(ctx, code); err != nil {
				return LocationAccountMapping{}, err
			}
			next.AccountCode = code
		}
	}
	if in.IsActive != nil {
		next.IsActive = *in.IsActive
	}
	next.UpdatedBy = actorOrSystem(in.UpdatedBy)
	if _, err := s.repo.Update(ctx, next); err != nil {
		return LocationAccountMapping{}, err
	}
	// Re-read so the account description follows the new code.
	updated, err := s.repo.Get(ctx, id)
	if err != nil {
		return LocationAccountMapping{}, err
	}
	s.record(ctx, updated.UpdatedBy, "mapping.update", updated.ID, map[string]any{
		"account_code": map[string]string{"from": current.AccountCode, "to": updated.AccountCode},
		"is_active":    updated.IsActive,
	})
	return updated, nil
}

// Delete removes a mapping permanently after confirming it exists.
func (s *Service) Delete(ctx context.Context, id int64, actor string) error {
	current, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.record(ctx, actorOrSystem(actor), "mapping.delete", id, map[string]any{
		"location_id":  current.LocationID,
		"mapping_type": current.MappingType,
		"voucher_type": current.VoucherType,
	})
	return nil
}

func (s *Service) ensureAccount(ctx context.Context, code string) error {
	if s.accounts == nil {
		return nil
	}
	ok, err := s.accounts.Exists(ctx, code)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", shared.ErrAccountNotFound, code)
	}
	return nil
}

func (s *Service) record(ctx context.Context, actor, action string, id int64, meta map[string]any) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, internalShared.AuditLog{
		Actor:    actor,
		Action:   action,
		Entity:   "location_account_mapping",
		EntityID: strconv.FormatInt(id, 10),
		Meta:     meta,
		At:       s.now(),
	})
	if err != nil {
		s.logger.Warn("audit mapping change", slog.String("action", action), slog.Int64("mapping_id", id), slog.Any("error", err))
	}
}

func actorOrSystem(actor string) string {
	if actor = strings.TrimSpace(actor); actor != "" {
		return actor
	}
	return internalShared.SystemActor
}
