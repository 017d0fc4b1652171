package mappings

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/odyssey-erp/payroll-jv/internal/accounting/shared"
	"github.com/odyssey-erp/payroll-jv/internal/platform/httpx"
	internalShared "github.com/odyssey-erp/payroll-jv/internal/shared"
)

type memoryRepo struct {
	rows         map[int64]LocationAccountMapping
	descriptions map[string]string
	nextID       int64
	writes       int
}

func newMemoryRepo() *memoryRepo {
	return &memoryRepo{rows: make(map[int64]LocationAccountMapping), descriptions: make(map[string]string)}
}

func (r *memoryRepo) List(ctx context.Context, filter ListFilter) ([]LocationAccountMapping, error) {
	var out []LocationAccountMapping
	for _, m := range r.rows {
		if filter.VoucherType != "" && m.VoucherType != filter.VoucherType {
			continue
		}
		if filter.LocationID != "" && m.LocationID != filter.LocationID {
			continue
		}
		if filter.IsActive != nil && m.IsActive != *filter.IsActive {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func (r *memoryRepo) Get(ctx context.Context, id int64) (LocationAccountMapping, error) {
	m, ok := r.rows[id]
	if !ok {
		return LocationAccountMapping{}, shared.ErrMappingNotFound
	}
	m.AccountDescription = r.descriptions[m.AccountCode]
	return m, nil
}

func (r *memoryRepo) TupleExists(ctx context.Context, locationID string, mappingType MappingType, voucherType VoucherType) (bool, error) {
	for _, m := range r.rows {
		if m.LocationID == locationID && m.MappingType == mappingType && m.VoucherType == voucherType {
			return true, nil
		}
	}
	return false, nil
}

func (r *memoryRepo) Create(ctx context.Context, m LocationAccountMapping) (LocationAccountMapping, error) {
	r.writes++
	r.nextID++
	m.ID = r.nextID
	m.CreatedAt = time.Now()
	m.UpdatedAt = m.CreatedAt
	r.rows[m.ID] = m
	return m, nil
}

func (r *memoryRepo) Update(ctx context.Context, m LocationAccountMapping) (LocationAccountMapping, error) {
	if _, ok := r.rows[m.ID]; !ok {
		return LocationAccountMapping{}, shared.ErrMappingNotFound
	}
	r.writes++
	m.UpdatedAt = time.Now()
	r.rows[m.ID] = m
	return m, nil
}

func (r *memoryRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := r.rows[id]; !ok {
		return shared.ErrMappingNotFound
	}
	r.writes++
	delete(r.rows, id)
	return nil
}

type stubAccounts map[string]bool

func (s stubAccounts) Exists(ctx context.Context, code string) (bool, error) {
	return s[code], nil
}

type recordingAudit struct {
	logs []internalShared.AuditLog
}

func (a *recordingAudit) Record(ctx context.Context, log internalShared.AuditLog) error {
	a.logs = append(a.logs, log)
	return nil
}

func newTestService() (*Service, *memoryRepo, *recordingAudit) {
	repo := newMemoryRepo()
	audit := &recordingAudit{}
	svc := NewService(repo, stubAccounts{"6001-00": true, "6002-00": true, "2101-00": true}, audit, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return svc, repo, audit
}

func validInput() CreateInput {
	return CreateInput{
		LocationID:   "03",
		LocationName: "Kilang",
		MappingType:  "salary",
		AccountCode:  "6001-00",
		VoucherType:  "JVSL",
		CreatedBy:    "u-7",
	}
}

func TestCreateStoresMappingAndAudits(t *testing.T) {
	svc, repo, audit := newTestService()

	created, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.Equal(t, MappingSalary, created.MappingType)
	assert.Equal(t, VoucherStaff, created.VoucherType)
	assert.True(t, created.IsActive)
	assert.Len(t, repo.rows, 1)
	require.Len(t, audit.logs, 1)
	assert.Equal(t, "mapping.create", audit.logs[0].Action)
	assert.Equal(t, "u-7", audit.logs[0].Actor)
}

func TestCreateNormalisesCase(t *testing.T) {
	svc, _, _ := newTestService()
	in := validInput()
	in.MappingType = " EPF_EMPLOYER "
	in.VoucherType = "jvsl"

	created, err := svc.Create(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, MappingEPFEmployer, created.MappingType)
	assert.Equal(t, VoucherStaff, created.VoucherType)
}

func TestCreateRejectsUnknownMappingTypeWithoutInsert(t *testing.T) {
	svc, repo, _ := newTestService()
	in := validInput()
	in.MappingType = "petty_cash"

	_, err := svc.Create(context.Background(), in)
	require.ErrorIs(t, err, shared.ErrUnknownMappingType)
	assert.ErrorIs(t, err, httpx.ErrValidation)
	assert.Zero(t, repo.writes)
	assert.Empty(t, repo.rows)
}

func TestCreateRejectsUnknownVoucherType(t *testing.T) {
	svc, repo, _ := newTestService()
	in := validInput()
	in.VoucherType = "JVXX"

	_, err := svc.Create(context.Background(), in)
	require.ErrorIs(t, err, shared.ErrUnknownVoucherType)
	assert.Empty(t, repo.rows)
}

func TestCreateRejectsMissingFields(t *testing.T) {
	svc, repo, _ := newTestService()
	in := validInput()
	in.LocationID = "  "

	_, err := svc.Create(context.Background(), in)
	require.ErrorIs(t, err, httpx.ErrValidation)
	assert.Contains(t, err.Error(), "location_id")
	assert.Empty(t, repo.rows)
}

func TestCreateRejectsUnknownAccount(t *testing.T) {
	svc, repo, _ := newTestService()
	in := validInput()
	in.AccountCode = "9999-99"

	_, err := svc.Create(context.Background(), in)
	require.ErrorIs(t, err, shared.ErrAccountNotFound)
	assert.Empty(t, repo.rows)
}

func TestCreateRejectsDuplicateTupleAsConflict(t *testing.T) {
	svc, repo, _ := newTestService()
	_, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	dup := validInput()
	dup.AccountCode = "6002-00"
	_, err = svc.Create(context.Background(), dup)
	require.ErrorIs(t, err, shared.ErrDuplicateMapping)
	assert.ErrorIs(t, err, httpx.ErrDuplicate)
	assert.Len(t, repo.rows, 1)

	other := validInput()
	other.VoucherType = "JVDR"
	_, err = svc.Create(context.Background(), other)
	require.NoError(t, err)
}

func TestUpdateRevalidatesChangedAccount(t *testing.T) {
	svc, repo, _ := newTestService()
	created, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	bad := "0000-00"
	_, err = svc.Update(context.Background(), created.ID, UpdateInput{AccountCode: &bad})
	require.ErrorIs(t, err, shared.ErrAccountNotFound)
	assert.Equal(t, "6001-00", repo.rows[created.ID].AccountCode)

	repo.descriptions["6002-00"] = "Lembur"
	good := "6002-00"
	inactive := false
	name := "Kilang Baru"
	updated, err := svc.Update(context.Background(), created.ID, UpdateInput{AccountCode: &good, IsActive: &inactive, LocationName: &name})
	require.NoError(t, err)
	assert.Equal(t, "6002-00", updated.AccountCode)
	assert.False(t, updated.IsActive)
	assert.Equal(t, "Kilang Baru", updated.LocationName)
	assert.Equal(t, "03", updated.LocationID)
	assert.Equal(t, "Lembur", updated.AccountDescription)
}

type failingAudit struct{}

func (failingAudit) Record(context.Context, internalShared.AuditLog) error {
	return errors.New("audit_logs unavailable")
}

func TestAuditFailureIsLoggedNotReturned(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	svc := NewService(newMemoryRepo(), stubAccounts{"6001-00": true}, failingAudit{}, logger)

	created, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	assert.NotZero(t, created.ID)
	assert.Contains(t, buf.String(), "audit mapping change")
	assert.Contains(t, buf.String(), "action=mapping.create")
	assert.Contains(t, buf.String(), "audit_logs unavailable")
}

func TestUpdateSkipsAccountCheckWhenUnchanged(t *testing.T) {
	repo := newMemoryRepo()
	svc := NewService(repo, stubAccounts{"6001-00": true}, nil, nil)
	created, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	svc.accounts = failingAccounts{}
	same := "6001-00"
	_, err = svc.Update(context.Background(), created.ID, UpdateInput{AccountCode: &same})
	require.NoError(t, err)
}

type failingAccounts struct{}

func (failingAccounts) Exists(ctx context.Context, code string) (bool, error) {
	return false, errors.New("account master unavailable")
}

func TestUpdateUnknownMapping(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.Update(context.Background(), 42, UpdateInput{})
	require.ErrorIs(t, err, shared.ErrMappingNotFound)
}

func TestDeleteVerifiesExistence(t *testing.T) {
	svc, repo, audit := newTestService()
	err := svc.Delete(context.Background(), 5, "u-1")
	require.ErrorIs(t, err, shared.ErrMappingNotFound)
	assert.ErrorIs(t, err, httpx.ErrNotFound)

	created, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	require.NoError(t, svc.Delete(context.Background(), created.ID, "u-1"))
	assert.Empty(t, repo.rows)
	assert.Equal(t, "mapping.delete", audit.logs[len(audit.logs)-1].Action)
}

func TestListRejectsUnknownVoucherFilter(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.List(context.Background(), ListFilter{VoucherType: "JV"})
	require.ErrorIs(t, err, shared.ErrUnknownVoucherType)
}

func TestResolverIgnoresInactiveAndOtherVoucher(t *testing.T) {
	rows := []LocationAccountMapping{
		{LocationID: "03", MappingType: MappingSalary, AccountCode: "6001-00", VoucherType: VoucherStaff, IsActive: true},
		{LocationID: "03", MappingType: MappingOvertime, AccountCode: "6003-00", VoucherType: VoucherStaff, IsActive: false},
		{LocationID: "03", MappingType: MappingSalary, AccountCode: "7001-00", VoucherType: VoucherDirector, IsActive: true},
	}
	r := NewResolver(VoucherStaff, rows)

	code, ok := r.Resolve("03", MappingSalary)
	require.True(t, ok)
	assert.Equal(t, "6001-00", code)

	_, ok = r.Resolve("03", MappingOvertime)
	assert.False(t, ok)
	_, ok = r.Resolve("04", MappingSalary)
	assert.False(t, ok)
}
