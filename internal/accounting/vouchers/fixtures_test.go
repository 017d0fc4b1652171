package vouchers

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/odyssey-erp/payroll-jv/internal/accounting/journals"
	"github.com/odyssey-erp/payroll-jv/internal/accounting/mappings"
	"github.com/odyssey-erp/payroll-jv/internal/accounting/shared"
	"github.com/odyssey-erp/payroll-jv/internal/payroll"
	"github.com/odyssey-erp/payroll-jv/internal/platform/db"
	internalShared "github.com/odyssey-erp/payroll-jv/internal/shared"
)

var errNotSupported = errors.New("not supported in memory store")

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func exampleSnapshot() payroll.Snapshot {
	return payroll.Snapshot{
		Period: payroll.Period{Year: 2025, Month: 3},
		JobLocations: []payroll.JobLocation{
			{JobID: "*", LocationID: "00", LocationName: "Head Office"},
			{JobID: "WAITER", LocationID: "03", LocationName: "Outlet 3"},
		},
		Directors: []payroll.RoleAssignment{
			{EmployeeID: "D1", Role: payroll.RoleDirector, LocationID: "01", Label: "Director A"},
		},
		LeavePayouts: map[string]decimal.Decimal{},
		Payrolls: []payroll.EmployeePayroll{
			{
				ID: 1, EmployeeID: "E1", JobID: "WAITER",
				GrossPay: d("1200.00"), NetPay: d("1065.00"),
				Items: []payroll.PayItem{
					{PayType: payroll.PayTypeBase, Amount: d("1000.00")},
					{PayType: payroll.PayTypeOvertime, Amount: d("200.00")},
				},
				Deductions: []payroll.Deduction{
					{Type: payroll.DeductionEPF, Employee: d("88.00"), Employer: d("110.00")},
					{Type: payroll.DeductionSOCSO, Employee: d("5.00"), Employer: d("20.00")},
					{Type: payroll.DeductionSIP, Employee: d("2.00"), Employer: d("5.00")},
					{Type: payroll.DeductionIncomeTax, Employee: d("40.00")},
				},
			},
			{
				ID: 2, EmployeeID: "D1", JobID: "WAITER",
				GrossPay: d("5000.00"), NetPay: d("4400.00"),
				Deductions: []payroll.Deduction{
					{Type: payroll.DeductionEPF, Employee: d("550.00"), Employer: d("650.00")},
					{Type: payroll.DeductionIncomeTax, Employee: d("50.00")},
				},
			},
		},
	}
}

func mapping(vt mappings.VoucherType, location string, mt mappings.MappingType, account string) mappings.LocationAccountMapping {
	return mappings.LocationAccountMapping{LocationID: location, MappingType: mt, AccountCode: account, VoucherType: vt, IsActive: true}
}

func exampleMappings() []mappings.LocationAccountMapping {
	sl, dr := mappings.VoucherStaff, mappings.VoucherDirector
	return []mappings.LocationAccountMapping{
		mapping(sl, "03", mappings.MappingSalary, "5100-03"),
		mapping(sl, "03", mappings.MappingOvertime, "5110-03"),
		mapping(sl, "03", mappings.MappingEPFEmployer, "5120-03"),
		mapping(sl, "03", mappings.MappingSOCSOEmployer, "5130-03"),
		mapping(sl, "03", mappings.MappingSIPEmployer, "5140-03"),
		mapping(sl, "00", mappings.MappingAccrualSalary, "2100"),
		mapping(sl, "00", mappings.MappingAccrualEPF, "2110"),
		mapping(sl, "00", mappings.MappingAccrualSOCSO, "2120"),
		mapping(sl, "00", mappings.MappingAccrualSIP, "2130"),
		mapping(sl, "00", mappings.MappingAccrualPCB, "2140"),
		mapping(dr, "00", mappings.MappingSalary, "5000"),
		mapping(dr, "00", mappings.MappingEPFEmployer, "5010"),
		mapping(dr, "00", mappings.MappingSOCSOEmployer, "5020"),
		mapping(dr, "00", mappings.MappingSIPEmployer, "5030"),
		mapping(dr, "01", mappings.MappingAccrualSalary, "2200-D1"),
		mapping(dr, "00", mappings.MappingAccrualEPF, "2110"),
		mapping(dr, "00", mappings.MappingAccrualSOCSO, "2120"),
		mapping(dr, "00", mappings.MappingAccrualSIP, "2130"),
		mapping(dr, "00", mappings.MappingAccrualPCB, "2140"),
	}
}

type memState struct {
	entries []journals.JournalEntry
}

func (s memState) clone() memState {
	out := memState{entries: make([]journals.JournalEntry, len(s.entries))}
	copy(out.entries, s.entries)
	return out
}

func (s memState) has(ref string) bool {
	for _, e := range s.entries {
		if e.ReferenceNo == ref {
			return true
		}
	}
	return false
}

// memStore runs transactions concurrently against a snapshot taken at begin.
// At commit the unique reference rule is checked against what other
// transactions committed meanwhile, so a racing loser fails like the database
// unique constraint would make it fail.
type memStore struct {
	mu           sync.Mutex
	snap         payroll.Snapshot
	mappings     []mappings.LocationAccountMapping
	state        memState
	nextID       atomic.Int64
	modes        []db.TxMode
	conflictOn   string
	failLines    error
	beforeCommit func()
}

func newMemStore() *memStore {
	return &memStore{snap: exampleSnapshot(), mappings: exampleMappings()}
}

func (s *memStore) WithTx(ctx context.Context, mode db.TxMode, fn func(context.Context, TxStore) error) error {
	s.mu.Lock()
	s.modes = append(s.modes, mode)
	base := s.state.clone()
	s.mu.Unlock()

	work := base.clone()
	tx := &memTx{store: s, state: &work}
	if err := fn(ctx, tx); err != nil {
		return err
	}
	if s.beforeCommit != nil {
		s.beforeCommit()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var inserted []journals.JournalEntry
	for _, e := range work.entries {
		if !base.has(e.ReferenceNo) {
			inserted = append(inserted, e)
		}
	}
	for _, e := range inserted {
		if s.state.has(e.ReferenceNo) {
			return shared.ErrReferenceConflict
		}
	}
	s.state.entries = append(s.state.entries, inserted...)
	return nil
}

func (s *memStore) entries() []journals.JournalEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]journals.JournalEntry(nil), s.state.entries...)
}

type memTx struct {
	store *memStore
	state *memState
}

func (t *memTx) Payroll() payroll.Source       { return memSource{snap: t.store.snap} }
func (t *memTx) Mappings() mappings.Repository { return memMappings{rows: t.store.mappings} }
func (t *memTx) Journals() journals.Repository { return memJournals{tx: t} }

type memSource struct {
	snap payroll.Snapshot
}

func (s memSource) EmployeePayrolls(context.Context, payroll.Period) ([]payroll.EmployeePayroll, error) {
	return s.snap.Payrolls, nil
}

func (s memSource) LeavePayouts(context.Context, payroll.Period, string) (map[string]decimal.Decimal, error) {
	return s.snap.LeavePayouts, nil
}

func (s memSource) JobLocations(context.Context) ([]payroll.JobLocation, error) {
	return s.snap.JobLocations, nil
}

func (s memSource) RoleAssignments(context.Context, string) ([]payroll.RoleAssignment, error) {
	return s.snap.Directors, nil
}

func (s memSource) CommissionSplitRules(context.Context) ([]payroll.CommissionSplitRule, error) {
	return s.snap.SplitRules, nil
}

type memMappings struct {
	rows []mappings.LocationAccountMapping
}

func (m memMappings) List(_ context.Context, f mappings.ListFilter) ([]mappings.LocationAccountMapping, error) {
	var out []mappings.LocationAccountMapping
	for _, row := range m.rows {
		if f.VoucherType != "" && row.VoucherType != f.VoucherType {
			continue
		}
		if f.IsActive != nil && row.IsActive != *f.IsActive {
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func (memMappings) Get(context.Context, int64) (mappings.LocationAccountMapping, error) {
	return mappings.LocationAccountMapping{}, errNotSupported
}

func (memMappings) TupleExists(context.Context, string, mappings.MappingType, mappings.VoucherType) (bool, error) {
	return false, errNotSupported
}

func (memMappings) Create(context.Context, mappings.LocationAccountMapping) (mappings.LocationAccountMapping, error) {
	return mappings.LocationAccountMapping{}, errNotSupported
}

func (memMappings) Update(context.Context, mappings.LocationAccountMapping) (mappings.LocationAccountMapping, error) {
	return mappings.LocationAccountMapping{}, errNotSupported
}

func (memMappings) Delete(context.Context, int64) error { return errNotSupported }

type memJournals struct {
	tx *memTx
}

func (j memJournals) FindByReference(_ context.Context, ref string) (journals.JournalEntry, error) {
	for _, e := range j.tx.state.entries {
		if e.ReferenceNo == ref {
			return e, nil
		}
	}
	return journals.JournalEntry{}, shared.ErrJournalNotFound
}

func (j memJournals) GetWithLines(_ context.Context, id int64) (journals.JournalEntry, error) {
	for _, e := range j.tx.state.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return journals.JournalEntry{}, shared.ErrJournalNotFound
}

func (j memJournals) InsertJournalEntry(_ context.Context, in journals.PostingInput) (journals.JournalEntry, error) {
	if in.ReferenceNo == j.tx.store.conflictOn {
		return journals.JournalEntry{}, shared.ErrReferenceConflict
	}
	for _, e := range j.tx.state.entries {
		if e.ReferenceNo == in.ReferenceNo {
			return journals.JournalEntry{}, shared.ErrReferenceConflict
		}
	}
	entry := journals.JournalEntry{
		ID:           j.tx.store.nextID.Add(1),
		ReferenceNo:  in.ReferenceNo,
		EntryDate:    in.EntryDate,
		EntryType:    in.EntryType,
		Description:  in.Description,
		Status:       journals.JournalStatusPosted,
		CreatedBy:    in.CreatedBy,
		GenerationID: in.GenerationID,
	}
	j.tx.state.entries = append(j.tx.state.entries, entry)
	return entry, nil
}

func (j memJournals) InsertJournalLines(_ context.Context, entryID int64, lines []journals.PostingLineInput) error {
	if j.tx.store.failLines != nil {
		return j.tx.store.failLines
	}
	for i := range j.tx.state.entries {
		if j.tx.state.entries[i].ID == entryID {
			j.tx.state.entries[i].Lines = journals.ToJournalLines(entryID, lines)
			return nil
		}
	}
	return shared.ErrJournalNotFound
}

type recordingAudit struct {
	mu   sync.Mutex
	logs []internalShared.AuditLog
}

func (a *recordingAudit) Record(_ context.Context, log internalShared.AuditLog) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.logs = append(a.logs, log)
	return nil
}

type recordingMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (m *recordingMetrics) VoucherOutcome(voucherType, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.outcomes == nil {
		m.outcomes = map[string]int{}
	}
	m.outcomes[voucherType+":"+outcome]++
}

func (m *recordingMetrics) GenerationObserved(string, time.Duration) {}
