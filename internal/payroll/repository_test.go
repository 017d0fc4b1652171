package payroll

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	snap    Snapshot
	failOn  string
	gotRole string
	gotType string
}

func (f *fakeSource) fail(step string) error {
	if f.failOn == step {
		return errors.New("boom")
	}
	return nil
}

func (f *fakeSource) EmployeePayrolls(context.Context, Period) ([]EmployeePayroll, error) {
	return f.snap.Payrolls, f.fail("payrolls")
}

func (f *fakeSource) LeavePayouts(_ context.Context, _ Period, leaveType string) (map[string]decimal.Decimal, error) {
	f.gotType = leaveType
	return f.snap.LeavePayouts, f.fail("leave")
}

func (f *fakeSource) JobLocations(context.Context) ([]JobLocation, error) {
	return f.snap.JobLocations, f.fail("jobs")
}

func (f *fakeSource) RoleAssignments(_ context.Context, role string) ([]RoleAssignment, error) {
	f.gotRole = role
	return f.snap.Directors, f.fail("roles")
}

func (f *fakeSource) CommissionSplitRules(context.Context) ([]CommissionSplitRule, error) {
	return f.snap.SplitRules, f.fail("splits")
}

func TestLoadSnapshot(t *testing.T) {
	src := &fakeSource{snap: baseSnapshot()}
	src.snap.Payrolls = []EmployeePayroll{staffPayroll("E1", "WAITER", "10", "10")}

	snap, err := LoadSnapshot(context.Background(), src, Period{Year: 2025, Month: 3}, "cuti_tahunan")
	require.NoError(t, err)
	assert.Len(t, snap.Payrolls, 1)
	assert.Len(t, snap.JobLocations, 3)
	assert.Equal(t, RoleDirector, src.gotRole)
	assert.Equal(t, "cuti_tahunan", src.gotType)
}

func TestLoadSnapshotPropagatesErrors(t *testing.T) {
	for _, step := range []string{"payrolls", "leave", "jobs", "roles", "splits"} {
		src := &fakeSource{snap: baseSnapshot(), failOn: step}
		_, err := LoadSnapshot(context.Background(), src, Period{Year: 2025, Month: 3}, "cuti_tahunan")
		assert.Error(t, err, step)
	}
}
