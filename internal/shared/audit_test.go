package shared

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type execRecorder struct {
	sql  string
	args []any
}

func (r *execRecorder) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	r.sql = sql
	r.args = args
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (r *execRecorder) Query(context.Context, string, ...any) (pgx.Rows, error) { return nil, nil }

func (r *execRecorder) QueryRow(context.Context, string, ...any) pgx.Row { return nil }

func TestAuditRecordDefaultsActor(t *testing.T) {
	rec := &execRecorder{}
	err := NewAuditLogger(rec).Record(context.Background(), AuditLog{
		Action:   "payroll_jv.generate",
		Entity:   "journal_entry",
		EntityID: "JVSL/03/25",
		Meta:     map[string]any{"lines": 9},
	})
	require.NoError(t, err)
	assert.Contains(t, rec.sql, "INSERT INTO audit_logs")
	require.Len(t, rec.args, 6)
	assert.Equal(t, SystemActor, rec.args[0])
	var meta map[string]any
	require.NoError(t, json.Unmarshal(rec.args[4].([]byte), &meta))
	assert.EqualValues(t, 9, meta["lines"])
}

func TestAuditRecordRequiresIdentity(t *testing.T) {
	rec := &execRecorder{}
	err := NewAuditLogger(rec).Record(context.Background(), AuditLog{Action: "payroll_jv.generate"})
	assert.Error(t, err)
	assert.Empty(t, rec.sql)

	var nilLogger *AuditLogger
	assert.Error(t, nilLogger.Record(context.Background(), AuditLog{}))
}

func TestPayrollVoucherLockKey(t *testing.T) {
	assert.Equal(t, "payroll:jv:2025-03:lock", PayrollVoucherLockKey(2025, 3))
}
