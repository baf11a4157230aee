package plant

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditRecordAndList(t *testing.T) {
	r := newTestRegistry(t)

	actor := int64(7)
	r.audit.Record(ActionAssetCreate, "Registered asset ONT-1 (ONT)", &actor)
	r.audit.Record(ActionAssetDelete, "Deleted asset ONT-1", nil)
	r.audit.Record(ActionAssetCreate, "Registered asset ONT-2 (ONT)", nil)

	all, err := r.audit.List("", 0)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	created, err := r.audit.List(ActionAssetCreate, 0)
	require.NoError(t, err)
	require.Len(t, created, 2)
	for _, event := range created {
		assert.Equal(t, ActionAssetCreate, event.ActionType)
		assert.NotEmpty(t, event.CorrelationID)
	}

	limited, err := r.audit.List("", 2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestAuditDeleteOlderThan(t *testing.T) {
	r := newTestRegistry(t)

	r.audit.Record(ActionAssetCreate, "old event", nil)
	r.audit.Record(ActionAssetCreate, "another old event", nil)

	deleted, err := r.audit.DeleteOlderThan(time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	remaining, err := r.audit.List("", 0)
	require.NoError(t, err)
	assert.Empty(t, remaining)

	// Nothing beyond the cutoff, nothing deleted.
	deleted, err = r.audit.DeleteOlderThan(time.Now().Add(-time.Hour))
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestAuditRecordSwallowsFailures(t *testing.T) {
	r := newTestRegistry(t)

	// Drop the table so the insert fails; Record must not panic or
	// surface the error to the workflow.
	require.NoError(t, r.db.Migrator().DropTable(&AuditEvent{}))
	assert.NotPanics(t, func() {
		r.audit.Record(ActionAssetCreate, "write after drop", nil)
	})
}
