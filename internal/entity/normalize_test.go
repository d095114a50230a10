package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnwrap(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{"bare array", `[{"id":"a"},{"id":"b"}]`, 2},
		{"runs field", `{"runs":[{"id":"a"}],"items":[{"id":"x"},{"id":"y"}]}`, 1},
		{"items field", `{"items":[{"id":"x"},{"id":"y"}]}`, 2},
		{"neither", `{"total":3}`, 0},
		{"null", `null`, 0},
		{"empty body", ``, 0},
		{"scalar items kept", `[1,"two",null]`, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, err := Unwrap([]byte(tt.body))
			require.NoError(t, err)
			assert.Len(t, items, tt.want)
		})
	}
}

func TestUnwrap_InvalidJSON(t *testing.T) {
	_, err := Unwrap([]byte(`{"items":`))
	assert.Error(t, err)
}

func TestNormalize_Workitems(t *testing.T) {
	items, err := Unwrap([]byte(`[{
		"workitem_id": "wi_1",
		"workitem_title": "Ping",
		"type": "REST",
		"workitem_created_date": "2024-01-01T00:00:00Z",
		"created_by": "u1",
		"created_by_name": "Ada",
		"last_run_status": "PASSED"
	}]`))
	require.NoError(t, err)

	rows := Normalize(KindWorkitems, items)
	require.Len(t, rows, 1)
	e := rows[0]
	assert.Equal(t, "wi_1", e.ID)
	assert.Equal(t, "wi_1", e.EntityID)
	assert.Equal(t, "Ping", e.Name)
	assert.Equal(t, "REST", e.Type)
	assert.Equal(t, "2024-01-01T00:00:00Z", e.CreatedAt)
	assert.Equal(t, "Ada", e.Creator())
	assert.Equal(t, "PASSED", e.LastRunStatus)
}

func TestNormalize_IDFallbackIsTotal(t *testing.T) {
	items, err := Unwrap([]byte(`[{}, {"id": ""}, {"name": "kept"}]`))
	require.NoError(t, err)

	rows := Normalize(KindExecutions, items)
	require.Len(t, rows, 3)
	for i, e := range rows {
		assert.NotEmpty(t, e.ID)
		assert.Equal(t, e.ID, e.EntityID)
		assert.Equal(t, "unknown", e.Type, "row %d", i)
	}
	assert.Equal(t, "unknown-0", rows[0].ID)
	assert.Equal(t, "Run unknown-0", rows[0].Name)
	assert.Equal(t, "unknown-1", rows[1].ID)
	assert.Equal(t, "kept", rows[2].Name)
}

func TestNormalize_TypeFallback(t *testing.T) {
	items := []map[string]any{{"id": "1"}}

	assert.Equal(t, "member", Normalize(KindMembers, items)[0].Type)
	assert.Equal(t, "testcase", Normalize(KindTestcases, items)[0].Type)
	assert.Equal(t, "join-request", Normalize(KindJoinRequests, items)[0].Type)
	assert.Equal(t, "unknown", Normalize(KindExecutions, items)[0].Type)
}

func TestNormalize_Executions(t *testing.T) {
	items, err := Unwrap([]byte(`{"runs":[{
		"run_testcase_id": "run_9",
		"entity_id": "tc_3",
		"testcase_title": "Checkout",
		"type": "testcase",
		"executor_context": "u2",
		"executor_name": "Grace",
		"run_testcase_start_time": "2024-02-02T10:00:00Z",
		"overall_status": "FAILED"
	}]}`))
	require.NoError(t, err)

	e := Normalize(KindExecutions, items)[0]
	assert.Equal(t, "run_9", e.ID)
	assert.Equal(t, "tc_3", e.EntityID)
	assert.Equal(t, "Checkout", e.Name)
	assert.Equal(t, "u2", e.CreatedBy)
	assert.Equal(t, "u2", e.LastRanBy)
	assert.Equal(t, "Grace", e.Runner())
	assert.Equal(t, "2024-02-02T10:00:00Z", e.LastRanAt)
	assert.Equal(t, "FAILED", e.LastRunStatus)
}

func TestNormalize_MembersAndRequests(t *testing.T) {
	members, err := Unwrap([]byte(`[{"user_id":"u1","email":"ada@example.com","role":"ORG_ADMIN"}]`))
	require.NoError(t, err)
	m := Normalize(KindMembers, members)[0]
	assert.Equal(t, "u1", m.ID)
	assert.Equal(t, "ada@example.com", m.Name)
	assert.Equal(t, "ORG_ADMIN", m.Role)

	requests, err := Unwrap([]byte(`[{"request_id":"r1","user_id":"u5","email":"bo@example.com","requested_role":"ORG_MEMBER","status":"PENDING"}]`))
	require.NoError(t, err)
	r := Normalize(KindJoinRequests, requests)[0]
	assert.Equal(t, "u5", r.ID)
	assert.Equal(t, "r1", r.ActionID())
	assert.Equal(t, "ORG_MEMBER", r.RequestedRole)
	assert.Equal(t, "PENDING", r.LastRunStatus)

	noRequestID := Entity{ID: "u6"}
	assert.Equal(t, "u6", noRequestID.ActionID())
}

func TestNormalize_ScalarFormatting(t *testing.T) {
	items, err := Unwrap([]byte(`[{"id": 1700000000123, "name": true, "description": 2.5}]`))
	require.NoError(t, err)

	e := Normalize(KindWorkitems, items)[0]
	assert.Equal(t, "1700000000123", e.ID)
	assert.Equal(t, "true", e.Name)
	assert.Equal(t, "2.5", e.Description)
}

func TestEntity_DisplayFallbacks(t *testing.T) {
	var e Entity
	assert.Equal(t, "Unknown", e.Creator())
	assert.Equal(t, "System", e.Runner())

	e.CreatedBy = "u1"
	e.LastRanBy = "u2"
	assert.Equal(t, "u1", e.Creator())
	assert.Equal(t, "u2", e.Runner())
}
