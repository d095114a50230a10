package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDetail_Empty(t *testing.T) {
	for _, body := range []string{``, `null`, `[]`} {
		d, err := ParseDetail([]byte(body))
		require.NoError(t, err)
		assert.Equal(t, DetailEmpty, d.Kind, body)
	}
}

func TestParseDetail_Testcases(t *testing.T) {
	d, err := ParseDetail([]byte(`{"testcase_results":[
		{"testcase_title":"Checkout","overall_status":"PASSED","run_testcase_start_time":"2024-01-01T00:00:00Z"}
	]}`))
	require.NoError(t, err)
	require.Equal(t, DetailTestcases, d.Kind)
	assert.Equal(t, []TestcaseResult{{Title: "Checkout", Status: "PASSED", StartTime: "2024-01-01T00:00:00Z"}}, d.Testcases)
}

func TestParseDetail_Workitems(t *testing.T) {
	d, err := ParseDetail([]byte(`{"workitem_results":[
		{"workitem_title":"Ping","execution_status":"FAILED","execution_logs":[
			{"log_type":"INFO","message":"sent"},
			{"log_type":"ERROR","message":"timeout"}
		]},
		{"workitem_title":"Pong","execution_status":"PASSED"}
	]}`))
	require.NoError(t, err)
	require.Equal(t, DetailWorkitems, d.Kind)
	require.Len(t, d.Workitems, 2)
	assert.Len(t, d.Workitems[0].Logs, 2)
	assert.Equal(t, "[INFO] sent\n[ERROR] timeout", d.Workitems[0].LogText())
	assert.Empty(t, d.Workitems[1].Logs)
}

func TestParseDetail_Single(t *testing.T) {
	d, err := ParseDetail([]byte(`{
		"workitem_config": {"method":"GET","path":"/ping"},
		"execution_logs": [
			{"log_type":"INFO","message":"request","payload":{"status":200}},
			{"log_type":"INFO","message":"done","payload":null}
		]
	}`))
	require.NoError(t, err)
	require.Equal(t, DetailSingle, d.Kind)
	assert.Contains(t, d.Config, `"path": "/ping"`)
	assert.Equal(t, "{}", d.Response)
	require.Len(t, d.Logs, 2)
	assert.Equal(t, "{\n  \"status\": 200\n}", d.Logs[0].Payload)
	assert.Empty(t, d.Logs[1].Payload)
}
