package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func sampleRows() []Entity {
	return []Entity{
		{ID: "wi_1", Name: "Login API", Type: "workitem", Description: "auth flow", CreatedBy: "u1", CreatedByName: "Ada"},
		{ID: "tc_1", Name: "Checkout", Type: "testcase", CreatedByName: "Grace", LastRanByName: "Linus"},
		{ID: "ts_1", Name: "Nightly", Type: "TESTSUITE", Description: "login and checkout", CreatedBy: "u3"},
	}
}

func ids(rows []Entity) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func TestFilter_Apply(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"zero value is identity", Filter{}, []string{"wi_1", "tc_1", "ts_1"}},
		{"all is identity", Filter{Category: CategoryAll}, []string{"wi_1", "tc_1", "ts_1"}},
		{"category case-insensitive", Filter{Category: "testsuite"}, []string{"ts_1"}},
		{"category exact", Filter{Category: "test"}, []string{}},
		{"search name", Filter{Search: "LOGIN"}, []string{"wi_1", "ts_1"}},
		{"search id", Filter{Search: "tc_"}, []string{"tc_1"}},
		{"user by name", Filter{User: "grace"}, []string{"tc_1"}},
		{"user by id", Filter{User: "u3"}, []string{"ts_1"}},
		{"user ignores runner", Filter{User: "linus"}, []string{}},
		{"composed", Filter{Category: "workitem", Search: "login", User: "ada"}, []string{"wi_1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(tt.filter.Apply(sampleRows())))
		})
	}
}

func TestFilter_NarrowingNeverGrows(t *testing.T) {
	rows := sampleRows()
	base := Filter{Search: "o"}
	narrowed := Filter{Search: "o", User: "a"}

	assert.LessOrEqual(t, len(narrowed.Apply(rows)), len(base.Apply(rows)))
	assert.LessOrEqual(t, len(base.Apply(rows)), len(rows))
}

func TestFilter_Active(t *testing.T) {
	assert.False(t, Filter{}.Active())
	assert.False(t, Filter{Category: CategoryAll}.Active())
	assert.True(t, Filter{Category: "workitem"}.Active())
	assert.True(t, Filter{User: "x"}.Active())
}

func TestUniqueUsers(t *testing.T) {
	rows := append(sampleRows(), Entity{ID: "x", CreatedByName: "Ada", LastRanByName: "Grace"})
	assert.Equal(t, []string{"Ada", "Grace", "Linus"}, UniqueUsers(rows))
	assert.Empty(t, UniqueUsers(nil))
}
