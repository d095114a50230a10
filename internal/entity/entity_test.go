package entity

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseKind(t *testing.T) {
	for _, k := range Kinds {
		got, err := ParseKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	_, err := ParseKind("widgets")
	assert.ErrorIs(t, err, ErrUnknownKind)
}

func TestKind_Properties(t *testing.T) {
	assert.Equal(t, "workitem", KindWorkitems.Singular())
	assert.Equal(t, "member", KindMembers.Singular())
	assert.Equal(t, "Workitems", KindWorkitems.Title())
	assert.Equal(t, "Pending Join Requests", KindJoinRequests.Title())
	assert.Equal(t, "remove", KindMembers.RemoveVerb())
	assert.Equal(t, "delete", KindTestsuites.RemoveVerb())
	assert.Equal(t, "Failed to fetch executions", KindExecutions.FetchError())
	assert.True(t, KindMembers.OrgScoped())
	assert.False(t, KindExecutions.OrgScoped())
	assert.True(t, KindExecutions.Expandable())
}

func TestStatusBadge(t *testing.T) {
	tests := []struct {
		status string
		want   Badge
	}{
		{"", BadgeNone},
		{"APPROVED", BadgePassed},
		{"PENDING", BadgePassed},
		{"REJECTED", BadgeFailed},
		{"PASSED", BadgePassed},
		{"passed", BadgePassed},
		{"FAILED", BadgeFailed},
		{"RUNNING", BadgeFailed},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusBadge(tt.status), tt.status)
	}
}

func TestCapabilitiesFor(t *testing.T) {
	admin := Actor{UserID: "u1", IsAdmin: true}
	member := Actor{UserID: "u2"}

	wi := CapabilitiesFor(KindWorkitems, Entity{ID: "wi_1"}, admin)
	assert.Equal(t, Capabilities{Run: true, Delete: true}, wi)

	exec := CapabilitiesFor(KindExecutions, Entity{ID: "run_1"}, member)
	assert.Equal(t, Capabilities{}, exec)

	req := CapabilitiesFor(KindJoinRequests, Entity{ID: "u9"}, admin)
	assert.True(t, req.Handle)
	assert.False(t, req.Delete)
	assert.False(t, req.Run)

	other := CapabilitiesFor(KindMembers, Entity{ID: "u5"}, admin)
	assert.True(t, other.ChangeRole)
	assert.True(t, other.Delete)
	assert.False(t, other.Run)
}

func TestCapabilitiesFor_NoSelfDemotion(t *testing.T) {
	for _, actor := range []Actor{{UserID: "u1", IsAdmin: true}, {UserID: "u1"}} {
		caps := CapabilitiesFor(KindMembers, Entity{ID: "u1"}, actor)
		assert.False(t, caps.ChangeRole)
	}
	caps := CapabilitiesFor(KindMembers, Entity{ID: "u5"}, Actor{UserID: "u1"})
	assert.False(t, caps.ChangeRole)
}

func TestCanCreate(t *testing.T) {
	assert.True(t, CanCreate(KindTestcases, Actor{IsAdmin: true}))
	assert.False(t, CanCreate(KindTestcases, Actor{}))
	assert.False(t, CanCreate(KindExecutions, Actor{IsAdmin: true}))
}

func TestRunGuard(t *testing.T) {
	g := NewRunGuard()

	require.True(t, g.TryStart("s1", "workitems", "wi_42"))
	assert.False(t, g.TryStart("s1", "workitems", "wi_43"))
	assert.True(t, g.TryStart("s1", "testcases", "tc_1"))
	assert.True(t, g.TryStart("s2", "workitems", "wi_43"))

	id, ok := g.Running("s1", "workitems")
	assert.True(t, ok)
	assert.Equal(t, "wi_42", id)

	g.Done("s1", "workitems")
	_, ok = g.Running("s1", "workitems")
	assert.False(t, ok)
	assert.True(t, g.TryStart("s1", "workitems", "wi_43"))
}

func TestRunGuard_Concurrent(t *testing.T) {
	g := NewRunGuard()
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		started int
	)
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if g.TryStart("s", "workitems", "wi") {
				mu.Lock()
				started++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, started)
}
