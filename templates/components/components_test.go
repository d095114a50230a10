package components

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/session"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, c.Render(context.Background(), &b))
	return b.String()
}

func TestStatusBadge(t *testing.T) {
	tests := []struct {
		status string
		want   string
	}{
		{"", `<span class="text-muted">-</span>`},
		{"PASSED", `<span class="status-badge passed">PASSED</span>`},
		{"failed", `<span class="status-badge failed">failed</span>`},
		{"PENDING", `<span class="status-badge passed">PENDING</span>`},
		{"REJECTED", `<span class="status-badge failed">REJECTED</span>`},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			assert.Equal(t, tt.want, render(t, StatusBadge(tt.status)))
		})
	}
}

func TestStatusBadge_EscapesStatus(t *testing.T) {
	out := render(t, StatusBadge(`<b>"x"</b>`))
	assert.NotContains(t, out, "<b>")
	assert.Contains(t, out, "&lt;b&gt;")
}

func TestToast(t *testing.T) {
	assert.Equal(t,
		`<div class="toast toast-error" role="status">Could not save</div>`,
		render(t, Toast("Could not save", ToastError)))
	assert.Equal(t,
		`<div class="toast toast-info" role="status">a &amp; b</div>`,
		render(t, Toast("a & b", "")))
	assert.Equal(t, session.NoticeWarning, ToastWarning)
}
