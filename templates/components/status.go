// Package components holds the small elements shared by pages and partials.
package components

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/entity"
)

// StatusBadge renders a run or request status. An empty status renders a
// muted dash.
func StatusBadge(status string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if status == "" {
			_, err := io.WriteString(w, `<span class="text-muted">-</span>`)
			return err
		}
		_, err := io.WriteString(w, `<span class="status-badge `+
			templ.EscapeString(string(entity.StatusBadge(status)))+`">`+
			templ.EscapeString(status)+`</span>`)
		return err
	})
}
