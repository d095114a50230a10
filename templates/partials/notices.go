// Package partials holds the fragments shared across pages: the navigation
// bar and the notice region.
package partials

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/session"
	"github.com/Optimized-Brute-Forcer/testaurant-web/templates/components"
)

// NoticesID is the element HTMX swaps toasts into.
const NoticesID = "toasts"

// Notices renders the toast region with any pending notices.
func Notices(notices []session.Notice) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<div id="`+NoticesID+`" class="toasts" aria-live="polite">`); err != nil {
			return err
		}
		for _, n := range notices {
			if err := components.Toast(n.Message, n.Kind).Render(ctx, w); err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</div>`)
		return err
	})
}
