package components

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/session"
)

// Toast variants.
const (
	ToastSuccess = session.NoticeSuccess
	ToastError   = session.NoticeError
	ToastInfo    = session.NoticeInfo
	ToastWarning = session.NoticeWarning
)

// Toast renders one notice.
func Toast(message string, variant session.NoticeKind) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if variant == "" {
			variant = ToastInfo
		}
		_, err := io.WriteString(w, `<div class="toast toast-`+
			templ.EscapeString(string(variant))+`" role="status">`+
			templ.EscapeString(message)+`</div>`)
		return err
	})
}
