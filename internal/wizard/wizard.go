// Package wizard holds the form drafts behind the creation and onboarding
// flows. Drafts are rebuilt from each submitted form, so they carry no
// server-side state between requests.
package wizard

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidationError is a local check that blocks a submission before any
// request is sent.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// IsValidation reports whether err came from a local check.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// messageFor turns validator field errors into a single notice using the
// supplied per-field messages.
func messageFor(err error, messages map[string]string, fallback string) error {
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			if msg, ok := messages[fe.Field()]; ok {
				return invalid(msg)
			}
		}
	}
	return invalid(fallback)
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
