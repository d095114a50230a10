package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error represents an error response from the backend.
type Error struct {
	// StatusCode is the HTTP status code.
	StatusCode int
	// Detail is the human-readable message reported by the backend, if any.
	Detail string
	// Body is the raw response body.
	Body string
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("api error %d: %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// IsNotFound returns true if the error is a not found error.
func (e *Error) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized returns true if the backend rejected the credentials.
func (e *Error) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// IsForbidden returns true if the error is a permission error.
func (e *Error) IsForbidden() bool {
	return e.StatusCode == http.StatusForbidden
}

// IsConflict returns true if the request conflicts with existing state.
func (e *Error) IsConflict() bool {
	return e.StatusCode == http.StatusConflict
}

// IsValidationError returns true if the backend rejected the payload.
func (e *Error) IsValidationError() bool {
	return e.StatusCode == http.StatusBadRequest || e.StatusCode == http.StatusUnprocessableEntity
}

// parseError parses an error response from the API.
func parseError(statusCode int, body []byte) error {
	apiErr := &Error{
		StatusCode: statusCode,
		Body:       string(body),
	}

	// FastAPI reports {"detail": "..."} for HTTPException and
	// {"detail": [{"msg": "...", "loc": [...]}]} for validation failures.
	var envelope struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return apiErr
	}

	if len(envelope.Detail) > 0 {
		var text string
		if err := json.Unmarshal(envelope.Detail, &text); err == nil {
			apiErr.Detail = text
			return apiErr
		}

		var items []struct {
			Msg string `json:"msg"`
		}
		if err := json.Unmarshal(envelope.Detail, &items); err == nil {
			msgs := make([]string, 0, len(items))
			for _, item := range items {
				if item.Msg != "" {
					msgs = append(msgs, item.Msg)
				}
			}
			apiErr.Detail = strings.Join(msgs, "; ")
			return apiErr
		}
	}

	apiErr.Detail = envelope.Message
	return apiErr
}

// IsAPIError checks if an error is an API error and returns it.
func IsAPIError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	apiErr, ok := IsAPIError(err)
	return ok && apiErr.IsUnauthorized()
}

// Detail returns the backend-supplied message for err, or fallback when the
// backend did not provide one.
func Detail(err error, fallback string) string {
	if apiErr, ok := IsAPIError(err); ok && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return fallback
}
