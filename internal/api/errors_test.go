package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestParseError(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		body       string
		wantDetail string
	}{
		{"fastapi string detail", 400, `{"detail": "Organization already exists"}`, "Organization already exists"},
		{"fastapi validation detail", 422, `{"detail": [{"msg": "field required"}, {"msg": "value is not a valid email"}]}`, "field required; value is not a valid email"},
		{"message body", 500, `{"message": "boom"}`, "boom"},
		{"plain text", 502, `Bad Gateway`, ""},
		{"empty", 404, ``, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := parseError(tt.status, []byte(tt.body))
			apiErr, ok := IsAPIError(err)
			if !ok {
				t.Fatalf("expected *Error, got %T", err)
			}
			if apiErr.StatusCode != tt.status {
				t.Errorf("expected status %d, got %d", tt.status, apiErr.StatusCode)
			}
			if apiErr.Detail != tt.wantDetail {
				t.Errorf("expected detail %q, got %q", tt.wantDetail, apiErr.Detail)
			}
			if apiErr.Body != tt.body {
				t.Errorf("expected raw body to be kept")
			}
		})
	}
}

func TestError_Predicates(t *testing.T) {
	if !(&Error{StatusCode: http.StatusNotFound}).IsNotFound() {
		t.Error("expected IsNotFound")
	}
	if !(&Error{StatusCode: http.StatusUnauthorized}).IsUnauthorized() {
		t.Error("expected IsUnauthorized")
	}
	if !(&Error{StatusCode: http.StatusForbidden}).IsForbidden() {
		t.Error("expected IsForbidden")
	}
	if !(&Error{StatusCode: http.StatusConflict}).IsConflict() {
		t.Error("expected IsConflict")
	}
	if !(&Error{StatusCode: http.StatusUnprocessableEntity}).IsValidationError() {
		t.Error("expected IsValidationError")
	}
}

func TestDetail(t *testing.T) {
	wrapped := fmt.Errorf("leave: %w", &Error{StatusCode: 400, Detail: "Cannot leave as last admin"})

	if got := Detail(wrapped, "Failed to leave organization"); got != "Cannot leave as last admin" {
		t.Errorf("expected backend detail, got %q", got)
	}
	if got := Detail(&Error{StatusCode: 500}, "Execution failed"); got != "Execution failed" {
		t.Errorf("expected fallback, got %q", got)
	}
	if got := Detail(errors.New("dial tcp: refused"), "Login failed"); got != "Login failed" {
		t.Errorf("expected fallback for transport error, got %q", got)
	}
}

func TestIsUnauthorized(t *testing.T) {
	_, client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail": "Could not validate credentials"}`))
	})

	_, err := client.BFF.Stats(context.Background())
	if !IsUnauthorized(err) {
		t.Fatalf("expected unauthorized error, got %v", err)
	}
	if Detail(err, "") != "Could not validate credentials" {
		t.Errorf("unexpected detail %q", Detail(err, ""))
	}
}
