package pages

import (
	"context"
	"strings"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/models"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/session"
)

func render(t *testing.T, c templ.Component) string {
	t.Helper()
	var b strings.Builder
	require.NoError(t, c.Render(context.Background(), &b))
	return b.String()
}

func TestDashboardPage_FullLayout(t *testing.T) {
	org := models.Organization{ID: "o1", Name: "Kitchen"}
	out := render(t, DashboardPage(DashboardPageData{Shell: Shell{
		User:               &models.User{Name: "Ada"},
		Organizations:      []models.Organization{org},
		ActiveOrganization: &org,
		Notices:            []session.Notice{{Kind: session.NoticeSuccess, Message: "Switched"}},
	}}))

	assert.True(t, strings.HasPrefix(out, "<!DOCTYPE html>"))
	assert.Contains(t, out, "<title>Dashboard · Testaurant</title>")
	assert.Contains(t, out, `<nav class="navbar">`)
	assert.Contains(t, out, `<div class="toast toast-success" role="status">Switched</div>`)
	assert.Contains(t, out, `<main id="content" class="page">`)
	assert.Contains(t, out, "Welcome to Testaurant!")
}

func TestDashboardPage_PartialIsContentOnly(t *testing.T) {
	out := render(t, DashboardPage(DashboardPageData{Shell: Shell{
		User:    &models.User{Name: "Ada"},
		Partial: true,
	}}))

	assert.Contains(t, out, "Welcome to Testaurant!")
	assert.NotContains(t, out, "<html")
	assert.NotContains(t, out, `class="navbar"`)
	assert.NotContains(t, out, `id="toasts"`)
}

func TestLoginPage_SignedOutWithHead(t *testing.T) {
	out := render(t, LoginPage(LoginPageData{GoogleClientID: "client-id", LoginURI: "/auth/google/callback"}))

	assert.Contains(t, out, "<title>Sign in · Testaurant</title>")
	assert.Contains(t, out, `accounts.google.com/gsi/client`)
	assert.Less(t, strings.Index(out, "gsi/client"), strings.Index(out, "</head>"))
	assert.NotContains(t, out, `class="navbar"`)
}

func TestStatusFunc(t *testing.T) {
	got, err := status("PASSED")
	require.NoError(t, err)
	assert.Equal(t, `<span class="status-badge passed">PASSED</span>`, string(got))
}
