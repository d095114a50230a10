package partials

import (
	"context"
	"io"
	"strings"

	"github.com/a-h/templ"

	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/models"
)

// Nav is the signed-in identity and organization switcher.
type Nav struct {
	User               *models.User
	Organizations      []models.Organization
	ActiveOrganization *models.Organization
	IsAdmin            bool
}

var navLinks = []struct{ Href, Label string }{
	{"/workitems", "Workitems"},
	{"/testcases", "Testcases"},
	{"/testsuites", "Testsuites"},
	{"/executions", "Executions"},
	{"/run-tests", "Run Tests"},
	{"/members", "Members"},
	{"/resources", "Resources"},
}

// Navbar renders the top navigation. Entity links and the leave and delete
// entries only appear once an organization is active.
func Navbar(n Nav) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		active := ""
		if n.ActiveOrganization != nil {
			active = n.ActiveOrganization.ID
		}

		var b strings.Builder
		b.WriteString(`<nav class="navbar"><a class="navbar-brand" href="/dashboard">🧪 Testaurant</a>`)
		if active != "" {
			b.WriteString(`<div class="navbar-links">`)
			for _, l := range navLinks {
				b.WriteString(`<a href="` + l.Href + `">` + l.Label + `</a>`)
			}
			b.WriteString(`</div>`)
		}

		b.WriteString(`<details class="user-menu"><summary class="user-info">`)
		b.WriteString(templ.EscapeString(n.User.DisplayName()))
		if n.ActiveOrganization != nil {
			b.WriteString(` • <span class="current-org-name">` + templ.EscapeString(n.ActiveOrganization.Name) + `</span>`)
		}
		b.WriteString(` ▾</summary><div class="org-dropdown">`)

		if len(n.Organizations) > 0 {
			b.WriteString(`<div class="dropdown-header">Switch Organization</div>`)
		}
		for _, org := range n.Organizations {
			class, mark := "dropdown-item", ""
			if org.ID == active {
				class, mark = "dropdown-item active", " ✓"
			}
			b.WriteString(`<form method="post" action="/organization/switch">`)
			b.WriteString(`<input type="hidden" name="organization_id" value="` + templ.EscapeString(org.ID) + `">`)
			b.WriteString(`<button type="submit" class="` + class + `">` + templ.EscapeString(org.Name) + mark + `</button></form>`)
		}

		b.WriteString(`<div class="dropdown-divider"></div>`)
		b.WriteString(`<a class="dropdown-item" href="/onboarding?view=join">Join another Organization</a>`)
		if active != "" {
			b.WriteString(`<a class="dropdown-item danger" href="/dashboard?confirm=leave">Leave Organization</a>`)
			if n.IsAdmin {
				b.WriteString(`<a class="dropdown-item danger" href="/dashboard?confirm=delete">Delete Organization</a>`)
			}
		}
		b.WriteString(`<div class="dropdown-divider"></div>`)
		b.WriteString(`<form method="post" action="/logout"><button type="submit" class="dropdown-item">Logout</button></form>`)
		b.WriteString(`</div></details></nav>`)

		_, err := io.WriteString(w, b.String())
		return err
	})
}
