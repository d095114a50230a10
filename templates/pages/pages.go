// Package pages renders the dashboard views.
//
// Every page is a templ.Component. A page renders its content block inside
// layouts.Base, or the content block alone when Shell.Partial is set for
// HTMX swaps into #content.
package pages

import (
	"context"
	"embed"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/a-h/templ"

	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/entity"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/models"
	"github.com/Optimized-Brute-Forcer/testaurant-web/templates/components"
	"github.com/Optimized-Brute-Forcer/testaurant-web/templates/layouts"
	"github.com/Optimized-Brute-Forcer/testaurant-web/templates/partials"
)

//go:embed html/*.html
var files embed.FS

var funcs = template.FuncMap{
	"status":           status,
	"date":             formatDate,
	"datetime":         formatDateTime,
	"detailView":       detailView,
	"lower":            strings.ToLower,
	"add":              func(a, b int) int { return a + b },
	"envChips":         newEnvChips,
	"connectionPicker": newConnectionPicker,
}

var base = template.Must(
	template.New("base").Funcs(funcs).ParseFS(files, "html/shared.html"),
)

type view struct {
	t *template.Template
}

func parse(name string) view {
	t := template.Must(base.Clone())
	return view{t: template.Must(t.ParseFS(files, "html/"+name+".html"))}
}

// render wraps the content block in the base layout unless the request
// only wants the content.
func (v view) render(s Shell, data any) templ.Component {
	content := templ.FromGoHTML(v.t.Lookup("content"), data)
	if s.Partial {
		return content
	}
	page := layouts.Page{
		Title:   templ.FromGoHTML(v.t.Lookup("title"), data),
		Notices: s.Notices,
	}
	if head := v.t.Lookup("head"); head != nil {
		page.Head = templ.FromGoHTML(head, data)
	}
	if s.User != nil {
		page.Nav = &partials.Nav{
			User:               s.User,
			Organizations:      s.Organizations,
			ActiveOrganization: s.ActiveOrganization,
			IsAdmin:            s.IsAdmin,
		}
	}
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return layouts.Base(page).Render(templ.WithChildren(ctx, content), w)
	})
}

var (
	landingView        = parse("landing")
	loginView          = parse("login")
	dashboardView      = parse("dashboard")
	listView           = parse("list")
	createWorkitemView = parse("create_workitem")
	createGroupView    = parse("create_group")
	onboardingView     = parse("onboarding")
	orgSetupView       = parse("orgsetup")
	resourcesView      = parse("resources")
	runTestsView       = parse("runtests")
)

// LandingPage renders the public landing page.
func LandingPage(d LandingPageData) templ.Component { return landingView.render(d.Shell, d) }

// LoginPage renders the Google sign-in page.
func LoginPage(d LoginPageData) templ.Component { return loginView.render(d.Shell, d) }

// DashboardPage renders the dashboard.
func DashboardPage(d DashboardPageData) templ.Component { return dashboardView.render(d.Shell, d) }

// ListPage renders an entity list.
func ListPage(d ListPageData) templ.Component { return listView.render(d.Shell, d) }

// CreateWorkitemPage renders the workitem form.
func CreateWorkitemPage(d CreateWorkitemPageData) templ.Component {
	return createWorkitemView.render(d.Shell, d)
}

// CreateGroupPage renders the testcase or testsuite form.
func CreateGroupPage(d CreateGroupPageData) templ.Component {
	return createGroupView.render(d.Shell, d)
}

// OnboardingPage renders the create-or-join choice and the join view.
func OnboardingPage(d OnboardingPageData) templ.Component { return onboardingView.render(d.Shell, d) }

// OrgSetupPage renders the organization setup wizard.
func OrgSetupPage(d OrgSetupPageData) templ.Component { return orgSetupView.render(d.Shell, d) }

// ResourcesPage renders connections and environment variables.
func ResourcesPage(d ResourcesPageData) templ.Component { return resourcesView.render(d.Shell, d) }

// RunTestsPage renders the runnable items table.
func RunTestsPage(d RunTestsPageData) templ.Component { return runTestsView.render(d.Shell, d) }

func status(s string) (template.HTML, error) {
	return templ.ToGoHTML(context.Background(), components.StatusBadge(s))
}

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", "2006-01-02 15:04:05"}

func parseTime(s string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func formatDate(s string) string {
	if s == "" {
		return "N/A"
	}
	if t, ok := parseTime(s); ok {
		return t.Format("2006-01-02")
	}
	return s
}

func formatDateTime(s string) string {
	if t, ok := parseTime(s); ok {
		return t.Format("2006-01-02 15:04")
	}
	return s
}

func detailView(d *entity.Detail) string {
	if d == nil {
		return ""
	}
	switch d.Kind {
	case entity.DetailTestcases:
		return "testcases"
	case entity.DetailWorkitems:
		return "workitems"
	case entity.DetailSingle:
		return "single"
	}
	return "empty"
}

type envChips struct {
	Vars   []models.EnvVar
	Target string
}

func newEnvChips(vars []models.EnvVar, target string) envChips {
	return envChips{Vars: vars, Target: target}
}

type connectionPicker struct {
	Field       string
	Current     string
	Connections []models.DatabaseCredential
	// Unknown is set when Current names no listed connection.
	Unknown bool
}

func newConnectionPicker(field, current string, conns []models.DatabaseCredential) connectionPicker {
	unknown := current != "" && current != "default"
	for _, c := range conns {
		if c.DatabaseName == current {
			unknown = false
			break
		}
	}
	return connectionPicker{Field: field, Current: current, Connections: conns, Unknown: unknown}
}
