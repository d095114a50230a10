package pages

import (
	"net/url"

	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/entity"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/models"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/session"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/wizard"
)

// Shell is the data every page shares: identity, organization switcher and
// pending notices.
type Shell struct {
	User               *models.User
	Organizations      []models.Organization
	ActiveOrganization *models.Organization
	IsAdmin            bool
	Notices            []session.Notice
	// Partial renders only the content block.
	Partial bool
}

// FilterBar is the search and user filter form.
type FilterBar struct {
	Action   string
	Category string
	Search   string
	User     string
	Users    []string
}

// EnvSelect is the run environment picker.
type EnvSelect struct {
	Environments []models.Environment
	Current      models.Environment
}

// CredentialFields is the shared database credential form.
type CredentialFields struct {
	Credential    models.DatabaseCredential
	DatabaseTypes []models.DatabaseType
}

// LandingPageData holds data for the landing page.
type LandingPageData struct {
	Shell
	Authenticated bool
}

// LoginPageData holds data for the login page.
type LoginPageData struct {
	Shell
	GoogleClientID string
	LoginURI       string
	CodeFlow       bool
}

// DashboardPageData holds data for the dashboard.
type DashboardPageData struct {
	Shell
	Stats models.Stats
	// Confirm is "leave" or "delete" while a prompt is open.
	Confirm string
}

// ListRow is one table row with the controls it exposes.
type ListRow struct {
	entity.Entity
	Can      entity.Capabilities
	Expanded bool
	Running  bool
}

// ListPageData holds data for an entity list.
type ListPageData struct {
	Shell
	Kind         entity.Kind
	Kinds        []entity.Kind
	Rows         []ListRow
	Total        int
	Filter       entity.Filter
	Categories   []string
	Users        []string
	CanCreate    bool
	Busy         bool
	Confirm      *entity.Entity
	Detail       *entity.Detail
	DetailError  string
	Roles        []models.Role
	Environments []models.Environment
	Query        url.Values
}

// URL returns the list URL with the given key/value pairs replaced. An empty
// value removes the key.
func (d ListPageData) URL(pairs ...string) string {
	q := url.Values{}
	for k, v := range d.Query {
		q[k] = append([]string(nil), v...)
	}
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] == "" {
			q.Del(pairs[i])
		} else {
			q.Set(pairs[i], pairs[i+1])
		}
	}
	if len(q) == 0 {
		return "/" + string(d.Kind)
	}
	return "/" + string(d.Kind) + "?" + q.Encode()
}

// Return is the current list URL without transient prompts.
func (d ListPageData) Return() string {
	return d.URL("confirm", "")
}

// EmptyMessage is shown when no rows are left to display.
func (d ListPageData) EmptyMessage() string {
	if d.Filter.Active() {
		return "No results match your filters."
	}
	return "No " + string(d.Kind) + " found."
}

// ShowCategories reports whether the execution type tabs are shown.
func (d ListPageData) ShowCategories() bool {
	return d.Kind == entity.KindExecutions
}

// FilterBar returns the filter form state.
func (d ListPageData) FilterBar() FilterBar {
	return FilterBar{
		Action:   "/" + string(d.Kind),
		Category: d.Filter.Category,
		Search:   d.Filter.Search,
		User:     d.Filter.User,
		Users:    d.Users,
	}
}

// EnvSelect returns the environment picker for run forms.
func (d ListPageData) EnvSelect() EnvSelect {
	return EnvSelect{Environments: d.Environments, Current: models.EnvironmentQA}
}

// CreatePath is the creation wizard for the listed kind.
func (d ListPageData) CreatePath() string {
	return "/create/" + d.Kind.Singular()
}

// CreateWorkitemPageData holds data for the workitem form.
type CreateWorkitemPageData struct {
	Shell
	Draft           wizard.WorkitemDraft
	Types           []models.WorkitemType
	Methods         []string
	SQLQueryTypes   []string
	MongoOperations []string
	Connections     []models.DatabaseCredential
	EnvVars         []models.EnvVar
	// Lookup is the encoded connection and variable list, empty when a
	// fetch failed.
	Lookup string
}

// CreateGroupPageData holds data for the testcase and testsuite forms.
type CreateGroupPageData struct {
	Shell
	// Type is "testcase" or "testsuite".
	Type       string
	ChildLabel string
	Draft      wizard.GroupDraft
	Options    []wizard.Option
}

// SelectedOptions returns the chosen children in selection order.
func (d CreateGroupPageData) SelectedOptions() []wizard.Option {
	byID := make(map[string]wizard.Option, len(d.Options))
	for _, o := range d.Options {
		byID[o.ID] = o
	}
	out := make([]wizard.Option, 0, len(d.Draft.Selected))
	for _, id := range d.Draft.Selected {
		o, ok := byID[id]
		if !ok {
			o = wizard.Option{ID: id, Name: id}
		}
		out = append(out, o)
	}
	return out
}

// OnboardingPageData holds data for the onboarding views.
type OnboardingPageData struct {
	Shell
	// View is "select" or "join".
	View    string
	Search  string
	Options []wizard.JoinOption
}

// OrgSetupPageData holds data for the organization setup wizard.
type OrgSetupPageData struct {
	Shell
	Setup         wizard.OrgSetup
	Steps         []string
	Team          models.Team
	Credential    models.DatabaseCredential
	DatabaseTypes []models.DatabaseType
}

// CredentialFields returns the pending database form.
func (d OrgSetupPageData) CredentialFields() CredentialFields {
	return CredentialFields{Credential: d.Credential, DatabaseTypes: d.DatabaseTypes}
}

// Encoded is the hidden draft field value.
func (d OrgSetupPageData) Encoded() string {
	return d.Setup.Encode()
}

// CredentialRow is one connection with its identity key.
type CredentialRow struct {
	models.DatabaseCredential
	Key string
}

// ResourcesPageData holds data for the resource manager.
type ResourcesPageData struct {
	Shell
	// Tab is "connections" or "env".
	Tab           string
	ShowForm      bool
	Credentials   []CredentialRow
	EnvVars       []models.EnvVar
	Form          models.DatabaseCredential
	EditKey       string
	EnvForm       models.EnvVar
	DatabaseTypes []models.DatabaseType
	// ConfirmCredential and ConfirmEnvVar hold the item awaiting a delete prompt.
	ConfirmCredential *CredentialRow
	ConfirmEnvVar     *models.EnvVar
}

// CredentialFields returns the connection form.
func (d ResourcesPageData) CredentialFields() CredentialFields {
	return CredentialFields{Credential: d.Form, DatabaseTypes: d.DatabaseTypes}
}

// Editing reports whether the connection form edits an existing credential.
func (d ResourcesPageData) Editing() bool {
	return d.EditKey != ""
}

// RunTestsPageData holds data for the run tests page.
type RunTestsPageData struct {
	Shell
	Items        []models.Runnable
	Total        int
	Filter       entity.Filter
	Categories   []string
	Users        []string
	Environments []models.Environment
	Environment  models.Environment
	Busy         bool
	Running      string
}

// FilterBar returns the filter form state.
func (d RunTestsPageData) FilterBar() FilterBar {
	return FilterBar{
		Action:   "/run-tests",
		Category: d.Filter.Category,
		Search:   d.Filter.Search,
		User:     d.Filter.User,
		Users:    d.Users,
	}
}

// EnvSelect returns the environment picker.
func (d RunTestsPageData) EnvSelect() EnvSelect {
	return EnvSelect{Environments: d.Environments, Current: d.Environment}
}

// TypeURL returns the page URL filtered to one type.
func (d RunTestsPageData) TypeURL(category string) string {
	q := url.Values{}
	if category != "" && category != entity.CategoryAll {
		q.Set("category", category)
	}
	if d.Filter.Search != "" {
		q.Set("search", d.Filter.Search)
	}
	if d.Filter.User != "" {
		q.Set("user", d.Filter.User)
	}
	if len(q) == 0 {
		return "/run-tests"
	}
	return "/run-tests?" + q.Encode()
}
