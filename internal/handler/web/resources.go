package web

import (
	"errors"
	"net/http"
	"net/url"

	"golang.org/x/sync/errgroup"

	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/models"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/resource"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/session"
	"github.com/Optimized-Brute-Forcer/testaurant-web/templates/pages"
)

// Resource tabs.
const (
	tabConnections = "connections"
	tabEnv         = "env"
)

// resourcesState is the view state of the resources page beyond the fetched
// lists.
type resourcesState struct {
	Tab      string
	ShowForm bool
	EditKey  string
	Confirm  string
	// Form and EnvForm carry a rejected submission back to the user.
	Form    *models.DatabaseCredential
	EnvForm models.EnvVar
}

func resourcesStateFrom(q url.Values) resourcesState {
	st := resourcesState{
		Tab:      tabConnections,
		ShowForm: q.Get("form") == "new",
		EditKey:  q.Get("edit"),
		Confirm:  q.Get("confirm"),
	}
	if q.Get("tab") == tabEnv {
		st.Tab = tabEnv
	}
	return st
}

// ResourcesPage renders the connections and environment variables tabs.
func (h *WebHandler) ResourcesPage(w http.ResponseWriter, r *http.Request) {
	h.renderResources(w, r, resourcesStateFrom(r.URL.Query()))
}

// renderResources fetches credentials and variables in parallel. Either
// fetch may fail on its own.
func (h *WebHandler) renderResources(w http.ResponseWriter, r *http.Request, st resourcesState, notices ...session.Notice) {
	ctx := r.Context()
	orgID := sessionFrom(r).ActiveOrganizationID
	admin := sessionFrom(r).IsAdmin()

	var (
		creds   []models.DatabaseCredential
		envVars []models.EnvVar
		credErr error
		envErr  error
	)
	var g errgroup.Group
	g.Go(func() error {
		creds, credErr = h.resources.Credentials(ctx, orgID)
		return nil
	})
	g.Go(func() error {
		envVars, envErr = h.resources.EnvVars(ctx, orgID)
		return nil
	})
	_ = g.Wait()

	for _, err := range []error{credErr, envErr} {
		if err != nil && h.unauthorized(w, r, err) {
			return
		}
	}
	if credErr != nil {
		h.gatewayError(credErr, "failed to fetch connections")
		notices = append(notices, failure("Failed to fetch connections"))
	}
	if envErr != nil {
		h.gatewayError(envErr, "failed to fetch environment variables")
		notices = append(notices, failure("Failed to fetch environment variables"))
	}

	data := pages.ResourcesPageData{
		Tab:           st.Tab,
		ShowForm:      admin && st.ShowForm,
		EnvVars:       envVars,
		EnvForm:       st.EnvForm,
		DatabaseTypes: models.DatabaseTypes,
		Form:          resource.NewCredential(),
	}
	for _, c := range creds {
		data.Credentials = append(data.Credentials, pages.CredentialRow{
			DatabaseCredential: c,
			Key:                resource.KeyOf(c).String(),
		})
	}

	if admin && st.EditKey != "" {
		if key, err := resource.ParseKey(st.EditKey); err == nil {
			if c, ok := resource.Find(creds, key); ok {
				data.EditKey = st.EditKey
				data.Form = resource.EditForm(c)
			}
		}
		if data.EditKey == "" && st.Form == nil {
			notices = append(notices, notice(session.NoticeWarning, "Connection not found"))
		}
	}
	if st.Form != nil {
		data.Form = resource.EditForm(*st.Form)
		data.EditKey = st.EditKey
	}

	if st.Confirm != "" {
		switch st.Tab {
		case tabConnections:
			for i := range data.Credentials {
				if admin && data.Credentials[i].Key == st.Confirm {
					data.ConfirmCredential = &data.Credentials[i]
					break
				}
			}
		case tabEnv:
			for i := range envVars {
				if envVars[i].Key == st.Confirm {
					data.ConfirmEnvVar = &envVars[i]
					break
				}
			}
		}
	}

	data.Shell = h.shell(w, r, notices...)
	h.render(w, r, pages.ResourcesPage(data))
}

// afterResourceAction shows the outcome of a resource mutation on the given
// tab.
func (h *WebHandler) afterResourceAction(w http.ResponseWriter, r *http.Request, tab string, notices ...session.Notice) {
	if isHTMX(r) {
		h.renderResources(w, r, resourcesState{Tab: tab}, notices...)
		return
	}
	h.redirect(w, r, "/resources?tab="+tab, notices...)
}

// SaveConnection adds a connection or updates the one with the same key.
// The password must always be entered.
func (h *WebHandler) SaveConnection(w http.ResponseWriter, r *http.Request) {
	if !sessionFrom(r).IsAdmin() {
		h.afterResourceAction(w, r, tabConnections, failure("Failed to save connection"))
		return
	}
	if err := r.ParseForm(); err != nil {
		h.afterResourceAction(w, r, tabConnections, failure("Failed to save connection"))
		return
	}

	cred := resource.CredentialFromForm(r.PostForm)
	editKey := r.PostFormValue("edit_key")
	retry := resourcesState{Tab: tabConnections, ShowForm: true, EditKey: editKey, Form: &cred}

	if err := resource.ValidateForSave(cred); err != nil {
		n := failure(err.Error())
		if errors.Is(err, resource.ErrPasswordRequired) {
			n = notice(session.NoticeWarning, err.Error())
		}
		h.renderResources(w, r, retry, n)
		return
	}

	orgID := sessionFrom(r).ActiveOrganizationID
	if err := h.resources.SaveCredentials(r.Context(), orgID, []models.DatabaseCredential{cred}); err != nil {
		if h.unauthorized(w, r, err) {
			return
		}
		h.gatewayError(err, "failed to save connection")
		h.renderResources(w, r, retry, failure("Failed to save connection"))
		return
	}

	msg := "Connection added"
	if editKey != "" {
		msg = "Connection updated"
	}
	h.logger.Info().Str("organization_id", orgID).Str("database", cred.DatabaseName).Msg("connection saved")
	h.afterResourceAction(w, r, tabConnections, success(msg))
}

// DeleteConnection removes a connection after confirmation.
func (h *WebHandler) DeleteConnection(w http.ResponseWriter, r *http.Request) {
	rawKey := r.FormValue("key")
	if !sessionFrom(r).IsAdmin() {
		h.afterResourceAction(w, r, tabConnections, failure("Failed to delete connection"))
		return
	}
	if r.FormValue("confirm") != "yes" {
		q := url.Values{"tab": {tabConnections}, "confirm": {rawKey}}
		h.redirect(w, r, "/resources?"+q.Encode())
		return
	}

	key, err := resource.ParseKey(rawKey)
	if err != nil {
		h.afterResourceAction(w, r, tabConnections, failure("Failed to delete connection"))
		return
	}

	orgID := sessionFrom(r).ActiveOrganizationID
	if err := h.resources.DeleteCredential(r.Context(), orgID, key.Host, key.Port, key.DatabaseName); err != nil {
		if h.unauthorized(w, r, err) {
			return
		}
		h.gatewayError(err, "failed to delete connection")
		h.afterResourceAction(w, r, tabConnections, failure("Failed to delete connection"))
		return
	}
	h.afterResourceAction(w, r, tabConnections, success("Connection deleted"))
}

// AddEnvVar adds or replaces an environment variable.
func (h *WebHandler) AddEnvVar(w http.ResponseWriter, r *http.Request) {
	if !sessionFrom(r).IsAdmin() {
		h.afterResourceAction(w, r, tabEnv, failure("Failed to add variable"))
		return
	}
	if err := r.ParseForm(); err != nil {
		h.afterResourceAction(w, r, tabEnv, failure("Failed to add variable"))
		return
	}

	v := resource.EnvVarFromForm(r.PostForm)
	retry := resourcesState{Tab: tabEnv, ShowForm: true, EnvForm: v}
	if err := resource.ValidateEnvVar(v); err != nil {
		h.renderResources(w, r, retry, failure(err.Error()))
		return
	}

	if err := h.resources.AddEnvVar(r.Context(), sessionFrom(r).ActiveOrganizationID, v); err != nil {
		if h.unauthorized(w, r, err) {
			return
		}
		h.gatewayError(err, "failed to add variable")
		h.renderResources(w, r, retry, failure("Failed to add variable"))
		return
	}
	h.afterResourceAction(w, r, tabEnv, success("Variable added"))
}

// DeleteEnvVar removes an environment variable after confirmation.
func (h *WebHandler) DeleteEnvVar(w http.ResponseWriter, r *http.Request) {
	key := r.FormValue("key")
	if r.FormValue("confirm") != "yes" {
		q := url.Values{"tab": {tabEnv}, "confirm": {key}}
		h.redirect(w, r, "/resources?"+q.Encode())
		return
	}
	if key == "" {
		h.afterResourceAction(w, r, tabEnv, failure("Failed to delete variable"))
		return
	}

	if err := h.resources.DeleteEnvVar(r.Context(), sessionFrom(r).ActiveOrganizationID, key); err != nil {
		if h.unauthorized(w, r, err) {
			return
		}
		h.gatewayError(err, "failed to delete variable")
		h.afterResourceAction(w, r, tabEnv, failure("Failed to delete variable"))
		return
	}
	h.afterResourceAction(w, r, tabEnv, success("Variable deleted"))
}
