package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/api"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/models"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/session"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/wizard"
	"github.com/Optimized-Brute-Forcer/testaurant-web/templates/pages"
)

// Create form actions carried in the "action" query parameter.
const (
	actionSwitch    = "switch"
	actionInsertEnv = "insert-env"
	actionToggle    = "toggle"
)

// groupTypes describes the testcase and testsuite forms by the sibling
// collection they pick children from.
var groupTypes = map[string]struct {
	collection string
	idField    string
	label      string
}{
	"testcase":  {collection: "workitems", idField: "workitem_id", label: "Workitems"},
	"testsuite": {collection: "testcases", idField: "testcase_id", label: "Testcases"},
}

// CreateWorkitemPage renders an empty workitem form.
func (h *WebHandler) CreateWorkitemPage(w http.ResponseWriter, r *http.Request) {
	h.renderWorkitem(w, r, wizard.NewWorkitemDraft(), nil)
}

// CreateWorkitem handles every workitem form post: type switches, variable
// insertion and the final submit.
func (h *WebHandler) CreateWorkitem(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderWorkitem(w, r, wizard.NewWorkitemDraft(), nil, failure("Invalid form"))
		return
	}
	draft := wizard.WorkitemDraftFromForm(r.PostForm)
	var cached *wizard.Lookup
	if l, ok := wizard.DecodeLookup(r.PostForm.Get("lookup")); ok {
		cached = &l
	}

	q := r.URL.Query()
	switch q.Get("action") {
	case actionSwitch:
		h.renderWorkitem(w, r, draft, cached)
		return
	case actionInsertEnv:
		draft.InsertEnv(q.Get("target"), q.Get("key"))
		h.renderWorkitem(w, r, draft, cached)
		return
	}

	req, err := draft.Payload()
	if err != nil {
		h.renderWorkitem(w, r, draft, cached, failure(err.Error()))
		return
	}

	if err := h.bff.Create(r.Context(), "workitems", req); err != nil {
		if h.unauthorized(w, r, err) {
			return
		}
		h.gatewayError(err, "failed to create workitem")
		h.renderWorkitem(w, r, draft, cached, failure(api.Detail(err, "Failed to create workitem")))
		return
	}

	h.logger.Info().Str("type", string(req.WorkitemType)).Str("name", req.Name).Msg("workitem created")
	h.redirect(w, r, "/dashboard", success("workitem created successfully!"))
}

// renderWorkitem renders the form. Without a cached lookup, connections and
// variables are fetched in parallel and either fetch may fail on its own.
func (h *WebHandler) renderWorkitem(w http.ResponseWriter, r *http.Request, draft wizard.WorkitemDraft, cached *wizard.Lookup, notices ...session.Notice) {
	var lookup wizard.Lookup
	if cached != nil {
		lookup = *cached
	} else {
		fetched, failed, handled := h.fetchLookup(w, r)
		if handled {
			return
		}
		lookup = fetched
		notices = append(notices, failed...)
		if len(failed) == 0 {
			cached = &fetched
		}
	}
	encoded := ""
	if cached != nil {
		encoded = cached.Encode()
	}

	data := pages.CreateWorkitemPageData{
		Shell:           h.shell(w, r, notices...),
		Draft:           draft,
		Types:           models.WorkitemTypes,
		Methods:         models.HTTPMethods,
		SQLQueryTypes:   models.SQLQueryTypes,
		MongoOperations: models.MongoOperations,
		Connections:     wizard.CompatibleConnections(draft.Type, lookup.Connections),
		EnvVars:         lookup.EnvVars,
		Lookup:          encoded,
	}
	h.render(w, r, pages.CreateWorkitemPage(data))
}

// fetchLookup loads connections and variables in parallel. It returns a
// notice per failed fetch, and handled is true when the response has already
// been written.
func (h *WebHandler) fetchLookup(w http.ResponseWriter, r *http.Request) (lookup wizard.Lookup, failed []session.Notice, handled bool) {
	ctx := r.Context()
	orgID := sessionFrom(r).ActiveOrganizationID

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
			return wizard.Lookup{}, nil, true
		}
	}
	if credErr != nil {
		h.gatewayError(credErr, "failed to fetch connections")
		failed = append(failed, failure("Failed to fetch connections"))
	}
	if envErr != nil {
		h.gatewayError(envErr, "failed to fetch environment variables")
		failed = append(failed, failure("Failed to fetch environment variables"))
	}
	return wizard.NewLookup(creds, envVars), failed, false
}

// CreateGroupPage renders an empty testcase or testsuite form.
func (h *WebHandler) CreateGroupPage(w http.ResponseWriter, r *http.Request) {
	typ := chi.URLParam(r, "type")
	if _, ok := groupTypes[typ]; !ok {
		http.NotFound(w, r)
		return
	}
	h.renderGroup(w, r, typ, wizard.GroupDraft{})
}

// CreateGroup handles selection toggles and the final submit of a testcase
// or testsuite.
func (h *WebHandler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	typ := chi.URLParam(r, "type")
	if _, ok := groupTypes[typ]; !ok {
		http.NotFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderGroup(w, r, typ, wizard.GroupDraft{}, failure("Invalid form"))
		return
	}
	draft := wizard.GroupDraftFromForm(r.PostForm)

	q := r.URL.Query()
	if q.Get("action") == actionToggle {
		draft.Selected = draft.Selected.Toggle(q.Get("id"))
		h.renderGroup(w, r, typ, draft)
		return
	}

	var (
		payload any
		err     error
	)
	if typ == "testcase" {
		payload, err = draft.TestcasePayload()
	} else {
		payload, err = draft.TestsuitePayload()
	}
	if err != nil {
		h.renderGroup(w, r, typ, draft, failure(err.Error()))
		return
	}

	if err := h.bff.Create(r.Context(), typ+"s", payload); err != nil {
		if h.unauthorized(w, r, err) {
			return
		}
		h.gatewayError(err, "failed to create "+typ)
		h.renderGroup(w, r, typ, draft, failure(api.Detail(err, "Failed to create "+typ)))
		return
	}

	h.logger.Info().Str("type", typ).Int("children", len(draft.Selected)).Msg(typ + " created")
	h.redirect(w, r, "/dashboard", success(typ+" created successfully!"))
}

func (h *WebHandler) renderGroup(w http.ResponseWriter, r *http.Request, typ string, draft wizard.GroupDraft, notices ...session.Notice) {
	gt := groupTypes[typ]

	var options []wizard.Option
	raw, err := h.bff.List(r.Context(), gt.collection)
	if err == nil {
		options, err = wizard.Options(raw, gt.idField)
	}
	if err != nil {
		if h.unauthorized(w, r, err) {
			return
		}
		h.gatewayError(err, "failed to fetch "+gt.collection)
		notices = append(notices, failure("Failed to fetch "+gt.collection))
	}

	data := pages.CreateGroupPageData{
		Shell:      h.shell(w, r, notices...),
		Type:       typ,
		ChildLabel: gt.label,
		Draft:      draft,
		Options:    options,
	}
	h.render(w, r, pages.CreateGroupPage(data))
}
