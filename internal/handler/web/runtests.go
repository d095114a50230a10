package web

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/api"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/entity"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/models"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/session"
	"github.com/Optimized-Brute-Forcer/testaurant-web/templates/pages"
)

// runTestsGuard is the run guard scope of the run tests page.
const runTestsGuard = "run-tests"

// RunTestsPage renders every runnable item with type, search and user
// filters.
func (h *WebHandler) RunTestsPage(w http.ResponseWriter, r *http.Request) {
	h.renderRunTests(w, r, r.URL.Query())
}

func asEntity(it models.Runnable) entity.Entity {
	return entity.Entity{
		ID:            it.ID,
		Name:          it.Name,
		Type:          it.Type,
		Description:   it.Description,
		CreatedByName: it.CreatedByName,
	}
}

func (h *WebHandler) renderRunTests(w http.ResponseWriter, r *http.Request, q url.Values, notices ...session.Notice) {
	items, err := h.bff.Runnable(r.Context())
	if err != nil {
		if h.unauthorized(w, r, err) {
			return
		}
		h.gatewayError(err, "failed to fetch runnable items")
		notices = append(notices, failure("Failed to fetch runnable items"))
	}

	filter := entity.Filter{
		Category: q.Get("category"),
		Search:   q.Get("search"),
		User:     q.Get("user"),
	}
	if filter.Category == "" {
		filter.Category = entity.CategoryAll
	}

	all := make([]entity.Entity, len(items))
	shown := make([]models.Runnable, 0, len(items))
	for i, it := range items {
		all[i] = asEntity(it)
		if len(filter.Apply(all[i:i+1])) == 1 {
			shown = append(shown, it)
		}
	}

	running, busy := h.runs.Running(actorFrom(r).UserID, runTestsGuard)
	data := pages.RunTestsPageData{
		Items:        shown,
		Total:        len(items),
		Filter:       filter,
		Categories:   entity.Categories,
		Users:        entity.UniqueUsers(all),
		Environments: models.Environments,
		Environment:  models.ParseEnvironment(q.Get("environment")),
		Busy:         busy,
		Running:      running,
	}
	data.Shell = h.shell(w, r, notices...)
	h.render(w, r, pages.RunTestsPage(data))
}

// RunTest executes one runnable item in the chosen environment.
func (h *WebHandler) RunTest(w http.ResponseWriter, r *http.Request) {
	typ := chi.URLParam(r, "type")
	id := chi.URLParam(r, "id")
	if !entity.Kind(typ + "s").Runnable() {
		http.NotFound(w, r)
		return
	}

	name := r.FormValue("name")
	if name == "" {
		name = id
	}
	env := models.ParseEnvironment(r.FormValue("environment"))
	owner := actorFrom(r).UserID

	var result session.Notice
	if !h.runs.TryStart(owner, runTestsGuard, id) {
		result = notice(session.NoticeWarning, msgRunInProgress)
	} else {
		_, err := h.runGuarded(r.Context(), owner, runTestsGuard, typ, id, env)
		if err != nil {
			if h.unauthorized(w, r, err) {
				return
			}
			h.gatewayError(err, "run failed")
			result = failure(api.Detail(err, "Execution failed"))
		} else {
			h.logger.Info().Str("type", typ).Str("id", id).Str("environment", string(env)).Msg("run started")
			result = success("Run started for " + name)
		}
	}

	back := returnPath(r, "/run-tests")
	if !isHTMX(r) {
		h.redirect(w, r, back, result)
		return
	}
	q := url.Values{}
	if u, err := url.Parse(back); err == nil {
		q = u.Query()
	}
	q.Set("environment", string(env))
	h.renderRunTests(w, r, q, result)
}
