package web

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/api"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/entity"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/models"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/session"
	"github.com/Optimized-Brute-Forcer/testaurant-web/templates/pages"
)

const msgRunInProgress = "A run is already in progress"

var errNoOrganization = errors.New("no active organization")

// List renders one entity collection.
func (h *WebHandler) List(k entity.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.renderList(w, r, k, r.URL.Query())
	}
}

// fetch loads the raw payload of a collection.
func (h *WebHandler) fetch(ctx context.Context, k entity.Kind, orgID string) (json.RawMessage, error) {
	if k.OrgScoped() && orgID == "" {
		return nil, errNoOrganization
	}
	switch k {
	case entity.KindMembers:
		return h.organizations.Members(ctx, orgID)
	case entity.KindJoinRequests:
		return h.organizations.JoinRequests(ctx, orgID, models.RequestPending)
	default:
		return h.bff.List(ctx, string(k))
	}
}

// renderList fetches the collection afresh and renders it with the view
// state held in q.
func (h *WebHandler) renderList(w http.ResponseWriter, r *http.Request, k entity.Kind, q url.Values, notices ...session.Notice) {
	ctx := r.Context()
	actor := actorFrom(r)

	var rows []entity.Entity
	raw, err := h.fetch(ctx, k, sessionFrom(r).ActiveOrganizationID)
	if err == nil {
		var items []map[string]any
		if items, err = entity.Unwrap(raw); err == nil {
			rows = entity.Normalize(k, items)
		}
	}
	if err != nil {
		if h.unauthorized(w, r, err) {
			return
		}
		h.gatewayError(err, "failed to fetch "+string(k))
		notices = append(notices, failure(k.FetchError()))
	}

	filter := entity.Filter{Search: q.Get("search"), User: q.Get("user")}
	if k == entity.KindExecutions {
		filter.Category = q.Get("category")
		if filter.Category == "" {
			filter.Category = entity.CategoryAll
		}
	}

	running, busy := h.runs.Running(actor.UserID, string(k))
	expand := ""
	if k.Expandable() {
		expand = q.Get("expand")
	}

	data := pages.ListPageData{
		Kind:         k,
		Kinds:        entity.Kinds,
		Total:        len(rows),
		Filter:       filter,
		Categories:   entity.Categories,
		Users:        entity.UniqueUsers(rows),
		CanCreate:    entity.CanCreate(k, actor),
		Busy:         busy,
		Roles:        models.AssignableRoles,
		Environments: models.Environments,
		Query:        q,
	}

	for _, e := range filter.Apply(rows) {
		row := pages.ListRow{
			Entity:   e,
			Can:      entity.CapabilitiesFor(k, e, actor),
			Expanded: expand != "" && e.ID == expand,
			Running:  busy && e.ID == running,
		}
		if row.Expanded {
			typ := q.Get("type")
			if typ == "" {
				typ = e.Type
			}
			data.Detail, err = h.executionDetail(ctx, typ, e.ID)
			if err != nil {
				if h.unauthorized(w, r, err) {
					return
				}
				h.gatewayError(err, "failed to load execution detail")
				data.DetailError = "Failed to load details"
				notices = append(notices, failure(data.DetailError))
			}
		}
		if id := q.Get("confirm"); id != "" && e.ID == id && row.Can.Delete {
			confirm := e
			data.Confirm = &confirm
		}
		data.Rows = append(data.Rows, row)
	}

	data.Shell = h.shell(w, r, notices...)
	h.render(w, r, pages.ListPage(data))
}

func (h *WebHandler) executionDetail(ctx context.Context, typ, id string) (*entity.Detail, error) {
	raw, err := h.bff.ExecutionDetail(ctx, typ, id)
	if err != nil {
		return nil, err
	}
	return entity.ParseDetail(raw)
}

// afterListAction shows the outcome of a row action. HTMX requests get the
// refreshed list; plain forms are redirected back to it.
func (h *WebHandler) afterListAction(w http.ResponseWriter, r *http.Request, k entity.Kind, notices ...session.Notice) {
	back := returnPath(r, "/"+string(k))
	if !isHTMX(r) {
		h.redirect(w, r, back, notices...)
		return
	}
	q := url.Values{}
	if u, err := url.Parse(back); err == nil {
		q = u.Query()
	}
	q.Del("confirm")
	h.renderList(w, r, k, q, notices...)
}

// Delete removes one row after confirmation. Members are removed from the
// active organization.
func (h *WebHandler) Delete(k entity.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		actor := actorFrom(r)
		if !entity.CapabilitiesFor(k, entity.Entity{ID: id}, actor).Delete {
			h.afterListAction(w, r, k, failure("You are not allowed to "+k.RemoveVerb()+" this item"))
			return
		}

		if r.FormValue("confirm") != "yes" {
			q := url.Values{"confirm": {id}}
			h.redirect(w, r, "/"+string(k)+"?"+q.Encode())
			return
		}

		var err error
		if k == entity.KindMembers {
			err = h.organizations.RemoveMember(r.Context(), sessionFrom(r).ActiveOrganizationID, id)
		} else {
			err = h.bff.Delete(r.Context(), string(k), id)
		}

		verb := k.RemoveVerb()
		if err != nil {
			if h.unauthorized(w, r, err) {
				return
			}
			h.gatewayError(err, "failed to "+verb+" "+k.Singular())
			h.afterListAction(w, r, k, failure(api.Detail(err, "Failed to "+verb)))
			return
		}

		h.logger.Info().Str("kind", string(k)).Str("id", id).Msg("item " + verb + "d")
		if k == entity.KindMembers {
			h.afterListAction(w, r, k, success("member removed successfully"))
			return
		}
		h.afterListAction(w, r, k, success(k.Singular()+" deleted successfully"))
	}
}

// Run executes a row synchronously. Only one run per user and kind may be
// in flight.
func (h *WebHandler) Run(k entity.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		owner := actorFrom(r).UserID
		env := models.ParseEnvironment(r.FormValue("environment"))

		if !h.runs.TryStart(owner, string(k), id) {
			h.afterListAction(w, r, k, notice(session.NoticeWarning, msgRunInProgress))
			return
		}
		result, err := h.runGuarded(r.Context(), owner, string(k), k.Singular(), id, env)

		if err != nil {
			if h.unauthorized(w, r, err) {
				return
			}
			h.gatewayError(err, "run failed")
			h.afterListAction(w, r, k, failure(api.Detail(err, "Execution failed")))
			return
		}

		h.logger.Info().
			Str("kind", string(k)).
			Str("id", id).
			Str("environment", string(env)).
			Str("status", result.Status()).
			Msg("run completed")

		msg := "Run completed: " + result.Status()
		if result.Failed() {
			h.afterListAction(w, r, k, failure(msg))
			return
		}
		h.afterListAction(w, r, k, success(msg))
	}
}

// runGuarded calls the gateway for a run admitted by TryStart and releases
// the guard on every outcome, panics included.
func (h *WebHandler) runGuarded(ctx context.Context, owner, guard, entityType, id string, env models.Environment) (*models.RunResult, error) {
	defer h.runs.Done(owner, guard)
	return h.bff.Run(ctx, entityType, id, env)
}

// UpdateRole changes a member's role in the active organization.
func (h *WebHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	k := entity.KindMembers
	userID := chi.URLParam(r, "id")
	actor := actorFrom(r)
	if !entity.CapabilitiesFor(k, entity.Entity{ID: userID}, actor).ChangeRole {
		h.afterListAction(w, r, k, failure("Failed to update role"))
		return
	}

	role := models.Role(r.FormValue("role"))
	valid := false
	for _, assignable := range models.AssignableRoles {
		if role == assignable {
			valid = true
			break
		}
	}
	if !valid {
		h.afterListAction(w, r, k, failure("Failed to update role"))
		return
	}

	err := h.organizations.UpdateMemberRole(r.Context(), sessionFrom(r).ActiveOrganizationID, userID, role)
	if err != nil {
		if h.unauthorized(w, r, err) {
			return
		}
		h.gatewayError(err, "failed to update member role")
		h.afterListAction(w, r, k, failure(api.Detail(err, "Failed to update role")))
		return
	}
	h.afterListAction(w, r, k, success("Role updated successfully"))
}

// HandleRequest approves or rejects a pending join request.
func (h *WebHandler) HandleRequest(w http.ResponseWriter, r *http.Request) {
	k := entity.KindJoinRequests
	requestID := chi.URLParam(r, "id")
	approve, err := strconv.ParseBool(r.FormValue("approve"))
	if err != nil {
		h.afterListAction(w, r, k, failure("Failed to update request"))
		return
	}

	err = h.organizations.HandleJoinRequest(r.Context(), sessionFrom(r).ActiveOrganizationID, requestID, approve)
	if err != nil {
		if h.unauthorized(w, r, err) {
			return
		}
		h.gatewayError(err, "failed to handle join request")
		h.afterListAction(w, r, k, failure("Failed to update request"))
		return
	}

	if approve {
		h.afterListAction(w, r, k, success("Request approved"))
		return
	}
	h.afterListAction(w, r, k, success("Request rejected"))
}
