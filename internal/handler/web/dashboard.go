package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/api"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/service"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/session"
	"github.com/Optimized-Brute-Forcer/testaurant-web/templates/pages"
)

// Dashboard renders the dashboard with aggregate counts. A failed stats call
// leaves the counts at zero.
func (h *WebHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	data := pages.DashboardPageData{}

	stats, err := h.bff.Stats(r.Context())
	if err != nil {
		if h.unauthorized(w, r, err) {
			return
		}
		h.gatewayError(err, "failed to load dashboard stats")
	} else if stats != nil {
		data.Stats = *stats
	}

	switch c := r.URL.Query().Get("confirm"); c {
	case "leave":
		data.Confirm = c
	case "delete":
		if sessionFrom(r).IsAdmin() {
			data.Confirm = c
		}
	}

	data.Shell = h.shell(w, r)
	h.render(w, r, pages.DashboardPage(data))
}

type membershipChange func(ctx context.Context, st session.Store, orgID string) (service.Destination, error)

// LeaveOrganization leaves the active organization after confirmation.
func (h *WebHandler) LeaveOrganization(w http.ResponseWriter, r *http.Request) {
	h.changeMembership(w, r, "leave", h.sessions.LeaveOrganization,
		"Left organization successfully", "Failed to leave organization")
}

// DeleteOrganization permanently deletes the active organization after
// confirmation. Only admins may do so.
func (h *WebHandler) DeleteOrganization(w http.ResponseWriter, r *http.Request) {
	if !sessionFrom(r).IsAdmin() {
		h.redirect(w, r, "/dashboard", failure("Only administrators can delete the organization"))
		return
	}
	h.changeMembership(w, r, "delete", h.sessions.DeleteOrganization,
		"Organization deleted successfully", "Failed to delete organization")
}

func (h *WebHandler) changeMembership(w http.ResponseWriter, r *http.Request, action string, change membershipChange, ok, failed string) {
	if r.FormValue("confirm") != "yes" {
		h.redirect(w, r, "/dashboard?confirm="+action)
		return
	}

	orgID := sessionFrom(r).ActiveOrganizationID
	dest, err := change(r.Context(), storeFrom(r), orgID)
	switch {
	case errors.Is(err, service.ErrSessionExpired):
		h.redirect(w, r, string(dest), success(ok), failure(msgSessionExpiredLong))
	case api.IsUnauthorized(err):
		h.expired(w, r)
	case err != nil:
		h.logger.Warn().Err(err).Str("organization_id", orgID).Str("action", action).Msg("organization change failed")
		h.redirect(w, r, "/dashboard", failure(api.Detail(err, failed)))
	default:
		h.logger.Info().Str("organization_id", orgID).Str("action", action).Msg("organization membership changed")
		h.redirect(w, r, string(dest), success(ok))
	}
}
