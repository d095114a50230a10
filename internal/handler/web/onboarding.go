package web

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/api"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/models"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/resource"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/service"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/session"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/wizard"
	"github.com/Optimized-Brute-Forcer/testaurant-web/templates/pages"
)

// Onboarding views.
const (
	viewSelect = "select"
	viewJoin   = "join"
)

// OnboardingPage renders the create-or-join choice, or the join view.
func (h *WebHandler) OnboardingPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("view") == viewJoin {
		h.renderJoin(w, r, q.Get("search"))
		return
	}
	data := pages.OnboardingPageData{
		Shell: h.shell(w, r),
		View:  viewSelect,
	}
	h.render(w, r, pages.OnboardingPage(data))
}

// renderJoin loads every organization and the user's own requests in
// parallel and renders the join view.
func (h *WebHandler) renderJoin(w http.ResponseWriter, r *http.Request, search string, notices ...session.Notice) {
	ctx := r.Context()

	var (
		orgs     []models.Organization
		requests []models.JoinRequest
		orgErr   error
		reqErr   error
	)
	var g errgroup.Group
	g.Go(func() error {
		orgs, orgErr = h.organizations.List(ctx)
		return nil
	})
	g.Go(func() error {
		requests, reqErr = h.organizations.MyRequests(ctx)
		return nil
	})
	_ = g.Wait()

	if orgErr != nil {
		if h.unauthorized(w, r, orgErr) {
			return
		}
		h.gatewayError(orgErr, "failed to load organizations")
		notices = append(notices, failure("Failed to load organizations"))
	}
	if reqErr != nil {
		if h.unauthorized(w, r, reqErr) {
			return
		}
		h.gatewayError(reqErr, "failed to load join requests")
		notices = append(notices, failure("Failed to load your join requests"))
	}

	data := pages.OnboardingPageData{
		Shell:   h.shell(w, r, notices...),
		View:    viewJoin,
		Search:  search,
		Options: wizard.JoinOptions(orgs, requests, search),
	}
	h.render(w, r, pages.OnboardingPage(data))
}

// JoinOrganization sends a join request with the chosen role.
func (h *WebHandler) JoinOrganization(w http.ResponseWriter, r *http.Request) {
	orgID := chi.URLParam(r, "orgID")
	role := models.ParseJoinRole(r.FormValue("role"))
	search := r.FormValue("search")

	var result session.Notice
	if err := h.organizations.Join(r.Context(), orgID, role); err != nil {
		if h.unauthorized(w, r, err) {
			return
		}
		h.gatewayError(err, "failed to send join request")
		result = failure(api.Detail(err, "Failed to send join request"))
	} else {
		h.logger.Info().Str("organization_id", orgID).Str("role", string(role)).Msg("join request sent")
		result = notice(session.NoticeInfo, "Request sent to administrator for approval")
	}

	if isHTMX(r) {
		h.renderJoin(w, r, search, result)
		return
	}
	q := url.Values{"view": {viewJoin}}
	if search != "" {
		q.Set("search", search)
	}
	h.redirect(w, r, "/onboarding?"+q.Encode(), result)
}

// OrgSetupPage starts the organization setup wizard.
func (h *WebHandler) OrgSetupPage(w http.ResponseWriter, r *http.Request) {
	h.renderOrgSetup(w, r, wizard.NewOrgSetup(), models.Team{}, resource.NewCredential())
}

// OrgSetup advances the organization setup wizard. The draft travels in a
// hidden field so every step is a plain form post.
func (h *WebHandler) OrgSetup(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderOrgSetup(w, r, wizard.NewOrgSetup(), models.Team{}, resource.NewCredential(), failure("Invalid form"))
		return
	}

	s := wizard.DecodeOrgSetup(r.PostFormValue(wizard.DraftField))
	s.ApplyDetails(r.PostForm)
	team := models.Team{}
	cred := resource.NewCredential()

	switch r.FormValue("action") {
	case "next":
		s.Next()
	case "back":
		s.Back()
	case "add-team":
		team = wizard.TeamFromForm(r.PostForm)
		if err := s.AddTeam(team); err != nil {
			h.renderOrgSetup(w, r, s, team, cred, failure(err.Error()))
			return
		}
		h.renderOrgSetup(w, r, s, models.Team{}, cred, success("Team added"))
		return
	case "add-db":
		cred = resource.CredentialFromForm(r.PostForm)
		if err := s.AddDatabase(cred); err != nil {
			cred.Password = ""
			h.renderOrgSetup(w, r, s, team, cred, failure(err.Error()))
			return
		}
		h.renderOrgSetup(w, r, s, team, resource.NewCredential(), success("Database credentials added"))
		return
	case "remove-team":
		s.RemoveTeam(formIndex(r))
	case "remove-db":
		s.RemoveDatabase(formIndex(r))
	case "submit":
		h.createOrganization(w, r, s)
		return
	}

	h.renderOrgSetup(w, r, s, team, cred)
}

func formIndex(r *http.Request) int {
	i, err := strconv.Atoi(r.FormValue("index"))
	if err != nil {
		return -1
	}
	return i
}

// createOrganization submits the wizard and signs in to the new
// organization with the cached Google token.
func (h *WebHandler) createOrganization(w http.ResponseWriter, r *http.Request, s wizard.OrgSetup) {
	sess := sessionFrom(r)
	adminEmail := ""
	if sess.User != nil {
		adminEmail = sess.User.Email
	}

	req, err := s.Payload(adminEmail)
	if err != nil {
		h.renderOrgSetup(w, r, s, models.Team{}, resource.NewCredential(), failure(err.Error()))
		return
	}

	resp, err := h.organizations.Create(r.Context(), req)
	if err != nil {
		if h.unauthorized(w, r, err) {
			return
		}
		h.gatewayError(err, "failed to create organization")
		h.renderOrgSetup(w, r, s, models.Team{}, resource.NewCredential(),
			failure(api.Detail(err, "Failed to create organization")))
		return
	}

	created := success("Organization created successfully!")
	h.logger.Info().Str("organization_id", resp.OrganizationID).Msg("organization created")

	if sess.ExternalToken == "" {
		h.redirect(w, r, string(service.DestinationLogin), created)
		return
	}

	dest, err := h.sessions.Login(r.Context(), storeFrom(r), sess.ExternalToken, resp.OrganizationID)
	if err != nil {
		h.redirect(w, r, string(service.DestinationOnboarding), created, failure(api.Detail(err, msgLoginFailed)))
		return
	}
	h.redirect(w, r, string(dest), created, loginNotice(dest))
}

func (h *WebHandler) renderOrgSetup(
	w http.ResponseWriter,
	r *http.Request,
	s wizard.OrgSetup,
	team models.Team,
	cred models.DatabaseCredential,
	notices ...session.Notice,
) {
	data := pages.OrgSetupPageData{
		Shell:         h.shell(w, r, notices...),
		Setup:         s,
		Steps:         wizard.StepLabels,
		Team:          team,
		Credential:    cred,
		DatabaseTypes: models.DatabaseTypes,
	}
	h.render(w, r, pages.OrgSetupPage(data))
}
