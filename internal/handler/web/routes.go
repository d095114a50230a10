// Package web provides HTTP handlers for the web dashboard.
package web

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/rs/zerolog"

	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/api"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/entity"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/middleware"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/service"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/session"
	"github.com/Optimized-Brute-Forcer/testaurant-web/templates/pages"
)

// Context keys for request context values.
type contextKey string

const (
	// ContextKeyStore is the context key for the request's session store.
	ContextKeyStore contextKey = "session_store"
	// ContextKeySession is the context key for the loaded session mirror.
	ContextKeySession contextKey = "session"
)

// OAuthStateCookie carries the state of the Google authorization-code flow.
const OAuthStateCookie = "testaurant_oauth_state"

const msgSessionExpired = "Session expired"

// WebHandler handles HTTP requests for the web dashboard.
type WebHandler struct {
	bff           BFFAPI
	organizations OrganizationsAPI
	resources     ResourcesAPI
	sessions      service.SessionService
	oauthService  service.OAuthService
	backend       session.Backend
	flashes       *session.Flashes
	cookies       sessions.Store
	runs          *entity.RunGuard
	config        Config
	logger        zerolog.Logger
}

// Config holds configuration for the web handler.
type Config struct {
	// GoogleClientID enables the Google Identity Services button.
	GoogleClientID string
	// BaseURL is the public origin, used for the credential callback URL.
	BaseURL string
	// StaticDir is served under /static.
	StaticDir string
}

// NewWebHandler creates a new WebHandler instance.
func NewWebHandler(
	client *api.Client,
	sessionService service.SessionService,
	oauthService service.OAuthService,
	backend session.Backend,
	cookies sessions.Store,
	cfg Config,
	logger zerolog.Logger,
) *WebHandler {
	return &WebHandler{
		bff:           client.BFF,
		organizations: client.Organizations,
		resources:     client.Resources,
		sessions:      sessionService,
		oauthService:  oauthService,
		backend:       backend,
		flashes:       session.NewFlashes(cookies),
		cookies:       cookies,
		runs:          entity.NewRunGuard(),
		config:        cfg,
		logger:        logger.With().Str("component", "web").Logger(),
	}
}

// Routes returns the chi router with all web routes configured.
func (h *WebHandler) Routes() chi.Router {
	r := chi.NewRouter()

	if h.config.StaticDir != "" {
		fileServer := http.FileServer(http.Dir(h.config.StaticDir))
		r.Handle("/static/*", http.StripPrefix("/static/", fileServer))
	}

	r.Get("/health", h.Health)

	r.Group(func(r chi.Router) {
		r.Use(h.LoadSession)

		// Public routes (no auth required)
		r.Get("/", h.LandingPage)
		r.Get("/login", h.LoginPage)
		r.Post("/auth/google/credential", h.GoogleCredential)
		r.Get("/auth/google", h.OAuthStart)
		r.Get("/auth/google/callback", h.OAuthCallback)

		// Protected routes (auth required)
		r.Group(func(r chi.Router) {
			r.Use(h.RequireAuth)

			r.Post("/logout", h.Logout)

			// Onboarding flow
			r.Get("/onboarding", h.OnboardingPage)
			r.Post("/onboarding/join/{orgID}", h.JoinOrganization)
			r.Get("/organization/setup", h.OrgSetupPage)
			r.Post("/organization/setup", h.OrgSetup)
			r.Post("/organization/switch", h.SwitchOrganization)

			// Organization scoped pages
			r.Group(func(r chi.Router) {
				r.Use(h.RequireOrganization)

				r.Get("/dashboard", h.Dashboard)
				r.Post("/organization/leave", h.LeaveOrganization)
				r.Post("/organization/delete", h.DeleteOrganization)

				for _, k := range entity.Kinds {
					r.Route("/"+string(k), func(r chi.Router) {
						r.Get("/", h.List(k))
						r.Post("/{id}/delete", h.Delete(k))
						switch {
						case k.Runnable():
							r.Post("/{id}/run", h.Run(k))
						case k == entity.KindMembers:
							r.Post("/{id}/role", h.UpdateRole)
						case k == entity.KindJoinRequests:
							r.Post("/{id}/handle", h.HandleRequest)
						}
					})
				}

				r.Route("/create", func(r chi.Router) {
					r.Get("/workitem", h.CreateWorkitemPage)
					r.Post("/workitem", h.CreateWorkitem)
					r.Get("/{type}", h.CreateGroupPage)
					r.Post("/{type}", h.CreateGroup)
				})

				r.Route("/resources", func(r chi.Router) {
					r.Get("/", h.ResourcesPage)
					r.Post("/connections", h.SaveConnection)
					r.Post("/connections/delete", h.DeleteConnection)
					r.Post("/env", h.AddEnvVar)
					r.Post("/env/delete", h.DeleteEnvVar)
				})

				r.Get("/run-tests", h.RunTestsPage)
				r.Post("/run-tests/{type}/{id}", h.RunTest)
			})
		})
	})

	return r
}

// ============================================
// Middleware
// ============================================

// LoadSession binds the browser's session store to the request and loads the
// session mirror. The access token is attached for gateway calls.
func (h *WebHandler) LoadSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		st, err := h.backend.Open(w, r)
		if err != nil {
			h.logger.Error().Err(err).Msg("failed to open session")
			middleware.RecordError("session")
			http.Error(w, "Session storage unavailable", http.StatusServiceUnavailable)
			return
		}

		sess, err := session.Load(r.Context(), st)
		if err != nil {
			h.logger.Error().Err(err).Msg("failed to load session")
			middleware.RecordError("session")
			http.Error(w, "Session storage unavailable", http.StatusServiceUnavailable)
			return
		}

		ctx := context.WithValue(r.Context(), ContextKeyStore, st)
		ctx = context.WithValue(ctx, ContextKeySession, sess)
		ctx = api.WithToken(ctx, sess.AccessToken)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAuth middleware ensures the user is signed in.
func (h *WebHandler) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !sessionFrom(r).IsAuthenticated() {
			h.handleAuthRedirect(w, r)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireOrganization middleware sends signed-in users without an active
// organization to onboarding.
func (h *WebHandler) RequireOrganization(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !sessionFrom(r).HasOrganization() {
			h.redirect(w, r, string(service.DestinationOnboarding))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *WebHandler) handleAuthRedirect(w http.ResponseWriter, r *http.Request) {
	// Check if this is an HTMX request
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", "/login")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

// Health reports liveness.
func (h *WebHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// ============================================
// Helpers
// ============================================

func storeFrom(r *http.Request) session.Store {
	st, _ := r.Context().Value(ContextKeyStore).(session.Store)
	return st
}

func sessionFrom(r *http.Request) *session.Session {
	sess, _ := r.Context().Value(ContextKeySession).(*session.Session)
	if sess == nil {
		return &session.Session{}
	}
	return sess
}

func actorFrom(r *http.Request) entity.Actor {
	sess := sessionFrom(r)
	return entity.Actor{UserID: sess.UserID(), IsAdmin: sess.IsAdmin()}
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

func notice(kind session.NoticeKind, message string) session.Notice {
	return session.Notice{Kind: kind, Message: message}
}

func success(message string) session.Notice { return notice(session.NoticeSuccess, message) }

func failure(message string) session.Notice { return notice(session.NoticeError, message) }

// shell builds the shared page data. Full pages show queued flash notices
// plus the given ones; HTMX partials deliver them as toast events.
func (h *WebHandler) shell(w http.ResponseWriter, r *http.Request, notices ...session.Notice) pages.Shell {
	sess := sessionFrom(r)
	s := pages.Shell{
		User:               sess.User,
		Organizations:      sess.Organizations,
		ActiveOrganization: sess.ActiveOrganization(),
		IsAdmin:            sess.IsAdmin(),
		Partial:            isHTMX(r),
	}
	if s.Partial {
		h.toast(w, notices...)
		return s
	}
	s.Notices = append(h.flashes.Pop(w, r), notices...)
	return s
}

type toastEvent struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// toast sets an HX-Trigger header that the page script turns into toasts.
func (h *WebHandler) toast(w http.ResponseWriter, notices ...session.Notice) {
	if len(notices) == 0 {
		return
	}
	events := make([]toastEvent, len(notices))
	for i, n := range notices {
		events[i] = toastEvent{Message: n.Message, Type: string(n.Kind)}
	}
	var payload any = events
	if len(events) == 1 {
		payload = events[0]
	}
	b, err := json.Marshal(map[string]any{"toast": payload})
	if err != nil {
		return
	}
	w.Header().Set("HX-Trigger", string(b))
}

// redirect queues notices as flashes and navigates to dest. HTMX requests
// get a full-page HX-Redirect.
func (h *WebHandler) redirect(w http.ResponseWriter, r *http.Request, dest string, notices ...session.Notice) {
	for _, n := range notices {
		if err := h.flashes.Add(w, r, n); err != nil {
			h.logger.Warn().Err(err).Msg("failed to queue notice")
		}
	}
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", dest)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

// expired clears a session the backend no longer accepts.
func (h *WebHandler) expired(w http.ResponseWriter, r *http.Request) {
	if _, err := h.sessions.Logout(r.Context(), storeFrom(r)); err != nil {
		h.logger.Error().Err(err).Msg("failed to clear expired session")
	}
	h.redirect(w, r, string(service.DestinationLogin), failure(msgSessionExpired))
}

// unauthorized handles a gateway 401 and reports whether it did.
func (h *WebHandler) unauthorized(w http.ResponseWriter, r *http.Request, err error) bool {
	if !api.IsUnauthorized(err) {
		return false
	}
	h.expired(w, r)
	return true
}

// returnPath reads a same-site path from the "return" form field.
func returnPath(r *http.Request, fallback string) string {
	p := r.FormValue("return")
	if p == "" || !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") || strings.HasPrefix(p, "/\\") {
		return fallback
	}
	return p
}

func (h *WebHandler) render(w http.ResponseWriter, r *http.Request, component templ.Component) {
	templ.Handler(component).ServeHTTP(w, r)
}

// gatewayError logs a failed gateway call and counts it.
func (h *WebHandler) gatewayError(err error, msg string) {
	middleware.RecordError("gateway")
	h.logger.Warn().Err(err).Msg(msg)
}
