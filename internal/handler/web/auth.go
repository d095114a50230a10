package web

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"

	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/api"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/service"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/session"
	"github.com/Optimized-Brute-Forcer/testaurant-web/templates/pages"
)

// gsiCSRFCookie is the double-submit cookie Google Identity Services sets
// alongside the credential POST.
const gsiCSRFCookie = "g_csrf_token"

// Notices for sign-in and organization context changes.
const (
	msgLoginSuccess       = "Login successful!"
	msgLoginOnboarding    = "Please select or create an organization to continue"
	msgLoginFailed        = "Login failed"
	msgGoogleLoginFailed  = "Google login failed"
	msgLoggedOut          = "Logged out successfully"
	msgSessionExpiredLong = "Session expired. Please login again."
)

// LandingPage renders the public landing page.
func (h *WebHandler) LandingPage(w http.ResponseWriter, r *http.Request) {
	data := pages.LandingPageData{
		Shell:         h.shell(w, r),
		Authenticated: sessionFrom(r).IsAuthenticated(),
	}
	h.render(w, r, pages.LandingPage(data))
}

// LoginPage renders the login page.
func (h *WebHandler) LoginPage(w http.ResponseWriter, r *http.Request) {
	// Check if user is already logged in
	if sessionFrom(r).IsAuthenticated() {
		http.Redirect(w, r, "/dashboard", http.StatusFound)
		return
	}

	data := pages.LoginPageData{
		Shell:          h.shell(w, r),
		GoogleClientID: h.config.GoogleClientID,
		LoginURI:       strings.TrimSuffix(h.config.BaseURL, "/") + "/auth/google/credential",
		CodeFlow:       h.oauthService != nil && h.oauthService.Enabled(),
	}
	h.render(w, r, pages.LoginPage(data))
}

// GoogleCredential receives the ID token Google Identity Services posts to
// the login URI and signs the user in.
func (h *WebHandler) GoogleCredential(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.redirect(w, r, "/login", failure(msgGoogleLoginFailed))
		return
	}

	credential := r.PostFormValue("credential")
	if credential == "" || !validGSICSRF(r) {
		h.logger.Warn().Bool("has_credential", credential != "").Msg("rejected google credential post")
		h.redirect(w, r, "/login", failure(msgGoogleLoginFailed))
		return
	}

	h.completeLogin(w, r, credential)
}

// validGSICSRF checks the double-submit token when the cookie is present.
func validGSICSRF(r *http.Request) bool {
	cookie, err := r.Cookie(gsiCSRFCookie)
	if err != nil {
		return true
	}
	form := r.PostFormValue(gsiCSRFCookie)
	return form != "" && subtle.ConstantTimeCompare([]byte(cookie.Value), []byte(form)) == 1
}

// OAuthStart initiates the Google authorization-code flow.
func (h *WebHandler) OAuthStart(w http.ResponseWriter, r *http.Request) {
	if h.oauthService == nil || !h.oauthService.Enabled() {
		h.redirect(w, r, "/login", failure("Google sign-in is not configured"))
		return
	}

	// Generate state for CSRF protection
	state, err := service.GenerateState()
	if err != nil {
		h.redirect(w, r, "/login", failure(msgGoogleLoginFailed))
		return
	}

	// Store state in session for verification
	sess, _ := h.cookies.Get(r, OAuthStateCookie)
	sess.Values["state"] = state
	sess.Options.MaxAge = 300 // 5 minutes
	if err := sess.Save(r, w); err != nil {
		h.redirect(w, r, "/login", failure(msgGoogleLoginFailed))
		return
	}

	authURL, err := h.oauthService.AuthURL(state)
	if err != nil {
		h.redirect(w, r, "/login", failure(msgGoogleLoginFailed))
		return
	}

	http.Redirect(w, r, authURL, http.StatusTemporaryRedirect)
}

// OAuthCallback handles the Google authorization-code callback.
func (h *WebHandler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	if h.oauthService == nil || !h.oauthService.Enabled() {
		h.redirect(w, r, "/login", failure("Google sign-in is not configured"))
		return
	}

	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")

	// Verify state
	sess, _ := h.cookies.Get(r, OAuthStateCookie)
	savedState, _ := sess.Values["state"].(string)
	if savedState == "" || subtle.ConstantTimeCompare([]byte(savedState), []byte(state)) != 1 {
		h.logger.Warn().Msg("oauth state mismatch")
		h.redirect(w, r, "/login", failure(msgGoogleLoginFailed))
		return
	}

	// Clear state
	delete(sess.Values, "state")
	sess.Options.MaxAge = -1
	sess.Save(r, w)

	if code == "" {
		h.redirect(w, r, "/login", failure(msgGoogleLoginFailed))
		return
	}

	idToken, err := h.oauthService.ExchangeIDToken(r.Context(), code)
	if err != nil {
		h.logger.Warn().Err(err).Msg("google code exchange failed")
		h.redirect(w, r, "/login", failure(msgGoogleLoginFailed))
		return
	}

	h.completeLogin(w, r, idToken)
}

// completeLogin exchanges the Google ID token for a backend session.
func (h *WebHandler) completeLogin(w http.ResponseWriter, r *http.Request, idToken string) {
	dest, err := h.sessions.Login(r.Context(), storeFrom(r), idToken, "")
	if err != nil {
		h.redirect(w, r, "/login", failure(api.Detail(err, msgLoginFailed)))
		return
	}
	h.redirect(w, r, string(dest), loginNotice(dest))
}

func loginNotice(dest service.Destination) session.Notice {
	if dest == service.DestinationOnboarding {
		return notice(session.NoticeInfo, msgLoginOnboarding)
	}
	return success(msgLoginSuccess)
}

// Logout clears the session.
func (h *WebHandler) Logout(w http.ResponseWriter, r *http.Request) {
	dest, err := h.sessions.Logout(r.Context(), storeFrom(r))
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to clear session")
	}
	h.redirect(w, r, string(dest), notice(session.NoticeInfo, msgLoggedOut))
}

// SwitchOrganization replays login for another organization.
func (h *WebHandler) SwitchOrganization(w http.ResponseWriter, r *http.Request) {
	orgID := r.FormValue("organization_id")
	sess := sessionFrom(r)
	if orgID == "" || orgID == sess.ActiveOrganizationID {
		h.redirect(w, r, "/dashboard")
		return
	}

	dest, err := h.sessions.SwitchOrganization(r.Context(), storeFrom(r), orgID)
	switch {
	case errors.Is(err, service.ErrSessionExpired):
		h.redirect(w, r, string(dest), failure(msgSessionExpiredLong))
	case err != nil:
		h.redirect(w, r, "/dashboard", failure(api.Detail(err, msgLoginFailed)))
	default:
		h.redirect(w, r, string(dest), loginNotice(dest))
	}
}
