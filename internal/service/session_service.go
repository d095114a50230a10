// Package service provides the session controller and Google sign-in.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/api"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/models"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/session"
)

// Destination is the page a session operation leads to.
type Destination string

const (
	DestinationDashboard  Destination = "/dashboard"
	DestinationOnboarding Destination = "/onboarding"
	DestinationLogin      Destination = "/login"
)

// ErrSessionExpired is returned when a replay needs the cached Google token
// and none is present. The session has been cleared when it is returned.
var ErrSessionExpired = errors.New("session expired")

// LoginAPI exchanges an external identity token for a backend session.
type LoginAPI interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
}

// MembershipAPI leaves or deletes organizations.
type MembershipAPI interface {
	Leave(ctx context.Context, orgID string) error
	Delete(ctx context.Context, orgID string) error
}

// SessionService owns every mutation of the session store.
type SessionService interface {
	// Login exchanges idToken and commits the resulting session.
	// On failure the store is left untouched.
	Login(ctx context.Context, st session.Store, idToken, organizationID string) (Destination, error)

	// Logout clears every session key.
	Logout(ctx context.Context, st session.Store) (Destination, error)

	// SwitchOrganization replays login for organizationID with the cached Google token.
	SwitchOrganization(ctx context.Context, st session.Store, organizationID string) (Destination, error)

	// LeaveOrganization leaves organizationID and re-derives the active organization.
	LeaveOrganization(ctx context.Context, st session.Store, organizationID string) (Destination, error)

	// DeleteOrganization deletes organizationID and re-derives the active organization.
	DeleteOrganization(ctx context.Context, st session.Store, organizationID string) (Destination, error)
}

type sessionService struct {
	auth       LoginAPI
	membership MembershipAPI
	logger     zerolog.Logger
}

// NewSessionService creates a SessionService.
func NewSessionService(auth LoginAPI, membership MembershipAPI, logger zerolog.Logger) SessionService {
	return &sessionService{
		auth:       auth,
		membership: membership,
		logger:     logger.With().Str("component", "session").Logger(),
	}
}

func (s *sessionService) Login(ctx context.Context, st session.Store, idToken, organizationID string) (Destination, error) {
	resp, err := s.auth.Login(ctx, models.LoginRequest{
		IDToken:        idToken,
		OrganizationID: organizationID,
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("organization_id", organizationID).Msg("login failed")
		return "", err
	}

	if resp.AccessToken != "" && len(resp.Organizations) > 0 {
		active := organizationID
		if active == "" {
			active = resp.Organizations[0].ID
		}
		if err := s.commit(ctx, st, resp, idToken, active); err != nil {
			return "", err
		}
		s.logger.Info().
			Str("user_id", resp.User.ID).
			Str("organization_id", active).
			Str("role", string(resp.CurrentRole)).
			Msg("session committed")
		return DestinationDashboard, nil
	}

	if err := s.commit(ctx, st, resp, idToken, ""); err != nil {
		return "", err
	}
	s.logger.Info().Str("user_id", resp.User.ID).Msg("session committed without organization")
	return DestinationOnboarding, nil
}

// commit writes the login response in a single store write. An empty active
// organization also drops the role, leaving an authenticated but org-less
// session.
func (s *sessionService) commit(ctx context.Context, st session.Store, resp *models.LoginResponse, idToken, active string) error {
	user, err := json.Marshal(resp.User)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}
	orgs := resp.Organizations
	if orgs == nil {
		orgs = []models.Organization{}
	}
	orgsJSON, err := json.Marshal(orgs)
	if err != nil {
		return fmt.Errorf("failed to encode organizations: %w", err)
	}

	values := map[session.Key]string{
		session.KeyAccessToken:         resp.AccessToken,
		session.KeyUser:                string(user),
		session.KeyOrganizations:       string(orgsJSON),
		session.KeyExternalToken:       idToken,
		session.KeyCurrentOrganization: active,
	}
	if active != "" {
		values[session.KeyCurrentRole] = string(resp.CurrentRole)
	}

	if err := st.Replace(ctx, values); err != nil {
		return fmt.Errorf("failed to write session: %w", err)
	}
	return nil
}

func (s *sessionService) Logout(ctx context.Context, st session.Store) (Destination, error) {
	if err := st.Clear(ctx); err != nil {
		s.logger.Error().Err(err).Msg("failed to clear session")
		return DestinationLogin, err
	}
	return DestinationLogin, nil
}

func (s *sessionService) SwitchOrganization(ctx context.Context, st session.Store, organizationID string) (Destination, error) {
	return s.replay(ctx, st, organizationID)
}

func (s *sessionService) LeaveOrganization(ctx context.Context, st session.Store, organizationID string) (Destination, error) {
	return s.mutateThenReplay(ctx, st, organizationID, s.membership.Leave)
}

func (s *sessionService) DeleteOrganization(ctx context.Context, st session.Store, organizationID string) (Destination, error) {
	return s.mutateThenReplay(ctx, st, organizationID, s.membership.Delete)
}

func (s *sessionService) mutateThenReplay(
	ctx context.Context,
	st session.Store,
	organizationID string,
	mutate func(ctx context.Context, orgID string) error,
) (Destination, error) {
	current, err := session.Load(ctx, st)
	if err != nil {
		return "", err
	}

	if err := mutate(api.WithToken(ctx, current.AccessToken), organizationID); err != nil {
		s.logger.Warn().Err(err).Str("organization_id", organizationID).Msg("organization mutation failed")
		return "", err
	}

	return s.replay(ctx, st, "")
}

// replay re-runs login with the cached Google token so the backend derives a
// fresh organization context.
func (s *sessionService) replay(ctx context.Context, st session.Store, organizationID string) (Destination, error) {
	current, err := session.Load(ctx, st)
	if err != nil {
		return "", err
	}

	if current.ExternalToken == "" {
		dest, _ := s.Logout(ctx, st)
		return dest, ErrSessionExpired
	}

	return s.Login(ctx, st, current.ExternalToken, organizationID)
}
