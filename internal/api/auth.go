package api

import (
	"context"

	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/models"
)

// AuthService exchanges external identity tokens for backend sessions.
type AuthService struct {
	client *Client
}

// Login exchanges a Google identity token for a backend access token.
// An empty OrganizationID lets the backend pick the active organization.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := s.client.post(ctx, "/auth/login", nil, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
