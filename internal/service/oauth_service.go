package service

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/config"
)

// ErrOAuthNotConfigured is returned when Google client credentials are missing.
var ErrOAuthNotConfigured = errors.New("google oauth not configured")

// OAuthService runs the Google authorization-code flow to obtain an identity
// token for the backend login call.
type OAuthService interface {
	// Enabled reports whether the code flow is configured.
	Enabled() bool

	// AuthURL returns the Google consent URL for state.
	AuthURL(state string) (string, error)

	// ExchangeIDToken trades an authorization code for a Google ID token.
	ExchangeIDToken(ctx context.Context, code string) (string, error)
}

type oauthService struct {
	config *oauth2.Config
}

// NewOAuthService creates an OAuthService from the auth configuration.
func NewOAuthService(cfg config.AuthConfig) OAuthService {
	if !cfg.GoogleEnabled() {
		return &oauthService{}
	}
	return NewOAuthServiceWithConfig(&oauth2.Config{
		ClientID:     cfg.OAuthGoogleID,
		ClientSecret: cfg.OAuthGoogleSecret,
		Endpoint:     google.Endpoint,
		RedirectURL:  cfg.OAuthCallbackURL + "/auth/google/callback",
		Scopes:       []string{"openid", "email", "profile"},
	})
}

// NewOAuthServiceWithConfig creates an OAuthService with an explicit oauth2
// configuration. This is primarily used for testing.
func NewOAuthServiceWithConfig(cfg *oauth2.Config) OAuthService {
	return &oauthService{config: cfg}
}

func (s *oauthService) Enabled() bool {
	return s.config != nil
}

func (s *oauthService) AuthURL(state string) (string, error) {
	if s.config == nil {
		return "", ErrOAuthNotConfigured
	}
	return s.config.AuthCodeURL(state), nil
}

func (s *oauthService) ExchangeIDToken(ctx context.Context, code string) (string, error) {
	if s.config == nil {
		return "", ErrOAuthNotConfigured
	}

	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return "", fmt.Errorf("token exchange failed: %w", err)
	}

	idToken, _ := token.Extra("id_token").(string)
	if idToken == "" {
		return "", errors.New("token response has no id_token")
	}
	return idToken, nil
}

// GenerateState returns a random value for the OAuth state parameter.
func GenerateState() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}
