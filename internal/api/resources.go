package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/models"
)

// ResourcesService manages organization database credentials and environment variables.
type ResourcesService struct {
	client *Client
}

// Credentials lists database credentials. Passwords are never returned.
func (s *ResourcesService) Credentials(ctx context.Context, orgID string) ([]models.DatabaseCredential, error) {
	var creds []models.DatabaseCredential
	if err := s.client.get(ctx, orgPath(orgID, "credentials"), nil, &creds); err != nil {
		return nil, err
	}
	return creds, nil
}

// SaveCredentials upserts credentials keyed by host, port and database name.
func (s *ResourcesService) SaveCredentials(ctx context.Context, orgID string, creds []models.DatabaseCredential) error {
	body := struct {
		DatabaseCredentials []models.DatabaseCredential `json:"database_credentials"`
	}{creds}
	return s.client.post(ctx, orgPath(orgID, "databases"), nil, body, nil)
}

// DeleteCredential removes the credential identified by host, port and database name.
func (s *ResourcesService) DeleteCredential(ctx context.Context, orgID, host string, port int, databaseName string) error {
	q := url.Values{
		"host":          {host},
		"port":          {strconv.Itoa(port)},
		"database_name": {databaseName},
	}
	return s.client.delete(ctx, orgPath(orgID, "credentials"), q)
}

// EnvVars lists environment variables.
func (s *ResourcesService) EnvVars(ctx context.Context, orgID string) ([]models.EnvVar, error) {
	var vars []models.EnvVar
	if err := s.client.get(ctx, orgPath(orgID, "env-vars"), nil, &vars); err != nil {
		return nil, err
	}
	return vars, nil
}

// AddEnvVar adds or replaces an environment variable.
func (s *ResourcesService) AddEnvVar(ctx context.Context, orgID string, v models.EnvVar) error {
	return s.client.post(ctx, orgPath(orgID, "env-vars"), nil, v, nil)
}

// DeleteEnvVar removes an environment variable by key.
func (s *ResourcesService) DeleteEnvVar(ctx context.Context, orgID, key string) error {
	return s.client.delete(ctx, orgPath(orgID, "env-vars", url.PathEscape(key)), nil)
}
