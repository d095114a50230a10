package api

import (
	"context"
	"encoding/json"
	"net/url"

	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/models"
)

// BFFService wraps the backend-for-frontend aggregate endpoints.
type BFFService struct {
	client *Client
}

// List returns the raw collection for workitems, testcases, testsuites or executions.
func (s *BFFService) List(ctx context.Context, collection string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := s.client.get(ctx, "/bff/"+url.PathEscape(collection), nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Create posts a creation payload to a collection.
func (s *BFFService) Create(ctx context.Context, collection string, payload interface{}) error {
	return s.client.post(ctx, "/bff/"+url.PathEscape(collection), nil, payload, nil)
}

// Delete removes one item of a collection.
func (s *BFFService) Delete(ctx context.Context, collection, id string) error {
	return s.client.delete(ctx, "/bff/"+url.PathEscape(collection)+"/"+url.PathEscape(id), nil)
}

// Run executes a workitem, testcase or testsuite synchronously.
// An empty environment leaves the backend default in place.
func (s *BFFService) Run(ctx context.Context, entityType, id string, env models.Environment) (*models.RunResult, error) {
	var q url.Values
	if env != "" {
		q = url.Values{"environment": {string(env)}}
	}
	var result models.RunResult
	path := "/bff/run/" + url.PathEscape(entityType) + "/" + url.PathEscape(id)
	if err := s.client.post(ctx, path, q, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ExecutionDetail returns the raw detail document of one execution run.
func (s *BFFService) ExecutionDetail(ctx context.Context, entityType, id string) (json.RawMessage, error) {
	var raw json.RawMessage
	path := "/bff/executions/" + url.PathEscape(entityType) + "/" + url.PathEscape(id)
	if err := s.client.get(ctx, path, nil, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// Runnable returns every item that can be executed.
func (s *BFFService) Runnable(ctx context.Context) ([]models.Runnable, error) {
	var resp struct {
		Items []models.Runnable `json:"items"`
	}
	if err := s.client.get(ctx, "/bff/runnable", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Items, nil
}

// Stats returns the aggregate counts for the active organization.
func (s *BFFService) Stats(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats
	if err := s.client.get(ctx, "/bff/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
