// Package api provides a typed client for the Testaurant backend API.
//
// Every call is scoped by its context: the bearer token attached with
// WithToken and the chi request id are forwarded on each request.
//
//	client := api.NewClient(api.WithBaseURL("http://localhost:8000/testaurant/v1"))
//	ctx = api.WithToken(ctx, accessToken)
//	stats, err := client.BFF.Stats(ctx)
package api

import (
	"context"
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the default Testaurant API endpoint.
	DefaultBaseURL = "http://localhost:8000/testaurant/v1"
	// DefaultTimeout is the default HTTP client timeout.
	DefaultTimeout = 30 * time.Second
)

// Client is the Testaurant API client.
type Client struct {
	baseURL    string
	httpClient *http.Client

	// Services
	Auth          *AuthService
	Organizations *OrganizationsService
	BFF           *BFFService
	Resources     *ResourcesService
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL sets a custom API base URL, including the version prefix.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if c.httpClient == nil {
			c.httpClient = &http.Client{}
		}
		c.httpClient.Timeout = timeout
	}
}

// NewClient creates a new Testaurant API client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	c.Auth = &AuthService{client: c}
	c.Organizations = &OrganizationsService{client: c}
	c.BFF = &BFFService{client: c}
	c.Resources = &ResourcesService{client: c}

	return c
}

// BaseURL returns the current base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

type tokenKey struct{}

// WithToken returns a context whose requests carry the bearer token.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// TokenFromContext returns the bearer token attached to ctx, if any.
func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}
