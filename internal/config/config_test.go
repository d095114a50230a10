package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:3000", cfg.Server.Addr())
	assert.True(t, cfg.Server.IsDevelopment())
	assert.Equal(t, "http://localhost:8000/testaurant/v1", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout)
	assert.Equal(t, "memory", cfg.Session.Backend)
	assert.Equal(t, 168*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr())
	assert.False(t, cfg.Auth.GoogleEnabled())
	assert.Equal(t, "memory", cfg.RateLimit.Backend)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("TESTAURANT_SERVER_PORT", "9090")
	t.Setenv("TESTAURANT_API_BASE_URL", "https://api.example.com/testaurant/v1")
	t.Setenv("TESTAURANT_AUTH_OAUTH_GOOGLE_ID", "client-id")
	t.Setenv("TESTAURANT_AUTH_OAUTH_GOOGLE_SECRET", "client-secret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "https://api.example.com/testaurant/v1", cfg.API.BaseURL)
	assert.True(t, cfg.Auth.GoogleEnabled())
}

func TestLoad_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "testaurant.yaml")
	content := `
server:
  environment: production
session:
  backend: redis
  secret: 0123456789abcdef0123456789abcdef
redis:
  enabled: true
  host: cache
  port: 6380
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.Server.IsDevelopment())
	assert.Equal(t, "redis", cfg.Session.Backend)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Server:  ServerConfig{Environment: "production"},
			API:     APIConfig{BaseURL: "http://backend"},
			Session: SessionConfig{Backend: "filesystem", Secret: "0123456789abcdef0123456789abcdef"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.Session.Backend = "cookie" },
			wantErr: "unknown session backend",
		},
		{
			name:    "redis sessions without redis",
			mutate:  func(c *Config) { c.Session.Backend = "redis" },
			wantErr: "requires redis.enabled",
		},
		{
			name: "redis rate limit without redis",
			mutate: func(c *Config) {
				c.RateLimit = RateLimitConfig{Enabled: true, Backend: "redis"}
			},
			wantErr: "requires redis.enabled",
		},
		{
			name:    "short secret in production",
			mutate:  func(c *Config) { c.Session.Secret = "short" },
			wantErr: "at least 32 bytes",
		},
		{
			name: "short secret in development",
			mutate: func(c *Config) {
				c.Server.Environment = "development"
				c.Session.Secret = "short"
			},
		},
		{
			name:    "missing api base url",
			mutate:  func(c *Config) { c.API.BaseURL = "" },
			wantErr: "api.base_url",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
