package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/config"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/session"
)

func testConfig() *config.Config {
	return &config.Config{
		Server:  config.ServerConfig{Environment: "production"},
		Session: config.SessionConfig{Backend: "memory", Secret: "0123456789abcdef0123456789abcdef", TTL: time.Hour},
	}
}

func TestNewCookieStore(t *testing.T) {
	store, err := newCookieStore(testConfig())

	require.NoError(t, err)
	assert.Equal(t, 3600, store.Options.MaxAge)
	assert.True(t, store.Options.Secure)
	assert.True(t, store.Options.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, store.Options.SameSite)
}

func TestNewCookieStore_RejectsBadEncryptionKey(t *testing.T) {
	cfg := testConfig()
	cfg.Session.EncryptionKey = "short"

	_, err := newCookieStore(cfg)

	assert.Error(t, err)
}

func TestNewSessionBackend(t *testing.T) {
	cfg := testConfig()
	store, err := newCookieStore(cfg)
	require.NoError(t, err)

	backend, err := newSessionBackend(cfg, nil, store)
	require.NoError(t, err)
	assert.IsType(t, &session.MemoryBackend{}, backend)

	cfg.Session.Backend = "filesystem"
	cfg.Session.Dir = t.TempDir()
	backend, err = newSessionBackend(cfg, nil, store)
	require.NoError(t, err)
	assert.IsType(t, &session.GorillaBackend{}, backend)
}

func TestNewSessionBackend_FilesystemHoldsLargeTokens(t *testing.T) {
	cfg := testConfig()
	cfg.Server.Environment = "development"
	cfg.Session.Backend = "filesystem"
	cfg.Session.Dir = t.TempDir()
	cookies, err := newCookieStore(cfg)
	require.NoError(t, err)
	backend, err := newSessionBackend(cfg, nil, cookies)
	require.NoError(t, err)

	ctx := context.Background()
	idToken := strings.Repeat("g", 6000)
	rec := httptest.NewRecorder()
	st, err := backend.Open(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	require.NoError(t, st.Replace(ctx, map[session.Key]string{
		session.KeyExternalToken: idToken,
		session.KeyAccessToken:   strings.Repeat("a", 2000),
	}))

	next := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		assert.Less(t, len(c.Value), 1024)
		next.AddCookie(c)
	}
	st2, err := backend.Open(httptest.NewRecorder(), next)
	require.NoError(t, err)
	v, ok, err := st2.Get(ctx, session.KeyExternalToken)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, idToken, v)
}

func TestReadyHandler_WithoutRedis(t *testing.T) {
	rec := httptest.NewRecorder()

	readyHandler(nil)(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":{"status":"ok"}}`, rec.Body.String())
}

func TestVersionCommand(t *testing.T) {
	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetArgs([]string{"version"})

	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, out.String(), "testaurant-web dev")
}
