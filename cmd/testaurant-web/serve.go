package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/sessions"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/api"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/config"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/database"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/handler/web"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/middleware"
	apierrors "github.com/Optimized-Brute-Forcer/testaurant-web/internal/pkg/errors"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/pkg/response"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/service"
	"github.com/Optimized-Brute-Forcer/testaurant-web/internal/session"
)

var (
	configPath string
	listenPort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the dashboard HTTP server",
	Long: `Run the dashboard HTTP server.

Settings come from config.yaml and TESTAURANT_* environment variables.
--port overrides server.port.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&configPath, "config", "", "path to a config file")
	serveCmd.Flags().IntVar(&listenPort, "port", 0, "listen port")
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level := zerolog.InfoLevel
	if os.Getenv("DEBUG") == "true" {
		level = zerolog.DebugLevel
	}
	if cfg.Server.IsDevelopment() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.Kitchen}).
			Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
}

func sessionKeys(cfg *config.Config) ([][]byte, error) {
	keys := [][]byte{[]byte(cfg.Session.Secret)}
	if cfg.Session.EncryptionKey != "" {
		switch len(cfg.Session.EncryptionKey) {
		case 16, 24, 32:
		default:
			return nil, fmt.Errorf("session.encryption_key must be 16, 24 or 32 bytes")
		}
		keys = append(keys, []byte(cfg.Session.EncryptionKey))
	}
	return keys, nil
}

func sessionOptions(cfg *config.Config) *sessions.Options {
	return &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.Session.TTL.Seconds()),
		HttpOnly: true,
		Secure:   !cfg.Server.IsDevelopment(),
		SameSite: http.SameSiteLaxMode,
	}
}

// newCookieStore builds the gorilla store behind flashes, session ids and the
// OAuth state.
func newCookieStore(cfg *config.Config) (*sessions.CookieStore, error) {
	keys, err := sessionKeys(cfg)
	if err != nil {
		return nil, err
	}
	store := sessions.NewCookieStore(keys...)
	store.Options = sessionOptions(cfg)
	return store, nil
}

// newSessionBackend picks where session values live. Every backend keeps
// tokens server-side; the browser only carries an id.
func newSessionBackend(cfg *config.Config, rdb *database.Redis, cookies sessions.Store) (session.Backend, error) {
	switch cfg.Session.Backend {
	case "redis":
		return session.NewRedisBackend(rdb, cookies, cfg.Session.TTL), nil
	case "filesystem":
		keys, err := sessionKeys(cfg)
		if err != nil {
			return nil, err
		}
		store := sessions.NewFilesystemStore(cfg.Session.Dir, keys...)
		store.MaxLength(0)
		store.Options = sessionOptions(cfg)
		return session.NewGorillaBackend(store), nil
	default:
		return session.NewMemoryBackend(cookies, cfg.Session.TTL), nil
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if listenPort != 0 {
		cfg.Server.Port = listenPort
	}

	logger := newLogger(cfg)
	logger.Info().
		Str("environment", cfg.Server.Environment).
		Int("port", cfg.Server.Port).
		Str("session_backend", cfg.Session.Backend).
		Str("version", version).
		Msg("Starting Testaurant web dashboard")

	var rdb *database.Redis
	if cfg.Redis.Enabled {
		rdb, err = database.NewRedis(cfg.Redis)
		if err != nil {
			return err
		}
		defer rdb.Close()
		logger.Info().Str("addr", cfg.Redis.Addr()).Msg("Connected to Redis")
	}

	cookies, err := newCookieStore(cfg)
	if err != nil {
		return err
	}

	sessionBackend, err := newSessionBackend(cfg, rdb, cookies)
	if err != nil {
		return err
	}

	client := api.NewClient(
		api.WithBaseURL(cfg.API.BaseURL),
		api.WithTimeout(cfg.API.Timeout),
	)
	sessionService := service.NewSessionService(client.Auth, client.Organizations, logger)
	oauthService := service.NewOAuthService(cfg.Auth)
	if !oauthService.Enabled() {
		logger.Info().Msg("Google authorization-code flow disabled, using Identity Services only")
	}

	webHandler := web.NewWebHandler(
		client,
		sessionService,
		oauthService,
		sessionBackend,
		cookies,
		web.Config{
			GoogleClientID: cfg.Auth.OAuthGoogleID,
			BaseURL:        cfg.Server.BaseURL,
			StaticDir:      cfg.Server.StaticDir,
		},
		logger,
	)

	compress, err := middleware.Compress()
	if err != nil {
		return fmt.Errorf("failed to build compression middleware: %w", err)
	}

	r := chi.NewRouter()

	// Global middleware stack
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Secure(middleware.SecureOptions(cfg.Server.IsDevelopment())))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(compress)
	r.Use(middleware.Metrics())

	if cfg.RateLimit.Enabled {
		limits := middleware.RateLimitConfig{
			RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
			BurstSize:         cfg.RateLimit.BurstSize,
		}
		if cfg.RateLimit.Backend == "redis" {
			r.Use(middleware.RateLimit(rdb, limits, logger))
		} else {
			r.Use(middleware.MemoryRateLimit(limits))
		}
	}

	r.Get("/ready", readyHandler(rdb))
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(cfg.Server.WriteTimeout))
		r.Mount("/", webHandler.Routes())
	})

	srv := &http.Server{
		Addr:         cfg.Server.Addr(),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  time.Minute,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case sig := <-quit:
		logger.Info().Str("signal", sig.String()).Msg("Shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	logger.Info().Msg("Server stopped gracefully")
	return nil
}

// readyHandler reports readiness. Redis is checked when it is enabled.
func readyHandler(rdb *database.Redis) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if rdb == nil {
			response.OK(w, map[string]string{"status": "ok"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		if err := rdb.Ping(ctx); err != nil {
			response.Error(w, apierrors.ErrServiceUnavailable.WithDetails(map[string]string{"component": "redis"}))
			return
		}
		response.OK(w, map[string]string{"status": "ok", "redis": "connected"})
	}
}
