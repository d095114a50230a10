// Package config provides configuration loading for the Testaurant web dashboard.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	API       APIConfig       `mapstructure:"api"`
	Session   SessionConfig   `mapstructure:"session"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	CORS      CORSConfig      `mapstructure:"cors"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"` // development, staging, production
	BaseURL      string        `mapstructure:"base_url"`
	StaticDir    string        `mapstructure:"static_dir"`
}

// IsDevelopment reports whether the server runs in development mode.
func (c ServerConfig) IsDevelopment() bool {
	return c.Environment == "development" || c.Environment == "dev"
}

// Addr returns the listen address.
func (c ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// APIConfig holds the Testaurant backend gateway settings.
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SessionConfig selects and configures the session key/value backend.
type SessionConfig struct {
	Backend       string        `mapstructure:"backend"` // memory, redis, filesystem
	Dir           string        `mapstructure:"dir"`     // filesystem backend only
	Secret        string        `mapstructure:"secret"`
	EncryptionKey string        `mapstructure:"encryption_key"`
	TTL           time.Duration `mapstructure:"ttl"`
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// Addr returns the Redis address string.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AuthConfig holds Google sign-in configuration.
type AuthConfig struct {
	OAuthGoogleID     string `mapstructure:"oauth_google_id"`
	OAuthGoogleSecret string `mapstructure:"oauth_google_secret"`
	OAuthCallbackURL  string `mapstructure:"oauth_callback_url"`
}

// GoogleEnabled reports whether the authorization-code flow is configured.
func (c AuthConfig) GoogleEnabled() bool {
	return c.OAuthGoogleID != "" && c.OAuthGoogleSecret != ""
}

// RateLimitConfig holds request throttling settings.
type RateLimitConfig struct {
	Enabled           bool   `mapstructure:"enabled"`
	Backend           string `mapstructure:"backend"` // redis, memory
	RequestsPerMinute int    `mapstructure:"requests_per_minute"`
	BurstSize         int    `mapstructure:"burst_size"`
}

// CORSConfig holds cross-origin settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// Load reads configuration from files and environment variables.
// An explicit path, when non-empty, replaces the default search locations.
func Load(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/testaurant")
	}

	v.SetEnvPrefix("TESTAURANT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Secrets are usually only provided via the environment.
	v.BindEnv("session.secret", "TESTAURANT_SESSION_SECRET")
	v.BindEnv("session.encryption_key", "TESTAURANT_SESSION_ENCRYPTION_KEY")
	v.BindEnv("auth.oauth_google_id", "TESTAURANT_AUTH_OAUTH_GOOGLE_ID")
	v.BindEnv("auth.oauth_google_secret", "TESTAURANT_AUTH_OAUTH_GOOGLE_SECRET")
	v.BindEnv("auth.oauth_callback_url", "TESTAURANT_AUTH_OAUTH_CALLBACK_URL")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks settings that cannot be defaulted.
func (c *Config) Validate() error {
	switch c.Session.Backend {
	case "memory", "filesystem":
	case "redis":
		if !c.Redis.Enabled {
			return fmt.Errorf("session backend redis requires redis.enabled")
		}
	default:
		return fmt.Errorf("unknown session backend %q", c.Session.Backend)
	}

	if c.RateLimit.Enabled && c.RateLimit.Backend == "redis" && !c.Redis.Enabled {
		return fmt.Errorf("rate limit backend redis requires redis.enabled")
	}

	if len(c.Session.Secret) < 32 && !c.Server.IsDevelopment() {
		return fmt.Errorf("session.secret must be at least 32 bytes outside development")
	}

	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}

	return nil
}

// setDefaults configures default values for all settings.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 3000)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "60s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.base_url", "http://localhost:3000")
	v.SetDefault("server.static_dir", "static")

	// Backend gateway defaults
	v.SetDefault("api.base_url", "http://localhost:8000/testaurant/v1")
	v.SetDefault("api.timeout", "30s")

	// Session defaults
	v.SetDefault("session.backend", "memory")
	v.SetDefault("session.dir", "")
	v.SetDefault("session.secret", "testaurant-development-secret-key!!")
	v.SetDefault("session.encryption_key", "")
	v.SetDefault("session.ttl", "168h") // 7 days

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Auth defaults
	v.SetDefault("auth.oauth_callback_url", "http://localhost:3000")

	// Rate limit defaults
	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.backend", "memory")
	v.SetDefault("ratelimit.requests_per_minute", 300)
	v.SetDefault("ratelimit.burst_size", 50)

	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
}
