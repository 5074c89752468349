package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the application configuration
type Config struct {
	Port string // Service port

	KratosURL      string // Kratos public URL (Frontend API - port 4433)
	KratosAdminURL string // Kratos Admin API URL (port 4434)

	MongoURI      string // Directory store connection URI
	MongoDatabase string // Directory store database name

	SessionBackend string        // Session store backend: "memory" or "redis"
	RedisAddr      string        // Redis address when SessionBackend is "redis"
	RedisDB        int           // Redis logical database
	SessionCookie  string        // Name of the gate session cookie
	SessionTimeout time.Duration // Idle timeout checked lazily on access
	SessionTTL     time.Duration // Hard store TTL, must cover the idle timeout

	LoginRedirectURL   string // Login surface target, absolute or relative
	SuccessRedirectURL string // Post-login fallback redirect

	BackendTokenSecret   string        // Secret for signing backend JWT tokens
	BackendTokenIssuer   string        // JWT issuer claim
	BackendTokenAudience string        // JWT audience claim
	BackendTokenTTL      time.Duration // JWT token TTL

	MetricsSharedSecret string // Shared secret protecting /metrics, empty disables the check

	ProviderPublicURL string // Browser-facing identity provider base URL
	ProviderAppName   string // Application name surfaced to the login UI
}

// Load reads configuration from environment variables with sensible defaults
func Load() (*Config, error) {
	config := &Config{
		Port:                 getEnv("PORT", "8080"),
		KratosURL:            getEnv("KRATOS_URL", "http://kratos:4433"),
		KratosAdminURL:       getEnv("KRATOS_ADMIN_URL", "http://kratos:4434"),
		MongoURI:             getEnv("MONGO_URI", "mongodb://mongo:27017"),
		MongoDatabase:        getEnv("MONGO_DATABASE", "clientgate"),
		SessionBackend:       getEnv("SESSION_BACKEND", "memory"),
		RedisAddr:            getEnv("REDIS_ADDR", "redis:6379"),
		SessionCookie:        getEnv("SESSION_COOKIE", "cg_session"),
		SessionTimeout:       time.Hour,      // matches the historical 3600s default
		SessionTTL:           24 * time.Hour, // hard cap on stored sessions
		LoginRedirectURL:     getEnv("LOGIN_REDIRECT_URL", "/login"),
		SuccessRedirectURL:   getEnv("SUCCESS_REDIRECT_URL", "/"),
		BackendTokenSecret:   getEnv("BACKEND_TOKEN_SECRET", ""),
		BackendTokenIssuer:   getEnv("BACKEND_TOKEN_ISSUER", "client-gate"),
		BackendTokenAudience: getEnv("BACKEND_TOKEN_AUDIENCE", "static-content"),
		BackendTokenTTL:      5 * time.Minute,
		MetricsSharedSecret:  getEnv("METRICS_SHARED_SECRET", ""),
		ProviderPublicURL:    getEnv("PROVIDER_PUBLIC_URL", ""),
		ProviderAppName:      getEnv("PROVIDER_APP_NAME", ""),
	}

	if dbStr := os.Getenv("REDIS_DB"); dbStr != "" {
		db, err := strconv.Atoi(dbStr)
		if err != nil {
			return nil, fmt.Errorf("invalid REDIS_DB format: %w", err)
		}
		config.RedisDB = db
	}

	for _, d := range []struct {
		env    string
		target *time.Duration
	}{
		{"SESSION_TIMEOUT", &config.SessionTimeout},
		{"SESSION_TTL", &config.SessionTTL},
		{"BACKEND_TOKEN_TTL", &config.BackendTokenTTL},
	} {
		if raw := os.Getenv(d.env); raw != "" {
			duration, err := time.ParseDuration(raw)
			if err != nil {
				return nil, fmt.Errorf("invalid %s format: %w", d.env, err)
			}
			*d.target = duration
		}
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("PORT cannot be empty")
	}

	if c.KratosURL == "" {
		return fmt.Errorf("KRATOS_URL cannot be empty")
	}

	if c.MongoURI == "" {
		return fmt.Errorf("MONGO_URI cannot be empty")
	}

	if c.SessionBackend != "memory" && c.SessionBackend != "redis" {
		return fmt.Errorf("SESSION_BACKEND must be \"memory\" or \"redis\", got %q", c.SessionBackend)
	}

	if c.SessionTimeout <= 0 {
		return fmt.Errorf("SESSION_TIMEOUT must be positive")
	}

	if c.SessionTTL < c.SessionTimeout {
		return fmt.Errorf("SESSION_TTL must cover SESSION_TIMEOUT")
	}

	if c.LoginRedirectURL == "" {
		return fmt.Errorf("LOGIN_REDIRECT_URL cannot be empty")
	}

	// An unsigned backend token is useless downstream; refuse to boot
	// rather than fail every granted request at runtime.
	if c.BackendTokenSecret == "" {
		return fmt.Errorf("BACKEND_TOKEN_SECRET cannot be empty")
	}

	return nil
}

// getEnv retrieves an environment variable or returns a fallback value
func getEnv(key, fallback string) string {
	// Check for _FILE suffix
	if fileValue := os.Getenv(key + "_FILE"); fileValue != "" {
		content, err := os.ReadFile(fileValue)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
