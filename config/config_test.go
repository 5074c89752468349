package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "KRATOS_URL", "KRATOS_ADMIN_URL", "MONGO_URI", "MONGO_DATABASE",
		"SESSION_BACKEND", "REDIS_ADDR", "REDIS_DB", "SESSION_COOKIE",
		"SESSION_TIMEOUT", "SESSION_TTL", "LOGIN_REDIRECT_URL",
		"SUCCESS_REDIRECT_URL", "BACKEND_TOKEN_SECRET", "BACKEND_TOKEN_TTL",
		"METRICS_SHARED_SECRET", "PROVIDER_PUBLIC_URL", "PROVIDER_APP_NAME",
	} {
		os.Unsetenv(key)
		os.Unsetenv(key + "_FILE")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("BACKEND_TOKEN_SECRET", "test-secret")

	cfg, err := Load()

	assert.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "http://kratos:4433", cfg.KratosURL)
	assert.Equal(t, "mongodb://mongo:27017", cfg.MongoURI)
	assert.Equal(t, "memory", cfg.SessionBackend)
	assert.Equal(t, "cg_session", cfg.SessionCookie)
	assert.Equal(t, time.Hour, cfg.SessionTimeout)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "/login", cfg.LoginRedirectURL)
	assert.Equal(t, "/", cfg.SuccessRedirectURL)
	assert.Equal(t, 5*time.Minute, cfg.BackendTokenTTL)
}

func TestLoad_CustomValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("BACKEND_TOKEN_SECRET", "test-secret")
	t.Setenv("PORT", "9090")
	t.Setenv("SESSION_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "localhost:6380")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("SESSION_TIMEOUT", "30m")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("LOGIN_REDIRECT_URL", "https://auth.example.com/login")

	cfg, err := Load()

	assert.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "redis", cfg.SessionBackend)
	assert.Equal(t, "localhost:6380", cfg.RedisAddr)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, 30*time.Minute, cfg.SessionTimeout)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "https://auth.example.com/login", cfg.LoginRedirectURL)
}

func TestLoad_SecretFromFile(t *testing.T) {
	clearEnv(t)
	secretFile := t.TempDir() + "/secret"
	assert.NoError(t, os.WriteFile(secretFile, []byte("s3cr3t\n"), 0o600))
	t.Setenv("BACKEND_TOKEN_SECRET_FILE", secretFile)

	cfg, err := Load()

	assert.NoError(t, err)
	assert.Equal(t, "s3cr3t", cfg.BackendTokenSecret)
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name        string
		env         map[string]string
		errContains string
	}{
		{
			name:        "bad session timeout",
			env:         map[string]string{"SESSION_TIMEOUT": "soon"},
			errContains: "SESSION_TIMEOUT",
		},
		{
			name:        "bad redis db",
			env:         map[string]string{"REDIS_DB": "three"},
			errContains: "REDIS_DB",
		},
		{
			name:        "unknown session backend",
			env:         map[string]string{"SESSION_BACKEND": "etcd"},
			errContains: "SESSION_BACKEND",
		},
		{
			name: "ttl shorter than timeout",
			env: map[string]string{
				"SESSION_TIMEOUT": "2h",
				"SESSION_TTL":     "1h",
			},
			errContains: "SESSION_TTL",
		},
		{
			// A default environment must not pass validation without a
			// signing secret; the issuer rejects empty secrets at runtime.
			name:        "missing backend token secret",
			env:         map[string]string{},
			errContains: "BACKEND_TOKEN_SECRET",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			cfg, err := Load()

			assert.Nil(t, cfg)
			assert.ErrorContains(t, err, tt.errContains)
		})
	}
}
