package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// unsetenv clears a variable for the duration of the test; t.Setenv is
// called first so the original value is restored afterwards.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"DATABASE_URL", "HTTP_PORT", "LOG_LEVEL", "JWT_SECRET"} {
		unsetenv(t, key)
	}

	cfg := Load()

	assert.Equal(t, "rail_complaints.db", cfg.DatabaseURL)
	assert.Equal(t, "8080", cfg.HTTPPort)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, DevFallbackSecret, cfg.JWTSecret)
	assert.True(t, cfg.UsingFallbackSecret())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("DATABASE_URL", "test.db")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("JWT_SECRET", "configured-secret")

	cfg := Load()

	assert.Equal(t, "test.db", cfg.DatabaseURL)
	assert.Equal(t, "9090", cfg.HTTPPort)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, "configured-secret", cfg.JWTSecret)
	assert.False(t, cfg.UsingFallbackSecret())
}
