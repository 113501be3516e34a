package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRuntimeDefaults(t *testing.T) {
	assert.Equal(t, 8*time.Hour, SessionTTL())
	assert.Equal(t, 5, MaxConcurrentSessions())
	assert.Equal(t, 5*time.Minute, SessionCleanupInterval())
	assert.Equal(t, 5, LoginMaxAttempts())
	assert.Equal(t, time.Minute, LoginRateWindow())
	assert.Equal(t, 15*time.Minute, LoginLockoutDuration())
	assert.Equal(t, 5*time.Minute, RateLimitCleanupInterval())
	assert.False(t, AllowHTTPTaiga())
}

func TestRuntimeReadsEnvironmentLive(t *testing.T) {
	t.Setenv("SESSION_TTL", "60")
	assert.Equal(t, time.Minute, SessionTTL())

	t.Setenv("SESSION_TTL", "120")
	assert.Equal(t, 2*time.Minute, SessionTTL(), "changes apply without reload")

	t.Setenv("MAX_CONCURRENT_SESSIONS", "2")
	assert.Equal(t, 2, MaxConcurrentSessions())

	t.Setenv("ALLOW_HTTP_TAIGA", "true")
	assert.True(t, AllowHTTPTaiga())
}

func TestNonPositiveValuesFallBack(t *testing.T) {
	t.Setenv("SESSION_TTL", "0")
	assert.Equal(t, 8*time.Hour, SessionTTL())

	t.Setenv("SESSION_TTL", "-5")
	assert.Equal(t, 8*time.Hour, SessionTTL())

	t.Setenv("LOGIN_RATE_WINDOW", "0")
	assert.Equal(t, time.Minute, LoginRateWindow())

	t.Setenv("MAX_CONCURRENT_SESSIONS", "0")
	assert.Equal(t, 0, MaxConcurrentSessions(), "zero means unlimited, not default")

	t.Setenv("LOGIN_MAX_ATTEMPTS", "0")
	assert.Equal(t, 0, LoginMaxAttempts(), "zero disables rate limiting")
}

func TestLoadWithoutConfigFile(t *testing.T) {
	t.Setenv("HTTP_PORT", "9999")

	cfg, err := Load()
	assert.NoError(t, err)
	assert.Equal(t, "9999", cfg.HTTPPort)
	assert.Equal(t, "info", cfg.LogLevel)
}
