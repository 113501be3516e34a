// Package config provides the bridge configuration. Startup settings (ports,
// logging) are loaded once into a ServerConfig; runtime tuning knobs (session
// TTL, concurrency limits, rate-limit windows) are read live at point of use
// so operators can adjust them without a restart.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Defaults for the runtime knobs.
const (
	DefaultSessionTTLSeconds       = 28800 // 8 hours
	DefaultMaxConcurrentSessions   = 5
	DefaultSessionCleanupSeconds   = 300
	DefaultLoginMaxAttempts        = 5
	DefaultLoginRateWindowSeconds  = 60
	DefaultLoginLockoutSeconds     = 900
	DefaultRateLimitCleanupSeconds = 300
)

// ServerConfig holds the settings read once at startup.
type ServerConfig struct {
	HTTPPort  string `mapstructure:"HTTP_PORT"`
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogPretty bool   `mapstructure:"LOG_PRETTY"`
}

// Load reads the startup configuration from file, environment and defaults.
func Load() (*ServerConfig, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/taiga-bridge/")
	v.AddConfigPath("$HOME/.taiga-bridge")
	v.AddConfigPath(".")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_PRETTY", false)

	if err := v.ReadInConfig(); err != nil {
		// Running without a config file is fine; defaults and env apply.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg ServerConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	return &cfg, nil
}

// runtime backs the live getters below. AutomaticEnv makes every Get consult
// the environment at call time, which is what gives the knobs their
// read-at-point-of-use behavior.
var runtime = newRuntime()

func newRuntime() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("SESSION_TTL", DefaultSessionTTLSeconds)
	v.SetDefault("MAX_CONCURRENT_SESSIONS", DefaultMaxConcurrentSessions)
	v.SetDefault("SESSION_CLEANUP_INTERVAL", DefaultSessionCleanupSeconds)
	v.SetDefault("LOGIN_MAX_ATTEMPTS", DefaultLoginMaxAttempts)
	v.SetDefault("LOGIN_RATE_WINDOW", DefaultLoginRateWindowSeconds)
	v.SetDefault("LOGIN_LOCKOUT_DURATION", DefaultLoginLockoutSeconds)
	v.SetDefault("RATE_LIMIT_CLEANUP_INTERVAL", DefaultRateLimitCleanupSeconds)
	v.SetDefault("ALLOW_HTTP_TAIGA", false)

	return v
}

// SessionTTL is the absolute lifetime of a session from creation.
// Non-positive configured values fall back to the default.
func SessionTTL() time.Duration {
	secs := runtime.GetInt("SESSION_TTL")
	if secs <= 0 {
		secs = DefaultSessionTTLSeconds
	}
	return time.Duration(secs) * time.Second
}

// MaxConcurrentSessions is the per-user session cap. Zero means unlimited.
func MaxConcurrentSessions() int {
	n := runtime.GetInt("MAX_CONCURRENT_SESSIONS")
	if n < 0 {
		return 0
	}
	return n
}

// SessionCleanupInterval is the period of the session reaper.
func SessionCleanupInterval() time.Duration {
	return positiveSeconds("SESSION_CLEANUP_INTERVAL", DefaultSessionCleanupSeconds)
}

// LoginMaxAttempts is the failed-attempt threshold within one rate window.
// Zero disables login rate limiting entirely.
func LoginMaxAttempts() int {
	n := runtime.GetInt("LOGIN_MAX_ATTEMPTS")
	if n < 0 {
		return 0
	}
	return n
}

// LoginRateWindow is the width of the sliding window for failed logins.
func LoginRateWindow() time.Duration {
	return positiveSeconds("LOGIN_RATE_WINDOW", DefaultLoginRateWindowSeconds)
}

// LoginLockoutDuration is how long a username stays locked out once the
// failure threshold is crossed.
func LoginLockoutDuration() time.Duration {
	return positiveSeconds("LOGIN_LOCKOUT_DURATION", DefaultLoginLockoutSeconds)
}

// RateLimitCleanupInterval is the period of the rate-limit reaper.
func RateLimitCleanupInterval() time.Duration {
	return positiveSeconds("RATE_LIMIT_CLEANUP_INTERVAL", DefaultRateLimitCleanupSeconds)
}

// AllowHTTPTaiga reports whether the HTTPS requirement on Taiga hosts may be
// bypassed. Intended for local development only.
func AllowHTTPTaiga() bool {
	return runtime.GetBool("ALLOW_HTTP_TAIGA")
}

func positiveSeconds(key string, fallback int) time.Duration {
	secs := runtime.GetInt(key)
	if secs <= 0 {
		secs = fallback
	}
	return time.Duration(secs) * time.Second
}
