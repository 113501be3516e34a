// Package ratelimit implements the sliding-window login-attempt limiter with
// lockout. Its state lives behind its own lock, independent of the session
// store: rate-limit and session operations never need to be atomic with each
// other.
package ratelimit

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pilab-dev/taiga-bridge/config"
	"github.com/pilab-dev/taiga-bridge/domain"
	"github.com/pilab-dev/taiga-bridge/errors"
	"github.com/pilab-dev/taiga-bridge/internal/metrics"
)

// Limiter tracks login attempts per username. Construct one per process with
// NewLimiter; tests build isolated instances.
type Limiter struct {
	mu      sync.Mutex
	entries map[string]*domain.RateLimitEntry
}

// NewLimiter builds an empty limiter.
func NewLimiter() *Limiter {
	return &Limiter{entries: make(map[string]*domain.RateLimitEntry)}
}

// Check must be called, and must pass, before every credential attempt.
// It fails with an AuthorizationError when the username is locked out or
// when the failures inside the sliding window have reached the configured
// threshold (which applies a fresh lockout). A configured threshold of zero
// disables rate limiting; that bypass is evaluated fresh on every call.
func (l *Limiter) Check(username string) error {
	maxAttempts := config.LoginMaxAttempts()
	if maxAttempts == 0 {
		return nil
	}
	window := config.LoginRateWindow()
	lockout := config.LoginLockoutDuration()

	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[username]
	if !ok {
		return nil // first-ever attempt for this user
	}

	now := time.Now()
	if entry.IsLockedOut(now) {
		remaining := int(entry.RemainingLockout(now).Seconds())
		log.Warn().
			Str("username", username).
			Int("remaining_seconds", remaining).
			Msg("Login attempt blocked, user is locked out")
		return errors.NewLockedOut(remaining)
	}

	// Lockout lapsed or absent: apply the sliding window.
	entry.TrimBefore(now.Add(-window))
	if entry.FailureCount() >= maxAttempts {
		until := now.Add(lockout)
		entry.LockedUntil = &until
		metrics.LockoutsTotal.Inc()
		log.Warn().
			Str("username", username).
			Int("failed_attempts", entry.FailureCount()).
			Dur("lockout", lockout).
			Msg("Rate limit threshold exceeded, applying lockout")
		return errors.NewLockoutApplied(maxAttempts, int(window.Seconds()), int(lockout.Seconds()))
	}
	return nil
}

// Track records the outcome of a credential attempt. It must be called after
// every attempt, success or failure. A successful attempt clears any lockout
// and discards the accumulated failure history; a failed attempt simply
// joins the window and is only judged by the next Check.
func (l *Limiter) Track(username string, success bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry, ok := l.entries[username]
	if !ok {
		entry = &domain.RateLimitEntry{}
		l.entries[username] = entry
	}

	entry.Attempts = append(entry.Attempts, domain.LoginAttempt{
		Timestamp: time.Now(),
		Username:  username,
		Success:   success,
	})

	if success {
		entry.LockedUntil = nil
		kept := entry.Attempts[:0:0]
		for _, a := range entry.Attempts {
			if a.Success {
				kept = append(kept, a)
			}
		}
		entry.Attempts = kept
		log.Debug().Str("username", username).Msg("Successful login cleared rate limit")
	}
}

// Sweep evicts stale entries: usernames with no active lockout whose
// attempts are all older than twice the rate window (or absent entirely).
// Active lockouts are never evicted. Returns the number of entries removed.
func (l *Limiter) Sweep() int {
	cutoff := time.Now().Add(-2 * config.LoginRateWindow())

	l.mu.Lock()
	defer l.mu.Unlock()

	removed := 0
	now := time.Now()
	for username, entry := range l.entries {
		if entry.IsLockedOut(now) {
			continue
		}
		stale := true
		for _, a := range entry.Attempts {
			if !a.Timestamp.Before(cutoff) {
				stale = false
				break
			}
		}
		if stale {
			delete(l.entries, username)
			removed++
		}
	}
	if removed > 0 {
		log.Info().Int("count", removed).Msg("Rate limit cleanup removed user entries")
	}
	return removed
}

// Len returns the number of tracked usernames.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
