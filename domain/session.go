package domain

import (
	"time"

	"github.com/pilab-dev/taiga-bridge/taiga"
)

// Session is a live association between an opaque identifier and an
// authenticated Taiga client, scoped to one user. Expiry is absolute:
// ExpiresAt is fixed at creation and never renewed by access.
type Session struct {
	ID             string
	Username       string
	Client         *taiga.Client
	CreatedAt      time.Time
	LastAccessedAt time.Time
	ExpiresAt      time.Time
}

// IsExpired reports whether the session TTL has elapsed at the given instant.
func (s *Session) IsExpired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// TimeUntilExpiry returns the remaining lifetime, which may be negative.
func (s *Session) TimeUntilExpiry(now time.Time) time.Duration {
	return s.ExpiresAt.Sub(now)
}

// Touch updates the last-accessed timestamp.
func (s *Session) Touch(now time.Time) {
	s.LastAccessedAt = now
}
