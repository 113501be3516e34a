package domain

import "time"

// LoginAttempt is a single tracked login attempt. Immutable once created.
type LoginAttempt struct {
	Timestamp time.Time
	Username  string
	Success   bool
}

// RateLimitEntry tracks login attempts for one username. Attempts are kept
// oldest first, so trimming the sliding window is a prefix cut. A nil
// LockedUntil means the user is not locked out.
type RateLimitEntry struct {
	Attempts    []LoginAttempt
	LockedUntil *time.Time
}

// IsLockedOut reports whether an active lockout covers the given instant.
// A lapsed lockout timestamp counts as not locked out.
func (e *RateLimitEntry) IsLockedOut(now time.Time) bool {
	return e.LockedUntil != nil && now.Before(*e.LockedUntil)
}

// RemainingLockout returns the time left on an active lockout, or zero.
func (e *RateLimitEntry) RemainingLockout(now time.Time) time.Duration {
	if !e.IsLockedOut(now) {
		return 0
	}
	return e.LockedUntil.Sub(now)
}

// TrimBefore drops attempts older than the cutoff from the front.
func (e *RateLimitEntry) TrimBefore(cutoff time.Time) {
	i := 0
	for i < len(e.Attempts) && e.Attempts[i].Timestamp.Before(cutoff) {
		i++
	}
	if i > 0 {
		e.Attempts = e.Attempts[i:]
	}
}

// FailureCount counts the failed attempts currently retained.
func (e *RateLimitEntry) FailureCount() int {
	n := 0
	for _, a := range e.Attempts {
		if !a.Success {
			n++
		}
	}
	return n
}
