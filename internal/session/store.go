// Package session holds the in-memory session store and guard. The store
// owns two structures kept consistent as one unit under a single lock: the
// identifier map and the per-user identifier lists (oldest first). All state
// is memory-resident by design and lost on restart.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/pilab-dev/taiga-bridge/config"
	"github.com/pilab-dev/taiga-bridge/domain"
	"github.com/pilab-dev/taiga-bridge/errors"
	"github.com/pilab-dev/taiga-bridge/internal/logsafe"
	"github.com/pilab-dev/taiga-bridge/taiga"
)

// Store maps session identifiers to session records and tracks identifiers
// per user. Construct one per process with NewStore; tests build isolated
// instances.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	byUser   map[string][]string
}

// NewStore builds an empty session store.
func NewStore() *Store {
	return &Store{
		sessions: make(map[string]*domain.Session),
		byUser:   make(map[string][]string),
	}
}

// Create registers a new session for username owning the given client and
// returns it. If the per-user concurrency limit is met or exceeded, the
// single oldest session for that user is evicted first, inside the same
// critical section, so concurrent logins for one user cannot overshoot the
// limit.
func (s *Store) Create(username string, client *taiga.Client) *domain.Session {
	now := time.Now()
	sess := &domain.Session{
		ID:             uuid.NewString(),
		Username:       username,
		Client:         client,
		CreatedAt:      now,
		LastAccessedAt: now,
		ExpiresAt:      now.Add(config.SessionTTL()),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	maxSessions := config.MaxConcurrentSessions()
	if list := s.byUser[username]; maxSessions > 0 && len(list) >= maxSessions {
		oldest := list[0]
		log.Warn().
			Str("username", username).
			Int("max_sessions", maxSessions).
			Str("session_id", logsafe.SessionID(oldest)).
			Msg("Max concurrent sessions exceeded, removing oldest")
		s.removeLocked(oldest)
	}

	s.sessions[sess.ID] = sess
	s.byUser[username] = append(s.byUser[username], sess.ID)
	return sess
}

// Validate checks a session identifier on behalf of an authenticated
// operation: the session must exist, must not be expired, and its client
// must still hold a valid token. Expired and stale sessions are purged
// before the failure is returned. On success the last-accessed timestamp is
// refreshed and the owned client is returned.
func (s *Store) Validate(sessionID string) (*taiga.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[sessionID]
	if !ok {
		log.Warn().Str("session_id", logsafe.SessionID(sessionID)).Msg("Session not found")
		return nil, errors.NewInvalidSession(logsafe.SessionID(sessionID))
	}

	now := time.Now()
	if sess.IsExpired(now) {
		log.Warn().
			Str("session_id", logsafe.SessionID(sessionID)).
			Str("username", sess.Username).
			Msg("Session expired")
		s.removeLocked(sessionID)
		return nil, errors.NewSessionExpired(logsafe.SessionID(sessionID))
	}

	if !sess.Client.IsAuthenticated() {
		log.Warn().Str("session_id", logsafe.SessionID(sessionID)).Msg("Client authentication lost")
		s.removeLocked(sessionID)
		return nil, errors.NewAuthenticationLost(logsafe.SessionID(sessionID))
	}

	sess.Touch(now)
	log.Debug().
		Str("session_id", logsafe.SessionID(sessionID)).
		Str("username", sess.Username).
		Dur("expires_in", sess.TimeUntilExpiry(now)).
		Msg("Valid session")
	return sess.Client, nil
}

// Destroy removes a session from both maps. It is idempotent and reports
// whether a session was actually present.
func (s *Store) Destroy(sessionID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removeLocked(sessionID)
}

// removeLocked deletes a session from the identifier map and its user list,
// pruning the user entry when the list empties. Callers must hold mu.
func (s *Store) removeLocked(sessionID string) bool {
	sess, ok := s.sessions[sessionID]
	if !ok {
		return false
	}
	delete(s.sessions, sessionID)

	list := s.byUser[sess.Username]
	for i, id := range list {
		if id == sessionID {
			list = append(list[:i], list[i+1:]...)
			break
		}
	}
	if len(list) == 0 {
		delete(s.byUser, sess.Username)
	} else {
		s.byUser[sess.Username] = list
	}

	log.Debug().
		Str("username", sess.Username).
		Str("session_id", logsafe.SessionID(sessionID)).
		Msg("Cleaned up session")
	return true
}

// Peek returns a session without validating or touching it.
func (s *Store) Peek(sessionID string) (*domain.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sessionID]
	return sess, ok
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// CountForUser returns the number of live sessions held by a user.
func (s *Store) CountForUser(username string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byUser[username])
}

// Snapshot returns the current session identifiers. Used by the reaper to
// iterate without holding the lock for the whole sweep.
func (s *Store) Snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	return ids
}

// SweepExpired removes every expired session, re-acquiring the lock per
// candidate so a long sweep never blocks unrelated session operations.
// Returns the number of sessions removed.
func (s *Store) SweepExpired() int {
	ids := s.Snapshot()
	removed := 0
	for _, id := range ids {
		s.mu.Lock()
		if sess, ok := s.sessions[id]; ok && sess.IsExpired(time.Now()) {
			s.removeLocked(id)
			removed++
		}
		s.mu.Unlock()
	}
	if removed > 0 {
		log.Info().Int("count", removed).Msg("Background cleanup removed expired sessions")
	}
	return removed
}

// Status values reported by the store.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusError    = "error"
)

// Inactive reasons.
const (
	ReasonNotFound     = "not_found"
	ReasonExpired      = "expired"
	ReasonTokenInvalid = "token_invalid"
)

// Status is the introspection result for one session identifier.
type Status struct {
	State                  string `json:"status"`
	SessionID              string `json:"session_id"`
	Reason                 string `json:"reason,omitempty"`
	Username               string `json:"username,omitempty"`
	CreatedAt              string `json:"created_at,omitempty"`
	LastAccessed           string `json:"last_accessed,omitempty"`
	ExpiresAt              string `json:"expires_at,omitempty"`
	TimeUntilExpirySeconds int    `json:"time_until_expiry_seconds,omitempty"`
}

// Status inspects a session without treating problems as errors: unknown
// identifiers are safe to probe. Expired or unauthenticated sessions are
// purged and reported inactive. For live sessions one round-trip against
// Taiga confirms the token; that call is made without holding the store
// lock, and its failure purges the session (fail closed).
func (s *Store) Status(ctx context.Context, sessionID string) Status {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		s.mu.Unlock()
		return Status{State: StatusInactive, SessionID: sessionID, Reason: ReasonNotFound}
	}

	now := time.Now()
	if sess.IsExpired(now) {
		s.removeLocked(sessionID)
		s.mu.Unlock()
		return Status{
			State:     StatusInactive,
			SessionID: sessionID,
			Reason:    ReasonExpired,
			Username:  sess.Username,
		}
	}
	if !sess.Client.IsAuthenticated() {
		s.removeLocked(sessionID)
		s.mu.Unlock()
		return Status{
			State:     StatusInactive,
			SessionID: sessionID,
			Reason:    ReasonTokenInvalid,
			Username:  sess.Username,
		}
	}

	// Copy what the response needs before releasing the lock; the liveness
	// round-trip must not block other session operations.
	client := sess.Client
	username := sess.Username
	createdAt := sess.CreatedAt
	lastAccessed := sess.LastAccessedAt
	expiresAt := sess.ExpiresAt
	s.mu.Unlock()

	me, err := client.Me(ctx)
	if err != nil {
		log.Error().Err(err).
			Str("session_id", logsafe.SessionID(sessionID)).
			Msg("Error checking session status")
		s.Destroy(sessionID)
		return Status{
			State:     StatusError,
			SessionID: sessionID,
			Reason:    "api_error: " + err.Error(),
		}
	}
	if me.Username != "" {
		username = me.Username
	}

	return Status{
		State:                  StatusActive,
		SessionID:              sessionID,
		Username:               username,
		CreatedAt:              createdAt.Format(time.RFC3339),
		LastAccessed:           lastAccessed.Format(time.RFC3339),
		ExpiresAt:              expiresAt.Format(time.RFC3339),
		TimeUntilExpirySeconds: int(expiresAt.Sub(time.Now()).Seconds()),
	}
}
