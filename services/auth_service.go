// Package services holds the tool-facing logic of the bridge: the
// authentication gateway and one thin service per Taiga resource. Every
// session-bearing operation runs the session guard before any business
// logic.
package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/pilab-dev/taiga-bridge/internal/logsafe"
	"github.com/pilab-dev/taiga-bridge/internal/metrics"
	"github.com/pilab-dev/taiga-bridge/internal/ratelimit"
	"github.com/pilab-dev/taiga-bridge/internal/session"
	"github.com/pilab-dev/taiga-bridge/taiga"
)

// Logout status values.
const (
	StatusLoggedOut       = "logged_out"
	StatusSessionNotFound = "session_not_found"
)

// LoginResult is returned by a successful login.
type LoginResult struct {
	SessionID string `json:"session_id"`
}

// LogoutResult reports whether a session was found and removed.
type LogoutResult struct {
	Status    string `json:"status"`
	SessionID string `json:"session_id"`
}

// AuthService orchestrates login, logout and session introspection. The
// order on login is fixed: rate-limit check, credential check against Taiga,
// then session creation (which evicts the oldest session past the per-user
// cap) and attempt tracking.
type AuthService struct {
	store   *session.Store
	limiter *ratelimit.Limiter
}

// NewAuthService builds the gateway over the given store and limiter.
func NewAuthService(store *session.Store, limiter *ratelimit.Limiter) *AuthService {
	return &AuthService{store: store, limiter: limiter}
}

// Login authenticates against the Taiga instance at host and returns a fresh
// opaque session identifier. Rate limiting is consulted before the
// credential check; every attempt, including host validation failures, is
// tracked afterwards.
func (s *AuthService) Login(ctx context.Context, host, username, password string) (*LoginResult, error) {
	log.Info().
		Str("username", username).
		Str("host", logsafe.URL(host)).
		Str("password", logsafe.Password(password)).
		Msg("Executing login")

	if err := s.limiter.Check(username); err != nil {
		log.Warn().Str("username", username).Err(err).Msg("Login rate limit exceeded")
		metrics.LoginFailureTotal.Inc()
		return nil, err
	}

	client, err := taiga.NewClient(host)
	if err != nil {
		s.limiter.Track(username, false)
		metrics.LoginFailureTotal.Inc()
		return nil, err
	}
	if err := client.Login(ctx, username, password); err != nil {
		log.Error().Str("username", username).Err(err).Msg("Login failed")
		s.limiter.Track(username, false)
		metrics.LoginFailureTotal.Inc()
		return nil, err
	}

	sess := s.store.Create(username, client)
	s.limiter.Track(username, true)
	metrics.LoginSuccessTotal.Inc()
	metrics.ActiveSessionsGauge.Set(float64(s.store.Len()))

	log.Info().
		Str("username", username).
		Str("session_id", logsafe.SessionID(sess.ID)).
		Time("expires_at", sess.ExpiresAt).
		Msg("Login successful")
	return &LoginResult{SessionID: sess.ID}, nil
}

// Logout invalidates a session. Logging out an unknown session is reported,
// not treated as an error.
func (s *AuthService) Logout(sessionID string) *LogoutResult {
	log.Info().Str("session_id", logsafe.SessionID(sessionID)).Msg("Executing logout")

	if s.store.Destroy(sessionID) {
		metrics.ActiveSessionsGauge.Set(float64(s.store.Len()))
		log.Info().Str("session_id", logsafe.SessionID(sessionID)).Msg("Logout successful")
		return &LogoutResult{Status: StatusLoggedOut, SessionID: sessionID}
	}
	log.Warn().
		Str("session_id", logsafe.SessionID(sessionID)).
		Msg("Logout attempted for non-existent session")
	return &LogoutResult{Status: StatusSessionNotFound, SessionID: sessionID}
}

// SessionStatus inspects a session identifier. Safe to call on expired or
// unknown identifiers.
func (s *AuthService) SessionStatus(ctx context.Context, sessionID string) session.Status {
	log.Debug().Str("session_id", logsafe.SessionID(sessionID)).Msg("Checking session status")
	st := s.store.Status(ctx, sessionID)
	metrics.ActiveSessionsGauge.Set(float64(s.store.Len()))
	return st
}
