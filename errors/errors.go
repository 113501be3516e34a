// Package errors defines the closed set of error variants surfaced by the
// bridge: authorization failures (invalid/expired sessions, rate-limit
// lockouts), input validation failures, Taiga collaborator failures, and a
// generic server error. Callers are expected to match with errors.As and map
// each variant to a transport-level response.
package errors

import "fmt"

// Authorization failure codes.
const (
	InvalidSession     = "invalid_session"
	SessionExpired     = "session_expired"
	AuthenticationLost = "authentication_lost"
	RateLimited        = "rate_limited"
)

// AuthorizationError indicates that the current call is not authorized:
// the session handle is unknown, expired or stale, or the username is under
// an active login lockout. It always fails the call and is never retried.
type AuthorizationError struct {
	Code        string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Description)
}

// NewInvalidSession reports an unknown session identifier. Only a truncated
// prefix of the identifier may be passed in; never the full value.
func NewInvalidSession(idPrefix string) *AuthorizationError {
	return &AuthorizationError{
		Code:        InvalidSession,
		Description: fmt.Sprintf("Invalid session ID: '%s'. Please login again.", idPrefix),
	}
}

// NewSessionExpired reports a session past its TTL.
func NewSessionExpired(idPrefix string) *AuthorizationError {
	return &AuthorizationError{
		Code:        SessionExpired,
		Description: fmt.Sprintf("Session expired. Please login again. (Session ID: %s)", idPrefix),
	}
}

// NewAuthenticationLost reports a session whose underlying Taiga client is no
// longer authenticated.
func NewAuthenticationLost(idPrefix string) *AuthorizationError {
	return &AuthorizationError{
		Code:        AuthenticationLost,
		Description: fmt.Sprintf("Session authentication lost: '%s'. Please login again.", idPrefix),
	}
}

// NewLockedOut reports an active lockout with the remaining duration.
func NewLockedOut(remainingSeconds int) *AuthorizationError {
	return &AuthorizationError{
		Code: RateLimited,
		Description: fmt.Sprintf(
			"Too many failed login attempts. Account locked. Try again in %d seconds.",
			remainingSeconds),
	}
}

// NewLockoutApplied reports that this attempt crossed the failure threshold
// and a fresh lockout has been applied.
func NewLockoutApplied(maxAttempts, windowSeconds, lockoutSeconds int) *AuthorizationError {
	return &AuthorizationError{
		Code: RateLimited,
		Description: fmt.Sprintf(
			"Too many failed login attempts (%d in %ds). Account locked for %d seconds.",
			maxAttempts, windowSeconds, lockoutSeconds),
	}
}

// ValidationError indicates malformed input. It is raised before any state
// mutation or outbound call.
type ValidationError struct {
	Field       string `json:"field,omitempty"`
	Description string `json:"error_description"`
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Description
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Description)
}

// NewValidation builds a ValidationError for a named field.
func NewValidation(field, format string, args ...any) *ValidationError {
	return &ValidationError{
		Field:       field,
		Description: fmt.Sprintf(format, args...),
	}
}

// TaigaError is a collaborator failure: the Taiga API answered with a non-2xx
// status or could not be reached. It is propagated to the caller largely
// unchanged and never retried by the bridge.
type TaigaError struct {
	StatusCode int    `json:"status_code,omitempty"`
	Detail     string `json:"error_description"`
}

func (e *TaigaError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("taiga: %s", e.Detail)
	}
	return fmt.Sprintf("taiga: %s (status %d)", e.Detail, e.StatusCode)
}

// NewTaiga builds a TaigaError from an upstream status code and detail.
func NewTaiga(statusCode int, format string, args ...any) *TaigaError {
	return &TaigaError{
		StatusCode: statusCode,
		Detail:     fmt.Sprintf(format, args...),
	}
}
