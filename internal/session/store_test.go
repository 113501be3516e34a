package session

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilab-dev/taiga-bridge/errors"
	"github.com/pilab-dev/taiga-bridge/taiga"
)

func newAuthedClient(t *testing.T) *taiga.Client {
	t.Helper()
	client, err := taiga.NewClient("https://taiga.example.com")
	require.NoError(t, err)
	client.SetToken("test-token")
	return client
}

func TestStore_CreateAndValidate(t *testing.T) {
	store := NewStore()
	client := newAuthedClient(t)

	sess := store.Create("alice", client)
	require.NotEmpty(t, sess.ID)
	assert.Equal(t, "alice", sess.Username)
	assert.True(t, sess.ExpiresAt.After(time.Now()))

	got, err := store.Validate(sess.ID)
	require.NoError(t, err)
	assert.Same(t, client, got)
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, 1, store.CountForUser("alice"))

	peeked, ok := store.Peek(sess.ID)
	require.True(t, ok)
	assert.Same(t, sess, peeked)
	assert.False(t, peeked.LastAccessedAt.Before(peeked.CreatedAt))
}

func TestStore_ValidateUnknownSession(t *testing.T) {
	store := NewStore()

	_, err := store.Validate("does-not-exist")
	require.Error(t, err)

	var authErr *errors.AuthorizationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, errors.InvalidSession, authErr.Code)
	// Only a truncated prefix of the identifier may appear in the message.
	assert.NotContains(t, authErr.Description, "does-not-exist")
}

func TestStore_ValidateExpiredSessionPurges(t *testing.T) {
	store := NewStore()
	sess := store.Create("alice", newAuthedClient(t))
	sess.ExpiresAt = time.Now().Add(-time.Minute)

	_, err := store.Validate(sess.ID)
	var authErr *errors.AuthorizationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, errors.SessionExpired, authErr.Code)

	// Purged from both maps.
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 0, store.CountForUser("alice"))
}

func TestStore_ValidateAuthenticationLostPurges(t *testing.T) {
	store := NewStore()
	client, err := taiga.NewClient("https://taiga.example.com")
	require.NoError(t, err)
	// No token: the client is unauthenticated.
	sess := store.Create("alice", client)

	_, err = store.Validate(sess.ID)
	var authErr *errors.AuthorizationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, errors.AuthenticationLost, authErr.Code)
	assert.Equal(t, 0, store.Len())
}

func TestStore_ValidateRefreshesLastAccessed(t *testing.T) {
	store := NewStore()
	sess := store.Create("alice", newAuthedClient(t))
	before := sess.LastAccessedAt

	time.Sleep(5 * time.Millisecond)
	_, err := store.Validate(sess.ID)
	require.NoError(t, err)
	assert.True(t, sess.LastAccessedAt.After(before))
}

func TestStore_EvictsOldestAtConcurrencyLimit(t *testing.T) {
	t.Setenv("MAX_CONCURRENT_SESSIONS", "2")
	store := NewStore()

	first := store.Create("alice", newAuthedClient(t))
	second := store.Create("alice", newAuthedClient(t))
	third := store.Create("alice", newAuthedClient(t))

	assert.Equal(t, 2, store.CountForUser("alice"))

	_, err := store.Validate(first.ID)
	require.Error(t, err, "oldest session should have been evicted")
	_, err = store.Validate(second.ID)
	assert.NoError(t, err)
	_, err = store.Validate(third.ID)
	assert.NoError(t, err)
}

func TestStore_ConcurrencyLimitIsPerUser(t *testing.T) {
	t.Setenv("MAX_CONCURRENT_SESSIONS", "1")
	store := NewStore()

	alice := store.Create("alice", newAuthedClient(t))
	bob := store.Create("bob", newAuthedClient(t))

	_, err := store.Validate(alice.ID)
	assert.NoError(t, err)
	_, err = store.Validate(bob.ID)
	assert.NoError(t, err)
}

func TestStore_UnlimitedSessionsWhenZero(t *testing.T) {
	t.Setenv("MAX_CONCURRENT_SESSIONS", "0")
	store := NewStore()

	for i := 0; i < 20; i++ {
		store.Create("alice", newAuthedClient(t))
	}
	assert.Equal(t, 20, store.CountForUser("alice"))
}

func TestStore_DestroyIsIdempotent(t *testing.T) {
	store := NewStore()
	sess := store.Create("alice", newAuthedClient(t))

	assert.True(t, store.Destroy(sess.ID))
	assert.False(t, store.Destroy(sess.ID))
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, 0, store.CountForUser("alice"))
}

func TestStore_SweepExpired(t *testing.T) {
	store := NewStore()
	live := store.Create("alice", newAuthedClient(t))
	expired1 := store.Create("alice", newAuthedClient(t))
	expired2 := store.Create("bob", newAuthedClient(t))
	expired1.ExpiresAt = time.Now().Add(-time.Minute)
	expired2.ExpiresAt = time.Now().Add(-time.Minute)

	assert.Equal(t, 2, store.SweepExpired())
	assert.Equal(t, 1, store.Len())
	assert.Equal(t, 1, store.CountForUser("alice"), "user index stays consistent")
	assert.Equal(t, 0, store.CountForUser("bob"))
	_, err := store.Validate(live.ID)
	assert.NoError(t, err)

	// A second sweep finds nothing.
	assert.Equal(t, 0, store.SweepExpired())
}

func TestStore_StatusNotFound(t *testing.T) {
	store := NewStore()

	st := store.Status(context.Background(), "missing")
	assert.Equal(t, StatusInactive, st.State)
	assert.Equal(t, ReasonNotFound, st.Reason)
	assert.Equal(t, "missing", st.SessionID)
}

func TestStore_StatusExpiredPurges(t *testing.T) {
	store := NewStore()
	sess := store.Create("alice", newAuthedClient(t))
	sess.ExpiresAt = time.Now().Add(-time.Minute)

	st := store.Status(context.Background(), sess.ID)
	assert.Equal(t, StatusInactive, st.State)
	assert.Equal(t, ReasonExpired, st.Reason)
	assert.Equal(t, "alice", st.Username)
	assert.Equal(t, 0, store.Len())
}

func TestStore_StatusActive(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/users/me", r.URL.Path)
		require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{"id": 7, "username": "alice-upstream"})
	}))
	defer srv.Close()

	store := NewStore()
	client, err := taiga.NewClient(srv.URL)
	require.NoError(t, err)
	client.SetToken("test-token")
	sess := store.Create("alice", client)

	st := store.Status(context.Background(), sess.ID)
	assert.Equal(t, StatusActive, st.State)
	assert.Equal(t, "alice-upstream", st.Username)
	assert.NotEmpty(t, st.CreatedAt)
	assert.NotEmpty(t, st.ExpiresAt)
	assert.Positive(t, st.TimeUntilExpirySeconds)
	assert.Equal(t, 1, store.Len(), "a live session stays in the store")
}

func TestStore_StatusAPIErrorFailsClosed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"_error_message": "token revoked"})
	}))
	defer srv.Close()

	store := NewStore()
	client, err := taiga.NewClient(srv.URL)
	require.NoError(t, err)
	client.SetToken("stale-token")
	sess := store.Create("alice", client)

	st := store.Status(context.Background(), sess.ID)
	assert.Equal(t, StatusError, st.State)
	assert.Contains(t, st.Reason, "api_error")
	assert.Equal(t, 0, store.Len(), "a failing session is purged")
}
