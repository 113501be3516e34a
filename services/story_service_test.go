package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pilab-dev/taiga-bridge/errors"
	"github.com/pilab-dev/taiga-bridge/internal/session"
	"github.com/pilab-dev/taiga-bridge/taiga"
)

// storyFixture wires a StoryService to a fake Taiga user-story API and one
// live session.
func storyFixture(t *testing.T, handler http.HandlerFunc) (*StoryService, string) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client, err := taiga.NewClient(srv.URL)
	require.NoError(t, err)
	client.SetToken("tok")

	store := session.NewStore()
	sess := store.Create("alice", client)
	return NewStoryService(store), sess.ID
}

func TestStoryService_RequiresValidSession(t *testing.T) {
	svc := NewStoryService(session.NewStore())

	_, err := svc.List(context.Background(), "no-such-session", 42, nil)
	var authErr *errors.AuthorizationError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, errors.InvalidSession, authErr.Code)
}

func TestStoryService_ValidatesBeforeCalling(t *testing.T) {
	var calls atomic.Int64
	svc, sid := storyFixture(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})
	ctx := context.Background()

	_, err := svc.List(ctx, sid, 0, nil)
	var valErr *errors.ValidationError
	require.ErrorAs(t, err, &valErr)

	_, err = svc.Create(ctx, sid, 42, "", nil)
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "subject", valErr.Field)

	_, err = svc.Create(ctx, sid, 42, "ok", map[string]any{"bogus": 1})
	require.ErrorAs(t, err, &valErr)

	_, err = svc.Assign(ctx, sid, 9, -1)
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "user_id", valErr.Field)

	assert.Zero(t, calls.Load(), "validation failures never reach Taiga")
}

func TestStoryService_EmptyUpdateReturnsCurrent(t *testing.T) {
	var patches atomic.Int64
	svc, sid := storyFixture(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPatch {
			patches.Add(1)
		}
		json.NewEncoder(w).Encode(map[string]any{"id": 9, "subject": "as-is", "version": 3})
	})

	story, err := svc.Update(context.Background(), sid, 9, nil)
	require.NoError(t, err)
	assert.Equal(t, "as-is", story.Subject)
	assert.Zero(t, patches.Load(), "an empty patch must not issue a PATCH")
}

func TestStoryService_UpdateFetchesVersionFirst(t *testing.T) {
	svc, sid := storyFixture(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(map[string]any{"id": 9, "subject": "old", "version": 7})
		case http.MethodPatch:
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, float64(7), body["version"])
			json.NewEncoder(w).Encode(map[string]any{"id": 9, "subject": "new", "version": 8})
		}
	})

	story, err := svc.Update(context.Background(), sid, 9, map[string]any{"subject": "new"})
	require.NoError(t, err)
	assert.Equal(t, 8, story.Version)
}

func TestStoryService_Delete(t *testing.T) {
	svc, sid := storyFixture(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/userstories/9", r.URL.Path)
		w.WriteHeader(http.StatusNoContent)
	})

	result, err := svc.Delete(context.Background(), sid, 9)
	require.NoError(t, err)
	assert.Equal(t, "deleted", result.Status)
	assert.Equal(t, 9, result.ID)
}

func TestStoryService_TaigaFailurePropagates(t *testing.T) {
	svc, sid := storyFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]any{"_error_message": "not a project member"})
	})

	_, err := svc.Get(context.Background(), sid, 9)
	var taigaErr *errors.TaigaError
	require.ErrorAs(t, err, &taigaErr)
	assert.Equal(t, http.StatusForbidden, taigaErr.StatusCode)
	assert.Contains(t, taigaErr.Detail, "not a project member")
}
