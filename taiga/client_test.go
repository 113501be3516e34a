package taiga

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
)

func TestNewClient(t *testing.T) {
	c, err := NewClient("https://taiga.example.com/")
	require.NoError(t, err)
	assert.Equal(t, "https://taiga.example.com", c.host, "trailing slash is stripped")
	assert.False(t, c.IsAuthenticated())

	_, err = NewClient("   ")
	var valErr *errors.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "host", valErr.Field)
}

func TestClient_LoginRejectsPlainHTTP(t *testing.T) {
	c, err := NewClient("http://taiga.internal")
	require.NoError(t, err)

	err = c.Login(context.Background(), "alice", "secret")
	var valErr *errors.ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Contains(t, valErr.Description, "HTTPS")
	assert.False(t, c.IsAuthenticated())
}

func TestClient_LoginSuccess(t *testing.T) {
	t.Setenv("ALLOW_HTTP_TAIGA", "true")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/auth", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "normal", body["type"])
		assert.Equal(t, "alice", body["username"])
		assert.Equal(t, "secret", body["password"])

		json.NewEncoder(w).Encode(map[string]any{
			"id":         7,
			"username":   "alice",
			"auth_token": "tok-123",
		})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)
	require.NoError(t, c.Login(context.Background(), "alice", "secret"))

	assert.True(t, c.IsAuthenticated())
	require.NotNil(t, c.CurrentUser())
	assert.Equal(t, 7, c.CurrentUser().ID)
}

func TestClient_LoginFailure(t *testing.T) {
	t.Setenv("ALLOW_HTTP_TAIGA", "true")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{
			"_error_message": "Invalid username or password",
		})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	err = c.Login(context.Background(), "alice", "wrong")
	var taigaErr *errors.TaigaError
	require.ErrorAs(t, err, &taigaErr)
	assert.Equal(t, http.StatusUnauthorized, taigaErr.StatusCode)
	assert.Equal(t, "Invalid username or password", taigaErr.Detail)
	assert.False(t, c.IsAuthenticated())
}

func TestClient_LoginWithoutTokenInResponse(t *testing.T) {
	t.Setenv("ALLOW_HTTP_TAIGA", "true")

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"id": 7, "username": "alice"})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)

	err = c.Login(context.Background(), "alice", "secret")
	require.Error(t, err)
	assert.False(t, c.IsAuthenticated())
}

func TestClient_BearerTokenOnRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		json.NewEncoder(w).Encode(map[string]any{"id": 7, "username": "alice"})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)
	c.SetToken("tok-123")

	me, err := c.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)
}

func TestClient_APIErrorDetailFallbacks(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		detail string
	}{
		{"error message field", http.StatusBadRequest, `{"_error_message":"bad input"}`, "bad input"},
		{"detail field", http.StatusNotFound, `{"detail":"Not found."}`, "Not found."},
		{"plain text body", http.StatusBadGateway, `upstream exploded`, "upstream exploded"},
		{"empty body", http.StatusForbidden, ``, "Forbidden"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c, err := NewClient(srv.URL)
			require.NoError(t, err)
			c.SetToken("tok")

			_, err = c.Me(context.Background())
			var taigaErr *errors.TaigaError
			require.ErrorAs(t, err, &taigaErr)
			assert.Equal(t, tt.status, taigaErr.StatusCode)
			assert.Equal(t, tt.detail, taigaErr.Detail)
		})
	}
}

func TestClient_ListUserStoriesQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/userstories", r.URL.Path)
		assert.Equal(t, "42", r.URL.Query().Get("project"))
		assert.Equal(t, "3", r.URL.Query().Get("milestone"))
		json.NewEncoder(w).Encode([]map[string]any{{"id": 1, "subject": "story"}})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)
	c.SetToken("tok")

	stories, err := c.ListUserStories(context.Background(), 42, map[string]string{"milestone": "3"})
	require.NoError(t, err)
	require.Len(t, stories, 1)
	assert.Equal(t, "story", stories[0].Subject)
}

func TestClient_UpdatePatchCarriesVersion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/api/v1/userstories/9", r.URL.Path)

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, float64(4), body["version"])
		assert.Equal(t, "renamed", body["subject"])

		json.NewEncoder(w).Encode(map[string]any{"id": 9, "subject": "renamed", "version": 5})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)
	c.SetToken("tok")

	story, err := c.UpdateUserStory(context.Background(), 9, 4, map[string]any{"subject": "renamed"})
	require.NoError(t, err)
	assert.Equal(t, 5, story.Version)
}

func TestClient_UnassignSendsExplicitNull(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		raw, ok := body["assigned_to"]
		require.True(t, ok, "assigned_to must be present")
		assert.Equal(t, "null", string(raw))
		json.NewEncoder(w).Encode(map[string]any{"id": 9})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)
	c.SetToken("tok")

	_, err = c.UpdateTask(context.Background(), 9, 1, map[string]any{"assigned_to": nil})
	require.NoError(t, err)
}

func TestClient_ReferenceDataCaching(t *testing.T) {
	var hits atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "/api/v1/issue-statuses", r.URL.Path)
		assert.Equal(t, "42", r.URL.Query().Get("project"))
		json.NewEncoder(w).Encode([]map[string]any{{"id": 1, "name": "New"}})
	}))
	defer srv.Close()

	c, err := NewClient(srv.URL)
	require.NoError(t, err)
	c.SetToken("tok")

	ctx := context.Background()
	first, err := c.ReferenceData(ctx, RefIssueStatuses, 42)
	require.NoError(t, err)
	second, err := c.ReferenceData(ctx, RefIssueStatuses, 42)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), hits.Load(), "second read must come from the cache")

	// A different project misses the cache.
	_, err = c.ReferenceData(ctx, RefIssueStatuses, 43)
	require.NoError(t, err)
	assert.Equal(t, int64(2), hits.Load())

	_, err = c.ReferenceData(ctx, "bogus-kind", 42)
	assert.Error(t, err)
}
