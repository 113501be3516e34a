package echo

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	bridgeerrors "github.com/pilab-dev/taiga-bridge/errors"
	"github.com/pilab-dev/taiga-bridge/internal/ratelimit"
	"github.com/pilab-dev/taiga-bridge/internal/session"
	"github.com/pilab-dev/taiga-bridge/services"
)

func newTestServer() *echo.Echo {
	store := session.NewStore()
	limiter := ratelimit.NewLimiter()

	api := NewToolAPI(
		services.NewAuthService(store, limiter),
		services.NewProjectService(store),
		services.NewStoryService(store),
		services.NewTaskService(store),
		services.NewIssueService(store),
		services.NewEpicService(store),
		services.NewMilestoneService(store),
		services.NewWikiService(store),
	)
	e := echo.New()
	api.RegisterRoutes(e)
	return e
}

func doJSON(e *echo.Echo, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"invalid session", bridgeerrors.NewInvalidSession("abc..."), http.StatusUnauthorized},
		{"session expired", bridgeerrors.NewSessionExpired("abc..."), http.StatusUnauthorized},
		{"locked out", bridgeerrors.NewLockedOut(120), http.StatusTooManyRequests},
		{"validation", bridgeerrors.NewValidation("subject", "cannot be empty"), http.StatusBadRequest},
		{"taiga failure", bridgeerrors.NewTaiga(503, "unavailable"), http.StatusBadGateway},
		{"unknown", assert.AnError, http.StatusInternalServerError},
	}

	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			require.NoError(t, writeError(c, tt.err))
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestWriteError_UnknownErrorLeaksNothing(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()

	require.NoError(t, writeError(e.NewContext(req, rec), assert.AnError))
	assert.NotContains(t, rec.Body.String(), assert.AnError.Error())
	assert.Contains(t, rec.Body.String(), "server_error")
}

func TestLoginHandler_ValidationFailure(t *testing.T) {
	e := newTestServer()

	rec := doJSON(e, "/tools/login", `{"host":"","username":"alice","password":"pw"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "validation_error")
}

func TestLoginHandler_MalformedBody(t *testing.T) {
	e := newTestServer()

	rec := doJSON(e, "/tools/login", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSessionStatusHandler_UnknownSession(t *testing.T) {
	e := newTestServer()

	rec := doJSON(e, "/tools/session_status", `{"session_id":"nope"}`)
	assert.Equal(t, http.StatusOK, rec.Code, "probing an unknown session is not an error")
	assert.Contains(t, rec.Body.String(), `"status":"inactive"`)
	assert.Contains(t, rec.Body.String(), `"reason":"not_found"`)
}

func TestLogoutHandler_UnknownSession(t *testing.T) {
	e := newTestServer()

	rec := doJSON(e, "/tools/logout", `{"session_id":"nope"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), services.StatusSessionNotFound)
}

func TestResourceHandler_InvalidSessionMapsTo401(t *testing.T) {
	e := newTestServer()

	for _, path := range []string{
		"/tools/list_projects",
		"/tools/get_user_story",
		"/tools/delete_task",
		"/tools/get_issue_severities",
	} {
		rec := doJSON(e, path, `{"session_id":"nope","project_id":1,"user_story_id":1,"task_id":1}`)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
		assert.Contains(t, rec.Body.String(), "invalid_session", path)
	}
}

func TestResourceHandler_ValidationBeforeSession(t *testing.T) {
	// Input validation fires before the session guard for resource ids.
	e := newTestServer()

	rec := doJSON(e, "/tools/get_user_story", `{"session_id":"nope","user_story_id":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
