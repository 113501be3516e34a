package echo

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type loginRequest struct {
	Host     string `json:"host"`
	Username string `json:"username"`
	Password string `json:"password"`
}

type sessionRequest struct {
	SessionID string `json:"session_id"`
}

// LoginHandler authenticates against a Taiga instance and returns a fresh
// session identifier. The password never appears in logs or responses.
func (ta *ToolAPI) LoginHandler(c echo.Context) error {
	req, err := bind[loginRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.auth.Login(c.Request().Context(), req.Host, req.Username, req.Password)
	return respond(c, result, err)
}

// LogoutHandler invalidates a session. Unknown sessions yield a
// session_not_found status, not an error.
func (ta *ToolAPI) LogoutHandler(c echo.Context) error {
	req, err := bind[sessionRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ta.auth.Logout(req.SessionID))
}

// SessionStatusHandler reports session liveness, including a round-trip to
// Taiga to confirm the stored token is still honored.
func (ta *ToolAPI) SessionStatusHandler(c echo.Context) error {
	req, err := bind[sessionRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, ta.auth.SessionStatus(c.Request().Context(), req.SessionID))
}
