package echo

import (
	"github.com/labstack/echo/v4"
)

type projectRequest struct {
	SessionID string         `json:"session_id"`
	ProjectID int            `json:"project_id"`
	Slug      string         `json:"slug"`
	Name      string         `json:"name"`
	Desc      string         `json:"description"`
	Email     string         `json:"email"`
	RoleID    int            `json:"role_id"`
	Extra     map[string]any `json:"extra"`
	Patch     map[string]any `json:"patch"`
}

func (ta *ToolAPI) ListProjectsHandler(c echo.Context) error {
	req, err := bind[projectRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.projects.List(c.Request().Context(), req.SessionID)
	return respond(c, result, err)
}

func (ta *ToolAPI) ListAllProjectsHandler(c echo.Context) error {
	req, err := bind[projectRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.projects.ListAll(c.Request().Context(), req.SessionID)
	return respond(c, result, err)
}

func (ta *ToolAPI) GetProjectHandler(c echo.Context) error {
	req, err := bind[projectRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.projects.Get(c.Request().Context(), req.SessionID, req.ProjectID)
	return respond(c, result, err)
}

func (ta *ToolAPI) GetProjectBySlugHandler(c echo.Context) error {
	req, err := bind[projectRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.projects.GetBySlug(c.Request().Context(), req.SessionID, req.Slug)
	return respond(c, result, err)
}

func (ta *ToolAPI) CreateProjectHandler(c echo.Context) error {
	req, err := bind[projectRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.projects.Create(c.Request().Context(), req.SessionID, req.Name, req.Desc, req.Extra)
	return respond(c, result, err)
}

func (ta *ToolAPI) UpdateProjectHandler(c echo.Context) error {
	req, err := bind[projectRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.projects.Update(c.Request().Context(), req.SessionID, req.ProjectID, req.Patch)
	return respond(c, result, err)
}

func (ta *ToolAPI) DeleteProjectHandler(c echo.Context) error {
	req, err := bind[projectRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.projects.Delete(c.Request().Context(), req.SessionID, req.ProjectID)
	return respond(c, result, err)
}

func (ta *ToolAPI) GetProjectMembersHandler(c echo.Context) error {
	req, err := bind[projectRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.projects.Members(c.Request().Context(), req.SessionID, req.ProjectID)
	return respond(c, result, err)
}

func (ta *ToolAPI) InviteProjectUserHandler(c echo.Context) error {
	req, err := bind[projectRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.projects.Invite(c.Request().Context(), req.SessionID, req.ProjectID, req.Email, req.RoleID)
	return respond(c, result, err)
}
