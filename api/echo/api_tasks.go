package echo

import (
	"github.com/labstack/echo/v4"
)

func (ta *ToolAPI) ListTasksHandler(c echo.Context) error {
	req, err := bind[resourceRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.tasks.List(c.Request().Context(), req.SessionID, req.ProjectID, req.Filters)
	return respond(c, result, err)
}

func (ta *ToolAPI) GetTaskHandler(c echo.Context) error {
	req, err := bind[resourceRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.tasks.Get(c.Request().Context(), req.SessionID, req.TaskID)
	return respond(c, result, err)
}

func (ta *ToolAPI) CreateTaskHandler(c echo.Context) error {
	req, err := bind[resourceRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.tasks.Create(c.Request().Context(), req.SessionID, req.ProjectID, req.Subject, req.Extra)
	return respond(c, result, err)
}

func (ta *ToolAPI) UpdateTaskHandler(c echo.Context) error {
	req, err := bind[resourceRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.tasks.Update(c.Request().Context(), req.SessionID, req.TaskID, req.Patch)
	return respond(c, result, err)
}

func (ta *ToolAPI) DeleteTaskHandler(c echo.Context) error {
	req, err := bind[resourceRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.tasks.Delete(c.Request().Context(), req.SessionID, req.TaskID)
	return respond(c, result, err)
}

func (ta *ToolAPI) AssignTaskHandler(c echo.Context) error {
	req, err := bind[resourceRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.tasks.Assign(c.Request().Context(), req.SessionID, req.TaskID, req.UserID)
	return respond(c, result, err)
}

func (ta *ToolAPI) UnassignTaskHandler(c echo.Context) error {
	req, err := bind[resourceRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.tasks.Unassign(c.Request().Context(), req.SessionID, req.TaskID)
	return respond(c, result, err)
}

func (ta *ToolAPI) TaskStatusesHandler(c echo.Context) error {
	req, err := bind[resourceRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.tasks.Statuses(c.Request().Context(), req.SessionID, req.ProjectID)
	return respond(c, result, err)
}
