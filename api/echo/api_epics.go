package echo

import (
	"github.com/labstack/echo/v4"
)

func (ta *ToolAPI) ListEpicsHandler(c echo.Context) error {
	req, err := bind[resourceRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.epics.List(c.Request().Context(), req.SessionID, req.ProjectID, req.Filters)
	return respond(c, result, err)
}

func (ta *ToolAPI) GetEpicHandler(c echo.Context) error {
	req, err := bind[resourceRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.epics.Get(c.Request().Context(), req.SessionID, req.EpicID)
	return respond(c, result, err)
}

func (ta *ToolAPI) CreateEpicHandler(c echo.Context) error {
	req, err := bind[resourceRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.epics.Create(c.Request().Context(), req.SessionID, req.ProjectID, req.Subject, req.Extra)
	return respond(c, result, err)
}

func (ta *ToolAPI) UpdateEpicHandler(c echo.Context) error {
	req, err := bind[resourceRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.epics.Update(c.Request().Context(), req.SessionID, req.EpicID, req.Patch)
	return respond(c, result, err)
}

func (ta *ToolAPI) DeleteEpicHandler(c echo.Context) error {
	req, err := bind[resourceRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.epics.Delete(c.Request().Context(), req.SessionID, req.EpicID)
	return respond(c, result, err)
}

func (ta *ToolAPI) AssignEpicHandler(c echo.Context) error {
	req, err := bind[resourceRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.epics.Assign(c.Request().Context(), req.SessionID, req.EpicID, req.UserID)
	return respond(c, result, err)
}

func (ta *ToolAPI) UnassignEpicHandler(c echo.Context) error {
	req, err := bind[resourceRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.epics.Unassign(c.Request().Context(), req.SessionID, req.EpicID)
	return respond(c, result, err)
}
