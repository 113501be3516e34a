package echo

import (
	"github.com/labstack/echo/v4"
)

func (ta *ToolAPI) ListMilestonesHandler(c echo.Context) error {
	req, err := bind[resourceRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.milestones.List(c.Request().Context(), req.SessionID, req.ProjectID)
	return respond(c, result, err)
}

func (ta *ToolAPI) GetMilestoneHandler(c echo.Context) error {
	req, err := bind[resourceRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.milestones.Get(c.Request().Context(), req.SessionID, req.MilestoneID)
	return respond(c, result, err)
}

func (ta *ToolAPI) CreateMilestoneHandler(c echo.Context) error {
	req, err := bind[resourceRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.milestones.Create(
		c.Request().Context(), req.SessionID, req.ProjectID,
		req.Name, req.EstimatedStart, req.EstimatedFinish)
	return respond(c, result, err)
}

func (ta *ToolAPI) UpdateMilestoneHandler(c echo.Context) error {
	req, err := bind[resourceRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.milestones.Update(c.Request().Context(), req.SessionID, req.MilestoneID, req.Patch)
	return respond(c, result, err)
}

func (ta *ToolAPI) DeleteMilestoneHandler(c echo.Context) error {
	req, err := bind[resourceRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.milestones.Delete(c.Request().Context(), req.SessionID, req.MilestoneID)
	return respond(c, result, err)
}

func (ta *ToolAPI) ListWikiPagesHandler(c echo.Context) error {
	req, err := bind[resourceRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.wiki.List(c.Request().Context(), req.SessionID, req.ProjectID)
	return respond(c, result, err)
}

func (ta *ToolAPI) GetWikiPageHandler(c echo.Context) error {
	req, err := bind[resourceRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.wiki.Get(c.Request().Context(), req.SessionID, req.WikiPageID)
	return respond(c, result, err)
}
