package echo

import (
	"github.com/labstack/echo/v4"
)

func (ta *ToolAPI) ListIssuesHandler(c echo.Context) error {
	req, err := bind[resourceRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.issues.List(c.Request().Context(), req.SessionID, req.ProjectID, req.Filters)
	return respond(c, result, err)
}

func (ta *ToolAPI) GetIssueHandler(c echo.Context) error {
	req, err := bind[resourceRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.issues.Get(c.Request().Context(), req.SessionID, req.IssueID)
	return respond(c, result, err)
}

func (ta *ToolAPI) CreateIssueHandler(c echo.Context) error {
	req, err := bind[resourceRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.issues.Create(c.Request().Context(), req.SessionID, req.ProjectID, req.Subject, req.Extra)
	return respond(c, result, err)
}

func (ta *ToolAPI) UpdateIssueHandler(c echo.Context) error {
	req, err := bind[resourceRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.issues.Update(c.Request().Context(), req.SessionID, req.IssueID, req.Patch)
	return respond(c, result, err)
}

func (ta *ToolAPI) DeleteIssueHandler(c echo.Context) error {
	req, err := bind[resourceRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.issues.Delete(c.Request().Context(), req.SessionID, req.IssueID)
	return respond(c, result, err)
}

func (ta *ToolAPI) AssignIssueHandler(c echo.Context) error {
	req, err := bind[resourceRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.issues.Assign(c.Request().Context(), req.SessionID, req.IssueID, req.UserID)
	return respond(c, result, err)
}

func (ta *ToolAPI) UnassignIssueHandler(c echo.Context) error {
	req, err := bind[resourceRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.issues.Unassign(c.Request().Context(), req.SessionID, req.IssueID)
	return respond(c, result, err)
}

func (ta *ToolAPI) IssueStatusesHandler(c echo.Context) error {
	req, err := bind[resourceRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.issues.Statuses(c.Request().Context(), req.SessionID, req.ProjectID)
	return respond(c, result, err)
}

func (ta *ToolAPI) IssuePrioritiesHandler(c echo.Context) error {
	req, err := bind[resourceRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.issues.Priorities(c.Request().Context(), req.SessionID, req.ProjectID)
	return respond(c, result, err)
}

func (ta *ToolAPI) IssueSeveritiesHandler(c echo.Context) error {
	req, err := bind[resourceRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.issues.Severities(c.Request().Context(), req.SessionID, req.ProjectID)
	return respond(c, result, err)
}

func (ta *ToolAPI) IssueTypesHandler(c echo.Context) error {
	req, err := bind[resourceRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.issues.Types(c.Request().Context(), req.SessionID, req.ProjectID)
	return respond(c, result, err)
}
