package echo

import (
	"github.com/labstack/echo/v4"
)

// resourceRequest is the shared body shape of the story, task, issue, epic,
// milestone and wiki tools. Unused fields are simply left empty by callers.
type resourceRequest struct {
	SessionID       string            `json:"session_id"`
	ProjectID       int               `json:"project_id"`
	UserStoryID     int               `json:"user_story_id"`
	TaskID          int               `json:"task_id"`
	IssueID         int               `json:"issue_id"`
	EpicID          int               `json:"epic_id"`
	MilestoneID     int               `json:"milestone_id"`
	WikiPageID      int               `json:"wiki_page_id"`
	UserID          int               `json:"user_id"`
	Subject         string            `json:"subject"`
	Name            string            `json:"name"`
	EstimatedStart  string            `json:"estimated_start"`
	EstimatedFinish string            `json:"estimated_finish"`
	Filters         map[string]string `json:"filters"`
	Extra           map[string]any    `json:"extra"`
	Patch           map[string]any    `json:"patch"`
}

func (ta *ToolAPI) ListUserStoriesHandler(c echo.Context) error {
	req, err := bind[resourceRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.stories.List(c.Request().Context(), req.SessionID, req.ProjectID, req.Filters)
	return respond(c, result, err)
}

func (ta *ToolAPI) GetUserStoryHandler(c echo.Context) error {
	req, err := bind[resourceRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.stories.Get(c.Request().Context(), req.SessionID, req.UserStoryID)
	return respond(c, result, err)
}

func (ta *ToolAPI) CreateUserStoryHandler(c echo.Context) error {
	req, err := bind[resourceRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.stories.Create(c.Request().Context(), req.SessionID, req.ProjectID, req.Subject, req.Extra)
	return respond(c, result, err)
}

func (ta *ToolAPI) UpdateUserStoryHandler(c echo.Context) error {
	req, err := bind[resourceRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.stories.Update(c.Request().Context(), req.SessionID, req.UserStoryID, req.Patch)
	return respond(c, result, err)
}

func (ta *ToolAPI) DeleteUserStoryHandler(c echo.Context) error {
	req, err := bind[resourceRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.stories.Delete(c.Request().Context(), req.SessionID, req.UserStoryID)
	return respond(c, result, err)
}

func (ta *ToolAPI) AssignUserStoryHandler(c echo.Context) error {
	req, err := bind[resourceRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.stories.Assign(c.Request().Context(), req.SessionID, req.UserStoryID, req.UserID)
	return respond(c, result, err)
}

func (ta *ToolAPI) UnassignUserStoryHandler(c echo.Context) error {
	req, err := bind[resourceRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.stories.Unassign(c.Request().Context(), req.SessionID, req.UserStoryID)
	return respond(c, result, err)
}

func (ta *ToolAPI) UserStoryStatusesHandler(c echo.Context) error {
	req, err := bind[resourceRequest](c)
	if err != nil {
		return writeError(c, err)
	}
	result, err := ta.stories.Statuses(c.Request().Context(), req.SessionID, req.ProjectID)
	return respond(c, result, err)
}
