// Package echo exposes the bridge tools over HTTP. Every tool is a POST
// endpoint under /tools taking a JSON body, mirroring the tool-call shape
// used by MCP clients. Responses are the service results serialized as-is;
// errors are mapped to a stable JSON error envelope.
package echo

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	bridgeerrors "github.com/pilab-dev/taiga-bridge/errors"
	"github.com/pilab-dev/taiga-bridge/services"
)

// ToolAPI struct to hold dependencies.
type ToolAPI struct {
	auth       *services.AuthService
	projects   *services.ProjectService
	stories    *services.StoryService
	tasks      *services.TaskService
	issues     *services.IssueService
	epics      *services.EpicService
	milestones *services.MilestoneService
	wiki       *services.WikiService
}

// NewToolAPI initializes the tool API.
func NewToolAPI(
	auth *services.AuthService,
	projects *services.ProjectService,
	stories *services.StoryService,
	tasks *services.TaskService,
	issues *services.IssueService,
	epics *services.EpicService,
	milestones *services.MilestoneService,
	wiki *services.WikiService,
) *ToolAPI {
	return &ToolAPI{
		auth:       auth,
		projects:   projects,
		stories:    stories,
		tasks:      tasks,
		issues:     issues,
		epics:      epics,
		milestones: milestones,
		wiki:       wiki,
	}
}

// RegisterRoutes registers one route per tool.
func (ta *ToolAPI) RegisterRoutes(e *echo.Echo) {
	t := e.Group("/tools")

	t.POST("/login", ta.LoginHandler)
	t.POST("/logout", ta.LogoutHandler)
	t.POST("/session_status", ta.SessionStatusHandler)

	t.POST("/list_projects", ta.ListProjectsHandler)
	t.POST("/list_all_projects", ta.ListAllProjectsHandler)
	t.POST("/get_project", ta.GetProjectHandler)
	t.POST("/get_project_by_slug", ta.GetProjectBySlugHandler)
	t.POST("/create_project", ta.CreateProjectHandler)
	t.POST("/update_project", ta.UpdateProjectHandler)
	t.POST("/delete_project", ta.DeleteProjectHandler)
	t.POST("/get_project_members", ta.GetProjectMembersHandler)
	t.POST("/invite_project_user", ta.InviteProjectUserHandler)

	t.POST("/list_user_stories", ta.ListUserStoriesHandler)
	t.POST("/get_user_story", ta.GetUserStoryHandler)
	t.POST("/create_user_story", ta.CreateUserStoryHandler)
	t.POST("/update_user_story", ta.UpdateUserStoryHandler)
	t.POST("/delete_user_story", ta.DeleteUserStoryHandler)
	t.POST("/assign_user_story", ta.AssignUserStoryHandler)
	t.POST("/unassign_user_story", ta.UnassignUserStoryHandler)
	t.POST("/get_user_story_statuses", ta.UserStoryStatusesHandler)

	t.POST("/list_tasks", ta.ListTasksHandler)
	t.POST("/get_task", ta.GetTaskHandler)
	t.POST("/create_task", ta.CreateTaskHandler)
	t.POST("/update_task", ta.UpdateTaskHandler)
	t.POST("/delete_task", ta.DeleteTaskHandler)
	t.POST("/assign_task", ta.AssignTaskHandler)
	t.POST("/unassign_task", ta.UnassignTaskHandler)
	t.POST("/get_task_statuses", ta.TaskStatusesHandler)

	t.POST("/list_issues", ta.ListIssuesHandler)
	t.POST("/get_issue", ta.GetIssueHandler)
	t.POST("/create_issue", ta.CreateIssueHandler)
	t.POST("/update_issue", ta.UpdateIssueHandler)
	t.POST("/delete_issue", ta.DeleteIssueHandler)
	t.POST("/assign_issue", ta.AssignIssueHandler)
	t.POST("/unassign_issue", ta.UnassignIssueHandler)
	t.POST("/get_issue_statuses", ta.IssueStatusesHandler)
	t.POST("/get_issue_priorities", ta.IssuePrioritiesHandler)
	t.POST("/get_issue_severities", ta.IssueSeveritiesHandler)
	t.POST("/get_issue_types", ta.IssueTypesHandler)

	t.POST("/list_epics", ta.ListEpicsHandler)
	t.POST("/get_epic", ta.GetEpicHandler)
	t.POST("/create_epic", ta.CreateEpicHandler)
	t.POST("/update_epic", ta.UpdateEpicHandler)
	t.POST("/delete_epic", ta.DeleteEpicHandler)
	t.POST("/assign_epic", ta.AssignEpicHandler)
	t.POST("/unassign_epic", ta.UnassignEpicHandler)

	t.POST("/list_milestones", ta.ListMilestonesHandler)
	t.POST("/get_milestone", ta.GetMilestoneHandler)
	t.POST("/create_milestone", ta.CreateMilestoneHandler)
	t.POST("/update_milestone", ta.UpdateMilestoneHandler)
	t.POST("/delete_milestone", ta.DeleteMilestoneHandler)

	t.POST("/list_wiki_pages", ta.ListWikiPagesHandler)
	t.POST("/get_wiki_page", ta.GetWikiPageHandler)
}

// writeError maps the closed error set to HTTP status codes. Unknown errors
// deliberately leak nothing beyond a generic server error.
func writeError(c echo.Context, err error) error {
	var authErr *bridgeerrors.AuthorizationError
	if errors.As(err, &authErr) {
		status := http.StatusUnauthorized
		if authErr.Code == bridgeerrors.RateLimited {
			status = http.StatusTooManyRequests
		}
		return c.JSON(status, authErr)
	}

	var valErr *bridgeerrors.ValidationError
	if errors.As(err, &valErr) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error":             "validation_error",
			"field":             valErr.Field,
			"error_description": valErr.Description,
		})
	}

	var taigaErr *bridgeerrors.TaigaError
	if errors.As(err, &taigaErr) {
		return c.JSON(http.StatusBadGateway, echo.Map{
			"error":             "taiga_error",
			"status_code":       taigaErr.StatusCode,
			"error_description": taigaErr.Detail,
		})
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("Unhandled tool error")
	return c.JSON(http.StatusInternalServerError, echo.Map{
		"error":             "server_error",
		"error_description": "Internal server error",
	})
}

// respond writes a successful tool result, or the mapped error.
func respond(c echo.Context, result any, err error) error {
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, result)
}

func bind[T any](c echo.Context) (*T, error) {
	req := new(T)
	if err := c.Bind(req); err != nil {
		return nil, bridgeerrors.NewValidation("body", "malformed request body")
	}
	return req, nil
}
