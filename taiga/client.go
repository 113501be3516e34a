// Package taiga is a thin client for the Taiga REST API (v1). One Client is
// created per bridge session and is exclusively owned by it; the bridge never
// shares a Client across sessions.
package taiga

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/pilab-dev/taiga-bridge/config"
	"github.com/pilab-dev/taiga-bridge/errors"
	"github.com/pilab-dev/taiga-bridge/internal/logsafe"
)

const apiPrefix = "/api/v1"

// Client talks to a single Taiga instance on behalf of one authenticated
// user. The zero value is not usable; use NewClient.
type Client struct {
	host string
	http *http.Client

	token string
	user  *User

	refs *refCache
}

// NewClient builds an unauthenticated client for the given Taiga host.
func NewClient(host string) (*Client, error) {
	if strings.TrimSpace(host) == "" {
		return nil, errors.NewValidation("host", "Taiga host URL cannot be empty")
	}
	return &Client{
		host: strings.TrimRight(host, "/"),
		http: &http.Client{Timeout: 30 * time.Second},
		refs: newRefCache(),
	}, nil
}

// Login authenticates with username/password. Non-HTTPS hosts are rejected
// unless ALLOW_HTTP_TAIGA is set, in which case a loud warning is logged.
func (c *Client) Login(ctx context.Context, username, password string) error {
	if !strings.HasPrefix(c.host, "https://") {
		if !config.AllowHTTPTaiga() {
			return errors.NewValidation("host",
				"Taiga host must use HTTPS for security. Set ALLOW_HTTP_TAIGA=true to bypass for local development.")
		}
		log.Warn().
			Str("host", logsafe.URL(c.host)).
			Msg("HTTPS enforcement disabled via ALLOW_HTTP_TAIGA=true. Connecting over HTTP is insecure!")
	}

	body := map[string]string{
		"type":     "normal",
		"username": username,
		"password": password,
	}
	var user User
	if err := c.do(ctx, http.MethodPost, "/auth", nil, body, &user); err != nil {
		c.token = ""
		c.user = nil
		return err
	}
	if user.AuthToken == "" {
		c.token = ""
		c.user = nil
		return errors.NewTaiga(0, "login response did not include an auth token")
	}
	c.token = user.AuthToken
	c.user = &user
	log.Info().Str("username", username).Msg("Taiga login successful, auth token acquired")
	return nil
}

// SetToken switches the client to token authentication, bypassing Login.
func (c *Client) SetToken(token string) {
	c.token = token
}

// IsAuthenticated reports whether the client currently holds an auth token.
func (c *Client) IsAuthenticated() bool {
	return c.token != ""
}

// CurrentUser returns the user captured at login, if any.
func (c *Client) CurrentUser() *User {
	return c.user
}

// Me fetches the authenticated user from the API. Used as the liveness
// round-trip for session status checks.
func (c *Client) Me(ctx context.Context) (*User, error) {
	var user User
	if err := c.do(ctx, http.MethodGet, "/users/me", nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// --- Projects ---

// ListProjects lists projects the authenticated user is a member of.
func (c *Client) ListProjects(ctx context.Context) ([]Project, error) {
	q := url.Values{}
	if c.user != nil {
		q.Set("member", strconv.Itoa(c.user.ID))
	}
	var out []Project
	return out, c.do(ctx, http.MethodGet, "/projects", q, nil, &out)
}

// ListAllProjects lists every project visible to the authenticated user.
func (c *Client) ListAllProjects(ctx context.Context) ([]Project, error) {
	var out []Project
	return out, c.do(ctx, http.MethodGet, "/projects", nil, nil, &out)
}

func (c *Client) GetProject(ctx context.Context, projectID int) (*Project, error) {
	var out Project
	return &out, c.do(ctx, http.MethodGet, fmt.Sprintf("/projects/%d", projectID), nil, nil, &out)
}

func (c *Client) GetProjectBySlug(ctx context.Context, slug string) (*Project, error) {
	q := url.Values{"slug": {slug}}
	var out Project
	return &out, c.do(ctx, http.MethodGet, "/projects/by_slug", q, nil, &out)
}

func (c *Client) CreateProject(ctx context.Context, name, description string, extra map[string]any) (*Project, error) {
	body := mergeBody(extra, map[string]any{
		"name":        name,
		"description": description,
	})
	var out Project
	return &out, c.do(ctx, http.MethodPost, "/projects", nil, body, &out)
}

func (c *Client) UpdateProject(ctx context.Context, projectID, version int, patch map[string]any) (*Project, error) {
	body := mergeBody(patch, map[string]any{"version": version})
	var out Project
	return &out, c.do(ctx, http.MethodPatch, fmt.Sprintf("/projects/%d", projectID), nil, body, &out)
}

func (c *Client) DeleteProject(ctx context.Context, projectID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/projects/%d", projectID), nil, nil, nil)
}

// ListMembers lists the memberships of a project.
func (c *Client) ListMembers(ctx context.Context, projectID int) ([]Member, error) {
	q := url.Values{"project": {strconv.Itoa(projectID)}}
	var out []Member
	return out, c.do(ctx, http.MethodGet, "/memberships", q, nil, &out)
}

// InviteUser invites a user to a project by email, with the given role.
func (c *Client) InviteUser(ctx context.Context, projectID int, email string, roleID int) (*Member, error) {
	body := map[string]any{
		"project":  projectID,
		"role":     roleID,
		"username": email,
	}
	var out Member
	return &out, c.do(ctx, http.MethodPost, "/memberships", nil, body, &out)
}

// --- User stories ---

// ListUserStories lists the user stories of a project. Optional filters
// (milestone, status, ...) are passed through as query parameters.
func (c *Client) ListUserStories(ctx context.Context, projectID int, filters map[string]string) ([]UserStory, error) {
	var out []UserStory
	return out, c.do(ctx, http.MethodGet, "/userstories", projectQuery(projectID, filters), nil, &out)
}

func (c *Client) GetUserStory(ctx context.Context, storyID int) (*UserStory, error) {
	var out UserStory
	return &out, c.do(ctx, http.MethodGet, fmt.Sprintf("/userstories/%d", storyID), nil, nil, &out)
}

func (c *Client) CreateUserStory(ctx context.Context, projectID int, subject string, extra map[string]any) (*UserStory, error) {
	body := mergeBody(extra, map[string]any{
		"project": projectID,
		"subject": subject,
	})
	var out UserStory
	return &out, c.do(ctx, http.MethodPost, "/userstories", nil, body, &out)
}

func (c *Client) UpdateUserStory(ctx context.Context, storyID, version int, patch map[string]any) (*UserStory, error) {
	body := mergeBody(patch, map[string]any{"version": version})
	var out UserStory
	return &out, c.do(ctx, http.MethodPatch, fmt.Sprintf("/userstories/%d", storyID), nil, body, &out)
}

func (c *Client) DeleteUserStory(ctx context.Context, storyID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/userstories/%d", storyID), nil, nil, nil)
}

// --- Tasks ---

func (c *Client) ListTasks(ctx context.Context, projectID int, filters map[string]string) ([]Task, error) {
	var out []Task
	return out, c.do(ctx, http.MethodGet, "/tasks", projectQuery(projectID, filters), nil, &out)
}

func (c *Client) GetTask(ctx context.Context, taskID int) (*Task, error) {
	var out Task
	return &out, c.do(ctx, http.MethodGet, fmt.Sprintf("/tasks/%d", taskID), nil, nil, &out)
}

func (c *Client) CreateTask(ctx context.Context, projectID int, subject string, extra map[string]any) (*Task, error) {
	body := mergeBody(extra, map[string]any{
		"project": projectID,
		"subject": subject,
	})
	var out Task
	return &out, c.do(ctx, http.MethodPost, "/tasks", nil, body, &out)
}

func (c *Client) UpdateTask(ctx context.Context, taskID, version int, patch map[string]any) (*Task, error) {
	body := mergeBody(patch, map[string]any{"version": version})
	var out Task
	return &out, c.do(ctx, http.MethodPatch, fmt.Sprintf("/tasks/%d", taskID), nil, body, &out)
}

func (c *Client) DeleteTask(ctx context.Context, taskID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/tasks/%d", taskID), nil, nil, nil)
}

// --- Issues ---

func (c *Client) ListIssues(ctx context.Context, projectID int, filters map[string]string) ([]Issue, error) {
	var out []Issue
	return out, c.do(ctx, http.MethodGet, "/issues", projectQuery(projectID, filters), nil, &out)
}

func (c *Client) GetIssue(ctx context.Context, issueID int) (*Issue, error) {
	var out Issue
	return &out, c.do(ctx, http.MethodGet, fmt.Sprintf("/issues/%d", issueID), nil, nil, &out)
}

func (c *Client) CreateIssue(ctx context.Context, projectID int, subject string, extra map[string]any) (*Issue, error) {
	body := mergeBody(extra, map[string]any{
		"project": projectID,
		"subject": subject,
	})
	var out Issue
	return &out, c.do(ctx, http.MethodPost, "/issues", nil, body, &out)
}

func (c *Client) UpdateIssue(ctx context.Context, issueID, version int, patch map[string]any) (*Issue, error) {
	body := mergeBody(patch, map[string]any{"version": version})
	var out Issue
	return &out, c.do(ctx, http.MethodPatch, fmt.Sprintf("/issues/%d", issueID), nil, body, &out)
}

func (c *Client) DeleteIssue(ctx context.Context, issueID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/issues/%d", issueID), nil, nil, nil)
}

// --- Epics ---

func (c *Client) ListEpics(ctx context.Context, projectID int, filters map[string]string) ([]Epic, error) {
	var out []Epic
	return out, c.do(ctx, http.MethodGet, "/epics", projectQuery(projectID, filters), nil, &out)
}

func (c *Client) GetEpic(ctx context.Context, epicID int) (*Epic, error) {
	var out Epic
	return &out, c.do(ctx, http.MethodGet, fmt.Sprintf("/epics/%d", epicID), nil, nil, &out)
}

func (c *Client) CreateEpic(ctx context.Context, projectID int, subject string, extra map[string]any) (*Epic, error) {
	body := mergeBody(extra, map[string]any{
		"project": projectID,
		"subject": subject,
	})
	var out Epic
	return &out, c.do(ctx, http.MethodPost, "/epics", nil, body, &out)
}

func (c *Client) UpdateEpic(ctx context.Context, epicID, version int, patch map[string]any) (*Epic, error) {
	body := mergeBody(patch, map[string]any{"version": version})
	var out Epic
	return &out, c.do(ctx, http.MethodPatch, fmt.Sprintf("/epics/%d", epicID), nil, body, &out)
}

func (c *Client) DeleteEpic(ctx context.Context, epicID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/epics/%d", epicID), nil, nil, nil)
}

// --- Milestones ---

func (c *Client) ListMilestones(ctx context.Context, projectID int) ([]Milestone, error) {
	// The milestones endpoint filters by "project", not "project_id".
	q := url.Values{"project": {strconv.Itoa(projectID)}}
	var out []Milestone
	return out, c.do(ctx, http.MethodGet, "/milestones", q, nil, &out)
}

func (c *Client) GetMilestone(ctx context.Context, milestoneID int) (*Milestone, error) {
	var out Milestone
	return &out, c.do(ctx, http.MethodGet, fmt.Sprintf("/milestones/%d", milestoneID), nil, nil, &out)
}

func (c *Client) CreateMilestone(ctx context.Context, projectID int, name, estimatedStart, estimatedFinish string) (*Milestone, error) {
	body := map[string]any{
		"project":          projectID,
		"name":             name,
		"estimated_start":  estimatedStart,
		"estimated_finish": estimatedFinish,
	}
	var out Milestone
	return &out, c.do(ctx, http.MethodPost, "/milestones", nil, body, &out)
}

func (c *Client) UpdateMilestone(ctx context.Context, milestoneID, version int, patch map[string]any) (*Milestone, error) {
	body := mergeBody(patch, map[string]any{"version": version})
	var out Milestone
	return &out, c.do(ctx, http.MethodPatch, fmt.Sprintf("/milestones/%d", milestoneID), nil, body, &out)
}

func (c *Client) DeleteMilestone(ctx context.Context, milestoneID int) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/milestones/%d", milestoneID), nil, nil, nil)
}

// --- Wiki ---

func (c *Client) ListWikiPages(ctx context.Context, projectID int) ([]WikiPage, error) {
	q := url.Values{"project": {strconv.Itoa(projectID)}}
	var out []WikiPage
	return out, c.do(ctx, http.MethodGet, "/wiki", q, nil, &out)
}

func (c *Client) GetWikiPage(ctx context.Context, pageID int) (*WikiPage, error) {
	var out WikiPage
	return &out, c.do(ctx, http.MethodGet, fmt.Sprintf("/wiki/%d", pageID), nil, nil, &out)
}

// --- Request plumbing ---

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.host + apiPrefix + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return errors.NewTaiga(0, "encoding request body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return errors.NewTaiga(0, "building request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.NewTaiga(0, "request to %s failed: %v", logsafe.URL(c.host), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return apiError(resp)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.NewTaiga(resp.StatusCode, "decoding response: %v", err)
	}
	return nil
}

// apiError maps a non-2xx Taiga response to a TaigaError, preferring the
// structured detail message the API puts in "_error_message".
func apiError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var payload struct {
		ErrorMessage string `json:"_error_message"`
		Detail       string `json:"detail"`
	}
	detail := strings.TrimSpace(string(raw))
	if err := json.Unmarshal(raw, &payload); err == nil {
		if payload.ErrorMessage != "" {
			detail = payload.ErrorMessage
		} else if payload.Detail != "" {
			detail = payload.Detail
		}
	}
	if detail == "" {
		detail = http.StatusText(resp.StatusCode)
	}
	return errors.NewTaiga(resp.StatusCode, "%s", detail)
}

func projectQuery(projectID int, filters map[string]string) url.Values {
	q := url.Values{"project": {strconv.Itoa(projectID)}}
	for k, v := range filters {
		q.Set(k, v)
	}
	return q
}

func mergeBody(extra map[string]any, required map[string]any) map[string]any {
	body := make(map[string]any, len(extra)+len(required))
	for k, v := range extra {
		body[k] = v
	}
	for k, v := range required {
		body[k] = v
	}
	return body
}
