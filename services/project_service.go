package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/pilab-dev/taiga-bridge/internal/logsafe"
	"github.com/pilab-dev/taiga-bridge/internal/session"
	"github.com/pilab-dev/taiga-bridge/internal/validate"
	"github.com/pilab-dev/taiga-bridge/taiga"
)

// ProjectService exposes project CRUD and membership tools.
type ProjectService struct {
	guard
}

func NewProjectService(store *session.Store) *ProjectService {
	return &ProjectService{guard{store: store}}
}

// List returns the projects the session's user is a member of.
func (s *ProjectService) List(ctx context.Context, sessionID string) ([]taiga.Project, error) {
	log.Info().Str("session_id", logsafe.SessionID(sessionID)).Msg("Executing list_projects")
	client, err := s.client(sessionID)
	if err != nil {
		return nil, err
	}
	return client.ListProjects(ctx)
}

// ListAll returns every project visible to the session's user.
func (s *ProjectService) ListAll(ctx context.Context, sessionID string) ([]taiga.Project, error) {
	client, err := s.client(sessionID)
	if err != nil {
		return nil, err
	}
	return client.ListAllProjects(ctx)
}

func (s *ProjectService) Get(ctx context.Context, sessionID string, projectID int) (*taiga.Project, error) {
	if err := validate.PositiveInt(projectID, "project_id"); err != nil {
		return nil, err
	}
	client, err := s.client(sessionID)
	if err != nil {
		return nil, err
	}
	return client.GetProject(ctx, projectID)
}

func (s *ProjectService) GetBySlug(ctx context.Context, sessionID, slug string) (*taiga.Project, error) {
	if err := validate.Slug(slug); err != nil {
		return nil, err
	}
	client, err := s.client(sessionID)
	if err != nil {
		return nil, err
	}
	return client.GetProjectBySlug(ctx, slug)
}

func (s *ProjectService) Create(ctx context.Context, sessionID, name, description string, extra map[string]any) (*taiga.Project, error) {
	if err := validate.Name(name); err != nil {
		return nil, err
	}
	if err := validate.Description(description); err != nil {
		return nil, err
	}
	if err := validate.Fields("project", extra); err != nil {
		return nil, err
	}
	client, err := s.client(sessionID)
	if err != nil {
		return nil, err
	}
	return client.CreateProject(ctx, name, description, extra)
}

// Update patches a project. An empty patch returns the current project
// unchanged. The current version is fetched first for optimistic
// concurrency.
func (s *ProjectService) Update(ctx context.Context, sessionID string, projectID int, patch map[string]any) (*taiga.Project, error) {
	if err := validate.PositiveInt(projectID, "project_id"); err != nil {
		return nil, err
	}
	client, err := s.client(sessionID)
	if err != nil {
		return nil, err
	}
	current, err := client.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if len(patch) == 0 {
		return current, nil
	}
	return client.UpdateProject(ctx, projectID, current.Version, patch)
}

func (s *ProjectService) Delete(ctx context.Context, sessionID string, projectID int) (*DeleteResult, error) {
	log.Warn().
		Str("session_id", logsafe.SessionID(sessionID)).
		Int("project_id", projectID).
		Msg("Executing delete_project")
	if err := validate.PositiveInt(projectID, "project_id"); err != nil {
		return nil, err
	}
	client, err := s.client(sessionID)
	if err != nil {
		return nil, err
	}
	if err := client.DeleteProject(ctx, projectID); err != nil {
		return nil, err
	}
	return &DeleteResult{Status: "deleted", ID: projectID}, nil
}

// Members lists a project's memberships.
func (s *ProjectService) Members(ctx context.Context, sessionID string, projectID int) ([]taiga.Member, error) {
	if err := validate.PositiveInt(projectID, "project_id"); err != nil {
		return nil, err
	}
	client, err := s.client(sessionID)
	if err != nil {
		return nil, err
	}
	return client.ListMembers(ctx, projectID)
}

// Invite invites a user to a project by email with the given role.
func (s *ProjectService) Invite(ctx context.Context, sessionID string, projectID int, email string, roleID int) (*taiga.Member, error) {
	log.Info().
		Str("session_id", logsafe.SessionID(sessionID)).
		Int("project_id", projectID).
		Str("email", logsafe.Email(email)).
		Msg("Executing invite_project_user")
	if err := validate.PositiveInt(projectID, "project_id"); err != nil {
		return nil, err
	}
	if err := validate.Email(email); err != nil {
		return nil, err
	}
	if err := validate.PositiveInt(roleID, "role_id"); err != nil {
		return nil, err
	}
	client, err := s.client(sessionID)
	if err != nil {
		return nil, err
	}
	return client.InviteUser(ctx, projectID, email, roleID)
}
