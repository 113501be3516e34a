package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/pilab-dev/taiga-bridge/internal/logsafe"
	"github.com/pilab-dev/taiga-bridge/internal/session"
	"github.com/pilab-dev/taiga-bridge/internal/validate"
	"github.com/pilab-dev/taiga-bridge/taiga"
)

// StoryService exposes the user-story tools.
type StoryService struct {
	guard
}

func NewStoryService(store *session.Store) *StoryService {
	return &StoryService{guard{store: store}}
}

func (s *StoryService) List(ctx context.Context, sessionID string, projectID int, filters map[string]string) ([]taiga.UserStory, error) {
	if err := validate.PositiveInt(projectID, "project_id"); err != nil {
		return nil, err
	}
	client, err := s.client(sessionID)
	if err != nil {
		return nil, err
	}
	return client.ListUserStories(ctx, projectID, filters)
}

func (s *StoryService) Get(ctx context.Context, sessionID string, storyID int) (*taiga.UserStory, error) {
	if err := validate.PositiveInt(storyID, "user_story_id"); err != nil {
		return nil, err
	}
	client, err := s.client(sessionID)
	if err != nil {
		return nil, err
	}
	return client.GetUserStory(ctx, storyID)
}

func (s *StoryService) Create(ctx context.Context, sessionID string, projectID int, subject string, extra map[string]any) (*taiga.UserStory, error) {
	if err := validate.PositiveInt(projectID, "project_id"); err != nil {
		return nil, err
	}
	if err := validate.Subject(subject); err != nil {
		return nil, err
	}
	if err := validate.Fields("user_story", extra); err != nil {
		return nil, err
	}
	client, err := s.client(sessionID)
	if err != nil {
		return nil, err
	}
	return client.CreateUserStory(ctx, projectID, subject, extra)
}

// Update patches a user story, fetching the current version first. An empty
// patch returns the story unchanged.
func (s *StoryService) Update(ctx context.Context, sessionID string, storyID int, patch map[string]any) (*taiga.UserStory, error) {
	if err := validate.PositiveInt(storyID, "user_story_id"); err != nil {
		return nil, err
	}
	client, err := s.client(sessionID)
	if err != nil {
		return nil, err
	}
	current, err := client.GetUserStory(ctx, storyID)
	if err != nil {
		return nil, err
	}
	if len(patch) == 0 {
		return current, nil
	}
	return client.UpdateUserStory(ctx, storyID, current.Version, patch)
}

func (s *StoryService) Delete(ctx context.Context, sessionID string, storyID int) (*DeleteResult, error) {
	log.Warn().
		Str("session_id", logsafe.SessionID(sessionID)).
		Int("user_story_id", storyID).
		Msg("Executing delete_user_story")
	if err := validate.PositiveInt(storyID, "user_story_id"); err != nil {
		return nil, err
	}
	client, err := s.client(sessionID)
	if err != nil {
		return nil, err
	}
	if err := client.DeleteUserStory(ctx, storyID); err != nil {
		return nil, err
	}
	return &DeleteResult{Status: "deleted", ID: storyID}, nil
}

// Assign routes through Update with an assigned_to patch.
func (s *StoryService) Assign(ctx context.Context, sessionID string, storyID, userID int) (*taiga.UserStory, error) {
	if err := validate.PositiveInt(userID, "user_id"); err != nil {
		return nil, err
	}
	return s.Update(ctx, sessionID, storyID, map[string]any{"assigned_to": userID})
}

// Unassign clears the assignee; the explicit null is what Taiga expects.
func (s *StoryService) Unassign(ctx context.Context, sessionID string, storyID int) (*taiga.UserStory, error) {
	return s.Update(ctx, sessionID, storyID, map[string]any{"assigned_to": nil})
}

// Statuses lists the user-story statuses configured for a project.
func (s *StoryService) Statuses(ctx context.Context, sessionID string, projectID int) ([]taiga.RefItem, error) {
	if err := validate.PositiveInt(projectID, "project_id"); err != nil {
		return nil, err
	}
	client, err := s.client(sessionID)
	if err != nil {
		return nil, err
	}
	return client.ReferenceData(ctx, taiga.RefUserStoryStatuses, projectID)
}
