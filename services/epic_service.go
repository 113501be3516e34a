package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/pilab-dev/taiga-bridge/internal/logsafe"
	"github.com/pilab-dev/taiga-bridge/internal/session"
	"github.com/pilab-dev/taiga-bridge/internal/validate"
	"github.com/pilab-dev/taiga-bridge/taiga"
)

// EpicService exposes the epic tools.
type EpicService struct {
	guard
}

func NewEpicService(store *session.Store) *EpicService {
	return &EpicService{guard{store: store}}
}

func (s *EpicService) List(ctx context.Context, sessionID string, projectID int, filters map[string]string) ([]taiga.Epic, error) {
	if err := validate.PositiveInt(projectID, "project_id"); err != nil {
		return nil, err
	}
	client, err := s.client(sessionID)
	if err != nil {
		return nil, err
	}
	return client.ListEpics(ctx, projectID, filters)
}

func (s *EpicService) Get(ctx context.Context, sessionID string, epicID int) (*taiga.Epic, error) {
	if err := validate.PositiveInt(epicID, "epic_id"); err != nil {
		return nil, err
	}
	client, err := s.client(sessionID)
	if err != nil {
		return nil, err
	}
	return client.GetEpic(ctx, epicID)
}

func (s *EpicService) Create(ctx context.Context, sessionID string, projectID int, subject string, extra map[string]any) (*taiga.Epic, error) {
	if err := validate.PositiveInt(projectID, "project_id"); err != nil {
		return nil, err
	}
	if err := validate.Subject(subject); err != nil {
		return nil, err
	}
	if err := validate.Fields("epic", extra); err != nil {
		return nil, err
	}
	client, err := s.client(sessionID)
	if err != nil {
		return nil, err
	}
	return client.CreateEpic(ctx, projectID, subject, extra)
}

func (s *EpicService) Update(ctx context.Context, sessionID string, epicID int, patch map[string]any) (*taiga.Epic, error) {
	if err := validate.PositiveInt(epicID, "epic_id"); err != nil {
		return nil, err
	}
	client, err := s.client(sessionID)
	if err != nil {
		return nil, err
	}
	current, err := client.GetEpic(ctx, epicID)
	if err != nil {
		return nil, err
	}
	if len(patch) == 0 {
		return current, nil
	}
	return client.UpdateEpic(ctx, epicID, current.Version, patch)
}

func (s *EpicService) Delete(ctx context.Context, sessionID string, epicID int) (*DeleteResult, error) {
	log.Warn().
		Str("session_id", logsafe.SessionID(sessionID)).
		Int("epic_id", epicID).
		Msg("Executing delete_epic")
	if err := validate.PositiveInt(epicID, "epic_id"); err != nil {
		return nil, err
	}
	client, err := s.client(sessionID)
	if err != nil {
		return nil, err
	}
	if err := client.DeleteEpic(ctx, epicID); err != nil {
		return nil, err
	}
	return &DeleteResult{Status: "deleted", ID: epicID}, nil
}

func (s *EpicService) Assign(ctx context.Context, sessionID string, epicID, userID int) (*taiga.Epic, error) {
	if err := validate.PositiveInt(userID, "user_id"); err != nil {
		return nil, err
	}
	return s.Update(ctx, sessionID, epicID, map[string]any{"assigned_to": userID})
}

func (s *EpicService) Unassign(ctx context.Context, sessionID string, epicID int) (*taiga.Epic, error) {
	return s.Update(ctx, sessionID, epicID, map[string]any{"assigned_to": nil})
}
