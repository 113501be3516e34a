package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/pilab-dev/taiga-bridge/internal/logsafe"
	"github.com/pilab-dev/taiga-bridge/internal/session"
	"github.com/pilab-dev/taiga-bridge/internal/validate"
	"github.com/pilab-dev/taiga-bridge/taiga"
)

// MilestoneService exposes the milestone (sprint) tools.
type MilestoneService struct {
	guard
}

func NewMilestoneService(store *session.Store) *MilestoneService {
	return &MilestoneService{guard{store: store}}
}

func (s *MilestoneService) List(ctx context.Context, sessionID string, projectID int) ([]taiga.Milestone, error) {
	if err := validate.PositiveInt(projectID, "project_id"); err != nil {
		return nil, err
	}
	client, err := s.client(sessionID)
	if err != nil {
		return nil, err
	}
	return client.ListMilestones(ctx, projectID)
}

func (s *MilestoneService) Get(ctx context.Context, sessionID string, milestoneID int) (*taiga.Milestone, error) {
	if err := validate.PositiveInt(milestoneID, "milestone_id"); err != nil {
		return nil, err
	}
	client, err := s.client(sessionID)
	if err != nil {
		return nil, err
	}
	return client.GetMilestone(ctx, milestoneID)
}

func (s *MilestoneService) Create(ctx context.Context, sessionID string, projectID int, name, estimatedStart, estimatedFinish string) (*taiga.Milestone, error) {
	if err := validate.PositiveInt(projectID, "project_id"); err != nil {
		return nil, err
	}
	if err := validate.Name(name); err != nil {
		return nil, err
	}
	client, err := s.client(sessionID)
	if err != nil {
		return nil, err
	}
	return client.CreateMilestone(ctx, projectID, name, estimatedStart, estimatedFinish)
}

func (s *MilestoneService) Update(ctx context.Context, sessionID string, milestoneID int, patch map[string]any) (*taiga.Milestone, error) {
	if err := validate.PositiveInt(milestoneID, "milestone_id"); err != nil {
		return nil, err
	}
	if err := validate.Fields("milestone", patch); err != nil {
		return nil, err
	}
	client, err := s.client(sessionID)
	if err != nil {
		return nil, err
	}
	current, err := client.GetMilestone(ctx, milestoneID)
	if err != nil {
		return nil, err
	}
	if len(patch) == 0 {
		return current, nil
	}
	return client.UpdateMilestone(ctx, milestoneID, current.Version, patch)
}

func (s *MilestoneService) Delete(ctx context.Context, sessionID string, milestoneID int) (*DeleteResult, error) {
	log.Warn().
		Str("session_id", logsafe.SessionID(sessionID)).
		Int("milestone_id", milestoneID).
		Msg("Executing delete_milestone")
	if err := validate.PositiveInt(milestoneID, "milestone_id"); err != nil {
		return nil, err
	}
	client, err := s.client(sessionID)
	if err != nil {
		return nil, err
	}
	if err := client.DeleteMilestone(ctx, milestoneID); err != nil {
		return nil, err
	}
	return &DeleteResult{Status: "deleted", ID: milestoneID}, nil
}
