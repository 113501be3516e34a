package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/pilab-dev/taiga-bridge/internal/logsafe"
	"github.com/pilab-dev/taiga-bridge/internal/session"
	"github.com/pilab-dev/taiga-bridge/internal/validate"
	"github.com/pilab-dev/taiga-bridge/taiga"
)

// IssueService exposes the issue tools, including the issue-specific
// reference data (priorities, severities, types).
type IssueService struct {
	guard
}

func NewIssueService(store *session.Store) *IssueService {
	return &IssueService{guard{store: store}}
}

func (s *IssueService) List(ctx context.Context, sessionID string, projectID int, filters map[string]string) ([]taiga.Issue, error) {
	if err := validate.PositiveInt(projectID, "project_id"); err != nil {
		return nil, err
	}
	client, err := s.client(sessionID)
	if err != nil {
		return nil, err
	}
	return client.ListIssues(ctx, projectID, filters)
}

func (s *IssueService) Get(ctx context.Context, sessionID string, issueID int) (*taiga.Issue, error) {
	if err := validate.PositiveInt(issueID, "issue_id"); err != nil {
		return nil, err
	}
	client, err := s.client(sessionID)
	if err != nil {
		return nil, err
	}
	return client.GetIssue(ctx, issueID)
}

func (s *IssueService) Create(ctx context.Context, sessionID string, projectID int, subject string, extra map[string]any) (*taiga.Issue, error) {
	if err := validate.PositiveInt(projectID, "project_id"); err != nil {
		return nil, err
	}
	if err := validate.Subject(subject); err != nil {
		return nil, err
	}
	if err := validate.Fields("issue", extra); err != nil {
		return nil, err
	}
	client, err := s.client(sessionID)
	if err != nil {
		return nil, err
	}
	return client.CreateIssue(ctx, projectID, subject, extra)
}

func (s *IssueService) Update(ctx context.Context, sessionID string, issueID int, patch map[string]any) (*taiga.Issue, error) {
	if err := validate.PositiveInt(issueID, "issue_id"); err != nil {
		return nil, err
	}
	client, err := s.client(sessionID)
	if err != nil {
		return nil, err
	}
	current, err := client.GetIssue(ctx, issueID)
	if err != nil {
		return nil, err
	}
	if len(patch) == 0 {
		return current, nil
	}
	return client.UpdateIssue(ctx, issueID, current.Version, patch)
}

func (s *IssueService) Delete(ctx context.Context, sessionID string, issueID int) (*DeleteResult, error) {
	log.Warn().
		Str("session_id", logsafe.SessionID(sessionID)).
		Int("issue_id", issueID).
		Msg("Executing delete_issue")
	if err := validate.PositiveInt(issueID, "issue_id"); err != nil {
		return nil, err
	}
	client, err := s.client(sessionID)
	if err != nil {
		return nil, err
	}
	if err := client.DeleteIssue(ctx, issueID); err != nil {
		return nil, err
	}
	return &DeleteResult{Status: "deleted", ID: issueID}, nil
}

func (s *IssueService) Assign(ctx context.Context, sessionID string, issueID, userID int) (*taiga.Issue, error) {
	if err := validate.PositiveInt(userID, "user_id"); err != nil {
		return nil, err
	}
	return s.Update(ctx, sessionID, issueID, map[string]any{"assigned_to": userID})
}

func (s *IssueService) Unassign(ctx context.Context, sessionID string, issueID int) (*taiga.Issue, error) {
	return s.Update(ctx, sessionID, issueID, map[string]any{"assigned_to": nil})
}

func (s *IssueService) Statuses(ctx context.Context, sessionID string, projectID int) ([]taiga.RefItem, error) {
	return s.reference(ctx, sessionID, taiga.RefIssueStatuses, projectID)
}

func (s *IssueService) Priorities(ctx context.Context, sessionID string, projectID int) ([]taiga.RefItem, error) {
	return s.reference(ctx, sessionID, taiga.RefPriorities, projectID)
}

func (s *IssueService) Severities(ctx context.Context, sessionID string, projectID int) ([]taiga.RefItem, error) {
	return s.reference(ctx, sessionID, taiga.RefSeverities, projectID)
}

func (s *IssueService) Types(ctx context.Context, sessionID string, projectID int) ([]taiga.RefItem, error) {
	return s.reference(ctx, sessionID, taiga.RefIssueTypes, projectID)
}

func (s *IssueService) reference(ctx context.Context, sessionID, kind string, projectID int) ([]taiga.RefItem, error) {
	if err := validate.PositiveInt(projectID, "project_id"); err != nil {
		return nil, err
	}
	client, err := s.client(sessionID)
	if err != nil {
		return nil, err
	}
	return client.ReferenceData(ctx, kind, projectID)
}
