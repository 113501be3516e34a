package services

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/pilab-dev/taiga-bridge/internal/logsafe"
	"github.com/pilab-dev/taiga-bridge/internal/session"
	"github.com/pilab-dev/taiga-bridge/internal/validate"
	"github.com/pilab-dev/taiga-bridge/taiga"
)

// TaskService exposes the task tools.
type TaskService struct {
	guard
}

func NewTaskService(store *session.Store) *TaskService {
	return &TaskService{guard{store: store}}
}

func (s *TaskService) List(ctx context.Context, sessionID string, projectID int, filters map[string]string) ([]taiga.Task, error) {
	if err := validate.PositiveInt(projectID, "project_id"); err != nil {
		return nil, err
	}
	client, err := s.client(sessionID)
	if err != nil {
		return nil, err
	}
	return client.ListTasks(ctx, projectID, filters)
}

func (s *TaskService) Get(ctx context.Context, sessionID string, taskID int) (*taiga.Task, error) {
	if err := validate.PositiveInt(taskID, "task_id"); err != nil {
		return nil, err
	}
	client, err := s.client(sessionID)
	if err != nil {
		return nil, err
	}
	return client.GetTask(ctx, taskID)
}

func (s *TaskService) Create(ctx context.Context, sessionID string, projectID int, subject string, extra map[string]any) (*taiga.Task, error) {
	if err := validate.PositiveInt(projectID, "project_id"); err != nil {
		return nil, err
	}
	if err := validate.Subject(subject); err != nil {
		return nil, err
	}
	if err := validate.Fields("task", extra); err != nil {
		return nil, err
	}
	client, err := s.client(sessionID)
	if err != nil {
		return nil, err
	}
	return client.CreateTask(ctx, projectID, subject, extra)
}

func (s *TaskService) Update(ctx context.Context, sessionID string, taskID int, patch map[string]any) (*taiga.Task, error) {
	if err := validate.PositiveInt(taskID, "task_id"); err != nil {
		return nil, err
	}
	client, err := s.client(sessionID)
	if err != nil {
		return nil, err
	}
	current, err := client.GetTask(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if len(patch) == 0 {
		return current, nil
	}
	return client.UpdateTask(ctx, taskID, current.Version, patch)
}

func (s *TaskService) Delete(ctx context.Context, sessionID string, taskID int) (*DeleteResult, error) {
	log.Warn().
		Str("session_id", logsafe.SessionID(sessionID)).
		Int("task_id", taskID).
		Msg("Executing delete_task")
	if err := validate.PositiveInt(taskID, "task_id"); err != nil {
		return nil, err
	}
	client, err := s.client(sessionID)
	if err != nil {
		return nil, err
	}
	if err := client.DeleteTask(ctx, taskID); err != nil {
		return nil, err
	}
	return &DeleteResult{Status: "deleted", ID: taskID}, nil
}

func (s *TaskService) Assign(ctx context.Context, sessionID string, taskID, userID int) (*taiga.Task, error) {
	if err := validate.PositiveInt(userID, "user_id"); err != nil {
		return nil, err
	}
	return s.Update(ctx, sessionID, taskID, map[string]any{"assigned_to": userID})
}

func (s *TaskService) Unassign(ctx context.Context, sessionID string, taskID int) (*taiga.Task, error) {
	return s.Update(ctx, sessionID, taskID, map[string]any{"assigned_to": nil})
}

// Statuses lists the task statuses configured for a project.
func (s *TaskService) Statuses(ctx context.Context, sessionID string, projectID int) ([]taiga.RefItem, error) {
	if err := validate.PositiveInt(projectID, "project_id"); err != nil {
		return nil, err
	}
	client, err := s.client(sessionID)
	if err != nil {
		return nil, err
	}
	return client.ReferenceData(ctx, taiga.RefTaskStatuses, projectID)
}
