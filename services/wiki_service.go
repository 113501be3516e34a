package services

import (
	"context"

	"github.com/pilab-dev/taiga-bridge/internal/session"
	"github.com/pilab-dev/taiga-bridge/internal/validate"
	"github.com/pilab-dev/taiga-bridge/taiga"
)

// WikiService exposes the read-only wiki tools.
type WikiService struct {
	guard
}

func NewWikiService(store *session.Store) *WikiService {
	return &WikiService{guard{store: store}}
}

func (s *WikiService) List(ctx context.Context, sessionID string, projectID int) ([]taiga.WikiPage, error) {
	if err := validate.PositiveInt(projectID, "project_id"); err != nil {
		return nil, err
	}
	client, err := s.client(sessionID)
	if err != nil {
		return nil, err
	}
	return client.ListWikiPages(ctx, projectID)
}

func (s *WikiService) Get(ctx context.Context, sessionID string, pageID int) (*taiga.WikiPage, error) {
	if err := validate.PositiveInt(pageID, "wiki_page_id"); err != nil {
		return nil, err
	}
	client, err := s.client(sessionID)
	if err != nil {
		return nil, err
	}
	return client.GetWikiPage(ctx, pageID)
}
