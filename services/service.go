package services

import (
	"github.com/pilab-dev/taiga-bridge/internal/session"
	"github.com/pilab-dev/taiga-bridge/taiga"
)

// DeleteResult is the uniform response of delete operations.
type DeleteResult struct {
	Status string `json:"status"`
	ID     int    `json:"id"`
}

// guard gives every resource service the session check as its first step.
type guard struct {
	store *session.Store
}

func (g guard) client(sessionID string) (*taiga.Client, error) {
	return g.store.Validate(sessionID)
}
