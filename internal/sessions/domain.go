package sessions

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Session is the state of one client connection.
type Session struct {
	ID uuid.UUID

	// RepoPath is the repository commands run against; nil until configured.
	RepoPath *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// RepositoryValidator resolves a client-supplied path to the repository
// directory commands should run in.
type RepositoryValidator interface {
	Validate(ctx context.Context, path string) (string, error)
}
