package sessions

import (
	"time"

	"github.com/google/uuid"
)

// PUTRepositoryRequest represents the request payload for setting a session's repository.
type PUTRepositoryRequest struct {
	Path string `json:"path" validate:"required,min=1,max=4096"`
}

// SessionResponse represents the response payload for a session.
type SessionResponse struct {
	ID        uuid.UUID `json:"id"`
	RepoPath  *string   `json:"repo_path"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
