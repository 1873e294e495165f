package sessions

import (
	"time"

	"github.com/google/uuid"
)

type sessionModel struct {
	ID        uuid.UUID `json:"id"`
	RepoPath  *string   `json:"repo_path"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func newSessionModel() *sessionModel {
	now := time.Now()

	return &sessionModel{
		ID:        uuid.New(),
		RepoPath:  nil,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func newSession(model *sessionModel) *Session {
	if model == nil {
		return nil
	}

	return &Session{
		ID:        model.ID,
		RepoPath:  model.RepoPath,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}
