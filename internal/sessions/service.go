package sessions

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service struct {
	sessions *Repository
	repos    RepositoryValidator

	logger *zap.Logger
}

func NewService(sessions *Repository, repos RepositoryValidator, logger *zap.Logger) *Service {
	return &Service{
		sessions: sessions,
		repos:    repos,

		logger: logger,
	}
}

// Create opens a new session with no repository configured.
func (s *Service) Create(ctx context.Context) (*Session, error) {
	session, err := s.sessions.Create(ctx)
	if err != nil {
		s.logger.Error("failed to create session", zap.Error(err))
		return nil, err
	}

	s.logger.Info("session created", zap.String("id", session.ID.String()))
	return session, nil
}

// Get retrieves a session by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Session, error) {
	s.logger.Debug("getting session", zap.String("id", id.String()))

	return s.sessions.GetByID(ctx, id)
}

// SetRepoPath validates path and makes it the session's repository.
func (s *Service) SetRepoPath(ctx context.Context, id uuid.UUID, path string) (*Session, error) {
	logger := s.logger.With(zap.String("id", id.String()), zap.String("path", path))

	resolved, err := s.repos.Validate(ctx, path)
	if err != nil {
		logger.Warn("rejected repository path", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrInvalidRepoPath, err)
	}

	session, err := s.sessions.Update(ctx, id, func(session *Session) error {
		session.RepoPath = &resolved
		return nil
	})
	if err != nil {
		logger.Error("failed to set repository path", zap.Error(err))
		return nil, err
	}

	logger.Info("repository path set", zap.String("resolved", resolved))
	return session, nil
}

// ClearRepoPath removes the session's repository.
func (s *Service) ClearRepoPath(ctx context.Context, id uuid.UUID) (*Session, error) {
	session, err := s.sessions.Update(ctx, id, func(session *Session) error {
		session.RepoPath = nil
		return nil
	})
	if err != nil {
		s.logger.Error("failed to clear repository path", zap.String("id", id.String()), zap.Error(err))
		return nil, err
	}

	s.logger.Info("repository path cleared", zap.String("id", id.String()))
	return session, nil
}

// Delete closes a session.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.sessions.Delete(ctx, id); err != nil {
		s.logger.Error("failed to delete session", zap.String("id", id.String()), zap.Error(err))
		return err
	}

	s.logger.Info("session deleted", zap.String("id", id.String()))
	return nil
}
