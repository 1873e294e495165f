package git

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/go-git/go-git/v6"
	"github.com/go-git/go-git/v6/plumbing"
	"go.uber.org/zap"
)

type Service struct {
	logger *zap.Logger
}

// NewService creates a new git Service.
func NewService(logger *zap.Logger) *Service {
	return &Service{
		logger: logger,
	}
}

// Open checks that path is a non-bare git working tree and reports where its
// HEAD points.
func (s *Service) Open(_ context.Context, path string) (*Repository, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRepository, err)
	}

	s.logger.Info("opening repository", zap.String("path", absPath))

	repo, err := git.PlainOpen(absPath)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		s.logger.Warn("repository not found", zap.String("path", absPath))
		return nil, fmt.Errorf("%w: %s", ErrRepositoryNotFound, absPath)
	}
	if err != nil {
		s.logger.Error("failed to open repository", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrInvalidRepository, err)
	}

	if _, wtErr := repo.Worktree(); wtErr != nil {
		if errors.Is(wtErr, git.ErrIsBareRepository) {
			return nil, fmt.Errorf("%w: %s", ErrBareRepository, absPath)
		}
		s.logger.Error("failed to get worktree", zap.Error(wtErr))
		return nil, fmt.Errorf("%w: %w", ErrInvalidRepository, wtErr)
	}

	info := &Repository{
		Path:   absPath,
		Head:   "",
		Branch: "",
	}

	head, err := repo.Head()
	switch {
	case errors.Is(err, plumbing.ErrReferenceNotFound):
		// unborn branch, nothing committed yet
	case err != nil:
		s.logger.Error("failed to get HEAD", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrInvalidRepository, err)
	default:
		info.Head = head.Hash().String()
		info.Branch = "HEAD"
		if head.Name().IsBranch() {
			info.Branch = head.Name().Short()
		}
	}

	s.logger.Info("repository opened",
		zap.String("path", info.Path),
		zap.String("branch", info.Branch),
		zap.String("head", info.Head))

	return info, nil
}
