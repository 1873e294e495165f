package sessions

import (
	"context"

	"github.com/gitstate/gitstate/internal/git"
)

// gitAdapter adapts git.Service to RepositoryValidator.
type gitAdapter struct {
	gitSvc *git.Service
}

func NewGitAdapter(gitSvc *git.Service) RepositoryValidator {
	return &gitAdapter{gitSvc: gitSvc}
}

// Validate implements RepositoryValidator.
func (a *gitAdapter) Validate(ctx context.Context, path string) (string, error) {
	repo, err := a.gitSvc.Open(ctx, path)
	if err != nil {
		return "", err //nolint:wrapcheck //wrapped by the service
	}

	return repo.Path, nil
}
