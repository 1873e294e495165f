package sessions

import "errors"

var (
	ErrNotFound        = errors.New("session not found")
	ErrInvalidRepoPath = errors.New("invalid repository path")
)
