package gitexec

import "errors"

var (
	ErrRepoPathEmpty = errors.New("repository path is empty")
	ErrSpawnFailed   = errors.New("failed to start git")
	ErrExitStatus    = errors.New("git exited with non-zero status")
	ErrTimeout       = errors.New("git timed out")
)
