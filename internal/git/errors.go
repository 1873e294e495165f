package git

import "errors"

var (
	ErrRepositoryNotFound = errors.New("repository not found")
	ErrBareRepository     = errors.New("bare repository has no working tree")
	ErrInvalidRepository  = errors.New("invalid repository")
)
