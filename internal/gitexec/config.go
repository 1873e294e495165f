package gitexec

import "time"

type Config struct {
	// Binary is the git executable, looked up in PATH when not absolute.
	Binary string
	// Timeout bounds a single invocation. Zero leaves it to the caller's context.
	Timeout time.Duration
}
