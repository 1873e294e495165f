package dispatch

import "context"

// Connection is the per-connection state a dispatch reads. It is never
// modified by the dispatcher.
type Connection struct {
	ID string
	// RepoPath is the repository to operate on; nil when not configured.
	RepoPath *string
}

func (c Connection) repoPath() (string, bool) {
	if c.RepoPath == nil || *c.RepoPath == "" {
		return "", false
	}

	return *c.RepoPath, true
}

// Executor runs the external version-control tool inside dir and returns its
// captured stdout. Spawn failures and non-zero exits are both errors.
type Executor interface {
	Run(ctx context.Context, dir string, args ...string) ([]byte, error)
}

// Sender delivers an outbound message to the remote peer.
type Sender interface {
	Send(ctx context.Context, conn Connection, msg OutboundMessage) error
}

// SenderFunc adapts a function to Sender.
type SenderFunc func(ctx context.Context, conn Connection, msg OutboundMessage) error

func (f SenderFunc) Send(ctx context.Context, conn Connection, msg OutboundMessage) error {
	return f(ctx, conn, msg)
}
