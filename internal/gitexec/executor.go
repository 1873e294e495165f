package gitexec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultBinary = "git"
	// waitDelay bounds how long output pipes are drained after the process is killed.
	waitDelay = 2 * time.Second
)

// Executor runs git subprocesses scoped to a repository directory.
type Executor struct {
	config Config

	logger *zap.Logger
}

func NewExecutor(config Config, logger *zap.Logger) *Executor {
	if config.Binary == "" {
		config.Binary = defaultBinary
	}

	return &Executor{
		config: config,
		logger: logger,
	}
}

// Run executes git with args inside dir and returns the captured stdout.
// The process is killed when ctx is done.
func (e *Executor) Run(ctx context.Context, dir string, args ...string) ([]byte, error) {
	if dir == "" {
		return nil, ErrRepoPathEmpty
	}

	if e.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.Timeout)
		defer cancel()
	}

	logger := e.logger.With(zap.String("dir", dir), zap.Strings("args", args))
	logger.Debug("running git")

	cmd := exec.CommandContext(ctx, e.config.Binary, args...)
	cmd.Dir = dir
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	started := time.Now()
	if err := cmd.Start(); err != nil {
		logger.Error("failed to start git", zap.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrSpawnFailed, err)
	}

	if err := cmd.Wait(); err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			logger.Warn("git timed out", zap.Duration("elapsed", time.Since(started)))
			return nil, fmt.Errorf("%w: %w", ErrTimeout, ctx.Err())
		}

		msg := strings.TrimSpace(stderr.String())
		logger.Warn("git failed", zap.Error(err), zap.String("stderr", msg))

		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, fmt.Errorf("%w: exit code %d: %s", ErrExitStatus, exitErr.ExitCode(), msg)
		}

		return nil, fmt.Errorf("%w: %w", ErrExitStatus, err)
	}

	logger.Debug("git finished",
		zap.Duration("elapsed", time.Since(started)),
		zap.Int("stdout_bytes", stdout.Len()))

	return stdout.Bytes(), nil
}
