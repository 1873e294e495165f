package dispatch

import (
	"context"
	"fmt"
	"slices"
	"time"
	"unicode/utf8"

	"github.com/gitstate/gitstate/internal/metrics"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Dispatcher runs registered commands end to end: precondition, subprocess,
// decoding, parsing and the hand-off of exactly one outbound message.
// It holds no per-dispatch state and is safe for concurrent use.
type Dispatcher struct {
	commands map[string]Command
	executor Executor

	metrics *metrics.Metrics
	logger  *zap.Logger
}

func NewDispatcher(executor Executor, metrics *metrics.Metrics, logger *zap.Logger, commands ...Command) *Dispatcher {
	return &Dispatcher{
		commands: lo.SliceToMap(commands, func(c Command) (string, Command) { return c.Name, c }),
		executor: executor,

		metrics: metrics,
		logger:  logger,
	}
}

// Commands returns the registered command names in sorted order.
func (d *Dispatcher) Commands() []string {
	names := lo.Keys(d.commands)
	slices.Sort(names)
	return names
}

// Dispatch handles one inbound command request for conn. Pipeline failures
// are returned as *ProcessError and no message is sent for them. Sender
// errors are returned wrapped.
func (d *Dispatcher) Dispatch(ctx context.Context, conn Connection, name string, sender Sender) error {
	cmd, ok := d.commands[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCommand, name)
	}

	logger := d.logger.With(zap.String("command", name), zap.String("connection", conn.ID))

	started := time.Now()
	outcome, err := d.dispatch(ctx, conn, cmd, sender)
	d.metrics.ObserveDispatch(name, outcome, time.Since(started))

	if err != nil {
		logger.Warn("dispatch failed", zap.String("outcome", outcome), zap.Error(err))
		return err
	}

	logger.Debug("dispatch finished", zap.String("outcome", outcome))
	return nil
}

func (d *Dispatcher) dispatch(ctx context.Context, conn Connection, cmd Command, sender Sender) (string, error) {
	repoPath, ok := conn.repoPath()
	if !ok {
		if err := sender.Send(ctx, conn, Failure{Reason: ReasonRepoPathNotSet}); err != nil {
			return metrics.OutcomeSendFailed, fmt.Errorf("failed to send message: %w", err)
		}
		return metrics.OutcomeRepoPathNotSet, nil
	}

	output, err := d.executor.Run(ctx, repoPath, cmd.Args...)
	if err != nil {
		return metrics.OutcomeFailed, &ProcessError{Kind: ProcessFailed, Command: cmd.Name, Err: err}
	}

	if !utf8.Valid(output) {
		return metrics.OutcomeEncoding, &ProcessError{
			Kind:    ProcessEncoding,
			Command: cmd.Name,
			Err:     fmt.Errorf("%d bytes of output", len(output)),
		}
	}

	payload, err := d.parse(cmd, string(output))
	if err != nil {
		return metrics.OutcomeParsing, &ProcessError{Kind: ProcessParsing, Command: cmd.Name, Err: err}
	}

	if sendErr := sender.Send(ctx, conn, Success{Command: cmd.Name, Payload: payload}); sendErr != nil {
		return metrics.OutcomeSendFailed, fmt.Errorf("failed to send message: %w", sendErr)
	}

	return metrics.OutcomeSuccess, nil
}

func (d *Dispatcher) parse(cmd Command, output string) (any, error) {
	if len(output) > 0 {
		return cmd.Parse(output)
	}

	switch cmd.EmptyOutput {
	case EmptyOutputSucceeds:
		if cmd.Empty == nil {
			return nil, nil
		}
		return cmd.Empty(), nil
	case EmptyOutputFails:
		return nil, ErrEmptyOutput
	}

	return nil, fmt.Errorf("unknown empty output policy %d", cmd.EmptyOutput)
}
