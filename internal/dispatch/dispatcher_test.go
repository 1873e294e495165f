package dispatch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/gitstate/gitstate/internal/metrics"
	"github.com/gitstate/gitstate/internal/parser"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

type fakeExecutor struct {
	mu     sync.Mutex
	calls  []string
	output func(dir string, args []string) ([]byte, error)
}

func (f *fakeExecutor) Run(_ context.Context, dir string, args ...string) ([]byte, error) {
	f.mu.Lock()
	f.calls = append(f.calls, dir+": "+strings.Join(args, " "))
	f.mu.Unlock()

	return f.output(dir, args)
}

func (f *fakeExecutor) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func staticOutput(out string, err error) func(string, []string) ([]byte, error) {
	return func(string, []string) ([]byte, error) {
		if err != nil {
			return nil, err
		}
		return []byte(out), nil
	}
}

type recordingSender struct {
	mu       sync.Mutex
	messages []OutboundMessage
	err      error
}

func (s *recordingSender) Send(_ context.Context, _ Connection, msg OutboundMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.messages = append(s.messages, msg)
	return s.err
}

func newTestDispatcher(t *testing.T, executor Executor) *Dispatcher {
	t.Helper()

	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)

	return NewDispatcher(executor, m, zaptest.NewLogger(t), DefaultCommands()...)
}

func withRepo(path string) Connection {
	return Connection{ID: "conn-" + path, RepoPath: &path}
}

const logOutput = "commit aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa\nAuthor: A\nDate:   D\n\n    hello\n"

func TestDispatch_RepoPathNotSet(t *testing.T) {
	t.Parallel()

	empty := ""
	for _, conn := range []Connection{{ID: "nil"}, {ID: "empty", RepoPath: &empty}} {
		for _, name := range []string{"log", "status"} {
			executor := &fakeExecutor{output: staticOutput("", nil)}
			sender := &recordingSender{}
			d := newTestDispatcher(t, executor)

			require.NoError(t, d.Dispatch(context.Background(), conn, name, sender))

			assert.Equal(t, 0, executor.callCount(), "no subprocess may be spawned")
			require.Len(t, sender.messages, 1)
			assert.Equal(t, Failure{Reason: ReasonRepoPathNotSet}, sender.messages[0])
		}
	}
}

func TestDispatch_LogSuccess(t *testing.T) {
	t.Parallel()

	executor := &fakeExecutor{output: staticOutput(logOutput, nil)}
	sender := &recordingSender{}
	d := newTestDispatcher(t, executor)

	require.NoError(t, d.Dispatch(context.Background(), withRepo("/repo"), "log", sender))

	assert.Equal(t, []string{"/repo: log --pretty=medium --no-abbrev-commit --no-show-signature --no-notes --no-decorate --no-color"}, executor.calls)
	require.Len(t, sender.messages, 1)

	msg, ok := sender.messages[0].(Success)
	require.True(t, ok)
	assert.Equal(t, "log", msg.Command)
	assert.Equal(t, []parser.LogEntry{{
		CommitSHA:     strings.Repeat("a", 40),
		Author:        "A",
		Date:          "D",
		CommitMessage: "hello",
	}}, msg.Payload)
}

func TestDispatch_StatusSuccess(t *testing.T) {
	t.Parallel()

	executor := &fakeExecutor{output: staticOutput("? new.txt\n", nil)}
	sender := &recordingSender{}
	d := newTestDispatcher(t, executor)

	require.NoError(t, d.Dispatch(context.Background(), withRepo("/repo"), "status", sender))

	assert.Equal(t, []string{"/repo: status --porcelain=v2 --untracked-files=all"}, executor.calls)
	require.Len(t, sender.messages, 1)

	msg := sender.messages[0].(Success)
	result := msg.Payload.(parser.StatusResult)
	require.Len(t, result.Entries, 1)
	assert.Equal(t, parser.KindUntracked, result.Entries[0].Kind)
	assert.Equal(t, "new.txt", result.Entries[0].Path)
}

func TestDispatch_EmptyOutputPolicy(t *testing.T) {
	t.Parallel()

	t.Run("status_succeeds_empty", func(t *testing.T) {
		t.Parallel()

		sender := &recordingSender{}
		d := newTestDispatcher(t, &fakeExecutor{output: staticOutput("", nil)})

		require.NoError(t, d.Dispatch(context.Background(), withRepo("/repo"), "status", sender))
		require.Len(t, sender.messages, 1)
		assert.Equal(t, Success{Command: "status", Payload: parser.NewStatusResult()}, sender.messages[0])
	})

	t.Run("log_fails_parsing", func(t *testing.T) {
		t.Parallel()

		sender := &recordingSender{}
		d := newTestDispatcher(t, &fakeExecutor{output: staticOutput("", nil)})

		err := d.Dispatch(context.Background(), withRepo("/repo"), "log", sender)
		require.ErrorIs(t, err, ErrProcessParsing)
		require.ErrorIs(t, err, ErrEmptyOutput)
		assert.Empty(t, sender.messages)
	})
}

func TestDispatch_PipelineErrors(t *testing.T) {
	t.Parallel()

	spawnErr := errors.New("exec: git: not found")

	tests := []struct {
		name     string
		command  string
		output   func(string, []string) ([]byte, error)
		wantKind ProcessErrorKind
		wantErr  error
	}{
		{
			name:     "spawn_failure",
			command:  "log",
			output:   staticOutput("", spawnErr),
			wantKind: ProcessFailed,
			wantErr:  ErrProcessFailed,
		},
		{
			name:     "invalid_utf8",
			command:  "status",
			output:   staticOutput("? \xff\xfe\n", nil),
			wantKind: ProcessEncoding,
			wantErr:  ErrProcessEncoding,
		},
		{
			name:     "log_grammar_mismatch",
			command:  "log",
			output:   staticOutput("fatal: not a git repository\n", nil),
			wantKind: ProcessParsing,
			wantErr:  ErrProcessParsing,
		},
		{
			name:     "status_grammar_mismatch",
			command:  "status",
			output:   staticOutput("On branch main\n", nil),
			wantKind: ProcessParsing,
			wantErr:  ErrProcessParsing,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			sender := &recordingSender{}
			d := newTestDispatcher(t, &fakeExecutor{output: tt.output})

			err := d.Dispatch(context.Background(), withRepo("/repo"), tt.command, sender)
			require.ErrorIs(t, err, tt.wantErr)

			var procErr *ProcessError
			require.ErrorAs(t, err, &procErr)
			assert.Equal(t, tt.wantKind, procErr.Kind)
			assert.Equal(t, tt.command, procErr.Command)
			assert.Empty(t, sender.messages, "pipeline errors must not produce a message")
		})
	}
}

func TestDispatch_SpawnCauseIsKept(t *testing.T) {
	t.Parallel()

	cause := errors.New("permission denied")
	d := newTestDispatcher(t, &fakeExecutor{output: staticOutput("", cause)})

	err := d.Dispatch(context.Background(), withRepo("/repo"), "status", &recordingSender{})
	require.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrProcessParsing)
	assert.NotErrorIs(t, err, ErrProcessEncoding)
}

func TestDispatch_UnknownCommand(t *testing.T) {
	t.Parallel()

	executor := &fakeExecutor{output: staticOutput("", nil)}
	sender := &recordingSender{}
	d := newTestDispatcher(t, executor)

	err := d.Dispatch(context.Background(), withRepo("/repo"), "push", sender)
	require.ErrorIs(t, err, ErrUnknownCommand)
	assert.Equal(t, 0, executor.callCount())
	assert.Empty(t, sender.messages)
}

func TestDispatch_SendError(t *testing.T) {
	t.Parallel()

	sendErr := errors.New("connection closed")
	sender := &recordingSender{err: sendErr}
	d := newTestDispatcher(t, &fakeExecutor{output: staticOutput(logOutput, nil)})

	err := d.Dispatch(context.Background(), withRepo("/repo"), "log", sender)
	require.ErrorIs(t, err, sendErr)

	var procErr *ProcessError
	assert.False(t, errors.As(err, &procErr), "transport failures are not pipeline errors")
	assert.Len(t, sender.messages, 1)
}

func TestDispatch_ConcurrentConnectionsAreIsolated(t *testing.T) {
	t.Parallel()

	executor := &fakeExecutor{output: func(dir string, _ []string) ([]byte, error) {
		return []byte("? " + strings.TrimPrefix(dir, "/") + ".txt\n"), nil
	}}
	d := newTestDispatcher(t, executor)

	const n = 32

	var wg sync.WaitGroup
	senders := make([]*recordingSender, n)
	errs := make([]error, n)
	for i := range n {
		senders[i] = &recordingSender{}
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = d.Dispatch(context.Background(), withRepo(fmt.Sprintf("/repo%d", i)), "status", senders[i])
		}()
	}
	wg.Wait()

	for i := range n {
		require.NoError(t, errs[i])
		require.Len(t, senders[i].messages, 1)

		result := senders[i].messages[0].(Success).Payload.(parser.StatusResult)
		require.Len(t, result.Entries, 1)
		assert.Equal(t, fmt.Sprintf("repo%d.txt", i), result.Entries[0].Path)
	}
	assert.Equal(t, n, executor.callCount())
}

func TestDispatcher_Commands(t *testing.T) {
	t.Parallel()

	d := newTestDispatcher(t, &fakeExecutor{output: staticOutput("", nil)})
	assert.Equal(t, []string{"log", "status"}, d.Commands())
}

func TestDispatch_CustomCommand(t *testing.T) {
	t.Parallel()

	m, err := metrics.New(prometheus.NewRegistry())
	require.NoError(t, err)

	branches := Command{
		Name:        "branches",
		Args:        []string{"branch", "--format=%(refname:short)"},
		EmptyOutput: EmptyOutputSucceeds,
		Empty:       func() any { return []string{} },
		Parse: func(output string) (any, error) {
			return strings.Fields(output), nil
		},
	}

	d := NewDispatcher(&fakeExecutor{output: staticOutput("", nil)}, m, zaptest.NewLogger(t), branches)
	sender := &recordingSender{}

	require.NoError(t, d.Dispatch(context.Background(), withRepo("/repo"), "branches", sender))
	assert.Equal(t, Success{Command: "branches", Payload: []string{}}, sender.messages[0])
}
