package dispatch

import "github.com/gitstate/gitstate/internal/parser"

// EmptyOutputPolicy decides what zero-length subprocess output means for a
// command.
type EmptyOutputPolicy int

const (
	// EmptyOutputFails treats empty output as malformed.
	EmptyOutputFails EmptyOutputPolicy = iota
	// EmptyOutputSucceeds sends Success with the command's empty payload.
	EmptyOutputSucceeds
)

type Command struct {
	Name        string
	Args        []string
	EmptyOutput EmptyOutputPolicy
	// Empty builds the payload for EmptyOutputSucceeds.
	Empty func() any
	Parse func(output string) (any, error)
}

// LogCommand runs `git log` with the medium format pinned so that user
// configuration (format.pretty, log.abbrevCommit, notes, signatures) cannot
// change the layout the parser reads.
func LogCommand() Command {
	args := []string{
		"log", "--pretty=medium", "--no-abbrev-commit", "--no-show-signature",
		"--no-notes", "--no-decorate", "--no-color",
	}

	return Command{
		Name:        "log",
		Args:        args,
		EmptyOutput: EmptyOutputFails,
		Empty:       nil,
		Parse: func(output string) (any, error) {
			entries, err := parser.ParseLog(output)
			if err != nil {
				return nil, err
			}
			return entries, nil
		},
	}
}

func StatusCommand() Command {
	return Command{
		Name:        "status",
		Args:        []string{"status", "--porcelain=v2", "--untracked-files=all"},
		EmptyOutput: EmptyOutputSucceeds,
		Empty:       func() any { return parser.NewStatusResult() },
		Parse: func(output string) (any, error) {
			result, err := parser.ParseStatus(output)
			if err != nil {
				return nil, err
			}
			return result, nil
		},
	}
}

func DefaultCommands() []Command {
	return []Command{LogCommand(), StatusCommand()}
}
