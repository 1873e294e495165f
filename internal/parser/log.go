package parser

import (
	"fmt"
	"strings"
)

const (
	recordSeparator = "\n\n"
	messageIndent   = "    "
)

// LogEntry is one commit stanza of `git log` default output.
type LogEntry struct {
	CommitSHA     string   `json:"commit_sha"`
	Author        string   `json:"author"`
	Date          string   `json:"date"`
	CommitMessage string   `json:"commit_message"`
	MergeParents  []string `json:"merge_parents,omitempty"`
}

// ParseLog parses the full output of `git log`. Stanzas are returned in input
// order. A malformed stanza anywhere fails the whole batch, and so does any
// content after the last stanza other than newlines.
func ParseLog(input string) ([]LogEntry, error) {
	if input == "" {
		return nil, &ParseError{Format: FormatLog, Err: ErrEmptyInput}
	}

	var entries []LogEntry

	rest := input
	for {
		next, entry, err := logEntry(rest)
		if err != nil {
			return nil, &ParseError{Format: FormatLog, Position: len(entries) + 1, Err: err}
		}
		entries = append(entries, entry)

		if strings.Trim(next, "\n") == "" {
			return entries, nil
		}

		rest, err = tag(next, recordSeparator)
		if err != nil {
			return nil, &ParseError{
				Format:   FormatLog,
				Position: len(entries),
				Err:      fmt.Errorf("%w: %q", ErrTrailingInput, abbreviate(next)),
			}
		}
	}
}

func logEntry(input string) (string, LogEntry, error) {
	var entry LogEntry

	rest, err := tag(input, "commit ")
	if err != nil {
		return input, entry, err
	}

	if rest, entry.CommitSHA, err = Hash(rest); err != nil {
		return input, entry, fmt.Errorf("commit: %w", err)
	}
	if rest, err = tag(rest, "\n"); err != nil {
		return input, entry, fmt.Errorf("commit: %w", err)
	}

	if after, ok := strings.CutPrefix(rest, "Merge: "); ok {
		var parents string
		if rest, parents, err = takeUntil(after, "\n"); err != nil {
			return input, entry, fmt.Errorf("merge: %w", err)
		}
		entry.MergeParents = strings.Fields(parents)
		rest = rest[1:]
	}

	if rest, entry.Author, err = field(rest, "Author: "); err != nil {
		return input, entry, fmt.Errorf("author: %w", err)
	}
	if rest, err = tag(rest, "\n"); err != nil {
		return input, entry, fmt.Errorf("author: %w", err)
	}

	if rest, entry.Date, err = field(rest, "Date:   "); err != nil {
		return input, entry, fmt.Errorf("date: %w", err)
	}

	// git prints no body at all for a commit with an empty message.
	if body, ok := strings.CutPrefix(rest, "\n\n"+messageIndent); ok {
		rest, entry.CommitMessage = message(body)
	}

	return rest, entry, nil
}

func field(input, label string) (string, string, error) {
	rest, err := tag(input, label)
	if err != nil {
		return input, "", err
	}

	return takeUntil(rest, "\n")
}

// message consumes the indented commit message body. The body runs over
// indented lines and over blank lines that are followed by another indented
// line; the first unindented line (the next "commit " stanza) ends it. The
// indent git adds to every body line is stripped.
func message(input string) (string, string) {
	end := lineEnd(input, 0)
	for pos := end; pos < len(input); {
		next := pos + 1
		for next < len(input) && input[next] == '\n' {
			next++
		}
		if !strings.HasPrefix(input[next:], messageIndent) {
			break
		}

		pos = lineEnd(input, next)
		end = pos
	}

	lines := strings.Split(input[:end], "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = strings.TrimPrefix(lines[i], messageIndent)
	}

	return input[end:], strings.Join(lines, "\n")
}

func lineEnd(s string, from int) int {
	if idx := strings.IndexByte(s[from:], '\n'); idx >= 0 {
		return from + idx
	}

	return len(s)
}

func abbreviate(s string) string {
	const limit = 32
	if len(s) <= limit {
		return s
	}

	return s[:limit] + "..."
}
