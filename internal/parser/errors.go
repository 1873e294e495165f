package parser

import (
	"errors"
	"fmt"
)

var (
	ErrNoMatch       = errors.New("no match")
	ErrEmptyInput    = errors.New("empty input")
	ErrTrailingInput = errors.New("unexpected trailing input")
	ErrUnknownLine   = errors.New("unknown line shape")
	ErrMalformedLine = errors.New("malformed line")
)

type Format string

const (
	FormatLog    Format = "log"
	FormatStatus Format = "status"
)

// ParseError reports where a batch failed. Position is the 1-based record
// (log) or line (status) number; zero means the input as a whole.
type ParseError struct {
	Format   Format
	Position int
	Err      error
}

func (e *ParseError) Error() string {
	if e.Position == 0 {
		return fmt.Sprintf("parse %s: %v", e.Format, e.Err)
	}

	unit := "record"
	if e.Format == FormatStatus {
		unit = "line"
	}

	return fmt.Sprintf("parse %s: %s %d: %v", e.Format, unit, e.Position, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
