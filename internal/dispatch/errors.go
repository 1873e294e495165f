package dispatch

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrEmptyOutput    = errors.New("empty output")

	ErrProcessFailed   = errors.New("process failed")
	ErrProcessEncoding = errors.New("process output is not valid UTF-8")
	ErrProcessParsing  = errors.New("process output could not be parsed")
)

// ProcessErrorKind identifies the pipeline stage a dispatch failed at.
type ProcessErrorKind int

const (
	ProcessFailed ProcessErrorKind = iota + 1
	ProcessEncoding
	ProcessParsing
)

func (k ProcessErrorKind) String() string {
	switch k {
	case ProcessFailed:
		return "Failed"
	case ProcessEncoding:
		return "Encoding"
	case ProcessParsing:
		return "Parsing"
	}

	return fmt.Sprintf("ProcessErrorKind(%d)", int(k))
}

func (k ProcessErrorKind) sentinel() error {
	switch k {
	case ProcessFailed:
		return ErrProcessFailed
	case ProcessEncoding:
		return ErrProcessEncoding
	case ProcessParsing:
		return ErrProcessParsing
	}

	return nil
}

// ProcessError is a pipeline failure. It is returned to the caller and never
// turned into an outbound message. errors.Is matches both the kind's sentinel
// and the underlying cause.
type ProcessError struct {
	Kind    ProcessErrorKind
	Command string
	Err     error
}

func (e *ProcessError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Command, e.Kind.sentinel(), e.Err)
}

func (e *ProcessError) Unwrap() []error {
	return []error{e.Kind.sentinel(), e.Err}
}
