// Package parser turns git's line-oriented output into typed records.
//
// Every parser here is a pure function of its input. The small helpers in
// this file follow the usual combinator shape: they take the remaining input
// and return what is left after the match, leaving the input untouched on
// failure so callers may try an alternative.
package parser

import (
	"fmt"
	"strings"
)

// HashLength is the length of a hex-encoded SHA-1 object id.
const HashLength = 40

// Hash recognizes a full object id at the start of input.
func Hash(input string) (string, string, error) {
	if len(input) < HashLength {
		return input, "", fmt.Errorf("%w: hash needs %d hex characters, got %d", ErrNoMatch, HashLength, len(input))
	}

	for i := range HashLength {
		if !isHex(input[i]) {
			return input, "", fmt.Errorf("%w: non-hex character %q at hash offset %d", ErrNoMatch, input[i], i)
		}
	}

	return input[HashLength:], input[:HashLength], nil
}

func tag(input, literal string) (string, error) {
	rest, ok := strings.CutPrefix(input, literal)
	if !ok {
		return input, fmt.Errorf("%w: expected %q", ErrNoMatch, literal)
	}

	return rest, nil
}

// takeUntil returns everything before delim. The delimiter itself is left in
// the remaining input.
func takeUntil(input, delim string) (string, string, error) {
	idx := strings.Index(input, delim)
	if idx < 0 {
		return input, "", fmt.Errorf("%w: missing %q", ErrNoMatch, delim)
	}

	return input[idx:], input[:idx], nil
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func isObjectID(s string) bool {
	rest, _, err := Hash(s)
	return err == nil && rest == ""
}
