package jsongraph

import (
	"errors"
	"fmt"
)

// ErrMalformed is wrapped by every error describing a bad document.
var ErrMalformed = errors.New("malformed graph document")

// ParseError reports the first problem found in a document.
type ParseError struct {
	Field  string // Path of the offending field, e.g. "nodes[3].in_nodes"
	Reason string
	Value  any // The offending value, if any
}

func (e *ParseError) Error() string {
	if e.Value == nil {
		return fmt.Sprintf("field %q: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("field %q: %s (got %v)", e.Field, e.Reason, e.Value)
}

func (e *ParseError) Unwrap() error { return ErrMalformed }

func parseErr(field, reason string, args ...any) *ParseError {
	return &ParseError{Field: field, Reason: fmt.Sprintf(reason, args...)}
}
