package graph

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is returned (or raised) for builder misuse: mutating a
// finalized factory, observing a non-sample node, querying a foreign node,
// wrong input arity or input family, or a bad depth bound.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrInternal marks an internal-consistency defect, such as a node of an
// unknown kind reaching an evaluator, or an input evaluated out of order.
var ErrInternal = errors.New("internal consistency error")

// Error describes a failed graph operation.
type Error struct {
	Kind error  // ErrInvalidArgument or ErrInternal
	Op   string // Operation that failed, e.g. "factory.observe"
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Kind, e.Msg)
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func invalidArgument(op, format string, args ...any) *Error {
	return &Error{Kind: ErrInvalidArgument, Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Internal builds an internal-consistency error. Evaluators panic with it.
func Internal(op, format string, args ...any) *Error {
	return &Error{Kind: ErrInternal, Op: op, Msg: fmt.Sprintf(format, args...)}
}
