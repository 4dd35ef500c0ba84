package agents

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrorKind classifies why a model invocation failed.
type ErrorKind string

const (
	KindTimeout         ErrorKind = "timeout"
	KindInvalidResponse ErrorKind = "invalid_response"
	KindRateLimited     ErrorKind = "rate_limited"
	KindValidation      ErrorKind = "validation_error"
	KindUnknown         ErrorKind = "unknown"
)

// Error is the typed failure every invoker returns. Remote-call faults are
// normalized here at the invoker boundary and never propagate raw.
type Error struct {
	Agent string
	Kind  ErrorKind
	Err   error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Agent, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Agent, e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(agent string, kind ErrorKind, err error) *Error {
	return &Error{Agent: agent, Kind: kind, Err: err}
}

func validationError(agent, msg string) *Error {
	return &Error{Agent: agent, Kind: KindValidation, Err: errors.New(msg)}
}

// KindOf extracts the failure classification from any error.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// classifyCallError maps transport-level faults onto the taxonomy.
func classifyCallError(agent string, err error) *Error {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return newError(agent, KindTimeout, err)
	case isNetTimeout(err):
		return newError(agent, KindTimeout, err)
	default:
		return newError(agent, KindUnknown, err)
	}
}

func isNetTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
