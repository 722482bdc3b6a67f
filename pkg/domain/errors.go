package domain

import (
	"errors"
	"fmt"
)

// ErrImmutabilityViolation is returned when an immutable Context is mutated directly.
var ErrImmutabilityViolation = errors.New("immutability violation")

// ErrDuplicateLink is returned when a link name is registered twice on the same chain.
var ErrDuplicateLink = errors.New("duplicate link")

// ErrUnknownLink is returned when a connection or middleware scope references a link the chain does not have.
var ErrUnknownLink = errors.New("unknown link")

// ErrInvalidArgument is returned for nil links, middleware or conditions.
var ErrInvalidArgument = errors.New("invalid argument")

// ErrEmptyChain is returned when a chain without links is run.
var ErrEmptyChain = errors.New("chain has no links")

// ErrNilContext is recorded when a link returns neither a context nor an error.
var ErrNilContext = errors.New("link returned nil context")

// ErrStepLimitExceeded is recorded when a run visits more links than the chain allows.
var ErrStepLimitExceeded = errors.New("step limit exceeded")

// BusinessError is a failure a link flags deliberately, without raising.
type BusinessError struct {
	Message string `json:"message" yaml:"message"`
	Code    string `json:"code,omitempty" yaml:"code,omitempty"`
}

func (e BusinessError) Error() string {
	if e.Code == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// UnhandledException wraps a failure raised by link code: a returned error,
// a recovered panic or a cancellation.
type UnhandledException struct {
	Link  string
	Err   error
	Panic any // recovered value, nil unless the link panicked
}

func (e *UnhandledException) Error() string {
	if e.Panic != nil {
		return fmt.Sprintf("link %q panicked: %v", e.Link, e.Err)
	}
	return fmt.Sprintf("link %q failed: %v", e.Link, e.Err)
}

func (e *UnhandledException) Unwrap() error { return e.Err }

// StructuralError reports an invalid chain construction or mutation.
// It is always returned at registration time.
type StructuralError struct {
	Op      string // "add_link", "connect", "use"
	Subject string // the link or middleware name involved
	Err     error
}

func (e *StructuralError) Error() string {
	if e.Subject == "" {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.Subject, e.Err)
}

func (e *StructuralError) Unwrap() error { return e.Err }

// MiddlewareObservationError wraps an error or panic raised by a middleware hook.
// It is logged and reported, never propagated.
type MiddlewareObservationError struct {
	Middleware string
	Link       string
	Placement  Placement
	Err        error
}

func (e *MiddlewareObservationError) Error() string {
	return fmt.Sprintf("middleware %q at %s[%d] on link %q: %v",
		e.Middleware, e.Placement.Position, e.Placement.Index, e.Link, e.Err)
}

func (e *MiddlewareObservationError) Unwrap() error { return e.Err }

// NewStructuralError builds a StructuralError.
func NewStructuralError(op, subject string, err error) error {
	return &StructuralError{Op: op, Subject: subject, Err: err}
}
