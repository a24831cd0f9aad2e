package workflow

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies why a workflow run did not complete. Kind is carried on
// Error and surfaced through WorkflowSummary so callers can branch on
// failure category without string matching.
type Kind string

const (
	KindValidationFailed   Kind = "validation_failed"
	KindExecutionFailed    Kind = "execution_failed"
	KindTimeout            Kind = "timeout"
	KindCancelled          Kind = "cancelled"
	KindPrivilegeDenied    Kind = "privilege_denied"
	KindRollbackIncomplete Kind = "rollback_incomplete"
	KindDisposalLeak       Kind = "disposal_leak"
	KindCallerError        Kind = "caller_error"
)

// Error is the workflow package's error type. It carries a Kind for
// programmatic branching and wraps an underlying cause, if any, via
// github.com/pkg/errors so Cause() and the %+v stack trace verb both work
// across the chain.
type Error struct {
	Kind    Kind
	Step    string
	Message string
	cause   error
}

func newError(kind Kind, message string, cause error) *Error {
	return &Error{Kind: kind, Message: message, cause: cause}
}

// forStep attaches the offending step's effective name, returning a new
// Error so the original is never mutated out from under another caller.
func (e *Error) forStep(name string) *Error {
	return &Error{Kind: e.Kind, Step: name, Message: e.Message, cause: e.cause}
}

func (e *Error) Error() string {
	if e.Step != "" {
		return fmt.Sprintf("%s: %s: %s", e.Step, e.Kind, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Cause implements the github.com/pkg/errors Causer interface, so
// errors.Cause(err) unwraps to the underlying failure (a shell exit error,
// a timed-out context, and so on).
func (e *Error) Cause() error {
	return e.cause
}

// Unwrap supports the standard library's errors.Is/As as well.
func (e *Error) Unwrap() error {
	return e.cause
}

// wrapf builds an Error whose cause is annotated with github.com/pkg/errors,
// preserving a stack trace at the wrap site.
func wrapf(kind Kind, cause error, format string, args ...any) *Error {
	msg := fmt.Sprintf(format, args...)
	if cause == nil {
		return newError(kind, msg, nil)
	}
	return newError(kind, msg, errors.Wrap(cause, msg))
}

// IsKind reports whether err is a *Error of the given kind, unwrapping
// standard wrapping along the way.
func IsKind(err error, kind Kind) bool {
	var werr *Error
	if errors.As(err, &werr) {
		return werr.Kind == kind
	}
	return false
}
