package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseConfig  Phase = "config"  // driver configuration
	PhaseCompile Phase = "compile" // driver module compilation
	PhaseLink    Phase = "link"    // link invocation
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidData   Kind = "invalid_data"
	KindUnsupported   Kind = "unsupported"
	KindNotFound      Kind = "not_found"
	KindInstantiation Kind = "instantiation"
)

// Error is the structured error type used for everything the bridge
// reports as a Go error rather than through a link Result.
type Error struct {
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Convenience constructors for common error patterns

// InvalidData creates an invalid data error
func InvalidData(phase Phase, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Instantiation creates a driver instantiation error
func Instantiation(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLink,
		Kind:   KindInstantiation,
		Detail: detail,
		Cause:  cause,
	}
}

// CompileFailed creates a driver module compilation error
func CompileFailed(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseCompile,
		Kind:   KindInvalidData,
		Detail: detail,
		Cause:  cause,
	}
}
