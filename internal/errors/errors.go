package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Error codes for categorizing failures. Only ErrFatalIO ends the program;
// every other class degrades the affected display element.
const (
	ErrReadUnavailable = "READ_UNAVAILABLE"
	ErrReadTransient   = "READ_TRANSIENT"
	ErrReadRace        = "READ_RACE"
	ErrRenderTooSmall  = "RENDER_TOO_SMALL"
	ErrActionFailed    = "ACTION_FAILED"
	ErrFatalIO         = "FATAL_IO"
	ErrConfig          = "CONFIG"
)

// Sentinels shared between collectors and the dispatcher.
var (
	// ErrUnavailable marks a subsystem that is absent on this host (no battery).
	ErrUnavailable = New(ErrReadUnavailable, "subsystem unavailable", "")
	// ErrProcessNotFound means the pid vanished before or during the operation.
	ErrProcessNotFound = New(ErrReadRace, "process not found", "")
	// ErrPermissionDenied means the OS refused access to a process.
	ErrPermissionDenied = New(ErrReadTransient, "permission denied", "Run brtop as the process owner or root")
)

// Error represents a structured error with code, message, suggestion, and optional cause.
//
//	✗ <What failed>
//
//	  <Why it failed>
//
//	  <How to fix it>
type Error struct {
	Code       string
	Message    string
	Suggestion string
	Cause      error
}

// New creates a new structured error with the given code, message, and suggestion.
func New(code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
	}
}

// WrapWithCode wraps an existing error with a specific code, message, and suggestion.
func WrapWithCode(err error, code, message, suggestion string) *Error {
	return &Error{
		Code:       code,
		Message:    message,
		Suggestion: suggestion,
		Cause:      err,
	}
}

func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("✗ %s\n", e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Cause.Error()))
	}

	if e.Suggestion != "" {
		b.WriteString(fmt.Sprintf("\n  %s\n", e.Suggestion))
	}

	return b.String()
}

// Short returns the message and cause on one line, for status bars.
func (e *Error) Short() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap returns the underlying cause for use with errors.Is/errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches another *Error by code and message so wrapped sentinels compare equal.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Message == t.Message
}

// IsCode checks if an error is a structured Error with the given code.
func IsCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Code == code
	}
	return false
}

// Summary returns a single-line description of err suitable for a status line.
func Summary(err error) string {
	if err == nil {
		return ""
	}
	var se *Error
	if errors.As(err, &se) {
		return se.Short()
	}
	return strings.TrimSpace(strings.SplitN(err.Error(), "\n", 2)[0])
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return errors.Is(err, target) }
