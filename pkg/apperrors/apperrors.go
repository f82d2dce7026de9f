package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an application error so callers can react to it
// programmatically regardless of the message text.
type Kind string

const (
	// KindValidation means the input was malformed or missing; nothing was written.
	KindValidation Kind = "validation"
	// KindConfiguration means required reference data is absent (e.g. no
	// verification stages are configured).
	KindConfiguration Kind = "configuration"
	// KindInvalidState means the operation violates the entity's current state
	// (e.g. retiring an already-retired credit).
	KindInvalidState Kind = "invalid_state"
	// KindNotFound means a referenced entity does not exist.
	KindNotFound Kind = "not_found"
	// KindConflict means a persistence constraint rejected the write (e.g. a
	// duplicate serial number). Callers may retry with regenerated values.
	KindConflict Kind = "conflict"
)

// Error is a machine-readable application error.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Validation(format string, args ...interface{}) *Error {
	return New(KindValidation, fmt.Sprintf(format, args...))
}

func Configuration(format string, args ...interface{}) *Error {
	return New(KindConfiguration, fmt.Sprintf(format, args...))
}

func InvalidState(format string, args ...interface{}) *Error {
	return New(KindInvalidState, fmt.Sprintf(format, args...))
}

func NotFound(format string, args ...interface{}) *Error {
	return New(KindNotFound, fmt.Sprintf(format, args...))
}

func Conflict(format string, args ...interface{}) *Error {
	return New(KindConflict, fmt.Sprintf(format, args...))
}

// KindOf returns the kind of err, or an empty Kind if err is not an *Error.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return ""
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}
