package apperr

import (
	"errors"
)

// Kind classifies an application error for the action boundary.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindAuthorization
	KindConflict
	KindStore
)

// String returns the lowercase kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindAuthorization:
		return "authorization"
	case KindConflict:
		return "conflict"
	case KindStore:
		return "store"
	default:
		return "unknown"
	}
}

// Error is a classified error carrying a user-safe message.
// The wrapped cause (if any) is for logs only and never shown to users.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error returns the user-safe message.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap exposes the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Validation reports malformed or missing input.
func Validation(msg string) error {
	return &Error{Kind: KindValidation, Message: msg}
}

// NotFound reports a referenced id that does not exist.
func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Unauthorized reports a failed role or ownership check.
func Unauthorized(msg string) error {
	return &Error{Kind: KindAuthorization, Message: msg}
}

// Conflict reports a violated state precondition.
func Conflict(msg string) error {
	return &Error{Kind: KindConflict, Message: msg}
}

// Store reports a persistence failure. cause is kept for logging.
func Store(msg string, cause error) error {
	return &Error{Kind: KindStore, Message: msg, Err: cause}
}

// KindOf returns the kind of the first classified error in err's chain.
// PRE: none
// POST: KindUnknown for nil or unclassified errors
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Message returns the user-safe message of a classified error, or fallback.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}
