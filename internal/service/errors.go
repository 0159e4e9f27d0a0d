package service

import (
	"errors"
	"fmt"
)

// Kind classifies a service failure. The handler layer maps kinds to HTTP
// status codes exactly once; nothing below the handler knows about HTTP.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindForbidden
	KindUnauthorized
)

// Error is the single failure type returned by service operations. Fields
// carries per-field validation messages; Err carries the underlying cause
// for operator logs and is never surfaced to callers.
type Error struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation builds a field-level validation error.
func Validation(fields map[string]string) *Error {
	return &Error{Kind: KindValidation, Message: "validation failed", Fields: fields}
}

// Validationf builds a single-message validation error.
func Validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// Conflict builds a unique-key violation error.
func Conflict(msg string) *Error {
	return &Error{Kind: KindConflict, Message: msg}
}

// NotFound builds a missing-record error.
func NotFound(msg string) *Error {
	return &Error{Kind: KindNotFound, Message: msg}
}

// Forbidden builds an authenticated-but-not-permitted error.
func Forbidden(msg string) *Error {
	return &Error{Kind: KindForbidden, Message: msg}
}

// Unauthorized builds a missing-or-invalid-identity error.
func Unauthorized(msg string) *Error {
	return &Error{Kind: KindUnauthorized, Message: msg}
}

// Internal wraps an unexpected failure. The message is what the caller
// sees; err holds the detail for the logs.
func Internal(err error, msg string) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// KindOf extracts the kind from err, defaulting to KindInternal for
// anything that is not a service error.
func KindOf(err error) Kind {
	var se *Error
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindInternal
}
