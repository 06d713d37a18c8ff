package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists indicates a uniqueness constraint was violated.
	ErrAlreadyExists = errors.New("already exists")
	// ErrValidation marks invalid input or a violated invariant.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized marks a caller that may not perform the operation.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrDatabase wraps persistence failures that are not domain outcomes.
	ErrDatabase = errors.New("database error")
)

// Error is a domain failure carrying a message safe to show to clients.
// It unwraps to one of the sentinel kinds above.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

// Validationf builds an ErrValidation error.
func Validationf(format string, args ...any) error {
	return &Error{Kind: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFoundf builds an ErrNotFound error.
func NotFoundf(format string, args ...any) error {
	return &Error{Kind: ErrNotFound, Message: fmt.Sprintf(format, args...)}
}

// Conflictf builds an ErrAlreadyExists error.
func Conflictf(format string, args ...any) error {
	return &Error{Kind: ErrAlreadyExists, Message: fmt.Sprintf(format, args...)}
}

// Unauthorizedf builds an ErrUnauthorized error.
func Unauthorizedf(format string, args ...any) error {
	return &Error{Kind: ErrUnauthorized, Message: fmt.Sprintf(format, args...)}
}

// Message returns the client-facing message of a domain error, or fallback.
func Message(err error, fallback string) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return fallback
}
