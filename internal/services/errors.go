package services

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindUnexpected Kind = iota
	KindNotFound
	KindForbidden
	KindConflict
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	default:
		return "unexpected"
	}
}

// Error is the error type returned by every service operation. Message is
// safe to show to the caller; Err, when set, is the underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func notFound(format string, args ...interface{}) error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func forbidden(format string, args ...interface{}) error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

func conflict(format string, args ...interface{}) error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func unexpected(message string, err error) error {
	return &Error{Kind: KindUnexpected, Message: message, Err: err}
}

// KindOf classifies err. Errors that did not originate here are unexpected.
func KindOf(err error) Kind {
	var serviceErr *Error
	if errors.As(err, &serviceErr) {
		return serviceErr.Kind
	}
	return KindUnexpected
}

// PublicMessage returns the text that may be shown to API callers.
func PublicMessage(err error) string {
	var serviceErr *Error
	if errors.As(err, &serviceErr) {
		if serviceErr.Kind == KindUnexpected {
			return "Internal server error"
		}
		return serviceErr.Message
	}
	return "Internal server error"
}

func IsNotFound(err error) bool  { return KindOf(err) == KindNotFound }
func IsForbidden(err error) bool { return KindOf(err) == KindForbidden }
func IsConflict(err error) bool  { return KindOf(err) == KindConflict }
