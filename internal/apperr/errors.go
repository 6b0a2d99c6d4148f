// Package apperr defines the error taxonomy shared by services and handlers.
// Services return *Error values (or wrap the sentinels below) and the HTTP
// layer maps Kind to a status code. Callers should match with errors.Is / As.
package apperr

import (
	"context"
	"errors"
	"fmt"
)

// Kind classifies a failure for the request boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindUnauthorized
	KindNotFound
	KindConflict
	KindResetExpired
	KindTimeout
)

var kindNames = map[Kind]string{
	KindInternal:        "internal",
	KindValidation:      "validation",
	KindUnauthenticated: "unauthenticated",
	KindUnauthorized:    "unauthorized",
	KindNotFound:        "not_found",
	KindConflict:        "conflict",
	KindResetExpired:    "reset_expired",
	KindTimeout:         "timeout",
}

// String returns the snake_case name of the kind
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "internal"
}

// Error is a classified application error. Message is safe to show to
// clients; Err is the underlying cause and is only logged.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error formats the kind, message and cause
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match two *Error values of the same kind and message,
// which is how the package-level sentinels are compared.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// Sentinels used across services.
var (
	ErrDuplicateEmail     = &Error{Kind: KindConflict, Message: "email is already registered"}
	ErrAlreadyFollowing   = &Error{Kind: KindConflict, Message: "you already follow this user"}
	ErrInvalidTarget      = &Error{Kind: KindValidation, Message: "you can not follow yourself"}
	ErrInvalidCredentials = &Error{Kind: KindUnauthenticated, Message: "incorrect email or password"}
	ErrNotLoggedIn        = &Error{Kind: KindUnauthenticated, Message: "you are not logged in"}
	ErrResetInvalid       = &Error{Kind: KindUnauthenticated, Message: "token is invalid"}
	ErrResetExpired       = &Error{Kind: KindResetExpired, Message: "token has expired"}
	ErrNotFound           = &Error{Kind: KindNotFound, Message: "resource not found"}
)

// Validation reports malformed or missing input
func Validation(msg string) *Error { return &Error{Kind: KindValidation, Message: msg} }

// Unauthenticated reports a missing or rejected credential
func Unauthenticated(msg string) *Error { return &Error{Kind: KindUnauthenticated, Message: msg} }

// Unauthorized reports a known caller lacking rights to the resource
func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }

// NotFound reports an absent entity
func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

// Conflict reports a uniqueness clash
func Conflict(msg string) *Error { return &Error{Kind: KindConflict, Message: msg} }

// Internal wraps an unexpected failure. The cause is never shown to clients.
func Internal(op string, err error) *Error {
	return &Error{Kind: KindInternal, Message: op, Err: err}
}

// Timeout wraps a backing-store deadline.
func Timeout(op string, err error) *Error {
	return &Error{Kind: KindTimeout, Message: op, Err: err}
}

// KindOf reports the Kind of err. Unclassified errors are internal, except
// deadline errors which are reported as timeouts.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	return KindInternal
}

// Is reports whether err is classified with the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
