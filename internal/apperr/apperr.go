// Package apperr defines the error taxonomy shared by the service layer and
// the HTTP boundary. Core operations fail with the most specific kind; only
// the boundary translates kinds into HTTP statuses and response bodies, so
// nothing below the handlers ever touches a transport.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies a failure. The HTTP boundary maps each kind to exactly
// one status code.
type Kind int

const (
	// KindAuthentication: missing, invalid or expired credential (401).
	KindAuthentication Kind = iota + 1
	// KindAuthorization: valid credential, insufficient rights (403).
	KindAuthorization
	// KindBadRequest: malformed input or failed validation (400).
	KindBadRequest
	// KindDuplicate: uniqueness conflict (409).
	KindDuplicate
	// KindNotFound: resource does not exist (404).
	KindNotFound
	// KindBadGateway: an upstream dependency failed (502).
	KindBadGateway
	// KindInternal: unclassified server failure (500).
	KindInternal
	// KindUnavailable: down for maintenance (503).
	KindUnavailable
)

// Error carries a kind, a user-facing message and an optional wrapped cause.
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

// New builds an Error of the given kind. An empty message falls back to the
// kind's default.
func New(kind Kind, message string) *Error {
	if message == "" {
		message = defaultMessage(kind)
	}
	return &Error{Kind: kind, Message: message}
}

// Wrap is New with an underlying cause preserved for errors.Is/As checks.
func Wrap(kind Kind, message string, err error) *Error {
	e := New(kind, message)
	e.Err = err
	return e
}

func Unauthenticated(message string) *Error { return New(KindAuthentication, message) }
func Unauthorized(message string) *Error    { return New(KindAuthorization, message) }
func BadRequest(message string) *Error      { return New(KindBadRequest, message) }
func Duplicate(message string) *Error       { return New(KindDuplicate, message) }
func NotFound(message string) *Error        { return New(KindNotFound, message) }
func BadGateway(message string) *Error      { return New(KindBadGateway, message) }
func Internal(message string) *Error        { return New(KindInternal, message) }
func Unavailable(message string) *Error     { return New(KindUnavailable, message) }

func defaultMessage(kind Kind) string {
	switch kind {
	case KindAuthentication:
		return "Unauthenticated"
	case KindAuthorization:
		return "Unauthorized"
	case KindBadRequest:
		return "Bad request"
	case KindDuplicate:
		return "Duplicate request. Try again."
	case KindNotFound:
		return "Resource not found, try again later."
	case KindBadGateway:
		return "Something went wrong, try again later."
	case KindUnavailable:
		return "We are currently undergoing maintenance, please check back later."
	default:
		return "Something went wrong, please try again later."
	}
}

// Status returns the HTTP status for err. Unclassified errors map to 500.
func Status(err error) int {
	var e *Error
	if !errors.As(err, &e) {
		return http.StatusInternalServerError
	}
	switch e.Kind {
	case KindAuthentication:
		return http.StatusUnauthorized
	case KindAuthorization:
		return http.StatusForbidden
	case KindBadRequest:
		return http.StatusBadRequest
	case KindDuplicate:
		return http.StatusConflict
	case KindNotFound:
		return http.StatusNotFound
	case KindBadGateway:
		return http.StatusBadGateway
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Message returns the user-facing message for err, falling back to the
// generic server message for unclassified errors.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return defaultMessage(KindInternal)
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == kind
}
