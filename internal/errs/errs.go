// Package errs defines the single error taxonomy shared by every
// process role and translated to an HTTP status at the edge by
// httpserver.RespondErr, which handlers call on error.
package errs

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind enumerates the error categories a domain operation can return.
// Handlers and downstream callers branch on Kind, never on a string
// message or a concrete type switch.
type Kind string

const (
	ValidationRejected   Kind = "validation_rejected"
	Unauthorized         Kind = "unauthorized"
	Forbidden            Kind = "forbidden"
	NotFound             Kind = "not_found"
	Conflict             Kind = "conflict"
	UnprocessableBusiness Kind = "unprocessable_business"
	Unreachable          Kind = "unreachable"
	Timeout              Kind = "timeout"
	RemoteError          Kind = "remote_error"
	Internal             Kind = "internal"
)

// Error is the single error type returned across package boundaries for
// anything that should reach an HTTP client as a structured response.
// Construct one with New or wrap an existing error with Wrap.
type Error struct {
	Kind    Kind
	Message string
	Code    string // optional machine-readable sub-code, e.g. "CustomerNotFound"
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// HTTPStatus maps a Kind to the status code httpserver.RespondErr writes.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case ValidationRejected:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case Forbidden:
		return http.StatusForbidden
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	case UnprocessableBusiness:
		return http.StatusUnprocessableEntity
	case Unreachable:
		return http.StatusServiceUnavailable
	case Timeout:
		return http.StatusGatewayTimeout
	case RemoteError:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// New creates an Error of the given kind with a plain message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an Error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// WithCode attaches a machine-readable sub-code (e.g. "MissingPlan",
// "ClientAssignedToOtherSeller") used by operator alerting and by BFF
// clients that branch on specific business outcomes.
func (e *Error) WithCode(code string) *Error {
	e.Code = code
	return e
}

// Wrap creates an Internal Error that carries cause for logging while
// keeping the message presented to a caller free of implementation detail.
func Wrap(cause error, message string) *Error {
	return &Error{Kind: Internal, Message: message, cause: cause}
}

// As extracts an *Error from err, if one is present anywhere in its chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the Kind of err if it is (or wraps) an *Error, or
// Internal otherwise. Useful for logging and metrics labeling without a
// type switch at every call site.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return Internal
}
