package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies application failures independently of transport.
type Kind string

const (
	PermissionDenied          Kind = "PERMISSION_DENIED"
	OwnershipMismatch         Kind = "OWNERSHIP_MISMATCH"
	NotFound                  Kind = "NOT_FOUND"
	InvalidState              Kind = "INVALID_STATE"
	MalformedInput            Kind = "VALIDATION_ERROR"
	InvalidTarget             Kind = "INVALID_TARGET"
	Conflict                  Kind = "CONFLICT"
	UpstreamUnavailable       Kind = "UPSTREAM_UNAVAILABLE"
	MalformedUpstreamResponse Kind = "MALFORMED_UPSTREAM_RESPONSE"
)

// Status is the HTTP status a kind maps to.
func (k Kind) Status() int {
	switch k {
	case PermissionDenied, OwnershipMismatch:
		return 403
	case NotFound:
		return 404
	case InvalidState, Conflict:
		return 409
	case MalformedInput, InvalidTarget:
		return 422
	case MalformedUpstreamResponse:
		return 502
	case UpstreamUnavailable:
		return 503
	default:
		return 500
	}
}

func (k Kind) Error() string { return string(k) }

// Error is an application-layer error that can be mapped to an HTTP response.
//
// Code defaults to the kind; errors.Is(err, apperr.NotFound) matches on Kind.
type Error struct {
	Kind    Kind
	Status  int
	Code    string
	Message string
	Details map[string]any

	cause error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Code
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.cause
}

func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && e != nil && e.Kind == k
}

// New builds an Error of kind k with the kind's default code and status.
func New(k Kind, format string, args ...any) *Error {
	return &Error{Kind: k, Status: k.Status(), Code: string(k), Message: fmt.Sprintf(format, args...)}
}

// WithCode overrides the stable code (e.g. "PLAN_NOT_FOUND").
func (e *Error) WithCode(code string) *Error {
	e.Code = code
	return e
}

// WithDetails attaches field-level details.
func (e *Error) WithDetails(d map[string]any) *Error {
	e.Details = d
	return e
}

// WithCause records the underlying error for logs; it is never serialized.
func (e *Error) WithCause(err error) *Error {
	e.cause = err
	return e
}

// Validation is shorthand for a MalformedInput error on a single field.
func Validation(field, problem string) *Error {
	return New(MalformedInput, "invalid %s", field).WithDetails(map[string]any{field: problem})
}

// As extracts an *Error from err.
func As(err error) (*Error, bool) {
	var ae *Error
	if errors.As(err, &ae) {
		return ae, true
	}
	return nil, false
}

// KindOf returns the kind of err, or "" for errors that are not application errors.
func KindOf(err error) Kind {
	if ae, ok := As(err); ok {
		return ae.Kind
	}
	return ""
}
