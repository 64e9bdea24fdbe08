package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a failure of a store operation.
type Kind string

const (
	KindInvalidState        Kind = "invalid_state"
	KindInvalidArgument     Kind = "invalid_argument"
	KindLocationUnavailable Kind = "location_unavailable"
	KindDeliveryFailed      Kind = "delivery_failed"
	KindNotFound            Kind = "not_found"
)

// Sentinels for errors.Is matching. Any *Error of the same kind matches.
var (
	ErrInvalidState        = &Error{Kind: KindInvalidState}
	ErrInvalidArgument     = &Error{Kind: KindInvalidArgument}
	ErrLocationUnavailable = &Error{Kind: KindLocationUnavailable}
	ErrDeliveryFailed      = &Error{Kind: KindDeliveryFailed}
	ErrNotFound            = &Error{Kind: KindNotFound}
)

// Error is a kinded error with an optional wrapped cause.
type Error struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return e.Message + ": " + e.Err.Error()
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an error of the given kind with a formatted message.
func Newf(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind and message to err. Returns nil when err is nil.
func Wrap(kind Kind, err error, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or "".
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// HTTPStatus maps an error to the status code the API responds with.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInvalidState:
		return http.StatusConflict
	case KindInvalidArgument:
		return http.StatusBadRequest
	case KindLocationUnavailable:
		return http.StatusServiceUnavailable
	case KindDeliveryFailed:
		return http.StatusBadGateway
	case KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
