// Package apperr defines the error taxonomy shared by the booking engine,
// the payment gate and the HTTP layer.  Every failure that reaches a caller
// carries one Kind and a human-readable message; handlers translate the
// kind into an HTTP status with Status.
package apperr

import (
	"errors"
	"net/http"
)

// Kind classifies a failure.  A Kind is itself an error so callers can
// test for it with errors.Is(err, apperr.RoomUnavailable).
type Kind string

func (k Kind) Error() string { return string(k) }

const (
	MissingField              Kind = "MissingField"              // required input absent
	InvalidDateRange          Kind = "InvalidDateRange"          // check-out not after check-in, or unparsable date
	RoomUnavailable           Kind = "RoomUnavailable"           // overlapping active reservation or no matching room
	DataUnavailable           Kind = "DataUnavailable"           // any data store failure
	PaymentVerificationFailed Kind = "PaymentVerificationFailed" // gateway reported the session as unpaid
	ConfigurationMissing      Kind = "ConfigurationMissing"      // absent credentials or ids
)

// Error is a classified failure.  Message is safe to show to an end user;
// Err holds the underlying cause, if any, for logging.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// New returns an *Error of the given kind with a user-facing message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// Wrap returns an *Error of the given kind that keeps cause for logging.
func Wrap(kind Kind, msg string, cause error) *Error {
	return &Error{Kind: kind, Message: msg, Err: cause}
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindOf reports the Kind of err, or "" when err is not classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var k Kind
	if errors.As(err, &k) {
		return k
	}
	return ""
}

// Message returns the user-facing text for err.  Unclassified errors are
// reported with fallback so internal details never leak to clients.
func Message(err error, fallback string) string {
	var e *Error
	if errors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return fallback
}

// Status maps err to the HTTP status code handlers should answer with.
func Status(err error) int {
	switch KindOf(err) {
	case MissingField, InvalidDateRange:
		return http.StatusBadRequest
	case RoomUnavailable:
		return http.StatusConflict
	case DataUnavailable:
		return http.StatusServiceUnavailable
	case PaymentVerificationFailed:
		return http.StatusPaymentRequired
	default:
		return http.StatusInternalServerError
	}
}
