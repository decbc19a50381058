package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidAyahID indicates an identifier not in "<surah>_<ayah>" form.
	ErrInvalidAyahID = errors.New("invalid ayah id")

	// ErrNotImplemented indicates functionality is not yet available.
	ErrNotImplemented = errors.New("not implemented")

	// Push Errors.

	// ErrMalformedEvent indicates a push payload that could not be decoded.
	ErrMalformedEvent = errors.New("malformed event")

	// ErrUnknownEvent indicates a push payload with an unrecognised type.
	ErrUnknownEvent = errors.New("unknown event type")

	// ErrStreamClosed indicates the live-update stream ended and
	// reconnection is disabled.
	ErrStreamClosed = errors.New("event stream closed")

	// Backend Errors.

	// ErrBackendUnavailable indicates the backend could not be reached or
	// no client is configured.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrNoMedia indicates an ayah has no playable URL for the requested track.
	ErrNoMedia = errors.New("no media for track")
)

// BackendError is returned when the backend answers with a non-2xx status.
// The response body is deliberately not parsed; Status carries the
// status text the operator sees.
type BackendError struct {
	// Op names the call, e.g. "list ayahs" or "split 2_5".
	Op string

	// StatusCode is the HTTP status code.
	StatusCode int

	// Status is the HTTP status text, e.g. "500 Internal Server Error".
	Status string
}

// Error implements error.
func (e *BackendError) Error() string {
	if e.Op == "" {
		return e.Status
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Status)
}

// IsBackendError reports whether err wraps a *BackendError.
func IsBackendError(err error) bool {
	var be *BackendError
	return errors.As(err, &be)
}
