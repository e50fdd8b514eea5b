package geo

import (
	"errors"
	"fmt"
)

// ErrorCode classifies domain errors so the transport layer can map them to
// status codes without inspecting messages.
type ErrorCode string

const (
	// CodeDataLoad marks a corrupt or unreadable dataset file. Fatal at startup.
	CodeDataLoad ErrorCode = "DATA_LOAD"
	// CodeInvalidCoordinate marks a caller contract violation: an estimate was
	// requested for a coordinate that never passed resolution.
	CodeInvalidCoordinate ErrorCode = "INVALID_COORDINATE"
	// CodeUpstreamUnavailable marks an external service failure. Always
	// recovered locally via fallback, never surfaced to end users as an error.
	CodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
	// CodeNotFound marks a missing resource.
	CodeNotFound ErrorCode = "NOT_FOUND"
	// CodeValidation marks invalid caller input.
	CodeValidation ErrorCode = "VALIDATION"
)

// Error is the domain error type carrying a machine-readable code.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the wrapped cause, if any.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewDataLoadError wraps a dataset read failure.
func NewDataLoadError(path string, err error) *Error {
	return &Error{
		Code:    CodeDataLoad,
		Message: fmt.Sprintf("failed to load dataset %q", path),
		Err:     err,
	}
}

// NewInvalidCoordinateError reports an out-of-range coordinate.
func NewInvalidCoordinateError(lat, lng float64) *Error {
	return &Error{
		Code:    CodeInvalidCoordinate,
		Message: fmt.Sprintf("coordinate (%f, %f) is out of range", lat, lng),
	}
}

// NewUpstreamUnavailableError wraps an external service failure for the named
// upstream (geocoding, directions, overpass).
func NewUpstreamUnavailableError(upstream string, err error) *Error {
	return &Error{
		Code:    CodeUpstreamUnavailable,
		Message: fmt.Sprintf("upstream %s unavailable", upstream),
		Err:     err,
	}
}

// NewNotFoundError reports a missing resource.
func NewNotFoundError(resource, key string) *Error {
	return &Error{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s %q not found", resource, key),
	}
}

// NewValidationError reports invalid caller input.
func NewValidationError(message string) *Error {
	return &Error{
		Code:    CodeValidation,
		Message: message,
	}
}

// CodeOf extracts the domain error code, or empty string for foreign errors.
func CodeOf(err error) ErrorCode {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsCode reports whether err carries the given domain error code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
