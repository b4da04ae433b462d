package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an API failure into one of a fixed set of categories.
// The set is closed: every failure that crosses the tool/resource boundary
// carries exactly one of these kinds.
type ErrorKind string

const (
	// ErrorKindValidation indicates invalid or missing input parameters.
	ErrorKindValidation ErrorKind = "validation"
	// ErrorKindAuthentication indicates missing or rejected credentials.
	ErrorKindAuthentication ErrorKind = "authentication"
	// ErrorKindPermission indicates the authenticated user lacks access.
	ErrorKindPermission ErrorKind = "permission"
	// ErrorKindNotFound indicates the requested entity does not exist.
	ErrorKindNotFound ErrorKind = "not_found"
	// ErrorKindConflict indicates a version mismatch or duplicate entity.
	ErrorKindConflict ErrorKind = "conflict"
	// ErrorKindRateLimit indicates the remote API throttled the request.
	ErrorKindRateLimit ErrorKind = "rate_limit"
	// ErrorKindServer indicates a remote-side failure (any 5xx).
	ErrorKindServer ErrorKind = "server"
	// ErrorKindNetwork indicates the request never completed at the
	// transport level (DNS, connection, timeout).
	ErrorKindNetwork ErrorKind = "network"
	// ErrorKindUnknown is the catch-all for unclassifiable failures.
	ErrorKindUnknown ErrorKind = "unknown"
)

// APIError is the classified error value used for every failure a tool or
// resource operation can produce. It is created once, at the HTTP boundary
// from a status code or directly by an operation that detects a failure
// itself, and never modified afterwards.
type APIError struct {
	Kind       ErrorKind // one of the ErrorKind constants
	Message    string    // human-readable description
	StatusCode int       // HTTP status from the remote API, 0 if not applicable
	Code       string    // machine-readable code from the remote API, "" if none
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (%s, status %d)", e.Message, e.Kind, e.StatusCode)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Kind)
}

// NewAPIError creates an APIError for a condition detected locally, with no
// associated HTTP status.
func NewAPIError(kind ErrorKind, message string) *APIError {
	return &APIError{
		Kind:    kind,
		Message: message,
	}
}

// NewAPIErrorWithStatus creates an APIError carrying the HTTP status code of
// the remote response that caused it.
func NewAPIErrorWithStatus(kind ErrorKind, message string, statusCode int) *APIError {
	return &APIError{
		Kind:       kind,
		Message:    message,
		StatusCode: statusCode,
	}
}

// NewAPIErrorWithCode creates an APIError that also carries a
// machine-readable code extracted from the remote error body.
func NewAPIErrorWithCode(kind ErrorKind, message string, statusCode int, code string) *APIError {
	return &APIError{
		Kind:       kind,
		Message:    message,
		StatusCode: statusCode,
		Code:       code,
	}
}

// AsAPIError reports whether err is, or wraps, an *APIError.
// Callers use it to distinguish classified failures from generic ones.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// KindFromStatus maps an HTTP status code onto the error taxonomy.
// The mapping is total and deterministic: every possible status code maps to
// exactly one kind. It is applied at the boundary where raw HTTP responses
// first enter the system, so nothing above that boundary deals in raw status
// codes.
func KindFromStatus(statusCode int) ErrorKind {
	switch statusCode {
	case 400:
		return ErrorKindValidation
	case 401:
		return ErrorKindAuthentication
	case 403:
		return ErrorKindPermission
	case 404:
		return ErrorKindNotFound
	case 409:
		return ErrorKindConflict
	case 429:
		return ErrorKindRateLimit
	}
	if statusCode >= 500 && statusCode <= 599 {
		return ErrorKindServer
	}
	return ErrorKindUnknown
}

// ErrorFromStatus builds the APIError for a non-2xx remote response,
// classifying the status code and retaining it on the error.
func ErrorFromStatus(statusCode int, message string) *APIError {
	return NewAPIErrorWithStatus(KindFromStatus(statusCode), message, statusCode)
}
