package httpclient

import (
	"context"
	"errors"
	"fmt"

	"github.com/sony/gobreaker"
)

// NetworkErrorMessage is the user-facing message for failures where no
// response was received at all.
const NetworkErrorMessage = "Network error. Please check your connection and try again."

// ErrorClass groups failures by how callers should react to them.
type ErrorClass int

const (
	// TransportError means no response was received (status 0): DNS failure,
	// connection refused, timeout, or an unreadable body.
	TransportError ErrorClass = iota
	// ClientError is an HTTP 4xx: the request itself is invalid or
	// unauthorized and must not be retried as-is.
	ClientError
	// ServerError is any other non-2xx status, typically 5xx.
	ServerError
)

// String returns the class name for logging.
func (c ErrorClass) String() string {
	switch c {
	case TransportError:
		return "transport"
	case ClientError:
		return "client"
	default:
		return "server"
	}
}

// APIError is the only error type the client returns. Every HTTP-level and
// transport-level problem is normalized into one of these; callers branch on
// Status (0 means no response was received) and surface Message to users.
// Detail carries the server-supplied error body: a parsed JSON value, the
// raw text, or the underlying transport error string.
type APIError struct {
	Message string
	Status  int
	Detail  any
	cause   error
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Status == 0 {
		if e.cause != nil {
			return fmt.Sprintf("network error: %s: %v", e.Message, e.cause)
		}
		return fmt.Sprintf("network error: %s", e.Message)
	}
	return fmt.Sprintf("HTTP error %d: %s", e.Status, e.Message)
}

// Unwrap exposes the underlying transport error, if any.
func (e *APIError) Unwrap() error {
	return e.cause
}

// Class reports the failure class derived from Status.
func (e *APIError) Class() ErrorClass {
	switch {
	case e.Status == 0:
		return TransportError
	case e.Status >= 400 && e.Status <= 499:
		return ClientError
	default:
		return ServerError
	}
}

// Retryable reports whether repeating the identical request could succeed.
// Client errors are terminal; transport and server errors are transient.
func (e *APIError) Retryable() bool {
	return e.Class() != ClientError
}

// NewHTTPError creates a typed failure for a non-2xx response.
func NewHTTPError(status int, message string, detail any) *APIError {
	return &APIError{Message: message, Status: status, Detail: detail}
}

// NewTransportError creates a typed failure for a call that produced no
// response. Detail carries the underlying error text.
func NewTransportError(message string, cause error) *APIError {
	e := &APIError{Message: message, Status: 0, cause: cause}
	if cause != nil {
		e.Detail = cause.Error()
	}
	return e
}

// AsAPIError extracts an *APIError from an error chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// IsSuccessStatus reports whether the status code is in the 2xx range.
func IsSuccessStatus(status int) bool {
	return status >= 200 && status <= 299
}

// IsHTTPStatusError reports whether err is a typed failure with the given status.
func IsHTTPStatusError(err error, status int) bool {
	if apiErr, ok := AsAPIError(err); ok {
		return apiErr.Status == status
	}
	return false
}

// IsRetryable reports whether the retry policy may re-attempt after err.
// Cancelled contexts and an open circuit breaker are never retried even
// though they surface as transport-class failures.
func IsRetryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false
	}
	apiErr, ok := AsAPIError(err)
	return ok && apiErr.Retryable()
}
