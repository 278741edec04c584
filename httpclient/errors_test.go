package httpclient

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test constants to avoid string duplication
const (
	testConnectionRefused = "connection refused"
	testInvalidKey        = "Invalid API key"
)

// TestAPIErrorFormatting tests the Error() method per failure kind
func TestAPIErrorFormatting(t *testing.T) {
	tests := []struct {
		name     string
		err      *APIError
		contains []string
	}{
		{
			name:     "transport error without cause",
			err:      NewTransportError(NetworkErrorMessage, nil),
			contains: []string{"network error", NetworkErrorMessage},
		},
		{
			name:     "transport error with cause",
			err:      NewTransportError(NetworkErrorMessage, errors.New(testConnectionRefused)),
			contains: []string{"network error", NetworkErrorMessage, testConnectionRefused},
		},
		{
			name:     "http client error",
			err:      NewHTTPError(401, testInvalidKey, nil),
			contains: []string{"HTTP error", "401", testInvalidKey},
		},
		{
			name:     "http server error",
			err:      NewHTTPError(503, "Service Unavailable", "Service Unavailable"),
			contains: []string{"HTTP error", "503", "Service Unavailable"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, expected := range tt.contains {
				assert.Contains(t, msg, expected)
			}
		})
	}
}

// TestAPIErrorClass tests status-to-class mapping
func TestAPIErrorClass(t *testing.T) {
	tests := []struct {
		status    int
		class     ErrorClass
		retryable bool
	}{
		{0, TransportError, true},
		{400, ClientError, false},
		{401, ClientError, false},
		{404, ClientError, false},
		{429, ClientError, false},
		{499, ClientError, false},
		{500, ServerError, true},
		{503, ServerError, true},
		{599, ServerError, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.status), func(t *testing.T) {
			var err *APIError
			if tt.status == 0 {
				err = NewTransportError(NetworkErrorMessage, nil)
			} else {
				err = NewHTTPError(tt.status, "test", nil)
			}
			assert.Equal(t, tt.class, err.Class())
			assert.Equal(t, tt.retryable, err.Retryable())
		})
	}
}

func TestErrorClassString(t *testing.T) {
	assert.Equal(t, "transport", TransportError.String())
	assert.Equal(t, "client", ClientError.String())
	assert.Equal(t, "server", ServerError.String())
}

// TestAPIErrorUnwrapping tests Unwrap() and error chaining
func TestAPIErrorUnwrapping(t *testing.T) {
	t.Run("transport error exposes cause", func(t *testing.T) {
		cause := errors.New(testConnectionRefused)
		err := NewTransportError(NetworkErrorMessage, cause)

		assert.True(t, errors.Is(err, cause))
		assert.Equal(t, cause.Error(), err.Detail)
	})

	t.Run("transport error without cause", func(t *testing.T) {
		err := NewTransportError(NetworkErrorMessage, nil)
		assert.Nil(t, err.Unwrap())
		assert.Nil(t, err.Detail)
	})

	t.Run("http error has no cause", func(t *testing.T) {
		err := NewHTTPError(500, "boom", nil)
		assert.Nil(t, err.Unwrap())
	})
}

func TestAsAPIError(t *testing.T) {
	t.Run("extracts typed failure", func(t *testing.T) {
		wrapped := fmt.Errorf("listing reservations: %w", NewHTTPError(404, "not found", nil))

		apiErr, ok := AsAPIError(wrapped)
		require.True(t, ok)
		assert.Equal(t, 404, apiErr.Status)
	})

	t.Run("plain error is not a typed failure", func(t *testing.T) {
		_, ok := AsAPIError(errors.New("plain"))
		assert.False(t, ok)
	})

	t.Run("nil error", func(t *testing.T) {
		_, ok := AsAPIError(nil)
		assert.False(t, ok)
	})
}

func TestIsSuccessStatus(t *testing.T) {
	tests := []struct {
		statusCode int
		expected   bool
	}{
		{199, false},
		{200, true},
		{204, true},
		{299, true},
		{300, false},
		{404, false},
		{500, false},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("status_%d", tt.statusCode), func(t *testing.T) {
			assert.Equal(t, tt.expected, IsSuccessStatus(tt.statusCode))
		})
	}
}

func TestIsHTTPStatusError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		expected bool
	}{
		{"nil error", nil, 404, false},
		{"matching status", NewHTTPError(404, "not found", nil), 404, true},
		{"different status", NewHTTPError(500, "boom", nil), 404, false},
		{"transport error", NewTransportError(NetworkErrorMessage, nil), 404, false},
		{"plain error", errors.New("plain"), 404, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, IsHTTPStatusError(tt.err, tt.status))
		})
	}
}

func TestIsRetryable(t *testing.T) {
	t.Run("transport and server errors are retryable", func(t *testing.T) {
		assert.True(t, IsRetryable(NewTransportError(NetworkErrorMessage, errors.New("dial tcp"))))
		assert.True(t, IsRetryable(NewHTTPError(500, "boom", nil)))
		assert.True(t, IsRetryable(NewHTTPError(503, "unavailable", nil)))
	})

	t.Run("client errors are terminal", func(t *testing.T) {
		assert.False(t, IsRetryable(NewHTTPError(400, "bad request", nil)))
		assert.False(t, IsRetryable(NewHTTPError(429, "rate limited", nil)))
	})

	t.Run("cancelled context is terminal", func(t *testing.T) {
		assert.False(t, IsRetryable(NewTransportError("request cancelled", context.Canceled)))
		assert.False(t, IsRetryable(NewTransportError("request cancelled", context.DeadlineExceeded)))
	})

	t.Run("open breaker is terminal", func(t *testing.T) {
		assert.False(t, IsRetryable(NewTransportError(breakerOpenMessage, gobreaker.ErrOpenState)))
		assert.False(t, IsRetryable(NewTransportError(breakerOpenMessage, gobreaker.ErrTooManyRequests)))
	})

	t.Run("untyped errors are not retried", func(t *testing.T) {
		assert.False(t, IsRetryable(errors.New("plain")))
		assert.False(t, IsRetryable(nil))
	})
}
