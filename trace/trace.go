// Package trace provides context plumbing for request correlation IDs.
// The HTTP client stamps every outgoing call with an X-Request-ID header
// so reservation operations can be correlated with backend logs.
package trace

import (
	"context"

	"github.com/google/uuid"
)

// contextKey is the type for context keys to avoid collisions
type contextKey string

const (
	// requestIDKey is the context key for request ID values
	requestIDKey contextKey = "request_id"
	// HeaderXRequestID is the standard header name for request tracing
	HeaderXRequestID = "X-Request-ID"
)

// WithID adds a request ID to the context
func WithID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// IDFromContext returns a request ID from context if present
func IDFromContext(ctx context.Context) (string, bool) {
	if requestID, ok := ctx.Value(requestIDKey).(string); ok && requestID != "" {
		return requestID, true
	}
	return "", false
}

// EnsureID returns an existing request ID from context or generates a new one
func EnsureID(ctx context.Context) string {
	if requestID, ok := IDFromContext(ctx); ok {
		return requestID
	}
	return uuid.New().String()
}
