// Package httpclient implements the resilient REST client used to talk to
// the reservation API. It authenticates every call, normalizes all HTTP and
// transport failures into a single typed error, and retries idempotent reads
// under a bounded exponential-backoff policy.
package httpclient

import (
	"context"
	nethttp "net/http"
	"net/url"
	"time"

	"github.com/dinehall/go-dinehall/trace"
)

// HeaderXRequestID is the default header name for request tracing
const HeaderXRequestID = trace.HeaderXRequestID

// Client defines the REST client interface for making HTTP requests.
// Get applies the configured retry policy; all other methods make exactly
// one attempt because they are not safe to repeat.
type Client interface {
	Get(ctx context.Context, req *Request) (*Response, error)
	Post(ctx context.Context, req *Request) (*Response, error)
	Patch(ctx context.Context, req *Request) (*Response, error)
	Delete(ctx context.Context, req *Request) (*Response, error)
	Do(ctx context.Context, method string, req *Request) (*Response, error)
}

// Request describes a single call. Path is relative to the configured base
// URL. Body is any JSON-serializable value; it is serialized for POST and
// PATCH and ignored for GET and DELETE. Headers override the client defaults.
type Request struct {
	Path    string
	Query   url.Values
	Headers map[string]string
	Body    any
}

// Response represents an HTTP response with tracking information
type Response struct {
	StatusCode int
	Body       []byte
	Headers    nethttp.Header
	Stats      Stats
}

// Stats contains request execution statistics
type Stats struct {
	ElapsedTime time.Duration
	Attempts    int
}

// RequestInterceptor is called before sending the request
type RequestInterceptor func(ctx context.Context, req *nethttp.Request) error

// ResponseInterceptor is called after receiving the response
type ResponseInterceptor func(ctx context.Context, req *nethttp.Request, resp *nethttp.Response) error

// BreakerConfig enables an optional circuit breaker in front of the
// transport. The breaker opens when the failure ratio over a window reaches
// FailureThreshold with at least MinRequests observed.
type BreakerConfig struct {
	Enabled          bool
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// Config holds the REST client configuration. It is copied at construction
// time and never mutated afterwards.
type Config struct {
	// BaseURL is the root of the remote API, e.g. "https://api.example.com/v1".
	BaseURL string
	// APIKey is sent on every request under APIKeyHeader. An empty key is
	// tolerated; the server is expected to reject the call with 401.
	APIKey       string
	APIKeyHeader string
	// Timeout bounds a single attempt (default: 30s).
	Timeout time.Duration
	// Retry is applied to GET requests only.
	Retry RetryPolicy
	// RequestsPerSecond enables client-side rate limiting when positive.
	RequestsPerSecond float64
	Burst             int
	Breaker           BreakerConfig
	DefaultHeaders    map[string]string
	// RequestInterceptors run before each attempt is sent.
	RequestInterceptors []RequestInterceptor
	// ResponseInterceptors run after a response is received, before parsing.
	ResponseInterceptors []ResponseInterceptor
	// LogPayloads enables debug-level logging of request and response bodies
	LogPayloads bool
	// MaxPayloadLogBytes caps the number of body bytes logged when LogPayloads is enabled
	MaxPayloadLogBytes int
	// TraceIDHeader configures the header used for trace ID propagation (default: X-Request-ID)
	TraceIDHeader string
	// Transport overrides the underlying RoundTripper; tests use this.
	Transport nethttp.RoundTripper
}

// NewTraceIDInterceptor creates a request interceptor that stamps the given
// header with the request ID from context, generating one when absent. An
// empty header name falls back to X-Request-ID. Existing header values win.
func NewTraceIDInterceptor(header string) RequestInterceptor {
	if header == "" {
		header = HeaderXRequestID
	}
	return func(ctx context.Context, req *nethttp.Request) error {
		if req.Header.Get(header) == "" {
			req.Header.Set(header, trace.EnsureID(ctx))
		}
		return nil
	}
}
