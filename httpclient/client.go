package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	nethttp "net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/dinehall/go-dinehall/logger"
)

const contentTypeJSON = "application/json"

// restClient is the Client implementation. It is stateless between calls
// and safe for concurrent use; the limiter and breaker synchronize
// internally.
type restClient struct {
	cfg     Config
	http    *nethttp.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	log     logger.Logger
}

// New creates a Client from the given configuration. The configuration is
// copied; later mutation by the caller has no effect.
func New(cfg Config, log logger.Logger) (Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("httpclient: base URL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("httpclient: invalid base URL: %w", err)
	}
	if cfg.APIKeyHeader == "" {
		cfg.APIKeyHeader = "X-Api-Key"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.TraceIDHeader == "" {
		cfg.TraceIDHeader = HeaderXRequestID
	}
	cfg.Retry = cfg.Retry.normalized()
	cfg.RequestInterceptors = append([]RequestInterceptor{NewTraceIDInterceptor(cfg.TraceIDHeader)}, cfg.RequestInterceptors...)

	c := &restClient{
		cfg: cfg,
		http: &nethttp.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		},
		log: log,
	}
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	c.breaker = newBreaker(cfg.BaseURL, cfg.Breaker, log)

	return c, nil
}

// Get performs an idempotent read, retrying transient failures under the
// configured backoff policy.
func (c *restClient) Get(ctx context.Context, req *Request) (*Response, error) {
	attempts := 0
	resp, err := Retry(ctx, c.cfg.Retry, func(ctx context.Context) (*Response, error) {
		attempts++
		return c.doOnce(ctx, nethttp.MethodGet, req, attempts)
	})
	if resp != nil {
		resp.Stats.Attempts = attempts
	}
	return resp, err
}

// Post creates a resource. Never retried: a duplicate send could duplicate
// the side effect on the server.
func (c *restClient) Post(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodPost, req)
}

// Patch partially updates a resource. Never retried.
func (c *restClient) Patch(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodPatch, req)
}

// Delete removes (or soft-cancels) a resource. Never retried.
func (c *restClient) Delete(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodDelete, req)
}

// Do performs a single attempt of the given method. All failures surface as
// *APIError; no other error type crosses this boundary.
func (c *restClient) Do(ctx context.Context, method string, req *Request) (*Response, error) {
	return c.doOnce(ctx, method, req, 1)
}

func (c *restClient) doOnce(ctx context.Context, method string, req *Request, attempt int) (*Response, error) {
	if c.breaker == nil {
		return c.attempt(ctx, method, req, attempt)
	}

	result, err := c.breaker.Execute(func() (any, error) {
		return c.attempt(ctx, method, req, attempt)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, NewTransportError(breakerOpenMessage, err)
	}
	resp, _ := result.(*Response)
	return resp, err
}

// attempt executes one request/response cycle.
func (c *restClient) attempt(ctx context.Context, method string, req *Request, attempt int) (*Response, error) {
	start := time.Now()

	resp, err := c.send(ctx, method, req)
	elapsed := time.Since(start)
	if resp != nil {
		resp.Stats = Stats{ElapsedTime: elapsed, Attempts: attempt}
	}
	c.logResponse(ctx, method, c.buildURL(req), resp, err, elapsed, attempt)

	return resp, err
}

func (c *restClient) send(ctx context.Context, method string, req *Request) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, NewTransportError("request cancelled", err)
		}
	}

	target := c.buildURL(req)

	var payload []byte
	if req.Body != nil && (method == nethttp.MethodPost || method == nethttp.MethodPatch) {
		var err error
		payload, err = json.Marshal(req.Body)
		if err != nil {
			return nil, NewTransportError(NetworkErrorMessage, err)
		}
	}

	var bodyReader io.Reader = nethttp.NoBody
	if len(payload) > 0 {
		bodyReader = bytes.NewReader(payload)
	}

	httpReq, err := nethttp.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return nil, NewTransportError(NetworkErrorMessage, err)
	}

	httpReq.Header.Set("Content-Type", contentTypeJSON)
	if c.cfg.APIKey != "" {
		httpReq.Header.Set(c.cfg.APIKeyHeader, c.cfg.APIKey)
	}
	for k, v := range c.cfg.DefaultHeaders {
		httpReq.Header.Set(k, v)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	for _, interceptor := range c.cfg.RequestInterceptors {
		if err := interceptor(ctx, httpReq); err != nil {
			return nil, NewTransportError(NetworkErrorMessage, err)
		}
	}

	c.logRequest(ctx, method, target, payload)

	httpResp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, NewTransportError(NetworkErrorMessage, err)
	}
	defer httpResp.Body.Close()

	for _, interceptor := range c.cfg.ResponseInterceptors {
		if err := interceptor(ctx, httpReq, httpResp); err != nil {
			return nil, NewTransportError(NetworkErrorMessage, err)
		}
	}

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, NewTransportError(NetworkErrorMessage, err)
	}

	if !IsSuccessStatus(httpResp.StatusCode) {
		return nil, newStatusError(httpResp, body)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Body:       body,
		Headers:    httpResp.Header,
	}, nil
}

func (c *restClient) buildURL(req *Request) string {
	target := strings.TrimRight(c.cfg.BaseURL, "/")
	if path := strings.TrimLeft(req.Path, "/"); path != "" {
		target += "/" + path
	}
	if len(req.Query) > 0 {
		target += "?" + req.Query.Encode()
	}
	return target
}

// newStatusError builds the typed failure for a non-2xx response. The
// message comes, in priority order, from a "message" field on a JSON error
// body, the raw text body, or a generic "HTTP <status>: <reason>" fallback.
func newStatusError(resp *nethttp.Response, body []byte) *APIError {
	status := resp.StatusCode
	fallback := fmt.Sprintf("HTTP %d: %s", status, nethttp.StatusText(status))
	text := strings.TrimSpace(string(body))

	if isJSONContentType(resp.Header.Get("Content-Type")) && len(body) > 0 {
		var detail any
		if err := json.Unmarshal(body, &detail); err != nil {
			// Declared JSON but unparseable: a body-parse failure surfaces
			// as a transport failure.
			return NewTransportError(NetworkErrorMessage, err)
		}
		message := fallback
		if fields, ok := detail.(map[string]any); ok {
			if m, ok := fields["message"].(string); ok && m != "" {
				message = m
			} else if text != "" {
				message = text
			}
		} else if text != "" {
			message = text
		}
		return NewHTTPError(status, message, detail)
	}

	if text != "" {
		return NewHTTPError(status, text, text)
	}
	return NewHTTPError(status, fallback, nil)
}

// Decode parses the response body into out following the declared content
// type: JSON bodies are unmarshalled, anything else is returned as raw text
// (out must be a *string). An empty body leaves out untouched.
func (r *Response) Decode(out any) error {
	if out == nil || len(r.Body) == 0 {
		return nil
	}

	if isJSONContentType(r.Headers.Get("Content-Type")) {
		if err := json.Unmarshal(r.Body, out); err != nil {
			return NewTransportError(NetworkErrorMessage, err)
		}
		return nil
	}

	s, ok := out.(*string)
	if !ok {
		return NewTransportError(NetworkErrorMessage, fmt.Errorf("non-JSON response requires a *string target, got %T", out))
	}
	*s = string(r.Body)
	return nil
}

// Text returns the raw response body as a string.
func (r *Response) Text() string {
	return string(r.Body)
}

func isJSONContentType(contentType string) bool {
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == contentTypeJSON || strings.HasSuffix(mediaType, "+json")
}
