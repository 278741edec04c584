package httpclient

import (
	"context"
	"time"

	"github.com/dinehall/go-dinehall/logger"
	"github.com/dinehall/go-dinehall/trace"
)

// Log messages for client activity.
const (
	msgClientRequest  = "REST client request"
	msgClientResponse = "REST client response"
)

// DefaultMaxPayloadLogBytes caps logged bodies unless configured otherwise.
const DefaultMaxPayloadLogBytes = 2048

// logRequest emits the outgoing method and URL and, in verbose mode, the
// request payload. Diagnostic only: it never affects control flow.
func (c *restClient) logRequest(ctx context.Context, method, url string, body []byte) {
	event := c.log.Debug().
		Str("method", method).
		Str("url", url).
		Str("request_id", trace.EnsureID(ctx))

	if c.cfg.LogPayloads && len(body) > 0 {
		event = event.Bytes("body", c.capPayload(body))
	}

	event.Msg(msgClientRequest)
}

// logResponse emits the call outcome: status, elapsed time, attempt number,
// and in verbose mode the response payload or failure detail.
func (c *restClient) logResponse(ctx context.Context, method, url string, resp *Response, err error, elapsed time.Duration, attempt int) {
	var event logger.LogEvent
	switch {
	case err != nil:
		event = c.log.Warn().Err(err)
		if apiErr, ok := AsAPIError(err); ok {
			event = event.Int("status", apiErr.Status).
				Str("error_class", apiErr.Class().String())
			if c.cfg.LogPayloads && apiErr.Detail != nil {
				event = event.Interface("detail", apiErr.Detail)
			}
		}
	default:
		event = c.log.Info().Int("status", resp.StatusCode)
		if c.cfg.LogPayloads && len(resp.Body) > 0 {
			event = event.Bytes("body", c.capPayload(resp.Body))
		}
	}

	event.
		Str("method", method).
		Str("url", url).
		Str("request_id", trace.EnsureID(ctx)).
		Int("attempt", attempt).
		Dur("elapsed", elapsed).
		Msg(msgClientResponse)
}

func (c *restClient) capPayload(body []byte) []byte {
	limit := c.cfg.MaxPayloadLogBytes
	if limit <= 0 {
		limit = DefaultMaxPayloadLogBytes
	}
	if len(body) > limit {
		return body[:limit]
	}
	return body
}
