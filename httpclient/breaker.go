package httpclient

import (
	"github.com/sony/gobreaker"

	"github.com/dinehall/go-dinehall/logger"
)

// Breaker-open failure message surfaced to callers.
const breakerOpenMessage = "Service temporarily unavailable. Please try again shortly."

func newBreaker(name string, cfg BreakerConfig, log logger.Logger) *gobreaker.CircuitBreaker {
	if !cfg.Enabled {
		return nil
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		// A 4xx means the server answered and is healthy; only transport and
		// server failures count against the breaker.
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			apiErr, ok := AsAPIError(err)
			return ok && !apiErr.Retryable()
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("circuit", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	}

	return gobreaker.NewCircuitBreaker(settings)
}
