package httpclient

import (
	"context"
	"time"
)

// Default retry policy values.
const (
	DefaultMaxAttempts  = 3
	DefaultInitialDelay = 1 * time.Second
	DefaultMaxDelay     = 30 * time.Second
)

// RetryPolicy bounds the exponential backoff applied to transient failures.
// Attempt n waits InitialDelay * 2^(n-1) before retrying, capped at MaxDelay.
type RetryPolicy struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
}

// DefaultRetryPolicy returns the policy used when the caller supplies none:
// 3 attempts starting at a 1s delay.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  DefaultMaxAttempts,
		InitialDelay: DefaultInitialDelay,
		MaxDelay:     DefaultMaxDelay,
	}
}

func (p RetryPolicy) normalized() RetryPolicy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.InitialDelay <= 0 {
		p.InitialDelay = DefaultInitialDelay
	}
	if p.MaxDelay <= 0 {
		p.MaxDelay = DefaultMaxDelay
	}
	return p
}

// delayFor returns the backoff before retrying after the given 1-based attempt.
func (p RetryPolicy) delayFor(attempt int) time.Duration {
	delay := p.InitialDelay << (attempt - 1)
	if delay > p.MaxDelay || delay <= 0 {
		delay = p.MaxDelay
	}
	return delay
}

// Retry runs op until it succeeds, fails with a non-retryable error, or
// exhausts the policy's attempts, and re-raises the last failure unchanged.
// Client errors (4xx) abort immediately; transport (status 0) and server
// (5xx) failures back off and retry. The backoff wait honors ctx, so callers
// wanting a total deadline wrap ctx with context.WithTimeout.
//
// Only idempotent operations may be wrapped: re-sending a create on a
// transient failure can duplicate the side effect on the server.
func Retry[T any](ctx context.Context, policy RetryPolicy, op func(ctx context.Context) (T, error)) (T, error) {
	policy = policy.normalized()

	var result T
	var lastErr error

	for attempt := 1; attempt <= policy.MaxAttempts; attempt++ {
		result, lastErr = op(ctx)
		if lastErr == nil {
			return result, nil
		}
		if !IsRetryable(lastErr) {
			return result, lastErr
		}
		if attempt == policy.MaxAttempts {
			break
		}
		if err := sleep(ctx, policy.delayFor(attempt)); err != nil {
			return result, NewTransportError("request cancelled", err)
		}
	}

	return result, lastErr
}

// sleep waits for d or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
