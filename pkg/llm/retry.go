package llm

import (
	"context"
	"errors"
	"math"
	"time"
)

// Retry re-runs a call with exponential backoff
type Retry struct {
	maxRetries        int
	retryDelay        time.Duration
	backoffMultiplier float64
}

// NewRetry creates a retry policy
func NewRetry(maxRetries int, retryDelay time.Duration) *Retry {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &Retry{
		maxRetries:        maxRetries,
		retryDelay:        retryDelay,
		backoffMultiplier: 2.0,
	}
}

// Execute runs fn until it succeeds, fails permanently or retries run out
func (r *Retry) Execute(ctx context.Context, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == r.maxRetries {
			break
		}
		if !isRetryable(err) {
			return err
		}

		delay := time.Duration(float64(r.retryDelay) * math.Pow(r.backoffMultiplier, float64(attempt)))
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return lastErr
}

// isRetryable treats transport failures as transient and defers to the
// status code otherwise.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrEmptyResponse) {
		return false
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Retryable()
	}
	return true
}
