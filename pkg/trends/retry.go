package trends

import (
	"context"
	"math"
	"time"
)

// Retry runs provider calls with exponential backoff.
type Retry struct {
	maxRetries        int
	retryDelay        time.Duration
	backoffMultiplier float64
}

// NewRetry creates a retry policy. maxRetries counts attempts after the first.
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

// Execute runs fn until it succeeds, fails fatally or retries run out.
func (r *Retry) Execute(ctx context.Context, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == r.maxRetries || ClassifyError(err) == ErrorSeverityFatal {
			break
		}

		delay := time.Duration(float64(r.retryDelay) * math.Pow(r.backoffMultiplier, float64(attempt)))
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}
