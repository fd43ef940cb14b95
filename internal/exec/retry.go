package exec

import (
	"context"
	"errors"
	"time"
)

// RetryPolicy decides how often a rate-limited execution is re-sent and how
// long to wait in between. Only errors accepted by Retryable are retried.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
	Multiplier  float64       // <= 1 keeps the delay fixed
	MaxDelay    time.Duration // 0 means uncapped
	Retryable   func(error) bool
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, Delay: time.Second, Multiplier: 1}
}

func NoRetry() RetryPolicy {
	return RetryPolicy{MaxAttempts: 1}
}

func isRateLimited(err error) bool {
	return errors.Is(err, ErrRateLimited)
}

// Do calls fn until it succeeds, returns a non-retryable error, or the
// attempts run out. The last error is returned. A cancelled context stops
// the wait early and also returns the last error.
func (p RetryPolicy) Do(ctx context.Context, fn func(attempt int) error) error {
	attempts := max(p.MaxAttempts, 1)
	retryable := p.Retryable
	if retryable == nil {
		retryable = isRateLimited
	}
	delay := p.Delay

	for attempt := 1; ; attempt++ {
		err := fn(attempt)
		if err == nil || attempt >= attempts || !retryable(err) {
			return err
		}
		if !sleep(ctx, delay) {
			return err
		}
		delay = p.next(delay)
	}
}

func (p RetryPolicy) next(delay time.Duration) time.Duration {
	if p.Multiplier > 1 {
		delay = time.Duration(float64(delay) * p.Multiplier)
	}
	if p.MaxDelay > 0 && delay > p.MaxDelay {
		delay = p.MaxDelay
	}
	return delay
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
