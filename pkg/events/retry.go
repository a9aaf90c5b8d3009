package events

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/ghuser/cafestock/pkg/logger"
)

// RetryPolicy controls how often a failing handler is re-run before its
// message is Nacked. Delays double from BaseDelay up to MaxDelay.
type RetryPolicy struct {
	MaxAttempts uint
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryPolicy runs a handler at most 3 times, waiting 1s then 2s.
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second, MaxDelay: 30 * time.Second}

func (p RetryPolicy) backOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.BaseDelay
	b.MaxInterval = p.MaxDelay
	b.Multiplier = 2
	b.RandomizationFactor = 0
	return b
}

// run calls fn until it succeeds, ctx is done or the attempts are used up.
func (p RetryPolicy) run(ctx context.Context, log logger.Logger, fn func() error) error {
	attempts := max(p.MaxAttempts, 1)
	n := uint(0)
	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		n++
		return struct{}{}, fn()
	},
		backoff.WithBackOff(p.backOff()),
		backoff.WithMaxTries(attempts),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.WarnContext(ctx, "events: handler failed, retrying",
				"attempt", n, "max_attempts", attempts, "next_delay", next, "error", err)
		}),
	)
	if err != nil {
		return fmt.Errorf("events: handler failed after %d attempts: %w", n, err)
	}
	return nil
}
