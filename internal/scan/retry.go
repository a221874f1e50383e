package scan

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"poolLens/internal/chain"
)

// withRetry retries fn with exponentially growing, jittered backoff.
// Failures wrapping chain.ErrCallReverted are not retried: the node
// executed the call and the outcome will not change on a replay.
func withRetry(ctx context.Context, maxRetries int, baseDelay time.Duration, fn func(context.Context) error) error {
	if maxRetries < 0 {
		maxRetries = 0
	}
	if baseDelay <= 0 {
		baseDelay = 100 * time.Millisecond
	}

	delay := baseDelay
	for attempt := 0; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if errors.Is(err, chain.ErrCallReverted) {
			return err
		}
		if attempt >= maxRetries {
			return err
		}

		timer := time.NewTimer(jitter(delay))
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		delay *= 2
	}
}

// jitter spreads a delay uniformly over [d/2, d] so retries from
// concurrent batches against the same endpoint fan out.
func jitter(d time.Duration) time.Duration {
	half := d / 2
	if half <= 0 {
		return d
	}
	return half + time.Duration(rand.Int63n(int64(half)+1))
}
