package tiktok

import (
	"context"
	"fmt"
	"time"
)

// retryDo runs fn up to attempts times, sleeping delay between attempts.
// retryable decides which errors are worth another attempt; a non-retryable
// error is returned immediately. Exhausting all attempts returns the last
// error wrapped, which callers treat as fatal for that unit of work.
func retryDo(ctx context.Context, attempts int, delay time.Duration, fn func() error, retryable func(error) bool) error {
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !retryable(lastErr) {
			return lastErr
		}
		if attempt < attempts {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return fmt.Errorf("giving up after %d attempts: %w", attempts, lastErr)
}
