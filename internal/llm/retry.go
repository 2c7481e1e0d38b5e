package llm

import (
	"context"
	"fmt"
	"time"
)

// withRetry runs fn up to attempts+1 times with exponential backoff between
// tries, respecting context cancellation while waiting.
func withRetry[T any](ctx context.Context, attempts int, delay time.Duration, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 0; attempt <= attempts; attempt++ {
		if attempt > 0 {
			backoff := delay * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
	}

	return zero, fmt.Errorf("%w after %d attempts: %v", ErrProviderFailed, attempts+1, lastErr)
}
