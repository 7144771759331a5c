package feedbench

import (
	"context"
	log "log/slog"
	"time"

	"github.com/sethvargo/go-retry"
)

// Retry runs task with Fibonacci backoff starting at base, up to maxRetries extra attempts.
// Only errors for which IsRetryable holds are retried; any other error stops at once.
// If retries are exhausted, gaveUpTask is invoked (when not nil) and the final error is returned.
func Retry(ctx context.Context, maxRetries uint64, base time.Duration, task func(ctx context.Context) error, gaveUpTask func(ctx context.Context)) error {
	if base <= 0 {
		base = 50 * time.Millisecond
	}
	b := retry.WithMaxRetries(maxRetries, retry.NewFibonacci(base))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		err := task(ctx)
		if IsRetryable(err) {
			log.Debug("retrying operation", "error", err)
			return retry.RetryableError(err)
		}
		return err
	})
	if err != nil && IsRetryable(err) {
		log.Warn(err.Error() + ", gave up")
		if gaveUpTask != nil {
			gaveUpTask(ctx)
		}
	}
	return err
}
