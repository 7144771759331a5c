package repository

import (
	"time"
)

// Options contains the repository parameters.
type Options struct {
	// MaxRetries is the number of extra attempts, each on a fresh transaction, after a
	// retryable failure. Zero disables retries.
	MaxRetries uint64 `json:"max_retries"`
	// RetryBase is the first Fibonacci backoff step between attempts.
	RetryBase time.Duration `json:"retry_base"`
	// MaxTime caps each operation, retries included. Zero means no cap beyond the caller's context.
	MaxTime time.Duration `json:"max_time"`
	// Now stamps tweets posted without a timestamp. Defaults to time.Now.
	Now func() time.Time `json:"-"`
}

// DefaultOptions.
func DefaultOptions() Options {
	return Options{
		RetryBase: 50 * time.Millisecond,
		Now:       time.Now,
	}
}
