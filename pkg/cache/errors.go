package cache

import (
	"context"
	"errors"
	"time"
)

// ErrUnavailable is returned when a cache backend cannot be reached.
var ErrUnavailable = errors.New("cache backend unavailable")

// RetryableError marks an error as transient.
type RetryableError struct{ Err error }

// Retryable marks err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// IsRetryable reports whether err was marked with [Retryable].
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff is an exponential retry schedule.
type Backoff struct {
	Attempts int           // total tries including the first; < 1 means 1
	Delay    time.Duration // wait before the second try, doubled after each
	MaxDelay time.Duration // cap on one wait; 0 means uncapped
}

// DefaultBackoff is used for backend connection checks.
var DefaultBackoff = Backoff{Attempts: 3, Delay: time.Second, MaxDelay: 4 * time.Second}

// Retry calls fn until it succeeds, fails with an error not marked
// [Retryable], or runs out of attempts. The last error is returned; a
// cancelled ctx ends the wait early with ctx.Err().
func (b Backoff) Retry(ctx context.Context, fn func() error) error {
	delay := b.Delay
	var err error
	for i := range max(b.Attempts, 1) {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
			if b.MaxDelay > 0 {
				delay = min(delay, b.MaxDelay)
			}
		}
		if err = fn(); err == nil || !IsRetryable(err) {
			return err
		}
	}
	return err
}
