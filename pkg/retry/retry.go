// Package retry implements bounded retry with jittered exponential
// backoff. The admission path uses it to absorb transient transaction
// conflicts without ever blocking a request indefinitely.
package retry

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// Common errors
var (
	ErrMaxRetriesExceeded = errors.New("max retries exceeded")
	ErrContextCanceled    = errors.New("context canceled during retry")
)

// Config contains retry configuration
type Config struct {
	// MaxRetries is the maximum number of retry attempts
	// (0 = no retries, just the initial attempt)
	MaxRetries int
	// InitialInterval is the initial backoff interval
	InitialInterval time.Duration
	// MaxInterval is the maximum backoff interval
	MaxInterval time.Duration
	// Multiplier is the factor applied to the interval after each retry
	Multiplier float64
	// JitterFactor is the random jitter factor (0-1) applied to each
	// interval, e.g. 0.1 means ±10%
	JitterFactor float64
}

// DefaultConfig returns a configuration suited to short lock contention:
// 10ms, 20ms, 40ms, capped at 250ms.
func DefaultConfig() *Config {
	return &Config{
		MaxRetries:      3,
		InitialInterval: 10 * time.Millisecond,
		MaxInterval:     250 * time.Millisecond,
		Multiplier:      2.0,
		JitterFactor:    0.1,
	}
}

// Operation is the function to be retried
type Operation func(ctx context.Context) error

// PermanentError wraps an error indicating it should NOT be retried
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string {
	return e.Err.Error()
}

func (e *PermanentError) Unwrap() error {
	return e.Err
}

// Permanent marks an error as permanent (not retryable)
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &PermanentError{Err: err}
}

// Result contains the outcome of a retried operation
type Result struct {
	// Err is the final error (nil if successful)
	Err error
	// Attempts is the total number of attempts made (including initial)
	Attempts int
	// LastError is the error from the last attempt
	LastError error
}

// Retrier handles retry logic with exponential backoff
type Retrier struct {
	config *Config
}

// New creates a new Retrier with the given configuration
func New(config *Config) *Retrier {
	if config == nil {
		config = DefaultConfig()
	}
	if config.InitialInterval <= 0 {
		config.InitialInterval = 10 * time.Millisecond
	}
	if config.MaxInterval <= 0 {
		config.MaxInterval = 250 * time.Millisecond
	}
	if config.Multiplier <= 0 {
		config.Multiplier = 2.0
	}
	if config.JitterFactor < 0 {
		config.JitterFactor = 0
	}
	if config.JitterFactor > 1 {
		config.JitterFactor = 1
	}
	return &Retrier{config: config}
}

// Do executes the operation with retry logic
func (r *Retrier) Do(ctx context.Context, op Operation) *Result {
	result := &Result{}
	var lastErr error

	for attempt := 0; attempt <= r.config.MaxRetries; attempt++ {
		result.Attempts = attempt + 1

		if ctx.Err() != nil {
			result.Err = ErrContextCanceled
			result.LastError = lastErr
			return result
		}

		err := op(ctx)
		if err == nil {
			return result
		}
		lastErr = err

		var permErr *PermanentError
		if errors.As(err, &permErr) {
			result.Err = permErr.Err
			result.LastError = permErr.Err
			return result
		}

		if attempt == r.config.MaxRetries {
			break
		}

		select {
		case <-ctx.Done():
			result.Err = ErrContextCanceled
			result.LastError = lastErr
			return result
		case <-time.After(r.calculateInterval(attempt)):
		}
	}

	result.Err = ErrMaxRetriesExceeded
	result.LastError = lastErr
	return result
}

// calculateInterval calculates the backoff interval for a given attempt
func (r *Retrier) calculateInterval(attempt int) time.Duration {
	interval := float64(r.config.InitialInterval) * math.Pow(r.config.Multiplier, float64(attempt))

	// Jitter keeps concurrent retries from stampeding the same row.
	if r.config.JitterFactor > 0 {
		jitter := interval * r.config.JitterFactor
		interval = interval + (rand.Float64()*2-1)*jitter
	}

	if interval > float64(r.config.MaxInterval) {
		interval = float64(r.config.MaxInterval)
	}
	if interval < 0 {
		interval = float64(r.config.InitialInterval)
	}

	return time.Duration(interval)
}

// Do is a convenience function that creates a retrier and executes the
// operation.
func Do(ctx context.Context, config *Config, op Operation) *Result {
	return New(config).Do(ctx, op)
}
