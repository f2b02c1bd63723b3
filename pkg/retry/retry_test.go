package retry

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errTransient = errors.New("transient")

func fastConfig(maxRetries int) *Config {
	return &Config{
		MaxRetries:      maxRetries,
		InitialInterval: time.Microsecond,
		MaxInterval:     time.Millisecond,
		Multiplier:      2.0,
	}
}

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	result := Do(context.Background(), fastConfig(3), func(ctx context.Context) error {
		calls++
		return nil
	})

	if result.Err != nil {
		t.Fatalf("Err = %v, want nil", result.Err)
	}
	if calls != 1 || result.Attempts != 1 {
		t.Errorf("calls = %d, attempts = %d, want 1", calls, result.Attempts)
	}
}

func TestDoRetriesUntilSuccess(t *testing.T) {
	calls := 0
	result := Do(context.Background(), fastConfig(5), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return errTransient
		}
		return nil
	})

	if result.Err != nil {
		t.Fatalf("Err = %v, want nil", result.Err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestDoExhaustsRetries(t *testing.T) {
	calls := 0
	result := Do(context.Background(), fastConfig(3), func(ctx context.Context) error {
		calls++
		return errTransient
	})

	if !errors.Is(result.Err, ErrMaxRetriesExceeded) {
		t.Fatalf("Err = %v, want ErrMaxRetriesExceeded", result.Err)
	}
	if !errors.Is(result.LastError, errTransient) {
		t.Errorf("LastError = %v, want errTransient", result.LastError)
	}
	if calls != 4 {
		t.Errorf("calls = %d, want 4 (initial plus three retries)", calls)
	}
}

func TestDoStopsOnPermanentError(t *testing.T) {
	permanent := errors.New("no such row")
	calls := 0
	result := Do(context.Background(), fastConfig(5), func(ctx context.Context) error {
		calls++
		return Permanent(permanent)
	})

	if !errors.Is(result.Err, permanent) {
		t.Fatalf("Err = %v, want underlying permanent error", result.Err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestDoHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	result := Do(ctx, fastConfig(3), func(ctx context.Context) error {
		calls++
		return errTransient
	})

	if !errors.Is(result.Err, ErrContextCanceled) {
		t.Fatalf("Err = %v, want ErrContextCanceled", result.Err)
	}
	if calls != 0 {
		t.Errorf("calls = %d, want 0 for an already-cancelled context", calls)
	}
}

func TestPermanentNil(t *testing.T) {
	if Permanent(nil) != nil {
		t.Error("Permanent(nil) should be nil")
	}
}

func TestCalculateIntervalCapped(t *testing.T) {
	r := New(&Config{
		MaxRetries:      10,
		InitialInterval: 10 * time.Millisecond,
		MaxInterval:     50 * time.Millisecond,
		Multiplier:      2.0,
	})

	for attempt := 0; attempt < 10; attempt++ {
		if got := r.calculateInterval(attempt); got > 50*time.Millisecond {
			t.Errorf("calculateInterval(%d) = %v, exceeds cap", attempt, got)
		}
	}
}

func TestCalculateIntervalGrows(t *testing.T) {
	r := New(&Config{
		MaxRetries:      3,
		InitialInterval: 10 * time.Millisecond,
		MaxInterval:     time.Second,
		Multiplier:      2.0,
	})

	first := r.calculateInterval(0)
	third := r.calculateInterval(2)
	if third <= first {
		t.Errorf("interval did not grow: attempt 0 = %v, attempt 2 = %v", first, third)
	}
}
