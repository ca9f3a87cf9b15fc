package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	rh := NewRetryHandler(&RetryConfig{
		MaxRetries:    3,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2,
		RetryableErrors: []string{
			"timeout",
		},
	})

	attempts := 0
	err := rh.Retry(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return errors.New("timeout talking to upstream")
		}
		return nil
	})

	if err != nil {
		t.Fatalf("Retry() = %v, want nil", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetryStopsOnNonRetryableError(t *testing.T) {
	rh := NewRetryHandler(DefaultRetryConfig())

	attempts := 0
	wantErr := errors.New("invalid configuration")
	err := rh.Retry(context.Background(), func() error {
		attempts++
		return wantErr
	})

	if !errors.Is(err, wantErr) {
		t.Errorf("Retry() = %v, want %v", err, wantErr)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1 (non-retryable should not retry)", attempts)
	}
}

func TestRetryExhaustsMaxRetries(t *testing.T) {
	rh := NewRetryHandler(&RetryConfig{
		MaxRetries:      2,
		InitialDelay:    time.Millisecond,
		MaxDelay:        2 * time.Millisecond,
		BackoffFactor:   2,
		RetryableErrors: []string{"timeout"},
	})

	attempts := 0
	err := rh.Retry(context.Background(), func() error {
		attempts++
		return errors.New("timeout")
	})

	var maxErr *MaxRetriesExceededError
	if !errors.As(err, &maxErr) {
		t.Fatalf("Retry() error = %v, want *MaxRetriesExceededError", err)
	}
	if attempts != 3 { // initial attempt + 2 retries
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

func TestRetryRespectsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rh := NewRetryHandler(DefaultRetryConfig())
	err := rh.Retry(ctx, func() error {
		t.Fatal("operation should not run with an already-cancelled context")
		return nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Retry() = %v, want context.Canceled", err)
	}
}

func TestCircuitBreakerOpensAfterThreshold(t *testing.T) {
	cb := NewCircuitBreaker(&CircuitBreakerConfig{
		FailureThreshold: 2,
		RecoveryTimeout:  50 * time.Millisecond,
		HalfOpenMaxCalls: 1,
		SuccessThreshold: 1,
	})

	failing := errors.New("upstream down")
	for i := 0; i < 2; i++ {
		if err := cb.Execute(func() error { return failing }); !errors.Is(err, failing) {
			t.Fatalf("Execute() = %v, want %v", err, failing)
		}
	}

	if got := cb.State(); got != CircuitBreakerOpen {
		t.Fatalf("State() = %v, want %v", got, CircuitBreakerOpen)
	}

	if err := cb.Execute(func() error { return nil }); err == nil {
		t.Error("Execute() on an open breaker should reject the call")
	}

	time.Sleep(60 * time.Millisecond)

	if err := cb.Execute(func() error { return nil }); err != nil {
		t.Errorf("Execute() after recovery timeout = %v, want nil", err)
	}
	if got := cb.State(); got != CircuitBreakerClosed {
		t.Errorf("State() = %v, want %v", got, CircuitBreakerClosed)
	}
}

func TestRateLimiterAllowsBurstThenBlocks(t *testing.T) {
	rl := NewRateLimiter(2, time.Second)

	if !rl.Allow() || !rl.Allow() {
		t.Fatal("expected first two Allow() calls to succeed with a full bucket")
	}
	if rl.Allow() {
		t.Error("third immediate Allow() should fail once the bucket is drained")
	}
}

func TestTTLCacheExpires(t *testing.T) {
	c := NewTTLCache(10*time.Millisecond, 10)
	c.Set("k", "v")

	if v, ok := c.Get("k"); !ok || v != "v" {
		t.Fatalf("Get() = (%v, %v), want (v, true)", v, ok)
	}

	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Error("Get() should report a miss once the entry has expired")
	}
}
