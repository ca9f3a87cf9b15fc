package resilience

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// RateLimiter is a token-bucket limiter, generalized from the teacher's
// strategy.RateLimiter so both the advisor's outbound API calls and (in
// principle) any future rate-sensitive egress can share one implementation.
type RateLimiter struct {
	maxTokens  int
	window     time.Duration
	tokens     int
	lastRefill time.Time
	mu         sync.Mutex
}

// NewRateLimiter creates a limiter allowing maxTokens per window, starting
// with a full bucket.
func NewRateLimiter(maxTokens int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		maxTokens:  maxTokens,
		window:     window,
		tokens:     maxTokens,
		lastRefill: time.Now(),
	}
}

// Allow reports whether a single token is available right now, consuming it
// if so.
func (rl *RateLimiter) Allow() bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refillLocked()
	if rl.tokens > 0 {
		rl.tokens--
		return true
	}
	return false
}

// Wait blocks until a token is available or ctx is done.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	for {
		if rl.Allow() {
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(rl.nextTokenIn()):
		}
	}
}

func (rl *RateLimiter) refillLocked() {
	elapsed := time.Since(rl.lastRefill)
	if elapsed <= 0 {
		return
	}
	refillRate := float64(rl.maxTokens) / rl.window.Seconds()
	newTokens := int(elapsed.Seconds() * refillRate)
	if newTokens <= 0 {
		return
	}
	rl.tokens += newTokens
	if rl.tokens > rl.maxTokens {
		rl.tokens = rl.maxTokens
	}
	rl.lastRefill = time.Now()
}

func (rl *RateLimiter) nextTokenIn() time.Duration {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	refillRate := float64(rl.maxTokens) / rl.window.Seconds()
	if refillRate <= 0 {
		return rl.window
	}
	return time.Duration(float64(time.Second) / refillRate)
}

// ErrRateLimited is returned when an operation cannot proceed immediately.
var ErrRateLimited = fmt.Errorf("rate limit exceeded")
