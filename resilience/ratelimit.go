package resilience

import (
	"context"
	"sync"
	"time"
)

// RateLimiterConfig configures the rate limiter.
type RateLimiterConfig struct {
	// Rate is the sustained refill rate in tokens per second. Refill is
	// continuous, so fractional tokens accumulate between requests.
	// Default: 100
	Rate float64

	// Burst is the bucket capacity. The bucket starts full.
	// Default: 10
	Burst int
}

// RateLimiter implements a token bucket rate limiter.
//
// Acquire never rejects: callers queue until a token accrues or their
// context ends. Use Allow for non-blocking admission checks.
type RateLimiter struct {
	config RateLimiterConfig

	mu          sync.Mutex
	tokens      float64
	lastRefresh time.Time
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	// Apply defaults
	if config.Rate <= 0 {
		config.Rate = 100
	}
	if config.Burst <= 0 {
		config.Burst = 10
	}

	return &RateLimiter{
		config:      config,
		tokens:      float64(config.Burst),
		lastRefresh: time.Now(),
	}
}

// Allow checks if a request is allowed under the rate limit.
func (rl *RateLimiter) Allow() bool {
	return rl.AllowN(1)
}

// AllowN checks if n requests are allowed.
func (rl *RateLimiter) AllowN(n int) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refillLocked()

	if rl.tokens >= float64(n) {
		rl.tokens -= float64(n)
		return true
	}

	return false
}

// Acquire blocks until one token is available or the context is done.
func (rl *RateLimiter) Acquire(ctx context.Context) error {
	return rl.AcquireN(ctx, 1)
}

// AcquireN blocks until n tokens are available or the context is done.
// There is no rejection path: when the bucket is short, the caller sleeps
// for the exact refill time of the deficit and rechecks, so concurrent
// waiters settle in token-accrual order without busy-waiting.
func (rl *RateLimiter) AcquireN(ctx context.Context, n int) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		rl.mu.Lock()
		rl.refillLocked()
		if rl.tokens >= float64(n) {
			rl.tokens -= float64(n)
			rl.mu.Unlock()
			return nil
		}
		deficit := float64(n) - rl.tokens
		rl.mu.Unlock()

		wait := time.Duration(deficit / rl.config.Rate * float64(time.Second))

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			// Recheck; another waiter may have drained the refill.
		}
	}
}

// Execute acquires a token, waiting as needed, then runs the operation.
func (rl *RateLimiter) Execute(ctx context.Context, op func(context.Context) error) error {
	if err := rl.Acquire(ctx); err != nil {
		return err
	}
	return op(ctx)
}

func (rl *RateLimiter) refillLocked() {
	now := time.Now()
	elapsed := now.Sub(rl.lastRefresh)
	rl.lastRefresh = now

	// Add tokens based on elapsed time
	tokensToAdd := elapsed.Seconds() * rl.config.Rate
	rl.tokens += tokensToAdd

	// Cap at burst size
	if rl.tokens > float64(rl.config.Burst) {
		rl.tokens = float64(rl.config.Burst)
	}
}

// Tokens returns the current number of available tokens.
func (rl *RateLimiter) Tokens() float64 {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refillLocked()
	return rl.tokens
}

// Reset refills the bucket to full capacity.
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.tokens = float64(rl.config.Burst)
	rl.lastRefresh = time.Now()
}
