// Package resilience provides the admission and retry primitives for
// outbound integration traffic.
//
// Each remote endpoint owns one rate limiter and one circuit breaker;
// a retry policy turns classified failures into bounded retry schedules.
// The primitives are deliberately independent: the pipeline package
// composes them in admission order, and each can also be used on its own.
//
// # Patterns
//
//   - Rate Limiter: token bucket with continuous fractional refill.
//     Acquire queues callers until a token accrues; it never rejects.
//
//   - Circuit Breaker: opens after a run of consecutive failures, admits
//     a single probe after the reset timeout, and closes again once
//     probes succeed. Admission and outcome are split (Allow returns a
//     record function) so callers that lease other resources between the
//     two report exactly one outcome per attempt.
//
//   - Retry Policy: maps fault kinds to retry decisions. Auth expiry
//     triggers a credential refresh, rate limiting honors the server's
//     hint exactly, remote faults back off exponentially with jitter,
//     and caller mistakes are never retried.
//
// # Usage
//
// Each primitive can be used independently:
//
//	cb := resilience.NewCircuitBreaker(resilience.CircuitBreakerConfig{
//	    FailureThreshold: 5,
//	    ResetTimeout:     time.Minute,
//	})
//
//	rl := resilience.NewRateLimiter(resilience.RateLimiterConfig{
//	    Rate:  100, // tokens per second
//	    Burst: 10,
//	})
//
//	policy := resilience.NewRetryPolicy(resilience.RetryPolicyConfig{
//	    MaxAttempts: 3,
//	    BaseDelay:   100 * time.Millisecond,
//	    MaxDelay:    5 * time.Second,
//	})
//
//	err := policy.Execute(ctx, func(ctx context.Context) error {
//	    if err := rl.Acquire(ctx); err != nil {
//	        return err
//	    }
//	    return cb.Execute(ctx, func(ctx context.Context) error {
//	        return callRemote(ctx)
//	    })
//	})
package resilience
