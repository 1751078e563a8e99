package health

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/connectops/fault"
	"github.com/jonwraymond/connectops/pool"
	"github.com/jonwraymond/connectops/resilience"
)

// BreakerChecker reports the admission state of a circuit breaker. An
// open circuit is unhealthy, a probing circuit is degraded.
type BreakerChecker struct {
	name    string
	breaker *resilience.CircuitBreaker
}

// NewBreakerChecker creates a checker over the given breaker.
func NewBreakerChecker(name string, breaker *resilience.CircuitBreaker) *BreakerChecker {
	return &BreakerChecker{name: name, breaker: breaker}
}

// Name returns the name of this checker.
func (c *BreakerChecker) Name() string {
	return c.name
}

// Check reports the breaker state without touching it.
func (c *BreakerChecker) Check(_ context.Context) Result {
	m := c.breaker.Metrics()

	details := map[string]any{
		"state":                 m.State.String(),
		"consecutive_failures":  m.ConsecutiveFailures,
		"consecutive_successes": m.ConsecutiveSuccesses,
	}

	switch m.State {
	case resilience.StateOpen:
		if !m.OpenedAt.IsZero() {
			details["opened_at"] = m.OpenedAt.UTC().Format(time.RFC3339)
		}
		return Unhealthy("circuit open, calls rejected", resilience.ErrCircuitOpen).
			WithDetails(details)
	case resilience.StateHalfOpen:
		return Degraded("circuit probing the endpoint").WithDetails(details)
	default:
		return Healthy("circuit closed").WithDetails(details)
	}
}

// PoolChecker reports connection pool occupancy. Queued acquirers mean
// the pool is saturated and callers are waiting, which degrades the
// component without failing it.
type PoolChecker struct {
	name string
	pool *pool.Pool
}

// NewPoolChecker creates a checker over the given pool.
func NewPoolChecker(name string, p *pool.Pool) *PoolChecker {
	return &PoolChecker{name: name, pool: p}
}

// Name returns the name of this checker.
func (c *PoolChecker) Name() string {
	return c.name
}

// Check reports pool statistics without leasing a connection.
func (c *PoolChecker) Check(_ context.Context) Result {
	stats := c.pool.Stats()

	details := map[string]any{
		"open":      stats.Open,
		"idle":      stats.Idle,
		"in_use":    stats.InUse,
		"waiting":   stats.Waiting,
		"dials":     stats.Dials,
		"evictions": stats.Evictions,
		"discards":  stats.Discards,
	}

	if stats.Waiting > 0 {
		return Degraded(fmt.Sprintf("%d callers queued for connections", stats.Waiting)).
			WithDetails(details)
	}
	return Healthy("pool has capacity").WithDetails(details)
}

// LimiterChecker reports remaining rate limit budget. An empty bucket
// degrades the component because new calls will queue for tokens.
type LimiterChecker struct {
	name    string
	limiter *resilience.RateLimiter
}

// NewLimiterChecker creates a checker over the given limiter.
func NewLimiterChecker(name string, limiter *resilience.RateLimiter) *LimiterChecker {
	return &LimiterChecker{name: name, limiter: limiter}
}

// Name returns the name of this checker.
func (c *LimiterChecker) Name() string {
	return c.name
}

// Check reports the current token balance without consuming any.
func (c *LimiterChecker) Check(_ context.Context) Result {
	tokens := c.limiter.Tokens()

	details := map[string]any{"tokens": tokens}
	if tokens < 1 {
		return Degraded("rate limit budget exhausted, calls will queue").
			WithDetails(details)
	}
	return Healthy(fmt.Sprintf("%.0f tokens available", tokens)).WithDetails(details)
}

// ProbeChecker verifies the remote endpoint is reachable by leasing a
// connection and returning it untouched. Unlike PoolChecker this dials
// when the pool is empty, so it exercises the real network path.
type ProbeChecker struct {
	name string
	pool *pool.Pool
}

// NewProbeChecker creates an active probe over the given pool.
func NewProbeChecker(name string, p *pool.Pool) *ProbeChecker {
	return &ProbeChecker{name: name, pool: p}
}

// Name returns the name of this checker.
func (c *ProbeChecker) Name() string {
	return c.name
}

// Check leases and immediately releases a connection. A saturated pool
// degrades rather than fails: the endpoint may be fine, there is just
// no free connection to prove it with.
func (c *ProbeChecker) Check(ctx context.Context) Result {
	lease, err := c.pool.Acquire(ctx)
	if err != nil {
		if fault.KindOf(err) == fault.KindPoolExhausted {
			return Degraded("pool exhausted, probe skipped")
		}
		return Unhealthy("connection probe failed", err)
	}
	lease.Release()
	return Healthy("connection probe succeeded")
}
