package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/jonwraymond/connectops/fault"
)

// RetryPolicyConfig configures the retry policy.
type RetryPolicyConfig struct {
	// MaxAttempts is the maximum number of physical attempts per logical
	// operation, including the initial one.
	// Default: 3
	MaxAttempts int

	// BaseDelay is the delay before the first backoff retry.
	// Default: 100ms
	BaseDelay time.Duration

	// MaxDelay caps the backoff delay between retries.
	// Default: 30s
	MaxDelay time.Duration

	// RefreshBudget is the number of credential refreshes allowed per
	// logical operation, counted separately from MaxAttempts.
	// Default: 1
	RefreshBudget int

	// DisableJitter turns off the random spread added to backoff delays.
	// Jitter is on unless disabled; tests that assert exact delays turn
	// it off.
	DisableJitter bool

	// OnRetry is called before each retry attempt.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// Decision is the verdict for one failed attempt.
type Decision struct {
	// Retry is true when another physical attempt should be made.
	Retry bool

	// Refresh is true when the credential must be refreshed before the
	// next attempt. Refresh retries carry no delay.
	Refresh bool

	// Delay is the wait before the next attempt.
	Delay time.Duration
}

// RetryPolicy decides, per failed attempt, whether and how to try again.
// The decision depends on the fault kind, not on the error text:
//
//   - auth-expired: refresh the credential and retry immediately, bounded
//     by RefreshBudget
//   - rate-limited: wait exactly the server's retry-after hint when one
//     was given, otherwise back off
//   - server errors, timeouts, connection failures: exponential backoff
//     with jitter
//   - everything else, including unclassified errors: stop
//
// Admission rejections (circuit open, pool exhausted) are not retried here;
// they surface to the caller, whose own backoff governs when to come back.
type RetryPolicy struct {
	config RetryPolicyConfig
}

// NewRetryPolicy creates a new retry policy.
func NewRetryPolicy(config RetryPolicyConfig) *RetryPolicy {
	// Apply defaults
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.BaseDelay <= 0 {
		config.BaseDelay = 100 * time.Millisecond
	}
	if config.MaxDelay <= 0 {
		config.MaxDelay = 30 * time.Second
	}
	if config.RefreshBudget <= 0 {
		config.RefreshBudget = 1
	}

	return &RetryPolicy{config: config}
}

// Decide returns the verdict for err after attempt physical attempts and
// refreshes credential refreshes.
func (p *RetryPolicy) Decide(attempt, refreshes int, err error) Decision {
	if err == nil {
		return Decision{}
	}

	kind := fault.KindOf(err)
	if !kind.Retryable() {
		return Decision{}
	}
	if attempt >= p.config.MaxAttempts {
		return Decision{}
	}

	switch kind {
	case fault.KindAuthExpired:
		if refreshes >= p.config.RefreshBudget {
			return Decision{}
		}
		return Decision{Retry: true, Refresh: true}

	case fault.KindRateLimited:
		if hint := fault.RetryAfterOf(err); hint > 0 {
			return Decision{Retry: true, Delay: hint}
		}
		return Decision{Retry: true, Delay: p.Backoff(attempt)}

	default:
		return Decision{Retry: true, Delay: p.Backoff(attempt)}
	}
}

// Backoff returns the delay after the given 1-based attempt number:
// BaseDelay doubled per attempt, capped at MaxDelay, plus up to 10% jitter.
func (p *RetryPolicy) Backoff(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}

	multiplier := math.Pow(2, float64(attempt-1))
	delay := time.Duration(float64(p.config.BaseDelay) * multiplier)

	// Cap at max delay; the duration overflows negative past ~292y.
	if delay > p.config.MaxDelay || delay <= 0 {
		delay = p.config.MaxDelay
	}

	if !p.config.DisableJitter {
		// #nosec G404 -- jitter is non-cryptographic timing variance.
		delay += time.Duration(rand.Int64N(int64(delay/10) + 1))
	}

	return delay
}

// Execute runs the operation under the policy's bounded attempt loop.
//
// Execute cannot refresh credentials itself: a refresh decision consumes
// budget and retries immediately, on the assumption that op re-attaches
// fresh credentials each call. Pipelines that own a credential drive
// Decide directly instead.
func (p *RetryPolicy) Execute(ctx context.Context, op func(context.Context) error) error {
	var lastErr error
	refreshes := 0

	for attempt := 1; ; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		decision := p.Decide(attempt, refreshes, err)
		if !decision.Retry {
			return lastErr
		}
		if decision.Refresh {
			refreshes++
		}

		if p.config.OnRetry != nil {
			p.config.OnRetry(attempt, err, decision.Delay)
		}

		if decision.Delay > 0 {
			timer := time.NewTimer(decision.Delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return ctx.Err()
			case <-timer.C:
				// Continue to next attempt
			}
		}
	}
}

// Config returns the retry policy configuration.
func (p *RetryPolicy) Config() RetryPolicyConfig {
	return p.config
}
