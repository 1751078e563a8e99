package resilience

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means the circuit is operating normally.
	StateClosed State = iota
	// StateOpen means the circuit is rejecting all admissions.
	StateOpen
	// StateHalfOpen means the circuit is probing for recovery.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// DecayPolicy controls how a closed-state success drains the consecutive
// failure counter.
type DecayPolicy int

const (
	// DecayDecrement lowers the failure counter by one per success, so a
	// slow trickle of failures under mixed traffic still opens the circuit.
	DecayDecrement DecayPolicy = iota
	// DecayReset clears the failure counter on any success.
	DecayReset
)

// CircuitBreakerConfig configures the circuit breaker.
type CircuitBreakerConfig struct {
	// FailureThreshold is the run of consecutive failures that opens
	// the circuit.
	// Default: 5
	FailureThreshold int

	// SuccessThreshold is the run of consecutive half-open probe
	// successes that closes the circuit.
	// Default: 1
	SuccessThreshold int

	// ResetTimeout is how long the circuit stays open before admitting
	// a probe.
	// Default: 30 seconds
	ResetTimeout time.Duration

	// FailureDecay selects how closed-state successes drain the failure
	// counter.
	// Default: DecayDecrement
	FailureDecay DecayPolicy

	// OnStateChange is called when the circuit state changes.
	OnStateChange func(from, to State)

	// IsFailure determines if an error should count as a failure. Only
	// Execute consults it; callers of Allow report outcomes themselves.
	// Default: all non-nil errors are failures.
	IsFailure func(err error) bool
}

// CircuitBreaker gates admission to one remote endpoint based on a run of
// consecutive failures. One breaker is owned per endpoint; construct it
// where the endpoint's transport is wired and share the pointer.
type CircuitBreaker struct {
	config CircuitBreakerConfig

	mu            sync.Mutex
	state         State
	failures      int
	successes     int
	openedAt      time.Time
	probeInFlight bool
	generation    uint64
}

// NewCircuitBreaker creates a new circuit breaker.
func NewCircuitBreaker(config CircuitBreakerConfig) *CircuitBreaker {
	// Apply defaults
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 5
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = 1
	}
	if config.ResetTimeout <= 0 {
		config.ResetTimeout = 30 * time.Second
	}
	if config.IsFailure == nil {
		config.IsFailure = func(err error) bool { return err != nil }
	}

	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
	}
}

// Allow admits one physical attempt. On admission it returns a record
// function that must be called exactly once with the attempt outcome:
// success=true when the endpoint proved healthy. Rejections carry an
// *OpenError with the wait until the next probe window.
//
// In half-open, exactly one probe is admitted at a time; concurrent
// attempts are rejected with Probing set.
func (cb *CircuitBreaker) Allow() (record func(success bool), err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	state := cb.currentStateLocked()

	switch state {
	case StateOpen:
		return nil, &OpenError{RetryAfter: cb.retryAfterLocked()}
	case StateHalfOpen:
		if cb.probeInFlight {
			return nil, &OpenError{Probing: true}
		}
		cb.probeInFlight = true
	}

	gen := cb.generation
	probe := state == StateHalfOpen
	return func(success bool) {
		cb.recordOutcome(gen, probe, success)
	}, nil
}

// Execute runs the operation through the circuit breaker, recording the
// outcome via the configured IsFailure predicate.
func (cb *CircuitBreaker) Execute(ctx context.Context, op func(context.Context) error) error {
	record, err := cb.Allow()
	if err != nil {
		return err
	}

	opErr := op(ctx)
	record(!cb.config.IsFailure(opErr))
	return opErr
}

// State returns the current circuit state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.currentStateLocked()
}

// Reset forces the circuit back to closed with counters cleared. Outcomes
// from attempts admitted before the reset are dropped.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	oldState := cb.state
	cb.state = StateClosed
	cb.failures = 0
	cb.successes = 0
	cb.probeInFlight = false
	cb.generation++

	if oldState != StateClosed && cb.config.OnStateChange != nil {
		cb.config.OnStateChange(oldState, StateClosed)
	}
}

func (cb *CircuitBreaker) recordOutcome(gen uint64, probe, success bool) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if gen != cb.generation {
		return
	}

	oldState := cb.state

	if probe {
		if cb.state != StateHalfOpen {
			return
		}
		cb.probeInFlight = false
		if success {
			cb.successes++
			if cb.successes >= cb.config.SuccessThreshold {
				cb.setStateLocked(StateClosed)
			}
		} else {
			// Failed probe restarts the open timeout.
			cb.setStateLocked(StateOpen)
		}
	} else {
		// Outcomes admitted in closed state are dropped if the circuit
		// opened in the meantime.
		if cb.state != StateClosed {
			return
		}
		if success {
			cb.decayLocked()
		} else {
			cb.failures++
			if cb.failures >= cb.config.FailureThreshold {
				cb.setStateLocked(StateOpen)
			}
		}
	}

	if oldState != cb.state && cb.config.OnStateChange != nil {
		cb.config.OnStateChange(oldState, cb.state)
	}
}

func (cb *CircuitBreaker) decayLocked() {
	switch cb.config.FailureDecay {
	case DecayReset:
		cb.failures = 0
	default:
		if cb.failures > 0 {
			cb.failures--
		}
	}
}

// currentStateLocked resolves the lazy open-to-half-open transition.
func (cb *CircuitBreaker) currentStateLocked() State {
	if cb.state == StateOpen && time.Since(cb.openedAt) >= cb.config.ResetTimeout {
		cb.state = StateHalfOpen
		cb.probeInFlight = false
		cb.successes = 0
		if cb.config.OnStateChange != nil {
			cb.config.OnStateChange(StateOpen, StateHalfOpen)
		}
	}
	return cb.state
}

func (cb *CircuitBreaker) setStateLocked(state State) {
	cb.state = state
	switch state {
	case StateOpen:
		cb.openedAt = time.Now()
		cb.successes = 0
		cb.probeInFlight = false
	case StateClosed:
		cb.failures = 0
		cb.successes = 0
		cb.probeInFlight = false
	}
}

func (cb *CircuitBreaker) retryAfterLocked() time.Duration {
	remaining := cb.config.ResetTimeout - time.Since(cb.openedAt)
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// Metrics returns current circuit breaker statistics.
func (cb *CircuitBreaker) Metrics() CircuitBreakerMetrics {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return CircuitBreakerMetrics{
		State:                cb.currentStateLocked(),
		ConsecutiveFailures:  cb.failures,
		ConsecutiveSuccesses: cb.successes,
		OpenedAt:             cb.openedAt,
	}
}

// CircuitBreakerMetrics contains circuit breaker statistics.
type CircuitBreakerMetrics struct {
	State                State
	ConsecutiveFailures  int
	ConsecutiveSuccesses int
	OpenedAt             time.Time
}

// OpenError reports a rejected admission while the circuit is open or a
// half-open probe is already in flight.
type OpenError struct {
	// RetryAfter is the wait until the next probe window.
	RetryAfter time.Duration

	// Probing is true when the rejection was due to a concurrent
	// half-open probe rather than the open timeout.
	Probing bool
}

// Error implements the error interface.
func (e *OpenError) Error() string {
	if e.Probing {
		return "resilience: circuit half-open, probe in flight"
	}
	return fmt.Sprintf("resilience: circuit open, retry after %s", e.RetryAfter)
}

// Is reports equivalence with the ErrCircuitOpen sentinel so callers can
// use errors.Is without unwrapping the typed error.
func (e *OpenError) Is(target error) bool {
	return target == ErrCircuitOpen
}
