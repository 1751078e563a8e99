package resilience

import "errors"

// Sentinel errors for resilience operations.
var (
	// ErrCircuitOpen matches any *OpenError via errors.Is, whether the
	// rejection came from the open timeout or a concurrent probe.
	ErrCircuitOpen = errors.New("resilience: circuit breaker is open")
)
