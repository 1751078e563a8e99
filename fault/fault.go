package fault

import (
	"errors"
	"fmt"
	"time"
)

// Kind classifies a failure for retry and admission decisions.
type Kind int

const (
	// KindUnknown is the zero value for unclassified errors.
	KindUnknown Kind = iota

	// KindAuthExpired means the credential was rejected as expired and a
	// refresh-then-retry is worthwhile.
	KindAuthExpired

	// KindAuthDenied means the credential was rejected outright.
	// Never retried.
	KindAuthDenied

	// KindRateLimited means the remote throttled the call, optionally
	// with a server-supplied wait hint.
	KindRateLimited

	// KindServerError means the remote failed with a 5xx status.
	KindServerError

	// KindConnectionFailure means the transport could not reach the
	// remote or the connection broke mid-call.
	KindConnectionFailure

	// KindTimeout means the attempt exceeded its deadline.
	KindTimeout

	// KindClientValidation means the remote rejected the request as
	// malformed (4xx other than auth/throttle). Never retried.
	KindClientValidation

	// KindCircuitOpen means the circuit breaker refused admission.
	KindCircuitOpen

	// KindPoolExhausted means no connection could be leased within the
	// acquire timeout.
	KindPoolExhausted

	// KindReplayMiss means replay mode found no record for the request
	// fingerprint.
	KindReplayMiss

	// KindReplayModeMismatch means an operation was attempted that the
	// configured simulation mode forbids.
	KindReplayModeMismatch
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindAuthExpired:
		return "auth-expired"
	case KindAuthDenied:
		return "auth-denied"
	case KindRateLimited:
		return "rate-limited"
	case KindServerError:
		return "server-error"
	case KindConnectionFailure:
		return "connection-failure"
	case KindTimeout:
		return "timeout"
	case KindClientValidation:
		return "client-validation"
	case KindCircuitOpen:
		return "circuit-open"
	case KindPoolExhausted:
		return "pool-exhausted"
	case KindReplayMiss:
		return "replay-miss"
	case KindReplayModeMismatch:
		return "replay-mode-mismatch"
	default:
		return "unknown"
	}
}

// Retryable reports whether the kind is handled locally by the retry
// orchestrator. Admission rejections and caller errors are not.
func (k Kind) Retryable() bool {
	switch k {
	case KindAuthExpired, KindRateLimited, KindServerError, KindConnectionFailure, KindTimeout:
		return true
	default:
		return false
	}
}

// RemoteAttributable reports whether the kind counts against the circuit
// breaker. Only failures the remote caused qualify; caller errors and
// admission rejections do not.
func (k Kind) RemoteAttributable() bool {
	switch k {
	case KindServerError, KindConnectionFailure, KindTimeout:
		return true
	default:
		return false
	}
}

// Error is a classified failure. It wraps the underlying cause and carries
// enough context for retry decisions without re-parsing provider responses.
type Error struct {
	// Kind is the failure classification.
	Kind Kind

	// Op is the logical operation name, when known.
	Op string

	// Status is the remote status code, when one was received.
	Status int

	// RetryAfter is a server- or gate-supplied wait hint. Zero means no
	// hint was given.
	RetryAfter time.Duration

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Op != "" {
		msg = e.Op + ": " + msg
	}
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.RetryAfter > 0 {
		msg = fmt.Sprintf("%s, retry after %s", msg, e.RetryAfter)
	}
	if e.Err != nil {
		msg = msg + ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// New creates a classified error wrapping cause.
func New(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Err: cause}
}

// WithOp returns a copy of the error tagged with the operation name.
func (e *Error) WithOp(op string) *Error {
	clone := *e
	clone.Op = op
	return &clone
}

// AuthExpired creates an auth-expired error.
func AuthExpired(cause error) *Error {
	return &Error{Kind: KindAuthExpired, Status: 401, Err: cause}
}

// AuthDenied creates an auth-denied error.
func AuthDenied(status int, cause error) *Error {
	return &Error{Kind: KindAuthDenied, Status: status, Err: cause}
}

// RateLimited creates a rate-limited error with an optional server hint.
func RateLimited(retryAfter time.Duration, cause error) *Error {
	return &Error{Kind: KindRateLimited, Status: 429, RetryAfter: retryAfter, Err: cause}
}

// ServerError creates a server-error for the given 5xx status.
func ServerError(status int, cause error) *Error {
	return &Error{Kind: KindServerError, Status: status, Err: cause}
}

// ConnectionFailure creates a connection-failure error.
func ConnectionFailure(cause error) *Error {
	return &Error{Kind: KindConnectionFailure, Err: cause}
}

// Timeout creates a timeout error.
func Timeout(cause error) *Error {
	return &Error{Kind: KindTimeout, Err: cause}
}

// ClientValidation creates a client-validation error for the given status.
func ClientValidation(status int, cause error) *Error {
	return &Error{Kind: KindClientValidation, Status: status, Err: cause}
}

// CircuitOpen creates a circuit-open rejection with the wait until the next
// probe window.
func CircuitOpen(retryAfter time.Duration, cause error) *Error {
	return &Error{Kind: KindCircuitOpen, RetryAfter: retryAfter, Err: cause}
}

// PoolExhausted creates a pool-exhausted rejection.
func PoolExhausted(cause error) *Error {
	return &Error{Kind: KindPoolExhausted, Err: cause}
}

// ReplayMiss creates a replay-miss error for the given fingerprint.
func ReplayMiss(fingerprint string) *Error {
	return &Error{Kind: KindReplayMiss, Err: fmt.Errorf("no record for fingerprint %s", fingerprint)}
}

// ReplayModeMismatch creates a mode-mismatch error.
func ReplayModeMismatch(cause error) *Error {
	return &Error{Kind: KindReplayModeMismatch, Err: cause}
}

// KindOf extracts the kind from err. Unclassified errors report KindUnknown;
// context deadline errors report KindTimeout so transports may return them
// unwrapped.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnknown
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// RetryAfterOf extracts the retry-after hint from err, or zero.
func RetryAfterOf(err error) time.Duration {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.RetryAfter
	}
	return 0
}

// StatusOf extracts the remote status code from err, or zero.
func StatusOf(err error) int {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Status
	}
	return 0
}
