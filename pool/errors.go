package pool

import "errors"

var (
	// ErrClosed is returned by Acquire after the pool has been closed.
	ErrClosed = errors.New("pool: closed")

	// ErrNilDialer is returned when a pool is constructed without a dialer.
	ErrNilDialer = errors.New("pool: nil dialer")

	// ErrAcquireTimeout is the cause carried by the pool-exhausted fault
	// when Acquire gives up waiting for a free connection.
	ErrAcquireTimeout = errors.New("pool: acquire timed out waiting for a connection")
)
