package transport

import "errors"

// Sentinel errors for transport operations.
var (
	// ErrConnClosed is returned when sending on a closed connection.
	ErrConnClosed = errors.New("transport: connection closed")

	// ErrMissingBaseURL is returned when no base URL is configured.
	ErrMissingBaseURL = errors.New("transport: base URL required")
)
