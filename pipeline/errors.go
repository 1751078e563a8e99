package pipeline

import "errors"

var (
	// ErrNilPool is returned when a pipeline is constructed without a
	// connection pool.
	ErrNilPool = errors.New("pipeline: nil connection pool")

	// ErrNilRequest is returned by Execute for a nil request.
	ErrNilRequest = errors.New("pipeline: nil request")

	// ErrMissingName is returned for an operation without a name.
	ErrMissingName = errors.New("pipeline: operation name is required")
)
