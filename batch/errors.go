package batch

import "errors"

var (
	// ErrNilPipeline is returned when an executor is constructed
	// without a pipeline.
	ErrNilPipeline = errors.New("batch: nil pipeline")

	// ErrNilChunkFunc is the failure recorded for every chunk when
	// ExecuteChunked is called without a chunk builder.
	ErrNilChunkFunc = errors.New("batch: nil chunk builder")
)
