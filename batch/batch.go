package batch

import (
	"context"
	"sync"

	"golang.org/x/sync/semaphore"

	"github.com/jonwraymond/connectops/pipeline"
	"github.com/jonwraymond/connectops/transport"
)

// Item is one unit of work in a batch.
type Item struct {
	// ID identifies the item in the aggregated result. Optional;
	// submission order is always preserved through Index.
	ID string

	// Operation describes the logical call for this item.
	Operation pipeline.Operation

	// Request is the item's outbound request.
	Request *transport.Request
}

// Options tunes one batch execution.
type Options struct {
	// Concurrency bounds how many items run at once.
	// Default: 10
	Concurrency int

	// FailFast cancels the batch on the first failure. In-flight
	// siblings see their context canceled; items that never started
	// are reported as skipped.
	FailFast bool
}

// Success is one completed item.
type Success struct {
	// Index is the item's position in the submitted slice.
	Index int

	// ID echoes the item's ID.
	ID string

	// Response is the item's remote response.
	Response *transport.Response
}

// Failure is one failed or skipped item.
type Failure struct {
	// Index is the item's position in the submitted slice.
	Index int

	// ID echoes the item's ID.
	ID string

	// Err is the item's classified fault, or the cancellation that
	// stopped the batch before the item ran.
	Err error

	// Skipped is true when the item never started because the batch
	// was canceled first.
	Skipped bool
}

// Result aggregates one batch run. Every submitted item appears in
// exactly one of the two slices, each in submission order.
type Result struct {
	Successes []Success
	Failures  []Failure
}

// Failed reports whether any item failed or was skipped.
func (r Result) Failed() bool {
	return len(r.Failures) > 0
}

// Executor fans batches of items out over one pipeline.
type Executor struct {
	pipeline *pipeline.Pipeline
}

// New creates an executor over the pipeline.
func New(p *pipeline.Pipeline) (*Executor, error) {
	if p == nil {
		return nil, ErrNilPipeline
	}
	return &Executor{pipeline: p}, nil
}

// Execute runs every item through the pipeline, at most
// opts.Concurrency at a time. Each item is an independent invocation:
// one failure never aborts siblings unless opts.FailFast is set. The
// semaphore is the only cross-item coordination; items already hold
// their leased connection exclusively.
func (e *Executor) Execute(ctx context.Context, items []Item, opts Options) Result {
	// Apply defaults
	if opts.Concurrency <= 0 {
		opts.Concurrency = 10
	}

	batchCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	sem := semaphore.NewWeighted(int64(opts.Concurrency))
	outcomes := make([]outcome, len(items))

	var wg sync.WaitGroup
	for i := range items {
		if err := sem.Acquire(batchCtx, 1); err != nil {
			// Canceled before this item could start; everything
			// from here on is skipped.
			for j := i; j < len(items); j++ {
				outcomes[j] = outcome{err: err, skipped: true}
			}
			break
		}

		wg.Add(1)
		go func(i int, item Item) {
			defer wg.Done()
			defer sem.Release(1)

			resp, err := e.pipeline.Execute(batchCtx, item.Operation, item.Request)
			if err != nil {
				outcomes[i] = outcome{err: err}
				if opts.FailFast {
					cancel()
				}
				return
			}
			outcomes[i] = outcome{resp: resp}
		}(i, items[i])
	}
	wg.Wait()

	return collect(items, outcomes)
}

// outcome is the per-item slot written by exactly one goroutine.
type outcome struct {
	resp    *transport.Response
	err     error
	skipped bool
}

// collect folds per-item outcomes into a Result in submission order.
func collect(items []Item, outcomes []outcome) Result {
	var result Result
	for i, out := range outcomes {
		if out.err != nil {
			result.Failures = append(result.Failures, Failure{
				Index:   i,
				ID:      items[i].ID,
				Err:     out.err,
				Skipped: out.skipped,
			})
			continue
		}
		result.Successes = append(result.Successes, Success{
			Index:    i,
			ID:       items[i].ID,
			Response: out.resp,
		})
	}
	return result
}
