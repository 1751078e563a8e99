package batch

import (
	"context"

	"github.com/jonwraymond/connectops/pipeline"
	"github.com/jonwraymond/connectops/transport"
)

// ChunkFunc folds a chunk of items into one multi-item request, for
// providers whose bulk endpoints accept many records per call.
type ChunkFunc func(chunk []Item) (pipeline.Operation, *transport.Request, error)

// Chunk splits items into consecutive chunks of at most size items;
// the final chunk carries the remainder. Chunks share the backing
// array, so callers treat them as read-only views. A non-positive
// size yields a single chunk.
func Chunk(items []Item, size int) [][]Item {
	if len(items) == 0 {
		return nil
	}
	if size <= 0 {
		return [][]Item{items}
	}

	chunks := make([][]Item, 0, (len(items)+size-1)/size)
	for start := 0; start < len(items); start += size {
		end := start + size
		if end > len(items) {
			end = len(items)
		}
		chunks = append(chunks, items[start:end])
	}
	return chunks
}

// ExecuteChunked splits items into fixed-size chunks, builds one
// request per chunk with fn, and runs the chunks concurrently under
// the same concurrency bound Execute uses.
//
// Result entries are per chunk: Index is the chunk ordinal and ID
// spans the chunk's item IDs. Mapping a multi-status response back to
// individual records within a chunk is the caller's parse step.
// Failures from request building precede execution failures in the
// Failures slice.
func (e *Executor) ExecuteChunked(ctx context.Context, items []Item, chunkSize int, fn ChunkFunc, opts Options) Result {
	chunks := Chunk(items, chunkSize)
	if len(chunks) == 0 {
		return Result{}
	}

	var result Result
	if fn == nil {
		for ci, chunk := range chunks {
			result.Failures = append(result.Failures, Failure{
				Index: ci,
				ID:    chunkID(chunk),
				Err:   ErrNilChunkFunc,
			})
		}
		return result
	}

	built := make([]Item, 0, len(chunks))
	ordinals := make([]int, 0, len(chunks))
	for ci, chunk := range chunks {
		op, req, err := fn(chunk)
		if err != nil {
			result.Failures = append(result.Failures, Failure{
				Index: ci,
				ID:    chunkID(chunk),
				Err:   err,
			})
			continue
		}
		built = append(built, Item{ID: chunkID(chunk), Operation: op, Request: req})
		ordinals = append(ordinals, ci)
	}

	run := e.Execute(ctx, built, opts)
	for _, s := range run.Successes {
		s.Index = ordinals[s.Index]
		result.Successes = append(result.Successes, s)
	}
	for _, f := range run.Failures {
		f.Index = ordinals[f.Index]
		result.Failures = append(result.Failures, f)
	}
	return result
}

// chunkID labels a chunk by the span of its item IDs.
func chunkID(chunk []Item) string {
	first, last := chunk[0].ID, chunk[len(chunk)-1].ID
	if first == last {
		return first
	}
	return first + ".." + last
}
