// Package batch fans a set of items out over a pipeline under one
// concurrency bound.
//
// Each item is an independent pipeline invocation; a weighted semaphore
// admits at most Concurrency of them at a time and a queued item starts
// as soon as a slot frees. Results keep per-item identity, so one item's
// failure never disturbs its siblings unless FailFast is requested.
//
// For providers with bulk endpoints, Chunk and ExecuteChunked compose
// the same bound with fixed-size chunking: the caller supplies a
// ChunkFunc that folds a chunk of items into one multi-item request,
// and chunks run concurrently like items do.
//
//	ex, err := batch.New(pl)
//	if err != nil {
//	    return err
//	}
//	result := ex.Execute(ctx, items, batch.Options{Concurrency: 5})
//	for _, f := range result.Failures {
//	    log.Printf("item %s: %v", f.ID, f.Err)
//	}
package batch
