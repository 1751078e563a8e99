package replay

import "context"

// Store persists records keyed by fingerprint.
//
// Contract:
//   - A fingerprint maps to at most one record; Put replaces any
//     existing record for the same fingerprint. Mode-level rules about
//     preserving recordings live in the Interceptor, not the store.
//   - Get reports a miss as (nil, false, nil); errors are reserved for
//     backend failures.
//   - Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, fingerprint string) (*Record, bool, error)
	Put(ctx context.Context, record *Record) error
	Delete(ctx context.Context, fingerprint string) error
	Len(ctx context.Context) (int, error)
}
