package replay

import "errors"

// ErrMissingPath is returned when a disk-backed store is configured
// without a data directory.
var ErrMissingPath = errors.New("replay: badger store requires a path or in-memory mode")
