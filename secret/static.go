package secret

import (
	"context"
	"fmt"
)

// Static resolves secrets from a fixed in-memory map. Useful for tests
// and for material already loaded by other means.
type Static struct {
	values map[string]string
}

// NewStatic creates a static provider over a copy of values.
func NewStatic(values map[string]string) *Static {
	copied := make(map[string]string, len(values))
	for k, v := range values {
		copied[k] = v
	}
	return &Static{values: copied}
}

// Name returns "static".
func (s *Static) Name() string {
	return "static"
}

// Resolve looks up ref in the map. Unknown refs are an error.
func (s *Static) Resolve(_ context.Context, ref string) (string, error) {
	value, ok := s.values[ref]
	if !ok {
		return "", fmt.Errorf("secret: static provider has no value for %q", ref)
	}
	return value, nil
}

// Close is a no-op.
func (s *Static) Close() error {
	return nil
}

// Ensure Static implements Provider
var _ Provider = (*Static)(nil)
