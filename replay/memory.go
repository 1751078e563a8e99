package replay

import (
	"context"
	"sync"
)

// MemoryStore is an in-memory record store for tests and short-lived
// runs.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]*Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		records: make(map[string]*Record),
	}
}

// Get retrieves a record by fingerprint.
func (s *MemoryStore) Get(_ context.Context, fingerprint string) (*Record, bool, error) {
	s.mu.RLock()
	record, ok := s.records[fingerprint]
	s.mu.RUnlock()

	if !ok {
		return nil, false, nil
	}
	copied := *record
	return &copied, true, nil
}

// Put stores a record, replacing any existing one for its fingerprint.
func (s *MemoryStore) Put(_ context.Context, record *Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	copied := *record
	s.mu.Lock()
	s.records[record.Fingerprint] = &copied
	s.mu.Unlock()
	return nil
}

// Delete removes a record. No error on miss.
func (s *MemoryStore) Delete(_ context.Context, fingerprint string) error {
	s.mu.Lock()
	delete(s.records, fingerprint)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored records.
func (s *MemoryStore) Len(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// Ensure MemoryStore implements Store
var _ Store = (*MemoryStore)(nil)
