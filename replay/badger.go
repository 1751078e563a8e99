package replay

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	badgerdb "github.com/dgraph-io/badger/v3"
)

// BadgerConfig configures the on-disk record store.
type BadgerConfig struct {
	// Path is the data directory. Required unless InMemory is set.
	Path string

	// InMemory keeps the whole store in memory; Path is ignored.
	InMemory bool

	// SyncWrites fsyncs every write. Slower, but recordings survive a
	// crash mid-run. Default: false
	SyncWrites bool
}

// BadgerStore persists records in a BadgerDB database, one key per
// fingerprint.
type BadgerStore struct {
	db *badgerdb.DB
}

// NewBadgerStore opens the database and returns the store. The caller
// owns the store and must Close it.
func NewBadgerStore(config BadgerConfig) (*BadgerStore, error) {
	var opts badgerdb.Options
	if config.InMemory {
		opts = badgerdb.DefaultOptions("").WithInMemory(true)
	} else {
		if config.Path == "" {
			return nil, ErrMissingPath
		}
		opts = badgerdb.DefaultOptions(config.Path)
	}
	opts.SyncWrites = config.SyncWrites
	opts = opts.WithLogger(nil)

	db, err := badgerdb.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("replay: open badger store: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Get retrieves a record by fingerprint.
func (s *BadgerStore) Get(_ context.Context, fingerprint string) (*Record, bool, error) {
	var raw []byte
	err := s.db.View(func(txn *badgerdb.Txn) error {
		item, err := txn.Get([]byte(fingerprint))
		if err != nil {
			return err
		}
		raw, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badgerdb.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("replay: badger get: %w", err)
	}

	var record Record
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, false, fmt.Errorf("replay: decode record: %w", err)
	}
	return &record, true, nil
}

// Put stores a record, replacing any existing one for its fingerprint.
func (s *BadgerStore) Put(_ context.Context, record *Record) error {
	if err := record.Validate(); err != nil {
		return err
	}

	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("replay: encode record: %w", err)
	}

	err = s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Set([]byte(record.Fingerprint), raw)
	})
	if err != nil {
		return fmt.Errorf("replay: badger put: %w", err)
	}
	return nil
}

// Delete removes a record. No error on miss.
func (s *BadgerStore) Delete(_ context.Context, fingerprint string) error {
	err := s.db.Update(func(txn *badgerdb.Txn) error {
		return txn.Delete([]byte(fingerprint))
	})
	if err != nil {
		return fmt.Errorf("replay: badger delete: %w", err)
	}
	return nil
}

// Len returns the number of stored records.
func (s *BadgerStore) Len(_ context.Context) (int, error) {
	count := 0
	err := s.db.View(func(txn *badgerdb.Txn) error {
		opts := badgerdb.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("replay: badger count: %w", err)
	}
	return count, nil
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// Ensure BadgerStore implements Store
var _ Store = (*BadgerStore)(nil)
