package credstore

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fxamacker/cbor/v2"
)

// Store format constants.
const (
	// StoreVersion is the current record file format version.
	StoreVersion = 1

	// MaxRecords is the record budget of the store, mirroring the page
	// budget of a flash partition.
	MaxRecords = 64

	// MaxValueSize bounds a single record value.
	MaxValueSize = 4096
)

// Store errors.
var (
	// ErrNoFreePages is returned when the store holds more records than
	// its budget allows. Recoverable by Erase followed by Open.
	ErrNoFreePages = errors.New("credstore: no free pages")

	// ErrVersionMismatch is returned when the record file was written by
	// a different format version. Recoverable by Erase followed by Open.
	ErrVersionMismatch = errors.New("credstore: version mismatch")

	// ErrKeyNotFound is returned by Get for absent keys.
	ErrKeyNotFound = errors.New("credstore: key not found")

	// ErrValueTooLarge is returned by Set for oversized values.
	ErrValueTooLarge = errors.New("credstore: value too large")
)

// storeFile is the on-disk representation. CBOR integer keys keep the
// encoded header small.
type storeFile struct {
	Version int               `cbor:"1,keyasint"`
	Records map[string][]byte `cbor:"2,keyasint"`
}

// Store is a persistent key-value store backed by a single CBOR file.
// All methods are safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	path    string
	records map[string][]byte
}

// Open loads the store at path, creating an empty store if the file does
// not exist. Open is idempotent. It returns ErrVersionMismatch or
// ErrNoFreePages for the two recoverable corruption conditions; any
// other error is unrecoverable from the caller's point of view.
func Open(path string) (*Store, error) {
	s := &Store{
		path:    path,
		records: make(map[string][]byte),
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("credstore: failed to read %s: %w", path, err)
	}

	var f storeFile
	if err := cbor.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("credstore: failed to decode %s: %w", path, err)
	}
	if f.Version != StoreVersion {
		return nil, fmt.Errorf("%w: file version %d, want %d", ErrVersionMismatch, f.Version, StoreVersion)
	}
	if len(f.Records) > MaxRecords {
		return nil, fmt.Errorf("%w: %d records, budget %d", ErrNoFreePages, len(f.Records), MaxRecords)
	}

	if f.Records != nil {
		s.records = f.Records
	}
	return s, nil
}

// OpenRecovering opens the store, recovering from the two recoverable
// corruption conditions by erasing the record file and reopening. Any
// other failure is returned unchanged; the caller treats it as fatal.
func OpenRecovering(path string, logger *slog.Logger) (*Store, error) {
	s, err := Open(path)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, ErrNoFreePages) && !errors.Is(err, ErrVersionMismatch) {
		return nil, err
	}

	if logger != nil {
		logger.Warn("credential store corrupt, erasing", "path", path, "reason", err)
	}
	if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
		return nil, fmt.Errorf("credstore: erase failed: %w", rmErr)
	}
	return Open(path)
}

// Get returns the value stored under key, or ErrKeyNotFound.
// The returned slice is a copy; callers may modify it.
func (s *Store) Get(key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.records[key]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrKeyNotFound, key)
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

// Has reports whether key is present.
func (s *Store) Has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.records[key]
	return ok
}

// Set stores value under key and persists the store. Overwriting an
// existing key never consumes a new record. Returns ErrNoFreePages when
// the record budget is exhausted.
func (s *Store) Set(key string, value []byte) error {
	if len(value) > MaxValueSize {
		return fmt.Errorf("%w: %d bytes, max %d", ErrValueTooLarge, len(value), MaxValueSize)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[key]; !exists && len(s.records) >= MaxRecords {
		return fmt.Errorf("%w: %d records in use", ErrNoFreePages, len(s.records))
	}

	v := make([]byte, len(value))
	copy(v, value)
	s.records[key] = v
	return s.saveLocked()
}

// Delete removes key and persists the store. Deleting an absent key is
// not an error.
func (s *Store) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[key]; !ok {
		return nil
	}
	delete(s.records, key)
	return s.saveLocked()
}

// Erase removes every record and deletes the record file.
func (s *Store) Erase() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string][]byte)
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("credstore: erase failed: %w", err)
	}
	return nil
}

// Keys returns the stored keys in sorted order.
func (s *Store) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys := make([]string, 0, len(s.records))
	for k := range s.records {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// saveLocked writes the record file. Callers hold s.mu.
func (s *Store) saveLocked() error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("credstore: failed to create %s: %w", dir, err)
		}
	}

	data, err := cbor.Marshal(storeFile{
		Version: StoreVersion,
		Records: s.records,
	})
	if err != nil {
		return fmt.Errorf("credstore: failed to encode records: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0600); err != nil {
		return fmt.Errorf("credstore: failed to write %s: %w", s.path, err)
	}
	return nil
}
