package memory

import (
	"context"
	"sync"
	"time"

	"github.com/MrSnakeDoc/shelf/internal/store"
)

// Store keeps values in process memory.
// It backs tests and SHELF_STORE_BACKEND=memory; nothing survives a restart.
type Store struct {
	mu        sync.RWMutex
	values    map[string][]byte // key -> value
	lastWrite time.Time         // Timestamp of the last successful Set
}

// New creates an empty memory store
func New() *Store {
	return &Store{
		values: make(map[string][]byte),
	}
}

// Get returns a copy of the value stored under key
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	if !ok {
		return nil, store.ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

// Set stores a copy of value under key
func (s *Store) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = append([]byte(nil), value...)
	s.lastWrite = time.Now()
	return nil
}

// Delete removes key
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.values, key)
	return nil
}

// Ping always succeeds
func (s *Store) Ping(context.Context) error { return nil }

// Close is a no-op
func (s *Store) Close() error { return nil }

// Count returns the number of keys held
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.values)
}

// GetLastWrite returns the timestamp of the last successful Set
func (s *Store) GetLastWrite() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastWrite
}
