// Package memory provides an in-memory CacheStore, suitable for tests and
// single-process deployments.
package memory

import (
	"context"
	"sync"

	"github.com/tendant/content-gateway/pkg/lifecycle"
)

// Store is a concurrency-safe in-memory key/value store with no eviction.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New creates an empty store.
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

// Get returns the value for key, or lifecycle.ErrCacheMiss.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.data[key]
	if !ok {
		return nil, lifecycle.ErrCacheMiss
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Set stores a copy of value under key, replacing any previous value.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	stored := make([]byte, len(value))
	copy(stored, value)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = stored
	return nil
}
