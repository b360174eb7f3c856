// Package storage provides the durable key-value stores that hold the recipe
// collection, the weekly schedule and the book collection as serialized blobs.
package storage

import (
	"context"
	"sync"
)

// KV is a synchronous, all-or-nothing string store.
// Load reports ok=false when the key has never been written.
type KV interface {
	Load(ctx context.Context, key string) (value string, ok bool, err error)
	Store(ctx context.Context, key, value string) error
}

// MemoryStore keeps values in process memory. Used by tests and by the "memory" backend.
type MemoryStore struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{values: make(map[string]string)}
}

// Load returns the value stored under key.
func (s *MemoryStore) Load(_ context.Context, key string) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok, nil
}

// Store writes value under key.
func (s *MemoryStore) Store(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
	return nil
}
