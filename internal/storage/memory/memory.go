// Package memory provides an in-memory storage.Store, used in tests and as
// a fallback when no data directory is configured.
package memory

import (
	"context"
	"sync"

	"github.com/mmynk/rollcall/internal/storage"
)

var _ storage.Store = (*Store)(nil)

// Store keeps values in a map.
type Store struct {
	mu     sync.RWMutex
	values map[string]string
}

// New returns an empty store.
func New() *Store {
	return &Store{values: make(map[string]string)}
}

func (s *Store) Get(_ context.Context, key string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	v, ok := s.values[key]
	return v, ok, nil
}

func (s *Store) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.values[key] = value
	return nil
}

func (s *Store) Close() error {
	return nil
}
