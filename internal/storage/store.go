// Package storage provides abstractions for the client's local persistent state.
package storage

import "context"

// Keys under which the client persists its state.
const (
	// KeyInitials holds the operator initials used for the last submit.
	KeyInitials = "initials"

	// KeyFavoriteGroups holds the favorite group IDs as a JSON array.
	KeyFavoriteGroups = "favoriteGroups"
)

// Store is a string key-value store. Every value is read and written whole;
// there are no partial updates.
// This abstraction allows swapping the on-disk store for an in-memory one
// in tests without changing the callers.
type Store interface {
	// Get returns the value stored under key. ok is false if the key has
	// never been written.
	Get(ctx context.Context, key string) (value string, ok bool, err error)

	// Set replaces the value stored under key.
	Set(ctx context.Context, key, value string) error

	// Close releases any resources held by the store.
	Close() error
}
