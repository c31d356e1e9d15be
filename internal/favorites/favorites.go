package favorites

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mmynk/rollcall/internal/storage"
)

// Favorites persists the favorite set under storage.KeyFavoriteGroups.
// Every toggle reads the whole set and writes the whole set back.
type Favorites struct {
	store    storage.Store
	collator *Collator
}

// New creates a Favorites backed by store. The collator orders the
// persisted array.
func New(store storage.Store, collator *Collator) *Favorites {
	return &Favorites{store: store, collator: collator}
}

// Load returns the stored favorite set. A missing or unparsable value is
// an empty set, not an error.
func (f *Favorites) Load(ctx context.Context) (Set, error) {
	raw, ok, err := f.store.Get(ctx, storage.KeyFavoriteGroups)
	if err != nil {
		return Set{}, fmt.Errorf("failed to read favorites: %w", err)
	}
	if !ok || raw == "" {
		return NewSet(), nil
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		slog.Warn("Ignoring corrupt favorites value", "error", err)
		return NewSet(), nil
	}
	return NewSet(ids...), nil
}

// IsFavorite reports whether group is in the stored set.
func (f *Favorites) IsFavorite(ctx context.Context, group string) (bool, error) {
	favs, err := f.Load(ctx)
	if err != nil {
		return false, err
	}
	return favs.Contains(group), nil
}

// Toggle inverts group's membership, persists the full set and returns it.
func (f *Favorites) Toggle(ctx context.Context, group string) (Set, error) {
	favs, err := f.Load(ctx)
	if err != nil {
		return Set{}, err
	}
	favs = favs.Toggle(group)

	ids := favs.IDs()
	f.collator.Sort(ids)
	data, err := json.Marshal(ids)
	if err != nil {
		return Set{}, fmt.Errorf("failed to encode favorites: %w", err)
	}
	if err := f.store.Set(ctx, storage.KeyFavoriteGroups, string(data)); err != nil {
		return Set{}, fmt.Errorf("failed to write favorites: %w", err)
	}

	slog.Debug("Favorite toggled", "group", group, "favorite", favs.Contains(group), "count", favs.Len())
	return favs, nil
}
