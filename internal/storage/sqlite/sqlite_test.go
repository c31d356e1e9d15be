package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mmynk/rollcall/internal/storage"
)

func TestSQLiteStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "state.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()

	t.Run("Get on missing key", func(t *testing.T) {
		value, ok, err := store.Get(ctx, storage.KeyInitials)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if ok {
			t.Errorf("expected missing key, got %q", value)
		}
	})

	t.Run("Set then Get", func(t *testing.T) {
		if err := store.Set(ctx, storage.KeyInitials, "AB"); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		value, ok, err := store.Get(ctx, storage.KeyInitials)
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if !ok || value != "AB" {
			t.Errorf("expected AB, got %q (ok=%v)", value, ok)
		}
	})

	t.Run("Set replaces whole value", func(t *testing.T) {
		if err := store.Set(ctx, storage.KeyFavoriteGroups, `["5b","7a"]`); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		if err := store.Set(ctx, storage.KeyFavoriteGroups, `["7a"]`); err != nil {
			t.Fatalf("Set failed: %v", err)
		}
		value, _, _ := store.Get(ctx, storage.KeyFavoriteGroups)
		if value != `["7a"]` {
			t.Errorf("expected replaced value, got %q", value)
		}
	})
}

func TestSQLiteStoreSurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "state.db")
	ctx := context.Background()

	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	if err := store.Set(ctx, storage.KeyInitials, "CD"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	store.Close()

	reopened, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to reopen store: %v", err)
	}
	defer reopened.Close()

	value, ok, err := reopened.Get(ctx, storage.KeyInitials)
	if err != nil || !ok || value != "CD" {
		t.Errorf("expected CD after reopen, got %q ok=%v err=%v", value, ok, err)
	}
}
