package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/mmynk/rollcall/internal/events"
	"github.com/mmynk/rollcall/internal/rowedit"
)

// EditService opens a person's logged entries for editing.
type EditService struct {
	entries EntrySource
	confirm rowedit.Confirmer
	notify  rowedit.Notifier
}

// NewEditService creates an EditService. confirm answers delete prompts
// and notify shows failures.
func NewEditService(entries EntrySource, confirm rowedit.Confirmer, notify rowedit.Notifier) *EditService {
	return &EditService{entries: entries, confirm: confirm, notify: notify}
}

// Open loads the entries of personID in group and registers handlers for
// field, save and delete events on bus. A bus should serve one opened
// collection.
func (s *EditService) Open(ctx context.Context, bus *events.Bus, group, personID string) (*rowedit.Reconciler, error) {
	if group == "" {
		return nil, ErrNoGroup
	}
	if personID == "" {
		return nil, ErrNoPerson
	}

	entries, err := s.entries.Entries(ctx, group, personID)
	if err != nil {
		slog.Error("Open failed", "group", group, "person_id", personID, "error", err)
		return nil, fmt.Errorf("failed to load entries: %w", err)
	}

	rows := rowedit.NewCollection(entries)
	if dups := rows.Duplicates(); len(dups) > 0 {
		slog.Warn("Entries with identical values; saving or deleting one may hit another", "groups", len(dups))
	}
	rec := rowedit.New(rows, s.entries, s.confirm, s.notify)

	bus.On(events.KindFieldChanged, func(_ context.Context, ev events.Event) error {
		fc := ev.(events.FieldChanged)
		_, err := rows.SetField(fc.Row, fc.Field, fc.Value)
		return err
	})
	bus.On(events.KindSaveRequested, func(ctx context.Context, ev events.Event) error {
		_, err := rec.Save(ctx, ev.(events.SaveRequested).Row)
		return err
	})
	bus.On(events.KindDeleteRequested, func(ctx context.Context, ev events.Event) error {
		return rec.Delete(ctx, ev.(events.DeleteRequested).Row)
	})

	slog.Debug("Entries opened", "group", group, "person_id", personID, "rows", rows.Len())
	return rec, nil
}
