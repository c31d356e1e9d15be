package rowedit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/rollcall/internal/models"
)

var (
	ErrCancelled  = errors.New("cancelled")
	ErrNotUpdated = errors.New("server did not update the entry")
	ErrNotRemoved = errors.New("server did not remove the entry")
)

// Notification texts shown when a request fails.
const (
	MsgSaveFailed   = "Saving failed"
	MsgDeleteFailed = "Deleting failed"
	PromptDelete    = "Really delete this entry?"
)

// Backend applies entry mutations. Both methods identify the record by the
// original's field values.
type Backend interface {
	UpdateEntry(ctx context.Context, original models.Entry, updated models.EntryUpdate) (bool, error)
	DeleteEntry(ctx context.Context, original models.Entry) (bool, error)
}

// Confirmer asks the user a yes/no question and blocks for the answer.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Notifier shows a one-shot message to the user.
type Notifier interface {
	Notify(msg string)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// NotifyFunc adapts a function to Notifier.
type NotifyFunc func(msg string)

func (f NotifyFunc) Notify(msg string) { f(msg) }

// Reconciler saves and deletes rows of a Collection against a Backend.
type Reconciler struct {
	rows    *Collection
	backend Backend
	confirm Confirmer
	notify  Notifier
}

// New creates a Reconciler for rows.
func New(rows *Collection, backend Backend, confirm Confirmer, notify Notifier) *Reconciler {
	return &Reconciler{
		rows:    rows,
		backend: backend,
		confirm: confirm,
		notify:  notify,
	}
}

// Rows returns the collection the reconciler works on.
func (r *Reconciler) Rows() *Collection {
	return r.rows
}

// Save sends the row's pending edit. On success the original is replaced
// and the row is clean again (unless it was edited further meanwhile). On
// failure the original is kept, the row stays dirty and the user is
// notified. The returned row reflects the state after the response.
func (r *Reconciler) Save(ctx context.Context, key string) (Row, error) {
	original, pending, err := r.rows.beginSave(key)
	if err != nil {
		return Row{}, err
	}

	slog.Info("Saving entry",
		"row", key,
		"person_id", original.ID,
		"from", original.Timestamp,
		"to", pending.Timestamp,
		"status", pending.Status,
	)

	ok, err := r.backend.UpdateEntry(ctx, original, pending)
	if err == nil && !ok {
		err = ErrNotUpdated
	}

	row := r.rows.finishSave(key, pending, err == nil)
	if err != nil {
		slog.Warn("Save failed", "row", key, "error", err)
		r.notify.Notify(MsgSaveFailed)
		return row, fmt.Errorf("failed to save entry: %w", err)
	}

	slog.Info("Entry saved", "row", key, "state", row.State)
	return row, nil
}

// Delete asks for confirmation, then deletes the row's record. The row is
// removed only after the backend confirms; on failure it keeps its prior
// state and the user is notified.
func (r *Reconciler) Delete(ctx context.Context, key string) error {
	if err := r.rows.checkLive(key); err != nil {
		return err
	}
	if !r.confirm.Confirm(PromptDelete) {
		return ErrCancelled
	}

	original, prior, err := r.rows.beginDelete(key)
	if err != nil {
		return err
	}

	slog.Info("Deleting entry", "row", key, "person_id", original.ID, "timestamp", original.Timestamp)

	ok, err := r.backend.DeleteEntry(ctx, original)
	if err == nil && !ok {
		err = ErrNotRemoved
	}

	r.rows.finishDelete(key, prior, err == nil)
	if err != nil {
		slog.Warn("Delete failed", "row", key, "error", err)
		r.notify.Notify(MsgDeleteFailed)
		return fmt.Errorf("failed to delete entry: %w", err)
	}

	slog.Info("Entry deleted", "row", key)
	return nil
}
