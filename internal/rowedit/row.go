// Package rowedit tracks inline edits of logged entries and reconciles them
// with the backend.
//
// Each row keeps the entry as the server last confirmed it (the original)
// next to the values currently being edited. Saving sends both so the
// backend can find the record by its old values; a confirmed save replaces
// the original, a failed one leaves it untouched and the row dirty.
//
//	Clean --edit--> Dirty --Save--> Saving --ok--> Clean
//	                  ^                |
//	                  +-----failed-----+
//
// Any live row may be deleted; a confirmed delete is terminal.
package rowedit

import (
	"fmt"

	"github.com/mmynk/rollcall/internal/models"
)

// State is the lifecycle state of a row.
type State int

const (
	Clean State = iota
	Dirty
	Saving
	Deleting
	Deleted
)

func (s State) String() string {
	switch s {
	case Clean:
		return "clean"
	case Dirty:
		return "dirty"
	case Saving:
		return "saving"
	case Deleting:
		return "deleting"
	case Deleted:
		return "deleted"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Field names an editable field of a row.
type Field string

const (
	FieldStatus Field = "status"
	FieldDate   Field = "date"
	FieldTime   Field = "time"
)

// ParseField returns the field named s.
func ParseField(s string) (Field, error) {
	switch f := Field(s); f {
	case FieldStatus, FieldDate, FieldTime:
		return f, nil
	}
	return "", fmt.Errorf("unknown field %q", s)
}

// Row is a snapshot of one displayed entry.
type Row struct {
	// Key identifies the row within its collection. It is never sent to
	// the backend.
	Key string

	// Original is the last server-confirmed entry.
	Original models.Entry

	// Status, Date and Time are the values currently shown for editing.
	Status models.Action
	Date   string
	Time   string

	State State
}

func newRow(key string, e models.Entry) *Row {
	date, clock := models.SplitTimestamp(e.Timestamp)
	return &Row{
		Key:      key,
		Original: e,
		Status:   e.Status,
		Date:     date,
		Time:     clock,
		State:    Clean,
	}
}

// Timestamp joins the edited date and time the way the backend stores them.
func (r Row) Timestamp() string {
	return models.JoinTimestamp(r.Date, r.Time)
}

// Pending returns the update that saving the row would send.
func (r Row) Pending() models.EntryUpdate {
	return models.EntryUpdate{Status: r.Status, Timestamp: r.Timestamp()}
}

// Changed reports whether the edited values differ from the original.
func (r Row) Changed() bool {
	return r.Status != r.Original.Status || r.Timestamp() != r.Original.Timestamp
}

// SaveVisible reports whether the save affordance should be shown. A row
// being deleted keeps it while its fields differ from the original.
func (r Row) SaveVisible() bool {
	switch r.State {
	case Dirty, Saving:
		return true
	case Deleting:
		return r.Changed()
	}
	return false
}

// Busy reports whether a save or delete is in flight.
func (r Row) Busy() bool {
	return r.State == Saving || r.State == Deleting
}

func (r *Row) set(f Field, value string) {
	switch f {
	case FieldStatus:
		r.Status = models.Action(value)
	case FieldDate:
		r.Date = value
	case FieldTime:
		r.Time = value
	}
}

// rederive recomputes dirtiness from the fields. Busy rows keep their state.
func (r *Row) rederive() {
	if r.Busy() || r.State == Deleted {
		return
	}
	if r.Changed() {
		r.State = Dirty
	} else {
		r.State = Clean
	}
}
