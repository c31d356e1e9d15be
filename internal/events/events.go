// Package events carries user intents from the front end to the services
// that act on them.
package events

import "github.com/mmynk/rollcall/internal/rowedit"

// Kind identifies an event type.
type Kind string

const (
	KindSelectionChanged Kind = "selection_changed"
	KindFavoriteToggled  Kind = "favorite_toggled"
	KindFieldChanged     Kind = "field_changed"
	KindSaveRequested    Kind = "save_requested"
	KindDeleteRequested  Kind = "delete_requested"
)

// Event is implemented by every event type.
type Event interface {
	Kind() Kind
}

// SelectionChanged is sent when the operator picks another group.
type SelectionChanged struct {
	Group string
}

// FavoriteToggled is sent when the operator toggles the star of a group.
type FavoriteToggled struct {
	Group string
}

// FieldChanged is sent when an editable field of a row changes.
type FieldChanged struct {
	Row   string
	Field rowedit.Field
	Value string
}

// SaveRequested is sent when the operator saves a row.
type SaveRequested struct {
	Row string
}

// DeleteRequested is sent when the operator deletes a row.
type DeleteRequested struct {
	Row string
}

func (SelectionChanged) Kind() Kind { return KindSelectionChanged }
func (FavoriteToggled) Kind() Kind  { return KindFavoriteToggled }
func (FieldChanged) Kind() Kind     { return KindFieldChanged }
func (SaveRequested) Kind() Kind    { return KindSaveRequested }
func (DeleteRequested) Kind() Kind  { return KindDeleteRequested }
