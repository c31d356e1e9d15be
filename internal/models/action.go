package models

// Action is the attendance transition logged for a set of people.
// The values are the literal strings the backend stores.
type Action string

const (
	// ActionEntered logs that people (re)entered the room.
	ActionEntered Action = "eingetreten"

	// ActionExited logs that people left the room.
	ActionExited Action = "ausgetreten"
)

// Valid reports whether a is one of the known actions.
func (a Action) Valid() bool {
	return a == ActionEntered || a == ActionExited
}

// FileType selects the format of a group export.
type FileType string

const (
	FileTypeCSV FileType = "CSV"
	FileTypePDF FileType = "PDF"
)
