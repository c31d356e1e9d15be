package models

// GroupOption is one entry of the group selection list.
// The option with an empty ID is the "no selection" placeholder.
type GroupOption struct {
	// ID is the group identifier sent to the backend.
	ID string

	// Label is the display text, derived from ID and the favorite set.
	Label string
}

// IsPlaceholder reports whether the option is the "no selection" entry.
func (o GroupOption) IsPlaceholder() bool {
	return o.ID == ""
}

// Member represents a person listed in a group roster.
type Member struct {
	// ID is the backend's person identifier (opaque).
	ID string `json:"id"`

	// Firstname is the given name.
	Firstname string `json:"firstname"`

	// Lastname is the family name.
	Lastname string `json:"lastname"`
}

// FullName returns "Lastname, Firstname", the order rosters are shown in.
func (m Member) FullName() string {
	switch {
	case m.Lastname == "":
		return m.Firstname
	case m.Firstname == "":
		return m.Lastname
	}
	return m.Lastname + ", " + m.Firstname
}
