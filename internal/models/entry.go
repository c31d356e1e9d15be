package models

import (
	"encoding/json"
	"maps"
	"strings"
)

// Entry is one logged attendance record exactly as the server last
// confirmed it. It doubles as the record's identity on update and delete.
type Entry struct {
	// Initials of the operator who logged the entry.
	Initials string

	// Group is the roster group the person was logged in.
	Group string

	// ID is the person's backend identifier.
	ID string

	Lastname  string
	Firstname string

	// Status is the logged action.
	Status Action

	// Timestamp is "YYYY-MM-DD HH:MM[:SS]" as stored by the server.
	Timestamp string

	// Extra holds fields the client does not model. They are sent back
	// unchanged so value-based matching on the server still succeeds.
	Extra map[string]json.RawMessage
}

// EntryUpdate is the editable part of an Entry sent on save.
type EntryUpdate struct {
	Status    Action `json:"status"`
	Timestamp string `json:"timestamp"`
}

func (e *Entry) fields() map[string]*string {
	return map[string]*string{
		"initials":  &e.Initials,
		"group":     &e.Group,
		"id":        &e.ID,
		"lastname":  &e.Lastname,
		"firstname": &e.Firstname,
		"status":    (*string)(&e.Status),
		"timestamp": &e.Timestamp,
	}
}

// MarshalJSON writes the known fields and every preserved extra field as
// one flat object.
func (e Entry) MarshalJSON() ([]byte, error) {
	out := make(map[string]json.RawMessage, len(e.Extra)+7)
	maps.Copy(out, e.Extra)
	for key, val := range e.fields() {
		if _, kept := e.Extra[key]; kept && *val == "" {
			continue
		}
		raw, err := json.Marshal(*val)
		if err != nil {
			return nil, err
		}
		out[key] = raw
	}
	return json.Marshal(out)
}

// UnmarshalJSON reads a flat object. Known string fields are lifted into
// the struct; anything else lands in Extra.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*e = Entry{}
	for key, dst := range e.fields() {
		val, ok := raw[key]
		if !ok {
			continue
		}
		if err := json.Unmarshal(val, dst); err == nil {
			delete(raw, key)
		}
	}
	if len(raw) > 0 {
		e.Extra = raw
	}
	return nil
}

// Apply returns a copy of e with the update's fields replacing its own.
// Extra fields are copied, never shared.
func (e Entry) Apply(u EntryUpdate) Entry {
	out := e
	out.Status = u.Status
	out.Timestamp = u.Timestamp
	if e.Extra != nil {
		out.Extra = maps.Clone(e.Extra)
	}
	return out
}

// Key returns a canonical encoding of the entry. Two entries with the same
// key are indistinguishable to the backend.
func (e Entry) Key() string {
	data, err := json.Marshal(e)
	if err != nil {
		return ""
	}
	return string(data)
}

// SplitTimestamp splits "date time" at the first space. A timestamp without
// a space is returned as the date part.
func SplitTimestamp(ts string) (date, clock string) {
	date, clock, _ = strings.Cut(ts, " ")
	return date, clock
}

// JoinTimestamp is the inverse of SplitTimestamp.
func JoinTimestamp(date, clock string) string {
	if clock == "" {
		return date
	}
	return date + " " + clock
}
