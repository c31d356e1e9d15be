// Package favorites keeps the operator's favorite groups and orders the
// group selection list around them.
package favorites

import (
	"slices"
	"strings"
)

// Set is an immutable set of group IDs. The zero value is empty.
type Set struct {
	ids map[string]struct{}
}

// NewSet returns a set holding ids. Duplicates collapse.
func NewSet(ids ...string) Set {
	s := Set{ids: make(map[string]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Contains is an exact membership test.
func (s Set) Contains(group string) bool {
	_, ok := s.ids[group]
	return ok
}

// Len returns the number of groups in the set.
func (s Set) Len() int {
	return len(s.ids)
}

// Toggle returns a copy of s with group's membership inverted.
func (s Set) Toggle(group string) Set {
	out := Set{ids: make(map[string]struct{}, len(s.ids)+1)}
	for id := range s.ids {
		out.ids[id] = struct{}{}
	}
	if _, ok := out.ids[group]; ok {
		delete(out.ids, group)
	} else {
		out.ids[group] = struct{}{}
	}
	return out
}

// IDs returns the members in byte order.
func (s Set) IDs() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, strings.Compare)
	return ids
}

// Equal reports whether both sets hold the same groups.
func (s Set) Equal(other Set) bool {
	if len(s.ids) != len(other.ids) {
		return false
	}
	for id := range s.ids {
		if !other.Contains(id) {
			return false
		}
	}
	return true
}
