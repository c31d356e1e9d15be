package models

import (
	"encoding/json"
	"testing"
)

func TestEntryPreservesUnknownFields(t *testing.T) {
	in := `{"initials":"AB","group":"7a","id":"42","lastname":"Doe","firstname":"Jane","status":"ausgetreten","timestamp":"2024-01-01 08:00:00","room":"B12"}`

	var e Entry
	if err := json.Unmarshal([]byte(in), &e); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if e.Group != "7a" || e.Status != ActionExited {
		t.Errorf("known fields not lifted: %+v", e)
	}
	if string(e.Extra["room"]) != `"B12"` {
		t.Errorf("room: expected preserved, got %q", e.Extra["room"])
	}

	out, err := json.Marshal(e)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	var got, want map[string]any
	json.Unmarshal(out, &got)
	json.Unmarshal([]byte(in), &want)
	if len(got) != len(want) {
		t.Fatalf("expected %d keys, got %d: %s", len(want), len(got), out)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("%s: expected %v, got %v", k, v, got[k])
		}
	}
}

func TestEntryNonStringKnownFieldStaysExtra(t *testing.T) {
	var e Entry
	if err := json.Unmarshal([]byte(`{"id":42,"status":"eingetreten"}`), &e); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if e.ID != "" {
		t.Errorf("expected numeric id to stay out of ID, got %q", e.ID)
	}

	out, _ := json.Marshal(e)
	var back map[string]any
	json.Unmarshal(out, &back)
	if back["id"] != float64(42) {
		t.Errorf("expected numeric id round trip, got %v", back["id"])
	}
}

func TestEntryApplyCopiesExtra(t *testing.T) {
	orig := Entry{
		Status:    "present",
		Timestamp: "2024-01-01 08:00",
		Extra:     map[string]json.RawMessage{"room": json.RawMessage(`"B12"`)},
	}

	next := orig.Apply(EntryUpdate{Status: "present", Timestamp: "2024-01-01 09:00"})
	next.Extra["room"] = json.RawMessage(`"C1"`)

	if orig.Timestamp != "2024-01-01 08:00" {
		t.Errorf("original mutated: %s", orig.Timestamp)
	}
	if string(orig.Extra["room"]) != `"B12"` {
		t.Errorf("original extra shared with copy: %s", orig.Extra["room"])
	}
	if orig.Key() == next.Key() {
		t.Error("expected different keys after update")
	}
}

func TestSplitTimestamp(t *testing.T) {
	date, clock := SplitTimestamp("2024-01-01 08:00")
	if date != "2024-01-01" || clock != "08:00" {
		t.Errorf("got %q %q", date, clock)
	}
	if JoinTimestamp(date, "09:00") != "2024-01-01 09:00" {
		t.Errorf("join mismatch")
	}

	date, clock = SplitTimestamp("2024-01-01")
	if date != "2024-01-01" || clock != "" {
		t.Errorf("no-space timestamp: got %q %q", date, clock)
	}
}
