package rowedit

import (
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/mmynk/rollcall/internal/models"
)

var (
	ErrUnknownRow = errors.New("unknown row")
	ErrDeleted    = errors.New("row has been deleted")
	ErrBusy       = errors.New("a save or delete is already in flight for this row")
	// ErrIncomplete is returned for a save that would clear the date or
	// time of an entry. The timestamp identifies the record afterwards.
	ErrIncomplete = errors.New("date and time are required")
)

// Collection owns the displayed rows in display order. Row values handed
// out are copies; all changes go through the collection.
// A Collection is safe for concurrent use. Its lock is never held while a
// request is in flight.
type Collection struct {
	mu      sync.Mutex
	order   []string
	rows    map[string]*Row
	deleted map[string]bool
}

// NewCollection returns a collection holding one clean row per entry.
func NewCollection(entries []models.Entry) *Collection {
	c := &Collection{
		rows:    make(map[string]*Row, len(entries)),
		deleted: make(map[string]bool),
	}
	for _, e := range entries {
		c.Add(e)
	}
	return c
}

// Add appends a clean row for e and returns its key.
func (c *Collection) Add(e models.Entry) string {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := uuid.New().String()
	c.rows[key] = newRow(key, e)
	c.order = append(c.order, key)
	return key
}

// Len returns the number of displayed rows.
func (c *Collection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}

// Get returns a snapshot of the row.
func (c *Collection) Get(key string) (Row, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, err := c.lookup(key)
	if err != nil {
		return Row{}, err
	}
	return *r, nil
}

// At returns the row at display position i.
func (c *Collection) At(i int) (Row, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i < 0 || i >= len(c.order) {
		return Row{}, false
	}
	return *c.rows[c.order[i]], true
}

// Rows returns snapshots of all displayed rows in display order.
func (c *Collection) Rows() []Row {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Row, len(c.order))
	for i, key := range c.order {
		out[i] = *c.rows[key]
	}
	return out
}

// SetField changes one edited value and re-derives the row's dirtiness.
// Rows with a request in flight accept the change but keep their state.
func (c *Collection) SetField(key string, f Field, value string) (Row, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, err := c.lookup(key)
	if err != nil {
		return Row{}, err
	}
	r.set(f, value)
	r.rederive()
	return *r, nil
}

// MarkDirty moves a clean row to Dirty so its save affordance shows.
// It is a no-op for rows that are already dirty or busy.
func (c *Collection) MarkDirty(key string) (Row, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, err := c.lookup(key)
	if err != nil {
		return Row{}, err
	}
	if r.State == Clean {
		r.State = Dirty
	}
	return *r, nil
}

// Duplicates returns groups of row keys whose originals are identical.
// The backend cannot tell such rows apart.
func (c *Collection) Duplicates() [][]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	byKey := make(map[string][]string)
	var firstSeen []string
	for _, key := range c.order {
		k := c.rows[key].Original.Key()
		if _, ok := byKey[k]; !ok {
			firstSeen = append(firstSeen, k)
		}
		byKey[k] = append(byKey[k], key)
	}

	var out [][]string
	for _, k := range firstSeen {
		if len(byKey[k]) > 1 {
			out = append(out, byKey[k])
		}
	}
	return out
}

func (c *Collection) lookup(key string) (*Row, error) {
	if c.deleted[key] {
		return nil, ErrDeleted
	}
	r, ok := c.rows[key]
	if !ok {
		return nil, ErrUnknownRow
	}
	return r, nil
}

// beginSave moves the row to Saving and returns what to send.
func (c *Collection) beginSave(key string) (models.Entry, models.EntryUpdate, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, err := c.lookup(key)
	if err != nil {
		return models.Entry{}, models.EntryUpdate{}, err
	}
	if r.Busy() {
		return models.Entry{}, models.EntryUpdate{}, ErrBusy
	}
	if (r.Date == "" || r.Time == "") && r.Timestamp() != r.Original.Timestamp {
		return models.Entry{}, models.EntryUpdate{}, ErrIncomplete
	}
	r.State = Saving
	return r.Original, r.Pending(), nil
}

// finishSave commits pending into the original on success. Either way the
// edited values are left as they are.
func (c *Collection) finishSave(key string, pending models.EntryUpdate, ok bool) Row {
	c.mu.Lock()
	defer c.mu.Unlock()

	r := c.rows[key]
	if ok {
		r.Original = r.Original.Apply(pending)
		r.State = Clean
		r.rederive()
	} else {
		r.State = Dirty
	}
	return *r
}

// checkLive fails for rows that cannot be deleted right now.
func (c *Collection) checkLive(key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, err := c.lookup(key)
	if err != nil {
		return err
	}
	if r.Busy() {
		return ErrBusy
	}
	return nil
}

// beginDelete moves the row to Deleting and returns its original and the
// state to restore on failure.
func (c *Collection) beginDelete(key string) (models.Entry, State, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, err := c.lookup(key)
	if err != nil {
		return models.Entry{}, 0, err
	}
	if r.Busy() {
		return models.Entry{}, 0, ErrBusy
	}
	prior := r.State
	r.State = Deleting
	return r.Original, prior, nil
}

// finishDelete removes the row on success. On failure the row leaves
// Deleting and its state is derived again from the fields, which may have
// been edited while the request was out.
func (c *Collection) finishDelete(key string, prior State, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	r := c.rows[key]
	if !ok {
		r.State = prior
		r.rederive()
		return
	}
	r.State = Deleted
	delete(c.rows, key)
	c.deleted[key] = true
	for i, k := range c.order {
		if k == key {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}
