package predictor

import "github.com/pkg/errors"

// Table is a sparse predictor table mapping keys to counter states. Keys
// that were never updated read as DefaultState and are not stored.
type Table struct {
	method  CounterMethod
	entries map[uint64]CounterState
}

// NewTable creates an empty table using the given counter method.
func NewTable(method CounterMethod) (*Table, error) {
	if !method.Valid() {
		return nil, errors.Wrapf(ErrInvalidConfiguration,
			"unknown counter method %d", method)
	}

	return &Table{
		method:  method,
		entries: make(map[uint64]CounterState),
	}, nil
}

// Method returns the counter method of every entry.
func (t *Table) Method() CounterMethod {
	return t.method
}

// State returns the stored state of key, or DefaultState. It never inserts.
func (t *Table) State(key uint64) CounterState {
	if s, ok := t.entries[key]; ok {
		return s
	}
	return DefaultState
}

// Predict returns the direction predicted for key. It never inserts.
func (t *Table) Predict(key uint64) bool {
	return t.method.Taken(t.State(key))
}

// Update moves the entry for key one step towards the observed outcome and
// returns the new state.
func (t *Table) Update(key uint64, taken bool) CounterState {
	next := t.method.Next(t.State(key), taken)
	t.entries[key] = next
	return next
}

// Len returns the number of entries that have been updated at least once.
func (t *Table) Len() int {
	return len(t.entries)
}

// Reset forgets every entry.
func (t *Table) Reset() {
	t.entries = make(map[uint64]CounterState)
}
