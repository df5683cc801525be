// Package alias studies destructive aliasing in a predictor table: distinct
// (address, history) contexts that share an entry but need different
// predictions. It works on exhaustive synthetic enumerations, not on
// recorded traces.
package alias

import (
	"github.com/pkg/errors"

	"github.com/sarchlab/bpsim/predictor"
)

// Entry is one context of an enumeration: the window of past outcomes seen
// by a branch, the outcome that follows it, and the table key it maps to.
type Entry struct {
	Address uint64
	History uint64
	Key     uint64
	Next    bool
}

// Enumerate slides a width-bit window over pattern repeated repeats times.
// Each position yields the window contents (oldest outcome in the most
// significant bit) and the bit right after the window, wrapping to the
// start of the sequence. A pattern of length L gives L*repeats-width
// entries. Keys are left zero; see Apply.
func Enumerate(address uint64, pattern []bool, repeats int, width uint) ([]Entry, error) {
	if len(pattern) == 0 {
		return nil, errors.Wrap(predictor.ErrInvalidConfiguration, "empty pattern")
	}
	if repeats <= 0 {
		return nil, errors.Wrapf(predictor.ErrInvalidConfiguration,
			"repeats must be > 0, got %d", repeats)
	}
	if width == 0 || width > predictor.MaxBits {
		return nil, errors.Wrapf(predictor.ErrInvalidConfiguration,
			"history width must be in [1, %d], got %d", predictor.MaxBits, width)
	}

	total := len(pattern) * repeats
	if total <= int(width) {
		return nil, errors.Wrapf(predictor.ErrInvalidConfiguration,
			"%d repeated bits cannot fill a %d-bit window", total, width)
	}

	at := func(i int) bool { return pattern[i%len(pattern)] }

	entries := make([]Entry, 0, total-int(width))
	for i := 0; i+int(width) < total; i++ {
		var history uint64
		for j := 0; j < int(width); j++ {
			history <<= 1
			if at(i + j) {
				history |= 1
			}
		}

		entries = append(entries, Entry{
			Address: address,
			History: history,
			Next:    at((i + int(width)) % total),
		})
	}

	return entries, nil
}

// Apply fills in the key of every entry and returns the same slice.
func Apply(entries []Entry, index predictor.IndexFunc) []Entry {
	for i := range entries {
		entries[i].Key = index(entries[i].Address, entries[i].History)
	}
	return entries
}
