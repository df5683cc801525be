// Package predictor provides the building blocks of a table-based branch
// predictor: a global history register, indexing schemes that fold a branch
// address and history into a table key, and a table of saturating counters.
package predictor

import "github.com/pkg/errors"

// ErrInvalidConfiguration is returned when a table size, history width,
// scheme name or counter method name cannot describe a predictor.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// MaxBits is the widest key or history a predictor can address.
const MaxBits = 64

// Mask returns a mask of the low n bits.
func Mask(n uint) uint64 {
	if n >= MaxBits {
		return ^uint64(0)
	}
	return (uint64(1) << n) - 1
}

func checkWidth(what string, n uint) error {
	if n == 0 || n > MaxBits {
		return errors.Wrapf(ErrInvalidConfiguration,
			"%s must be in [1, %d], got %d", what, MaxBits, n)
	}
	return nil
}
