package predictor

import (
	"strings"

	"github.com/pkg/errors"
)

// Scheme identifies how a branch address and a history are folded into a
// table key.
type Scheme uint8

// Indexing schemes.
const (
	// SchemeUnknown is the zero value and never valid.
	SchemeUnknown Scheme = iota
	// SchemeConcat places address bits and history bits in disjoint fields.
	SchemeConcat
	// SchemeGshare XORs the address with the history.
	SchemeGshare
)

var schemeNames = map[Scheme]string{
	SchemeConcat: "concat",
	SchemeGshare: "gshare",
}

// Schemes lists every valid scheme.
func Schemes() []Scheme {
	return []Scheme{SchemeConcat, SchemeGshare}
}

// ParseScheme returns the scheme with the given name.
func ParseScheme(name string) (Scheme, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for s, n := range schemeNames {
		if n == name {
			return s, nil
		}
	}
	return SchemeUnknown, errors.Wrapf(ErrInvalidConfiguration,
		"unknown indexing scheme %q", name)
}

func (s Scheme) String() string {
	if n, ok := schemeNames[s]; ok {
		return n
	}
	return "unknown"
}

// MarshalText implements encoding.TextMarshaler.
func (s Scheme) MarshalText() ([]byte, error) {
	if _, ok := schemeNames[s]; !ok {
		return nil, errors.Wrapf(ErrInvalidConfiguration,
			"cannot encode indexing scheme %d", s)
	}
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Scheme) UnmarshalText(text []byte) error {
	parsed, err := ParseScheme(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// IndexFunc maps an address and a history to a table key. It is pure.
type IndexFunc func(address, history uint64) uint64

// Bind validates size once and returns the scheme's index function for it.
func (s Scheme) Bind(size uint) (IndexFunc, error) {
	if err := checkWidth("table size", size); err != nil {
		return nil, err
	}

	switch s {
	case SchemeConcat:
		historyBits := size / 2
		pcBits := size - historyBits
		return func(address, history uint64) uint64 {
			return concat(address, history, pcBits, historyBits)
		}, nil
	case SchemeGshare:
		mask := Mask(size)
		return func(address, history uint64) uint64 {
			return (address & mask) ^ (history & mask)
		}, nil
	default:
		return nil, errors.Wrapf(ErrInvalidConfiguration,
			"unknown indexing scheme %d", s)
	}
}

// Concat splits size into size/2 history bits and the remaining address
// bits and returns (address & pcMask) << historyBits | (history & historyMask).
func Concat(address, history uint64, size uint) (uint64, error) {
	index, err := SchemeConcat.Bind(size)
	if err != nil {
		return 0, err
	}
	return index(address, history), nil
}

// Gshare masks both operands to size bits and XORs them.
func Gshare(address, history uint64, size uint) (uint64, error) {
	index, err := SchemeGshare.Bind(size)
	if err != nil {
		return 0, err
	}
	return index(address, history), nil
}

func concat(address, history uint64, pcBits, historyBits uint) uint64 {
	// With size 1 there are no history bits and the shift is zero.
	return (address&Mask(pcBits))<<historyBits | (history & Mask(historyBits))
}
