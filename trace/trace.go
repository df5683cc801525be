// Package trace holds the ordered branch outcomes that are replayed through
// a predictor, and the helpers that turn collector output into them.
package trace

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrMalformedTraceElement is returned when a trace element has no address,
// no outcome, or an outcome that is not boolean-coercible. A trace with such
// an element is rejected as a whole.
var ErrMalformedTraceElement = errors.New("malformed trace element")

// Branch is one executed conditional branch.
type Branch struct {
	Address uint64
	Taken   bool
}

// Trace is the ordered sequence of branches executed by a program.
type Trace []Branch

// Addresses returns the distinct addresses in order of first appearance.
func (t Trace) Addresses() []uint64 {
	seen := make(map[uint64]bool)
	addrs := make([]uint64, 0)
	for _, b := range t {
		if !seen[b.Address] {
			seen[b.Address] = true
			addrs = append(addrs, b.Address)
		}
	}
	return addrs
}

// TakenCount returns the number of taken branches.
func (t Trace) TakenCount() int {
	n := 0
	for _, b := range t {
		if b.Taken {
			n++
		}
	}
	return n
}

// ParseAddress parses a hexadecimal address with or without a 0x prefix.
func ParseAddress(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	trimmed := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if trimmed == "" {
		return 0, errors.Wrapf(ErrMalformedTraceElement, "empty address %q", s)
	}

	addr, err := strconv.ParseUint(trimmed, 16, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrMalformedTraceElement, "bad address %q", s)
	}
	return addr, nil
}

// FormatAddress renders an address the way the collector writes it.
func FormatAddress(addr uint64) string {
	return "0x" + strconv.FormatUint(addr, 16)
}

// ParseOutcome coerces a decoded JSON value to taken/not-taken. Booleans,
// the numbers 0 and 1, and the strings "0", "1", "true" and "false" are
// accepted.
func ParseOutcome(v interface{}) (bool, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case float64:
		switch x {
		case 0:
			return false, nil
		case 1:
			return true, nil
		}
	case int:
		switch x {
		case 0:
			return false, nil
		case 1:
			return true, nil
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "0", "false":
			return false, nil
		case "1", "true":
			return true, nil
		}
	case nil:
		return false, errors.Wrap(ErrMalformedTraceElement, "missing outcome")
	}

	return false, errors.Wrapf(ErrMalformedTraceElement, "outcome %v is not boolean", v)
}

// ParseBits parses a string of '0' and '1' characters, oldest first.
func ParseBits(s string) ([]bool, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, errors.New("empty bit pattern")
	}

	bits := make([]bool, len(s))
	for i, c := range s {
		switch c {
		case '0':
		case '1':
			bits[i] = true
		default:
			return nil, errors.Errorf("bit pattern %q has non-binary character %q", s, c)
		}
	}
	return bits, nil
}

// FormatBits renders bits as a string of '0' and '1' characters.
func FormatBits(bits []bool) string {
	var sb strings.Builder
	for _, b := range bits {
		if b {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	return sb.String()
}
