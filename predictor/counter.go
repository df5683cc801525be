package predictor

import (
	"strings"

	"github.com/pkg/errors"
)

// CounterState is the value stored in one predictor table entry.
type CounterState uint8

// DefaultState is what an entry that was never updated reads as: weakly
// taken for both counter methods.
const DefaultState CounterState = 1

// CounterMethod selects the state machine of a table entry.
type CounterMethod uint8

// Counter methods.
const (
	// CounterUnknown is the zero value and never valid.
	CounterUnknown CounterMethod = iota
	// OneBit remembers only the last outcome: 0=NotTaken, 1=Taken.
	OneBit
	// TwoBit is a saturating counter:
	// 0=Strongly Not Taken, 1=Weakly Not Taken, 2=Weakly Taken, 3=Strongly Taken.
	TwoBit
)

var counterNames = map[CounterMethod]string{
	OneBit: "1bit",
	TwoBit: "2bit",
}

// CounterMethods lists every valid counter method.
func CounterMethods() []CounterMethod {
	return []CounterMethod{OneBit, TwoBit}
}

// ParseCounterMethod returns the counter method with the given name.
func ParseCounterMethod(name string) (CounterMethod, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for m, n := range counterNames {
		if n == name {
			return m, nil
		}
	}
	return CounterUnknown, errors.Wrapf(ErrInvalidConfiguration,
		"unknown counter method %q", name)
}

func (m CounterMethod) String() string {
	if n, ok := counterNames[m]; ok {
		return n
	}
	return "unknown"
}

// Valid reports whether m names a known state machine.
func (m CounterMethod) Valid() bool {
	_, ok := counterNames[m]
	return ok
}

// MarshalText implements encoding.TextMarshaler.
func (m CounterMethod) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, errors.Wrapf(ErrInvalidConfiguration,
			"cannot encode counter method %d", m)
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *CounterMethod) UnmarshalText(text []byte) error {
	parsed, err := ParseCounterMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// MaxState returns the highest state the method can reach.
func (m CounterMethod) MaxState() CounterState {
	if m == OneBit {
		return 1
	}
	return 3
}

// Taken reports the direction a state predicts.
func (m CounterMethod) Taken(s CounterState) bool {
	if m == OneBit {
		return s == 1
	}
	return s >= 2 // Taken if counter is 2 or 3
}

// Next returns the state after observing one outcome.
func (m CounterMethod) Next(s CounterState, taken bool) CounterState {
	if m == OneBit {
		if taken {
			return 1
		}
		return 0
	}

	// Saturate, never wrap.
	if taken {
		if s < 3 {
			return s + 1
		}
		return 3
	}
	if s > 0 {
		return s - 1
	}
	return 0
}
