package trace

import (
	"sort"
	"strings"

	"github.com/pkg/errors"
)

// Flags is an x86 RFLAGS value captured when execution stopped on a
// conditional branch.
type Flags uint64

// RFLAGS bit positions.
const (
	FlagCF = 0  // Carry
	FlagPF = 2  // Parity
	FlagZF = 6  // Zero
	FlagSF = 7  // Sign
	FlagOF = 11 // Overflow
)

func (f Flags) bit(pos uint) bool { return (f>>pos)&1 == 1 }

// CF returns the carry flag.
func (f Flags) CF() bool { return f.bit(FlagCF) }

// PF returns the parity flag.
func (f Flags) PF() bool { return f.bit(FlagPF) }

// ZF returns the zero flag.
func (f Flags) ZF() bool { return f.bit(FlagZF) }

// SF returns the sign flag.
func (f Flags) SF() bool { return f.bit(FlagSF) }

// OF returns the overflow flag.
func (f Flags) OF() bool { return f.bit(FlagOF) }

// Condition decides from the flags whether a conditional jump is taken.
type Condition func(f Flags) bool

var conditions = map[string]Condition{
	"je":  func(f Flags) bool { return f.ZF() },                      // Equal: ZF == 1
	"jne": func(f Flags) bool { return !f.ZF() },                     // Not equal: ZF == 0
	"jg":  func(f Flags) bool { return !f.ZF() && f.SF() == f.OF() }, // Greater: ZF == 0 && SF == OF
	"jge": func(f Flags) bool { return f.SF() == f.OF() },            // Greater or equal: SF == OF
	"jl":  func(f Flags) bool { return f.SF() != f.OF() },            // Less: SF != OF
	"jle": func(f Flags) bool { return f.ZF() || f.SF() != f.OF() },  // Less or equal: ZF == 1 || SF != OF
	"ja":  func(f Flags) bool { return !f.CF() && !f.ZF() },          // Above: CF == 0 && ZF == 0
	"jae": func(f Flags) bool { return !f.CF() },                     // Above or equal: CF == 0
	"jb":  func(f Flags) bool { return f.CF() },                      // Below: CF == 1
	"jbe": func(f Flags) bool { return f.CF() || f.ZF() },            // Below or equal: CF == 1 || ZF == 1
	"jo":  func(f Flags) bool { return f.OF() },
	"jno": func(f Flags) bool { return !f.OF() },
	"js":  func(f Flags) bool { return f.SF() },
	"jns": func(f Flags) bool { return !f.SF() },
	"jp":  func(f Flags) bool { return f.PF() },
	"jnp": func(f Flags) bool { return !f.PF() },
}

// Mnemonics returns the supported conditional jump mnemonics, sorted.
func Mnemonics() []string {
	names := make([]string, 0, len(conditions))
	for name := range conditions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// IsConditional reports whether mnemonic is a supported conditional jump.
func IsConditional(mnemonic string) bool {
	_, ok := conditions[strings.ToLower(mnemonic)]
	return ok
}

// Taken evaluates the jump condition of mnemonic against flags.
func Taken(mnemonic string, flags Flags) (bool, error) {
	cond, ok := conditions[strings.ToLower(mnemonic)]
	if !ok {
		return false, errors.Errorf("unsupported branch mnemonic %q", mnemonic)
	}
	return cond(flags), nil
}
