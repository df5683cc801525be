package trace

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// Pattern is a branch whose outcomes repeat a fixed bit sequence.
type Pattern struct {
	Address uint64
	Bits    []bool
}

// ParsePattern parses "ADDRESS:BITS", e.g. "0b1010:1101" or "0x4f0:10".
// The address accepts Go integer literal prefixes (0b, 0o, 0x); a bare
// address is read as binary when it only has 0 and 1 digits, as the alias
// study writes addresses, and as hexadecimal otherwise.
func ParsePattern(s string) (Pattern, error) {
	addrText, bitsText, ok := strings.Cut(s, ":")
	if !ok {
		return Pattern{}, errors.Errorf("pattern %q is not ADDRESS:BITS", s)
	}

	addr, err := parsePatternAddress(addrText)
	if err != nil {
		return Pattern{}, errors.Wrapf(err, "pattern %q", s)
	}

	bits, err := ParseBits(bitsText)
	if err != nil {
		return Pattern{}, errors.Wrapf(err, "pattern %q", s)
	}

	return Pattern{Address: addr, Bits: bits}, nil
}

func (p Pattern) String() string {
	return "0b" + strconv.FormatUint(p.Address, 2) + ":" + FormatBits(p.Bits)
}

func parsePatternAddress(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, errors.New("empty address")
	}

	if strings.HasPrefix(s, "0") && len(s) > 1 && strings.ContainsAny(s[1:2], "bBoOxX") {
		return strconv.ParseUint(s, 0, 64)
	}
	if strings.Trim(s, "01") == "" {
		return strconv.ParseUint(s, 2, 64)
	}
	return ParseAddress(s)
}

// FromPatterns builds a synthetic trace by visiting the patterns round-robin
// for the given number of rounds. In round r a pattern contributes bit
// r mod len(bits).
func FromPatterns(patterns []Pattern, rounds int) (Trace, error) {
	if rounds <= 0 {
		return nil, errors.Errorf("rounds must be > 0, got %d", rounds)
	}
	for _, p := range patterns {
		if len(p.Bits) == 0 {
			return nil, errors.Errorf("pattern for %s has no bits", FormatAddress(p.Address))
		}
	}

	t := make(Trace, 0, rounds*len(patterns))
	for r := 0; r < rounds; r++ {
		for _, p := range patterns {
			t = append(t, Branch{
				Address: p.Address,
				Taken:   p.Bits[r%len(p.Bits)],
			})
		}
	}
	return t, nil
}
