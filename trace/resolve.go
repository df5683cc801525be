package trace

import (
	"bufio"
	"encoding/json"
	"io"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// Site is a conditional branch found in a disassembly.
type Site struct {
	Mnemonic string
	Target   uint64
}

// FlagSample is one debugger stop: the program counter and the RFLAGS value
// read at that stop.
type FlagSample struct {
	Address uint64
	Flags   Flags
}

var disasmLine = regexp.MustCompile(`^([0-9a-fA-F]+)\s+(\w+)\s+(.*)$`)

// ParseDisassembly extracts conditional branch sites from otool -tv style
// lines ("0000000100007f09 je 0x100008281"). Section headers, symbol labels
// and non-branch instructions are skipped.
func ParseDisassembly(r io.Reader) (map[uint64]Site, error) {
	sites := make(map[uint64]Site)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "_") || strings.HasPrefix(line, "(") {
			continue
		}

		m := disasmLine.FindStringSubmatch(line)
		if m == nil || !IsConditional(m[2]) {
			continue
		}

		addr, err := ParseAddress(m[1])
		if err != nil {
			return nil, err
		}

		operands := strings.Fields(m[3])
		if len(operands) == 0 {
			return nil, errors.Errorf("branch at %s has no target", m[1])
		}
		target, err := ParseAddress(operands[0])
		if err != nil {
			return nil, errors.Wrapf(err, "branch at %s", m[1])
		}

		sites[addr] = Site{Mnemonic: strings.ToLower(m[2]), Target: target}
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "failed to read disassembly")
	}
	return sites, nil
}

// DecodeFlagSamples parses the debugger output, a JSON array of
// single-entry objects {"0x100007f09": 582}.
func DecodeFlagSamples(r io.Reader) ([]FlagSample, error) {
	var raw []map[string]uint64
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, errors.Wrap(err, "failed to parse flag samples")
	}

	samples := make([]FlagSample, 0, len(raw))
	for i, entry := range raw {
		if len(entry) != 1 {
			return nil, errors.Wrapf(ErrMalformedTraceElement,
				"sample %d: want exactly one address, got %d", i, len(entry))
		}
		for addrText, flags := range entry {
			addr, err := ParseAddress(addrText)
			if err != nil {
				return nil, errors.Wrapf(err, "sample %d", i)
			}
			samples = append(samples, FlagSample{Address: addr, Flags: Flags(flags)})
		}
	}
	return samples, nil
}

// Resolve turns debugger stops into a trace. Stops at addresses that are
// not known branch sites are skipped; a site with an unsupported mnemonic
// is an error.
func Resolve(samples []FlagSample, sites map[uint64]Site) (Trace, error) {
	t := make(Trace, 0, len(samples))
	for _, s := range samples {
		site, ok := sites[s.Address]
		if !ok {
			continue
		}

		taken, err := Taken(site.Mnemonic, s.Flags)
		if err != nil {
			return nil, errors.Wrapf(err, "branch at %s", FormatAddress(s.Address))
		}
		t = append(t, Branch{Address: s.Address, Taken: taken})
	}
	return t, nil
}
