package alias

import (
	"github.com/pkg/errors"

	"github.com/sarchlab/bpsim/config"
	"github.com/sarchlab/bpsim/trace"
)

// DefaultRepeats is how many times a pattern is repeated when enumerating.
const DefaultRepeats = 4

// Study enumerates the contexts of one or more branches and analyzes how
// the configured indexing scheme maps them into the table. The window
// width is Config.HistoryWidthBits and the key width Config.TableSizeBits.
type Study struct {
	Config  *config.Config
	Repeats int
}

// NewStudy creates a study with the default number of repeats.
func NewStudy(cfg *config.Config) *Study {
	return &Study{Config: cfg, Repeats: DefaultRepeats}
}

// Entries enumerates every pattern, concatenates the enumerations in
// order and keys them.
func (s *Study) Entries(patterns ...trace.Pattern) ([]Entry, error) {
	if err := s.Config.Validate(); err != nil {
		return nil, err
	}
	if len(patterns) == 0 {
		return nil, errors.New("alias study needs at least one pattern")
	}

	index, err := s.Config.IndexingScheme.Bind(s.Config.SizeBits())
	if err != nil {
		return nil, err
	}

	all := make([]Entry, 0)
	for _, p := range patterns {
		entries, err := Enumerate(p.Address, p.Bits, s.Repeats, s.Config.WindowBits())
		if err != nil {
			return nil, errors.Wrapf(err, "pattern %s", p)
		}
		all = append(all, entries...)
	}

	return Apply(all, index), nil
}

// Run enumerates and analyzes the patterns.
func (s *Study) Run(patterns ...trace.Pattern) (*Report, error) {
	entries, err := s.Entries(patterns...)
	if err != nil {
		return nil, err
	}
	return Analyze(entries), nil
}
