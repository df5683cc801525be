package replay

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/bpsim/config"
	"github.com/sarchlab/bpsim/trace"
)

// Result is the outcome of replaying one trace through one configuration.
type Result struct {
	Config  *config.Config
	Records []Record
	Stats   Stats
}

// Run replays t through a fresh predictor built from cfg. The predictor
// state is discarded when Run returns. An empty trace yields no records and
// an undefined accuracy.
func Run(cfg *config.Config, t trace.Trace, hooks ...sim.Hook) (*Result, error) {
	d, err := NewDriver(cfg)
	if err != nil {
		return nil, err
	}
	for _, h := range hooks {
		d.AcceptHook(h)
	}

	records := make([]Record, 0, len(t))
	for _, b := range t {
		records = append(records, d.Step(b))
	}

	return &Result{
		Config:  d.Config(),
		Records: records,
		Stats:   d.Stats(),
	}, nil
}

// ByAddress splits the statistics per branch address.
func (r *Result) ByAddress() map[uint64]Stats {
	per := make(map[uint64]Stats)
	for _, rec := range r.Records {
		s := per[rec.Address]
		s.Add(rec.Correct())
		per[rec.Address] = s
	}
	return per
}
