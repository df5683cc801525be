// Package replay folds a branch trace through a predictor and records every
// prediction.
package replay

import (
	"github.com/sarchlab/akita/v4/sim"

	"github.com/sarchlab/bpsim/config"
	"github.com/sarchlab/bpsim/predictor"
	"github.com/sarchlab/bpsim/trace"
)

// HookPosPredict marks the point after a branch has been predicted and the
// predictor updated. The hook item is the Record of that step.
var HookPosPredict = &sim.HookPos{Name: "Predict"}

// Record is the prediction made for one trace step.
type Record struct {
	Address uint64
	// History is the global history before this step's outcome was shifted in.
	History uint64
	Key     uint64
	// Predicted is read from the table before it learns Actual.
	Predicted bool
	Actual    bool
}

// Correct reports whether the prediction matched the outcome.
func (r Record) Correct() bool {
	return r.Predicted == r.Actual
}

// Driver owns the history register and predictor table of one replay. It
// is not safe for concurrent use; independent configurations use
// independent drivers.
type Driver struct {
	*sim.HookableBase

	config  *config.Config
	index   predictor.IndexFunc
	table   *predictor.Table
	history *predictor.HistoryRegister
	stats   Stats
}

// NewDriver creates a driver with an empty table and an all-not-taken
// history. The configuration is validated before anything is built.
func NewDriver(cfg *config.Config) (*Driver, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	index, err := cfg.IndexingScheme.Bind(cfg.SizeBits())
	if err != nil {
		return nil, err
	}

	table, err := predictor.NewTable(cfg.CounterMethod)
	if err != nil {
		return nil, err
	}

	history, err := predictor.NewHistoryRegister(cfg.SizeBits())
	if err != nil {
		return nil, err
	}

	return &Driver{
		HookableBase: sim.NewHookableBase(),
		config:       cfg.Clone(),
		index:        index,
		table:        table,
		history:      history,
	}, nil
}

// Name identifies the driver by its configuration.
func (d *Driver) Name() string {
	return d.config.Name()
}

// Config returns the configuration the driver was built from.
func (d *Driver) Config() *config.Config {
	return d.config
}

// History returns the current global history.
func (d *Driver) History() uint64 {
	return d.history.Value()
}

// Table exposes the predictor table for inspection.
func (d *Driver) Table() *predictor.Table {
	return d.table
}

// Stats returns the running prediction statistics.
func (d *Driver) Stats() Stats {
	return d.stats
}

// Step predicts one branch, then trains the table and the history with its
// actual outcome.
func (d *Driver) Step(b trace.Branch) Record {
	before := d.history.Value()
	key := d.index(b.Address, before)

	predicted := d.table.Predict(key)
	d.table.Update(key, b.Taken)
	d.history.Push(b.Taken)

	rec := Record{
		Address:   b.Address,
		History:   before,
		Key:       key,
		Predicted: predicted,
		Actual:    b.Taken,
	}
	d.stats.Add(rec.Correct())

	if d.NumHooks() > 0 {
		d.InvokeHook(sim.HookCtx{
			Domain: d,
			Pos:    HookPosPredict,
			Item:   rec,
		})
	}

	return rec
}
