// Package sweep replays one trace through many predictor configurations and
// reports how they compare.
package sweep

import (
	"io"
	"os"
	"time"

	"github.com/go-multierror/multierror"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sarchlab/akita/v4/sim"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/sarchlab/bpsim/config"
	"github.com/sarchlab/bpsim/replay"
	"github.com/sarchlab/bpsim/trace"
)

// Result holds the outcome of one configuration over the trace.
type Result struct {
	// RunID uniquely identifies this replay.
	RunID string `json:"run_id"`

	// Name is the configuration name, e.g. "gshare-2bit-10".
	Name string `json:"name"`

	Config *config.Config `json:"config"`

	Stats replay.Stats `json:"stats"`

	// Records is only populated when HarnessConfig.KeepRecords is set.
	Records []replay.Record `json:"-"`

	// ByAddress splits Stats per branch address.
	ByAddress map[uint64]replay.Stats `json:"-"`

	// Err is set when the configuration could not be replayed.
	Err error `json:"-"`

	// WallTime is the actual time taken by the replay.
	WallTime time.Duration `json:"wall_time_ns"`
}

// Accuracy returns the accuracy of the replay and whether it is defined.
func (r Result) Accuracy() (float64, bool) {
	if r.Err != nil {
		return 0, false
	}
	return r.Stats.Accuracy()
}

// HarnessConfig configures the sweep harness.
type HarnessConfig struct {
	// Workers bounds the number of configurations replayed at once. Zero or
	// less means one per configuration.
	Workers int

	// Output is where to write results (default: os.Stdout)
	Output io.Writer

	// KeepRecords keeps every prediction record in the results.
	KeepRecords bool

	// Hooks are attached to every replay driver.
	Hooks []sim.Hook
}

// DefaultConfig returns a default harness configuration.
func DefaultConfig() HarnessConfig {
	return HarnessConfig{
		Workers: 4,
		Output:  os.Stdout,
	}
}

// Harness runs predictor configurations over a trace and reports results.
type Harness struct {
	config  HarnessConfig
	configs []*config.Config
}

// NewHarness creates a new sweep harness.
func NewHarness(cfg HarnessConfig) *Harness {
	if cfg.Output == nil {
		cfg.Output = os.Stdout
	}
	return &Harness{
		config:  cfg,
		configs: []*config.Config{},
	}
}

// AddConfig adds a predictor configuration to the harness.
func (h *Harness) AddConfig(c *config.Config) {
	h.configs = append(h.configs, c)
}

// AddConfigs adds multiple predictor configurations to the harness.
func (h *Harness) AddConfigs(cs []*config.Config) {
	h.configs = append(h.configs, cs...)
}

// Configs returns the configurations added so far.
func (h *Harness) Configs() []*config.Config {
	return h.configs
}

// Run replays t through every configuration. Results come back in the order
// the configurations were added. A configuration that fails does not stop
// the others; its Result carries the error and all failures are returned
// together.
func (h *Harness) Run(t trace.Trace) ([]Result, error) {
	results := make([]Result, len(h.configs))

	var g errgroup.Group
	if h.config.Workers > 0 {
		g.SetLimit(h.config.Workers)
	}

	for i, c := range h.configs {
		g.Go(func() error {
			results[i] = h.runOne(c, t)
			return nil
		})
	}
	_ = g.Wait()

	var errs []error
	for _, r := range results {
		if r.Err != nil {
			errs = append(errs, r.Err)
		}
	}
	if len(errs) > 0 {
		return results, multierror.Of(errs...)
	}

	return results, nil
}

func (h *Harness) runOne(c *config.Config, t trace.Trace) Result {
	result := Result{
		RunID:  uuid.NewString(),
		Config: c,
	}
	if c == nil {
		result.Err = errors.New("nil predictor config")
		return result
	}
	result.Name = c.Name()

	logger := log.WithFields(log.Fields{"run": result.RunID, "config": result.Name})
	logger.Debug("Replaying trace")

	start := time.Now()
	res, err := replay.Run(c, t, h.config.Hooks...)
	result.WallTime = time.Since(start)

	if err != nil {
		result.Err = errors.Wrapf(err, "config %s", result.Name)
		logger.WithError(err).Warn("Replay failed")
		return result
	}

	result.Config = res.Config
	result.Stats = res.Stats
	result.ByAddress = res.ByAddress()
	if h.config.KeepRecords {
		result.Records = res.Records
	}

	logger.WithFields(log.Fields{
		"predictions": result.Stats.Predictions,
		"accuracy":    result.Stats.String(),
	}).Debug("Replay finished")

	return result
}
