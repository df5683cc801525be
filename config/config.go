// Package config describes one branch predictor configuration and how it is
// loaded from and saved to JSON.
package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/pkg/errors"

	"github.com/sarchlab/bpsim/predictor"
)

// Config selects the indexing scheme, table size and counter method of one
// predictor.
type Config struct {
	// IndexingScheme folds address and history into a key. Default: gshare.
	IndexingScheme predictor.Scheme `json:"indexing_scheme"`

	// TableSizeBits is the key width. The table has 2^TableSizeBits
	// addressable entries and the simulation history is as wide as the key.
	// Default: 10.
	TableSizeBits int `json:"table_size_bits"`

	// CounterMethod is the state machine of every entry. Default: 2bit.
	CounterMethod predictor.CounterMethod `json:"counter_method"`

	// HistoryWidthBits is the window width of the alias study.
	// It is not used during trace replay. Default: 4.
	HistoryWidthBits int `json:"history_width_bits"`
}

// DefaultConfig returns the configuration used when nothing is specified.
func DefaultConfig() *Config {
	return &Config{
		IndexingScheme:   predictor.SchemeGshare,
		TableSizeBits:    10,
		CounterMethod:    predictor.TwoBit,
		HistoryWidthBits: 4,
	}
}

// LoadConfig loads a Config from a JSON file. Missing fields keep their
// defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read predictor config file")
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, errors.Wrap(err, "failed to parse predictor config")
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadConfigs loads a JSON array of configurations. Each element is layered
// over the defaults independently.
func LoadConfigs(path string) ([]*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read predictor config file")
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "failed to parse predictor config list")
	}

	configs := make([]*Config, 0, len(raw))
	for i, msg := range raw {
		config := DefaultConfig()
		if err := json.Unmarshal(msg, config); err != nil {
			return nil, errors.Wrapf(err, "failed to parse predictor config %d", i)
		}
		if err := config.Validate(); err != nil {
			return nil, errors.Wrapf(err, "predictor config %d", i)
		}
		configs = append(configs, config)
	}

	return configs, nil
}

// SaveConfig writes a Config to a JSON file.
func (c *Config) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to serialize predictor config")
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return errors.Wrap(err, "failed to write predictor config file")
	}

	return nil
}

// Validate checks that the configuration can build a predictor. All
// failures wrap predictor.ErrInvalidConfiguration.
func (c *Config) Validate() error {
	if c.TableSizeBits <= 0 || c.TableSizeBits > predictor.MaxBits {
		return errors.Wrapf(predictor.ErrInvalidConfiguration,
			"table_size_bits must be in [1, %d], got %d",
			predictor.MaxBits, c.TableSizeBits)
	}
	if _, err := c.IndexingScheme.Bind(c.SizeBits()); err != nil {
		return err
	}
	if !c.CounterMethod.Valid() {
		return errors.Wrapf(predictor.ErrInvalidConfiguration,
			"unknown counter method %d", c.CounterMethod)
	}
	if c.HistoryWidthBits <= 0 || c.HistoryWidthBits > predictor.MaxBits {
		return errors.Wrapf(predictor.ErrInvalidConfiguration,
			"history_width_bits must be in [1, %d], got %d",
			predictor.MaxBits, c.HistoryWidthBits)
	}
	return nil
}

// SizeBits returns TableSizeBits as the width type used by the predictor.
// Only meaningful after Validate.
func (c *Config) SizeBits() uint {
	return uint(c.TableSizeBits)
}

// WindowBits returns HistoryWidthBits as the width type used by the
// predictor. Only meaningful after Validate.
func (c *Config) WindowBits() uint {
	return uint(c.HistoryWidthBits)
}

// Clone returns a copy of the Config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// Name identifies the configuration in reports, e.g. "gshare-2bit-10".
func (c *Config) Name() string {
	return fmt.Sprintf("%s-%s-%d", c.IndexingScheme, c.CounterMethod, c.TableSizeBits)
}

func (c *Config) String() string {
	return fmt.Sprintf("scheme=%s size=%d method=%s width=%d",
		c.IndexingScheme, c.TableSizeBits, c.CounterMethod, c.HistoryWidthBits)
}

// Matrix returns one configuration per (scheme, method, size) combination,
// in that nesting order, starting from base. Every result is validated.
func Matrix(
	base *Config,
	schemes []predictor.Scheme,
	methods []predictor.CounterMethod,
	sizes []int,
) ([]*Config, error) {
	if base == nil {
		base = DefaultConfig()
	}

	configs := make([]*Config, 0, len(schemes)*len(methods)*len(sizes))
	for _, scheme := range schemes {
		for _, method := range methods {
			for _, size := range sizes {
				c := base.Clone()
				c.IndexingScheme = scheme
				c.CounterMethod = method
				c.TableSizeBits = size
				if err := c.Validate(); err != nil {
					return nil, err
				}
				configs = append(configs, c)
			}
		}
	}

	if len(configs) == 0 {
		return nil, errors.Wrap(predictor.ErrInvalidConfiguration,
			"configuration matrix is empty")
	}

	return configs, nil
}
