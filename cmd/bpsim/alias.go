package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/sarchlab/bpsim/alias"
	"github.com/sarchlab/bpsim/config"
	"github.com/sarchlab/bpsim/predictor"
)

func runAlias(args []string, stdout io.Writer) error {
	defaults := config.DefaultConfig()

	fs := flag.NewFlagSet("alias", flag.ContinueOnError)
	var (
		branches   patternFlag
		configPath = fs.String("config", "", "Path to a predictor configuration JSON file")
		scheme     = fs.String("scheme", defaults.IndexingScheme.String(), "Indexing scheme (concat, gshare)")
		size       = fs.Int("size", defaults.TableSizeBits, "Table size in bits")
		width      = fs.Int("width", defaults.HistoryWidthBits, "History window width in bits")
		repeats    = fs.Int("repeats", alias.DefaultRepeats, "Times each pattern is repeated")
		entries    = fs.Bool("entries", false, "Print every enumerated entry before the analysis")
		verbose    = fs.Bool("v", false, "Verbose output")
	)
	fs.Var(&branches, "branch", "Branch as ADDR:PATTERN, e.g. 1010:1101 (repeatable)")
	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage: bpsim alias [options] -branch ADDR:PATTERN...\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	setVerbose(*verbose)

	if len(branches) == 0 {
		fs.Usage()
		return errors.New("at least one -branch is required")
	}

	cfg := defaults
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadConfig(*configPath); err != nil {
			return err
		}
	} else {
		s, err := predictor.ParseScheme(*scheme)
		if err != nil {
			return err
		}
		cfg.IndexingScheme = s
		cfg.TableSizeBits = *size
		cfg.HistoryWidthBits = *width
	}

	study := alias.NewStudy(cfg)
	study.Repeats = *repeats

	all, err := study.Entries(branches...)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"config":   cfg.Name(),
		"branches": len(branches),
		"entries":  len(all),
	}).Debug("Enumerated patterns")

	_, _ = fmt.Fprintf(stdout, "%s, window %d bits, %d repeats\n\n",
		cfg.Name(), cfg.HistoryWidthBits, study.Repeats)

	if *entries {
		alias.PrintEntries(stdout, all, cfg.HistoryWidthBits, cfg.TableSizeBits)
		_, _ = fmt.Fprintln(stdout, "")
	}
	alias.Analyze(all).Print(stdout, cfg.HistoryWidthBits, cfg.TableSizeBits)

	return nil
}
