package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/sarchlab/bpsim/config"
	"github.com/sarchlab/bpsim/sweep"
	"github.com/sarchlab/bpsim/trace"
)

func runSimulate(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("simulate", flag.ContinueOnError)
	var (
		schemes    = fs.String("schemes", "concat,gshare", "Comma-separated indexing schemes")
		methods    = fs.String("methods", "2bit", "Comma-separated counter methods (1bit, 2bit)")
		sizes      = fs.String("sizes", "10", "Comma-separated table sizes in bits")
		configPath = fs.String("config", "", "Path to a JSON array of predictor configurations (overrides the matrix)")
		workers    = fs.Int("workers", sweep.DefaultConfig().Workers, "Configurations replayed at once")
		csv        = fs.Bool("csv", false, "Print results as CSV")
		jsonOut    = fs.Bool("json", false, "Print results as JSON")
		rank       = fs.Bool("rank", false, "Order results by accuracy")
		printN     = fs.Int("print", 0, "Print the first N predictions of each configuration")
		plotPath   = fs.String("plot", "", "Save an accuracy bar chart to this file")
		verbose    = fs.Bool("v", false, "Verbose output")
	)
	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage: bpsim simulate [options] <trace.json>\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	setVerbose(*verbose)

	if fs.NArg() != 1 {
		fs.Usage()
		return errors.New("expected one trace file")
	}
	tracePath := fs.Arg(0)

	configs, err := simulateConfigs(*configPath, *schemes, *methods, *sizes)
	if err != nil {
		return err
	}

	file, err := trace.Load(tracePath)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"trace":    tracePath,
		"binary":   file.Binary,
		"branches": len(file.History),
		"sites":    len(file.History.Addresses()),
		"configs":  len(configs),
	}).Info("Loaded trace")

	harness := sweep.NewHarness(sweep.HarnessConfig{
		Workers:     *workers,
		Output:      stdout,
		KeepRecords: *printN > 0,
		Hooks:       debugHooks(),
	})
	harness.AddConfigs(configs)

	results, runErr := harness.Run(file.History)
	if *rank {
		results = sweep.Rank(results)
	}

	switch {
	case *jsonOut:
		if err := harness.PrintJSON(results, tracePath, file.History); err != nil {
			return errors.Wrap(err, "print json")
		}
	case *csv:
		harness.PrintCSV(results)
	default:
		harness.PrintResults(results)
		if summary, err := sweep.Summarize(results); err == nil && len(results) > 1 {
			_, _ = fmt.Fprintf(stdout, "Best: %s (mean accuracy %.1f%%, stddev %.1f%%)\n",
				summary.Best, 100*summary.Mean, 100*summary.StdDev)
		}
	}

	if *printN > 0 {
		harness.PrintTrace(results, *printN)
	}

	if *plotPath != "" {
		if err := sweep.PlotAccuracy(results, *plotPath); err != nil {
			log.WithError(err).Warn("Could not plot accuracy")
		} else {
			log.WithField("path", *plotPath).Info("Saved accuracy plot")
		}
	}

	return runErr
}

func simulateConfigs(path, schemes, methods, sizes string) ([]*config.Config, error) {
	if path != "" {
		return config.LoadConfigs(path)
	}

	ss, err := parseSchemes(schemes)
	if err != nil {
		return nil, err
	}
	ms, err := parseMethods(methods)
	if err != nil {
		return nil, err
	}
	zs, err := parseSizes(sizes)
	if err != nil {
		return nil, err
	}

	return config.Matrix(config.DefaultConfig(), ss, ms, zs)
}
