package main

import (
	"flag"
	"fmt"
	"io"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/sarchlab/bpsim/trace"
)

func runSynth(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("synth", flag.ContinueOnError)
	var (
		branches patternFlag
		rounds   = fs.Int("rounds", 100, "Rounds of the interleaved patterns")
		output   = fs.String("o", "", "Output trace file (default: stdout)")
	)
	fs.Var(&branches, "branch", "Branch as ADDR:PATTERN, e.g. 0x40:1101 (repeatable)")
	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage: bpsim synth [options] -branch ADDR:PATTERN...\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	if len(branches) == 0 {
		fs.Usage()
		return errors.New("at least one -branch is required")
	}

	history, err := trace.FromPatterns(branches, *rounds)
	if err != nil {
		return err
	}

	file := &trace.File{
		Binary:    "synthetic",
		Arguments: branches.String(),
		History:   history,
	}

	if *output == "" {
		return file.Encode(stdout)
	}
	if err := file.Save(*output); err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"path":     *output,
		"branches": len(history),
	}).Info("Wrote synthetic trace")
	return nil
}
