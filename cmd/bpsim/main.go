// Package main provides the bpsim command line tool.
// bpsim replays branch traces through configurable predictors and studies
// table aliasing over synthetic branch patterns.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type command struct {
	name    string
	summary string
	run     func(args []string, stdout io.Writer) error
}

var commands = []command{
	{"simulate", "replay a trace file through predictor configurations", runSimulate},
	{"alias", "enumerate branch patterns and report table aliasing", runAlias},
	{"synth", "write a synthetic trace file from branch patterns", runSynth},
	{"resolve", "turn disassembly and flag samples into a trace file", runResolve},
}

func usage(w io.Writer) {
	_, _ = fmt.Fprintf(w, "Usage: bpsim <command> [options]\n")
	_, _ = fmt.Fprintf(w, "\nCommands:\n")
	for _, c := range commands {
		_, _ = fmt.Fprintf(w, "  %-9s %s\n", c.name, c.summary)
	}
	_, _ = fmt.Fprintf(w, "\nRun 'bpsim <command> -h' for the options of a command.\n")
}

func main() {
	log.SetFormatter(&log.TextFormatter{DisableTimestamp: true})
	log.SetOutput(os.Stderr)

	if len(os.Args) < 2 {
		usage(os.Stderr)
		os.Exit(1)
	}

	for _, c := range commands {
		if c.name != os.Args[1] {
			continue
		}
		err := c.run(os.Args[2:], os.Stdout)
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		if err != nil {
			log.WithError(err).Errorf("%s failed", c.name)
			os.Exit(1)
		}
		return
	}

	usage(os.Stderr)
	os.Exit(1)
}
