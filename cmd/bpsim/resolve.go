package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/sarchlab/bpsim/trace"
)

func runResolve(args []string, stdout io.Writer) error {
	fs := flag.NewFlagSet("resolve", flag.ContinueOnError)
	var (
		disasm  = fs.String("disasm", "", "Disassembly listing with 'ADDR MNEMONIC TARGET' lines")
		samples = fs.String("flags", "", "JSON array of {\"ADDR\": RFLAGS} samples taken at branch sites")
		binary  = fs.String("binary", "", "Binary name recorded in the trace file")
		output  = fs.String("o", "", "Output trace file (default: stdout)")
	)
	fs.Usage = func() {
		_, _ = fmt.Fprintf(fs.Output(), "Usage: bpsim resolve -disasm FILE -flags FILE [options]\n\nOptions:\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *disasm == "" || *samples == "" {
		fs.Usage()
		return errors.New("-disasm and -flags are required")
	}

	sites, err := readSites(*disasm)
	if err != nil {
		return err
	}
	flagSamples, err := readFlagSamples(*samples)
	if err != nil {
		return err
	}

	history, err := trace.Resolve(flagSamples, sites)
	if err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"sites":    len(sites),
		"samples":  len(flagSamples),
		"branches": len(history),
	}).Info("Resolved branch outcomes")

	file := &trace.File{Binary: *binary, History: history}
	if *output == "" {
		return file.Encode(stdout)
	}
	return file.Save(*output)
}

func readSites(path string) (map[uint64]trace.Site, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()
	return trace.ParseDisassembly(f)
}

func readFlagSamples(path string) ([]trace.FlagSample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", path)
	}
	defer func() { _ = f.Close() }()
	return trace.DecodeFlagSamples(f)
}
