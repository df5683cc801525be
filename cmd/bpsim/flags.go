package main

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/sarchlab/bpsim/predictor"
	"github.com/sarchlab/bpsim/trace"
)

// patternFlag collects repeated -branch ADDR:PATTERN flags.
type patternFlag []trace.Pattern

func (p *patternFlag) String() string {
	if p == nil {
		return ""
	}
	parts := make([]string, 0, len(*p))
	for _, pat := range *p {
		parts = append(parts, pat.String())
	}
	return strings.Join(parts, ",")
}

func (p *patternFlag) Set(value string) error {
	pat, err := trace.ParsePattern(value)
	if err != nil {
		return err
	}
	*p = append(*p, pat)
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func parseSchemes(s string) ([]predictor.Scheme, error) {
	var schemes []predictor.Scheme
	for _, name := range splitList(s) {
		scheme, err := predictor.ParseScheme(name)
		if err != nil {
			return nil, err
		}
		schemes = append(schemes, scheme)
	}
	return schemes, nil
}

func parseMethods(s string) ([]predictor.CounterMethod, error) {
	var methods []predictor.CounterMethod
	for _, name := range splitList(s) {
		method, err := predictor.ParseCounterMethod(name)
		if err != nil {
			return nil, err
		}
		methods = append(methods, method)
	}
	return methods, nil
}

func parseSizes(s string) ([]int, error) {
	var sizes []int
	for _, part := range splitList(s) {
		size, err := strconv.Atoi(part)
		if err != nil {
			return nil, errors.Wrapf(predictor.ErrInvalidConfiguration,
				"table size %q", part)
		}
		sizes = append(sizes, size)
	}
	return sizes, nil
}

func setVerbose(verbose bool) {
	if verbose {
		log.SetLevel(log.DebugLevel)
	}
}
