package sweep

import (
	"encoding/json"
	"fmt"
	"slices"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"

	"github.com/sarchlab/bpsim/trace"
)

// Rank orders results by accuracy, best first. Results with an undefined
// accuracy go last. Ties keep their original order.
func Rank(results []Result) []Result {
	ranked := slices.Clone(results)
	slices.SortStableFunc(ranked, func(a, b Result) int {
		accA, okA := a.Accuracy()
		accB, okB := b.Accuracy()
		switch {
		case okA && !okB:
			return -1
		case !okA && okB:
			return 1
		case accA > accB:
			return -1
		case accA < accB:
			return 1
		}
		return 0
	})
	return ranked
}

// Summary aggregates the defined accuracies of a sweep.
type Summary struct {
	Runs      int           `json:"runs"`
	Defined   int           `json:"defined"`
	Mean      float64       `json:"mean"`
	Median    float64       `json:"median"`
	StdDev    float64       `json:"stddev"`
	Min       float64       `json:"min"`
	Max       float64       `json:"max"`
	Best      string        `json:"best,omitempty"`
	TotalTime time.Duration `json:"total_wall_time_ns"`
}

// Summarize computes statistics over the results whose accuracy is defined.
// It fails when no result has a defined accuracy.
func Summarize(results []Result) (Summary, error) {
	s := Summary{Runs: len(results)}

	var accs []float64
	for _, r := range results {
		s.TotalTime += r.WallTime
		if acc, ok := r.Accuracy(); ok {
			accs = append(accs, acc)
		}
	}
	s.Defined = len(accs)
	if len(accs) == 0 {
		return s, errors.New("no result with a defined accuracy")
	}

	data := stats.LoadRawData(accs)

	var err error
	if s.Mean, err = stats.Mean(data); err != nil {
		return s, errors.Wrap(err, "mean")
	}
	if s.Median, err = stats.Median(data); err != nil {
		return s, errors.Wrap(err, "median")
	}
	if s.StdDev, err = stats.StandardDeviation(data); err != nil {
		return s, errors.Wrap(err, "stddev")
	}
	if s.Min, err = stats.Min(data); err != nil {
		return s, errors.Wrap(err, "min")
	}
	if s.Max, err = stats.Max(data); err != nil {
		return s, errors.Wrap(err, "max")
	}

	s.Best = Rank(results)[0].Name

	return s, nil
}

// PrintResults outputs results in a human-readable format.
func (h *Harness) PrintResults(results []Result) {
	_, _ = fmt.Fprintln(h.config.Output, "=== BPSim Predictor Results ===")
	_, _ = fmt.Fprintln(h.config.Output, "")

	for _, r := range results {
		_, _ = fmt.Fprintf(h.config.Output, "Config: %s\n", r.Name)
		if r.Err != nil {
			_, _ = fmt.Fprintf(h.config.Output, "  Error: %v\n", r.Err)
			_, _ = fmt.Fprintln(h.config.Output, "")
			continue
		}
		_, _ = fmt.Fprintf(h.config.Output, "  Predictions:     %d\n", r.Stats.Predictions)
		_, _ = fmt.Fprintf(h.config.Output, "  Correct:         %d\n", r.Stats.Correct)
		_, _ = fmt.Fprintf(h.config.Output, "  Mispredictions:  %d\n", r.Stats.Mispredictions)
		if acc, ok := r.Accuracy(); ok {
			_, _ = fmt.Fprintf(h.config.Output, "  Accuracy:        %.1f%%\n", 100*acc)
		} else {
			_, _ = fmt.Fprintln(h.config.Output, "  Accuracy:        undefined")
		}
		_, _ = fmt.Fprintf(h.config.Output, "  Branches:        %d\n", len(r.ByAddress))
		_, _ = fmt.Fprintf(h.config.Output, "  Wall Time: %v\n", r.WallTime)
		_, _ = fmt.Fprintln(h.config.Output, "")
	}
}

// PrintCSV outputs results in CSV format for easy comparison. An undefined
// accuracy is left empty.
func (h *Harness) PrintCSV(results []Result) {
	_, _ = fmt.Fprintln(h.config.Output,
		"name,scheme,counter,size_bits,predictions,correct,mispredictions,accuracy")

	for _, r := range results {
		if r.Err != nil || r.Config == nil {
			continue
		}
		acc := ""
		if a, ok := r.Accuracy(); ok {
			acc = fmt.Sprintf("%.4f", a)
		}
		_, _ = fmt.Fprintf(h.config.Output, "%s,%s,%s,%d,%d,%d,%d,%s\n",
			r.Name,
			r.Config.IndexingScheme,
			r.Config.CounterMethod,
			r.Config.TableSizeBits,
			r.Stats.Predictions,
			r.Stats.Correct,
			r.Stats.Mispredictions,
			acc,
		)
	}
}

// PrintTrace outputs the first n prediction records of each result. It
// needs results produced with KeepRecords.
func (h *Harness) PrintTrace(results []Result, n int) {
	for _, r := range results {
		if r.Err != nil || r.Config == nil {
			continue
		}
		size := int(r.Config.SizeBits())
		_, _ = fmt.Fprintf(h.config.Output, "--- %s ---\n", r.Name)
		_, _ = fmt.Fprintln(h.config.Output, "Address            | History | Key | Pred | Actual")

		for i, rec := range r.Records {
			if i >= n {
				break
			}
			mark := ""
			if !rec.Correct() {
				mark = " x"
			}
			_, _ = fmt.Fprintf(h.config.Output, "%-18s | %0*b | %0*b | %d | %d%s\n",
				trace.FormatAddress(rec.Address),
				size, rec.History,
				size, rec.Key,
				bit(rec.Predicted),
				bit(rec.Actual),
				mark,
			)
		}
		_, _ = fmt.Fprintln(h.config.Output, "")
	}
}

func bit(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Report is the complete JSON output of a sweep.
type Report struct {
	Metadata ReportMetadata `json:"metadata"`
	Results  []Result       `json:"results"`
	Summary  Summary        `json:"summary"`
}

// ReportMetadata contains information about the sweep run.
type ReportMetadata struct {
	Timestamp string `json:"timestamp"`
	Trace     string `json:"trace,omitempty"`
	Branches  int    `json:"branches"`
}

// PrintJSON outputs results in JSON format for automated comparison.
func (h *Harness) PrintJSON(results []Result, source string, t trace.Trace) error {
	report := Report{
		Metadata: ReportMetadata{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Trace:     source,
			Branches:  len(t),
		},
		Results: results,
	}

	// A sweep with no defined accuracy still produces a report.
	report.Summary, _ = Summarize(results)

	encoder := json.NewEncoder(h.config.Output)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
