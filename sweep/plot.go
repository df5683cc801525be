package sweep

import (
	"github.com/pkg/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

// PlotAccuracy saves a bar chart of the accuracy of each result to path. The
// image format follows the file extension. Results without a defined
// accuracy are left out.
func PlotAccuracy(results []Result, path string) error {
	var (
		values plotter.Values
		names  []string
	)
	for _, r := range results {
		acc, ok := r.Accuracy()
		if !ok {
			continue
		}
		values = append(values, 100*acc)
		names = append(names, r.Name)
	}
	if len(values) == 0 {
		return errors.New("nothing to plot")
	}

	p := plot.New()
	p.Title.Text = "Prediction accuracy"
	p.Y.Label.Text = "Accuracy (%)"
	p.Y.Min = 0
	p.Y.Max = 100

	bars, err := plotter.NewBarChart(values, vg.Points(20))
	if err != nil {
		return errors.Wrap(err, "bar chart")
	}
	p.Add(bars)
	p.NominalX(names...)

	width := vg.Length(len(values)) * vg.Inch
	if width < 4*vg.Inch {
		width = 4 * vg.Inch
	}
	if err := p.Save(width, 4*vg.Inch, path); err != nil {
		return errors.Wrapf(err, "save %s", path)
	}
	return nil
}
