package alignment_report

import (
	"bytes"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

const (
	histogramBins = 50
	plotWidth     = 10 * vg.Inch
	plotHeight    = 4 * vg.Inch
)

// graphUnavailable replaces a plot that could not be drawn.
const graphUnavailable = "<p>Graph unavailable</p>"

// SampleSeries is one line of a multi-sample plot.
type SampleSeries struct {
	Sample string
	Values []float64
}

// HistogramSpec describes a per-sample distribution plot.
type HistogramSpec struct {
	Title  string
	XLabel string
	YLabel string
	Series []SampleSeries
}

// seriesFor splits a metric by sample, in category order, dropping samples
// without any finite value.
func seriesFor(t *Table[ReadStat], metric func(ReadStat) float64) []SampleSeries {
	grouped := groupValues(t.Samples, t.Rows, metric)
	var out []SampleSeries
	for code, values := range grouped {
		if len(values) == 0 {
			continue
		}
		out = append(out, SampleSeries{Sample: t.Samples.Name(code), Values: values})
	}
	return out
}

// histogramDividers spans all series with shared, equal-width bins. The last
// divider sits just above the maximum so every value falls in a bin.
func histogramDividers(series []SampleSeries, bins int) []float64 {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range series {
		lo = math.Min(lo, floats.Min(s.Values))
		hi = math.Max(hi, floats.Max(s.Values))
	}
	if hi <= lo {
		hi = lo + 1
	}
	dividers := make([]float64, bins+1)
	floats.Span(dividers, lo, hi)
	dividers[bins] = math.Nextafter(hi, math.Inf(1))
	return dividers
}

// GenerateHistogramSVG draws one histogram line per sample over shared bins.
func GenerateHistogramSVG(spec HistogramSpec) (string, error) {
	if len(spec.Series) == 0 {
		return "", fmt.Errorf("%s: no data to plot", spec.Title)
	}

	p := plot.New()
	p.Title.Text = spec.Title
	p.X.Label.Text = spec.XLabel
	p.Y.Label.Text = spec.YLabel
	p.Legend.Top = true
	p.Add(plotter.NewGrid())

	dividers := histogramDividers(spec.Series, histogramBins)
	for i, s := range spec.Series {
		sorted := append([]float64(nil), s.Values...)
		sort.Float64s(sorted)
		counts := stat.Histogram(nil, dividers, sorted, nil)

		pts := make(plotter.XYs, len(counts))
		for j, c := range counts {
			pts[j].X = (dividers[j] + dividers[j+1]) / 2
			pts[j].Y = c
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return "", err
		}
		line.LineStyle.Color = plotutil.Color(i)
		line.LineStyle.Width = vg.Points(2)
		p.Add(line)
		p.Legend.Add(s.Sample, line)
	}

	return renderSVG(p)
}

// GenerateBarSVG draws a single-series bar chart with nominal x labels.
func GenerateBarSVG(title, yLabel string, labels []string, values []float64) (string, error) {
	if len(labels) == 0 {
		return "", fmt.Errorf("%s: no data to plot", title)
	}

	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())

	bars, err := plotter.NewBarChart(plotter.Values(values), vg.Points(20))
	if err != nil {
		return "", err
	}
	bars.Color = plotutil.Color(0)
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(labels...)

	return renderSVG(p)
}

func renderSVG(p *plot.Plot) (string, error) {
	var buf bytes.Buffer
	writer, err := p.WriterTo(plotWidth, plotHeight, "svg")
	if err != nil {
		return "", err
	}
	_, err = writer.WriteTo(&buf)
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
