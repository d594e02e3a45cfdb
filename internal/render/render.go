// Package render draws dashboard views as PNG charts.
package render

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"strings"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/UBC-MDS/DSCI-532-2024-17-carbon-emissions/internal/model"
)

// Chart size used for every PNG.
const (
	Width  = 10 * vg.Inch
	Height = 6 * vg.Inch
)

const yLabel = "CO2 Emissions (MT/capita)"

var barColor = color.RGBA{R: 70, G: 130, B: 180, A: 255}

// TimeSeriesChart builds a multi-series line chart, one line per country.
// Placeholder views produce an empty plot that carries only the prompt.
func TimeSeriesChart(v model.TimeSeriesView) (*plot.Plot, error) {
	p := newPlot(v.Title)
	if v.Placeholder {
		return p, nil
	}
	p.X.Label.Text = "Year"
	p.Y.Label.Text = yLabel
	p.Legend.Top = true

	for i, s := range v.Series {
		points := make(plotter.XYs, len(s.Points))
		for j, pt := range s.Points {
			points[j].X = float64(pt.Year)
			points[j].Y = pt.Emissions
		}
		line, err := plotter.NewLine(points)
		if err != nil {
			return nil, fmt.Errorf("failed to build line for %s: %w", s.Country, err)
		}
		line.Width = vg.Points(2)
		line.Color = plotutil.Color(i)
		p.Add(line)
		p.Legend.Add(s.Country, line)
	}
	p.Add(plotter.NewGrid())
	return p, nil
}

// BarChart builds the top-countries bar chart with value labels above each bar.
// The y axis stops at AxisMax.
func BarChart(v model.BarView) (*plot.Plot, error) {
	p := newPlot(v.Title)
	if v.Placeholder || len(v.Bars) == 0 {
		return p, nil
	}
	p.X.Label.Text = "Country"
	p.Y.Label.Text = yLabel

	values := make(plotter.Values, len(v.Bars))
	names := make([]string, len(v.Bars))
	labels := plotter.XYLabels{
		XYs:    make([]plotter.XY, len(v.Bars)),
		Labels: make([]string, len(v.Bars)),
	}
	for i, b := range v.Bars {
		values[i] = b.Emissions
		names[i] = b.Country
		labels.XYs[i] = plotter.XY{X: float64(i), Y: b.Emissions}
		labels.Labels[i] = fmt.Sprintf("%.2f", b.Emissions)
	}

	bars, err := plotter.NewBarChart(values, vg.Points(40))
	if err != nil {
		return nil, fmt.Errorf("failed to build bar chart: %w", err)
	}
	bars.Color = barColor
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)

	valueLabels, err := plotter.NewLabels(labels)
	if err != nil {
		return nil, fmt.Errorf("failed to build value labels: %w", err)
	}
	for i := range valueLabels.TextStyle {
		valueLabels.TextStyle[i].XAlign = draw.XCenter
		valueLabels.TextStyle[i].YAlign = draw.YBottom
	}
	p.Add(valueLabels)

	p.NominalX(names...)
	p.Y.Min = math.Min(0, minValue(values))
	if v.AxisMax > 0 {
		p.Y.Max = v.AxisMax
	}
	return p, nil
}

// WritePNG encodes p as a PNG of the default size.
func WritePNG(w io.Writer, p *plot.Plot) error {
	wt, err := p.WriterTo(Width, Height, "png")
	if err != nil {
		return fmt.Errorf("failed to prepare png: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write png: %w", err)
	}
	return nil
}

// TimeSeriesPNG renders a time-series view straight to w.
func TimeSeriesPNG(w io.Writer, v model.TimeSeriesView) error {
	p, err := TimeSeriesChart(v)
	if err != nil {
		return err
	}
	return WritePNG(w, p)
}

// BarPNG renders a bar view straight to w.
func BarPNG(w io.Writer, v model.BarView) error {
	p, err := BarChart(v)
	if err != nil {
		return err
	}
	return WritePNG(w, p)
}

func newPlot(title string) *plot.Plot {
	p := plot.New()
	p.Title.Text = strings.ReplaceAll(title, "<br>", "\n")
	p.Title.TextStyle.Font.Size = vg.Points(14)
	return p
}

func minValue(values plotter.Values) float64 {
	m := 0.0
	for _, v := range values {
		m = math.Min(m, v)
	}
	return m
}
