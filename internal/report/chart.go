package report

import (
	"fmt"
	"io"
	"math"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	chartWidth  = 960
	chartHeight = 480
)

var (
	bandColor = drawing.Color{R: 255, G: 165, B: 0, A: 255}
	fillColor = drawing.Color{R: 255, G: 165, B: 0, A: 48}
)

// WriteChart renders the population series as a PNG. Month 0 is the initial
// colony so even a one-month run has a line to draw. Monte Carlo responses
// also get their lower/upper total-population band.
func WriteChart(w io.Writer, r *Response) error {
	if len(r.Months) == 0 {
		return fmt.Errorf("chart: no months to plot")
	}

	xs := make([]float64, 0, len(r.Months)+1)
	xs = append(xs, 0)
	for _, m := range r.Months {
		xs = append(xs, float64(m))
	}
	withStart := func(start float64, ys []float64) []float64 {
		return append([]float64{start}, ys...)
	}

	series := []chart.Series{}
	peak := r.InitialPopulation

	if r.IsMonteCarlo() {
		upper := withStart(r.InitialPopulation, r.TotalPopulationUpper)
		lower := withStart(r.InitialPopulation, r.TotalPopulationLower)
		series = append(series,
			chart.ContinuousSeries{
				Name:    "Upper band",
				XValues: xs,
				YValues: upper,
				Style:   chart.Style{StrokeColor: bandColor, StrokeWidth: 1, FillColor: fillColor},
			},
			chart.ContinuousSeries{
				Name:    "Lower band",
				XValues: xs,
				YValues: lower,
				Style:   chart.Style{StrokeColor: bandColor, StrokeWidth: 1, FillColor: drawing.ColorWhite},
			},
		)
		peak = math.Max(peak, maxOf(upper))
	}

	total := withStart(r.InitialPopulation, r.TotalPopulation)
	peak = math.Max(peak, maxOf(total))
	series = append(series,
		chart.ContinuousSeries{
			Name:    "Total",
			XValues: xs,
			YValues: total,
			Style:   chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 3},
		},
		chart.ContinuousSeries{
			Name:    "Sterilized",
			XValues: xs,
			YValues: withStart(r.InitialSterilized, r.SterilizedPopulation),
			Style:   chart.Style{StrokeColor: chart.ColorGreen, StrokeWidth: 2},
		},
		chart.ContinuousSeries{
			Name:    "Unsterilized",
			XValues: xs,
			YValues: withStart(r.InitialPopulation-r.InitialSterilized, r.UnsterilizedPopulation),
			Style:   chart.Style{StrokeColor: chart.ColorRed, StrokeWidth: 2},
		},
	)

	graph := chart.Chart{
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:  "Month",
			Style: chart.Style{FontSize: 10},
			Range: &chart.ContinuousRange{Min: 0, Max: xs[len(xs)-1]},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%d", int(v.(float64)))
			},
		},
		YAxis: chart.YAxis{
			Name:  "Cats",
			Style: chart.Style{FontSize: 10},
			// An explicit range keeps a flat colony from producing a zero delta.
			Range: &chart.ContinuousRange{Min: 0, Max: math.Max(1, math.Ceil(peak*1.1))},
			ValueFormatter: func(v interface{}) string {
				return fmt.Sprintf("%.0f", v.(float64))
			},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	return nil
}

func maxOf(vs []float64) float64 {
	m := math.Inf(-1)
	for _, v := range vs {
		m = math.Max(m, v)
	}
	return m
}
