package viz

import (
	"errors"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/san-kum/ising/internal/analysis"
)

// ErrTooFewPoints indicates a chart with fewer than two x values.
var ErrTooFewPoints = errors.New("viz: chart needs at least two points")

const (
	chartWidth  = 1024
	chartHeight = 512
)

var (
	colorMag    = drawing.Color{R: 0, G: 120, B: 255, A: 255}
	colorEnergy = drawing.Color{R: 230, G: 60, B: 60, A: 255}
	colorChi    = drawing.Color{R: 255, G: 165, B: 0, A: 255}
	colorBinder = drawing.Color{R: 40, G: 170, B: 90, A: 255}
)

// WriteSweepPNG renders |m|, energy and Binder cumulant against temperature
// on the left axis and susceptibility on the right axis.
func WriteSweepPNG(w io.Writer, points []analysis.Point) error {
	if len(points) < 2 {
		return ErrTooFewPoints
	}

	temps := make([]float64, len(points))
	mags := make([]float64, len(points))
	energies := make([]float64, len(points))
	binder := make([]float64, len(points))
	chi := make([]float64, len(points))
	for i, p := range points {
		temps[i] = p.Temperature
		mags[i] = p.Magnetization
		energies[i] = p.Energy
		binder[i] = p.Binder
		chi[i] = p.Susceptibility
	}

	graph := chart.Chart{
		Title:  "Temperature sweep",
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:           "T",
			ValueFormatter: func(v interface{}) string { return fmt.Sprintf("%.2f", v.(float64)) },
		},
		YAxis:          chart.YAxis{Name: "per site"},
		YAxisSecondary: chart.YAxis{Name: "susceptibility"},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "|m|",
				XValues: temps,
				YValues: mags,
				Style:   chart.Style{StrokeColor: colorMag, StrokeWidth: 3.0},
			},
			chart.ContinuousSeries{
				Name:    "energy",
				XValues: temps,
				YValues: energies,
				Style:   chart.Style{StrokeColor: colorEnergy, StrokeWidth: 3.0},
			},
			chart.ContinuousSeries{
				Name:    "binder",
				XValues: temps,
				YValues: binder,
				Style:   chart.Style{StrokeColor: colorBinder, StrokeWidth: 2.0, StrokeDashArray: []float64{5, 5}},
			},
			chart.ContinuousSeries{
				Name:    "chi",
				YAxis:   chart.YAxisSecondary,
				XValues: temps,
				YValues: chi,
				Style:   chart.Style{StrokeColor: colorChi, StrokeWidth: 3.0},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph.Render(chart.PNG, w)
}

// WriteSeriesPNG renders recorded energy and magnetization series against
// the production step, sample k sitting at step k*lag.
func WriteSeriesPNG(w io.Writer, energies, mags []float64, lag int) error {
	if len(energies) < 2 || len(energies) != len(mags) {
		return ErrTooFewPoints
	}

	steps := make([]float64, len(energies))
	for i := range steps {
		steps[i] = float64(i * lag)
	}

	graph := chart.Chart{
		Width:  chartWidth,
		Height: chartHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{
			Name:           "step",
			ValueFormatter: func(v interface{}) string { return fmt.Sprintf("%d", int(v.(float64))) },
		},
		YAxis: chart.YAxis{Name: "per site"},
		Series: []chart.Series{
			chart.ContinuousSeries{
				Name:    "energy",
				XValues: steps,
				YValues: energies,
				Style:   chart.Style{StrokeColor: colorEnergy, StrokeWidth: 2.0},
			},
			chart.ContinuousSeries{
				Name:    "|m|",
				XValues: steps,
				YValues: mags,
				Style:   chart.Style{StrokeColor: colorMag, StrokeWidth: 2.0},
			},
		},
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph.Render(chart.PNG, w)
}

func formatT(t float64) string {
	return fmt.Sprintf("%.3f", t)
}
