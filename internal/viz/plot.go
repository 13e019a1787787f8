package viz

import (
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/ising/internal/analysis"
)

// Plot draws a series as an asciigraph line plot. Series longer than width
// are resampled to fit.
func Plot(series []float64, caption string, width, height int) string {
	if len(series) == 0 {
		return ""
	}
	return asciigraph.Plot(series,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}

// SweepField selects one estimator of a sweep point.
type SweepField func(analysis.Point) float64

var SweepFields = map[string]SweepField{
	"energy":         func(p analysis.Point) float64 { return p.Energy },
	"magnetization":  func(p analysis.Point) float64 { return p.Magnetization },
	"specific_heat":  func(p analysis.Point) float64 { return p.SpecificHeat },
	"susceptibility": func(p analysis.Point) float64 { return p.Susceptibility },
	"binder":         func(p analysis.Point) float64 { return p.Binder },
	"cluster_size":   func(p analysis.Point) float64 { return p.MeanClusterSize },
}

// PlotSweep plots one field of a sweep against the temperature index.
func PlotSweep(points []analysis.Point, field string, width, height int) string {
	get, ok := SweepFields[field]
	if !ok || len(points) == 0 {
		return ""
	}
	data := make([]float64, len(points))
	for i, p := range points {
		data[i] = get(p)
	}
	caption := field + " vs T (" + formatT(points[0].Temperature) + " .. " + formatT(points[len(points)-1].Temperature) + ")"
	return Plot(data, caption, width, height)
}

// PlotObservables overlays energy and magnetization series in one plot.
func PlotObservables(energies, mags []float64, width, height int) string {
	if len(energies) == 0 || len(energies) != len(mags) {
		return ""
	}
	return asciigraph.PlotMany([][]float64{energies, mags},
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.SeriesColors(asciigraph.Red, asciigraph.Blue),
		asciigraph.Caption("energy (red) / |m| (blue) per site"),
	)
}
