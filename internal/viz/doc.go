// Package viz renders spin lattices and observable series for the terminal
// and for image files.
//
//   - [RenderLattice]: colored block rendering with lipgloss, one cell per spin
//   - [RenderBraille]: compact Braille rendering for large lattices
//   - [Plot], [PlotSweep]: asciigraph line plots of series and sweeps
//   - [WriteSweepPNG], [WriteSeriesPNG]: go-chart PNG charts
//
// Colors come from the active [Theme]; see [ThemeNames].
package viz
