package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/ising/internal/analysis"
	"github.com/san-kum/ising/internal/automation"
	"github.com/san-kum/ising/internal/config"
	"github.com/san-kum/ising/internal/experiment"
	"github.com/san-kum/ising/internal/export"
	"github.com/san-kum/ising/internal/ising"
	"github.com/san-kum/ising/internal/mc"
	"github.com/san-kum/ising/internal/storage"
	"github.com/san-kum/ising/internal/tui"
	"github.com/san-kum/ising/internal/viz"
)

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	exp, err := experiment.New(cfg.Experiment())
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("running", "lattice", fmt.Sprintf("%dx%d", cfg.Rows, cfg.Cols),
		"T", cfg.Temperature, "algorithm", cfg.Algorithm, "steps", cfg.Steps, "seed", exp.Model().Seed())

	exp.AddObserver(stepProgress(cfg.Steps))
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	var thermo *analysis.Thermo
	if len(result.Energies) > 0 {
		est, err := analysis.Estimate(result.Energies, result.Magnetizations, cfg.Temperature, exp.Model().Sites())
		if err != nil {
			return err
		}
		thermo = &est
	}

	runID := ""
	if !noSave {
		st := storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err = st.Save(result, thermo)
		if err != nil {
			return err
		}
	}

	logger.Info("completed", "elapsed", result.Elapsed.Round(time.Millisecond), "samples", len(result.Energies), "run", runID)

	if runID != "" {
		fmt.Printf("run id: %s\n", runID)
	}
	fmt.Printf("seed: %d\n", result.Seed)
	if cfg.Algorithm == mc.AlgorithmWolff {
		fmt.Printf("mean cluster size: %d\n", result.MeanClusterSize)
	}
	if thermo != nil {
		fmt.Println()
		printThermo(thermo)
	}

	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)

	if showPlot && len(result.Energies) > 0 {
		fmt.Println()
		fmt.Println(viz.PlotObservables(result.Energies, result.Magnetizations, 80, 12))
	}

	if pngPath != "" {
		if err := writePNG(pngPath, func(f *os.File) error {
			return viz.WriteSeriesPNG(f, result.Energies, result.Magnetizations, cfg.Lag)
		}); err != nil {
			return err
		}
		logger.Info("wrote chart", "path", pngPath)
	}

	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.ValidateSweep(); err != nil {
		return err
	}

	temps := analysis.Temperatures(cfg.Sweep.From, cfg.Sweep.To, cfg.Sweep.Points)
	total := len(temps) * cfg.Sweep.Replicas

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("sweeping", "from", cfg.Sweep.From, "to", cfg.Sweep.To,
		"points", len(temps), "replicas", cfg.Sweep.Replicas, "algorithm", cfg.Algorithm)

	start := time.Now()
	points, err := analysis.Sweep(ctx, analysis.SweepConfig{
		Base:         cfg.Experiment(),
		Temperatures: temps,
		Replicas:     cfg.Sweep.Replicas,
		Limit:        sweepWorkers,
	}, func(done, n int) {
		fmt.Fprintf(os.Stderr, "\r  %s %d/%d", viz.ProgressBar(float64(done)/float64(n), 30), done, n)
		if done == n {
			fmt.Fprintln(os.Stderr)
		}
	})
	if err != nil {
		return err
	}
	logger.Info("sweep completed", "runs", total, "elapsed", time.Since(start).Round(time.Millisecond))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "T\tE/N\t±\t|M|/N\t±\tC\tCHI\tBINDER\tTAU_E\tCLUSTER")
	for _, p := range points {
		fmt.Fprintf(w, "%.4f\t%.5f\t%.5f\t%.5f\t%.5f\t%.4f\t%.4f\t%.4f\t%.2f\t%.1f\n",
			p.Temperature, p.Energy, p.EnergyErr, p.Magnetization, p.MagErr,
			p.SpecificHeat, p.Susceptibility, p.Binder, p.TauEnergy, p.MeanClusterSize)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if peak, ok := analysis.PeakSusceptibility(points); ok {
		fmt.Printf("\nsusceptibility peak at T = %.4f (onsager T_c = %.4f for J = 1)\n",
			peak.Temperature, analysis.CriticalTemperature)
	}

	if sweepField != "" {
		plot := viz.PlotSweep(points, sweepField, 80, 12)
		if plot == "" {
			return fmt.Errorf("unknown plot field: %s", sweepField)
		}
		fmt.Println()
		fmt.Println(plot)
	}

	if pngPath != "" {
		if err := writePNG(pngPath, func(f *os.File) error {
			return viz.WriteSweepPNG(f, points)
		}); err != nil {
			return err
		}
		logger.Info("wrote chart", "path", pngPath)
	}

	if outPath != "" {
		data, err := json.MarshalIndent(points, "", "  ")
		if err != nil {
			return err
		}
		if err := os.WriteFile(outPath, data, 0644); err != nil {
			return err
		}
		logger.Info("wrote points", "path", outPath)
	}

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tLATTICE\tJ\tT\tALGO\tSTEPS\tSAMPLES")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%dx%d\t%g\t%.4f\t%s\t%d\t%d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Rows, run.Cols,
			run.J,
			run.Temperature,
			run.Algorithm,
			run.Steps,
			run.Samples,
		)
	}

	return w.Flush()
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	if len(series.Energies) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("lattice: %dx%d  J=%g  T=%.4f  %s\n", meta.Rows, meta.Cols, meta.J, meta.Temperature, meta.Algorithm)
	fmt.Printf("samples: %d (every %d steps)\n\n", len(series.Energies), series.Lag)

	fmt.Println(viz.Plot(series.Energies, "energy per site", 80, 10))
	fmt.Println()
	fmt.Println(viz.Plot(series.Magnetizations, "|magnetization| per site", 80, 10))

	if pngPath != "" {
		if err := writePNG(pngPath, func(f *os.File) error {
			return viz.WriteSeriesPNG(f, series.Energies, series.Magnetizations, series.Lag)
		}); err != nil {
			return err
		}
		logger.Info("wrote chart", "path", pngPath)
	}

	if svgPath != "" {
		svg := export.SeriesSVG(series.Magnetizations, 800, 300, "#00ccff")
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		logger.Info("wrote svg", "path", svgPath)
	}

	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	data, err := st.Export(args[0])
	if err != nil {
		return err
	}

	if outPath == "" {
		return storage.WriteJSON(os.Stdout, data)
	}
	if err := storage.ExportJSON(outPath, data); err != nil {
		return err
	}
	logger.Info("exported", "run", data.ID, "path", outPath)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}
	series, err := st.LoadSeries(runID)
	if err != nil {
		return err
	}

	thermo, err := analysis.Estimate(series.Energies, series.Magnetizations, meta.Temperature, meta.Rows*meta.Cols)
	if err != nil {
		return err
	}

	fmt.Printf("analysis: %s\n", meta.ID)
	fmt.Printf("lattice: %dx%d  J=%g  T=%.4f  %s\n\n", meta.Rows, meta.Cols, meta.J, meta.Temperature, meta.Algorithm)
	printThermo(&thermo)

	acf := analysis.Autocorrelation(series.Magnetizations)
	if len(acf) > 1 {
		window := min(len(acf), 200)
		fmt.Println()
		fmt.Println(viz.Plot(acf[:window], "|m| autocorrelation vs lag (samples)", 80, 10))
	}

	independent := float64(thermo.Samples) / max(2*thermo.TauMag, 1)
	fmt.Printf("\neffective independent samples: %.0f of %d\n", independent, thermo.Samples)
	return nil
}

func showLattice(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	// only equilibrate; nothing is recorded
	ecfg := cfg.Experiment()
	ecfg.Steps = 0
	exp, err := experiment.New(ecfg)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}

	m := result.Model
	spins := m.Grid()
	if braille {
		fmt.Print(viz.RenderBraille(spins))
	} else {
		fmt.Print(viz.RenderLattice(spins, viz.GetTheme(theme)))
	}
	fmt.Println()
	fmt.Println(viz.Metric("T", fmt.Sprintf("%.4f", cfg.Temperature)) + "  " +
		viz.Metric("E/N", fmt.Sprintf("%+.5f", m.MeanEnergy())) + "  " +
		viz.Metric("|m|", fmt.Sprintf("%.5f", m.MeanMagnetization())) + "  " +
		viz.Metric("seed", fmt.Sprintf("%d", result.Seed)))

	if svgPath != "" {
		t := viz.GetTheme(theme)
		svg := export.LatticeSVG(spins, 8, string(t.Up), string(t.Down))
		if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
			return err
		}
		logger.Info("wrote svg", "path", svgPath)
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	exp, err := experiment.New(cfg.Experiment())
	if err != nil {
		return err
	}

	return tui.Run(exp.Model(), tui.Options{
		Temperature: cfg.Temperature,
		Algorithm:   cfg.Algorithm,
		Theme:       theme,
		MaxSteps:    maxSteps,
	})
}

func benchAlgorithms(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if !cmd.Flags().Changed("seed") && cfg.Seed == 0 {
		cfg.Seed = 42
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	fmt.Printf("benchmarking %dx%d at T=%.4f\n\n", cfg.Rows, cfg.Cols, cfg.Temperature)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ALGO\tSTEPS\tTIME\tSTEPS/SEC\tFLIPS/SEC")

	ctx, cancel := signalContext()
	defer cancel()

	for _, name := range mc.Algorithms() {
		ecfg := cfg.Experiment()
		ecfg.Algorithm = name
		ecfg.Equilibrate = 0

		exp, err := experiment.New(ecfg)
		if err != nil {
			return err
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return err
		}

		elapsed := result.Elapsed.Seconds()
		flips := result.Metrics["acceptance"] * float64(ecfg.Steps)
		if name == mc.AlgorithmWolff {
			flips = float64(result.MeanClusterSize * ecfg.Steps)
		}
		fmt.Fprintf(w, "%s\t%d\t%v\t%.0f\t%.0f\n",
			name, ecfg.Steps, result.Elapsed.Round(time.Microsecond),
			float64(ecfg.Steps)/elapsed, flips/elapsed)
	}

	return w.Flush()
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := resolveScenario(cmd, args)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	logger.Info("scenario", "name", sc.Name, "stages", len(sc.Stages),
		"lattice", fmt.Sprintf("%dx%d", sc.Rows, sc.Cols))
	if sc.Description != "" {
		fmt.Println(sc.Description)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STAGE\tT\tALGO\tSTEPS\tE/N\t|M|/N")
	results, err := automation.Run(ctx, sc, func(r automation.StageResult) {
		logger.Debug("stage done", "stage", r.Index+1, "T", r.Stage.Temperature)
		fmt.Fprintf(w, "%d\t%.4f\t%s\t%d\t%+.5f\t%.5f\n",
			r.Index+1, r.Stage.Temperature, r.Stage.Algorithm, r.Stage.Steps, r.Energy, r.Magnetization)
	})
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	if err != nil {
		return err
	}

	if showPlot {
		for _, r := range results {
			if len(r.Energies) == 0 {
				continue
			}
			fmt.Printf("\nstage %d (T=%.4f)\n", r.Index+1, r.Stage.Temperature)
			fmt.Println(viz.PlotObservables(r.Energies, r.Magnetizations, 80, 10))
		}
	}
	return nil
}

func writeConfig(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.ValidateSweep(); err != nil {
		return err
	}
	if err := config.Save(args[0], cfg); err != nil {
		return err
	}
	logger.Info("wrote config", "path", args[0])
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tLATTICE\tJ\tINIT\tT\tALGO\tSTEPS\tSWEEP")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%dx%d\t%g\t%s\t%.3f\t%s\t%d\t%.2f..%.2f\n",
			name, p.Rows, p.Cols, p.J, p.Init, p.Temperature, p.Algorithm, p.Steps, p.Sweep.From, p.Sweep.To)
	}
	return w.Flush()
}

func printThermo(t *analysis.Thermo) {
	fmt.Println(viz.HeaderStyle.Render("estimates"))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "samples\t%d\n", t.Samples)
	fmt.Fprintf(w, "energy/site\t%.6f ± %.6f\n", t.Energy, t.EnergyErr)
	fmt.Fprintf(w, "|m|/site\t%.6f ± %.6f\n", t.Magnetization, t.MagErr)
	fmt.Fprintf(w, "specific heat\t%.6f\n", t.SpecificHeat)
	fmt.Fprintf(w, "susceptibility\t%.6f\n", t.Susceptibility)
	fmt.Fprintf(w, "binder cumulant\t%.6f\n", t.Binder)
	fmt.Fprintf(w, "tau (energy, |m|)\t%.2f, %.2f samples\n", t.TauEnergy, t.TauMag)
	w.Flush()
	fmt.Println(viz.Separator(40))
}

func printMetrics(metrics map[string]float64) {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, metrics[name])
	}
}

// stepProgress draws a progress bar on stderr as production steps finish.
func stepProgress(total int) mc.Observer {
	every := max(total/100, 1)
	done := 0
	return mc.ObserverFunc(func(_, _ int, _ *ising.Model) {
		done++
		if done%every != 0 && done != total {
			return
		}
		fmt.Fprintf(os.Stderr, "\r  %s %d/%d", viz.ProgressBar(float64(done)/float64(total), 30), done, total)
		if done == total {
			fmt.Fprintln(os.Stderr)
		}
	})
}

func writePNG(path string, render func(f *os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
