package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	dataDir string
	verbose bool

	// lattice and dynamics
	rows        int
	cols        int
	coupling    float64
	initMode    string
	seed        int64
	temperature float64
	algorithm   string
	steps       int
	equilibrate int
	lag         int
	backend     string

	// sweep
	sweepFrom     float64
	sweepTo       float64
	sweepPoints   int
	sweepReplicas int
	sweepWorkers  int
	sweepField    string

	configFile string
	preset     string
	annealSpec string

	// output
	pngPath  string
	svgPath  string
	outPath  string
	showPlot bool
	theme    string
	braille  bool
	noSave   bool
	maxSteps int
)

var logger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix:          "ising",
	ReportTimestamp: true,
	TimeFormat:      "15:04:05",
})

func main() {
	rootCmd := &cobra.Command{
		Use:           "ising",
		Short:         "2d ising model monte carlo lab",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logger.SetLevel(log.DebugLevel)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ising", "data directory")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run a simulation and store its series",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addModelFlags(runCmd)
	addDriverFlags(runCmd)
	runCmd.Flags().BoolVar(&showPlot, "plot", false, "plot the recorded series")
	runCmd.Flags().StringVar(&pngPath, "png", "", "write a series chart to this png file")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "estimate observables over a temperature range",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addModelFlags(sweepCmd)
	addDriverFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&sweepFrom, "from", 0, "lowest temperature")
	sweepCmd.Flags().Float64Var(&sweepTo, "to", 0, "highest temperature")
	sweepCmd.Flags().IntVar(&sweepPoints, "points", 0, "number of temperatures")
	sweepCmd.Flags().IntVar(&sweepReplicas, "replicas", 0, "independent runs per temperature")
	sweepCmd.Flags().IntVar(&sweepWorkers, "workers", 0, "concurrent runs (0 = GOMAXPROCS)")
	sweepCmd.Flags().StringVar(&sweepField, "plot", "", "plot one field (magnetization, energy, susceptibility, specific_heat, binder, cluster_size)")
	sweepCmd.Flags().StringVar(&pngPath, "png", "", "write a sweep chart to this png file")
	sweepCmd.Flags().StringVar(&outPath, "json", "", "write sweep points to this json file")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run series",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&pngPath, "png", "", "write a series chart to this png file")
	plotCmd.Flags().StringVar(&svgPath, "svg", "", "write the magnetization series to this svg file")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata and series as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "autocorrelation and error analysis of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "render the lattice after equilibration",
		Args:  cobra.NoArgs,
		RunE:  showLattice,
	}
	addModelFlags(showCmd)
	addDriverFlags(showCmd)
	showCmd.Flags().StringVar(&theme, "theme", "classic", "color theme")
	showCmd.Flags().BoolVar(&braille, "braille", false, "compact braille rendering")
	showCmd.Flags().StringVar(&svgPath, "svg", "", "write the lattice to this svg file")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "animate the lattice in the terminal",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addModelFlags(liveCmd)
	addDriverFlags(liveCmd)
	liveCmd.Flags().StringVar(&theme, "theme", "classic", "color theme")
	liveCmd.Flags().IntVar(&maxSteps, "max-steps", 0, "stop stepping after this many steps (0 = never)")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "benchmark the step algorithms",
		Args:  cobra.NoArgs,
		RunE:  benchAlgorithms,
	}
	addModelFlags(benchCmd)
	addDriverFlags(benchCmd)

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a scripted temperature schedule (yaml or --anneal)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runScenario,
	}
	addModelFlags(scenarioCmd)
	addDriverFlags(scenarioCmd)
	scenarioCmd.Flags().StringVar(&annealSpec, "anneal", "", "cool linearly instead of loading a file: hot:cold:stages")
	scenarioCmd.Flags().BoolVar(&showPlot, "plot", false, "plot recorded stages")

	configCmd := &cobra.Command{
		Use:   "config [path]",
		Short: "write the resolved configuration as yaml",
		Args:  cobra.ExactArgs(1),
		RunE:  writeConfig,
	}
	addModelFlags(configCmd)
	addDriverFlags(configCmd)
	configCmd.Flags().Float64Var(&sweepFrom, "from", 0, "lowest sweep temperature")
	configCmd.Flags().Float64Var(&sweepTo, "to", 0, "highest sweep temperature")
	configCmd.Flags().IntVar(&sweepPoints, "points", 0, "number of sweep temperatures")
	configCmd.Flags().IntVar(&sweepReplicas, "replicas", 0, "independent runs per sweep temperature")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	rootCmd.AddCommand(runCmd, sweepCmd, listCmd, plotCmd, exportCmd, analyzeCmd, showCmd, liveCmd, benchCmd, scenarioCmd, configCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		logger.Error(err)
		os.Exit(1)
	}
}

func addModelFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&rows, "rows", 0, "lattice rows")
	cmd.Flags().IntVar(&cols, "cols", 0, "lattice columns")
	cmd.Flags().Float64VarP(&coupling, "j", "J", 0, "coupling constant (negative for antiferromagnet)")
	cmd.Flags().StringVar(&initMode, "init", "", "initial state: hot or cold")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 = from clock)")
	cmd.Flags().StringVar(&backend, "backend", "", "observable backend: cpu or serial")
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
}

func addDriverFlags(cmd *cobra.Command) {
	cmd.Flags().Float64VarP(&temperature, "temp", "T", 0, "temperature kT")
	cmd.Flags().StringVarP(&algorithm, "algorithm", "a", "", "metropolis or wolff")
	cmd.Flags().IntVar(&steps, "steps", 0, "production steps")
	cmd.Flags().IntVar(&equilibrate, "equilibrate", 0, "unrecorded steps before production")
	cmd.Flags().IntVar(&lag, "lag", 0, "steps between samples")
}
