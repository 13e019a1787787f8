package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/ising/internal/automation"
	"github.com/san-kum/ising/internal/config"
	"github.com/san-kum/ising/internal/lattice"
)

// resolveConfig layers defaults, preset, config file and explicitly set
// flags, in that order.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.DefaultConfig()
	source := "defaults"

	if preset != "" {
		p := config.GetPreset(preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		cfg = p
		source = "preset " + preset
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		source = configFile
	}

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}

	logger.Debug("resolved config", "source", source,
		"lattice", fmt.Sprintf("%dx%d", cfg.Rows, cfg.Cols), "j", cfg.J, "init", cfg.Init,
		"T", cfg.Temperature, "algorithm", cfg.Algorithm, "steps", cfg.Steps,
		"equilibrate", cfg.Equilibrate, "lag", cfg.Lag, "seed", cfg.Seed, "backend", cfg.Backend)
	return cfg, nil
}

func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	changed := cmd.Flags().Changed

	if changed("rows") {
		cfg.Rows = rows
	}
	if changed("cols") {
		cfg.Cols = cols
	}
	if changed("j") {
		cfg.J = coupling
	}
	if changed("init") {
		mode, err := lattice.ParseInitMode(initMode)
		if err != nil {
			return err
		}
		cfg.Init = mode
	}
	if changed("seed") {
		cfg.Seed = seed
	}
	if changed("backend") {
		cfg.Backend = backend
	}
	if changed("temp") {
		cfg.Temperature = temperature
	}
	if changed("algorithm") {
		cfg.Algorithm = algorithm
	}
	if changed("steps") {
		cfg.Steps = steps
	}
	if changed("equilibrate") {
		cfg.Equilibrate = equilibrate
	}
	if changed("lag") {
		cfg.Lag = lag
	}
	if changed("from") {
		cfg.Sweep.From = sweepFrom
	}
	if changed("to") {
		cfg.Sweep.To = sweepTo
	}
	if changed("points") {
		cfg.Sweep.Points = sweepPoints
	}
	if changed("replicas") {
		cfg.Sweep.Replicas = sweepReplicas
	}
	return nil
}

// parseAnneal reads a "hot:cold:stages" schedule.
func parseAnneal(spec string) (hot, cold float64, stages int, err error) {
	parts := strings.Split(spec, ":")
	if len(parts) != 3 {
		return 0, 0, 0, fmt.Errorf("anneal %q: want hot:cold:stages", spec)
	}
	if hot, err = strconv.ParseFloat(parts[0], 64); err != nil {
		return 0, 0, 0, fmt.Errorf("anneal %q: hot temperature: %w", spec, err)
	}
	if cold, err = strconv.ParseFloat(parts[1], 64); err != nil {
		return 0, 0, 0, fmt.Errorf("anneal %q: cold temperature: %w", spec, err)
	}
	if stages, err = strconv.Atoi(parts[2]); err != nil {
		return 0, 0, 0, fmt.Errorf("anneal %q: stages: %w", spec, err)
	}
	if hot <= 0 || cold <= 0 || stages < 1 {
		return 0, 0, 0, fmt.Errorf("anneal %q: temperatures must be positive and stages at least 1", spec)
	}
	return hot, cold, stages, nil
}

// resolveScenario loads the scenario file in args, or builds an anneal
// from --anneal and the resolved model flags.
func resolveScenario(cmd *cobra.Command, args []string) (*automation.Scenario, error) {
	if annealSpec == "" {
		if len(args) != 1 {
			return nil, fmt.Errorf("scenario needs a file or --anneal")
		}
		return automation.LoadScenario(args[0])
	}
	if len(args) != 0 {
		return nil, fmt.Errorf("--anneal does not take a scenario file")
	}

	hot, cold, stages, err := parseAnneal(annealSpec)
	if err != nil {
		return nil, err
	}
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	sc := automation.Anneal(cfg.Rows, cfg.Cols, hot, cold, stages, cfg.Steps, cfg.Algorithm)
	sc.J = cfg.J
	sc.Init = cfg.Init
	sc.Seed = cfg.Seed
	sc.Backend = cfg.Backend
	sc.Stages[len(sc.Stages)-1].Lag = cfg.Lag
	return sc, nil
}
