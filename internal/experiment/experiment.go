package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/ising/internal/compute"
	"github.com/san-kum/ising/internal/ising"
	"github.com/san-kum/ising/internal/lattice"
	"github.com/san-kum/ising/internal/mc"
	"github.com/san-kum/ising/internal/metrics"
)

// chunkTarget bounds the steps run between context checks.
const chunkTarget = 10000

type Config struct {
	Rows        int
	Cols        int
	J           float64
	Init        lattice.InitMode
	Seed        int64 // 0 seeds from the clock
	Backend     string
	Temperature float64
	Algorithm   string
	Equilibrate int
	Steps       int
	Lag         int
}

type Result struct {
	Config          Config
	Seed            int64
	Energies        []float64
	Magnetizations  []float64
	MeanClusterSize int
	Metrics         map[string]float64
	Elapsed         time.Duration
	Model           *ising.Model
}

type Experiment struct {
	cfg       Config
	model     *ising.Model
	metrics   []metrics.Metric
	observers []mc.Observer
}

func New(cfg Config) (*Experiment, error) {
	backend, err := compute.ByName(cfg.Backend)
	if err != nil {
		return nil, err
	}

	opts := []ising.Option{ising.WithBackend(backend)}
	if cfg.Seed != 0 {
		opts = append(opts, ising.WithSeed(cfg.Seed))
	}

	model, err := ising.New(cfg.Rows, cfg.Cols, cfg.J, cfg.Init, opts...)
	if err != nil {
		return nil, err
	}

	return &Experiment{
		cfg:     cfg,
		model:   model,
		metrics: metrics.Defaults(),
	}, nil
}

func (e *Experiment) Model() *ising.Model { return e.model }

// AddObserver registers an observer for production steps.
func (e *Experiment) AddObserver(o mc.Observer) { e.observers = append(e.observers, o) }

// Run equilibrates for cfg.Equilibrate unrecorded steps, then records
// cfg.Steps production steps sampled every cfg.Lag steps.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	if e.cfg.Equilibrate < 0 {
		return nil, &mc.ConfigError{Field: "Equilibrate", Value: e.cfg.Equilibrate}
	}

	start := time.Now()
	for _, m := range e.metrics {
		m.Reset()
	}

	base := mc.Config{
		Temperature: e.cfg.Temperature,
		Algorithm:   e.cfg.Algorithm,
		Lag:         e.cfg.Lag,
	}

	// Validate once up front so a bad config fails before equilibration.
	dry := base
	dry.Steps = 0
	if _, err := mc.Run(e.model, dry); err != nil {
		return nil, err
	}

	if err := e.advance(ctx, base, e.cfg.Equilibrate); err != nil {
		return nil, err
	}

	result := &Result{
		Config:         e.cfg,
		Seed:           e.model.Seed(),
		Energies:       make([]float64, 0, mc.SampleCount(e.cfg.Steps, e.cfg.Lag)),
		Magnetizations: make([]float64, 0, mc.SampleCount(e.cfg.Steps, e.cfg.Lag)),
		Model:          e.model,
	}

	totalFlipped := 0
	observers := append([]mc.Observer{mc.ObserverFunc(func(step, flipped int, _ *ising.Model) {
		totalFlipped += flipped
		for _, m := range e.metrics {
			m.Observe(metrics.Sample{Step: step, Flipped: flipped})
		}
	})}, e.observers...)

	chunk := chunkSize(e.cfg.Lag)
	for done := 0; done < e.cfg.Steps; done += chunk {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		n := min(chunk, e.cfg.Steps-done)
		cfg := base
		cfg.Steps = n
		cfg.Record = true

		out, err := mc.RunObserved(e.model, cfg, observers...)
		if err != nil {
			return result, err
		}
		rec := out.(mc.Recorded)

		for k := range rec.Energies {
			sample := metrics.Sample{
				Step:          done + k*e.cfg.Lag,
				Sampled:       true,
				Energy:        rec.Energies[k],
				Magnetization: rec.Magnetizations[k],
			}
			for _, m := range e.metrics {
				m.Observe(sample)
			}
		}

		result.Energies = append(result.Energies, rec.Energies...)
		result.Magnetizations = append(result.Magnetizations, rec.Magnetizations...)
	}

	if e.cfg.Algorithm == mc.AlgorithmWolff && e.cfg.Steps > 0 {
		result.MeanClusterSize = totalFlipped / e.cfg.Steps
	}
	result.Metrics = metrics.Collect(e.metrics)
	result.Elapsed = time.Since(start)

	return result, nil
}

// advance runs unrecorded steps in cancellable chunks.
func (e *Experiment) advance(ctx context.Context, base mc.Config, steps int) error {
	chunk := chunkSize(base.Lag)
	for done := 0; done < steps; done += chunk {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("equilibration interrupted after %d steps: %w", done, err)
		}
		cfg := base
		cfg.Steps = min(chunk, steps-done)
		if _, err := mc.Run(e.model, cfg); err != nil {
			return err
		}
	}
	return nil
}

// chunkSize is a multiple of lag so sample positions line up across chunks.
func chunkSize(lag int) int {
	if lag < 1 {
		lag = 1
	}
	if lag >= chunkTarget {
		return lag
	}
	return (chunkTarget / lag) * lag
}
