package mc

import (
	"math"

	"github.com/san-kum/ising/internal/ising"
)

type Config struct {
	Temperature float64
	Steps       int
	Algorithm   string
	Record      bool
	Lag         int
}

func DefaultConfig() Config {
	return Config{
		Temperature: 2.269,
		Steps:       1000,
		Algorithm:   AlgorithmMetropolis,
		Lag:         1,
	}
}

// Outcome is either Recorded or NotRecorded.
type Outcome interface {
	outcome()
}

// Recorded holds one sample per step whose 0-based index is a multiple of
// Lag. MeanClusterSize is the truncated mean Wolff cluster size over all
// steps and 0 for Metropolis.
type Recorded struct {
	Energies        []float64
	Magnetizations  []float64
	MeanClusterSize int
}

// NotRecorded is returned when Config.Record is false.
type NotRecorded struct{}

func (Recorded) outcome()    {}
func (NotRecorded) outcome() {}

// Samples is the number of entries each series holds.
func (r Recorded) Samples() int { return len(r.Energies) }

// Observer is called after every step with the step index and the number of
// spins that step flipped.
type Observer interface {
	OnStep(step, flipped int, m *ising.Model)
}

type ObserverFunc func(step, flipped int, m *ising.Model)

func (f ObserverFunc) OnStep(step, flipped int, m *ising.Model) { f(step, flipped, m) }

// Run executes cfg.Steps steps of cfg.Algorithm on m using the default
// registry. The configuration is validated before the model is touched.
func Run(m *ising.Model, cfg Config) (Outcome, error) {
	return defaultRegistry.Run(m, cfg)
}

// RunObserved is Run with per-step observers.
func RunObserved(m *ising.Model, cfg Config, observers ...Observer) (Outcome, error) {
	return defaultRegistry.Run(m, cfg, observers...)
}

func (r *Registry) Run(m *ising.Model, cfg Config, observers ...Observer) (Outcome, error) {
	if m == nil {
		return nil, ErrNilModel
	}
	stepper, err := r.Get(cfg.Algorithm)
	if err != nil {
		return nil, err
	}
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	var energies, mags []float64
	if cfg.Record {
		samples := SampleCount(cfg.Steps, cfg.Lag)
		energies = make([]float64, 0, samples)
		mags = make([]float64, 0, samples)
	}

	kT := cfg.Temperature
	totalFlipped := 0

	for step := 0; step < cfg.Steps; step++ {
		flipped := stepper.Step(m, kT)
		totalFlipped += flipped

		for _, obs := range observers {
			obs.OnStep(step, flipped, m)
		}

		if cfg.Record && step%cfg.Lag == 0 {
			energies = append(energies, m.MeanEnergy())
			mags = append(mags, m.MeanMagnetization())
		}
	}

	if !cfg.Record {
		return NotRecorded{}, nil
	}

	meanCluster := 0
	if cfg.Algorithm == AlgorithmWolff && cfg.Steps > 0 {
		meanCluster = totalFlipped / cfg.Steps
	}

	return Recorded{
		Energies:        energies,
		Magnetizations:  mags,
		MeanClusterSize: meanCluster,
	}, nil
}

// SampleCount is the number of samples a recorded run of steps produces at
// the given lag: one for each of steps 0, lag, 2*lag, ... below steps.
func SampleCount(steps, lag int) int {
	if steps <= 0 || lag < 1 {
		return 0
	}
	return (steps + lag - 1) / lag
}

func validateConfig(cfg Config) error {
	if math.IsNaN(cfg.Temperature) || cfg.Temperature <= 0 {
		return &ConfigError{Field: "Temperature", Value: cfg.Temperature}
	}
	if cfg.Steps < 0 {
		return &ConfigError{Field: "Steps", Value: cfg.Steps}
	}
	if cfg.Lag < 1 {
		return &ConfigError{Field: "Lag", Value: cfg.Lag}
	}
	return nil
}
