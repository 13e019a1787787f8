package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/ising/internal/compute"
	"github.com/san-kum/ising/internal/experiment"
	"github.com/san-kum/ising/internal/lattice"
	"github.com/san-kum/ising/internal/mc"
)

const (
	DefaultSize        = 32
	DefaultJ           = 1.0
	DefaultTemperature = 2.269
	DefaultSteps       = 10000
	DefaultEquilibrate = 1000
	DefaultLag         = 10
	DefaultSweepFrom   = 1.5
	DefaultSweepTo     = 3.5
	DefaultSweepPoints = 11
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("config: invalid")

type Config struct {
	Rows        int              `yaml:"rows"`
	Cols        int              `yaml:"cols"`
	J           float64          `yaml:"j"`
	Init        lattice.InitMode `yaml:"init"`
	Seed        int64            `yaml:"seed"`
	Backend     string           `yaml:"backend"`
	Temperature float64          `yaml:"temperature"`
	Algorithm   string           `yaml:"algorithm"`
	Steps       int              `yaml:"steps"`
	Equilibrate int              `yaml:"equilibrate"`
	Lag         int              `yaml:"lag"`
	Sweep       SweepConfig      `yaml:"sweep"`
}

type SweepConfig struct {
	From     float64 `yaml:"from"`
	To       float64 `yaml:"to"`
	Points   int     `yaml:"points"`
	Replicas int     `yaml:"replicas"`
}

func DefaultConfig() *Config {
	return &Config{
		Rows:        DefaultSize,
		Cols:        DefaultSize,
		J:           DefaultJ,
		Init:        lattice.Hot,
		Backend:     "cpu",
		Temperature: DefaultTemperature,
		Algorithm:   mc.AlgorithmWolff,
		Steps:       DefaultSteps,
		Equilibrate: DefaultEquilibrate,
		Lag:         DefaultLag,
		Sweep: SweepConfig{
			From:     DefaultSweepFrom,
			To:       DefaultSweepTo,
			Points:   DefaultSweepPoints,
			Replicas: 1,
		},
	}
}

// Load reads a YAML file on top of DefaultConfig, so omitted keys keep their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case c.Rows <= 0 || c.Cols <= 0:
		return fmt.Errorf("%w: lattice %dx%d", ErrInvalid, c.Rows, c.Cols)
	case c.Temperature <= 0:
		return fmt.Errorf("%w: temperature %g must be positive", ErrInvalid, c.Temperature)
	case c.Steps < 0 || c.Equilibrate < 0:
		return fmt.Errorf("%w: steps %d, equilibrate %d", ErrInvalid, c.Steps, c.Equilibrate)
	case c.Lag < 1:
		return fmt.Errorf("%w: lag %d must be at least 1", ErrInvalid, c.Lag)
	}

	if _, err := mc.NewRegistry().Get(c.Algorithm); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if _, err := compute.ByName(c.Backend); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

// ValidateSweep checks the sweep section on top of Validate.
func (c *Config) ValidateSweep() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Steps < 1 {
		return fmt.Errorf("%w: a sweep needs at least one production step", ErrInvalid)
	}
	s := c.Sweep
	if s.Points < 1 || s.Replicas < 1 {
		return fmt.Errorf("%w: sweep points %d, replicas %d", ErrInvalid, s.Points, s.Replicas)
	}
	if s.From <= 0 || s.To <= 0 {
		return fmt.Errorf("%w: sweep range %g..%g must be positive", ErrInvalid, s.From, s.To)
	}
	return nil
}

// Experiment maps the file layout onto a single-run configuration.
func (c *Config) Experiment() experiment.Config {
	return experiment.Config{
		Rows:        c.Rows,
		Cols:        c.Cols,
		J:           c.J,
		Init:        c.Init,
		Seed:        c.Seed,
		Backend:     c.Backend,
		Temperature: c.Temperature,
		Algorithm:   c.Algorithm,
		Equilibrate: c.Equilibrate,
		Steps:       c.Steps,
		Lag:         c.Lag,
	}
}
