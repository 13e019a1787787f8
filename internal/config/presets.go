package config

import (
	"sort"

	"github.com/san-kum/ising/internal/lattice"
)

var Presets = map[string]*Config{
	"ferro-critical": {
		Rows: 64, Cols: 64, J: 1, Init: lattice.Hot, Backend: "cpu",
		Temperature: 2.269, Algorithm: "wolff", Steps: 20000, Equilibrate: 2000, Lag: 10,
		Sweep: SweepConfig{From: 2.0, To: 2.6, Points: 13, Replicas: 2},
	},
	"ferro-cold": {
		Rows: 32, Cols: 32, J: 1, Init: lattice.Cold, Backend: "cpu",
		Temperature: 1.5, Algorithm: "metropolis", Steps: 200000, Equilibrate: 10000, Lag: 1024,
		Sweep: SweepConfig{From: 1.0, To: 2.0, Points: 6, Replicas: 1},
	},
	"quench": {
		Rows: 64, Cols: 64, J: 1, Init: lattice.Hot, Backend: "cpu",
		Temperature: 1.0, Algorithm: "metropolis", Steps: 400000, Equilibrate: 0, Lag: 4096,
		Sweep: SweepConfig{From: 0.5, To: 1.5, Points: 5, Replicas: 1},
	},
	"antiferro": {
		Rows: 32, Cols: 32, J: -1, Init: lattice.Hot, Backend: "cpu",
		Temperature: 2.0, Algorithm: "wolff", Steps: 10000, Equilibrate: 1000, Lag: 10,
		Sweep: SweepConfig{From: 1.5, To: 3.5, Points: 11, Replicas: 1},
	},
	"paramagnet": {
		Rows: 32, Cols: 32, J: 1, Init: lattice.Cold, Backend: "cpu",
		Temperature: 5.0, Algorithm: "metropolis", Steps: 200000, Equilibrate: 20000, Lag: 1024,
		Sweep: SweepConfig{From: 3.0, To: 6.0, Points: 7, Replicas: 1},
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
