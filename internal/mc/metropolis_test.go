package mc

import (
	"testing"

	"github.com/san-kum/ising/internal/ising"
	"github.com/san-kum/ising/internal/lattice"
)

func TestMetropolis_StaysBinary(t *testing.T) {
	m := newModel(t, 12, 9, 1, lattice.Hot, 1)
	for i := 0; i < 20000; i++ {
		Metropolis(m, 2.0)
	}
	checkBinary(t, m)
}

func TestMetropolis_GroundStateIsStableAtLowT(t *testing.T) {
	tests := []struct {
		name  string
		j     float64
		setup func(m *ising.Model)
	}{
		{"ferro cold", 1, nil},
		{"antiferro neel", -1, neelOrder},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel(t, 8, 8, tt.j, lattice.Cold, 5)
			if tt.setup != nil {
				tt.setup(m)
			}
			before := m.Lattice().Clone()

			for i := 0; i < 5000; i++ {
				Metropolis(m, 1e-9)
			}

			if !m.Lattice().Equal(before) {
				t.Error("ground state changed at vanishing temperature")
			}
		})
	}
}

func TestMetropolis_EnergyNeverRisesAtLowT(t *testing.T) {
	m := newModel(t, 10, 10, 1, lattice.Hot, 17)
	prev := m.MeanEnergy()

	for i := 0; i < 3000; i++ {
		Metropolis(m, 1e-9)
		e := m.MeanEnergy()
		if e > prev+1e-12 {
			t.Fatalf("step %d: energy rose from %v to %v", i, prev, e)
		}
		prev = e
	}
}

func TestMetropolis_FlipsAtMostOneSite(t *testing.T) {
	m := newModel(t, 6, 6, 1, lattice.Hot, 2)
	s := NewMetropolis()

	for i := 0; i < 500; i++ {
		before := m.Lattice().Clone()
		flipped := s.Step(m, 2.5)

		changed := 0
		for k := 0; k < before.Len(); k++ {
			if before.AtIndex(k) != m.Lattice().AtIndex(k) {
				changed++
			}
		}
		if changed != flipped || changed > 1 {
			t.Fatalf("step %d: reported %d flips, lattice changed at %d sites", i, flipped, changed)
		}
	}
}

func TestMetropolis_Deterministic(t *testing.T) {
	a := newModel(t, 16, 16, 1, lattice.Hot, 2024)
	b := newModel(t, 16, 16, 1, lattice.Hot, 2024)

	for i := 0; i < 10000; i++ {
		Metropolis(a, 2.3)
		Metropolis(b, 2.3)
	}

	if !a.Lattice().Equal(b.Lattice()) {
		t.Error("identically seeded runs diverged")
	}
}

func TestMetropolis_HighTemperatureAcceptsMost(t *testing.T) {
	m := newModel(t, 8, 8, 1, lattice.Cold, 9)
	s := NewMetropolis()

	accepted := 0
	const steps = 4000
	for i := 0; i < steps; i++ {
		accepted += s.Step(m, 1e6)
	}
	if accepted < steps*9/10 {
		t.Errorf("accepted %d of %d at kT=1e6", accepted, steps)
	}
}
