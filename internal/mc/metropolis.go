package mc

import (
	"math"

	"github.com/san-kum/ising/internal/ising"
)

// Metropolis picks one site uniformly and flips it with the Metropolis
// acceptance rule at temperature kT.
func Metropolis(m *ising.Model, kT float64) {
	metropolis(m, kT)
}

func metropolis(m *ising.Model, kT float64) bool {
	lat := m.Lattice()
	rng := m.Rand()

	i := rng.Intn(lat.Len())
	dE := 2 * m.J() * float64(lat.AtIndex(i)*lat.NeighborSum(i))

	// The uniform draw is only consumed when the move costs energy.
	if dE < 0 || rng.Float64() < math.Exp(-dE/kT) {
		lat.FlipIndex(i)
		return true
	}
	return false
}

type MetropolisStepper struct{}

func NewMetropolis() *MetropolisStepper { return &MetropolisStepper{} }

func (s *MetropolisStepper) Name() string { return "metropolis" }

// Step returns 1 when the proposed flip was accepted, 0 otherwise.
func (s *MetropolisStepper) Step(m *ising.Model, kT float64) int {
	if metropolis(m, kT) {
		return 1
	}
	return 0
}
