package ising

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/san-kum/ising/internal/compute"
	"github.com/san-kum/ising/internal/lattice"
)

type Model struct {
	lat     *lattice.Lattice
	j       float64
	rng     *rand.Rand
	seed    int64
	backend compute.Backend
}

// New builds a rows x cols model with coupling j. Without WithSeed the
// generator is seeded from the clock; Seed reports the value either way.
func New(rows, cols int, j float64, mode lattice.InitMode, opts ...Option) (*Model, error) {
	if math.IsNaN(j) || math.IsInf(j, 0) {
		return nil, fmt.Errorf("%w: got %v", ErrCoupling, j)
	}

	o := resolve(opts)
	rng := newRand(o.seed)

	lat, err := lattice.New(rows, cols, mode, rng)
	if err != nil {
		return nil, err
	}

	return &Model{
		lat:     lat,
		j:       j,
		rng:     rng,
		seed:    o.seed,
		backend: o.backend,
	}, nil
}

func (m *Model) Dims() (rows, cols int) { return m.lat.Rows(), m.lat.Cols() }
func (m *Model) Sites() int             { return m.lat.Len() }
func (m *Model) J() float64             { return m.j }
func (m *Model) Seed() int64            { return m.seed }

// Lattice exposes the spin grid for the flip algorithms.
func (m *Model) Lattice() *lattice.Lattice { return m.lat }

// Rand is the model's own generator. Steps must draw from it, and only from
// the goroutine driving the model.
func (m *Model) Rand() *rand.Rand { return m.rng }

func (m *Model) Backend() compute.Backend { return m.backend }

// Ferromagnetic reports whether J > 0.
func (m *Model) Ferromagnetic() bool { return m.j > 0 }

// Spin reads one site, reporting ErrOutOfRange instead of panicking.
func (m *Model) Spin(row, col int) (int, error) {
	rows, cols := m.Dims()
	if row < 0 || row >= rows || col < 0 || col >= cols {
		return 0, fmt.Errorf("%w: (%d, %d) in %dx%d", ErrOutOfRange, row, col, rows, cols)
	}
	return m.lat.At(row, col), nil
}

// Grid copies the full spin configuration, row by row.
func (m *Model) Grid() [][]int {
	return m.lat.Snapshot()
}

// FlipAll inverts every spin.
func (m *Model) FlipAll() {
	for i := 0; i < m.lat.Len(); i++ {
		m.lat.FlipIndex(i)
	}
}

func (m *Model) String() string {
	return fmt.Sprintf("mean energy: %g\nmean magnetization: %g\n%s",
		m.MeanEnergy(), m.MeanMagnetization(), m.lat)
}
