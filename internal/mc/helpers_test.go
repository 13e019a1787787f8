package mc

import (
	"testing"

	"github.com/san-kum/ising/internal/compute"
	"github.com/san-kum/ising/internal/ising"
	"github.com/san-kum/ising/internal/lattice"
)

func newModel(t testing.TB, rows, cols int, j float64, mode lattice.InitMode, seed int64) *ising.Model {
	t.Helper()
	m, err := ising.New(rows, cols, j, mode, ising.WithSeed(seed), ising.WithBackend(compute.Serial{}))
	if err != nil {
		t.Fatalf("ising.New: %v", err)
	}
	return m
}

func checkBinary(t *testing.T, m *ising.Model) {
	t.Helper()
	lat := m.Lattice()
	for i := 0; i < lat.Len(); i++ {
		if s := lat.AtIndex(i); s != 1 && s != -1 {
			t.Fatalf("site %d holds %d", i, s)
		}
	}
}

// neelOrder flips every odd-parity site of a cold lattice.
func neelOrder(m *ising.Model) {
	lat := m.Lattice()
	for i := 0; i < lat.Len(); i++ {
		r, c := lat.Coords(i)
		if (r+c)%2 != 0 {
			lat.FlipIndex(i)
		}
	}
}
