package mc

import (
	"math"

	"github.com/san-kum/ising/internal/ising"
)

// WolffStepper grows and flips Wolff clusters. It keeps its visited markers
// and cluster buffer between steps so a run allocates once per lattice size.
// A stepper must not be shared between goroutines.
type WolffStepper struct {
	visited []bool
	cluster []int
}

func NewWolff() *WolffStepper { return &WolffStepper{} }

func (w *WolffStepper) Name() string { return "wolff" }

// Wolff performs one cluster update at temperature kT and returns the number
// of spins flipped.
func Wolff(m *ising.Model, kT float64) int {
	return NewWolff().Step(m, kT)
}

// Step returns the cluster size, which is at least 1.
func (w *WolffStepper) Step(m *ising.Model, kT float64) int {
	lat := m.Lattice()
	rng := m.Rand()
	n := lat.Len()
	j := m.J()

	if len(w.visited) != n {
		w.visited = make([]bool, n)
	}

	pAdd := 1 - math.Exp(-2*math.Abs(j)/kT)

	seed := rng.Intn(n)
	w.visited[seed] = true
	w.cluster = append(w.cluster[:0], seed)

	// cluster doubles as the FIFO frontier: sites before head are expanded.
	for head := 0; head < len(w.cluster); head++ {
		site := w.cluster[head]
		s := lat.AtIndex(site)

		for _, nb := range lat.Neighbors(site) {
			if w.visited[nb] {
				continue
			}
			ns := lat.AtIndex(nb)
			if (j > 0 && ns == s) || (j < 0 && ns == -s) {
				if rng.Float64() < pAdd {
					w.visited[nb] = true
					w.cluster = append(w.cluster, nb)
				}
			}
		}
	}

	lat.FlipAll(w.cluster)

	for _, i := range w.cluster {
		w.visited[i] = false
	}
	return len(w.cluster)
}

// Cluster returns the sites flipped by the most recent Step. The slice is
// reused by the next Step.
func (w *WolffStepper) Cluster() []int {
	return w.cluster
}
