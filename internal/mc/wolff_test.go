package mc

import (
	"testing"

	"github.com/san-kum/ising/internal/lattice"
)

func TestWolff_ClusterContainsSeedWithoutDuplicates(t *testing.T) {
	m := newModel(t, 16, 16, 1, lattice.Hot, 31)
	w := NewWolff()

	for step := 0; step < 300; step++ {
		before := m.Lattice().Clone()
		size := w.Step(m, 2.269)
		cluster := w.Cluster()

		if size < 1 || size != len(cluster) {
			t.Fatalf("step %d: size %d, cluster len %d", step, size, len(cluster))
		}

		seen := make(map[int]bool, len(cluster))
		for _, site := range cluster {
			if seen[site] {
				t.Fatalf("step %d: site %d appears twice", step, site)
			}
			seen[site] = true
		}

		// Every listed site flipped and nothing else did.
		lat := m.Lattice()
		for i := 0; i < lat.Len(); i++ {
			changed := before.AtIndex(i) != lat.AtIndex(i)
			if changed != seen[i] {
				t.Fatalf("step %d: site %d changed=%v in cluster=%v", step, i, changed, seen[i])
			}
		}
	}
	checkBinary(t, m)
}

func TestWolff_FerroClusterIsUniform(t *testing.T) {
	m := newModel(t, 12, 12, 1, lattice.Hot, 8)
	w := NewWolff()

	for step := 0; step < 200; step++ {
		w.Step(m, 2.0)
		lat := m.Lattice()
		cluster := w.Cluster()
		want := lat.AtIndex(cluster[0])
		for _, site := range cluster {
			if lat.AtIndex(site) != want {
				t.Fatalf("step %d: mixed spins in ferromagnetic cluster", step)
			}
		}
	}
}

func TestWolff_LowTemperatureFlipsWholeLattice(t *testing.T) {
	tests := []struct {
		name string
		j    float64
		neel bool
	}{
		{"ferro", 1, false},
		{"antiferro", -1, true},
		{"weak ferro", 0.25, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newModel(t, 7, 9, tt.j, lattice.Cold, 3)
			if tt.neel {
				neelOrder(m)
			}
			before := m.Lattice().Clone()

			size := Wolff(m, 1e-9)
			if size != m.Sites() {
				t.Fatalf("cluster size %d, want %d", size, m.Sites())
			}

			for i := 0; i < before.Len(); i++ {
				if before.AtIndex(i) != -m.Lattice().AtIndex(i) {
					t.Fatalf("site %d not inverted", i)
				}
			}
		})
	}
}

func TestWolff_ZeroCouplingFlipsSeedOnly(t *testing.T) {
	m := newModel(t, 5, 5, 0, lattice.Cold, 12)
	for i := 0; i < 50; i++ {
		if size := Wolff(m, 1.0); size != 1 {
			t.Fatalf("J=0 cluster size %d, want 1", size)
		}
	}
}

func TestWolff_HighTemperatureClustersAreSmall(t *testing.T) {
	m := newModel(t, 20, 20, 1, lattice.Cold, 77)
	w := NewWolff()

	total := 0
	const steps = 200
	for i := 0; i < steps; i++ {
		total += w.Step(m, 1e9)
	}
	if total != steps {
		t.Errorf("mean cluster size %.2f at kT=1e9, want 1", float64(total)/steps)
	}
}

func TestWolff_StepperReusesBuffersAcrossSizes(t *testing.T) {
	w := NewWolff()
	small := newModel(t, 3, 3, 1, lattice.Cold, 1)
	large := newModel(t, 10, 10, 1, lattice.Cold, 1)

	if got := w.Step(small, 1e-9); got != 9 {
		t.Fatalf("small lattice cluster %d, want 9", got)
	}
	if got := w.Step(large, 1e-9); got != 100 {
		t.Fatalf("large lattice cluster %d, want 100", got)
	}
	if got := w.Step(large, 1e-9); got != 100 {
		t.Fatalf("visited markers not cleared: cluster %d", got)
	}
}

func TestWolff_Deterministic(t *testing.T) {
	a := newModel(t, 16, 16, -1, lattice.Hot, 5)
	b := newModel(t, 16, 16, -1, lattice.Hot, 5)
	wa, wb := NewWolff(), NewWolff()

	for i := 0; i < 500; i++ {
		if wa.Step(a, 1.5) != wb.Step(b, 1.5) {
			t.Fatalf("step %d: cluster sizes diverged", i)
		}
	}
	if !a.Lattice().Equal(b.Lattice()) {
		t.Error("identically seeded runs diverged")
	}
}
