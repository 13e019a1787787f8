// Package ising implements the 2D Ising spin model on a periodic lattice.
//
// A [Model] composes a [lattice.Lattice] with a coupling constant J and the
// random generator that drives every Monte Carlo step applied to it:
//
//   - J > 0: ferromagnetic, aligned neighbors lower the energy
//   - J < 0: antiferromagnetic, alternating neighbors lower the energy
//
// Observables are recomputed from the lattice on every call:
//
//	m, _ := ising.New(64, 64, 1.0, lattice.Cold, ising.WithSeed(42))
//	e := m.MeanEnergy()        // -2J for a cold lattice
//	mag := m.MeanMagnetization()
//
// # Thread Safety
//
// A Model and its generator belong to one goroutine. Run independent models
// for parallel simulations; the observable reductions parallelize internally
// through the model's [compute.Backend].
package ising
