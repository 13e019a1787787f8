// Package lattice provides the periodic spin grid underlying the Ising model.
//
// A [Lattice] stores rows*cols spins in row-major order. Every stored value
// is +1 or -1 for the lifetime of the lattice, and the dimensions never
// change after [New].
//
// The grid is a torus: neighbor lookups wrap with (c ± 1 + n) % n, so the
// "up" neighbor of row 0 is row rows-1 and the "left" neighbor of column 0
// is column cols-1.
//
// # Addressing
//
//	i := l.Index(row, col)   // row*cols + col
//	row, col = l.Coords(i)
//	nb := l.Neighbors(i)     // right, down, left, up
//
// # Thread Safety
//
// A Lattice is NOT safe for concurrent mutation. Concurrent reads are fine
// as long as no flip runs at the same time.
package lattice
