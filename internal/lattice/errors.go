package lattice

import "errors"

var (
	// ErrDimensions indicates a non-positive row or column count.
	ErrDimensions = errors.New("lattice: rows and cols must be positive")

	// ErrInitMode indicates an unrecognized initialization mode.
	ErrInitMode = errors.New("lattice: unknown init mode")

	// ErrNilRand indicates a randomized initialization without a generator.
	ErrNilRand = errors.New("lattice: hot init requires a random source")
)
