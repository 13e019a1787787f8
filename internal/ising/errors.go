package ising

import "errors"

var (
	// ErrOutOfRange indicates a site coordinate outside the lattice.
	ErrOutOfRange = errors.New("ising: site out of range")

	// ErrCoupling indicates a NaN or infinite coupling constant.
	ErrCoupling = errors.New("ising: coupling must be finite")
)
