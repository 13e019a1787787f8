package compute

import (
	"errors"
	"fmt"
)

// ErrUnknownBackend indicates a backend name that ByName does not recognize.
var ErrUnknownBackend = errors.New("compute: unknown backend")

// Backend reduces a per-range partial sum over the index space [0, n).
// term must only read shared state; it is called concurrently by parallel
// backends with disjoint ranges.
type Backend interface {
	Name() string
	Sum(n int, term func(start, end int) float64) float64
}

var defaultBackend Backend = NewCPUBackend()

// Default returns the backend used by models that do not choose one.
func Default() Backend {
	return defaultBackend
}

// ByName resolves a backend from its configuration name.
func ByName(name string) (Backend, error) {
	switch name {
	case "", "cpu":
		return NewCPUBackend(), nil
	case "serial":
		return Serial{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (use serial or cpu)", ErrUnknownBackend, name)
	}
}

// Serial runs every reduction on the calling goroutine.
type Serial struct{}

func (Serial) Name() string { return "serial" }

func (Serial) Sum(n int, term func(start, end int) float64) float64 {
	if n <= 0 {
		return 0
	}
	return term(0, n)
}
