package mc

import (
	"fmt"
	"sort"

	"github.com/san-kum/ising/internal/ising"
)

// Stepper is one Monte Carlo state transition. Step mutates the model in
// place and returns the number of spins it flipped.
type Stepper interface {
	Name() string
	Step(m *ising.Model, kT float64) int
}

const (
	AlgorithmMetropolis = "metropolis"
	AlgorithmWolff      = "wolff"
)

type Registry struct {
	steppers map[string]func() Stepper
}

func NewRegistry() *Registry {
	r := &Registry{steppers: make(map[string]func() Stepper)}

	r.steppers[AlgorithmMetropolis] = func() Stepper { return NewMetropolis() }
	r.steppers[AlgorithmWolff] = func() Stepper { return NewWolff() }

	return r
}

// Register adds or replaces an algorithm.
func (r *Registry) Register(name string, fn func() Stepper) {
	r.steppers[name] = fn
}

// Get builds a fresh stepper for name.
func (r *Registry) Get(name string) (Stepper, error) {
	fn, ok := r.steppers[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrUnknownAlgorithm, name, r.Names())
	}
	return fn(), nil
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.steppers))
	for name := range r.steppers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var defaultRegistry = NewRegistry()

// Algorithms lists the names Run accepts.
func Algorithms() []string {
	return defaultRegistry.Names()
}
