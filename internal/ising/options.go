package ising

import (
	"math/rand"
	"time"

	"github.com/san-kum/ising/internal/compute"
)

type options struct {
	seed    int64
	seeded  bool
	backend compute.Backend
}

// Option configures a Model at construction.
type Option func(*options)

// WithSeed makes the model's generator, and therefore its initial state and
// every step applied to it, deterministic.
func WithSeed(seed int64) Option {
	return func(o *options) {
		o.seed = seed
		o.seeded = true
	}
}

// WithBackend selects the reduction backend for observables.
func WithBackend(b compute.Backend) Option {
	return func(o *options) {
		if b != nil {
			o.backend = b
		}
	}
}

func resolve(opts []Option) options {
	o := options{backend: compute.Default()}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.seeded {
		o.seed = time.Now().UnixNano()
	}
	return o
}

func newRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}
