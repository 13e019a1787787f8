package experiment

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
)

// RunError reports which replica of an ensemble failed.
type RunError struct {
	Replica int
	Seed    int64
	Err     error
}

func (e *RunError) Error() string {
	return fmt.Sprintf("replica %d (seed %d): %v", e.Replica, e.Seed, e.Err)
}

func (e *RunError) Unwrap() error { return e.Err }

// Ensemble runs independent replicas of one configuration, each with its
// own model and generator seeded from a common base.
type Ensemble struct {
	cfg      Config
	replicas int
	limit    int
	onResult func(replica int, res *Result)
}

func NewEnsemble(cfg Config, replicas int) *Ensemble {
	return &Ensemble{cfg: cfg, replicas: replicas, limit: runtime.GOMAXPROCS(0)}
}

// SetLimit caps the number of replicas running at once.
func (e *Ensemble) SetLimit(n int) {
	if n > 0 {
		e.limit = n
	}
}

// OnResult registers fn to be called as each replica finishes. Calls come
// from the worker goroutines and may overlap.
func (e *Ensemble) OnResult(fn func(replica int, res *Result)) {
	e.onResult = fn
}

// Seeds returns the seed each replica uses. A zero base seed is replaced by
// the clock once, so replicas stay distinct and reproducible from Seeds.
func (e *Ensemble) Seeds() []int64 {
	base := e.cfg.Seed
	if base == 0 {
		base = time.Now().UnixNano()
		e.cfg.Seed = base
	}
	seeds := make([]int64, e.replicas)
	for i := range seeds {
		seeds[i] = DeriveSeed(base, uint64(i))
	}
	return seeds
}

func (e *Ensemble) Run(ctx context.Context) ([]*Result, error) {
	seeds := e.Seeds()
	results := make([]*Result, e.replicas)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.limit)

	for i, seed := range seeds {
		g.Go(func() error {
			cfg := e.cfg
			cfg.Seed = seed

			exp, err := New(cfg)
			if err != nil {
				return &RunError{Replica: i, Seed: seed, Err: err}
			}
			res, err := exp.Run(ctx)
			if err != nil {
				return &RunError{Replica: i, Seed: seed, Err: err}
			}
			results[i] = res
			if e.onResult != nil {
				e.onResult(i, res)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// DeriveSeed mixes a base seed and a stream index with the SplitMix64
// finalizer. The result is never zero, since zero means "seed from clock".
func DeriveSeed(base int64, stream uint64) int64 {
	x := uint64(base) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	if x == 0 {
		x = 1
	}
	return int64(x)
}
