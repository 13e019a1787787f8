package analysis

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"

	"github.com/san-kum/ising/internal/experiment"
)

// ErrNoTemperatures indicates a sweep with an empty temperature list.
var ErrNoTemperatures = errors.New("analysis: sweep needs at least one temperature")

type SweepConfig struct {
	Base         experiment.Config
	Temperatures []float64
	Replicas     int
	Limit        int // concurrent runs; 0 means GOMAXPROCS
}

// Point is the pooled estimate at one temperature.
type Point struct {
	Thermo
	MeanClusterSize float64 `json:"mean_cluster_size"`
	Replicas        int     `json:"replicas"`
}

// Temperatures returns points evenly spaced values from lo to hi inclusive.
func Temperatures(lo, hi float64, points int) []float64 {
	if points <= 0 {
		return nil
	}
	if points == 1 {
		return []float64{lo}
	}
	return floats.Span(make([]float64, points), lo, hi)
}

// Sweep runs an ensemble of cfg.Replicas independent experiments at every
// temperature and pools their estimates. Each temperature's ensemble is
// seeded from DeriveSeed(cfg.Base.Seed, index), so a seeded sweep is
// reproducible regardless of scheduling. progress, if not nil, is called
// after every finished run.
func Sweep(ctx context.Context, cfg SweepConfig, progress func(done, total int)) ([]Point, error) {
	if len(cfg.Temperatures) == 0 {
		return nil, ErrNoTemperatures
	}
	replicas := max(cfg.Replicas, 1)
	limit := cfg.Limit
	if limit <= 0 {
		limit = runtime.GOMAXPROCS(0)
	}

	base := cfg.Base.Seed
	if base == 0 {
		base = time.Now().UnixNano()
	}

	total := len(cfg.Temperatures) * replicas
	points := make([]Point, len(cfg.Temperatures))

	var mu sync.Mutex
	done := 0
	report := func(int, *experiment.Result) {
		if progress == nil {
			return
		}
		mu.Lock()
		done++
		progress(done, total)
		mu.Unlock()
	}

	// Split the worker budget between temperatures and their replicas.
	inner := min(replicas, limit)
	outer := max(limit/inner, 1)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(outer)

	for ti, temp := range cfg.Temperatures {
		g.Go(func() error {
			runCfg := cfg.Base
			runCfg.Temperature = temp
			runCfg.Seed = experiment.DeriveSeed(base, uint64(ti))

			ens := experiment.NewEnsemble(runCfg, replicas)
			ens.SetLimit(inner)
			ens.OnResult(report)

			results, err := ens.Run(ctx)
			if err != nil {
				return fmt.Errorf("T=%.4f: %w", temp, err)
			}

			point, err := pool(results, temp)
			if err != nil {
				return fmt.Errorf("T=%.4f: %w", temp, err)
			}
			points[ti] = point
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return points, nil
}

// pool merges the replica estimates taken at temperature t.
func pool(results []*experiment.Result, t float64) (Point, error) {
	estimates := make([]Thermo, len(results))
	clusters := make([]float64, len(results))
	for i, res := range results {
		est, err := Estimate(res.Energies, res.Magnetizations, t, res.Model.Sites())
		if err != nil {
			return Point{}, fmt.Errorf("replica %d: %w", i, err)
		}
		estimates[i] = est
		clusters[i] = res.Metrics["cluster_size"]
	}

	merged, err := Merge(estimates)
	if err != nil {
		return Point{}, err
	}
	return Point{
		Thermo:          merged,
		MeanClusterSize: floats.Sum(clusters) / float64(len(results)),
		Replicas:        len(results),
	}, nil
}

// PeakSusceptibility returns the point with the largest susceptibility,
// the finite-lattice estimate of the critical temperature.
func PeakSusceptibility(points []Point) (Point, bool) {
	if len(points) == 0 {
		return Point{}, false
	}
	best := points[0]
	for _, p := range points[1:] {
		if p.Susceptibility > best.Susceptibility {
			best = p
		}
	}
	return best, true
}
