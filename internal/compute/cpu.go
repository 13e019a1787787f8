package compute

import (
	"runtime"
	"sync"
)

// minChunk is the smallest range handed to a worker; smaller lattices are
// reduced serially.
const minChunk = 4096

type CPUBackend struct {
	workers  int
	minChunk int
}

func NewCPUBackend() *CPUBackend {
	return &CPUBackend{
		workers:  runtime.NumCPU(),
		minChunk: minChunk,
	}
}

// NewCPUBackendWorkers fixes the worker count and chunk floor. Values below
// one are raised to one.
func NewCPUBackendWorkers(workers, chunk int) *CPUBackend {
	if workers < 1 {
		workers = 1
	}
	if chunk < 1 {
		chunk = 1
	}
	return &CPUBackend{workers: workers, minChunk: chunk}
}

func (c *CPUBackend) Name() string { return "cpu" }
func (c *CPUBackend) Workers() int { return c.workers }

func (c *CPUBackend) Sum(n int, term func(start, end int) float64) float64 {
	if n <= 0 {
		return 0
	}

	workers := c.workers
	if n/c.minChunk < workers {
		workers = n / c.minChunk
	}
	if workers <= 1 {
		return term(0, n)
	}

	chunkSize := (n + workers - 1) / workers
	partials := make([]float64, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		if start >= n {
			break
		}
		end := start + chunkSize
		if end > n {
			end = n
		}

		wg.Add(1)
		go func(worker, s, e int) {
			defer wg.Done()
			partials[worker] = term(s, e)
		}(w, start, end)
	}
	wg.Wait()

	total := 0.0
	for _, p := range partials {
		total += p
	}
	return total
}
