// Package compute provides reduction backends for lattice-wide observables.
//
// Observables such as the mean energy are sums over independent sites, so
// they can be split into chunks and reduced on several goroutines:
//
//   - [Serial]: a single pass on the calling goroutine
//   - [CPUBackend]: chunked across runtime.NumCPU() workers
//
// # Reproducibility
//
// Partial sums are combined in worker order, so a given backend and worker
// count always produce the same result. Different worker counts reassociate
// floating-point additions and agree only within rounding tolerance.
//
//	b := compute.NewCPUBackend()
//	total := b.Sum(n, func(start, end int) float64 { ... })
package compute
