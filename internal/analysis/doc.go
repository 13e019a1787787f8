// Package analysis turns sampled Ising series into thermodynamic estimates.
//
// The package includes:
//
//   - [Estimate]: mean energy and magnetization, specific heat,
//     susceptibility and Binder cumulant from one run's samples
//   - [Autocorrelation] and [IntegratedTime]: FFT-based autocorrelation
//     and the integrated autocorrelation time with Sokal windowing
//   - [Sweep]: parallel temperature sweeps over independent replicas
//   - [PeakSusceptibility]: the sweep point nearest the finite-size
//     critical temperature
//
// # Fluctuation estimators
//
// With N sites and per-site series e and m:
//
//	C = N * Var(e) / T^2
//	χ = N * Var(|m|) / T
//	U = 1 - <m^4> / (3 <m^2>^2)
//
// Exact equality with the infinite-lattice values is never expected; the
// Onsager critical point T_c = 2/ln(1+√2) ≈ 2.269 is provided for reference.
package analysis
