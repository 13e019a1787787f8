// Package mc provides Monte Carlo dynamics for the Ising model.
//
// Two single-step state transitions are available:
//
//   - [Metropolis]: propose one spin flip, accept with min(1, exp(-dE/kT))
//   - [Wolff]: grow a cluster with bond probability 1 - exp(-2|J|/kT) and
//     flip it as a whole
//
// [Run] drives either algorithm for a number of steps, optionally sampling
// the mean energy and magnetization every Lag steps:
//
//	out, err := mc.Run(model, mc.Config{
//	    Temperature: 2.269,
//	    Steps:       10000,
//	    Algorithm:   "wolff",
//	    Record:      true,
//	    Lag:         10,
//	})
//	if rec, ok := out.(mc.Recorded); ok {
//	    plot(rec.Energies)
//	}
//
// Temperatures are in units of energy (kT) and must be positive; steps
// themselves do not check.
package mc
