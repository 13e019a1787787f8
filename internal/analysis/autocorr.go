package analysis

import (
	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"
)

// sokalWindow is the c in the self-consistent window W >= c·τ(W).
const sokalWindow = 5.0

// Autocorrelation returns the normalized autocorrelation ρ(t) of x for lags
// 0..len(x)-1. ρ(0) is 1; a constant series has ρ(t) = 0 for t > 0.
func Autocorrelation(x []float64) []float64 {
	n := len(x)
	if n == 0 {
		return nil
	}

	mean := stat.Mean(x, nil)

	// Zero padding to 2n turns the circular correlation into a linear one.
	size := 1
	for size < 2*n {
		size <<= 1
	}
	padded := make([]float64, size)
	for i, v := range x {
		padded[i] = v - mean
	}

	spec := fft.FFTReal(padded)
	for i, c := range spec {
		spec[i] = complex(real(c)*real(c)+imag(c)*imag(c), 0)
	}
	corr := fft.IFFT(spec)

	acf := make([]float64, n)
	c0 := real(corr[0])
	if c0 <= 0 {
		acf[0] = 1
		return acf
	}
	for t := range acf {
		acf[t] = real(corr[t]) / c0
	}
	return acf
}

// IntegratedTime is τ_int = 1/2 + Σ ρ(t), summed up to the first window W
// with W >= 5·τ_int(W). Uncorrelated samples give τ_int ≈ 1/2.
func IntegratedTime(x []float64) float64 {
	acf := Autocorrelation(x)
	if len(acf) == 0 {
		return 0
	}

	tau := 0.5
	for w := 1; w < len(acf); w++ {
		tau += acf[w]
		if float64(w) >= sokalWindow*tau {
			break
		}
	}
	if tau < 0.5 {
		tau = 0.5
	}
	return tau
}
