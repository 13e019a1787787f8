package analysis

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// CriticalTemperature is Onsager's exact T_c for the square-lattice Ising
// model with J = 1.
var CriticalTemperature = 2 / math.Log(1+math.Sqrt2)

var (
	// ErrNoSamples indicates an estimate requested from empty series.
	ErrNoSamples = errors.New("analysis: no samples")

	// ErrSeriesLength indicates energy and magnetization series of different lengths.
	ErrSeriesLength = errors.New("analysis: series length mismatch")
)

type Thermo struct {
	Temperature    float64 `json:"temperature"`
	Samples        int     `json:"samples"`
	Energy         float64 `json:"energy"`
	EnergyErr      float64 `json:"energy_err"`
	Magnetization  float64 `json:"magnetization"`
	MagErr         float64 `json:"magnetization_err"`
	SpecificHeat   float64 `json:"specific_heat"`
	Susceptibility float64 `json:"susceptibility"`
	Binder         float64 `json:"binder"`
	TauEnergy      float64 `json:"tau_energy"`
	TauMag         float64 `json:"tau_magnetization"`
}

// Estimate computes equilibrium estimators from per-site energy and absolute
// magnetization samples taken at temperature t on a lattice of sites spins.
// Error bars account for autocorrelation between samples.
func Estimate(energies, mags []float64, t float64, sites int) (Thermo, error) {
	if len(energies) == 0 {
		return Thermo{}, ErrNoSamples
	}
	if len(energies) != len(mags) {
		return Thermo{}, ErrSeriesLength
	}

	n := float64(len(energies))
	eMean, eVar := stat.PopMeanVariance(energies, nil)
	mMean, mVar := stat.PopMeanVariance(mags, nil)

	m2 := make([]float64, len(mags))
	copy(m2, mags)
	floats.Mul(m2, mags)
	m4 := make([]float64, len(m2))
	copy(m4, m2)
	floats.Mul(m4, m2)

	m2Mean := stat.Mean(m2, nil)
	binder := 0.0
	if m2Mean > 0 {
		binder = 1 - stat.Mean(m4, nil)/(3*m2Mean*m2Mean)
	}

	tauE := IntegratedTime(energies)
	tauM := IntegratedTime(mags)

	return Thermo{
		Temperature:    t,
		Samples:        len(energies),
		Energy:         eMean,
		EnergyErr:      math.Sqrt(eVar * 2 * tauE / n),
		Magnetization:  mMean,
		MagErr:         math.Sqrt(mVar * 2 * tauM / n),
		SpecificHeat:   float64(sites) * eVar / (t * t),
		Susceptibility: float64(sites) * mVar / t,
		Binder:         binder,
		TauEnergy:      tauE,
		TauMag:         tauM,
	}, nil
}

// Merge pools estimates of the same temperature from independent replicas:
// observables are averaged and error bars combined in quadrature.
func Merge(parts []Thermo) (Thermo, error) {
	if len(parts) == 0 {
		return Thermo{}, ErrNoSamples
	}

	k := float64(len(parts))
	out := Thermo{Temperature: parts[0].Temperature}
	var eErr2, mErr2 float64

	for _, p := range parts {
		out.Samples += p.Samples
		out.Energy += p.Energy / k
		out.Magnetization += p.Magnetization / k
		out.SpecificHeat += p.SpecificHeat / k
		out.Susceptibility += p.Susceptibility / k
		out.Binder += p.Binder / k
		out.TauEnergy += p.TauEnergy / k
		out.TauMag += p.TauMag / k
		eErr2 += p.EnergyErr * p.EnergyErr
		mErr2 += p.MagErr * p.MagErr
	}

	out.EnergyErr = math.Sqrt(eErr2) / k
	out.MagErr = math.Sqrt(mErr2) / k
	return out, nil
}
