package metrics

// Sample is one observation fed to a Metric. A step event (Sampled false)
// carries the number of spins a step flipped; a sampled observation
// (Sampled true) carries the observables recorded at that step.
type Sample struct {
	Step          int
	Flipped       int
	Sampled       bool
	Energy        float64
	Magnetization float64
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

// Defaults returns the metrics every experiment tracks.
func Defaults() []Metric {
	return []Metric{
		NewEnergy(),
		NewMagnetization(),
		NewClusterSize(),
		NewAcceptance(),
	}
}

// Collect reads every metric into a name -> value map.
func Collect(ms []Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}
