package metrics

// Energy averages the mean energy per site over sampled steps.
type Energy struct {
	name    string
	sum     float64
	samples int
}

func NewEnergy() *Energy {
	return &Energy{name: "energy"}
}

func (e *Energy) Name() string { return e.name }

func (e *Energy) Observe(s Sample) {
	if !s.Sampled {
		return
	}
	e.sum += s.Energy
	e.samples++
}

func (e *Energy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.sum / float64(e.samples)
}

func (e *Energy) Reset() {
	e.sum = 0
	e.samples = 0
}

// Magnetization averages the absolute mean magnetization over sampled steps.
type Magnetization struct {
	name    string
	sum     float64
	samples int
}

func NewMagnetization() *Magnetization {
	return &Magnetization{name: "magnetization"}
}

func (m *Magnetization) Name() string { return m.name }

func (m *Magnetization) Observe(s Sample) {
	if !s.Sampled {
		return
	}
	v := s.Magnetization
	if v < 0 {
		v = -v
	}
	m.sum += v
	m.samples++
}

func (m *Magnetization) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *Magnetization) Reset() {
	m.sum = 0
	m.samples = 0
}
