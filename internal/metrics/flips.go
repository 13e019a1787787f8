package metrics

// ClusterSize is the mean number of spins flipped per step. For Wolff runs
// this is the mean cluster size, a proxy for the correlation length.
type ClusterSize struct {
	name    string
	flipped int
	steps   int
}

func NewClusterSize() *ClusterSize {
	return &ClusterSize{name: "cluster_size"}
}

func (c *ClusterSize) Name() string { return c.name }

func (c *ClusterSize) Observe(s Sample) {
	if s.Sampled {
		return
	}
	c.flipped += s.Flipped
	c.steps++
}

func (c *ClusterSize) Value() float64 {
	if c.steps == 0 {
		return 0
	}
	return float64(c.flipped) / float64(c.steps)
}

func (c *ClusterSize) Reset() {
	c.flipped = 0
	c.steps = 0
}

// Acceptance is the fraction of steps that flipped at least one spin.
type Acceptance struct {
	name     string
	accepted int
	steps    int
}

func NewAcceptance() *Acceptance {
	return &Acceptance{name: "acceptance"}
}

func (a *Acceptance) Name() string { return a.name }

func (a *Acceptance) Observe(s Sample) {
	if s.Sampled {
		return
	}
	if s.Flipped > 0 {
		a.accepted++
	}
	a.steps++
}

func (a *Acceptance) Value() float64 {
	if a.steps == 0 {
		return 0
	}
	return float64(a.accepted) / float64(a.steps)
}

func (a *Acceptance) Reset() {
	a.accepted = 0
	a.steps = 0
}
