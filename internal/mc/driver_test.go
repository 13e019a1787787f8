package mc_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ising/internal/compute"
	"github.com/san-kum/ising/internal/ising"
	"github.com/san-kum/ising/internal/lattice"
	"github.com/san-kum/ising/internal/mc"
)

func model(rows, cols int, j float64, mode lattice.InitMode, seed int64) *ising.Model {
	m, err := ising.New(rows, cols, j, mode, ising.WithSeed(seed), ising.WithBackend(compute.Serial{}))
	Expect(err).NotTo(HaveOccurred())
	return m
}

func mean(xs []float64) float64 {
	s := 0.0
	for _, x := range xs {
		s += x
	}
	return s / float64(len(xs))
}

var _ = Describe("Run", func() {
	var m *ising.Model

	BeforeEach(func() {
		m = model(8, 8, 1, lattice.Hot, 99)
	})

	Context("with an invalid configuration", func() {
		It("rejects an unknown algorithm before touching the lattice", func() {
			before := m.Lattice().Clone()

			out, err := mc.Run(m, mc.Config{Temperature: 2, Steps: 100, Algorithm: "invalid", Record: true, Lag: 1})

			Expect(err).To(MatchError(mc.ErrUnknownAlgorithm))
			Expect(out).To(BeNil())
			Expect(m.Lattice().Equal(before)).To(BeTrue())
		})

		DescribeTable("rejects out-of-range fields",
			func(cfg mc.Config, field string) {
				before := m.Lattice().Clone()

				_, err := mc.Run(m, cfg)

				Expect(err).To(MatchError(mc.ErrInvalidConfig))
				var cerr *mc.ConfigError
				Expect(errors.As(err, &cerr)).To(BeTrue())
				Expect(cerr.Field).To(Equal(field))
				Expect(m.Lattice().Equal(before)).To(BeTrue())
			},
			Entry("zero lag", mc.Config{Temperature: 2, Steps: 10, Algorithm: "wolff", Lag: 0}, "Lag"),
			Entry("negative steps", mc.Config{Temperature: 2, Steps: -1, Algorithm: "metropolis", Lag: 1}, "Steps"),
			Entry("zero temperature", mc.Config{Temperature: 0, Steps: 10, Algorithm: "metropolis", Lag: 1}, "Temperature"),
			Entry("negative temperature", mc.Config{Temperature: -1, Steps: 10, Algorithm: "wolff", Lag: 1}, "Temperature"),
		)

		It("rejects a nil model", func() {
			_, err := mc.Run(nil, mc.DefaultConfig())
			Expect(err).To(MatchError(mc.ErrNilModel))
		})
	})

	Context("without recording", func() {
		It("returns the explicit NotRecorded outcome", func() {
			out, err := mc.Run(m, mc.Config{Temperature: 2, Steps: 50, Algorithm: "wolff", Lag: 1})

			Expect(err).NotTo(HaveOccurred())
			Expect(out).To(Equal(mc.NotRecorded{}))
			_, recorded := out.(mc.Recorded)
			Expect(recorded).To(BeFalse())
		})

		It("still advances the lattice", func() {
			before := m.Lattice().Clone()
			_, err := mc.Run(m, mc.Config{Temperature: 5, Steps: 200, Algorithm: "metropolis", Lag: 1})

			Expect(err).NotTo(HaveOccurred())
			Expect(m.Lattice().Equal(before)).To(BeFalse())
		})
	})

	Context("with recording", func() {
		DescribeTable("samples every lag steps without padding",
			func(steps, lag, want int) {
				out, err := mc.Run(m, mc.Config{Temperature: 2.5, Steps: steps, Algorithm: "metropolis", Record: true, Lag: lag})
				Expect(err).NotTo(HaveOccurred())

				rec, ok := out.(mc.Recorded)
				Expect(ok).To(BeTrue())
				Expect(rec.Energies).To(HaveLen(want))
				Expect(rec.Magnetizations).To(HaveLen(want))
				Expect(rec.Samples()).To(Equal(want))
				Expect(mc.SampleCount(steps, lag)).To(Equal(want))
			},
			Entry("lag 1", 10, 1, 10),
			Entry("lag divides steps", 10, 5, 2),
			Entry("lag does not divide steps", 10, 3, 4),
			Entry("lag larger than steps", 4, 10, 1),
			Entry("no steps", 0, 1, 0),
		)

		It("records the observables of the sampled states", func() {
			var energies, mags []float64
			obs := mc.ObserverFunc(func(step, flipped int, m *ising.Model) {
				if step%4 == 0 {
					energies = append(energies, m.MeanEnergy())
					mags = append(mags, m.MeanMagnetization())
				}
			})

			out, err := mc.RunObserved(m, mc.Config{Temperature: 2.2, Steps: 40, Algorithm: "wolff", Record: true, Lag: 4}, obs)
			Expect(err).NotTo(HaveOccurred())

			rec := out.(mc.Recorded)
			Expect(rec.Energies).To(Equal(energies))
			Expect(rec.Magnetizations).To(Equal(mags))
		})

		It("reports the truncated mean Wolff cluster size", func() {
			total, steps := 0, 0
			obs := mc.ObserverFunc(func(_, flipped int, _ *ising.Model) {
				total += flipped
				steps++
			})

			out, err := mc.RunObserved(m, mc.Config{Temperature: 2.269, Steps: 37, Algorithm: "wolff", Record: true, Lag: 1}, obs)
			Expect(err).NotTo(HaveOccurred())

			rec := out.(mc.Recorded)
			Expect(steps).To(Equal(37))
			Expect(rec.MeanClusterSize).To(Equal(total / 37))
			Expect(rec.MeanClusterSize).To(BeNumerically(">=", 1))
		})

		It("reports zero mean cluster size for Metropolis", func() {
			out, err := mc.Run(m, mc.Config{Temperature: 2, Steps: 20, Algorithm: "metropolis", Record: true, Lag: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(out.(mc.Recorded).MeanClusterSize).To(BeZero())
		})

		It("reports the full lattice as the cluster near zero temperature", func() {
			cold := model(6, 6, 1, lattice.Cold, 1)
			out, err := mc.Run(cold, mc.Config{Temperature: 1e-9, Steps: 5, Algorithm: "wolff", Record: true, Lag: 1})
			Expect(err).NotTo(HaveOccurred())

			rec := out.(mc.Recorded)
			Expect(rec.MeanClusterSize).To(Equal(36))
			for _, mag := range rec.Magnetizations {
				Expect(mag).To(Equal(1.0))
			}
			for _, e := range rec.Energies {
				Expect(e).To(Equal(-2.0))
			}
		})
	})

	Context("determinism", func() {
		DescribeTable("identically seeded runs end in the same state",
			func(algorithm string) {
				a := model(16, 16, 1, lattice.Hot, 7)
				b := model(16, 16, 1, lattice.Hot, 7)
				cfg := mc.Config{Temperature: 2.4, Steps: 3000, Algorithm: algorithm, Record: true, Lag: 100}

				outA, err := mc.Run(a, cfg)
				Expect(err).NotTo(HaveOccurred())
				outB, err := mc.Run(b, cfg)
				Expect(err).NotTo(HaveOccurred())

				Expect(a.Lattice().Equal(b.Lattice())).To(BeTrue())
				Expect(outA).To(Equal(outB))
			},
			Entry("metropolis", "metropolis"),
			Entry("wolff", "wolff"),
		)
	})

	Context("equilibrium behavior", func() {
		It("orders below the critical temperature", func() {
			ordered := model(16, 16, 1, lattice.Hot, 11)
			_, err := mc.Run(ordered, mc.Config{Temperature: 1.0, Steps: 200, Algorithm: "wolff", Lag: 1})
			Expect(err).NotTo(HaveOccurred())

			out, err := mc.Run(ordered, mc.Config{Temperature: 1.0, Steps: 400, Algorithm: "wolff", Record: true, Lag: 1})
			Expect(err).NotTo(HaveOccurred())

			rec := out.(mc.Recorded)
			Expect(mean(rec.Magnetizations)).To(BeNumerically(">", 0.95))
			Expect(mean(rec.Energies)).To(BeNumerically("~", -2.0, 0.05))
		})

		It("disorders far above the critical temperature", func() {
			hot := model(16, 16, 1, lattice.Cold, 12)
			_, err := mc.Run(hot, mc.Config{Temperature: 10, Steps: 20000, Algorithm: "metropolis", Lag: 1})
			Expect(err).NotTo(HaveOccurred())

			out, err := mc.Run(hot, mc.Config{Temperature: 10, Steps: 40000, Algorithm: "metropolis", Record: true, Lag: 100})
			Expect(err).NotTo(HaveOccurred())

			rec := out.(mc.Recorded)
			Expect(mean(rec.Magnetizations)).To(BeNumerically("<", 0.3))
		})

		It("develops staggered order for antiferromagnetic coupling", func() {
			afm := model(16, 16, -1, lattice.Hot, 13)
			_, err := mc.Run(afm, mc.Config{Temperature: 1.0, Steps: 200, Algorithm: "wolff", Lag: 1})
			Expect(err).NotTo(HaveOccurred())

			out, err := mc.Run(afm, mc.Config{Temperature: 1.0, Steps: 200, Algorithm: "wolff", Record: true, Lag: 1})
			Expect(err).NotTo(HaveOccurred())
			Expect(mean(out.(mc.Recorded).Magnetizations)).To(BeNumerically(">", 0.95))
		})
	})
})

var _ = Describe("Registry", func() {
	It("lists the built-in algorithms", func() {
		Expect(mc.Algorithms()).To(Equal([]string{"metropolis", "wolff"}))
	})

	It("runs a registered custom stepper", func() {
		r := mc.NewRegistry()
		r.Register("noop", func() mc.Stepper { return noopStepper{} })

		m := model(4, 4, 1, lattice.Cold, 1)
		out, err := r.Run(m, mc.Config{Temperature: 1, Steps: 3, Algorithm: "noop", Record: true, Lag: 1})
		Expect(err).NotTo(HaveOccurred())
		Expect(out.(mc.Recorded).Energies).To(Equal([]float64{-2, -2, -2}))
	})
})

type noopStepper struct{}

func (noopStepper) Name() string                   { return "noop" }
func (noopStepper) Step(*ising.Model, float64) int { return 0 }
