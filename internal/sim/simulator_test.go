package sim

import (
	"context"
	"errors"
	"math"
	"math/rand"

	g "github.com/onsi/ginkgo/v2"
	o "github.com/onsi/gomega"

	"github.com/san-kum/ljmd/internal/dynamo"
	"github.com/san-kum/ljmd/internal/physics"
	"github.com/san-kum/ljmd/internal/thermo"
)

type recordingSink struct {
	frames []int
	fail   error
}

func (s *recordingSink) WriteFrame(iteration int, p dynamo.Particles) error {
	if s.fail != nil {
		return s.fail
	}
	s.frames = append(s.frames, iteration)
	return nil
}

type countingMetric struct {
	observed int
	resets   int
}

func (m *countingMetric) Name() string          { return "count" }
func (m *countingMetric) Observe(dynamo.Sample) { m.observed++ }
func (m *countingMetric) Value() float64        { return float64(m.observed) }
func (m *countingMetric) Reset()                { m.observed = 0; m.resets++ }

type stepObserver struct{ steps []int }

func (s *stepObserver) OnStep(sample dynamo.Sample, p dynamo.Particles) {
	s.steps = append(s.steps, sample.Step)
}

// nullEvaluator leaves the force field untouched, so every force and the
// potential energy stay zero.
type nullEvaluator struct{}

func (nullEvaluator) Evaluate(dynamo.Particles) error { return nil }

func grid(side int, a float64, seed int64) dynamo.Particles {
	rng := rand.New(rand.NewSource(seed))
	p := make(dynamo.Particles, 0, side*side*side)
	for x := 0; x < side; x++ {
		for y := 0; y < side; y++ {
			for z := 0; z < side; z++ {
				p = append(p, dynamo.Vec3{
					X: float64(x)*a + (rng.Float64()-0.5)*0.4,
					Y: float64(y)*a + (rng.Float64()-0.5)*0.4,
					Z: float64(z)*a + (rng.Float64()-0.5)*0.4,
				})
			}
		}
	}
	return p
}

func runParams(n, steps int) dynamo.Params {
	return dynamo.Params{
		N:         n,
		DOF:       dynamo.DegreesOfFreedom(n),
		Dt:        1.0,
		T0:        300,
		Gamma:     0.01,
		Steps:     steps,
		Tolerance: physics.DefaultTolerance,
		Constants: dynamo.DefaultConstants(),
	}
}

func momenta(params dynamo.Params, seed int64) dynamo.Momenta {
	return thermo.InitializeMomenta(params, rand.New(rand.NewSource(seed)))
}

var _ = g.Describe("Simulator", func() {
	var (
		params dynamo.Params
		field  *physics.ForceField
		p      dynamo.Particles
		km     dynamo.Momenta
	)

	g.BeforeEach(func() {
		p = grid(2, 4.0, 1)
		params = runParams(len(p), 10)
		field = physics.NewForceField(len(p), params.Constants)
		km = momenta(params, 1)
	})

	g.Describe("construction", func() {
		g.It("rejects invalid parameters", func() {
			params.N = 1
			params.DOF = 0
			_, err := New(physics.NewForceField(1, params.Constants), nullEvaluator{}, params)
			o.Expect(errors.Is(err, dynamo.ErrTooFewParticles)).To(o.BeTrue())
		})

		g.It("rejects a force field of the wrong size", func() {
			_, err := New(physics.NewForceField(3, params.Constants), nullEvaluator{}, params)
			o.Expect(errors.Is(err, dynamo.ErrDimensionMismatch)).To(o.BeTrue())
		})

		g.It("rejects a non-finite starting state", func() {
			s, err := New(field, field, params)
			o.Expect(err).NotTo(o.HaveOccurred())

			bad := p.Clone()
			bad[1].Y = math.NaN()
			_, err = s.Begin(bad, km)
			o.Expect(errors.Is(err, dynamo.ErrInvalidState)).To(o.BeTrue())

			hot := km.Clone()
			hot[0].Z = math.Inf(1)
			_, err = s.Begin(p, hot)
			o.Expect(errors.Is(err, dynamo.ErrInvalidState)).To(o.BeTrue())
		})

		g.It("rejects mismatched particles and momenta", func() {
			s, err := New(field, field, params)
			o.Expect(err).NotTo(o.HaveOccurred())
			_, err = s.Begin(p, km[:2])
			o.Expect(errors.Is(err, dynamo.ErrDimensionMismatch)).To(o.BeTrue())
		})
	})

	g.Describe("a bare run", func() {
		var (
			s      *Simulator
			sink   *recordingSink
			metric *countingMetric
			obs    *stepObserver
		)

		g.BeforeEach(func() {
			var err error
			s, err = New(field, field, params)
			o.Expect(err).NotTo(o.HaveOccurred())

			sink = &recordingSink{}
			metric = &countingMetric{}
			obs = &stepObserver{}
			s.SetSink(sink)
			s.AddMetric(metric)
			s.AddObserver(obs)
		})

		g.It("records step 0 and every step after it", func() {
			res, err := s.Run(context.Background(), p, km)
			o.Expect(err).NotTo(o.HaveOccurred())
			o.Expect(res.StepsTaken).To(o.Equal(10))
			o.Expect(res.Samples).To(o.HaveLen(11))
			o.Expect(res.Errors).To(o.BeEmpty())

			for i, sample := range res.Samples {
				o.Expect(sample.Step).To(o.Equal(i))
				o.Expect(sample.Time).To(o.Equal(float64(i) * params.Dt))
				o.Expect(sample.TotalEnergy).To(o.Equal(sample.KineticEnergy + sample.PotentialEnergy))
			}
			o.Expect(res.Final).To(o.Equal(p))
		})

		g.It("starts at the target temperature", func() {
			res, err := s.Run(context.Background(), p, km)
			o.Expect(err).NotTo(o.HaveOccurred())
			o.Expect(res.Samples[0].Temperature).To(o.BeNumerically("~", params.T0, 1e-9))
		})

		g.It("keeps the total force null", func() {
			res, err := s.Run(context.Background(), p, km)
			o.Expect(err).NotTo(o.HaveOccurred())
			for _, sample := range res.Samples {
				o.Expect(sample.ForceSumNorm).To(o.BeNumerically("<", physics.DefaultTolerance))
				o.Expect(sample.ForceSumNorm).To(o.Equal(sample.ForceSum.Norm()))
			}
		})

		g.It("feeds metrics and observers once per sample", func() {
			res, err := s.Run(context.Background(), p, km)
			o.Expect(err).NotTo(o.HaveOccurred())
			o.Expect(metric.resets).To(o.Equal(1))
			o.Expect(res.Metrics).To(o.HaveKeyWithValue("count", 11.0))
			o.Expect(obs.steps).To(o.Equal([]int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10}))
		})

		g.It("writes a frame at step 0 only when LogEvery is zero", func() {
			_, err := s.Run(context.Background(), p, km)
			o.Expect(err).NotTo(o.HaveOccurred())
			o.Expect(sink.frames).To(o.Equal([]int{0}))
		})

		g.It("reports a failing sink", func() {
			sink.fail = errors.New("disk full")
			_, err := s.Run(context.Background(), p, km)
			o.Expect(err).To(o.MatchError(o.ContainSubstring("disk full")))
		})

		g.It("is reproducible", func() {
			p2, km2 := p.Clone(), km.Clone()
			first, err := s.Run(context.Background(), p, km)
			o.Expect(err).NotTo(o.HaveOccurred())

			field2 := physics.NewForceField(len(p2), params.Constants)
			s2, err := New(field2, field2, params)
			o.Expect(err).NotTo(o.HaveOccurred())
			second, err := s2.Run(context.Background(), p2, km2)
			o.Expect(err).NotTo(o.HaveOccurred())

			o.Expect(second.Samples).To(o.Equal(first.Samples))
			o.Expect(second.Final).To(o.Equal(first.Final))
		})

		g.It("stops between steps when the context is cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			res, err := s.Run(ctx, p, km)
			o.Expect(errors.Is(err, dynamo.ErrContextCanceled)).To(o.BeTrue())
			o.Expect(errors.Is(err, context.Canceled)).To(o.BeTrue())
			o.Expect(res.StepsTaken).To(o.Equal(0))
			o.Expect(res.Samples).To(o.HaveLen(1))
		})
	})

	g.Describe("stepping by hand", func() {
		g.It("advances one step per call and reports completion", func() {
			params.Steps = 3
			s, err := New(field, field, params)
			o.Expect(err).NotTo(o.HaveOccurred())

			r, err := s.Begin(p, km)
			o.Expect(err).NotTo(o.HaveOccurred())
			o.Expect(r.Step()).To(o.Equal(0))

			var oks []bool
			for i := 0; i < 3; i++ {
				sample, ok, err := r.Next()
				o.Expect(err).NotTo(o.HaveOccurred())
				o.Expect(sample.Step).To(o.Equal(i + 1))
				oks = append(oks, ok)
			}
			o.Expect(oks).To(o.Equal([]bool{true, true, false}))
			o.Expect(r.Done()).To(o.BeTrue())

			sample, ok, err := r.Next()
			o.Expect(err).NotTo(o.HaveOccurred())
			o.Expect(ok).To(o.BeFalse())
			o.Expect(sample.Step).To(o.Equal(3))
			o.Expect(r.Result().StepsTaken).To(o.Equal(3))
		})
	})

	g.Describe("trajectory cadence", func() {
		g.It("writes frames at step 0 and every LogEvery steps", func() {
			params.LogEvery = 3
			s, err := New(field, field, params)
			o.Expect(err).NotTo(o.HaveOccurred())
			sink := &recordingSink{}
			s.SetSink(sink)

			_, err = s.Run(context.Background(), p, km)
			o.Expect(err).NotTo(o.HaveOccurred())
			o.Expect(sink.frames).To(o.Equal([]int{0, 3, 6, 9}))
		})
	})

	g.Describe("thermostat", func() {
		hot := func(km dynamo.Momenta) {
			for i := range km {
				km[i] = km[i].Scale(math.Sqrt2)
			}
		}

		g.It("leaves a force-free system untouched without a cadence", func() {
			hot(km)
			s, err := New(field, nullEvaluator{}, params)
			o.Expect(err).NotTo(o.HaveOccurred())

			res, err := s.Run(context.Background(), p, km)
			o.Expect(err).NotTo(o.HaveOccurred())
			for _, sample := range res.Samples {
				o.Expect(sample.Temperature).To(o.BeNumerically("~", 2*params.T0, 1e-9))
				o.Expect(sample.PotentialEnergy).To(o.BeZero())
			}
			o.Expect(res.EnergyDrift).To(o.BeNumerically("<", 1e-12))
		})

		g.It("rescales momenta by 1+gamma*(T/T0-1) on its cadence", func() {
			hot(km)
			params.ThermostatEvery = 3
			params.Gamma = 0.2
			s, err := New(field, nullEvaluator{}, params)
			o.Expect(err).NotTo(o.HaveOccurred())

			res, err := s.Run(context.Background(), p, km)
			o.Expect(err).NotTo(o.HaveOccurred())
			temps := make([]float64, len(res.Samples))
			for i, sample := range res.Samples {
				temps[i] = sample.Temperature
			}

			// Temperature scales with the square of the momentum factor.
			ratio := func(t float64) float64 {
				f := 1 + params.Gamma*(t/params.T0-1)
				return f * f
			}
			o.Expect(temps[1]).To(o.Equal(temps[3]))
			o.Expect(temps[4]).To(o.BeNumerically("~", temps[3]*ratio(temps[3]), 1e-9))
			o.Expect(temps[4]).To(o.Equal(temps[6]))
			o.Expect(temps[7]).To(o.BeNumerically("~", temps[6]*ratio(temps[6]), 1e-9))
			o.Expect(temps[7]).To(o.BeNumerically(">", temps[4]))
		})
	})

	g.Describe("state validation", func() {
		var coincident dynamo.Particles

		g.BeforeEach(func() {
			coincident = dynamo.Particles{{X: 1, Y: 1, Z: 1}, {X: 1, Y: 1, Z: 1}}
			params = runParams(2, 5)
			field = physics.NewForceField(2, params.Constants)
			km = dynamo.Momenta{{X: 0.1}, {X: -0.1}}
		})

		g.It("stops on the first non-finite sample", func() {
			params.ValidateState = true
			s, err := New(field, field, params)
			o.Expect(err).NotTo(o.HaveOccurred())

			res, err := s.Run(context.Background(), coincident, km)
			o.Expect(err).NotTo(o.HaveOccurred())
			o.Expect(res.StepsTaken).To(o.Equal(1))
			o.Expect(res.Errors).To(o.HaveLen(1))

			var simErr *dynamo.SimulationError
			o.Expect(errors.As(res.Errors[0], &simErr)).To(o.BeTrue())
			o.Expect(simErr.Step).To(o.Equal(1))
			o.Expect(errors.Is(simErr, dynamo.ErrUnstable)).To(o.BeTrue())
		})

		g.It("keeps going when validation is off", func() {
			s, err := New(field, field, params)
			o.Expect(err).NotTo(o.HaveOccurred())

			res, err := s.Run(context.Background(), coincident, km)
			o.Expect(err).NotTo(o.HaveOccurred())
			o.Expect(res.StepsTaken).To(o.Equal(5))
			o.Expect(res.Errors).To(o.BeEmpty())
		})
	})

	g.Describe("a periodic run", func() {
		g.It("integrates over the image shell", func() {
			params.Periodic = true
			params.BoxLength = 30
			params.RCut = 10
			params.Images = physics.NumImages
			eval, err := physics.NewEvaluator(field, params)
			o.Expect(err).NotTo(o.HaveOccurred())

			s, err := New(field, eval, params)
			o.Expect(err).NotTo(o.HaveOccurred())
			res, err := s.Run(context.Background(), p, km)
			o.Expect(err).NotTo(o.HaveOccurred())
			o.Expect(res.Samples).To(o.HaveLen(11))
			o.Expect(res.Final.IsValid()).To(o.BeTrue())
		})
	})
})
