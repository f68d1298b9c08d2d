package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/ljmd/internal/dynamo"
	"github.com/san-kum/ljmd/internal/integrators"
	"github.com/san-kum/ljmd/internal/physics"
	"github.com/san-kum/ljmd/internal/thermo"
	"k8s.io/klog/v2"
)

// Simulator drives a velocity-Verlet integration over a fixed particle set.
type Simulator struct {
	params     dynamo.Params
	field      *physics.ForceField
	integrator *integrators.VelocityVerlet
	metrics    []dynamo.Metric
	observers  []dynamo.Observer
	sink       dynamo.FrameSink
}

// New validates params and binds the force field and evaluator used for
// every step. The evaluator must write into field.
func New(field *physics.ForceField, eval physics.Evaluator, params dynamo.Params) (*Simulator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if field.Len() != params.N {
		return nil, fmt.Errorf("%w: force field sized for %d particles, params say %d",
			dynamo.ErrDimensionMismatch, field.Len(), params.N)
	}
	return &Simulator{
		params:     params,
		field:      field,
		integrator: integrators.NewVelocityVerlet(field, eval, params),
		metrics:    make([]dynamo.Metric, 0),
		observers:  make([]dynamo.Observer, 0),
	}, nil
}

func (s *Simulator) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) SetSink(sink dynamo.FrameSink) { s.sink = sink }

func (s *Simulator) Params() dynamo.Params { return s.params }

// Run is one integration in progress. Particles and momenta passed to Begin
// are advanced in place.
type Run struct {
	sim     *Simulator
	p       dynamo.Particles
	km      dynamo.Momenta
	step    int
	stopped bool
	initial float64
	result  *dynamo.Result
}

// Begin evaluates the starting forces and records step 0.
func (s *Simulator) Begin(p dynamo.Particles, km dynamo.Momenta) (*Run, error) {
	if len(p) != s.params.N || len(km) != s.params.N {
		return nil, fmt.Errorf("%w: %d particles and %d momenta for N=%d",
			dynamo.ErrDimensionMismatch, len(p), len(km), s.params.N)
	}
	if !p.IsValid() || !km.IsValid() {
		return nil, fmt.Errorf("%w: starting configuration", dynamo.ErrInvalidState)
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	if err := s.integrator.Prime(p); err != nil {
		return nil, err
	}

	r := &Run{
		sim: s,
		p:   p,
		km:  km,
		result: &dynamo.Result{
			Samples: make([]dynamo.Sample, 0, s.params.Steps+1),
			Metrics: make(map[string]float64),
			Errors:  make([]error, 0),
		},
	}

	sample := r.sample()
	r.initial = sample.TotalEnergy
	if err := r.record(sample); err != nil {
		return nil, err
	}

	klog.V(2).Infof("run started: n=%d steps=%d periodic=%t T=%.4f E=%.6e",
		s.params.N, s.params.Steps, s.params.Periodic, sample.Temperature, sample.TotalEnergy)
	return r, nil
}

// Next advances one step and returns its sample. ok is false once the run has
// taken every step or stopped on an invalid state; the returned sample is
// then the last recorded one.
func (r *Run) Next() (sample dynamo.Sample, ok bool, err error) {
	if r.Done() {
		return r.Last(), false, nil
	}

	if err := r.sim.integrator.Step(r.p, r.km); err != nil {
		return r.Last(), false, err
	}
	r.step++
	r.result.StepsTaken++

	sample = r.sample()
	if r.sim.params.ValidateState && (!sample.IsValid() || !r.p.IsValid()) {
		r.stopped = true
		r.result.Errors = append(r.result.Errors, &dynamo.SimulationError{
			Step:    sample.Step,
			Time:    sample.Time,
			Wrapped: dynamo.ErrUnstable,
		})
		klog.Errorf("run stopped at step %d: %v", sample.Step, dynamo.ErrUnstable)
		return sample, false, nil
	}

	if err := r.record(sample); err != nil {
		return sample, false, err
	}

	every := r.sim.params.ThermostatEvery
	if every > 0 && r.step%every == 0 {
		thermo.Berendsen(r.km, sample.Temperature, r.sim.params)
		klog.V(4).Infof("step %d: thermostat applied at T=%.4f", r.step, sample.Temperature)
	}

	return sample, !r.Done(), nil
}

func (r *Run) Done() bool {
	return r.stopped || r.step >= r.sim.params.Steps
}

func (r *Run) Step() int { return r.step }

func (r *Run) Last() dynamo.Sample {
	return r.result.Samples[len(r.result.Samples)-1]
}

func (r *Run) Particles() dynamo.Particles { return r.p }
func (r *Run) Momenta() dynamo.Momenta     { return r.km }

// Result snapshots the run so far: final configuration, metric values and
// relative drift of the total energy against step 0.
func (r *Run) Result() *dynamo.Result {
	res := r.result
	res.Final = r.p.Clone()

	last := r.Last()
	res.EnergyDrift = 0
	if r.initial != 0 {
		res.EnergyDrift = math.Abs(last.TotalEnergy-r.initial) / math.Abs(r.initial)
	}

	for _, m := range r.sim.metrics {
		res.Metrics[m.Name()] = m.Value()
	}
	return res
}

func (r *Run) sample() dynamo.Sample {
	s := thermo.Compute(r.km, r.sim.params)
	pe := r.sim.field.Energy()
	sum := r.sim.field.Sum()

	return dynamo.Sample{
		Step:            r.step,
		Time:            float64(r.step) * r.sim.params.Dt,
		Temperature:     s.Temperature,
		KineticEnergy:   s.KineticEnergy,
		PotentialEnergy: pe,
		TotalEnergy:     s.KineticEnergy + pe,
		ForceSum:        sum,
		ForceSumNorm:    sum.Norm(),
	}
}

func (r *Run) record(sample dynamo.Sample) error {
	r.result.Samples = append(r.result.Samples, sample)
	r.checkForces(sample)

	for _, m := range r.sim.metrics {
		m.Observe(sample)
	}
	for _, obs := range r.sim.observers {
		obs.OnStep(sample, r.p)
	}

	logEvery := r.sim.params.LogEvery
	if r.sim.sink != nil && (r.step == 0 || (logEvery > 0 && r.step%logEvery == 0)) {
		if err := r.sim.sink.WriteFrame(r.step, r.p); err != nil {
			return fmt.Errorf("writing frame %d: %w", r.step, err)
		}
	}
	return nil
}

func (r *Run) checkForces(sample dynamo.Sample) {
	tol := r.sim.params.Tolerance
	if tol <= 0 {
		tol = physics.DefaultTolerance
	}

	if r.sim.params.Periodic {
		klog.V(4).Infof("step %d: periodic force sum %s (norm %e)", sample.Step, sample.ForceSum, sample.ForceSumNorm)
		return
	}
	if _, err := physics.CheckForces(r.sim.field, tol); err != nil {
		klog.Warningf("step %d: %v", sample.Step, err)
	}
}

// Run integrates params.Steps steps from p and km, advancing both in place.
// Cancelling ctx stops the loop between steps and returns the partial result.
func (s *Simulator) Run(ctx context.Context, p dynamo.Particles, km dynamo.Momenta) (*dynamo.Result, error) {
	r, err := s.Begin(p, km)
	if err != nil {
		return nil, err
	}

	for !r.Done() {
		select {
		case <-ctx.Done():
			return r.Result(), fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err())
		default:
		}

		if _, _, err := r.Next(); err != nil {
			return r.Result(), err
		}
	}

	res := r.Result()
	klog.V(2).Infof("run finished: steps=%d drift=%.3e errors=%d", res.StepsTaken, res.EnergyDrift, len(res.Errors))
	return res, nil
}
