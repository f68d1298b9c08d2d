package experiment

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"k8s.io/klog/v2"

	"github.com/san-kum/ljmd/internal/config"
	"github.com/san-kum/ljmd/internal/dynamo"
	"github.com/san-kum/ljmd/internal/export"
	"github.com/san-kum/ljmd/internal/particles"
	"github.com/san-kum/ljmd/internal/physics"
	"github.com/san-kum/ljmd/internal/sim"
	"github.com/san-kum/ljmd/internal/thermo"
)

// Experiment owns everything a single run needs: the configuration, the
// particle set, its momenta and the simulator built around them.
type Experiment struct {
	cfg        *config.Config
	registry   *Registry
	params     dynamo.Params
	particles  dynamo.Particles
	momenta    dynamo.Momenta
	field      *physics.ForceField
	simulator  *sim.Simulator
	sink       *export.PDB
	randSource *rand.Rand
}

// New seeds the experiment from cfg.Seed. A zero seed is replaced by a clock
// seed, which is written back to cfg so the run can be stored and replayed.
func New(cfg *config.Config, registry *Registry) *Experiment {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
		klog.V(2).Infof("seed not set, using clock seed %d", cfg.Seed)
	}
	return &Experiment{
		cfg:        cfg,
		registry:   registry,
		randSource: rand.New(rand.NewSource(cfg.Seed)),
	}
}

// Load reads the configured particle file and sets the experiment up.
func (e *Experiment) Load() error {
	if e.cfg.Input == "" {
		return fmt.Errorf("no particle file configured")
	}
	p, err := particles.Load(e.cfg.Input, e.cfg.Local)
	if err != nil {
		return err
	}
	klog.V(2).Infof("loaded %d particles from %s", len(p), e.cfg.Input)
	return e.Setup(p)
}

// Setup builds the simulator for p. Momenta are drawn at the target
// temperature and the trajectory file, if any, is truncated.
func (e *Experiment) Setup(p dynamo.Particles) error {
	e.params = e.cfg.Params(len(p))
	if err := e.params.Validate(); err != nil {
		return err
	}

	e.particles = p
	e.field = physics.NewForceField(len(p), e.params.Constants)

	eval, err := e.registry.GetEvaluator(e.cfg.Mode, e.field, e.params)
	if err != nil {
		return err
	}

	e.simulator, err = sim.New(e.field, eval, e.params)
	if err != nil {
		return err
	}
	for _, m := range e.registry.DefaultMetrics(e.params) {
		e.simulator.AddMetric(m)
	}

	if e.cfg.Trajectory != "" {
		e.sink, err = export.NewPDB(e.cfg.Trajectory, e.params.BoxLength)
		if err != nil {
			return err
		}
		e.simulator.SetSink(e.sink)
	}

	e.momenta = thermo.InitializeMomenta(e.params, e.randSource)
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.particles, e.momenta)
}

// Begin starts a run that the caller advances step by step.
func (e *Experiment) Begin() (*sim.Run, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Begin(e.particles, e.momenta)
}

// GetSimulator returns the underlying simulator for adding observers
func (e *Experiment) GetSimulator() *sim.Simulator {
	return e.simulator
}

func (e *Experiment) Params() dynamo.Params       { return e.params }
func (e *Experiment) Particles() dynamo.Particles { return e.particles }
func (e *Experiment) Momenta() dynamo.Momenta     { return e.momenta }
func (e *Experiment) Config() *config.Config      { return e.cfg }
