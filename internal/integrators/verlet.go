package integrators

import (
	"github.com/san-kum/ljmd/internal/dynamo"
	"github.com/san-kum/ljmd/internal/physics"
)

// VelocityVerlet advances particles and momenta with two half-kicks around a
// single drift. Forces are read from field after every evaluation.
type VelocityVerlet struct {
	field  *physics.ForceField
	eval   physics.Evaluator
	dt     float64
	fc     float64
	mass   float64
	primed bool
}

func NewVelocityVerlet(field *physics.ForceField, eval physics.Evaluator, params dynamo.Params) *VelocityVerlet {
	return &VelocityVerlet{
		field: field,
		eval:  eval,
		dt:    params.Dt,
		fc:    params.Constants.ForceConversion,
		mass:  params.Constants.Mass,
	}
}

// Prime evaluates the forces at the starting configuration so the first
// half-kick has something to act on.
func (v *VelocityVerlet) Prime(p dynamo.Particles) error {
	if err := v.eval.Evaluate(p); err != nil {
		return err
	}
	v.primed = true
	return nil
}

func (v *VelocityVerlet) Primed() bool { return v.primed }

// Step performs one integration step in place. The force field holds the
// forces at the new positions when it returns.
func (v *VelocityVerlet) Step(p dynamo.Particles, km dynamo.Momenta) error {
	if len(km) != len(p) {
		return dynamo.ErrDimensionMismatch
	}
	if !v.primed {
		if err := v.Prime(p); err != nil {
			return err
		}
	}

	v.kick(km)

	for i := range p {
		p[i].X += v.dt * km[i].X / v.mass
		p[i].Y += v.dt * km[i].Y / v.mass
		p[i].Z += v.dt * km[i].Z / v.mass
	}

	if err := v.eval.Evaluate(p); err != nil {
		return err
	}

	v.kick(km)
	return nil
}

func (v *VelocityVerlet) kick(km dynamo.Momenta) {
	sums := v.field.Sums()
	for i := range km {
		km[i].X -= v.dt * v.fc * sums[i].X * 0.5
		km[i].Y -= v.dt * v.fc * sums[i].Y * 0.5
		km[i].Z -= v.dt * v.fc * sums[i].Z * 0.5
	}
}
