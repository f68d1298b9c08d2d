package dynamo

import "fmt"

// Constants are the fixed physical constants of the reduced unit system.
type Constants struct {
	RStar            float64 // sigma, characteristic pair distance
	EpsilonStar      float64 // well depth
	Mass             float64
	RConstant        float64 // Boltzmann-like constant
	ForceConversion  float64
	ForceConversion2 float64 // kinetic energy conversion, twice ForceConversion
}

func DefaultConstants() Constants {
	return Constants{
		RStar:            3.0,
		EpsilonStar:      0.2,
		Mass:             18.0,
		RConstant:        1.99e-3,
		ForceConversion:  4.186e-4,
		ForceConversion2: 8.372e-4,
	}
}

// Params are the run parameters. They are built once from configuration and
// passed by value into every component; nothing mutates them during a run.
type Params struct {
	N               int
	DOF             int
	BoxLength       float64
	RCut            float64
	Dt              float64
	T0              float64
	Gamma           float64
	Steps           int
	ThermostatEvery int
	LogEvery        int
	Images          int
	Periodic        bool
	Tolerance       float64
	Seed            int64
	ValidateState   bool
	Constants       Constants
}

// DegreesOfFreedom returns 3n-3: three translational components per particle
// minus the removed center-of-mass motion.
func DegreesOfFreedom(n int) int {
	return 3*n - 3
}

func (p Params) Validate() error {
	if p.N < 2 {
		return fmt.Errorf("%w: got %d", ErrTooFewParticles, p.N)
	}
	if p.DOF != DegreesOfFreedom(p.N) {
		return fmt.Errorf("%w: dof %d does not match %d particles", ErrParameterBounds, p.DOF, p.N)
	}
	if p.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrParameterBounds, p.Dt)
	}
	if p.T0 <= 0 {
		return fmt.Errorf("%w: target temperature must be positive, got %f", ErrParameterBounds, p.T0)
	}
	if p.Steps < 0 {
		return fmt.Errorf("%w: steps must not be negative, got %d", ErrParameterBounds, p.Steps)
	}
	if p.ThermostatEvery < 0 || p.LogEvery < 0 {
		return fmt.Errorf("%w: cadences must not be negative", ErrParameterBounds)
	}
	if p.Periodic {
		if p.BoxLength <= 0 {
			return fmt.Errorf("%w: box length must be positive, got %f", ErrParameterBounds, p.BoxLength)
		}
		if p.RCut <= 0 {
			return fmt.Errorf("%w: cutoff radius must be positive, got %f", ErrParameterBounds, p.RCut)
		}
		if p.Images < 1 || p.Images > 27 {
			return fmt.Errorf("%w: images must be in [1, 27], got %d", ErrParameterBounds, p.Images)
		}
	}
	if p.Constants.Mass <= 0 || p.Constants.RConstant <= 0 || p.Constants.ForceConversion2 <= 0 {
		return fmt.Errorf("%w: physical constants must be positive", ErrParameterBounds)
	}
	return nil
}
