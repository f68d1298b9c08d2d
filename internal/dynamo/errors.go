package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for simulation operations.
var (
	// ErrInvalidState indicates a particle or momentum set containing NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrUnstable indicates the simulation diverged during integration.
	ErrUnstable = errors.New("dynamo: simulation unstable (state diverged)")

	// ErrParameterBounds indicates a parameter value is outside valid range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrContextCanceled indicates the simulation was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")

	// ErrDimensionMismatch indicates a particle, momentum or force buffer of the wrong length.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between particles and buffers")

	// ErrTooFewParticles indicates fewer than two particles, which leaves no pair to evaluate.
	ErrTooFewParticles = errors.New("dynamo: at least two particles are required")

	// ErrForceImbalance indicates the total force over all particles is not null.
	ErrForceImbalance = errors.New("dynamo: sum of forces is not null")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
