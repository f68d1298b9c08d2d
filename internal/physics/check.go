package physics

import (
	"fmt"
	"math"

	"github.com/san-kum/ljmd/internal/dynamo"
)

// DefaultTolerance bounds each component of the total force after a bare
// evaluation.
const DefaultTolerance = 1.0e-7

// CheckForces returns the total force of the last evaluation and an
// ErrForceImbalance error when any component exceeds tol in absolute value.
// Only the bare evaluation guarantees a null total; after a periodic
// evaluation the result is a magnitude to report, not a correctness verdict.
func CheckForces(ff *ForceField, tol float64) (dynamo.Vec3, error) {
	sum := ff.Sum()
	if math.Abs(sum.X) > tol || math.Abs(sum.Y) > tol || math.Abs(sum.Z) > tol {
		return sum, fmt.Errorf("%w: fx: %13e, fy: %13e, fz: %13e", dynamo.ErrForceImbalance, sum.X, sum.Y, sum.Z)
	}
	return sum, nil
}
