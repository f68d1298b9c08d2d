// Package physics provides the Lennard-Jones force field engine.
//
// A [ForceField] is allocated once per run and recomputed in place:
//
//   - [ForceField.Evaluate]: bare pair sum over i<j, antisymmetric forces
//   - [ForceField.EvaluatePeriodic]: ordered pairs over periodic images within a cutoff
//   - [TranslationVectors]: the 27 first-shell image offsets of a cubic box
//   - [CheckForces]: total-force diagnostic (Newton's third law)
//
// The pair potential in reduced form is u(r*) = r*^6 - 2 r*^3 with
// r* = sigma^2 / d^2, scaled by 4*epsilon after the bare sum.
//
// # Determinism
//
// Accumulation always runs in particle-index order (i, then j, then image
// index), so repeated evaluations of the same input are bit-identical:
//
//	ff := physics.NewForceField(len(p), dynamo.DefaultConstants())
//	_ = ff.Evaluate(p)
//	if _, err := physics.CheckForces(ff, physics.DefaultTolerance); err != nil {
//	    // report, keep going
//	}
package physics
