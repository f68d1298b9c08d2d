package experiment

import (
	"time"

	"github.com/san-kum/ljmd/internal/dynamo"
	"github.com/san-kum/ljmd/internal/physics"
)

// EnergyReport is the outcome of one force evaluation.
type EnergyReport struct {
	Mode     string
	Energy   float64
	ForceSum dynamo.Vec3
	// Imbalance is set when the bare total force exceeds the tolerance. It is
	// always nil for periodic evaluations.
	Imbalance error
	Elapsed   time.Duration
}

// Evaluate runs a single evaluation of p with every registered evaluator
// named in modes and times each one.
func (r *Registry) Evaluate(p dynamo.Particles, params dynamo.Params, modes ...string) ([]EnergyReport, error) {
	reports := make([]EnergyReport, 0, len(modes))
	for _, mode := range modes {
		ff := physics.NewForceField(len(p), params.Constants)
		eval, err := r.GetEvaluator(mode, ff, params)
		if err != nil {
			return nil, err
		}

		start := time.Now()
		if err := eval.Evaluate(p); err != nil {
			return nil, err
		}
		elapsed := time.Since(start)

		report := EnergyReport{
			Mode:     mode,
			Energy:   ff.Energy(),
			ForceSum: ff.Sum(),
			Elapsed:  elapsed,
		}
		if _, periodic := eval.(*physics.Periodic); !periodic {
			tol := params.Tolerance
			if tol <= 0 {
				tol = physics.DefaultTolerance
			}
			_, report.Imbalance = physics.CheckForces(ff, tol)
		}
		reports = append(reports, report)
	}
	return reports, nil
}
