package physics

import "github.com/san-kum/ljmd/internal/dynamo"

// Evaluator recomputes a force field for a particle configuration.
// *ForceField itself is the bare evaluator.
type Evaluator interface {
	Evaluate(p dynamo.Particles) error
}

// Periodic evaluates a ForceField over a fixed set of image translations
// with a cutoff radius.
type Periodic struct {
	Field        *ForceField
	Translations []dynamo.Vec3
	RCut         float64
}

func NewPeriodic(ff *ForceField, tv []dynamo.Vec3, rCut float64) *Periodic {
	return &Periodic{Field: ff, Translations: tv, RCut: rCut}
}

func (pe *Periodic) Evaluate(p dynamo.Particles) error {
	return pe.Field.EvaluatePeriodic(p, pe.Translations, pe.RCut)
}

// NewEvaluator returns the evaluator selected by params: periodic images with
// params.Images translations, or the bare pair sum.
func NewEvaluator(ff *ForceField, params dynamo.Params) (Evaluator, error) {
	if !params.Periodic {
		return ff, nil
	}
	tv, err := TranslationVectors(params.Images, params.BoxLength)
	if err != nil {
		return nil, err
	}
	return NewPeriodic(ff, tv, params.RCut), nil
}
