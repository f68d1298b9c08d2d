package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/ljmd/internal/dynamo"
	"github.com/san-kum/ljmd/internal/metrics"
	"github.com/san-kum/ljmd/internal/physics"
)

// EvaluatorFactory builds an evaluator that writes into ff.
type EvaluatorFactory func(ff *physics.ForceField, params dynamo.Params) (physics.Evaluator, error)

type Registry struct {
	evaluators map[string]EvaluatorFactory
}

func NewRegistry() *Registry {
	r := &Registry{
		evaluators: make(map[string]EvaluatorFactory),
	}

	// The name picks the evaluator regardless of params.Periodic.
	r.evaluators["bare"] = func(ff *physics.ForceField, params dynamo.Params) (physics.Evaluator, error) {
		params.Periodic = false
		return physics.NewEvaluator(ff, params)
	}
	r.evaluators["periodic"] = func(ff *physics.ForceField, params dynamo.Params) (physics.Evaluator, error) {
		params.Periodic = true
		return physics.NewEvaluator(ff, params)
	}

	return r
}

func (r *Registry) Register(name string, fn EvaluatorFactory) {
	r.evaluators[name] = fn
}

func (r *Registry) GetEvaluator(name string, ff *physics.ForceField, params dynamo.Params) (physics.Evaluator, error) {
	fn, ok := r.evaluators[name]
	if !ok {
		return nil, fmt.Errorf("unknown evaluator: %s", name)
	}
	return fn(ff, params)
}

func (r *Registry) ListEvaluators() []string {
	names := make([]string, 0, len(r.evaluators))
	for name := range r.evaluators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics(params dynamo.Params) []dynamo.Metric {
	return metrics.Defaults(params)
}
