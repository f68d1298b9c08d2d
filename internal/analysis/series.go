package analysis

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/ljmd/internal/dynamo"
)

var observables = map[string]func(dynamo.Sample) float64{
	"temperature":    func(s dynamo.Sample) float64 { return s.Temperature },
	"kinetic":        func(s dynamo.Sample) float64 { return s.KineticEnergy },
	"potential":      func(s dynamo.Sample) float64 { return s.PotentialEnergy },
	"total":          func(s dynamo.Sample) float64 { return s.TotalEnergy },
	"force_sum_norm": func(s dynamo.Sample) float64 { return s.ForceSumNorm },
}

func Observables() []string {
	names := make([]string, 0, len(observables))
	for name := range observables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Series extracts the named observable from every sample.
func Series(samples []dynamo.Sample, name string) ([]float64, error) {
	get, ok := observables[name]
	if !ok {
		return nil, fmt.Errorf("unknown observable %q", name)
	}
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = get(s)
	}
	return out, nil
}

type Summary struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// Summarize returns the zero Summary for an empty series. StdDev is the
// unbiased sample estimate and zero for a single value.
func Summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	s := Summary{
		Mean: stat.Mean(values, nil),
		Min:  floats.Min(values),
		Max:  floats.Max(values),
	}
	if len(values) > 1 {
		s.Mean, s.StdDev = stat.MeanStdDev(values, nil)
	}
	return s
}
