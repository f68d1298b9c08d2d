package metrics

import (
	"math"

	"github.com/san-kum/ljmd/internal/dynamo"
)

// ForceBalance is the fraction of samples whose total force stays within
// tolerance on every axis. Only meaningful for bare evaluations.
type ForceBalance struct {
	name       string
	tolerance  float64
	violations int
	samples    int
}

func NewForceBalance(tolerance float64) *ForceBalance {
	return &ForceBalance{
		name:      "force_balance",
		tolerance: tolerance,
	}
}

func (f *ForceBalance) Name() string {
	return f.name
}

func (f *ForceBalance) Observe(s dynamo.Sample) {
	f.samples++
	for _, c := range []float64{s.ForceSum.X, s.ForceSum.Y, s.ForceSum.Z} {
		if math.Abs(c) > f.tolerance {
			f.violations++
			break
		}
	}
}

func (f *ForceBalance) Value() float64 {
	if f.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(f.violations)/float64(f.samples)
}

func (f *ForceBalance) Violations() int { return f.violations }

func (f *ForceBalance) Reset() {
	f.violations = 0
	f.samples = 0
}
