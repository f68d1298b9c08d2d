package metrics

import (
	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/ljmd/internal/dynamo"
	"github.com/san-kum/ljmd/internal/physics"
)

// TemperatureStats keeps every observed temperature and reports their mean.
type TemperatureStats struct {
	name  string
	temps []float64
}

func NewTemperatureStats() *TemperatureStats {
	return &TemperatureStats{name: "mean_temperature"}
}

func (t *TemperatureStats) Name() string { return t.name }

func (t *TemperatureStats) Observe(s dynamo.Sample) {
	t.temps = append(t.temps, s.Temperature)
}

func (t *TemperatureStats) Value() float64 {
	if len(t.temps) == 0 {
		return 0
	}
	return stat.Mean(t.temps, nil)
}

// StdDev is the sample standard deviation of the observed temperatures.
func (t *TemperatureStats) StdDev() float64 {
	if len(t.temps) < 2 {
		return 0
	}
	return stat.StdDev(t.temps, nil)
}

func (t *TemperatureStats) Reset() {
	t.temps = t.temps[:0]
}

// Defaults returns the metrics attached to every run. The force-balance
// metric is only included for bare evaluations.
func Defaults(params dynamo.Params) []dynamo.Metric {
	ms := []dynamo.Metric{
		NewEnergy(),
		NewEnergyDrift(),
		NewTemperatureStats(),
	}
	if !params.Periodic {
		tol := params.Tolerance
		if tol <= 0 {
			tol = physics.DefaultTolerance
		}
		ms = append(ms, NewForceBalance(tol))
	}
	return ms
}
