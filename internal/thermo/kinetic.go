// Package thermo converts momenta into kinetic energy and temperature,
// draws initial momenta at a target temperature and applies the Berendsen
// weak-coupling thermostat.
package thermo

import (
	"math"
	"math/rand"

	"github.com/san-kum/ljmd/internal/dynamo"
)

// Summary is recomputed from the momenta each time it is needed.
type Summary struct {
	KineticEnergy float64
	Temperature   float64
}

// Compute returns the kinetic energy and instantaneous temperature of km.
func Compute(km dynamo.Momenta, params dynamo.Params) Summary {
	c := params.Constants

	ke := 0.0
	for _, p := range km {
		ke += p.X*p.X + p.Y*p.Y + p.Z*p.Z
	}
	ke /= c.Mass * c.ForceConversion2

	return Summary{
		KineticEnergy: ke,
		Temperature:   ke / (float64(params.DOF) * c.RConstant),
	}
}

// InitializeMomenta draws one random momentum per particle and calibrates the
// set to the target temperature with zero total momentum.
//
// Each component is a uniform magnitude in [0, 1) with a sign chosen by a
// second uniform draw. The set is then rescaled to the target kinetic energy,
// centered by removing the mean momentum, and rescaled again.
func InitializeMomenta(params dynamo.Params, rng *rand.Rand) dynamo.Momenta {
	km := make(dynamo.Momenta, params.N)
	for i := range km {
		km[i].X = signedDraw(rng)
		km[i].Y = signedDraw(rng)
		km[i].Z = signedDraw(rng)
	}

	rescale(km, params)
	center(km)
	rescale(km, params)

	return km
}

func signedDraw(rng *rand.Rand) float64 {
	c := rng.Float64()
	s := rng.Float64()
	if 0.5-s < 0 {
		return -c
	}
	return c
}

// rescale scales km so that its kinetic energy matches DOF*R*T0.
func rescale(km dynamo.Momenta, params dynamo.Params) {
	s := Compute(km, params)
	ratio := math.Sqrt(float64(params.DOF) * params.Constants.RConstant * params.T0 / s.KineticEnergy)

	for i := range km {
		km[i].X *= ratio
		km[i].Y *= ratio
		km[i].Z *= ratio
	}
}

func center(km dynamo.Momenta) {
	mean := km.Total()
	n := float64(len(km))
	mean.X /= n
	mean.Y /= n
	mean.Z /= n

	for i := range km {
		km[i].X -= mean.X
		km[i].Y -= mean.Y
		km[i].Z -= mean.Z
	}
}
