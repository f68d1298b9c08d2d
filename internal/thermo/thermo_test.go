package thermo

import (
	"math/rand"
	"testing"

	"github.com/onsi/gomega"
	"github.com/san-kum/ljmd/internal/dynamo"
)

func testParams(n int) dynamo.Params {
	return dynamo.Params{
		N:         n,
		DOF:       dynamo.DegreesOfFreedom(n),
		Dt:        1.0,
		T0:        300,
		Gamma:     0.1,
		Constants: dynamo.DefaultConstants(),
	}
}

func TestCompute(t *testing.T) {
	g := gomega.NewWithT(t)
	params := testParams(2)
	c := params.Constants

	km := dynamo.Momenta{{X: 1, Y: 2, Z: 2}, {X: -1, Y: -2, Z: -2}}
	s := Compute(km, params)

	wantKE := 18.0 / (c.Mass * c.ForceConversion2)
	g.Expect(s.KineticEnergy).To(gomega.BeNumerically("~", wantKE, 1e-9))
	g.Expect(s.Temperature).To(gomega.BeNumerically("~", wantKE/(3*c.RConstant), 1e-9))
}

func TestCompute_ReadOnly(t *testing.T) {
	g := gomega.NewWithT(t)
	km := dynamo.Momenta{{X: 0.3, Y: -0.1, Z: 0.2}, {X: -0.3, Y: 0.1, Z: -0.2}}
	before := km.Clone()

	first := Compute(km, testParams(2))
	second := Compute(km, testParams(2))

	g.Expect(km).To(gomega.Equal(before))
	g.Expect(second).To(gomega.Equal(first))
}

func TestInitializeMomenta_Calibrated(t *testing.T) {
	g := gomega.NewWithT(t)
	params := testParams(50)

	km := InitializeMomenta(params, rand.New(rand.NewSource(42)))
	g.Expect(km).To(gomega.HaveLen(50))

	total := km.Total()
	g.Expect(total.X).To(gomega.BeNumerically("~", 0, 1e-12))
	g.Expect(total.Y).To(gomega.BeNumerically("~", 0, 1e-12))
	g.Expect(total.Z).To(gomega.BeNumerically("~", 0, 1e-12))

	s := Compute(km, params)
	g.Expect(s.Temperature).To(gomega.BeNumerically("~", params.T0, 1e-9))
}

func TestInitializeMomenta_Reproducible(t *testing.T) {
	g := gomega.NewWithT(t)
	params := testParams(20)

	a := InitializeMomenta(params, rand.New(rand.NewSource(7)))
	b := InitializeMomenta(params, rand.New(rand.NewSource(7)))
	c := InitializeMomenta(params, rand.New(rand.NewSource(8)))

	g.Expect(a).To(gomega.Equal(b))
	g.Expect(a).NotTo(gomega.Equal(c))
}

func TestBerendsen(t *testing.T) {
	tests := []struct {
		name        string
		temperature float64
		gamma       float64
		scale       float64
	}{
		{"above target grows momenta", 600, 0.01, 1.01},
		{"below target shrinks momenta", 150, 0.1, 0.95},
		{"at target unchanged", 300, 0.1, 1},
		{"no coupling unchanged", 900, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := gomega.NewWithT(t)
			params := testParams(2)
			params.Gamma = tt.gamma
			km := dynamo.Momenta{{X: 1, Y: 1, Z: 1}, {X: -2, Y: 0.5, Z: 3}}
			before := km.Clone()

			Berendsen(km, tt.temperature, params)

			for i := range km {
				g.Expect(km[i].X).To(gomega.BeNumerically("~", before[i].X*tt.scale, 1e-12))
				g.Expect(km[i].Y).To(gomega.BeNumerically("~", before[i].Y*tt.scale, 1e-12))
				g.Expect(km[i].Z).To(gomega.BeNumerically("~", before[i].Z*tt.scale, 1e-12))
			}
		})
	}
}

func TestBerendsen_PreservesCentering(t *testing.T) {
	g := gomega.NewWithT(t)
	params := testParams(16)
	km := InitializeMomenta(params, rand.New(rand.NewSource(11)))

	Berendsen(km, 500, params)

	total := km.Total()
	g.Expect(total.X).To(gomega.BeNumerically("~", 0, 1e-12))
	g.Expect(total.Y).To(gomega.BeNumerically("~", 0, 1e-12))
	g.Expect(total.Z).To(gomega.BeNumerically("~", 0, 1e-12))
}
