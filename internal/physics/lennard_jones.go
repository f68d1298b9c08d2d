package physics

import (
	"fmt"

	"github.com/san-kum/ljmd/internal/dynamo"
)

// ForceField holds the result of a Lennard-Jones evaluation: the potential
// energy, the pairwise force matrix and the per-particle force sums.
//
// The matrix is stored row-major in a single buffer; entry i*n+j is the force
// exerted on particle i by particle j. Every evaluation resets all fields
// before accumulating, nothing carries over between calls.
type ForceField struct {
	n      int
	c      dynamo.Constants
	energy float64
	f      []dynamo.Vec3
	sumI   []dynamo.Vec3
	sum    dynamo.Vec3
}

// NewForceField allocates the buffers for n particles.
func NewForceField(n int, c dynamo.Constants) *ForceField {
	return &ForceField{
		n:    n,
		c:    c,
		f:    make([]dynamo.Vec3, n*n),
		sumI: make([]dynamo.Vec3, n),
	}
}

func (ff *ForceField) Len() int         { return ff.n }
func (ff *ForceField) Energy() float64  { return ff.energy }
func (ff *ForceField) Sum() dynamo.Vec3 { return ff.sum }

// Pair returns the force exerted on particle i by particle j.
func (ff *ForceField) Pair(i, j int) dynamo.Vec3 {
	return ff.f[i*ff.n+j]
}

// Row returns the forces acting on particle i, indexed by source particle.
// The slice aliases the internal buffer and must not be modified.
func (ff *ForceField) Row(i int) []dynamo.Vec3 {
	start := i * ff.n
	return ff.f[start : start+ff.n : start+ff.n]
}

func (ff *ForceField) SumI(i int) dynamo.Vec3 {
	return ff.sumI[i]
}

// Sums returns the net force on every particle. Read-only view.
func (ff *ForceField) Sums() []dynamo.Vec3 {
	return ff.sumI[:ff.n:ff.n]
}

func (ff *ForceField) reset() {
	ff.energy = 0
	for i := range ff.f {
		ff.f[i] = dynamo.Vec3{}
	}
	for i := range ff.sumI {
		ff.sumI[i] = dynamo.Vec3{}
	}
	ff.sum = dynamo.Vec3{}
}

func (ff *ForceField) check(p dynamo.Particles) error {
	if len(p) != ff.n {
		return fmt.Errorf("%w: %d particles for a field sized %d", dynamo.ErrDimensionMismatch, len(p), ff.n)
	}
	return nil
}

// pair returns the reduced pair energy u and the force coefficient du for a
// squared distance d2. Coincident particles (d2 == 0) give Inf/NaN.
func (ff *ForceField) pair(d2 float64) (u, du float64) {
	rs := ff.c.RStar * ff.c.RStar / d2
	rs3 := rs * rs * rs
	rs4 := rs3 * rs
	rs6 := rs3 * rs3
	rs7 := rs6 * rs

	u = rs6 - 2.0*rs3
	du = -48.0 * ff.c.EpsilonStar * (rs7 - rs4)
	return u, du
}

// Evaluate computes the bare (non-periodic) interaction of every unordered
// pair. The resulting matrix is antisymmetric with a null diagonal.
func (ff *ForceField) Evaluate(p dynamo.Particles) error {
	if err := ff.check(p); err != nil {
		return err
	}
	ff.reset()

	n := ff.n
	for i := 0; i < n; i++ {
		pi := p[i]
		for j := i + 1; j < n; j++ {
			d := pi.Sub(p[j])
			u, du := ff.pair(d.Norm2())

			ff.energy += u

			fij := d.Scale(du)
			fji := fij.Neg()
			ff.f[i*n+j] = fij
			ff.f[j*n+i] = fji

			ff.sumI[i] = ff.sumI[i].Add(fij)
			ff.sumI[j] = ff.sumI[j].Add(fji)
		}

		ff.f[i*n+i] = dynamo.Vec3{}
		ff.sum = ff.sum.Add(ff.sumI[i])
	}

	ff.energy *= 4.0 * ff.c.EpsilonStar
	return nil
}

// EvaluatePeriodic sums the interaction of every ordered pair (i, j), i != j,
// over the images p[j]+tv[k] that lie within rCut of p[i]. Each unordered
// interaction is visited twice, hence the 2*epsilon prefactor. The matrix is
// not antisymmetric in general and the total force need not vanish.
func (ff *ForceField) EvaluatePeriodic(p dynamo.Particles, tv []dynamo.Vec3, rCut float64) error {
	if err := ff.check(p); err != nil {
		return err
	}
	ff.reset()

	n := ff.n
	rCut2 := rCut * rCut
	for i := 0; i < n; i++ {
		pi := p[i]
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}

			idx := i*n + j
			for _, t := range tv {
				d := pi.Sub(p[j].Add(t))
				d2 := d.Norm2()
				if d2 > rCut2 {
					continue
				}

				u, du := ff.pair(d2)
				ff.energy += u
				ff.f[idx] = ff.f[idx].Add(d.Scale(du))
			}

			ff.sumI[i] = ff.sumI[i].Add(ff.f[idx])
		}

		ff.sum = ff.sum.Add(ff.sumI[i])
	}

	ff.energy *= 2.0 * ff.c.EpsilonStar
	return nil
}
