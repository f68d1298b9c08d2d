package dynamo

import (
	"fmt"
	"math"
)

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(factor float64) Vec3 {
	return Vec3{v.X * factor, v.Y * factor, v.Z * factor}
}

func (v Vec3) Neg() Vec3 {
	return Vec3{-v.X, -v.Y, -v.Z}
}

// Norm2 returns the squared Euclidean norm.
func (v Vec3) Norm2() float64 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

func (v Vec3) Norm() float64 {
	return math.Sqrt(v.Norm2())
}

func (v Vec3) IsValid() bool {
	return finite(v.X) && finite(v.Y) && finite(v.Z)
}

func (v Vec3) String() string {
	return fmt.Sprintf("(%13e, %13e, %13e)", v.X, v.Y, v.Z)
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Particles is the particle store: one position per particle, fixed length for a run.
type Particles []Vec3

func (p Particles) Clone() Particles {
	c := make(Particles, len(p))
	copy(c, p)
	return c
}

func (p Particles) IsValid() bool {
	for _, v := range p {
		if !v.IsValid() {
			return false
		}
	}
	return true
}

// Momenta holds the conjugate momentum of each particle. Index i always
// refers to the same particle as index i of the matching Particles.
type Momenta []Vec3

func (m Momenta) Clone() Momenta {
	c := make(Momenta, len(m))
	copy(c, m)
	return c
}

func (m Momenta) IsValid() bool {
	for _, v := range m {
		if !v.IsValid() {
			return false
		}
	}
	return true
}

// Total returns the summed momentum, accumulated in particle order.
func (m Momenta) Total() Vec3 {
	var sum Vec3
	for _, v := range m {
		sum.X += v.X
		sum.Y += v.Y
		sum.Z += v.Z
	}
	return sum
}

// Sample is the diagnostic tuple produced by every integration step.
type Sample struct {
	Step            int
	Time            float64
	Temperature     float64
	KineticEnergy   float64
	PotentialEnergy float64
	TotalEnergy     float64
	ForceSum        Vec3
	ForceSumNorm    float64
}

func (s Sample) IsValid() bool {
	return finite(s.Temperature) && finite(s.KineticEnergy) &&
		finite(s.PotentialEnergy) && s.ForceSum.IsValid()
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s Sample, p Particles)
}

// FrameSink receives trajectory snapshots. Implementations must append on
// every call without truncating earlier frames.
type FrameSink interface {
	WriteFrame(iteration int, p Particles) error
}

type Result struct {
	Samples     []Sample
	Final       Particles
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
	Errors      []error
}
