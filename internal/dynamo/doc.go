// Package dynamo provides the core data model shared by the simulation packages.
//
// The package defines the value types and contracts the engine is built from:
//
//   - [Vec3]: a 3D vector used for positions, momenta and forces
//   - [Particles]: the particle store, one position per particle
//   - [Momenta]: conjugate momenta, co-indexed with [Particles]
//   - [Constants]: fixed physical constants of the reduced unit system
//   - [Params]: immutable run parameters built once at startup
//   - [Sample]: per-step energy, temperature and force diagnostics
//   - [Metric], [Observer], [FrameSink]: hooks called by the driving loop
//
// # Example
//
//	params, _ := cfg.Params(len(p))
//	ff := physics.NewForceField(params.N, params.Constants)
//	integ := integrators.NewVelocityVerlet(ff, ff, params)
//	s := sim.New(params, integ, ff)
//	result, _ := s.Run(ctx, p, km)
//
// # Thread Safety
//
// Nothing in this package is safe for concurrent mutation. Particles and
// Momenta are owned by the caller for the lifetime of a run.
package dynamo
