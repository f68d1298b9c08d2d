// Package analysis summarizes the per-step series of a run.
//
//   - [Series]: extract one observable from a run's samples
//   - [Summarize]: mean, standard deviation and range of a series
//   - [PowerSpectrum]: magnitude spectrum of a mean-removed series
//   - [DominantPeriod]: period in steps of the strongest oscillation
//
// A typical use reads a stored run and looks for the exchange period between
// kinetic and potential energy:
//
//	ke, _ := analysis.Series(samples, "kinetic")
//	period := analysis.DominantPeriod(ke)
package analysis
