// Package orbital provides the single-particle state: a spinor
// wavefunction tagged with quantum numbers, energy and occupancy.
//
// The package owns the adaptive algorithms of the self-consistent solve:
//
//   - [Orbital.CheckSize]: grow or shrink the stored length to bound the
//     numerically significant support
//   - [Orbital.ReNormalize]: rescale to a target norm
//   - [Orbital.NumNodes]: count sign changes of the large component with
//     head and tail noise suppression
//
// [Info] is the lightweight (pqn, kappa) key used for deterministic
// ordering and spectroscopic naming.
package orbital
