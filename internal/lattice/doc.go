// Package lattice provides the radial grids that every wavefunction and
// operator in the code is sampled on.
//
// A [Lattice] maps integer point indices to radial coordinates and local
// spacings:
//
//   - [ExpLattice]: exponential mapping r(i) = rmin*exp(h*i), the
//     production grid for atomic calculations
//   - [UniformLattice]: constant spacing, used by probes and tests
//
// Grids are read-only after construction except for [Lattice.Resize],
// which recomputes every point from the defining parameters and alerts
// registered [Observer] values so dependent objects can adapt.
package lattice
