// Package hydrogenic provides closed-form Dirac solutions for a point
// Coulomb field. They serve as seed orbitals for iterative solvers and
// as exact references in tests.
package hydrogenic

import (
	"math"

	"github.com/ChennaDid/AMBiT/internal/lattice"
	"github.com/ChennaDid/AMBiT/internal/orbital"
	"github.com/ChennaDid/AMBiT/internal/physical"
	"github.com/ChennaDid/AMBiT/internal/spinor"
)

// CoulombPotential returns the point-nucleus potential Z/r sampled on
// the lattice, stored with the attractive sign flipped so values are
// positive.
func CoulombPotential(lat lattice.Lattice, z float64) *spinor.RadialFunction {
	n := lat.Size()
	chi := spinor.NewRadialFunction(n)
	for i := 0; i < n; i++ {
		r := lat.R(i)
		chi.F[i] = z / r
		chi.DFDR[i] = -z / (r * r)
	}
	return chi
}

// GroundState returns the normalized 1s orbital of a bare nucleus with
// charge z. The large component is A r^gamma exp(-z r) with
// gamma = sqrt(1 - (z alpha)^2), the small component a fixed multiple
// of it, and the energy (gamma - 1)/alpha^2 excludes the rest mass.
func GroundState(lat lattice.Lattice, constants physical.Constants, z float64) *orbital.Orbital {
	alpha := constants.Alpha()
	gamma := math.Sqrt(1.0 - z*z*alpha*alpha)
	energy := (gamma - 1.0) / (alpha * alpha)

	orb := orbital.New(-1, 1, energy, lat.Size())
	ratio := -(1.0 - gamma) / (z * alpha)

	for i := 0; i < orb.Size(); i++ {
		r := lat.R(i)
		f := math.Pow(r, gamma) * math.Exp(-z*r)
		dfdr := (gamma/r - z) * f

		orb.F[i] = f
		orb.G[i] = ratio * f
		orb.DFDR[i] = dfdr
		orb.DGDR[i] = ratio * dfdr
	}

	orb.ReNormalize(lat, 1.0)
	return orb
}
