// Package interp provides fixed-stencil numerical differentiation on a
// non-uniform lattice, by differentiating the Lagrange interpolating
// polynomial through a sliding window of grid points.
package interp

import "github.com/ChennaDid/AMBiT/internal/lattice"

// Interpolator differentiates sampled functions on one lattice.
type Interpolator struct {
	lat lattice.Lattice
}

func New(lat lattice.Lattice) *Interpolator {
	return &Interpolator{lat: lat}
}

// Derivative fills dfdr with the derivative of f, using an order-point
// Lagrange stencil around each point. The stencil is exact for
// polynomials of degree order-1. Both slices are processed up to the
// shorter of len(f) and the lattice size.
func (ip *Interpolator) Derivative(f, dfdr []float64, order int) {
	n := len(f)
	if len(dfdr) < n {
		n = len(dfdr)
	}
	if ip.lat.Size() < n {
		n = ip.lat.Size()
	}
	if order > n {
		order = n
	}
	if order < 2 {
		for i := 0; i < n; i++ {
			dfdr[i] = 0
		}
		return
	}

	for i := 0; i < n; i++ {
		start := i - order/2
		if start < 0 {
			start = 0
		}
		if start > n-order {
			start = n - order
		}
		dfdr[i] = ip.stencilDerivative(f, i, start, order)
	}
}

// stencilDerivative evaluates d/dr of the Lagrange polynomial through
// points [start, start+order) at grid point i. At a node the basis
// derivatives reduce to
//
//	L_i'(x_i) = sum_{m != i} 1/(x_i - x_m)
//	L_j'(x_i) = prod_{m != i,j} (x_i - x_m) / prod_{m != j} (x_j - x_m)   (j != i)
func (ip *Interpolator) stencilDerivative(f []float64, i, start, order int) float64 {
	xi := ip.lat.R(i)
	deriv := 0.0

	for j := start; j < start+order; j++ {
		xj := ip.lat.R(j)

		if j == i {
			sum := 0.0
			for m := start; m < start+order; m++ {
				if m != i {
					sum += 1.0 / (xi - ip.lat.R(m))
				}
			}
			deriv += f[j] * sum
			continue
		}

		term := 1.0
		for m := start; m < start+order; m++ {
			if m == j {
				continue
			}
			xm := ip.lat.R(m)
			if m == i {
				term *= 1.0 / (xj - xm)
			} else {
				term *= (xi - xm) / (xj - xm)
			}
		}
		deriv += f[j] * term
	}
	return deriv
}
