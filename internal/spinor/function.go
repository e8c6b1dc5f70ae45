package spinor

import (
	"math"

	"github.com/ChennaDid/AMBiT/internal/lattice"
)

// Function is a two-component radial wavefunction: large component F,
// small component G, and their derivatives with respect to radius.
// All four slices share one stored length, which may be smaller than
// the lattice; the function is zero beyond it.
type Function struct {
	Kappa int

	F    []float64
	G    []float64
	DFDR []float64
	DGDR []float64
}

// New allocates a zero function with the given relativistic angular
// quantum number and stored length.
func New(kappa, size int) *Function {
	return &Function{
		Kappa: kappa,
		F:     make([]float64, size),
		G:     make([]float64, size),
		DFDR:  make([]float64, size),
		DGDR:  make([]float64, size),
	}
}

func (s *Function) Size() int { return len(s.F) }

// Resize truncates or zero-extends all four components.
func (s *Function) Resize(n int) {
	s.F = resized(s.F, n)
	s.G = resized(s.G, n)
	s.DFDR = resized(s.DFDR, n)
	s.DGDR = resized(s.DGDR, n)
}

func (s *Function) Clone() *Function {
	c := New(s.Kappa, s.Size())
	copy(c.F, s.F)
	copy(c.G, s.G)
	copy(c.DFDR, s.DFDR)
	copy(c.DGDR, s.DGDR)
	return c
}

// Scale multiplies the function by a scalar.
func (s *Function) Scale(factor float64) {
	for i := range s.F {
		s.F[i] *= factor
		s.G[i] *= factor
		s.DFDR[i] *= factor
		s.DGDR[i] *= factor
	}
}

// Plus adds other pointwise. Sizes must match; use Resize to align first.
func (s *Function) Plus(other *Function) error {
	if s.Size() != other.Size() {
		return ErrSizeMismatch
	}
	for i := range s.F {
		s.F[i] += other.F[i]
		s.G[i] += other.G[i]
		s.DFDR[i] += other.DFDR[i]
		s.DGDR[i] += other.DGDR[i]
	}
	return nil
}

// Minus subtracts other pointwise. Sizes must match.
func (s *Function) Minus(other *Function) error {
	if s.Size() != other.Size() {
		return ErrSizeMismatch
	}
	for i := range s.F {
		s.F[i] -= other.F[i]
		s.G[i] -= other.G[i]
		s.DFDR[i] -= other.DFDR[i]
		s.DGDR[i] -= other.DGDR[i]
	}
	return nil
}

// TimesR multiplies the function pointwise by a radial factor. Beyond
// chi's stored length the factor is zero, so the product truncates to
// the shared prefix.
func (s *Function) TimesR(chi *RadialFunction) {
	n := s.Size()
	if chi.Size() < n {
		n = chi.Size()
	}
	for i := 0; i < n; i++ {
		s.DFDR[i] = s.DFDR[i]*chi.F[i] + s.F[i]*chi.DFDR[i]
		s.DGDR[i] = s.DGDR[i]*chi.F[i] + s.G[i]*chi.DFDR[i]
		s.F[i] *= chi.F[i]
		s.G[i] *= chi.F[i]
	}
	s.Resize(n)
}

// Norm returns the radial integral of (F^2 + G^2) over the stored
// domain, by composite Simpson quadrature with any trailing points that
// do not complete a Simpson pair added at unit weight.
func (s *Function) Norm(lat lattice.Lattice) float64 {
	n := s.Size()
	if lat.Size() < n {
		n = lat.Size()
	}
	if n == 0 {
		return 0
	}

	dens := func(i int) float64 {
		return (s.F[i]*s.F[i] + s.G[i]*s.G[i]) * lat.DR(i)
	}

	// Last index of the Simpson segment: an even index, giving an even
	// number of intervals.
	m := n - 1
	if m%2 != 0 {
		m--
	}
	if m < 2 {
		total := 0.0
		for i := 0; i < n; i++ {
			total += dens(i)
		}
		return total
	}

	acc := dens(0) + dens(m)
	for i := 1; i < m; i += 2 {
		acc += 4 * dens(i)
	}
	for i := 2; i < m; i += 2 {
		acc += 2 * dens(i)
	}
	norm := acc / 3

	for i := m + 1; i < n; i++ {
		norm += dens(i)
	}
	return norm
}

// MaxAbsF returns the largest magnitude of the large component and its
// index.
func (s *Function) MaxAbsF() (float64, int) {
	maximum := 0.0
	at := 0
	for i, v := range s.F {
		if math.Abs(v) >= maximum {
			maximum = math.Abs(v)
			at = i
		}
	}
	return maximum, at
}
