package spinor

// RadialFunction is a scalar function of radius with its derivative,
// sampled on a lattice prefix.
type RadialFunction struct {
	F    []float64
	DFDR []float64
}

// NewRadialFunction allocates a zero radial function of the given size.
func NewRadialFunction(size int) *RadialFunction {
	return &RadialFunction{
		F:    make([]float64, size),
		DFDR: make([]float64, size),
	}
}

func (chi *RadialFunction) Size() int { return len(chi.F) }

// Resize truncates or zero-extends the function.
func (chi *RadialFunction) Resize(n int) {
	chi.F = resized(chi.F, n)
	chi.DFDR = resized(chi.DFDR, n)
}

func (chi *RadialFunction) Clone() *RadialFunction {
	c := NewRadialFunction(chi.Size())
	copy(c.F, chi.F)
	copy(c.DFDR, chi.DFDR)
	return c
}

func (chi *RadialFunction) Scale(factor float64) {
	for i := range chi.F {
		chi.F[i] *= factor
		chi.DFDR[i] *= factor
	}
}

// Plus adds other pointwise. Sizes must match.
func (chi *RadialFunction) Plus(other *RadialFunction) error {
	if chi.Size() != other.Size() {
		return ErrSizeMismatch
	}
	for i := range chi.F {
		chi.F[i] += other.F[i]
		chi.DFDR[i] += other.DFDR[i]
	}
	return nil
}

func resized(v []float64, n int) []float64 {
	if n <= cap(v) {
		grown := v[:n]
		for i := len(v); i < n; i++ {
			grown[i] = 0
		}
		return grown
	}
	grown := make([]float64, n)
	copy(grown, v)
	return grown
}
