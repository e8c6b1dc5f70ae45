package lattice

import "math"

// Observer is notified synchronously after a lattice changes size.
// Implementations that do not care about the new size may no-op.
type Observer interface {
	Alert()
}

// Lattice is a discretized radial coordinate: strictly increasing points
// r[0..Size) with r[0] > 0, paired with local spacings dr[i].
type Lattice interface {
	// R returns the radial coordinate of point i.
	R(i int) float64
	// DR returns the local spacing at point i.
	DR(i int) float64
	// Size returns the number of points.
	Size() int
	// Resize reallocates the grid to n points, recomputing every
	// coordinate from the defining mapping, and alerts observers.
	Resize(n int)
	// Subscribe registers an observer for resize notification. The
	// lattice does not own its observers.
	Subscribe(o Observer)
}

// base carries the sampled arrays and observer list shared by the
// concrete mappings.
type base struct {
	r, dr     []float64
	observers []Observer
}

func (b *base) R(i int) float64  { return b.r[i] }
func (b *base) DR(i int) float64 { return b.dr[i] }
func (b *base) Size() int        { return len(b.r) }

func (b *base) Subscribe(o Observer) {
	b.observers = append(b.observers, o)
}

func (b *base) alertAll() {
	for _, o := range b.observers {
		o.Alert()
	}
}

// ExpLattice maps point i to r = rmin*exp(h*i), dr = r*h.
type ExpLattice struct {
	base
	rmin float64
	h    float64
}

// NewExpLattice builds an exponential grid of numpoints points starting
// at rmin > 0 with logarithmic step h > 0.
func NewExpLattice(numpoints int, rmin, h float64) *ExpLattice {
	lat := &ExpLattice{rmin: rmin, h: h}
	lat.fill(numpoints)
	return lat
}

func (lat *ExpLattice) fill(n int) {
	lat.r = make([]float64, n)
	lat.dr = make([]float64, n)
	for i := 0; i < n; i++ {
		lat.r[i] = lat.rmin * math.Exp(lat.h*float64(i))
		lat.dr[i] = lat.r[i] * lat.h
	}
}

func (lat *ExpLattice) Resize(n int) {
	if n == lat.Size() {
		return
	}
	lat.fill(n)
	lat.alertAll()
}

// Rmin returns the first grid point.
func (lat *ExpLattice) Rmin() float64 { return lat.rmin }

// H returns the logarithmic step.
func (lat *ExpLattice) H() float64 { return lat.h }

// Equal reports whether two exponential lattices share the same defining
// parameters. Sampled values are not compared; two grids with equal
// (h, rmin) describe the same coordinate mapping at any size.
func (lat *ExpLattice) Equal(other *ExpLattice) bool {
	return lat.h == other.h && lat.rmin == other.rmin
}

// UniformLattice maps point i to r = rmin + d*i with constant spacing d.
type UniformLattice struct {
	base
	rmin float64
	d    float64
}

// NewUniformLattice builds an evenly spaced grid of numpoints points
// starting at rmin > 0 with spacing d > 0.
func NewUniformLattice(numpoints int, rmin, d float64) *UniformLattice {
	lat := &UniformLattice{rmin: rmin, d: d}
	lat.fill(numpoints)
	return lat
}

func (lat *UniformLattice) fill(n int) {
	lat.r = make([]float64, n)
	lat.dr = make([]float64, n)
	for i := 0; i < n; i++ {
		lat.r[i] = lat.rmin + lat.d*float64(i)
		lat.dr[i] = lat.d
	}
}

func (lat *UniformLattice) Resize(n int) {
	if n == lat.Size() {
		return
	}
	lat.fill(n)
	lat.alertAll()
}
