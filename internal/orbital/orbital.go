package orbital

import (
	"fmt"
	"math"

	"github.com/ChennaDid/AMBiT/internal/lattice"
	"github.com/ChennaDid/AMBiT/internal/spinor"
)

// Decay ratios steeper than this are clamped when extrapolating the
// tail, guaranteeing the extension loop terminates.
const maxTailRatio = 0.96

// Thresholds for node counting, relative to the peak amplitude. The
// head threshold suppresses start-up noise near the origin; the tail
// threshold suppresses oscillation artifacts from approximate exchange.
const (
	nodeHeadThreshold = 1e-7
	nodeTailThreshold = 1e-2
)

// Orbital is a spinor wavefunction tagged with quantum numbers, energy
// and occupancy.
type Orbital struct {
	spinor.Function
	PQN       int
	Energy    float64
	Occupancy float64
}

// New returns a zero orbital. Occupancy defaults to the filled-shell
// value 2|kappa|.
func New(kappa, pqn int, energy float64, size int) *Orbital {
	return &Orbital{
		Function:  *spinor.New(kappa, size),
		PQN:       pqn,
		Energy:    energy,
		Occupancy: float64(2 * abs(kappa)),
	}
}

// Clone returns a deep copy.
func (o *Orbital) Clone() *Orbital {
	c := *o
	c.Function = *o.Function.Clone()
	return &c
}

// Info returns the (pqn, kappa) key.
func (o *Orbital) Info() Info {
	return Info{PQN: o.PQN, Kappa: o.Kappa}
}

// Name returns the spectroscopic name.
func (o *Orbital) Name() string {
	return o.Info().Name()
}

func (o *Orbital) String() string {
	return fmt.Sprintf("%s (E = %.6f, occ = %g, size = %d)", o.Name(), o.Energy, o.Occupancy, o.Size())
}

// ReNormalize scales the orbital so that its norm equals target. A zero
// scale factor (degenerate function) leaves the orbital untouched.
func (o *Orbital) ReNormalize(lat lattice.Lattice, target float64) {
	scaling := math.Sqrt(target / o.Norm(lat))
	if scaling != 0 {
		o.Scale(scaling)
	}
}

// NumNodes counts sign changes of the large component, ignoring leading
// samples below 1e-7 of the peak and trailing samples below 1e-2 of the
// peak.
func (o *Orbital) NumNodes() int {
	fmax, _ := o.MaxAbsF()
	if fmax == 0 {
		return 0
	}

	end := o.Size() - 1
	for math.Abs(o.F[end]) < nodeTailThreshold*fmax {
		end--
	}

	i := 0
	prev := o.F[0]
	for math.Abs(prev) < nodeHeadThreshold*fmax {
		prev = o.F[i]
		i++
	}

	zeros := 0
	for i < end {
		if o.F[i]*prev < 0 {
			zeros++
		}
		prev = o.F[i]
		i++
	}
	return zeros
}

// CheckSize bounds the stored length to the numerically significant
// support of the orbital, relative to the peak of the large component.
//
// It returns (true, nil) when the significant region exactly fills the
// array. Otherwise it grows the orbital by exponential-tail
// extrapolation or shrinks it to just past the last significant point,
// and returns (false, nil): the caller must re-solve at the new size and
// check again. An amplitude below 100*tolerance is reported as
// ErrDegenerate.
//
// Growing may enlarge the lattice, which alerts lattice observers.
func (o *Orbital) CheckSize(lat lattice.Lattice, tolerance float64) (bool, error) {
	maximum, _ := o.MaxAbsF()
	if maximum < 100*tolerance {
		return false, fmt.Errorf("%s: %w", o.Name(), ErrDegenerate)
	}

	last := o.Size() - 1
	i := last
	for math.Abs(o.F[i])/maximum < tolerance {
		i--
	}

	switch {
	case i == last:
		o.growTail(lat, maximum, tolerance)
		return false, nil

	case i+2 < o.Size():
		o.Resize(i + 2)
		return false, nil

	default:
		return true, nil
	}
}

// growTail extends the orbital by exponential decay of the last stable
// ratio of consecutive samples, adjusted for local step-size variation.
func (o *Orbital) growTail(lat lattice.Lattice, maximum, tolerance float64) {
	// Strip off any nearby node so the decay ratios are stable.
	max := o.Size()
	var fMax, fRatio, gRatio float64
	for {
		max--
		fMax = math.Abs(o.F[max])
		fRatio = o.F[max] / o.F[max-1]
		gRatio = o.G[max] / o.G[max-1]
		if !(fRatio < 0 || gRatio < 0) {
			break
		}
	}
	if math.IsNaN(gRatio) {
		// g identically zero gives 0/0; fall back to the f ratio.
		gRatio = fRatio
	}

	if fRatio > maxTailRatio {
		fRatio = maxTailRatio
	}
	if gRatio > maxTailRatio {
		gRatio = maxTailRatio
	}
	logFRatio := math.Log(fRatio)
	logGRatio := math.Log(gRatio)
	drMax := lat.R(max) - lat.R(max-1)

	// Estimate the new size assuming constant spacing; a slight
	// overestimate on an expanding grid.
	oldSize := max
	for fMax/maximum >= tolerance {
		max++
		fMax *= fRatio
	}
	o.Resize(max + 1)
	if lat.Size() < max+2 {
		lat.Resize(max + 2)
	}

	i := oldSize
	for i < max && math.Abs(o.F[i])/maximum > tolerance {
		d2r := (lat.R(i+1)-lat.R(i))/drMax - 1.0

		o.F[i+1] = o.F[i] * fRatio * (1.0 + logFRatio*d2r)
		o.G[i+1] = o.G[i] * gRatio * (1.0 + logGRatio*d2r)
		i++
	}
	o.Resize(i + 1)
}
