package ode

import (
	"math"

	"github.com/ChennaDid/AMBiT/internal/lattice"
	"github.com/ChennaDid/AMBiT/internal/orbital"
	"github.com/ChennaDid/AMBiT/internal/physical"
	"github.com/ChennaDid/AMBiT/internal/spinor"
)

// ExchangeSource computes the nonlocal exchange term for an approximate
// orbital. The Coulomb-integral engine behind it is an external
// collaborator.
type ExchangeSource interface {
	Exchange(approx *orbital.Orbital) *spinor.Function
}

// HFOperator is the base Hartree-Fock differential operator. The direct
// potential is stored as -V (positive values for an attractive
// potential). The coupled system is
//
//	df/dr = -(kappa/r) f + (2/alpha + alpha(E + V)) g + alpha*ex.G
//	dg/dr = -alpha(E + V) f + (kappa/r) g - alpha*ex.F
type HFOperator struct {
	lat       lattice.Lattice
	constants physical.Constants

	// Z is the nuclear charge, used by the origin estimator.
	Z float64

	direct   *spinor.RadialFunction
	source   ExchangeSource
	exchange *spinor.Function

	kappa           int
	energy          float64
	includeNonlocal bool
}

// NewHFOperator builds the base operator for nuclear charge z with the
// given direct potential (stored as -V). A nil source means zero
// exchange until SetParameters supplies one.
func NewHFOperator(lat lattice.Lattice, constants physical.Constants, z float64, direct *spinor.RadialFunction, source ExchangeSource) *HFOperator {
	op := &HFOperator{
		lat:             lat,
		constants:       constants,
		Z:               z,
		direct:          direct,
		source:          source,
		exchange:        spinor.New(0, 0),
		includeNonlocal: true,
	}
	lat.Subscribe(op)
	return op
}

// Alert truncates the stored exchange term if the lattice shrank below
// it. The direct potential is owned by the caller.
func (op *HFOperator) Alert() {
	if op.exchange.Size() > op.lat.Size() {
		op.exchange.Resize(op.lat.Size())
	}
}

func (op *HFOperator) Lattice() lattice.Lattice { return op.lat }

// DirectPotential returns the stored -V array.
func (op *HFOperator) DirectPotential() *spinor.RadialFunction { return op.direct }

func (op *HFOperator) SetParameters(kappa int, energy float64, exchange *spinor.Function) {
	op.kappa = kappa
	op.energy = energy
	if exchange != nil {
		op.exchange = exchange
	} else {
		op.exchange = spinor.New(kappa, 0)
	}
}

func (op *HFOperator) SetParametersFromOrbital(approx *orbital.Orbital) {
	op.SetParameters(approx.Kappa, approx.Energy, op.Exchange(approx))
}

func (op *HFOperator) Exchange(approx *orbital.Orbital) *spinor.Function {
	if approx == nil {
		return op.exchange.Clone()
	}
	if op.source == nil {
		return spinor.New(approx.Kappa, 0)
	}
	return op.source.Exchange(approx)
}

func (op *HFOperator) SetIncludeExchange(include bool) { op.includeNonlocal = include }
func (op *HFOperator) IncludeExchange() bool           { return op.includeNonlocal }

// potential returns -V at point i; zero beyond the stored length.
func (op *HFOperator) potential(i int) (v, dvdr float64) {
	if i < op.direct.Size() {
		return op.direct.F[i], op.direct.DFDR[i]
	}
	return 0, 0
}

func (op *HFOperator) ODEFunction(i int, fg *spinor.Function) [2]float64 {
	wf, wg, wconst := op.ODECoefficients(i, fg)
	return [2]float64{
		wf[0]*fg.F[i] + wg[0]*fg.G[i] + wconst[0],
		wf[1]*fg.F[i] + wg[1]*fg.G[i] + wconst[1],
	}
}

func (op *HFOperator) ODECoefficients(i int, fg *spinor.Function) (wf, wg, wconst [2]float64) {
	alpha := op.constants.Alpha()
	r := op.lat.R(i)
	v, _ := op.potential(i)
	kappaOnR := float64(op.kappa) / r

	wf[0] = -kappaOnR
	wg[0] = 2.0/alpha + alpha*(op.energy+v)
	wf[1] = -alpha * (op.energy + v)
	wg[1] = kappaOnR

	if op.includeNonlocal && i < op.exchange.Size() {
		wconst[0] = alpha * op.exchange.G[i]
		wconst[1] = -alpha * op.exchange.F[i]
	}
	return wf, wg, wconst
}

func (op *HFOperator) ODEJacobian(i int, fg *spinor.Function) (jacobian [2][2]float64, dwdr [2]float64) {
	alpha := op.constants.Alpha()
	r := op.lat.R(i)
	v, dvdr := op.potential(i)
	kappaOnR := float64(op.kappa) / r

	jacobian[0][0] = -kappaOnR
	jacobian[0][1] = 2.0/alpha + alpha*(op.energy+v)
	jacobian[1][0] = -alpha * (op.energy + v)
	jacobian[1][1] = kappaOnR

	dwdr[0] = kappaOnR/r*fg.F[i] + alpha*dvdr*fg.G[i]
	dwdr[1] = -alpha*dvdr*fg.F[i] - kappaOnR/r*fg.G[i]

	if op.includeNonlocal && i < op.exchange.Size() {
		dwdr[0] += alpha * op.exchange.DGDR[i]
		dwdr[1] -= alpha * op.exchange.DFDR[i]
	}
	return jacobian, dwdr
}

// EstimateNearOrigin seeds fg with the point-nucleus power series
// f ~ r^gamma, gamma = sqrt(kappa^2 - (Z*alpha)^2).
func (op *HFOperator) EstimateNearOrigin(numpoints int, fg *spinor.Function) {
	alpha := op.constants.Alpha()
	zAlpha := op.Z * alpha
	k := float64(op.kappa)
	gamma := math.Sqrt(k*k - zAlpha*zAlpha)
	gOnF := (gamma + k) / zAlpha

	if fg.Size() < numpoints {
		fg.Resize(numpoints)
	}
	for i := 0; i < numpoints; i++ {
		r := op.lat.R(i)
		fg.F[i] = math.Pow(r, gamma)
		fg.G[i] = gOnF * fg.F[i]
		fg.DFDR[i] = gamma * fg.F[i] / r
		fg.DGDR[i] = gOnF * fg.DFDR[i]
	}
}

// EstimateNearInfinity seeds the last numpoints of orb with exponential
// decay exp(-lambda*r), lambda = sqrt(-2E), continuous with the first
// seeded point.
func (op *HFOperator) EstimateNearInfinity(numpoints int, orb *orbital.Orbital) {
	if orb.Size() < numpoints {
		orb.Resize(numpoints)
	}
	alpha := op.constants.Alpha()
	lambda := math.Sqrt(-2.0 * orb.Energy)

	start := orb.Size() - numpoints
	scale := orb.F[start]
	if scale == 0 {
		scale = 1
	}
	r0 := op.lat.R(start)
	for i := start; i < orb.Size(); i++ {
		r := op.lat.R(i)
		orb.F[i] = scale * math.Exp(-lambda*(r-r0))
		orb.G[i] = -0.5 * alpha * lambda * orb.F[i]
		orb.DFDR[i] = -lambda * orb.F[i]
		orb.DGDR[i] = -lambda * orb.G[i]
	}
}
