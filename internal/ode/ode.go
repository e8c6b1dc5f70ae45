package ode

import (
	"github.com/ChennaDid/AMBiT/internal/lattice"
	"github.com/ChennaDid/AMBiT/internal/orbital"
	"github.com/ChennaDid/AMBiT/internal/spinor"
)

// SpinorODE is the contract between operators and the numerical
// integrators that drive them. Implementations are bound to one lattice
// and are lattice observers.
type SpinorODE interface {
	lattice.Observer

	// Lattice returns the grid the operator is defined on.
	Lattice() lattice.Lattice

	// SetParameters fixes the angular quantum number, energy and
	// nonlocal (exchange) term for subsequent queries. A nil exchange
	// means zero.
	SetParameters(kappa int, energy float64, exchange *spinor.Function)

	// SetParametersFromOrbital is SetParameters with the exchange term
	// computed from the given approximate orbital.
	SetParametersFromOrbital(approx *orbital.Orbital)

	// Exchange returns the nonlocal term for the given approximation,
	// or the currently stored one when approx is nil.
	Exchange(approx *orbital.Orbital) *spinor.Function

	// SetIncludeExchange toggles the nonlocal w_const contribution in
	// all three query forms. The setting propagates down a decorator
	// chain.
	SetIncludeExchange(include bool)
	IncludeExchange() bool

	// ODEFunction returns (df/dr, dg/dr) at lattice point i for the
	// sampled values fg.F[i], fg.G[i].
	ODEFunction(i int, fg *spinor.Function) [2]float64

	// ODECoefficients returns the linear coefficient arrays and the
	// constant (nonlocal) term of the system at point i.
	ODECoefficients(i int, fg *spinor.Function) (wf, wg, wconst [2]float64)

	// ODEJacobian returns dw[i]/d(f,g) and dw[i]/dr at point i.
	ODEJacobian(i int, fg *spinor.Function) (jacobian [2][2]float64, dwdr [2]float64)

	// EstimateNearOrigin seeds the first numpoints of fg with the
	// power-series behavior at the origin.
	EstimateNearOrigin(numpoints int, fg *spinor.Function)

	// EstimateNearInfinity seeds the last numpoints of the orbital with
	// the asymptotic decay. It may change the orbital's size.
	EstimateNearInfinity(numpoints int, orb *orbital.Orbital)
}

// Integrator drives a SpinorODE to produce a solved orbital. The
// numerical schemes themselves live outside this module.
type Integrator interface {
	Solve(op SpinorODE, orb *orbital.Orbital) error
}

// Derivative evaluates the operator at every stored point of fg and
// writes the result into the derivative components.
func Derivative(op SpinorODE, fg *orbital.Orbital) {
	n := fg.Size()
	if op.Lattice().Size() < n {
		n = op.Lattice().Size()
	}
	for i := 0; i < n; i++ {
		w := op.ODEFunction(i, &fg.Function)
		fg.DFDR[i] = w[0]
		fg.DGDR[i] = w[1]
	}
}

// Decorator wraps one SpinorODE instance and forwards every query
// unchanged. Concrete corrections embed it and override only the
// queries they augment, delegating first and adding their contribution
// after. The decorator wraps objects, not types: chains are assembled
// at runtime in any order.
type Decorator struct {
	Wrapped SpinorODE

	includeNonlocal bool
}

// NewDecorator wraps an existing operator.
func NewDecorator(wrapped SpinorODE) Decorator {
	return Decorator{Wrapped: wrapped, includeNonlocal: wrapped.IncludeExchange()}
}

// Alert does nothing; decorators that track per-lattice state override.
func (d *Decorator) Alert() {}

func (d *Decorator) Lattice() lattice.Lattice { return d.Wrapped.Lattice() }

func (d *Decorator) SetParameters(kappa int, energy float64, exchange *spinor.Function) {
	d.Wrapped.SetParameters(kappa, energy, exchange)
}

func (d *Decorator) SetParametersFromOrbital(approx *orbital.Orbital) {
	d.Wrapped.SetParametersFromOrbital(approx)
}

func (d *Decorator) Exchange(approx *orbital.Orbital) *spinor.Function {
	return d.Wrapped.Exchange(approx)
}

func (d *Decorator) SetIncludeExchange(include bool) {
	d.includeNonlocal = include
	d.Wrapped.SetIncludeExchange(include)
}

func (d *Decorator) IncludeExchange() bool { return d.includeNonlocal }

func (d *Decorator) ODEFunction(i int, fg *spinor.Function) [2]float64 {
	return d.Wrapped.ODEFunction(i, fg)
}

func (d *Decorator) ODECoefficients(i int, fg *spinor.Function) (wf, wg, wconst [2]float64) {
	return d.Wrapped.ODECoefficients(i, fg)
}

func (d *Decorator) ODEJacobian(i int, fg *spinor.Function) (jacobian [2][2]float64, dwdr [2]float64) {
	return d.Wrapped.ODEJacobian(i, fg)
}

func (d *Decorator) EstimateNearOrigin(numpoints int, fg *spinor.Function) {
	d.Wrapped.EstimateNearOrigin(numpoints, fg)
}

func (d *Decorator) EstimateNearInfinity(numpoints int, orb *orbital.Orbital) {
	d.Wrapped.EstimateNearInfinity(numpoints, orb)
}
