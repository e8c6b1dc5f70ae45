package brueckner

import (
	"fmt"

	"github.com/ChennaDid/AMBiT/internal/interp"
	"github.com/ChennaDid/AMBiT/internal/ode"
	"github.com/ChennaDid/AMBiT/internal/orbital"
	"github.com/ChennaDid/AMBiT/internal/physical"
	"github.com/ChennaDid/AMBiT/internal/spinor"
)

// derivativeStencil is the differentiation order used when the cached
// nonlocal term needs derivatives for Jacobian queries.
const derivativeStencil = 6

// defaultMatrixStart skips the innermost lattice points where the
// second-order sigma is negligible and the kernel would be badly
// scaled.
const defaultMatrixStart = 100

// SigmaCalculator fills a sigma operator for one angular quantum
// number. The MBPT summation engines implementing it live outside this
// module.
type SigmaCalculator interface {
	GetSecondOrderSigma(kappa int, sigma *SigmaPotential) error
}

// CalculatorFactory derives a SigmaCalculator from an operator context,
// for callers that do not carry a fully-specified calculator.
type CalculatorFactory interface {
	NewCalculator(base ode.SpinorODE) SigmaCalculator
}

// Decorator adds the Brueckner self-energy to a wrapped operator chain.
// It stores one precomputed sigma per kappa; entries are created on
// first request (computed or loaded from disk) and live until Clear.
type Decorator struct {
	ode.Decorator

	constants physical.Constants
	interp    *interp.Interpolator

	lambda       float64
	useFG, useGG bool
	matrixStart  int

	sigmas  map[int]*SigmaPotential
	current *spinor.Function
}

// NewDecorator wraps an operator chain. Lambda defaults to 1 (no
// attenuation).
func NewDecorator(wrapped ode.SpinorODE, constants physical.Constants) *Decorator {
	d := &Decorator{
		Decorator:   ode.NewDecorator(wrapped),
		constants:   constants,
		interp:      interp.New(wrapped.Lattice()),
		lambda:      1.0,
		matrixStart: defaultMatrixStart,
		sigmas:      make(map[int]*SigmaPotential),
		current:     spinor.New(0, 0),
	}
	wrapped.Lattice().Subscribe(d)
	return d
}

// SetLambda sets the global attenuation of all stored corrections.
func (d *Decorator) SetLambda(lambda float64) { d.lambda = lambda }
func (d *Decorator) Lambda() float64          { return d.lambda }

// UseLowerKernels controls which lower-component kernels newly computed
// sigmas carry.
func (d *Decorator) UseLowerKernels(useFG, useGG bool) {
	d.useFG = useFG
	d.useGG = useGG
}

// SetMatrixStart sets the first lattice point newly computed sigmas
// cover.
func (d *Decorator) SetMatrixStart(start int) { d.matrixStart = start }

// Sigma returns the stored operator for kappa, or nil.
func (d *Decorator) Sigma(kappa int) *SigmaPotential { return d.sigmas[kappa] }

// Clear drops all stored operators.
func (d *Decorator) Clear() { d.sigmas = make(map[int]*SigmaPotential) }

// EnsureSigma computes and stores the operator for kappa if absent.
// Repeated calls are no-ops once an entry exists.
func (d *Decorator) EnsureSigma(kappa int, calc SigmaCalculator) error {
	if _, ok := d.sigmas[kappa]; ok {
		return nil
	}
	sigma := NewSigmaPotential(d.Lattice().Size(), d.matrixStart)
	sigma.IncludeLower(d.useFG, d.useGG)
	if err := calc.GetSecondOrderSigma(kappa, sigma); err != nil {
		return fmt.Errorf("brueckner: sigma for kappa %d: %w", kappa, err)
	}
	d.sigmas[kappa] = sigma
	return nil
}

// EnsureSigmaWith is EnsureSigma with the calculator derived from an
// operator context: the supplied bare operator if any, otherwise the
// wrapped chain.
func (d *Decorator) EnsureSigmaWith(kappa int, factory CalculatorFactory, bare ode.SpinorODE) error {
	if _, ok := d.sigmas[kappa]; ok {
		return nil
	}
	if bare == nil {
		bare = d.Wrapped
	}
	return d.EnsureSigma(kappa, factory.NewCalculator(bare))
}

func sigmaFilename(identifier string, kappa int) string {
	return fmt.Sprintf("%s.%d.sigma", identifier, kappa)
}

// ReadSigma installs a persisted operator for kappa. A missing or
// unreadable file means "not cached" and leaves the store unchanged.
func (d *Decorator) ReadSigma(identifier string, kappa int) {
	if sigma, ok := ReadSigmaFile(sigmaFilename(identifier, kappa)); ok {
		d.sigmas[kappa] = sigma
	}
}

// WriteSigma persists the stored operator for kappa, if any.
func (d *Decorator) WriteSigma(identifier string, kappa int) error {
	sigma, ok := d.sigmas[kappa]
	if !ok {
		return nil
	}
	return sigma.WriteFile(sigmaFilename(identifier, kappa))
}

// WriteAll persists every stored operator.
func (d *Decorator) WriteAll(identifier string) error {
	for kappa := range d.sigmas {
		if err := d.WriteSigma(identifier, kappa); err != nil {
			return err
		}
	}
	return nil
}

// Alert shrinks the cached nonlocal buffer if the lattice shrank below
// it. Stored sigmas are never resized: they live on their own fixed
// grid prefix and stay valid.
func (d *Decorator) Alert() {
	if d.current.Size() > d.Lattice().Size() {
		d.current.Resize(d.Lattice().Size())
	}
}

// ApplyTo evaluates the stored operator for the function's kappa,
// scaled by -lambda (the chain stores the negative of the physical
// potential). The operand is resized up to the operator's extent if
// needed, never down. With includeDerivative the result's derivative
// components are filled by fixed-stencil differentiation.
func (d *Decorator) ApplyTo(s *spinor.Function, includeDerivative bool) *spinor.Function {
	sigma, ok := d.sigmas[s.Kappa]
	if !ok {
		return spinor.New(s.Kappa, 0)
	}

	operand := s
	if s.Size() < sigma.Size() {
		operand = s.Clone()
		operand.Resize(sigma.Size())
	}
	ret := sigma.ApplyTo(operand, d.Lattice())
	ret.Scale(-d.lambda)

	if includeDerivative {
		d.interp.Derivative(ret.F, ret.DFDR, derivativeStencil)
		d.interp.Derivative(ret.G, ret.DGDR, derivativeStencil)
	}
	return ret
}

// SetParametersFromOrbital recomputes the cached nonlocal term for the
// new approximation after delegating down the chain.
func (d *Decorator) SetParametersFromOrbital(approx *orbital.Orbital) {
	d.Decorator.SetParametersFromOrbital(approx)
	d.current = d.ApplyTo(&approx.Function, true)
}

// SetParameters delegates and drops the cached term; without an
// approximate function there is nothing to apply the sigma to.
func (d *Decorator) SetParameters(kappa int, energy float64, exchange *spinor.Function) {
	d.Decorator.SetParameters(kappa, energy, exchange)
	d.current = spinor.New(kappa, 0)
}

// Exchange adds the self-energy term to the wrapped chain's nonlocal
// potential.
func (d *Decorator) Exchange(approx *orbital.Orbital) *spinor.Function {
	ret := d.Decorator.Exchange(approx)

	extra := d.current
	if approx != nil {
		extra = d.ApplyTo(&approx.Function, true)
	}
	if extra.Size() == 0 {
		return ret
	}
	if ret.Size() < extra.Size() {
		ret.Resize(extra.Size())
	} else if extra.Size() < ret.Size() {
		extra = extra.Clone()
		extra.Resize(ret.Size())
	}
	// Sizes aligned above; Plus cannot fail.
	_ = ret.Plus(extra)
	return ret
}

func (d *Decorator) ODEFunction(i int, fg *spinor.Function) [2]float64 {
	w := d.Decorator.ODEFunction(i, fg)
	if d.IncludeExchange() && i < d.current.Size() {
		alpha := d.constants.Alpha()
		w[0] += alpha * d.current.G[i]
		w[1] -= alpha * d.current.F[i]
	}
	return w
}

func (d *Decorator) ODECoefficients(i int, fg *spinor.Function) (wf, wg, wconst [2]float64) {
	wf, wg, wconst = d.Decorator.ODECoefficients(i, fg)
	if d.IncludeExchange() && i < d.current.Size() {
		alpha := d.constants.Alpha()
		wconst[0] += alpha * d.current.G[i]
		wconst[1] -= alpha * d.current.F[i]
	}
	return wf, wg, wconst
}

func (d *Decorator) ODEJacobian(i int, fg *spinor.Function) (jacobian [2][2]float64, dwdr [2]float64) {
	jacobian, dwdr = d.Decorator.ODEJacobian(i, fg)
	if d.IncludeExchange() && i < d.current.Size() {
		alpha := d.constants.Alpha()
		dwdr[0] += alpha * d.current.DGDR[i]
		dwdr[1] -= alpha * d.current.DFDR[i]
	}
	return jacobian, dwdr
}
