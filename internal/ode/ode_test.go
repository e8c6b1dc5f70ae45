package ode_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChennaDid/AMBiT/internal/lattice"
	"github.com/ChennaDid/AMBiT/internal/ode"
	"github.com/ChennaDid/AMBiT/internal/orbital"
	"github.com/ChennaDid/AMBiT/internal/physical"
	"github.com/ChennaDid/AMBiT/internal/spinor"
)

func coulombOperator(lat lattice.Lattice, z float64) *ode.HFOperator {
	direct := spinor.NewRadialFunction(lat.Size())
	for i := 0; i < lat.Size(); i++ {
		r := lat.R(i)
		direct.F[i] = z / r
		direct.DFDR[i] = -z / (r * r)
	}
	return ode.NewHFOperator(lat, physical.Default(), z, direct, nil)
}

func probeFunction(lat lattice.Lattice, kappa int) *spinor.Function {
	fg := spinor.New(kappa, lat.Size())
	for i := range fg.F {
		r := lat.R(i)
		fg.F[i] = r / (1 + r)
		fg.G[i] = -0.01 * r
	}
	return fg
}

// shiftDecorator adds a constant nonlocal term, standing in for an
// independent physical correction.
type shiftDecorator struct {
	ode.Decorator
	df, dg float64
}

func newShift(wrapped ode.SpinorODE, df, dg float64) *shiftDecorator {
	return &shiftDecorator{Decorator: ode.NewDecorator(wrapped), df: df, dg: dg}
}

func (d *shiftDecorator) ODEFunction(i int, fg *spinor.Function) [2]float64 {
	w := d.Decorator.ODEFunction(i, fg)
	if d.IncludeExchange() {
		w[0] += d.df
		w[1] -= d.dg
	}
	return w
}

func (d *shiftDecorator) ODECoefficients(i int, fg *spinor.Function) (wf, wg, wconst [2]float64) {
	wf, wg, wconst = d.Decorator.ODECoefficients(i, fg)
	if d.IncludeExchange() {
		wconst[0] += d.df
		wconst[1] -= d.dg
	}
	return wf, wg, wconst
}

func TestHFOperator_QueryFormsAgree(t *testing.T) {
	lat := lattice.NewExpLattice(200, 1e-4, 0.05)
	op := coulombOperator(lat, 2)
	fg := probeFunction(lat, -1)

	exchange := spinor.New(-1, lat.Size())
	for i := range exchange.F {
		exchange.F[i] = 0.05 / (1 + lat.R(i))
		exchange.G[i] = -0.001 * exchange.F[i]
	}
	op.SetParameters(-1, -0.9, exchange)

	for _, i := range []int{0, 1, 50, 120, 199} {
		w := op.ODEFunction(i, fg)
		wf, wg, wconst := op.ODECoefficients(i, fg)
		jacobian, _ := op.ODEJacobian(i, fg)

		assert.InDelta(t, w[0], wf[0]*fg.F[i]+wg[0]*fg.G[i]+wconst[0], 1e-14, "point %d, component 0", i)
		assert.InDelta(t, w[1], wf[1]*fg.F[i]+wg[1]*fg.G[i]+wconst[1], 1e-14, "point %d, component 1", i)

		// The system is linear: the Jacobian is the coefficient matrix.
		assert.Equal(t, wf[0], jacobian[0][0], "point %d", i)
		assert.Equal(t, wg[0], jacobian[0][1], "point %d", i)
		assert.Equal(t, wf[1], jacobian[1][0], "point %d", i)
		assert.Equal(t, wg[1], jacobian[1][1], "point %d", i)
	}
}

func TestDecoratorChain_OrderIndependent(t *testing.T) {
	lat := lattice.NewExpLattice(100, 1e-4, 0.05)
	fg := probeFunction(lat, 1)

	baseAB := coulombOperator(lat, 3)
	baseAB.SetParameters(1, -0.5, nil)
	chainAB := newShift(newShift(baseAB, 0.25, -0.125), -0.01, 0.02)

	baseBA := coulombOperator(lat, 3)
	baseBA.SetParameters(1, -0.5, nil)
	chainBA := newShift(newShift(baseBA, -0.01, 0.02), 0.25, -0.125)

	for i := 0; i < lat.Size(); i += 7 {
		wAB := chainAB.ODEFunction(i, fg)
		wBA := chainBA.ODEFunction(i, fg)
		assert.InDelta(t, wAB[0], wBA[0], 1e-15, "point %d", i)
		assert.InDelta(t, wAB[1], wBA[1], 1e-15, "point %d", i)

		_, _, wcAB := chainAB.ODECoefficients(i, fg)
		_, _, wcBA := chainBA.ODECoefficients(i, fg)
		assert.InDelta(t, wcAB[0], wcBA[0], 1e-15)
		assert.InDelta(t, wcAB[1], wcBA[1], 1e-15)
	}
}

func TestSetIncludeExchange_PropagatesDownChain(t *testing.T) {
	lat := lattice.NewExpLattice(50, 1e-4, 0.1)
	base := coulombOperator(lat, 1)

	exchange := spinor.New(-1, lat.Size())
	for i := range exchange.F {
		exchange.F[i] = 1
		exchange.G[i] = 1
	}
	base.SetParameters(-1, -0.5, exchange)

	chain := newShift(base, 0.5, 0.5)
	fg := probeFunction(lat, -1)

	withNonlocal := chain.ODEFunction(10, fg)
	chain.SetIncludeExchange(false)
	withoutNonlocal := chain.ODEFunction(10, fg)

	require.False(t, base.IncludeExchange(), "toggle must reach the wrapped operator")
	assert.NotEqual(t, withNonlocal, withoutNonlocal)

	_, _, wconst := chain.ODECoefficients(10, fg)
	assert.Zero(t, wconst[0])
	assert.Zero(t, wconst[1])
}

func TestDerivative_FillsStoredComponents(t *testing.T) {
	lat := lattice.NewExpLattice(80, 1e-4, 0.08)
	op := coulombOperator(lat, 1)
	op.SetParameters(-1, -0.5, nil)

	orb := orbital.New(-1, 1, -0.5, 60)
	for i := range orb.F {
		orb.F[i] = lat.R(i)
		orb.G[i] = -0.001 * lat.R(i)
	}

	ode.Derivative(op, orb)

	for _, i := range []int{0, 30, 59} {
		w := op.ODEFunction(i, &orb.Function)
		assert.Equal(t, w[0], orb.DFDR[i], "point %d", i)
		assert.Equal(t, w[1], orb.DGDR[i], "point %d", i)
	}
}

func TestEstimateNearOrigin_PowerSeriesSeed(t *testing.T) {
	lat := lattice.NewExpLattice(100, 1e-5, 0.1)
	op := coulombOperator(lat, 4)
	op.SetParameters(-1, -8.0, nil)

	fg := spinor.New(-1, 0)
	op.EstimateNearOrigin(10, fg)

	require.Equal(t, 10, fg.Size())
	for i := 1; i < 10; i++ {
		assert.Greater(t, fg.F[i], fg.F[i-1], "f must grow away from the origin")
	}
	// Ratio of consecutive powers r^gamma on an exponential grid is
	// constant.
	ratio1 := fg.F[1] / fg.F[0]
	ratio2 := fg.F[5] / fg.F[4]
	assert.InDelta(t, ratio1, ratio2, 1e-12)
}

func TestEstimateNearInfinity_DecaySeed(t *testing.T) {
	lat := lattice.NewExpLattice(120, 1e-4, 0.08)
	op := coulombOperator(lat, 1)

	orb := orbital.New(-1, 1, -0.5, 120)
	orb.F[100] = 0.3

	op.EstimateNearInfinity(20, orb)

	for i := 101; i < 120; i++ {
		assert.Less(t, orb.F[i], orb.F[i-1], "tail must decay")
		assert.Greater(t, orb.F[i], 0.0)
	}
	// g has opposite sign to f in the asymptotic region.
	assert.Less(t, orb.G[110], 0.0)
}
