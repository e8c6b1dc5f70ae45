package brueckner

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ChennaDid/AMBiT/internal/lattice"
	"github.com/ChennaDid/AMBiT/internal/ode"
	"github.com/ChennaDid/AMBiT/internal/orbital"
	"github.com/ChennaDid/AMBiT/internal/physical"
	"github.com/ChennaDid/AMBiT/internal/spinor"
)

func orbitalFrom(fg *spinor.Function) *orbital.Orbital {
	orb := orbital.New(fg.Kappa, 1, -0.5, 0)
	orb.Function = *fg.Clone()
	return orb
}

// gaussianCalculator fills a sigma with a smooth separable kernel.
type gaussianCalculator struct {
	lat   lattice.Lattice
	calls int
}

func (c *gaussianCalculator) GetSecondOrderSigma(kappa int, sigma *SigmaPotential) error {
	c.calls++
	for i := sigma.Start(); i < sigma.Size(); i++ {
		for j := sigma.Start(); j < sigma.Size(); j++ {
			dr := c.lat.R(i) - c.lat.R(j)
			sigma.AddToFF(i, j, math.Exp(-dr*dr))
		}
	}
	return nil
}

func newTestChain(t *testing.T) (*lattice.ExpLattice, *Decorator) {
	t.Helper()
	lat := lattice.NewExpLattice(60, 1e-3, 0.08)

	direct := spinor.NewRadialFunction(lat.Size())
	for i := 0; i < lat.Size(); i++ {
		direct.F[i] = 1.0 / lat.R(i)
		direct.DFDR[i] = -1.0 / (lat.R(i) * lat.R(i))
	}
	base := ode.NewHFOperator(lat, physical.Default(), 1, direct, nil)
	base.SetParameters(-1, -0.5, nil)

	return lat, NewDecorator(base, physical.Default())
}

func probe(lat lattice.Lattice, kappa, size int) *spinor.Function {
	fg := spinor.New(kappa, size)
	for i := 0; i < size; i++ {
		fg.F[i] = lat.R(i) * math.Exp(-lat.R(i))
		fg.G[i] = -0.005 * fg.F[i]
	}
	return fg
}

func TestEnsureSigma_Idempotent(t *testing.T) {
	lat, d := newTestChain(t)
	d.SetMatrixStart(5)
	calc := &gaussianCalculator{lat: lat}

	require.NoError(t, d.EnsureSigma(-1, calc))
	require.NoError(t, d.EnsureSigma(-1, calc))
	require.NoError(t, d.EnsureSigma(-1, calc))

	assert.Equal(t, 1, calc.calls, "sigma must be computed once per kappa")
	assert.NotNil(t, d.Sigma(-1))
	assert.Nil(t, d.Sigma(2))
}

func TestApplyTo_ScaleAndResize(t *testing.T) {
	lat, d := newTestChain(t)
	d.SetMatrixStart(5)
	require.NoError(t, d.EnsureSigma(-1, &gaussianCalculator{lat: lat}))

	// Operand shorter than the sigma extent: resized up, never down.
	short := probe(lat, -1, 20)
	full := d.ApplyTo(short, false)
	assert.Equal(t, d.Sigma(-1).Size(), full.Size())

	// Lambda attenuates linearly; the stored potential is -V.
	d.SetLambda(0.5)
	half := d.ApplyTo(short, false)
	for i := 0; i < full.Size(); i++ {
		assert.InDelta(t, 0.5*full.F[i], half.F[i], 1e-15)
	}

	// Unknown kappa: no stored operator, empty result.
	other := probe(lat, 2, 20)
	assert.Zero(t, d.ApplyTo(other, false).Size())
}

func TestApplyTo_SignConvention(t *testing.T) {
	lat, d := newTestChain(t)
	d.SetMatrixStart(5)
	require.NoError(t, d.EnsureSigma(-1, &gaussianCalculator{lat: lat}))

	fg := probe(lat, -1, lat.Size())
	ret := d.ApplyTo(fg, false)

	// Positive kernel, positive f, lambda = 1: the -lambda scaling
	// makes the stored correction negative.
	mid := (d.Sigma(-1).Start() + d.Sigma(-1).Size()) / 2
	assert.Negative(t, ret.F[mid])
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	lat, d := newTestChain(t)
	d.SetMatrixStart(5)
	require.NoError(t, d.EnsureSigma(-1, &gaussianCalculator{lat: lat}))

	identifier := filepath.Join(t.TempDir(), "TestAtom")
	require.NoError(t, d.WriteAll(identifier))

	_, fresh := newTestChain(t)
	fresh.SetMatrixStart(5)
	fresh.ReadSigma(identifier, -1)
	require.NotNil(t, fresh.Sigma(-1), "persisted sigma should install on load")

	fg := probe(lat, -1, lat.Size())
	want := d.ApplyTo(fg, false)
	got := fresh.ApplyTo(fg, false)

	require.Equal(t, want.Size(), got.Size())
	for i := 0; i < want.Size(); i++ {
		assert.InDelta(t, want.F[i], got.F[i], 1e-12, "point %d", i)
	}
}

func TestReadSigma_MissingFileIsCacheMiss(t *testing.T) {
	_, d := newTestChain(t)
	d.ReadSigma(filepath.Join(t.TempDir(), "nothing_here"), -1)
	assert.Nil(t, d.Sigma(-1))
}

// A header whose dim does not match the payload must be a cache miss,
// and must be rejected before any dim^2 kernel allocation.
func TestReadSigmaFile_CorruptHeaderIsCacheMiss(t *testing.T) {
	dir := t.TempDir()

	write := func(name string, start, dim uint32, flags []byte, payload int) string {
		path := filepath.Join(dir, name)
		fp, err := os.Create(path)
		require.NoError(t, err)
		require.NoError(t, binary.Write(fp, binary.LittleEndian, start))
		require.NoError(t, binary.Write(fp, binary.LittleEndian, dim))
		require.NoError(t, binary.Write(fp, binary.LittleEndian, flags))
		require.NoError(t, binary.Write(fp, binary.LittleEndian, make([]float64, payload)))
		require.NoError(t, fp.Close())
		return path
	}

	// dim claims far more data than the file holds.
	if _, ok := ReadSigmaFile(write("huge.sigma", 5, 1<<30, []byte{0, 0}, 4)); ok {
		t.Error("oversized dim accepted")
	}
	// Truncated payload for a plausible dim.
	if _, ok := ReadSigmaFile(write("short.sigma", 5, 10, []byte{0, 0}, 10*10-3)); ok {
		t.Error("truncated payload accepted")
	}
	// A consistent header still loads.
	if _, ok := ReadSigmaFile(write("good.sigma", 5, 10, []byte{1, 0}, 2*10*10)); !ok {
		t.Error("well-formed file rejected")
	}
}

func TestODEQueries_AugmentedConsistently(t *testing.T) {
	lat, d := newTestChain(t)
	d.SetMatrixStart(5)
	require.NoError(t, d.EnsureSigma(-1, &gaussianCalculator{lat: lat}))

	approx := probe(lat, -1, lat.Size())
	orb := orbitalFrom(approx)
	d.SetParametersFromOrbital(orb)

	fg := probe(lat, -1, lat.Size())
	for _, i := range []int{6, 20, 40, 59} {
		w := d.ODEFunction(i, fg)
		wf, wg, wconst := d.ODECoefficients(i, fg)

		assert.InDelta(t, w[0], wf[0]*fg.F[i]+wg[0]*fg.G[i]+wconst[0], 1e-13, "point %d", i)
		assert.InDelta(t, w[1], wf[1]*fg.F[i]+wg[1]*fg.G[i]+wconst[1], 1e-13, "point %d", i)
	}

	// Toggling the nonlocal term off removes the augmentation.
	before := d.ODEFunction(20, fg)
	d.SetIncludeExchange(false)
	after := d.ODEFunction(20, fg)
	assert.NotEqual(t, before, after)
}

func TestAlert_ShrinksCachedBufferOnly(t *testing.T) {
	lat, d := newTestChain(t)
	d.SetMatrixStart(5)
	require.NoError(t, d.EnsureSigma(-1, &gaussianCalculator{lat: lat}))

	approx := probe(lat, -1, lat.Size())
	d.SetParametersFromOrbital(orbitalFrom(approx))
	sigmaSize := d.Sigma(-1).Size()

	lat.Resize(30)

	assert.LessOrEqual(t, d.current.Size(), 30, "cached buffer must shrink with the lattice")
	assert.Equal(t, sigmaSize, d.Sigma(-1).Size(), "stored sigmas keep their own grid")
}
