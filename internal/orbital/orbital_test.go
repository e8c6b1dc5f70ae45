package orbital

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ChennaDid/AMBiT/internal/lattice"
)

func TestReNormalize_Idempotent(t *testing.T) {
	lat := lattice.NewUniformLattice(101, 0.1, 0.01)
	o := New(-1, 1, -0.5, 101)
	for i := range o.F {
		o.F[i] = math.Exp(-lat.R(i))
		o.G[i] = 0.01 * o.F[i]
	}

	o.ReNormalize(lat, 1.0)
	first := o.Norm(lat)
	if math.Abs(first-1.0) > 1e-12 {
		t.Fatalf("norm after ReNormalize = %v, want 1", first)
	}

	o.ReNormalize(lat, 1.0)
	second := o.Norm(lat)
	if math.Abs(second-first) > 1e-14 {
		t.Errorf("second ReNormalize changed norm by %v", second-first)
	}
}

func TestNumNodes_IgnoresSubThresholdNoise(t *testing.T) {
	o := New(-1, 4, -0.1, 50)
	// Start-up noise below 1e-7 of the peak.
	o.F[0], o.F[1], o.F[2] = 1e-9, -1e-9, 1e-9
	// Three interior sign changes at full amplitude.
	for i := 3; i < 10; i++ {
		o.F[i] = 1
	}
	for i := 10; i < 20; i++ {
		o.F[i] = -1
	}
	for i := 20; i < 30; i++ {
		o.F[i] = 1
	}
	for i := 30; i < 40; i++ {
		o.F[i] = -1
	}
	// Exchange-tail oscillation below 1e-2 of the peak.
	for i := 40; i < 50; i++ {
		o.F[i] = 1e-3
		if i%2 == 0 {
			o.F[i] = -1e-3
		}
	}

	if got := o.NumNodes(); got != 3 {
		t.Errorf("NumNodes = %d, want 3", got)
	}
}

func TestNumNodes_NodelessGroundState(t *testing.T) {
	lat := lattice.NewUniformLattice(80, 0.05, 0.05)
	o := New(-1, 1, -0.5, 80)
	for i := range o.F {
		o.F[i] = lat.R(i) * math.Exp(-lat.R(i))
	}
	if got := o.NumNodes(); got != 0 {
		t.Errorf("NumNodes = %d, want 0", got)
	}
}

func TestCheckSize_ShrinksToSignificantSupport(t *testing.T) {
	const (
		size = 100
		k    = 40
		tol  = 1e-6
	)
	lat := lattice.NewUniformLattice(size, 0.1, 0.01)
	o := New(-1, 1, -0.5, size)
	for i := 0; i <= k; i++ {
		o.F[i] = 1
		o.G[i] = 0.01
	}
	// Decay fast enough that everything past k is below tolerance.
	for i := k + 1; i < size; i++ {
		o.F[i] = math.Pow(1e-7, float64(i-k))
	}

	converged, err := o.CheckSize(lat, tol)
	if err != nil {
		t.Fatalf("CheckSize: %v", err)
	}
	if converged {
		t.Fatal("expected not converged after shrink")
	}
	if o.Size() != k+2 {
		t.Fatalf("size after shrink = %d, want %d", o.Size(), k+2)
	}

	// The converged state is stable.
	converged, err = o.CheckSize(lat, tol)
	if err != nil {
		t.Fatalf("CheckSize: %v", err)
	}
	if !converged {
		t.Error("expected converged on second pass")
	}
}

func TestCheckSize_GrowsUndecayedTail(t *testing.T) {
	const (
		size = 50
		tol  = 1e-6
	)
	lat := lattice.NewUniformLattice(60, 0.1, 0.01)
	o := New(-1, 2, -0.125, size)
	for i := 0; i < size; i++ {
		o.F[i] = math.Pow(0.9, float64(i))
		o.G[i] = 0.5 * o.F[i]
	}

	converged, err := o.CheckSize(lat, tol)
	if err != nil {
		t.Fatalf("CheckSize: %v", err)
	}
	if converged {
		t.Fatal("expected not converged after growth")
	}
	if o.Size() <= size {
		t.Fatalf("size after growth = %d, want > %d", o.Size(), size)
	}
	if lat.Size() < o.Size() {
		t.Errorf("lattice (%d points) was not grown to cover the orbital (%d points)", lat.Size(), o.Size())
	}

	// The extrapolated tail must actually decay below tolerance.
	last := math.Abs(o.F[o.Size()-1])
	if last >= tol {
		t.Errorf("tail amplitude %v still above tolerance", last)
	}

	converged, err = o.CheckSize(lat, tol)
	if err != nil {
		t.Fatalf("CheckSize after growth: %v", err)
	}
	if !converged {
		t.Error("expected converged after tail extension")
	}
}

func TestCheckSize_DegenerateOrbital(t *testing.T) {
	lat := lattice.NewUniformLattice(20, 0.1, 0.01)
	o := New(-1, 1, -0.5, 20)
	for i := range o.F {
		o.F[i] = 1e-9
	}

	_, err := o.CheckSize(lat, 1e-6)
	if !errors.Is(err, ErrDegenerate) {
		t.Errorf("got %v, want ErrDegenerate", err)
	}
}

func TestReadWrite_RoundTrip(t *testing.T) {
	o := New(-2, 3, -0.314, 25)
	o.Occupancy = 2.5
	for i := range o.F {
		o.F[i] = float64(i) * 0.1
		o.G[i] = -float64(i) * 0.01
		o.DFDR[i] = 0.1
		o.DGDR[i] = -0.01
	}

	var buf bytes.Buffer
	if err := o.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}

	got := New(0, 0, 0, 0)
	if err := got.Read(&buf); err != nil {
		t.Fatalf("Read: %v", err)
	}
	got.Energy = o.Energy // energy is carried by the store manifest, not the record

	if diff := cmp.Diff(o, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}
