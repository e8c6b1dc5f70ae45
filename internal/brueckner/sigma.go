package brueckner

import (
	"encoding/binary"
	"os"

	"gonum.org/v1/gonum/mat"

	"github.com/ChennaDid/AMBiT/internal/lattice"
	"github.com/ChennaDid/AMBiT/internal/spinor"
)

// SigmaPotential is a discretized nonlocal operator
//
//	(Sigma s)(r_i) = sum_j K(i, j) s(r_j) dr_j
//
// defined on lattice points [start, start+dim). The upper-upper kernel
// ff is always present; the lower-component kernels fg and gg are
// optional. Once built, a sigma stays on its own grid prefix: lattice
// resizes never reshape it.
type SigmaPotential struct {
	start int
	dim   int

	ff *mat.Dense
	fg *mat.Dense
	gg *mat.Dense
}

// NewSigmaPotential allocates a zero operator covering lattice points
// [start, size).
func NewSigmaPotential(size, start int) *SigmaPotential {
	dim := size - start
	if dim < 0 {
		dim = 0
	}
	s := &SigmaPotential{start: start, dim: dim}
	if dim > 0 {
		s.ff = mat.NewDense(dim, dim, nil)
	}
	return s
}

// IncludeLower enables the fg and/or gg kernels.
func (s *SigmaPotential) IncludeLower(useFG, useGG bool) {
	if s.dim == 0 {
		return
	}
	if useFG && s.fg == nil {
		s.fg = mat.NewDense(s.dim, s.dim, nil)
	}
	if useGG && s.gg == nil {
		s.gg = mat.NewDense(s.dim, s.dim, nil)
	}
}

// Size returns the lattice extent covered by the operator.
func (s *SigmaPotential) Size() int { return s.start + s.dim }

// Start returns the first covered lattice point.
func (s *SigmaPotential) Start() int { return s.start }

// KernelNorms returns the Frobenius norm of each kernel, zero for a
// kernel that is not present.
func (s *SigmaPotential) KernelNorms() (ff, fg, gg float64) {
	if s.ff != nil {
		ff = mat.Norm(s.ff, 2)
	}
	if s.fg != nil {
		fg = mat.Norm(s.fg, 2)
	}
	if s.gg != nil {
		gg = mat.Norm(s.gg, 2)
	}
	return ff, fg, gg
}

// AddToFF accumulates into the upper-upper kernel at lattice points
// (i, j). Points below start are ignored.
func (s *SigmaPotential) AddToFF(i, j int, value float64) {
	if s.ff == nil || i < s.start || j < s.start || i >= s.Size() || j >= s.Size() {
		return
	}
	s.ff.Set(i-s.start, j-s.start, s.ff.At(i-s.start, j-s.start)+value)
}

// AddToFG and AddToGG accumulate into the lower-component kernels;
// no-ops unless IncludeLower enabled them.
func (s *SigmaPotential) AddToFG(i, j int, value float64) {
	if s.fg == nil || i < s.start || j < s.start || i >= s.Size() || j >= s.Size() {
		return
	}
	s.fg.Set(i-s.start, j-s.start, s.fg.At(i-s.start, j-s.start)+value)
}

func (s *SigmaPotential) AddToGG(i, j int, value float64) {
	if s.gg == nil || i < s.start || j < s.start || i >= s.Size() || j >= s.Size() {
		return
	}
	s.gg.Set(i-s.start, j-s.start, s.gg.At(i-s.start, j-s.start)+value)
}

// ApplyTo evaluates the operator on fg, integrating with the lattice
// weights. The result has the operator's size; operand samples beyond
// the operand's stored length count as zero.
func (s *SigmaPotential) ApplyTo(fg *spinor.Function, lat lattice.Lattice) *spinor.Function {
	ret := spinor.New(fg.Kappa, s.Size())
	if s.dim == 0 {
		return ret
	}

	wf := mat.NewVecDense(s.dim, nil)
	for j := 0; j < s.dim; j++ {
		p := s.start + j
		if p < fg.Size() && p < lat.Size() {
			wf.SetVec(j, fg.F[p]*lat.DR(p))
		}
	}

	var yf mat.VecDense
	yf.MulVec(s.ff, wf)

	var yg mat.VecDense
	if s.fg != nil {
		yg.MulVec(s.fg.T(), wf)
	}

	if s.fg != nil || s.gg != nil {
		wg := mat.NewVecDense(s.dim, nil)
		for j := 0; j < s.dim; j++ {
			p := s.start + j
			if p < fg.Size() && p < lat.Size() {
				wg.SetVec(j, fg.G[p]*lat.DR(p))
			}
		}
		if s.fg != nil {
			var t mat.VecDense
			t.MulVec(s.fg, wg)
			yf.AddVec(&yf, &t)
		}
		if s.gg != nil {
			var t mat.VecDense
			t.MulVec(s.gg, wg)
			if yg.Len() == 0 {
				yg.CloneFromVec(&t)
			} else {
				yg.AddVec(&yg, &t)
			}
		}
	}

	for j := 0; j < s.dim; j++ {
		ret.F[s.start+j] = yf.AtVec(j)
		if yg.Len() > 0 {
			ret.G[s.start+j] = yg.AtVec(j)
		}
	}
	return ret
}

// File format: start (uint32), dim (uint32), kernel flags (one byte
// each for fg and gg), then the kernels as row-major little-endian
// float64 runs. Positional, no version tag.

// WriteFile persists the operator.
func (s *SigmaPotential) WriteFile(filename string) error {
	fp, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer fp.Close()

	for _, v := range []uint32{uint32(s.start), uint32(s.dim)} {
		if err := binary.Write(fp, binary.LittleEndian, v); err != nil {
			return err
		}
	}
	flags := []uint8{0, 0}
	if s.fg != nil {
		flags[0] = 1
	}
	if s.gg != nil {
		flags[1] = 1
	}
	if err := binary.Write(fp, binary.LittleEndian, flags); err != nil {
		return err
	}
	for _, m := range []*mat.Dense{s.ff, s.fg, s.gg} {
		if m == nil {
			continue
		}
		if err := binary.Write(fp, binary.LittleEndian, m.RawMatrix().Data); err != nil {
			return err
		}
	}
	return nil
}

// ReadSigmaFile loads a persisted operator. A false second return means
// the file is missing or malformed; that is a cache miss, not an error.
func ReadSigmaFile(filename string) (*SigmaPotential, bool) {
	fp, err := os.Open(filename)
	if err != nil {
		return nil, false
	}
	defer fp.Close()

	var start, dim uint32
	if err := binary.Read(fp, binary.LittleEndian, &start); err != nil {
		return nil, false
	}
	if err := binary.Read(fp, binary.LittleEndian, &dim); err != nil {
		return nil, false
	}
	flags := make([]uint8, 2)
	if err := binary.Read(fp, binary.LittleEndian, flags); err != nil {
		return nil, false
	}

	// Validate dim against the payload length before allocating dim^2
	// kernels from an untrusted header.
	kernels := int64(1)
	if flags[0] != 0 {
		kernels++
	}
	if flags[1] != 0 {
		kernels++
	}
	info, err := fp.Stat()
	if err != nil {
		return nil, false
	}
	const headerBytes = 4 + 4 + 2
	if dim > 1<<20 {
		return nil, false
	}
	if int64(dim)*int64(dim)*8*kernels != info.Size()-headerBytes {
		return nil, false
	}

	s := NewSigmaPotential(int(start+dim), int(start))
	s.IncludeLower(flags[0] != 0, flags[1] != 0)
	for _, m := range []*mat.Dense{s.ff, s.fg, s.gg} {
		if m == nil {
			continue
		}
		if err := binary.Read(fp, binary.LittleEndian, m.RawMatrix().Data); err != nil {
			return nil, false
		}
	}
	return s, true
}
