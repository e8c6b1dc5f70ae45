package spinor

import (
	"encoding/binary"
	"io"
)

// The binary record is positional and carries no version tag: stored
// length as uint32, then F, G, DFDR, DGDR as little-endian float64 runs.
// Readers must consume fields in exactly this order.

// Write serializes the component arrays.
func (s *Function) Write(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, uint32(s.Size())); err != nil {
		return err
	}
	for _, component := range [][]float64{s.F, s.G, s.DFDR, s.DGDR} {
		if err := binary.Write(w, binary.LittleEndian, component); err != nil {
			return err
		}
	}
	return nil
}

// Read reconstructs the component arrays, resizing to the stored length.
func (s *Function) Read(r io.Reader) error {
	var size uint32
	if err := binary.Read(r, binary.LittleEndian, &size); err != nil {
		return err
	}
	s.Resize(int(size))
	for _, component := range [][]float64{s.F, s.G, s.DFDR, s.DGDR} {
		if err := binary.Read(r, binary.LittleEndian, component); err != nil {
			return err
		}
	}
	return nil
}
