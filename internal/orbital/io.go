package orbital

import (
	"encoding/binary"
	"io"
)

// The orbital record prepends kappa (int32), pqn (uint32) and occupancy
// (float64) to the spinor record, in that order. The format is
// positional with no version tag and must stay ABI-stable.

// Write serializes the orbital.
func (o *Orbital) Write(w io.Writer) error {
	if err := binary.Write(w, binary.LittleEndian, int32(o.Kappa)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, uint32(o.PQN)); err != nil {
		return err
	}
	if err := binary.Write(w, binary.LittleEndian, o.Occupancy); err != nil {
		return err
	}
	return o.Function.Write(w)
}

// Read reconstructs an orbital written by Write.
func (o *Orbital) Read(r io.Reader) error {
	var (
		kappa int32
		pqn   uint32
	)
	if err := binary.Read(r, binary.LittleEndian, &kappa); err != nil {
		return err
	}
	if err := binary.Read(r, binary.LittleEndian, &pqn); err != nil {
		return err
	}
	if err := binary.Read(r, binary.LittleEndian, &o.Occupancy); err != nil {
		return err
	}
	o.Kappa = int(kappa)
	o.PQN = int(pqn)
	return o.Function.Read(r)
}
