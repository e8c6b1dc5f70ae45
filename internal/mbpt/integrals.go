package mbpt

import (
	"errors"
	"sort"

	"github.com/ChennaDid/AMBiT/internal/orbital"
)

// maxOrbitals bounds the indexed set so every orbital index fits the
// 13-bit fields of the packed two-electron key.
const maxOrbitals = 1 << 13

var ErrTooManyOrbitals = errors.New("mbpt: orbital set exceeds packed index capacity")

// SlaterCalculator fills an integral store from a set of orbitals. The
// radial Coulomb engine behind it is an external collaborator.
type SlaterCalculator interface {
	Update(store *IntegralStore, orbitals []*orbital.Orbital) error
}

// IntegralStore holds one- and two-electron radial integrals over an
// indexed orbital set. Orbital indices are assigned in (pqn, kappa)
// order, so storage layout is deterministic for a given set.
type IntegralStore struct {
	index   map[orbital.Info]uint32
	reverse []orbital.Info

	oneElectron map[uint64]float64
	twoElectron map[uint64]float64
}

// NewIntegralStore indexes the orbital set and allocates empty maps.
// Sets larger than 8192 orbitals cannot be keyed and are rejected with
// ErrTooManyOrbitals.
func NewIntegralStore(infos []orbital.Info) (*IntegralStore, error) {
	if len(infos) > maxOrbitals {
		return nil, ErrTooManyOrbitals
	}
	sorted := make([]orbital.Info, len(infos))
	copy(sorted, infos)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Less(sorted[j]) })

	s := &IntegralStore{
		index:       make(map[orbital.Info]uint32, len(sorted)),
		reverse:     sorted,
		oneElectron: make(map[uint64]float64),
		twoElectron: make(map[uint64]float64),
	}
	for i, info := range sorted {
		s.index[info] = uint32(i)
	}
	return s, nil
}

// NumOrbitals returns the size of the indexed set.
func (s *IntegralStore) NumOrbitals() int { return len(s.reverse) }

// Clear drops all stored integrals but keeps the orbital index.
func (s *IntegralStore) Clear() {
	s.oneElectron = make(map[uint64]float64)
	s.twoElectron = make(map[uint64]float64)
}

// oneKey packs an unordered orbital pair: <i|H|j> = <j|H|i>.
func (s *IntegralStore) oneKey(a, b orbital.Info) (uint64, bool) {
	i, ok1 := s.index[a]
	j, ok2 := s.index[b]
	if !ok1 || !ok2 {
		return 0, false
	}
	if j < i {
		i, j = j, i
	}
	return uint64(i)<<32 | uint64(j), true
}

// SetOneElectron stores <a|H|b>.
func (s *IntegralStore) SetOneElectron(a, b orbital.Info, value float64) {
	if key, ok := s.oneKey(a, b); ok {
		s.oneElectron[key] = value
	}
}

// OneElectron returns <a|H|b> and whether it is stored.
func (s *IntegralStore) OneElectron(a, b orbital.Info) (float64, bool) {
	key, ok := s.oneKey(a, b)
	if !ok {
		return 0, false
	}
	v, ok := s.oneElectron[key]
	return v, ok
}

// twoKey packs R_k(ab, cd) after canonical reordering. The integral is
// invariant under a<->c, b<->d, and (a,c)<->(b,d), so the smallest
// equivalent index tuple is chosen.
func (s *IntegralStore) twoKey(k int, a, b, c, d orbital.Info) (uint64, bool) {
	i1, ok1 := s.index[a]
	i2, ok2 := s.index[b]
	i3, ok3 := s.index[c]
	i4, ok4 := s.index[d]
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return 0, false
	}

	if i3 < i1 {
		i1, i3 = i3, i1
	}
	if i4 < i2 {
		i2, i4 = i4, i2
	}
	if i2 < i1 || (i2 == i1 && i4 < i3) {
		i1, i2 = i2, i1
		i3, i4 = i4, i3
	}

	// 12 bits for the multipole, 13 bits per orbital index.
	return uint64(k)<<52 | uint64(i1)<<39 | uint64(i2)<<26 | uint64(i3)<<13 | uint64(i4), true
}

// SetTwoElectron stores R_k(ab, cd): a->c, b->d.
func (s *IntegralStore) SetTwoElectron(k int, a, b, c, d orbital.Info, value float64) {
	if key, ok := s.twoKey(k, a, b, c, d); ok {
		s.twoElectron[key] = value
	}
}

// TwoElectron returns R_k(ab, cd) and whether it is stored.
func (s *IntegralStore) TwoElectron(k int, a, b, c, d orbital.Info) (float64, bool) {
	key, ok := s.twoKey(k, a, b, c, d)
	if !ok {
		return 0, false
	}
	v, ok := s.twoElectron[key]
	return v, ok
}

// StorageSize returns the number of stored integrals.
func (s *IntegralStore) StorageSize() int {
	return len(s.oneElectron) + len(s.twoElectron)
}
