// Package spinor provides the two-component relativistic radial
// wavefunction sampled on a lattice.
//
// A [Function] holds the large component F, the small component G, and
// their radial derivatives. Its stored length may be shorter than the
// lattice; the function is zero beyond it. Arithmetic between functions
// requires equal stored lengths and reports [ErrSizeMismatch] otherwise.
//
// [RadialFunction] is a scalar radial field (a potential term, a density)
// carrying its own derivative, used to parametrize operators and to
// multiply spinors pointwise.
package spinor
