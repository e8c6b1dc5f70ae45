// Package brueckner layers the Brueckner self-energy correction onto a
// Hartree-Fock operator chain.
//
// [SigmaPotential] is the precomputed nonlocal operator Sigma(r, r') for
// one angular quantum number, discretized as a dense kernel on a fixed
// prefix of the lattice. [Decorator] holds one sigma per kappa, computed
// lazily through an injected [SigmaCalculator] or loaded from disk
// ("<identifier>.<kappa>.sigma"), and adds the resulting nonlocal term
// to every ODE query of the wrapped operator, attenuated by a global
// lambda factor.
package brueckner
