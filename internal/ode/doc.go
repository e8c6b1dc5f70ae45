// Package ode provides the coupled linear first-order ODE system obeyed
// by the two spinor components, and the decorator chain used to layer
// many-body correction terms onto a base operator.
//
// A [SpinorODE] exposes three equivalent views of
//
//	df/dr = w[0] = w_f[0]*f + w_g[0]*g + w_const[0]
//	dg/dr = w[1] = w_f[1]*f + w_g[1]*g + w_const[1]
//
// the raw derivative ([SpinorODE.ODEFunction]), the linear coefficients
// ([SpinorODE.ODECoefficients]) and the Jacobian form
// ([SpinorODE.ODEJacobian]). w_const is the nonlocal (exchange-like)
// part, which cannot be written as a function of the local (f, g).
// The three forms differ only by algebraic rearrangement of the same
// physical terms; disagreement between them is a bug, not a choice.
//
// [Decorator] wraps one operator instance and forwards every query, so
// concrete corrections override only what they augment. Contributions
// are added after delegation and compose additively: wrap order does not
// change the physics.
//
// [HFOperator] is the concrete base: the local Hartree-Fock direct
// potential plus a supplied exchange term.
package ode
