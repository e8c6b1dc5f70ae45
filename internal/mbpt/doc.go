// Package mbpt provides the storage layer for many-body perturbation
// theory: one-electron and two-electron radial (Slater) integrals keyed
// by orbital, with canonical reordering so each physically equivalent
// integral is stored once.
//
// The diagram summation engines that fill and consume these stores are
// external collaborators; this package defines their contracts
// ([SlaterCalculator], together with brueckner.SigmaCalculator) and the
// deterministic key layout.
package mbpt
