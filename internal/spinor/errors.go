package spinor

import "errors"

// Domain errors for wavefunction operations.
var (
	// ErrSizeMismatch indicates arithmetic between functions of unequal
	// stored length. Callers must align sizes before combining.
	ErrSizeMismatch = errors.New("spinor: size mismatch between functions")
)
