package orbital

import "errors"

// Domain errors for orbital algorithms.
var (
	// ErrDegenerate indicates a sampled amplitude at numerical zero.
	// No further numerical operation on a zero function is meaningful;
	// callers should abandon the enclosing self-consistent iteration.
	ErrDegenerate = errors.New("orbital: degenerate orbital (amplitude at numerical zero)")
)
