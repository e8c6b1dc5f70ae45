// Package physical provides the physical constants threaded through
// operator construction. Constants are an explicit immutable value, not
// a process-wide singleton, so alpha-variation studies can run several
// parametrizations side by side.
package physical

import "math"

// CODATA value of the fine-structure constant.
const AlphaCODATA = 7.2973525693e-3

// Constants parametrizes relativistic operators. The alpha^2 ratio
// scales alpha^2 relative to the laboratory value for variation studies;
// it is 1 for ordinary calculations.
type Constants struct {
	alpha             float64
	alphaSquaredRatio float64
}

// Default returns the laboratory constants.
func Default() Constants {
	return Constants{alpha: AlphaCODATA, alphaSquaredRatio: 1.0}
}

// WithAlphaSquaredRatio returns constants with alpha^2 scaled by x.
func (c Constants) WithAlphaSquaredRatio(x float64) Constants {
	c.alphaSquaredRatio = x
	return c
}

// Alpha returns the (possibly rescaled) fine-structure constant.
func (c Constants) Alpha() float64 {
	if c.alphaSquaredRatio == 1.0 {
		return c.alpha
	}
	return c.alpha * math.Sqrt(c.alphaSquaredRatio)
}

// SpeedOfLight returns 1/alpha in atomic units.
func (c Constants) SpeedOfLight() float64 { return 1.0 / c.Alpha() }
