package orbital

import "fmt"

const spectroscopic = "spdfghiklmnoqrtuv"

// Info identifies a single-particle state by principal quantum number
// and relativistic angular quantum number. It has an inbuilt ordering
// for deterministic storage.
type Info struct {
	PQN   int
	Kappa int
}

// Less orders by pqn first, then kappa.
func (a Info) Less(b Info) bool {
	if a.PQN != b.PQN {
		return a.PQN < b.PQN
	}
	return a.Kappa < b.Kappa
}

// L returns the orbital angular momentum of the large component.
func (a Info) L() int {
	if a.Kappa > 0 {
		return a.Kappa
	}
	return -a.Kappa - 1
}

// LPrime returns the orbital angular momentum of the small component,
// which corresponds to -kappa.
func (a Info) LPrime() int {
	if a.Kappa < 0 {
		return -a.Kappa
	}
	return a.Kappa - 1
}

// J returns the total angular momentum.
func (a Info) J() float64 {
	return float64(abs(a.Kappa)) - 0.5
}

// TwoJ returns 2J as an integer.
func (a Info) TwoJ() int {
	return 2*abs(a.Kappa) - 1
}

// MaxNumElectrons returns the occupancy of the filled (n, kappa) shell.
func (a Info) MaxNumElectrons() int {
	return 2 * abs(a.Kappa)
}

// Name returns the spectroscopic name, e.g. "4s", "4p" (j = l - 1/2),
// "4p+" (j = l + 1/2).
func (a Info) Name() string {
	name := fmt.Sprintf("%d%c", a.PQN, spectroscopic[a.L()])
	if a.Kappa < -1 {
		name += "+"
	}
	return name
}

func abs(k int) int {
	if k < 0 {
		return -k
	}
	return k
}
