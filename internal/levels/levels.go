// Package levels provides bookkeeping for computed energy levels: a
// deterministic (J, parity, index) ordering and tabular output in the
// formats downstream tooling consumes.
package levels

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"text/tabwriter"
)

// Atomic units to inverse centimetres.
const HartreeInInvCm = 219474.6313632

// Parity of a configuration state.
type Parity int

const (
	Even Parity = iota
	Odd
)

func (p Parity) String() string {
	if p == Odd {
		return "odd"
	}
	return "even"
}

// Short returns the single-letter form used in tabular output.
func (p Parity) Short() string {
	if p == Odd {
		return "o"
	}
	return "e"
}

// LevelID identifies a level by total angular momentum, parity and an
// index within that symmetry block.
type LevelID struct {
	J      float64
	Parity Parity
	Index  int
}

// Less orders by J, then parity, then index.
func (a LevelID) Less(b LevelID) bool {
	if a.J != b.J {
		return a.J < b.J
	}
	if a.Parity != b.Parity {
		return a.Parity < b.Parity
	}
	return a.Index < b.Index
}

// SameSymmetry reports whether two IDs share (J, parity).
func (a LevelID) SameSymmetry(b LevelID) bool {
	return a.J == b.J && a.Parity == b.Parity
}

// Level is one computed eigenstate.
type Level struct {
	// Energy in atomic units.
	Energy float64
	// GFactor is the Lande g-factor; meaningless for J = 0.
	GFactor float64
	// LeadingConfig names the dominant configuration, with its
	// percentage of the eigenvector.
	LeadingConfig  string
	LeadingPercent float64
}

// EnergyInvCm returns the energy in inverse centimetres.
func (lv Level) EnergyInvCm() float64 {
	return lv.Energy * HartreeInInvCm
}

// Map is a set of levels keyed by ID.
type Map map[LevelID]Level

// SortedIDs returns the IDs in canonical order.
func (m Map) SortedIDs() []LevelID {
	ids := make([]LevelID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i].Less(ids[j]) })
	return ids
}

// Print writes levels grouped by symmetry in a human-readable table.
func (m Map) Print(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	var last *LevelID
	for _, id := range m.SortedIDs() {
		if last == nil || !last.SameSymmetry(id) {
			fmt.Fprintf(tw, "Levels for J = %g, P = %s:\n", id.J, id.Parity)
		}
		lv := m[id]
		fmt.Fprintf(tw, "%d:\t%.8f\t%.6f /cm", id.Index, lv.Energy, lv.EnergyInvCm())
		if id.J != 0 {
			fmt.Fprintf(tw, "\tg = %.5f", lv.GFactor)
		}
		if lv.LeadingConfig != "" {
			fmt.Fprintf(tw, "\t%s %.1f%%", lv.LeadingConfig, lv.LeadingPercent)
		}
		fmt.Fprintln(tw)
		last = &id
	}
	return tw.Flush()
}

// WriteCSV writes one row per level: J, parity, index, energy (/cm),
// g-factor, leading configuration and percentage.
func (m Map) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"J", "P", "ID", "E", "g", "config", "percent"}); err != nil {
		return err
	}
	for _, id := range m.SortedIDs() {
		lv := m[id]
		row := []string{
			strconv.FormatFloat(id.J, 'g', -1, 64),
			id.Parity.Short(),
			strconv.Itoa(id.Index),
			strconv.FormatFloat(lv.EnergyInvCm(), 'f', 6, 64),
			strconv.FormatFloat(lv.GFactor, 'f', 5, 64),
			lv.LeadingConfig,
			strconv.FormatFloat(lv.LeadingPercent, 'f', 1, 64),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
