// Package tui is a terminal browser for saved orbital sets.
package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/ChennaDid/AMBiT/internal/lattice"
	"github.com/ChennaDid/AMBiT/internal/orbital"
	"github.com/ChennaDid/AMBiT/internal/store"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

type viewState int

const (
	stateSets viewState = iota
	stateOrbitals
	stateDetail
)

type browser struct {
	state viewState
	st    *store.Store

	sets      []store.SetMetadata
	setCursor int

	identifier string
	lat        *lattice.ExpLattice
	orbitals   []*orbital.Orbital
	orbCursor  int

	showSmall bool
	err       error

	width  int
	height int
}

func newBrowser(dataDir string) (*browser, error) {
	st := store.New(dataDir)
	sets, err := st.List()
	if err != nil {
		return nil, err
	}
	return &browser{
		st:     st,
		sets:   sets,
		width:  80,
		height: 24,
	}, nil
}

// Run starts the browser over the orbital sets under dataDir.
func Run(dataDir string) error {
	b, err := newBrowser(dataDir)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(*b, tea.WithAltScreen()).Run()
	return err
}

func (b browser) Init() tea.Cmd { return nil }

func (b browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return b.handleKey(msg)
	case tea.WindowSizeMsg:
		b.width = msg.Width
		b.height = msg.Height
		return b, nil
	}
	return b, nil
}

func (b browser) handleKey(msg tea.KeyMsg) (browser, tea.Cmd) {
	switch b.state {
	case stateSets:
		return b.setsKey(msg)
	case stateOrbitals:
		return b.orbitalsKey(msg)
	case stateDetail:
		return b.detailKey(msg)
	}
	return b, nil
}

func (b browser) setsKey(msg tea.KeyMsg) (browser, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return b, tea.Quit
	case "up", "k":
		if b.setCursor > 0 {
			b.setCursor--
		}
	case "down", "j":
		if b.setCursor < len(b.sets)-1 {
			b.setCursor++
		}
	case "enter", " ":
		if len(b.sets) == 0 {
			return b, nil
		}
		b.identifier = b.sets[b.setCursor].Identifier
		lat, orbs, err := b.st.Load(b.identifier)
		if err != nil {
			b.err = err
			return b, nil
		}
		b.err = nil
		b.lat = lat
		b.orbitals = orbs
		b.orbCursor = 0
		b.state = stateOrbitals
	}
	return b, nil
}

func (b browser) orbitalsKey(msg tea.KeyMsg) (browser, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return b, tea.Quit
	case "q", "escape":
		b.state = stateSets
	case "up", "k":
		if b.orbCursor > 0 {
			b.orbCursor--
		}
	case "down", "j":
		if b.orbCursor < len(b.orbitals)-1 {
			b.orbCursor++
		}
	case "enter", " ":
		if len(b.orbitals) > 0 {
			b.state = stateDetail
		}
	}
	return b, nil
}

func (b browser) detailKey(msg tea.KeyMsg) (browser, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return b, tea.Quit
	case "q", "escape":
		b.state = stateOrbitals
	case "g":
		b.showSmall = !b.showSmall
	case "up", "k":
		if b.orbCursor > 0 {
			b.orbCursor--
		}
	case "down", "j":
		if b.orbCursor < len(b.orbitals)-1 {
			b.orbCursor++
		}
	}
	return b, nil
}

func (b browser) View() string {
	switch b.state {
	case stateSets:
		return b.viewSets()
	case stateOrbitals:
		return b.viewOrbitals()
	case stateDetail:
		return b.viewDetail()
	}
	return ""
}

func (b browser) viewSets() string {
	var sb strings.Builder

	sb.WriteString("\n")
	sb.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	sb.WriteString("          " + cyan.Render("a m b i t") + "\n")
	sb.WriteString(dimmer.Render("    ╺━━━━━━━━━━━━━━━━━━━━━╸") + "\n")
	sb.WriteString("\n")

	if len(b.sets) == 0 {
		sb.WriteString("      " + dim.Render("no orbital sets found") + "\n")
	}
	for i, set := range b.sets {
		desc := fmt.Sprintf("%d orbitals, %d points", len(set.Orbitals), set.NumPoints)
		if i == b.setCursor {
			sb.WriteString("      " + cyan.Render("▸ ") + white.Render(fmt.Sprintf("%-16s", set.Identifier)) + dim.Render(desc) + "\n")
		} else {
			sb.WriteString("        " + dim.Render(fmt.Sprintf("%-16s", set.Identifier)) + dimmer.Render(desc) + "\n")
		}
	}

	if b.err != nil {
		sb.WriteString("\n      " + red.Render(b.err.Error()) + "\n")
	}
	sb.WriteString("\n")
	sb.WriteString(dim.Render("      ↑↓ select   enter open   q quit") + "\n")
	return sb.String()
}

func (b browser) viewOrbitals() string {
	var sb strings.Builder

	sb.WriteString("\n  " + cyan.Render(b.identifier) + dim.Render(fmt.Sprintf("   %d points, rmin %.2e", b.lat.Size(), b.lat.Rmin())) + "\n\n")

	for i, orb := range b.orbitals {
		line := fmt.Sprintf("%-6s κ=%-3d E=%13.6f  occ %.1f  nodes %d",
			orb.Name(), orb.Kappa, orb.Energy, orb.Occupancy, orb.NumNodes())
		if i == b.orbCursor {
			sb.WriteString("    " + cyan.Render("▸ ") + white.Render(line) + "\n")
		} else {
			sb.WriteString("      " + dim.Render(line) + "\n")
		}
	}

	sb.WriteString("\n")
	sb.WriteString(dim.Render("    ↑↓ select   enter plot   esc back") + "\n")
	return sb.String()
}

func (b browser) viewDetail() string {
	orb := b.orbitals[b.orbCursor]
	var sb strings.Builder

	component := "f (large)"
	src := orb.F
	if b.showSmall {
		component = "g (small)"
		src = orb.G
	}

	sb.WriteString("\n  " + cyan.Render(orb.Name()) + dim.Render(fmt.Sprintf("  κ=%d  pqn=%d", orb.Kappa, orb.PQN)) + "\n")
	sb.WriteString("  " + yellow.Render(fmt.Sprintf("E = %.8f au", orb.Energy)) +
		dim.Render(fmt.Sprintf("   norm %.6f   %s", orb.Norm(b.lat), component)) + "\n\n")

	width := b.width - 14
	if width < 20 {
		width = 20
	}
	height := b.height - 10
	if height < 6 {
		height = 6
	}
	if height > 20 {
		height = 20
	}

	data := resample(src, width)
	sb.WriteString(asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(fmt.Sprintf("%s vs grid point", component)),
	))
	sb.WriteString("\n\n")
	sb.WriteString(dim.Render("    ↑↓ orbital   g toggle component   esc back") + "\n")
	return sb.String()
}

// resample reduces data to at most width points, keeping endpoints.
func resample(data []float64, width int) []float64 {
	if len(data) <= width || width < 2 {
		return data
	}
	out := make([]float64, width)
	for i := 0; i < width; i++ {
		j := i * (len(data) - 1) / (width - 1)
		out[i] = data[j]
	}
	return out
}
