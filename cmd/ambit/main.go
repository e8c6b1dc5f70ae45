package main

import (
	"fmt"
	"image/color"
	"os"
	"text/tabwriter"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/ChennaDid/AMBiT/internal/brueckner"
	"github.com/ChennaDid/AMBiT/internal/config"
	"github.com/ChennaDid/AMBiT/internal/hydrogenic"
	"github.com/ChennaDid/AMBiT/internal/lattice"
	"github.com/ChennaDid/AMBiT/internal/orbital"
	"github.com/ChennaDid/AMBiT/internal/physical"
	"github.com/ChennaDid/AMBiT/internal/store"
	"github.com/ChennaDid/AMBiT/internal/tui"
)

var (
	dataDir    string
	configFile string
	verbose    bool

	numPoints  int
	rmin       float64
	h          float64
	z          float64
	alphaRatio float64
	output     string

	logger *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ambit",
		Short: "relativistic atomic orbital toolkit",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg := zap.NewProductionConfig()
			if verbose {
				cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = cfg.Build()
			return err
		},
		Run: func(cmd *cobra.Command, args []string) {
			if err := tui.Run(dataDir); err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ambit", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	latticeCmd := &cobra.Command{
		Use:   "lattice",
		Short: "print the radial grid",
		RunE:  showLattice,
	}
	latticeCmd.Flags().IntVar(&numPoints, "points", config.DefaultNumPoints, "number of points")
	latticeCmd.Flags().Float64Var(&rmin, "rmin", config.DefaultRmin, "first point")
	latticeCmd.Flags().Float64Var(&h, "h", config.DefaultH, "exponential step")

	seedCmd := &cobra.Command{
		Use:   "seed [identifier]",
		Short: "generate a hydrogenic orbital set",
		Args:  cobra.ExactArgs(1),
		RunE:  seedSet,
	}
	seedCmd.Flags().IntVar(&numPoints, "points", config.DefaultNumPoints, "number of points")
	seedCmd.Flags().Float64Var(&rmin, "rmin", config.DefaultRmin, "first point")
	seedCmd.Flags().Float64Var(&h, "h", config.DefaultH, "exponential step")
	seedCmd.Flags().Float64Var(&z, "z", config.DefaultZ, "nuclear charge")
	seedCmd.Flags().Float64Var(&alphaRatio, "alpha-ratio", 1.0, "(alpha/alpha_0)^2 variation")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list orbital sets",
		RunE:  listSets,
	}

	showCmd := &cobra.Command{
		Use:   "show [identifier] [orbital]",
		Short: "plot an orbital in the terminal",
		Args:  cobra.ExactArgs(2),
		RunE:  showOrbital,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [identifier] [orbital]",
		Short: "render an orbital to PNG",
		Args:  cobra.ExactArgs(2),
		RunE:  plotOrbital,
	}
	plotCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <orbital>.png)")

	exportCmd := &cobra.Command{
		Use:   "export-csv [identifier] [orbital]",
		Short: "export an orbital to CSV",
		Args:  cobra.ExactArgs(2),
		RunE:  exportOrbital,
	}
	exportCmd.Flags().StringVarP(&output, "output", "o", "", "output file (default <orbital>.csv)")

	sigmaCmd := &cobra.Command{
		Use:   "sigma [file]",
		Short: "inspect a stored self-energy operator",
		Args:  cobra.ExactArgs(1),
		RunE:  inspectSigma,
	}

	viewCmd := &cobra.Command{
		Use:   "view",
		Short: "interactive orbital browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			return tui.Run(dataDir)
		},
	}

	rootCmd.AddCommand(latticeCmd, seedCmd, listCmd, showCmd, plotCmd, exportCmd, sigmaCmd, viewCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig merges the optional config file over the built-in
// defaults. Flags the user set explicitly win afterwards.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if configFile == "" {
		return config.DefaultConfig(), nil
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if !cmd.Flags().Changed("points") {
		numPoints = cfg.Lattice.NumPoints
	}
	if !cmd.Flags().Changed("rmin") {
		rmin = cfg.Lattice.Rmin
	}
	if !cmd.Flags().Changed("h") {
		h = cfg.Lattice.H
	}
	if cmd.Flags().Lookup("z") != nil && !cmd.Flags().Changed("z") {
		z = cfg.Z
	}
	if cmd.Flags().Lookup("alpha-ratio") != nil && !cmd.Flags().Changed("alpha-ratio") && cfg.AlphaSquaredRatio != 0 {
		alphaRatio = cfg.AlphaSquaredRatio
	}
	return cfg, nil
}

// sampleStride returns the loop stride that yields about the requested
// number of samples from n points, never less than 1.
func sampleStride(n, samples int) int {
	stride := n / samples
	if stride < 1 {
		stride = 1
	}
	return stride
}

func showLattice(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(cmd); err != nil {
		return err
	}
	lat := lattice.NewExpLattice(numPoints, rmin, h)

	fmt.Printf("exponential lattice: %d points, rmin %.3e, h %.4f\n", lat.Size(), lat.Rmin(), lat.H())
	fmt.Printf("rmax %.4f\n\n", lat.R(lat.Size()-1))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "I\tR\tDR")
	for i := 0; i < lat.Size(); i += sampleStride(lat.Size(), 10) {
		fmt.Fprintf(w, "%d\t%.6e\t%.6e\n", i, lat.R(i), lat.DR(i))
	}
	fmt.Fprintf(w, "%d\t%.6e\t%.6e\n", lat.Size()-1, lat.R(lat.Size()-1), lat.DR(lat.Size()-1))
	return w.Flush()
}

func seedSet(cmd *cobra.Command, args []string) error {
	identifier := args[0]
	if _, err := loadConfig(cmd); err != nil {
		return err
	}

	lat := lattice.NewExpLattice(numPoints, rmin, h)
	constants := physical.Default().WithAlphaSquaredRatio(alphaRatio)

	logger.Debug("seeding hydrogenic set",
		zap.String("identifier", identifier),
		zap.Float64("z", z),
		zap.Int("points", numPoints))

	orb := hydrogenic.GroundState(lat, constants, z)

	st := store.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	if err := st.Save(identifier, lat, []*orbital.Orbital{orb}); err != nil {
		return err
	}

	logger.Info("saved orbital set",
		zap.String("identifier", identifier),
		zap.String("orbital", orb.Name()),
		zap.Float64("energy", orb.Energy))

	fmt.Printf("saved %s: %s  E = %.8f au\n", identifier, orb.Name(), orb.Energy)
	return nil
}

func listSets(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	sets, err := st.List()
	if err != nil {
		return err
	}
	if len(sets) == 0 {
		fmt.Println("no orbital sets found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "IDENTIFIER\tTIME\tPOINTS\tORBITALS")
	for _, set := range sets {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\n",
			set.Identifier,
			set.Timestamp.Format("2006-01-02 15:04:05"),
			set.NumPoints,
			len(set.Orbitals),
		)
	}
	return w.Flush()
}

// findOrbital loads the named orbital from the set.
func findOrbital(identifier, name string) (*lattice.ExpLattice, *orbital.Orbital, error) {
	st := store.New(dataDir)
	lat, orbitals, err := st.Load(identifier)
	if err != nil {
		return nil, nil, err
	}
	for _, orb := range orbitals {
		if orb.Name() == name {
			return lat, orb, nil
		}
	}
	return nil, nil, fmt.Errorf("no orbital %q in set %s", name, identifier)
}

func showOrbital(cmd *cobra.Command, args []string) error {
	lat, orb, err := findOrbital(args[0], args[1])
	if err != nil {
		return err
	}

	fmt.Printf("orbital: %s  κ=%d\n", orb.Name(), orb.Kappa)
	fmt.Printf("energy: %.8f au\n", orb.Energy)
	fmt.Printf("occupancy: %.1f  nodes: %d  norm: %.8f\n\n", orb.Occupancy, orb.NumNodes(), orb.Norm(lat))

	for _, component := range []struct {
		name string
		data []float64
	}{
		{"f (large component)", orb.F},
		{"g (small component)", orb.G},
	} {
		data := make([]float64, 0, 80)
		stride := sampleStride(len(component.data), 80)
		for i := 0; i < len(component.data); i += stride {
			data = append(data, component.data[i])
		}
		graph := asciigraph.Plot(data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(component.name),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func plotOrbital(cmd *cobra.Command, args []string) error {
	lat, orb, err := findOrbital(args[0], args[1])
	if err != nil {
		return err
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("%s  E = %.6f au", orb.Name(), orb.Energy)
	p.X.Label.Text = "r (au)"
	p.Y.Label.Text = "amplitude"

	fPts := make(plotter.XYs, orb.Size())
	gPts := make(plotter.XYs, orb.Size())
	for i := 0; i < orb.Size(); i++ {
		fPts[i] = plotter.XY{X: lat.R(i), Y: orb.F[i]}
		gPts[i] = plotter.XY{X: lat.R(i), Y: orb.G[i]}
	}

	fLine, err := plotter.NewLine(fPts)
	if err != nil {
		return err
	}
	fLine.Color = color.RGBA{R: 30, G: 100, B: 200, A: 255}
	fLine.Width = vg.Points(1)
	p.Add(fLine)
	p.Legend.Add("f", fLine)

	gLine, err := plotter.NewLine(gPts)
	if err != nil {
		return err
	}
	gLine.Color = color.RGBA{R: 200, G: 60, B: 30, A: 255}
	gLine.Width = vg.Points(1)
	p.Add(gLine)
	p.Legend.Add("g", gLine)

	out := output
	if out == "" {
		out = fmt.Sprintf("%s_%s.png", args[0], orb.Name())
	}
	if err := p.Save(8*vg.Inch, 5*vg.Inch, out); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", out)
	return nil
}

func exportOrbital(cmd *cobra.Command, args []string) error {
	lat, orb, err := findOrbital(args[0], args[1])
	if err != nil {
		return err
	}
	out := output
	if out == "" {
		out = fmt.Sprintf("%s_%s.csv", args[0], orb.Name())
	}
	if err := store.ExportCSV(out, lat, orb); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", out)
	return nil
}

func inspectSigma(cmd *cobra.Command, args []string) error {
	sigma, ok := brueckner.ReadSigmaFile(args[0])
	if !ok {
		return fmt.Errorf("cannot read sigma file: %s", args[0])
	}

	ff, fg, gg := sigma.KernelNorms()
	fmt.Printf("sigma operator: %s\n", args[0])
	fmt.Printf("start: %d  size: %d  dim: %d\n", sigma.Start(), sigma.Size(), sigma.Size()-sigma.Start())
	fmt.Printf("|ff| = %.6e\n", ff)
	if fg > 0 {
		fmt.Printf("|fg| = %.6e\n", fg)
	}
	if gg > 0 {
		fmt.Printf("|gg| = %.6e\n", gg)
	}
	return nil
}
