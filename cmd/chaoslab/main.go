package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"chaoslab/internal/analysis"
	"chaoslab/internal/config"
	"chaoslab/internal/dynamo"
	"chaoslab/internal/integrators"
	"chaoslab/internal/section"
	"chaoslab/internal/sim"
	"chaoslab/internal/store"
	"chaoslab/internal/systems"
	"chaoslab/internal/viz"
)

var (
	dataDir    string
	configFile string
	preset     string

	stepHint  float64
	duration  float64
	transient float64
	sample    float64

	planeCoord string
	planeValue float64
	direction  string

	sweepParam  string
	sweepMin    float64
	sweepMax    float64
	sweepSteps  int
	workers     int
	reportCoord string

	coordFlag string
	svgOut    string
	saveRun   bool

	paramFlags []string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "chaoslab",
		Short: "strange attractor analysis lab",
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".chaoslab", "data directory")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (yaml)")
	rootCmd.PersistentFlags().StringVar(&preset, "preset", "", "use preset configuration")
	rootCmd.PersistentFlags().StringSliceVar(&paramFlags, "param", nil, "system parameter override (name=value)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list systems and stored runs",
		RunE:  listAll,
	}

	runCmd := &cobra.Command{
		Use:   "run [system]",
		Short: "integrate a trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  runTrajectory,
	}
	runCmd.Flags().Float64Var(&stepHint, "step", 0.01, "output sampling interval")
	runCmd.Flags().Float64Var(&duration, "time", 100.0, "duration")
	runCmd.Flags().StringVar(&coordFlag, "coord", "x", "coordinate to graph")
	runCmd.Flags().BoolVar(&saveRun, "save", false, "persist run to data directory")

	sectionCmd := &cobra.Command{
		Use:   "section [system]",
		Short: "compute a Poincaré section",
		Args:  cobra.ExactArgs(1),
		RunE:  runSection,
	}
	addSectionFlags(sectionCmd)
	sectionCmd.Flags().StringVar(&svgOut, "svg", "", "write section scatter as SVG")
	sectionCmd.Flags().BoolVar(&saveRun, "save", false, "persist run to data directory")

	bifurcationCmd := &cobra.Command{
		Use:   "bifurcation [system]",
		Short: "sweep a parameter and aggregate section crossings",
		Args:  cobra.ExactArgs(1),
		RunE:  runBifurcation,
	}
	addSectionFlags(bifurcationCmd)
	bifurcationCmd.Flags().StringVar(&sweepParam, "sweep", "", "parameter to sweep")
	bifurcationCmd.Flags().Float64Var(&sweepMin, "min", 0, "sweep start")
	bifurcationCmd.Flags().Float64Var(&sweepMax, "max", 0, "sweep end")
	bifurcationCmd.Flags().IntVar(&sweepSteps, "steps", 0, "sweep step count")
	bifurcationCmd.Flags().IntVar(&workers, "workers", 0, "sweep parallelism (0 = all cores)")
	bifurcationCmd.Flags().StringVar(&reportCoord, "report", "", "coordinate recorded per crossing")
	bifurcationCmd.Flags().StringVar(&svgOut, "svg", "", "write diagram as SVG")
	bifurcationCmd.Flags().BoolVar(&saveRun, "save", false, "persist run to data directory")

	lyapunovCmd := &cobra.Command{
		Use:   "lyapunov [system]",
		Short: "estimate the largest Lyapunov exponent",
		Args:  cobra.ExactArgs(1),
		RunE:  runLyapunov,
	}
	lyapunovCmd.Flags().Float64Var(&stepHint, "step", 0.01, "timestep")
	lyapunovCmd.Flags().Float64Var(&duration, "time", 50.0, "duration")

	spectrumCmd := &cobra.Command{
		Use:   "spectrum [system]",
		Short: "power spectrum of one trajectory coordinate",
		Args:  cobra.ExactArgs(1),
		RunE:  runSpectrum,
	}
	spectrumCmd.Flags().Float64Var(&stepHint, "step", 0.01, "output sampling interval")
	spectrumCmd.Flags().Float64Var(&duration, "time", 100.0, "duration")
	spectrumCmd.Flags().Float64Var(&transient, "transient", 50.0, "settle time discarded before sampling")
	spectrumCmd.Flags().StringVar(&coordFlag, "coord", "x", "coordinate to analyze")

	liveCmd := &cobra.Command{
		Use:   "live [system]",
		Short: "live terminal view of a trajectory",
		Args:  cobra.ExactArgs(1),
		RunE:  runLive,
	}
	liveCmd.Flags().Float64Var(&stepHint, "step", 0.005, "timestep")
	liveCmd.Flags().StringVar(&coordFlag, "coord", "x", "coordinate to graph")
	addPlaneFlags(liveCmd)

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export stored run as JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}

	rootCmd.AddCommand(listCmd, runCmd, sectionCmd, bifurcationCmd, lyapunovCmd, spectrumCmd, liveCmd, exportCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func addPlaneFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&planeCoord, "plane-coord", "y", "plane coordinate (x, y, z)")
	cmd.Flags().Float64Var(&planeValue, "plane-value", 0.0, "plane threshold")
	cmd.Flags().StringVar(&direction, "direction", "positive", "crossing direction (positive, negative, either)")
}

func addSectionFlags(cmd *cobra.Command) {
	addPlaneFlags(cmd)
	cmd.Flags().Float64Var(&stepHint, "step", 0.01, "output sampling interval")
	cmd.Flags().Float64Var(&transient, "transient", 100.0, "settle time discarded before sampling")
	cmd.Flags().Float64Var(&sample, "sample", 100.0, "sampling time after the transient")
}

// loadConfig resolves precedence: config file, then preset, then flags.
func loadConfig(cmd *cobra.Command, system string) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	case preset != "":
		cfg = config.GetPreset(system, preset)
		if cfg == nil {
			return nil, fmt.Errorf("no preset %q for system %q", preset, system)
		}
	default:
		cfg = config.DefaultConfig()
		cfg.System = system
	}

	if cfg.Params == nil {
		cfg.Params = make(map[string]float64)
	}
	for _, kv := range paramFlags {
		parts := strings.SplitN(kv, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("bad --param %q, want name=value", kv)
		}
		var v float64
		if _, err := fmt.Sscanf(parts[1], "%g", &v); err != nil {
			return nil, fmt.Errorf("bad --param value %q: %v", parts[1], err)
		}
		cfg.Params[parts[0]] = v
	}

	if cmd.Flags().Changed("step") {
		cfg.StepHint = stepHint
	}
	if cmd.Flags().Changed("transient") {
		cfg.Transient = transient
	}
	if cmd.Flags().Changed("sample") {
		cfg.Sample = sample
	}
	if cmd.Flags().Changed("plane-coord") {
		cfg.Plane.Coord = planeCoord
	}
	if cmd.Flags().Changed("plane-value") {
		cfg.Plane.Value = planeValue
	}
	if cmd.Flags().Changed("direction") {
		cfg.Plane.Direction = direction
	}

	return cfg, nil
}

func buildSystem(cfg *config.Config) (dynamo.System, dynamo.State, error) {
	reg := systems.NewRegistry()
	sys, err := reg.NewWithParams(cfg.System, cfg.Params)
	if err != nil {
		return nil, nil, err
	}
	x0 := systems.DefaultState(sys)
	if len(cfg.Initial) > 0 {
		x0 = dynamo.State(cfg.Initial).Clone()
	}
	return sys, x0, nil
}

func newEngine(cfg *config.Config) *section.Engine {
	solver := sim.NewSolver(integrators.NewRK45())
	return section.NewEngine(solver, cfg.GetOptions())
}

func listAll(cmd *cobra.Command, args []string) error {
	reg := systems.NewRegistry()
	fmt.Println("systems:")
	for _, name := range reg.List() {
		sys, _ := reg.New(name)
		params := ""
		if tunable, ok := sys.(dynamo.Configurable); ok {
			var keys []string
			for k := range tunable.Params() {
				keys = append(keys, k)
			}
			params = strings.Join(keys, ", ")
		}
		fmt.Printf("  %-10s params: %s\n", name, params)
		for _, p := range config.ListPresets(name) {
			fmt.Printf("             preset: %s\n", p)
		}
	}

	st := store.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		return nil
	}

	fmt.Println("\nruns:")
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "  ID\tKIND\tSYSTEM\tWHEN")
	for _, r := range runs {
		fmt.Fprintf(w, "  %s\t%s\t%s\t%s\n", r.ID, r.Kind, r.System, r.Timestamp.Format("2006-01-02 15:04:05"))
	}
	return w.Flush()
}

func runTrajectory(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	sys, x0, err := buildSystem(cfg)
	if err != nil {
		return err
	}

	solver := sim.NewSolver(integrators.NewRK45())
	traj, err := solver.Integrate(context.Background(), sys, x0, dynamo.Span{T0: 0, T1: duration}, cfg.GetOptions())
	if err != nil {
		return err
	}

	coord, err := config.CoordIndex(coordFlag)
	if err != nil {
		return err
	}

	series := traj.Coord(coord)
	if len(series) > 400 {
		stride := len(series) / 400
		thinned := make([]float64, 0, 400)
		for i := 0; i < len(series); i += stride {
			thinned = append(thinned, series[i])
		}
		series = thinned
	}
	fmt.Println(asciigraph.Plot(series,
		asciigraph.Height(14),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s: %s over %.0f time units", cfg.System, coordFlag, duration)),
	))
	fmt.Printf("samples: %d\n", traj.Len())

	if saveRun {
		st := store.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.SaveTrajectory(cfg.System, cfg.Params, traj)
		if err != nil {
			return err
		}
		fmt.Printf("saved: %s\n", runID)
	}
	return nil
}

func runSection(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	sys, x0, err := buildSystem(cfg)
	if err != nil {
		return err
	}
	plane, err := cfg.GetPlane()
	if err != nil {
		return err
	}

	engine := newEngine(cfg)
	crossings, err := engine.Sample(context.Background(), sys, x0, plane, cfg.Transient, cfg.Sample)
	if err != nil {
		return err
	}

	title := fmt.Sprintf("%s Poincaré section (%s=%g, %s)", cfg.System, cfg.Plane.Coord, cfg.Plane.Value, cfg.Plane.Direction)
	fmt.Print(viz.SectionScatter(crossings, plane, 70, 20, title))

	if svgOut != "" && len(crossings) > 0 {
		points := make([][2]float64, len(crossings))
		xc, yc := offPlaneCoords(plane)
		for i, c := range crossings {
			points[i] = [2]float64{c.State[xc], c.State[yc]}
		}
		if err := os.WriteFile(svgOut, []byte(viz.ScatterSVG(points, 800, 800, "")), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgOut)
	}

	if saveRun {
		st := store.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.SaveSection(cfg.System, cfg.Params, plane, crossings)
		if err != nil {
			return err
		}
		fmt.Printf("saved: %s\n", runID)
	}
	return nil
}

func runBifurcation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("sweep") {
		cfg.Sweep.Param = sweepParam
	}
	if cmd.Flags().Changed("min") {
		cfg.Sweep.Min = sweepMin
	}
	if cmd.Flags().Changed("max") {
		cfg.Sweep.Max = sweepMax
	}
	if cmd.Flags().Changed("steps") {
		cfg.Sweep.Steps = sweepSteps
	}
	if cmd.Flags().Changed("report") {
		cfg.Sweep.Report = reportCoord
	}
	if cmd.Flags().Changed("workers") {
		cfg.Sweep.Workers = workers
	}
	if cfg.Sweep.Param == "" {
		return fmt.Errorf("no sweep parameter given (use --sweep or a preset)")
	}

	reg := systems.NewRegistry()
	factory, err := reg.Factory(cfg.System, cfg.Params)
	if err != nil {
		return err
	}
	plane, err := cfg.GetPlane()
	if err != nil {
		return err
	}

	report := -1
	if cfg.Sweep.Report != "" {
		report, err = config.CoordIndex(cfg.Sweep.Report)
		if err != nil {
			return err
		}
	}

	x0 := systems.DefaultState(factory())
	if len(cfg.Initial) > 0 {
		x0 = dynamo.State(cfg.Initial).Clone()
	}

	engine := newEngine(cfg)
	diagram, err := engine.Bifurcation(context.Background(), section.Sweep{
		NewSystem:   factory,
		ParamName:   cfg.Sweep.Param,
		Values:      cfg.SweepValues(),
		Initial:     x0,
		Plane:       plane,
		Transient:   cfg.Transient,
		Sample:      cfg.Sample,
		ReportCoord: report,
		Workers:     cfg.Sweep.Workers,
	})
	if err != nil {
		return err
	}

	title := fmt.Sprintf("%s bifurcation: %s in [%g, %g]", cfg.System, cfg.Sweep.Param, cfg.Sweep.Min, cfg.Sweep.Max)
	fmt.Print(viz.BifurcationScatter(diagram, 70, 20, title))

	if svgOut != "" {
		if err := os.WriteFile(svgOut, []byte(viz.ScatterSVG(diagram.Pairs(), 1200, 800, "")), 0644); err != nil {
			return err
		}
		fmt.Printf("wrote %s\n", svgOut)
	}

	if saveRun {
		st := store.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
		runID, err := st.SaveBifurcation(cfg.System, cfg.Params, diagram)
		if err != nil {
			return err
		}
		fmt.Printf("saved: %s\n", runID)
	}
	return nil
}

func runLyapunov(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	sys, x0, err := buildSystem(cfg)
	if err != nil {
		return err
	}

	lambda := analysis.LyapunovExponent(sys, integrators.NewRK4(), x0, stepHint, duration, 1e-8)
	fmt.Printf("largest Lyapunov exponent: %.6f\n", lambda)
	if lambda > 0 {
		fmt.Println("positive: chaotic dynamics")
	} else {
		fmt.Println("non-positive: regular dynamics")
	}
	return nil
}

func runSpectrum(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	sys, x0, err := buildSystem(cfg)
	if err != nil {
		return err
	}
	coord, err := config.CoordIndex(coordFlag)
	if err != nil {
		return err
	}

	solver := sim.NewSolver(integrators.NewRK45())
	opts := cfg.GetOptions()

	start := x0
	t0 := 0.0
	if cfg.Transient > 0 {
		settle, err := solver.Integrate(context.Background(), sys, x0, dynamo.Span{T0: 0, T1: cfg.Transient}, opts)
		if err != nil {
			return err
		}
		t0, start = settle.Final()
	}
	traj, err := solver.Integrate(context.Background(), sys, start, dynamo.Span{T0: t0, T1: t0 + duration}, opts)
	if err != nil {
		return err
	}

	series := traj.Coord(coord)
	n := analysis.FloorPow2(len(series))
	if n < 2 {
		return fmt.Errorf("trajectory too short for a spectrum")
	}
	spectrum := analysis.PowerSpectrum(series[:n])

	display := spectrum
	if len(display) > 400 {
		display = display[:400]
	}
	fmt.Println(asciigraph.Plot(display,
		asciigraph.Height(14),
		asciigraph.Width(80),
		asciigraph.Caption(fmt.Sprintf("%s: power spectrum of %s", cfg.System, coordFlag)),
	))
	fmt.Printf("dominant frequency bin: %d of %d\n", analysis.DominantFrequency(spectrum), len(spectrum))
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd, args[0])
	if err != nil {
		return err
	}
	sys, x0, err := buildSystem(cfg)
	if err != nil {
		return err
	}
	plane, err := cfg.GetPlane()
	if err != nil {
		return err
	}
	coord, err := config.CoordIndex(coordFlag)
	if err != nil {
		return err
	}

	model := viz.NewLiveModel(cfg.System, sys, integrators.NewRK4(), x0, plane, stepHint, coord)
	_, err = tea.NewProgram(model).Run()
	return err
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := store.New(dataDir)
	return st.Export(os.Stdout, args[0])
}

func offPlaneCoords(plane section.Plane) (int, int) {
	coords := make([]int, 0, 2)
	for i := 0; i < 3 && len(coords) < 2; i++ {
		if i != plane.Coord {
			coords = append(coords, i)
		}
	}
	return coords[0], coords[1]
}
