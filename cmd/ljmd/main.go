package main

import (
	"errors"
	goflag "flag"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/san-kum/ljmd/internal/config"
)

var (
	dataDir string

	configFile      string
	preset          string
	local           int
	mode            string
	steps           int
	dt              float64
	t0              float64
	gamma           float64
	thermostatEvery int
	logEvery        int
	boxLength       float64
	rCut            float64
	images          int
	tolerance       float64
	seed            int64
	trajectory      string
	validate        bool

	plain        bool
	noSave       bool
	stepsPerTick int
	outPath      string
	svgPath      string
	svgSize      int

	plotObservable    string
	analyzeObservable string
	exportObservable  string
)

// inputError marks failures to open or parse an input file. They exit with
// status 2; everything else exits with status 1.
type inputError struct {
	err error
}

func (e inputError) Error() string { return e.err.Error() }
func (e inputError) Unwrap() error { return e.err }

func main() {
	rootCmd := &cobra.Command{
		Use:          "ljmd",
		Short:        "lennard-jones molecular dynamics",
		SilenceUsage: true,
	}

	klogFlags := goflag.NewFlagSet("klog", goflag.ExitOnError)
	klog.InitFlags(klogFlags)
	rootCmd.PersistentFlags().AddGoFlagSet(klogFlags)
	rootCmd.PersistentFlags().StringVar(&dataDir, "data", ".ljmd", "data directory")

	runCmd := &cobra.Command{
		Use:   "run [particle-file]",
		Short: "run a velocity verlet simulation",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addRunFlags(runCmd)
	runCmd.Flags().BoolVar(&plain, "plain", false, "print the step table without styling")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")

	energyCmd := &cobra.Command{
		Use:   "energy [particle-file]",
		Short: "evaluate bare and periodic energies once",
		Args:  cobra.MaximumNArgs(1),
		RunE:  evaluateEnergy,
	}
	addRunFlags(energyCmd)

	liveCmd := &cobra.Command{
		Use:   "live [particle-file]",
		Short: "run a simulation with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addRunFlags(liveCmd)
	liveCmd.Flags().IntVar(&stepsPerTick, "steps-per-tick", 1, "integration steps per frame")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		RunE:  listRuns,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run observables",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&plotObservable, "observable", "", "observable to plot (default: temperature and total)")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "statistics and frequency analysis of an observable",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&analyzeObservable, "observable", "temperature", "observable to analyze")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export run metadata, or an observable as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&svgPath, "svg", "", "write the observable as an SVG line chart to this file")
	exportCmd.Flags().StringVar(&exportObservable, "observable", "total", "observable for --svg")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run samples to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}
	exportCSVCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run metadata and samples to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}
	exportJSONCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	snapshotCmd := &cobra.Command{
		Use:   "snapshot [particle-file]",
		Short: "draw the xy projection of a particle file as SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  snapshot,
	}
	snapshotCmd.Flags().IntVar(&local, "local", 0, "keep only the first N particles")
	snapshotCmd.Flags().Float64Var(&boxLength, "box", config.DefaultBoxLength, "box length, 0 fits the view to the particles")
	snapshotCmd.Flags().IntVar(&svgSize, "size", 600, "image size in pixels")
	snapshotCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list available presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, name := range config.ListPresets() {
				p := config.GetPreset(name)
				fmt.Printf("  %-12s mode=%s steps=%d t0=%g thermostat_every=%d\n",
					name, p.Mode, p.Steps, p.T0, p.ThermostatEvery)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, energyCmd, liveCmd, listCmd, plotCmd, analyzeCmd,
		exportCmd, exportCSVCmd, exportJSONCmd, snapshotCmd, presetsCmd)

	err := rootCmd.Execute()
	klog.Flush()
	if err != nil {
		var ie inputError
		if errors.As(err, &ie) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func addRunFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml or ini)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.IntVar(&local, "local", 0, "keep only the first N particles")
	f.StringVar(&mode, "mode", config.ModePeriodic, "force evaluation: bare or periodic")
	f.IntVar(&steps, "steps", config.DefaultSteps, "number of steps")
	f.Float64Var(&dt, "dt", config.DefaultDt, "timestep (fs)")
	f.Float64Var(&t0, "t0", config.DefaultT0, "target temperature (K)")
	f.Float64Var(&gamma, "gamma", config.DefaultGamma, "berendsen coupling")
	f.IntVar(&thermostatEvery, "thermostat-every", config.DefaultThermostatEvery, "apply the thermostat every N steps, 0 disables")
	f.IntVar(&logEvery, "log-every", config.DefaultLogEvery, "write a trajectory frame every N steps")
	f.Float64Var(&boxLength, "box", config.DefaultBoxLength, "box length (A)")
	f.Float64Var(&rCut, "rcut", config.DefaultRCut, "cutoff radius (A)")
	f.IntVar(&images, "images", config.DefaultImages, "periodic images, 1 to 27")
	f.Float64Var(&tolerance, "tolerance", config.DefaultTolerance, "force sum tolerance")
	f.Int64Var(&seed, "seed", config.DefaultSeed, "random seed, 0 seeds from the clock")
	f.StringVar(&trajectory, "trajectory", "", "PDB trajectory output file")
	f.BoolVar(&validate, "validate", true, "stop on non-finite state")
}

// buildConfig layers preset, config file and explicitly set flags, in that
// order, over the defaults. A config file only overrides the keys it sets.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if preset != "" {
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
	}

	if configFile != "" {
		loaded, err := config.LoadOver(configFile, cfg)
		if err != nil {
			return nil, inputError{fmt.Errorf("failed to load config: %w", err)}
		}
		cfg = loaded
	}

	if len(args) > 0 {
		cfg.Input = args[0]
	}

	f := cmd.Flags()
	if f.Changed("local") {
		cfg.Local = local
	}
	if f.Changed("mode") {
		cfg.Mode = mode
	}
	if f.Changed("steps") {
		cfg.Steps = steps
	}
	if f.Changed("dt") {
		cfg.Dt = dt
	}
	if f.Changed("t0") {
		cfg.T0 = t0
	}
	if f.Changed("gamma") {
		cfg.Gamma = gamma
	}
	if f.Changed("thermostat-every") {
		cfg.ThermostatEvery = thermostatEvery
	}
	if f.Changed("log-every") {
		cfg.LogEvery = logEvery
	}
	if f.Changed("box") {
		cfg.BoxLength = boxLength
	}
	if f.Changed("rcut") {
		cfg.RCut = rCut
	}
	if f.Changed("images") {
		cfg.Images = images
	}
	if f.Changed("tolerance") {
		cfg.Tolerance = tolerance
	}
	if f.Changed("seed") {
		cfg.Seed = seed
	}
	if f.Changed("trajectory") {
		cfg.Trajectory = trajectory
	}
	if f.Changed("validate") {
		cfg.ValidateState = validate
	}

	if cfg.Input == "" {
		return nil, fmt.Errorf("no particle file given")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
