package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/san-kum/ljmd/internal/analysis"
	"github.com/san-kum/ljmd/internal/config"
	"github.com/san-kum/ljmd/internal/dynamo"
	"github.com/san-kum/ljmd/internal/experiment"
	"github.com/san-kum/ljmd/internal/export"
	"github.com/san-kum/ljmd/internal/particles"
	"github.com/san-kum/ljmd/internal/storage"
	"github.com/san-kum/ljmd/internal/viz"
)

// loadParticles reads a particle file. Open and parse failures are input
// errors; a local count beyond the file is a usage error.
func loadParticles(path string, local int) (dynamo.Particles, error) {
	p, err := particles.Load(path, local)
	if err != nil {
		if errors.Is(err, dynamo.ErrParameterBounds) {
			return nil, err
		}
		return nil, inputError{err}
	}
	return p, nil
}

// loadExperiment reads the particle file and sets up the experiment around it.
func loadExperiment(cfg *config.Config) (*experiment.Experiment, error) {
	p, err := loadParticles(cfg.Input, cfg.Local)
	if err != nil {
		return nil, err
	}
	exp := experiment.New(cfg, experiment.NewRegistry())
	if err := exp.Setup(p); err != nil {
		return nil, err
	}
	return exp, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	exp, err := loadExperiment(cfg)
	if err != nil {
		return err
	}
	params := exp.Params()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Printf("== Velocity Verlet (%s, N=%d) ==\n\n", cfg.Mode, params.N)
	start := time.Now()
	result, err := exp.Run(ctx)
	elapsed := time.Since(start)
	if err != nil {
		if result == nil {
			return err
		}
		klog.Warningf("run interrupted after %d steps: %v", result.StepsTaken, err)
	}

	fmt.Println(viz.StepTable(result.Samples, !plain))
	fmt.Print(viz.RunFooter(result.StepsTaken, params.Dt, elapsed))
	for _, e := range result.Errors {
		fmt.Printf("error: %v\n", e)
	}
	fmt.Println("\nmetrics:")
	fmt.Print(viz.MetricsTable(result.Metrics))
	fmt.Printf("energy drift: %.6e\n", result.EnergyDrift)
	if cfg.Trajectory != "" {
		fmt.Printf("trajectory: %s\n", cfg.Trajectory)
	}

	if noSave {
		return err
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, saveErr := st.Save(storage.NewMetadata(cfg.Mode, cfg.Input, params, result), result.Samples)
	if saveErr != nil {
		return saveErr
	}
	fmt.Printf("run id: %s\n", runID)
	return err
}

func evaluateEnergy(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	p, err := loadParticles(cfg.Input, cfg.Local)
	if err != nil {
		return err
	}
	params := cfg.Params(len(p))
	if err := params.Validate(); err != nil {
		return err
	}

	reports, err := experiment.NewRegistry().Evaluate(p, params, config.ModeBare, config.ModePeriodic)
	if err != nil {
		return err
	}

	titles := map[string]string{
		config.ModeBare:     "== Lennard Jones ==",
		config.ModePeriodic: "== Periodical Lennard Jones ==",
	}
	for _, r := range reports {
		fmt.Println(titles[r.Mode])
		fmt.Printf("energy: %f\n", r.Energy)
		fmt.Printf("forces sum: %s\n", r.ForceSum)
		if r.Imbalance != nil {
			klog.Warningf("%s: %v", r.Mode, r.Imbalance)
		}
		fmt.Printf("Take: %f seconds\n\n", r.Elapsed.Seconds())
	}
	return nil
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	exp, err := loadExperiment(cfg)
	if err != nil {
		return err
	}
	run, err := exp.Begin()
	if err != nil {
		return err
	}

	m := viz.NewLiveModel(run, exp.Params(), stepsPerTick)
	final, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}
	if lm, ok := final.(viz.LiveModel); ok && lm.Err() != nil {
		return lm.Err()
	}
	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tMODE\tTIME\tN\tSTEPS\tDT\tT0\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d/%d\t%.2f\t%.1f\t%.2e\n",
			run.ID,
			run.Mode,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.N,
			run.StepsTaken,
			run.Steps,
			run.Dt,
			run.T0,
			run.EnergyDrift,
		)
	}

	return w.Flush()
}

// loadRun reads a stored run and extracts the named observables, or all of
// them when names is empty.
func loadRun(runID string, names ...string) (*storage.RunMetadata, []analysisInput, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return nil, nil, err
	}

	samples, err := st.LoadSamples(runID)
	if err != nil {
		return nil, nil, err
	}
	if len(samples) == 0 {
		return nil, nil, fmt.Errorf("no data in run %s", runID)
	}

	if len(names) == 0 {
		names = analysis.Observables()
	}
	inputs := make([]analysisInput, 0, len(names))
	for _, name := range names {
		values, err := analysis.Series(samples, name)
		if err != nil {
			return nil, nil, err
		}
		inputs = append(inputs, analysisInput{name: name, values: values})
	}
	return meta, inputs, nil
}

type analysisInput struct {
	name   string
	values []float64
}

func plotRun(cmd *cobra.Command, args []string) error {
	names := []string{"temperature", "total"}
	if plotObservable != "" {
		names = []string{plotObservable}
	}
	meta, inputs, err := loadRun(args[0], names...)
	if err != nil {
		return err
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("mode: %s\n", meta.Mode)
	fmt.Printf("samples: %d\n\n", len(inputs[0].values))

	for _, in := range inputs {
		graph := asciigraph.Plot(in.values,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(in.name+" vs step"),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, inputs, err := loadRun(args[0], analyzeObservable)
	if err != nil {
		return err
	}
	in := inputs[0]

	fmt.Printf("analysis: %s (%s)\n", meta.ID, in.name)

	s := analysis.Summarize(in.values)
	fmt.Printf("mean: %.6e\n", s.Mean)
	fmt.Printf("stddev: %.6e\n", s.StdDev)
	fmt.Printf("min: %.6e\n", s.Min)
	fmt.Printf("max: %.6e\n\n", s.Max)

	ps := analysis.PowerSpectrum(in.values)
	if len(ps) > 1 {
		graph := asciigraph.Plot(ps,
			asciigraph.Height(15),
			asciigraph.Width(80),
			asciigraph.Caption("power spectrum ("+in.name+")"),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	period := analysis.DominantPeriod(in.values)
	if period == 0 {
		fmt.Println("no dominant oscillation")
		return nil
	}
	// Samples are recorded once per step.
	fmt.Printf("dominant period: %.1f steps (%.3f fs)\n", period, period*meta.Dt)
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	if svgPath == "" {
		st := storage.New(dataDir)
		meta, err := st.Load(args[0])
		if err != nil {
			return err
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(meta)
	}

	_, inputs, err := loadRun(args[0], exportObservable)
	if err != nil {
		return err
	}
	svg := export.SeriesToSVG(inputs[0].values, 800, 300, "#00aaff")
	if svg == "" {
		return fmt.Errorf("not enough samples to draw %s", inputs[0].name)
	}
	if err := os.WriteFile(svgPath, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgPath)
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}
	if len(samples) == 0 {
		return fmt.Errorf("no data to export")
	}

	if outPath != "" {
		return storage.ExportCSV(outPath, samples)
	}
	return storage.WriteCSV(os.Stdout, samples)
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}
	samples, err := st.LoadSamples(args[0])
	if err != nil {
		return err
	}

	if outPath != "" {
		return storage.ExportJSON(outPath, *meta, samples)
	}
	return storage.WriteJSON(os.Stdout, *meta, samples)
}

func snapshot(cmd *cobra.Command, args []string) error {
	p, err := loadParticles(args[0], local)
	if err != nil {
		return err
	}

	svg := export.ParticlesToSVG(p, boxLength, svgSize)
	if outPath == "" {
		fmt.Println(svg)
		return nil
	}
	if err := os.WriteFile(outPath, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("wrote %d particles to %s\n", len(p), outPath)
	return nil
}
