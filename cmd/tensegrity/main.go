package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/san-kum/tensegrity/internal/config"
	"github.com/san-kum/tensegrity/internal/crucible"
	"github.com/san-kum/tensegrity/internal/experiment"
	"github.com/san-kum/tensegrity/internal/sim"
	"github.com/san-kum/tensegrity/internal/storage"
	"github.com/san-kum/tensegrity/internal/store"
	"github.com/san-kum/tensegrity/internal/viz"
)

var (
	configFile string
	dataDir    string
	planDir    string
	logLevel   string

	// Run shaping
	frames         int
	sampleEvery    int
	iterations     int
	preset         string
	pretenseFactor float64
	workers        int
	live           bool
	frameRate      int
	strainBins     int
	noSave         bool

	// Per-run output
	column  string
	xAxis   string
	yAxis   string
	format  string
	outPath string

	// Batches
	sweepMin     float64
	sweepMax     float64
	sweepSteps   int
	numTrials    int
	baseFactor   float64
	perturbation float64
	trialSeed    int64

	bakeSeed   int64
	bakeFrames int
	planScope  string
)

var (
	cfg      *config.Config
	registry *experiment.Registry
)

func main() {
	rootCmd := &cobra.Command{
		Use:               "tensegrity",
		Short:             "grow, shape and pretense tensegrity fabrics",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		RunE: func(cmd *cobra.Command, args []string) error {
			settings, err := crucibleSettings(cmd)
			if err != nil {
				return err
			}
			return viz.RunInteractive(registry.Library(), settings)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	pf.StringVar(&planDir, "plans", "", "directory of extra .tenscript plans")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "debug, info, warn or error")
	pf.IntVar(&iterations, "iterations", 0, "physics ticks per frame")
	pf.StringVar(&preset, "preset", "", "physics preset for the finished fabric")
	pf.Float64Var(&pretenseFactor, "pretense-factor", 0, "override the plan's pretense factor")

	runCmd := &cobra.Command{
		Use:   "run [plan...]",
		Short: "build plans headless and save the results",
		Args:  cobra.ArbitraryArgs,
		RunE:  runPlans,
	}
	runCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frame limit")
	runCmd.Flags().IntVar(&sampleEvery, "sample-every", 10, "frames between history samples")
	runCmd.Flags().IntVar(&workers, "workers", 0, "parallel runs when given several plans (0 = unlimited)")
	runCmd.Flags().BoolVar(&live, "live", false, "draw the fabric while it runs")
	runCmd.Flags().IntVar(&frameRate, "fps", 15, "frame rate for --live")
	runCmd.Flags().IntVar(&strainBins, "strain", 0, "print strain histograms with this many bins")
	runCmd.Flags().BoolVar(&noSave, "no-save", false, "do not record the run")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list recorded runs",
		RunE:  listRuns,
	}
	listCmd.Flags().StringVar(&planScope, "plan", "", "only runs of this plan")

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "show a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run history in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().StringVar(&column, "column", "", "history column (default speed and height)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a run as json, csv, svg or history",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().StringVar(&format, "format", "json", "json, csv, svg, history or result")
	exportCmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default stdout)")

	deleteCmd := &cobra.Command{
		Use:   "delete [run_id]",
		Short: "delete a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  deleteRun,
	}

	analyzeCmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "settling, spectrum and phase portrait of a run",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	analyzeCmd.Flags().StringVar(&xAxis, "x-axis", "height", "history column for the phase x-axis")
	analyzeCmd.Flags().StringVar(&yAxis, "y-axis", "speed", "history column for the phase y-axis")

	plansCmd := &cobra.Command{
		Use:   "plans [name]",
		Short: "list plans or print one",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPlans,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list physics presets",
		RunE:  listPresets,
	}

	bakeCmd := &cobra.Command{
		Use:   "bake [brick]",
		Short: "settle a brick prototype and print the baked template",
		Args:  cobra.ExactArgs(1),
		RunE:  bakeBrick,
	}
	bakeCmd.Flags().Int64Var(&bakeSeed, "seed", 1, "shake seed")
	bakeCmd.Flags().IntVar(&bakeFrames, "frames", 20000, "frame limit")

	watchCmd := &cobra.Command{
		Use:   "watch [plan]",
		Short: "watch a plan grow in the terminal",
		Args:  cobra.MaximumNArgs(1),
		RunE:  watchPlan,
	}

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a yaml scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	scenarioCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "default frame limit per step")

	sweepCmd := &cobra.Command{
		Use:   "sweep [plan]",
		Short: "pretense a plan across a range of factors",
		Args:  cobra.ExactArgs(1),
		RunE:  runSweep,
	}
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 1.01, "lowest pretense factor")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1.1, "highest pretense factor")
	sweepCmd.Flags().IntVar(&sweepSteps, "steps", 5, "number of factors")
	sweepCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frame limit per run")

	trialsCmd := &cobra.Command{
		Use:   "trials [plan]",
		Short: "run a plan with jittered pretense factors",
		Args:  cobra.ExactArgs(1),
		RunE:  runTrials,
	}
	trialsCmd.Flags().IntVar(&numTrials, "n", 10, "number of trials")
	trialsCmd.Flags().Float64Var(&perturbation, "jitter", 0.02, "relative jitter of the factor")
	trialsCmd.Flags().Float64Var(&baseFactor, "factor", 1.03, "base pretense factor")
	trialsCmd.Flags().Int64Var(&trialSeed, "seed", 0, "random seed (0 = time)")
	trialsCmd.Flags().IntVar(&frames, "frames", config.DefaultFrames, "frame limit per run")

	rootCmd.AddCommand(runCmd, listCmd, showCmd, plotCmd, exportCmd, deleteCmd, analyzeCmd,
		plansCmd, presetsCmd, bakeCmd, watchCmd, scenarioCmd, sweepCmd, trialsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup loads the config, applies persistent flags over it and installs
// the default logger.
func setup(cmd *cobra.Command, args []string) error {
	cfg = config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}
	flags := cmd.Flags()
	if flags.Changed("data") {
		cfg.Storage.DataDir = dataDir
	}
	if flags.Changed("plans") {
		cfg.PlanDir = planDir
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}

	level, err := cfg.Log.SlogLevel()
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	registry, err = experiment.NewRegistry(cfg.PlanDir)
	return err
}

func crucibleSettings(cmd *cobra.Command) (crucible.Settings, error) {
	flags := cmd.Flags()
	if flags.Changed("iterations") {
		cfg.Crucible.IterationsPerFrame = iterations
	}
	if flags.Changed("preset") {
		cfg.Physics.Preset = preset
	}
	if flags.Changed("pretense-factor") {
		cfg.Crucible.PretenseFactor = pretenseFactor
	}
	return cfg.Settings()
}

func simConfig(cmd *cobra.Command) sim.Config {
	sc := sim.DefaultConfig()
	sc.MaxFrames = cfg.Frames
	if f := cmd.Flags().Lookup("frames"); f != nil && f.Changed {
		sc.MaxFrames = frames
	}
	if f := cmd.Flags().Lookup("sample-every"); f != nil {
		sc.SampleEvery = sampleEvery
	}
	return sc
}

func openCatalog() (*storage.Catalog, error) {
	if err := os.MkdirAll(cfg.Storage.DataDir, 0755); err != nil {
		return nil, err
	}
	return storage.Open(filepath.Join(cfg.Storage.DataDir, "catalog.db"))
}

func runStore() *store.Store {
	return store.New(filepath.Join(cfg.Storage.DataDir, "runs"))
}

// saveRun records the result in the catalog and writes its files.
func saveRun(cat *storage.Catalog, result *sim.Result) (string, error) {
	id, err := cat.Save(result)
	if err != nil {
		return "", err
	}
	st := runStore()
	if err := st.Init(); err != nil {
		return id, err
	}
	if err := st.Save(id, result); err != nil {
		return id, err
	}
	slog.Debug("run saved", "id", id, "dir", st.Dir(id))
	return id, nil
}

func interruptible() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}
