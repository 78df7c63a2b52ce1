package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/san-kum/tensegrity/internal/analysis"
	"github.com/san-kum/tensegrity/internal/automation"
	"github.com/san-kum/tensegrity/internal/config"
	"github.com/san-kum/tensegrity/internal/crucible"
	"github.com/san-kum/tensegrity/internal/fabric"
	"github.com/san-kum/tensegrity/internal/sim"
	"github.com/san-kum/tensegrity/internal/viz"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func listPlans(cmd *cobra.Command, args []string) error {
	lib := registry.Library()
	if len(args) == 1 {
		plan, err := registry.GetPlan(args[0])
		if err != nil {
			return err
		}
		source, _ := lib.Source(plan.Name)
		fmt.Println(source)
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PLAN\tSURFACE\tSHAPE\tPRETENSE")
	for _, name := range registry.ListPlans() {
		plan, err := lib.Plan(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
			plan.Name,
			plan.PretenseSurface(),
			yesNo(len(plan.Shape) > 0),
			yesNo(plan.Pretense != nil),
		)
	}
	return w.Flush()
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "-"
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "PRESET\tSURFACE\tGRAVITY\tANTIGRAVITY\tVISCOSITY\tDRAG\tSTIFFNESS\tMASS")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%g\t%g\t%g\t%g\t%g\t%g\n",
			name, p.Surface, p.Gravity, p.Antigravity, p.Viscosity, p.Drag, p.Stiffness, p.Mass)
	}
	return w.Flush()
}

type bakedInterval struct {
	Alpha int    `json:"alpha"`
	Omega int    `json:"omega"`
	Role  string `json:"role"`
}

type bakedFace struct {
	Joints [3]int `json:"joints"`
	Name   string `json:"name"`
	Spin   string `json:"spin"`
}

type bakedBrick struct {
	Name      string          `json:"name"`
	Joints    [][3]float64    `json:"joints"`
	Intervals []bakedInterval `json:"intervals"`
	Faces     []bakedFace     `json:"faces"`
}

func newBakedBrick(b *fabric.Brick) bakedBrick {
	out := bakedBrick{Name: b.Name.String()}
	for _, p := range b.Joints {
		out.Joints = append(out.Joints, [3]float64(p))
	}
	for _, in := range b.Intervals {
		out.Intervals = append(out.Intervals, bakedInterval{in.Alpha, in.Omega, in.Role.String()})
	}
	for _, face := range b.Faces {
		out.Faces = append(out.Faces, bakedFace{face.Joints, face.Name.String(), face.Spin.String()})
	}
	return out
}

func bakeBrick(cmd *cobra.Command, args []string) error {
	name, err := fabric.ParseBrickName(args[0])
	if err != nil {
		return err
	}
	settings, err := crucibleSettings(cmd)
	if err != nil {
		return err
	}

	c := crucible.New(settings, slog.Default())
	if err := c.BakeBrick(name, bakeSeed); err != nil {
		return err
	}
	start := time.Now()
	for frame := 0; frame < bakeFrames && c.Busy(); frame++ {
		if _, err := c.Iterate(); err != nil {
			return err
		}
	}
	baked := c.Baked()
	if baked == nil {
		return fmt.Errorf("%s did not settle within %s frames", name, humanize.Comma(int64(bakeFrames)))
	}
	slog.Info("brick baked", "brick", name, "age", c.Fabric().Age(), "elapsed", time.Since(start).Round(time.Millisecond))
	return writeJSON(os.Stdout, newBakedBrick(baked))
}

func watchPlan(cmd *cobra.Command, args []string) error {
	settings, err := crucibleSettings(cmd)
	if err != nil {
		return err
	}
	name := cfg.Plan
	if len(args) == 1 {
		name = args[0]
	}
	plan, err := registry.GetPlan(name)
	if err != nil {
		return err
	}
	settings.Interactive = true
	c := crucible.New(settings, slog.New(slog.NewTextHandler(io.Discard, nil)))
	return viz.Watch(c, plan)
}

func batchRunner(cmd *cobra.Command) (*automation.Runner, error) {
	settings, err := crucibleSettings(cmd)
	if err != nil {
		return nil, err
	}
	return &automation.Runner{
		Registry: registry,
		Settings: settings,
		Sim:      simConfig(cmd),
		Logger:   slog.Default(),
	}, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	runner, err := batchRunner(cmd)
	if err != nil {
		return err
	}
	cat, err := openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	saved := map[string]string{}
	runner.Save = func(name string, result *sim.Result) error {
		id, err := saveRun(cat, result)
		saved[name] = id
		return err
	}

	ctx, cancel := interruptible()
	defer cancel()

	fmt.Printf("scenario: %s\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Printf("%s\n", scenario.Description)
	}
	results, err := runner.RunScenario(ctx, scenario)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tPLAN\tSTAGE\tFRAMES\tHEIGHT\tSAVED")
	for i, r := range results {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.3f\t%s\n",
			i+1,
			r.Result.Plan,
			stageLabel(r.Result.Stage, r.Result.Unstable),
			humanize.Comma(int64(r.Result.Frames)),
			r.Result.Stats.Height,
			shortID(saved[r.Step.SaveAs]),
		)
	}
	if ferr := w.Flush(); ferr != nil && err == nil {
		err = ferr
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	runner, err := batchRunner(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := interruptible()
	defer cancel()

	sweep := automation.PretenseSweep{Plan: args[0], FactorMin: sweepMin, FactorMax: sweepMax, NumSteps: sweepSteps}
	points, err := runner.RunSweep(ctx, sweep)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FACTOR\tHEIGHT\tPEAK STRAIN\tFROZEN")
	for _, p := range points {
		fmt.Fprintf(w, "%.4f\t%.4f\t%.5f\t%v\n", p.Factor, p.Height, p.PeakStrain, p.Unstable)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if len(points) > 1 {
		fmt.Println("\nheight by pretense factor:")
		fmt.Println(analysis.SweepToASCII(points, func(p analysis.SweepPoint) float64 { return p.Height }, 60, 15))
	}
	return nil
}

func runTrials(cmd *cobra.Command, args []string) error {
	runner, err := batchRunner(cmd)
	if err != nil {
		return err
	}
	ctx, cancel := interruptible()
	defer cancel()

	results, err := runner.RunMonteCarlo(ctx, automation.MonteCarloConfig{
		Plan:         args[0],
		BaseFactor:   baseFactor,
		Perturbation: perturbation,
		NumTrials:    numTrials,
		Seed:         trialSeed,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TRIAL\tFACTOR\tHEIGHT\tSTABLE\tTIME")
	for _, r := range results {
		fmt.Fprintf(w, "%d\t%.4f\t%.4f\t%v\t%v\n", r.TrialID, r.Factor, r.Height, r.Stable, r.Elapsed.Round(time.Millisecond))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("\nstable: %d  unstable: %d\n", stable, unstable)
	return nil
}
