package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/tensegrity/internal/analysis"
	"github.com/san-kum/tensegrity/internal/crucible"
	"github.com/san-kum/tensegrity/internal/export"
	"github.com/san-kum/tensegrity/internal/fabric"
	"github.com/san-kum/tensegrity/internal/sim"
	"github.com/san-kum/tensegrity/internal/storage"
	"github.com/san-kum/tensegrity/internal/store"
	"github.com/san-kum/tensegrity/internal/tenscript"
	"github.com/san-kum/tensegrity/internal/tui"
)

func runPlans(cmd *cobra.Command, args []string) error {
	settings, err := crucibleSettings(cmd)
	if err != nil {
		return err
	}
	names := args
	if len(names) == 0 {
		names = []string{cfg.Plan}
	}
	plans := make([]*tenscript.FabricPlan, len(names))
	for i, name := range names {
		if plans[i], err = registry.GetPlan(name); err != nil {
			return err
		}
	}

	ctx, cancel := interruptible()
	defer cancel()

	var results []*sim.Result
	var last *crucible.Crucible
	if len(plans) == 1 {
		s := sim.New(nil)
		for _, m := range registry.DefaultMetrics() {
			s.AddMetric(m)
		}
		s.AddObserver(sim.ObserverFunc(func(c *crucible.Crucible, frame int) { last = c }))
		if live {
			renderer := tui.NewLiveRenderer(os.Stdout, frameRate)
			renderer.Start()
			defer renderer.Stop()
			s.AddObserver(renderer)
		}
		fmt.Printf("running %s...\n", plans[0].Name)
		result, err := s.RunPlan(ctx, plans[0], settings, simConfig(cmd))
		if err != nil {
			return err
		}
		results = append(results, result)
	} else {
		fmt.Printf("running %d plans...\n", len(plans))
		ensemble := sim.NewEnsemble(settings, registry.DefaultMetrics, workers, nil)
		results, err = ensemble.Run(ctx, plans, simConfig(cmd))
		if err != nil {
			return err
		}
	}

	var cat *storage.Catalog
	if !noSave {
		if cat, err = openCatalog(); err != nil {
			return err
		}
		defer cat.Close()
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPLAN\tSTAGE\tFRAMES\tAGE\tJOINTS\tPUSHES\tPULLS\tHEIGHT\tTIME")
	for _, result := range results {
		id := "-"
		if cat != nil {
			if id, err = saveRun(cat, result); err != nil {
				return err
			}
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%d\t%d\t%.3f\t%v\n",
			shortID(id),
			result.Plan,
			stageLabel(result.Stage, result.Unstable),
			humanize.Comma(int64(result.Frames)),
			humanize.Comma(int64(result.Stats.Age)),
			result.Stats.Joints,
			result.Stats.Pushes,
			result.Stats.Pulls,
			result.Stats.Height,
			result.Elapsed.Round(time.Millisecond),
		)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	if len(results) == 1 {
		fmt.Println("\nmetrics:")
		printMetrics(os.Stdout, results[0].Metrics)
	}
	if strainBins > 0 && last != nil {
		fmt.Println()
		for _, h := range analysis.StrainHistograms(last.Fabric(), strainBins) {
			fmt.Println(h)
		}
	}
	return nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func stageLabel(stage string, unstable bool) string {
	if unstable {
		return stage + " (frozen)"
	}
	return stage
}

func printMetrics(w io.Writer, metrics map[string]float64) {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %s: %.6g\n", name, metrics[name])
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	cat, err := openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	runs, err := cat.List(planScope)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPLAN\tCREATED\tSTAGE\tFRAMES\tJOINTS\tHEIGHT")
	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%.3f\n",
			shortID(run.ID),
			run.Plan,
			humanize.Time(run.CreatedAt),
			stageLabel(run.Stage, run.Unstable),
			humanize.Comma(int64(run.Frames)),
			run.Joints,
			run.Height,
		)
	}
	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	cat, err := openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	run, err := cat.Get(args[0])
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "id:\t%s\n", run.ID)
	fmt.Fprintf(w, "plan:\t%s\n", run.Plan)
	fmt.Fprintf(w, "created:\t%s (%s)\n", run.CreatedAt.Local().Format("2006-01-02 15:04:05"), humanize.Time(run.CreatedAt))
	fmt.Fprintf(w, "stage:\t%s\n", stageLabel(run.Stage, run.Unstable))
	fmt.Fprintf(w, "frames:\t%s\n", humanize.Comma(int64(run.Frames)))
	fmt.Fprintf(w, "age:\t%s ticks\n", humanize.Comma(int64(run.Age)))
	fmt.Fprintf(w, "intervals:\t%d joints, %d pushes, %d pulls\n", run.Joints, run.Pushes, run.Pulls)
	fmt.Fprintf(w, "height:\t%.4f\n", run.Height)
	fmt.Fprintf(w, "elapsed:\t%v\n", run.Elapsed.Round(time.Millisecond))
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Println("\nmetrics:")
	printMetrics(os.Stdout, run.Metrics)
	return nil
}

func loadHistory(id string) (*storage.Run, []sim.Sample, error) {
	cat, err := openCatalog()
	if err != nil {
		return nil, nil, err
	}
	defer cat.Close()

	run, err := cat.Get(id)
	if err != nil {
		return nil, nil, err
	}
	history, err := cat.History(run.ID)
	if err != nil {
		return nil, nil, err
	}
	if len(history) == 0 {
		return nil, nil, fmt.Errorf("run %s has no history", shortID(run.ID))
	}
	return run, history, nil
}

func plotRun(cmd *cobra.Command, args []string) error {
	run, history, err := loadHistory(args[0])
	if err != nil {
		return err
	}

	columns := []string{"speed", "height"}
	if column != "" {
		columns = []string{column}
	}

	fmt.Printf("run: %s\n", shortID(run.ID))
	fmt.Printf("plan: %s\n", run.Plan)
	fmt.Printf("samples: %d\n\n", len(history))

	for _, name := range columns {
		col, ok := analysis.Columns[name]
		if !ok {
			return &analysis.UnknownColumnError{Name: name}
		}
		graph := asciigraph.Plot(analysis.Series(history, col),
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(name+" by sample"),
		)
		fmt.Println(graph)
		fmt.Println()
	}
	return nil
}

func exportRun(cmd *cobra.Command, args []string) error {
	cat, err := openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	run, err := cat.Get(args[0])
	if err != nil {
		return err
	}

	out := io.Writer(os.Stdout)
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	st := runStore()
	switch format {
	case "json", "csv", "svg":
		snap, err := st.LoadSnapshot(run.ID)
		if err != nil {
			return err
		}
		return writeSnapshot(out, snap, format)
	case "history":
		history, err := cat.History(run.ID)
		if err != nil {
			return err
		}
		return store.WriteHistoryCSV(out, history)
	case "result":
		return writeJSON(out, run)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

func writeSnapshot(w io.Writer, snap *fabric.Snapshot, format string) error {
	switch format {
	case "csv":
		return store.WriteSnapshotCSV(w, snap)
	case "svg":
		return export.WriteWireframe(w, snap, export.DefaultOptions())
	default:
		return store.WriteSnapshotJSON(w, snap)
	}
}

func deleteRun(cmd *cobra.Command, args []string) error {
	cat, err := openCatalog()
	if err != nil {
		return err
	}
	defer cat.Close()

	run, err := cat.Get(args[0])
	if err != nil {
		return err
	}
	if err := cat.Delete(run.ID); err != nil {
		return err
	}
	if err := runStore().Remove(run.ID); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	fmt.Printf("deleted %s\n", shortID(run.ID))
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	run, history, err := loadHistory(args[0])
	if err != nil {
		return err
	}

	fmt.Printf("analysis: %s\n", shortID(run.ID))
	fmt.Printf("plan: %s\n\n", run.Plan)

	settings := cfg.Crucible
	if frame, ok := analysis.SettleFrame(history, settings.SettleSpeed); ok {
		fmt.Printf("settled by frame %s\n", humanize.Comma(int64(frame)))
	} else {
		fmt.Println("never settled")
	}

	rate := 1.0
	if len(history) > 1 && history[1].Frame > history[0].Frame {
		rate = 1 / float64(history[1].Frame-history[0].Frame)
	}
	speed := analysis.Series(history, analysis.Columns["speed"])
	if freq, err := analysis.DominantFrequency(speed, rate); err == nil {
		fmt.Printf("dominant speed frequency: %.4f per frame\n", freq)
		if freq > 0 {
			fmt.Printf("period: %.1f frames\n", 1/freq)
		}
		ps := analysis.Spectrum(speed)
		if len(ps) > 2 {
			fmt.Println(asciigraph.Plot(ps[1:],
				asciigraph.Height(10),
				asciigraph.Width(80),
				asciigraph.Caption("speed spectrum"),
			))
		}
	} else if !errors.Is(err, analysis.ErrTooFewSamples) {
		return err
	}

	pp, err := analysis.NewPhasePortrait(history, xAxis, yAxis)
	if err != nil {
		return err
	}
	fmt.Printf("\nphase portrait: %s vs %s\n", yAxis, xAxis)
	fmt.Println(strings.TrimRight(pp.ASCII(60, 20), "\n"))
	return nil
}
