package automation

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/tensegrity/internal/crucible"
	"github.com/san-kum/tensegrity/internal/experiment"
	"github.com/san-kum/tensegrity/internal/sim"
	"github.com/san-kum/tensegrity/internal/tenscript"
)

const plans = `
(fabric (name "column") (build (seed :left) (grow A+ 2)))
(fabric (name "standing") (build (seed :left) (grow A+ 2)) (pretense (surface :frozen)))
`

const scenarioYAML = `
name: pair
description: a column then a standing fabric
steps:
  - plan: column
    frames: 3000
    save_as: first
  - plan: standing
    preset: air-gravity
    pretense_factor: 1.02
`

func testRunner(t *testing.T) *Runner {
	t.Helper()
	lib := tenscript.NewLibrary()
	if _, err := lib.AddSource(plans, "test"); err != nil {
		t.Fatal(err)
	}
	settings := crucible.DefaultSettings()
	settings.IterationsPerFrame = 100
	settings.GrowCountdown = 10
	settings.PretenseCountdown = 100
	settings.SettleLimit = 200
	return &Runner{
		Registry: experiment.NewRegistryFrom(lib),
		Settings: settings,
		Sim:      sim.Config{MaxFrames: 5000, SampleEvery: 10, StopAtRest: true},
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestLoadScenario(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pair.yaml")
	if err := os.WriteFile(path, []byte(scenarioYAML), 0644); err != nil {
		t.Fatal(err)
	}
	sc, err := LoadScenario(path)
	if err != nil {
		t.Fatal(err)
	}
	if sc.Name != "pair" || len(sc.Steps) != 2 {
		t.Fatalf("expected scenario pair with 2 steps, got %s with %d", sc.Name, len(sc.Steps))
	}
	if sc.Steps[0].SaveAs != "first" || sc.Steps[0].Frames != 3000 {
		t.Errorf("unexpected first step %+v", sc.Steps[0])
	}
	if sc.Steps[1].Preset != "air-gravity" || sc.Steps[1].PretenseFactor != 1.02 {
		t.Errorf("unexpected second step %+v", sc.Steps[1])
	}
}

func TestParseScenario_Invalid(t *testing.T) {
	if _, err := ParseScenario([]byte("name: empty\n")); !errors.Is(err, ErrEmptyScenario) {
		t.Errorf("expected ErrEmptyScenario, got %v", err)
	}
	if _, err := ParseScenario([]byte("steps:\n  - frames: 10\n")); err == nil {
		t.Error("expected error for a step without a plan")
	}
	if _, err := ParseScenario([]byte("steps: [")); err == nil {
		t.Error("expected yaml error")
	}
}

func TestStepConfig(t *testing.T) {
	r := testRunner(t)
	gravity := 0.0
	cfg, err := r.stepConfig(ScenarioStep{Plan: "column", Frames: 7, Preset: "liquid", Gravity: &gravity, PretenseFactor: 1.1})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Sim.MaxFrames != 7 || cfg.Sim.SampleEvery != 10 {
		t.Errorf("expected 7 frames sampled every 10, got %+v", cfg.Sim)
	}
	if cfg.Settings.PretenseFactor != 1.1 {
		t.Errorf("expected pretense factor 1.1, got %g", cfg.Settings.PretenseFactor)
	}
	if cfg.Settings.Lab == nil || cfg.Settings.Lab.Gravity != 0 {
		t.Errorf("expected liquid lab without gravity, got %+v", cfg.Settings.Lab)
	}

	if _, err := r.stepConfig(ScenarioStep{Plan: "column", Gravity: &gravity}); err == nil {
		t.Error("expected error for gravity without a preset")
	}
	if _, err := r.stepConfig(ScenarioStep{Plan: "column", Preset: "treacle"}); !errors.Is(err, experiment.ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestRunScenario(t *testing.T) {
	r := testRunner(t)
	saved := map[string]*sim.Result{}
	r.Save = func(name string, result *sim.Result) error {
		saved[name] = result
		return nil
	}
	sc, err := ParseScenario([]byte(scenarioYAML))
	if err != nil {
		t.Fatal(err)
	}

	results, err := r.RunScenario(context.Background(), sc)
	if err != nil {
		t.Fatalf("scenario failed: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if results[0].Result.Plan != "column" || results[1].Result.Plan != "standing" {
		t.Errorf("expected column then standing, got %s then %s", results[0].Result.Plan, results[1].Result.Plan)
	}
	if len(saved) != 1 || saved["first"] != results[0].Result {
		t.Errorf("expected only the first step saved, got %v", saved)
	}
}

func TestRunScenario_UnknownPlan(t *testing.T) {
	r := testRunner(t)
	sc := &Scenario{Name: "bad", Steps: []ScenarioStep{{Plan: "column", Frames: 1}, {Plan: "tripod"}}}
	results, err := r.RunScenario(context.Background(), sc)
	if !errors.Is(err, experiment.ErrUnknownPlan) {
		t.Errorf("expected ErrUnknownPlan, got %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected the first step to complete, got %d results", len(results))
	}
}

func TestRunScenario_SaveError(t *testing.T) {
	r := testRunner(t)
	boom := errors.New("disk full")
	r.Save = func(string, *sim.Result) error { return boom }
	sc := &Scenario{Steps: []ScenarioStep{{Plan: "column", Frames: 1, SaveAs: "x"}}}
	if _, err := r.RunScenario(context.Background(), sc); !errors.Is(err, boom) {
		t.Errorf("expected save error, got %v", err)
	}
}

func TestSweepFactors(t *testing.T) {
	factors := PretenseSweep{FactorMin: 1, FactorMax: 1.1, NumSteps: 3}.Factors()
	expected := []float64{1, 1.05, 1.1}
	if len(factors) != len(expected) {
		t.Fatalf("expected %d factors, got %d", len(expected), len(factors))
	}
	for i := range expected {
		if d := factors[i] - expected[i]; d > 1e-12 || d < -1e-12 {
			t.Errorf("factor %d: expected %g, got %g", i, expected[i], factors[i])
		}
	}
	if f := (PretenseSweep{FactorMin: 1.2, NumSteps: 1}).Factors(); len(f) != 1 || f[0] != 1.2 {
		t.Errorf("expected a single factor 1.2, got %v", f)
	}
}

func TestRunSweep(t *testing.T) {
	r := testRunner(t)
	points, err := r.RunSweep(context.Background(), PretenseSweep{Plan: "standing", FactorMin: 1.01, FactorMax: 1.05, NumSteps: 2})
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 2 {
		t.Errorf("expected 2 points, got %d", len(points))
	}
	if _, err := r.RunSweep(context.Background(), PretenseSweep{Plan: "standing", FactorMin: 2, FactorMax: 1, NumSteps: 2}); err == nil {
		t.Error("expected error for inverted range")
	}
}

func TestRunMonteCarlo(t *testing.T) {
	r := testRunner(t)
	cfg := MonteCarloConfig{Plan: "standing", BaseFactor: 1.03, Perturbation: 0.01, NumTrials: 2, Seed: 7}
	results, err := r.RunMonteCarlo(context.Background(), cfg)
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 trials, got %d", len(results))
	}
	for _, res := range results {
		if res.Factor < 1.03*0.99 || res.Factor > 1.03*1.01 {
			t.Errorf("trial %d: factor %g outside jitter range", res.TrialID, res.Factor)
		}
	}
	stable, unstable := MonteCarloStats(results)
	if stable+unstable != 2 {
		t.Errorf("expected 2 counted trials, got %d", stable+unstable)
	}

	if _, err := r.RunMonteCarlo(context.Background(), MonteCarloConfig{Plan: "standing", BaseFactor: 0}); err == nil {
		t.Error("expected error for zero base factor")
	}
}
