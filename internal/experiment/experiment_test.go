package experiment

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/san-kum/tensegrity/internal/crucible"
	"github.com/san-kum/tensegrity/internal/sim"
	"github.com/san-kum/tensegrity/internal/tenscript"
)

const column = `(fabric (name "column") (build (seed :left) (grow A+ 2)))`

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRegistry(t *testing.T) *Registry {
	t.Helper()
	lib := tenscript.NewLibrary()
	if _, err := lib.AddSource(column, "test"); err != nil {
		t.Fatal(err)
	}
	return NewRegistryFrom(lib)
}

func quickConfig() Config {
	s := crucible.DefaultSettings()
	s.IterationsPerFrame = 100
	s.GrowCountdown = 10
	s.PretenseCountdown = 100
	s.SettleLimit = 200
	return Config{
		Plan:     "column",
		Settings: s,
		Sim:      sim.Config{MaxFrames: 5000, SampleEvery: 10, StopAtRest: true},
	}
}

func TestBootstrapRegistry(t *testing.T) {
	r, err := NewRegistry("")
	if err != nil {
		t.Fatal(err)
	}
	if len(r.ListPlans()) == 0 {
		t.Error("expected built-in plans")
	}
	if _, err := r.GetPlan("Halo by Crane"); err != nil {
		t.Errorf("expected halo-by-crane, got %v", err)
	}
}

func TestGetPlan_Unknown(t *testing.T) {
	r := testRegistry(t)
	_, err := r.GetPlan("tripod")
	if !errors.Is(err, ErrUnknownPlan) {
		t.Errorf("expected ErrUnknownPlan, got %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	r := testRegistry(t)
	if _, err := r.GetPreset("liquid"); err != nil {
		t.Errorf("expected liquid preset, got %v", err)
	}
	if _, err := r.GetPreset("treacle"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
	if len(r.ListPresets()) == 0 {
		t.Error("expected presets")
	}
}

func TestDefaultMetricsFresh(t *testing.T) {
	r := testRegistry(t)
	a, b := r.DefaultMetrics(), r.DefaultMetrics()
	if len(a) != len(b) || len(a) == 0 {
		t.Fatalf("expected matching metric sets, got %d and %d", len(a), len(b))
	}
	for i := range a {
		if a[i] == b[i] {
			t.Errorf("metric %s shared between calls", a[i].Name())
		}
	}
}

func TestRunWithoutSetup(t *testing.T) {
	exp := New(quickConfig(), quietLogger())
	if _, err := exp.Run(context.Background()); !errors.Is(err, ErrNotSetup) {
		t.Errorf("expected ErrNotSetup, got %v", err)
	}
}

func TestSetupRejectsBadConfig(t *testing.T) {
	cfg := quickConfig()
	cfg.Settings.IterationsPerFrame = 0
	r := testRegistry(t)
	if _, err := r.Prepare(cfg, quietLogger()); err == nil {
		t.Error("expected error for zero iterations per frame")
	}
}

func TestPrepareAndRun(t *testing.T) {
	r := testRegistry(t)
	exp, err := r.Prepare(quickConfig(), quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	if exp.Simulator() == nil {
		t.Fatal("expected a simulator after setup")
	}

	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if !result.Built {
		t.Error("expected the fabric to be built")
	}
	for _, name := range []string{"kinetic_energy", "stability", "peak_strain", "peak_speed", "height"} {
		if _, ok := result.Metrics[name]; !ok {
			t.Errorf("expected metric %s in result", name)
		}
	}
}
