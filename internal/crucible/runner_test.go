package crucible

import (
	"errors"
	"reflect"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/tensegrity/internal/fabric"
	"github.com/san-kum/tensegrity/internal/growth"
	"github.com/san-kum/tensegrity/internal/physics"
	"github.com/san-kum/tensegrity/internal/tenscript"
)

func parse(t *testing.T, source string) *tenscript.FabricPlan {
	t.Helper()
	plan, err := tenscript.ParsePlan(source)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return plan
}

func TestPlanRunnerStages(t *testing.T) {
	r := NewPlanRunner(parse(t, `(fabric (build (seed :left) (grow A+ 1)))`), 5)
	f := fabric.New()
	var stages []string
	last := r.Stage()
	for tick := 0; tick < 100 && !r.IsDone(); tick++ {
		if err := r.Iterate(f); err != nil {
			t.Fatalf("tick %d: %v", tick, err)
		}
		if r.Stage() != last {
			last = r.Stage()
			stages = append(stages, last)
		}
	}
	expected := []string{
		"grow-approach", "grow-calm", "grow-step",
		"grow-approach", "grow-calm", "grow-step",
		"completed",
	}
	if !reflect.DeepEqual(stages, expected) {
		t.Errorf("expected %v, got %v", expected, stages)
	}
	if f.JointCount() != 14 {
		t.Errorf("expected 14 joints, got %d", f.JointCount())
	}
}

func TestPlanRunnerViscosity(t *testing.T) {
	r := NewPlanRunner(parse(t, `(fabric (build (seed :left)) (shape (set-viscosity 42)))`), 0)
	f := fabric.New()
	for tick := 0; tick < 100 && !r.IsDone(); tick++ {
		if err := r.Iterate(f); err != nil {
			t.Fatalf("tick %d: %v", tick, err)
		}
	}
	if !r.IsDone() {
		t.Fatal("expected runner to complete")
	}
	if r.Physics().Viscosity != 42 {
		t.Errorf("expected viscosity 42, got %f", r.Physics().Viscosity)
	}
}

func TestPlanRunnerGrowthError(t *testing.T) {
	plan := &tenscript.FabricPlan{Build: tenscript.BuildPhase{Root: tenscript.MarkNode{Name: "x"}}}
	r := NewPlanRunner(plan, 0)
	err := r.Iterate(fabric.New())
	if !errors.Is(err, growth.ErrMarkNeedsFace) {
		t.Errorf("expected ErrMarkNeedsFace, got %v", err)
	}
}

func TestPretenserPhysics(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		surface physics.Surface
		gravity float64
		factor  float64
	}{
		{"defaults", `(fabric (build (seed :left)))`, physics.Frozen, physics.AirGravity.Gravity, tenscript.DefaultPretenseFactor},
		{"plan surface", `(fabric (surface :bouncy) (build (seed :left)))`, physics.Bouncy, physics.AirGravity.Gravity, tenscript.DefaultPretenseFactor},
		{"absent", `(fabric (build (seed :left)) (pretense (surface :absent) (pretense-factor 1.1)))`, physics.Absent, 0, 1.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPretenser(parse(t, tt.source), DefaultSettings())
			if p.Physics().Surface != tt.surface {
				t.Errorf("expected surface %s, got %s", tt.surface, p.Physics().Surface)
			}
			if p.Physics().Gravity != tt.gravity {
				t.Errorf("expected gravity %g, got %g", tt.gravity, p.Physics().Gravity)
			}
			if p.factor != tt.factor {
				t.Errorf("expected factor %g, got %g", tt.factor, p.factor)
			}
		})
	}
}

func TestPretenserSettingsFactor(t *testing.T) {
	settings := DefaultSettings()
	settings.PretenseFactor = 1.2
	p := NewPretenser(parse(t, `(fabric (build (seed :left)) (pretense (pretense-factor 1.1)))`), settings)
	if p.factor != 1.2 {
		t.Errorf("expected factor 1.2, got %g", p.factor)
	}
}

func TestPretenserStages(t *testing.T) {
	settings := DefaultSettings()
	settings.PretenseCountdown = 10
	settings.SettleLimit = 10
	p := NewPretenser(parse(t, `(fabric (build (seed :left)) (pretense (surface :absent)))`), settings)
	f := fabric.New()
	if _, err := f.AttachTwist(fabric.Left, false, fabric.DefaultPretenstFactor, 1, fabric.FaceID{}); err != nil {
		t.Fatal(err)
	}
	ticks := 0
	for ; ticks < 100 && !p.IsDone(); ticks++ {
		p.Iterate(f)
	}
	if !p.IsDone() {
		t.Fatal("expected pretenser to finish")
	}
	// start, slacken, ten pretensing ticks, at most ten settling ticks
	if ticks < 12 || ticks > 22 {
		t.Errorf("expected between 12 and 22 ticks, got %d", ticks)
	}
}

func TestSettingsValidate(t *testing.T) {
	if err := DefaultSettings().Validate(); err != nil {
		t.Errorf("expected defaults to be valid, got %v", err)
	}
	bad := DefaultSettings()
	bad.IterationsPerFrame = 0
	if err := bad.Validate(); err == nil {
		t.Error("expected error for zero iterations per frame")
	}
	bad = DefaultSettings()
	bad.SettleSpeed = 0
	if err := bad.Validate(); err == nil {
		t.Error("expected error for zero settle speed")
	}
}

func TestOvenPrototype(t *testing.T) {
	f, err := NewOven(fabric.RightOmniTwist).Prototype(3)
	if err != nil {
		t.Fatal(err)
	}
	if f.JointCount() != 20 || f.FaceCount() != 8 {
		t.Errorf("expected 20 joints and 8 faces, got %d and %d", f.JointCount(), f.FaceCount())
	}
	g, _ := NewOven(fabric.RightOmniTwist).Prototype(3)
	if !reflect.DeepEqual(f.Snapshot(), g.Snapshot()) {
		t.Error("expected the same seed to shake the same way")
	}
}

func TestOvenRefusesFrozenPrototype(t *testing.T) {
	oven := NewOven(fabric.LeftTwist)
	f, err := oven.Prototype(1)
	if err != nil {
		t.Fatal(err)
	}
	j, err := f.Joint(f.JointIDs()[0])
	if err != nil {
		t.Fatal(err)
	}
	j.Velocity = mgl64.Vec3{2, 0, 0}

	brick, err := oven.Iterate(f)
	if !f.Frozen() {
		t.Fatal("expected the prototype to freeze")
	}
	if err == nil {
		t.Error("expected an error for a frozen prototype")
	}
	if brick != nil {
		t.Errorf("expected no brick, got %s", brick.Name)
	}
}
