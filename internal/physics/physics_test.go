package physics

import (
	"testing"

	"gopkg.in/yaml.v3"
)

func TestParseSurface(t *testing.T) {
	tests := []struct {
		in       string
		expected Surface
	}{
		{":frozen", Frozen},
		{"bouncy", Bouncy},
		{":Sticky", Sticky},
		{"absent", Absent},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSurface(tt.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
	if _, err := ParseSurface(":lava"); err == nil {
		t.Error("expected error for unknown surface")
	}
}

func TestSurfaceYAML(t *testing.T) {
	var p Physics
	if err := yaml.Unmarshal([]byte("surface: bouncy\ngravity: 1e-7\n"), &p); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if p.Surface != Bouncy {
		t.Errorf("expected bouncy, got %v", p.Surface)
	}
	if p.Gravity != 1e-7 {
		t.Errorf("expected gravity 1e-7, got %g", p.Gravity)
	}
}

func TestPresetsValidate(t *testing.T) {
	for name, p := range map[string]Physics{"liquid": Liquid, "air": AirGravity} {
		if err := p.Validate(); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	if err := (Physics{Stiffness: 1, Drag: 1}).Validate(); err == nil {
		t.Error("expected drag of 1 to be rejected")
	}
}

func TestMassScale(t *testing.T) {
	if (Physics{}).MassScale() != 1 {
		t.Error("zero mass should scale by 1")
	}
	if (Physics{Mass: 2}).MassScale() != 2 {
		t.Error("expected mass scale 2")
	}
}
