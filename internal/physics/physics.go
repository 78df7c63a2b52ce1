package physics

import (
	"fmt"
	"strings"
)

type Surface int

const (
	Absent Surface = iota
	Frozen
	Sticky
	Bouncy
)

var surfaceNames = map[Surface]string{
	Absent: "absent",
	Frozen: "frozen",
	Sticky: "sticky",
	Bouncy: "bouncy",
}

func (s Surface) String() string {
	if name, ok := surfaceNames[s]; ok {
		return name
	}
	return fmt.Sprintf("surface(%d)", int(s))
}

// ParseSurface accepts the tenscript atom form (":frozen") or a bare name.
func ParseSurface(name string) (Surface, error) {
	name = strings.TrimPrefix(strings.ToLower(name), ":")
	for surface, n := range surfaceNames {
		if n == name {
			return surface, nil
		}
	}
	return Absent, fmt.Errorf("physics: unknown surface %q", name)
}

func (s Surface) MarshalYAML() (interface{}, error) {
	return s.String(), nil
}

func (s *Surface) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var name string
	if err := unmarshal(&name); err != nil {
		return err
	}
	parsed, err := ParseSurface(name)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

type Physics struct {
	Surface     Surface `yaml:"surface"`
	Gravity     float64 `yaml:"gravity"`
	Antigravity float64 `yaml:"antigravity"`
	Viscosity   float64 `yaml:"viscosity"`
	Drag        float64 `yaml:"drag"`
	Stiffness   float64 `yaml:"stiffness"`
	Mass        float64 `yaml:"mass"`
}

var Liquid = Physics{
	Surface:   Absent,
	Viscosity: 1e4,
	Stiffness: 5e-5,
	Mass:      1,
}

var AirGravity = Physics{
	Surface:     Frozen,
	Gravity:     2e-8,
	Antigravity: 1e-3,
	Viscosity:   1e3,
	Drag:        1e-4,
	Stiffness:   1e-2,
	Mass:        1,
}

// MassScale is never zero so a zero-valued Physics still integrates.
func (p Physics) MassScale() float64 {
	if p.Mass <= 0 {
		return 1
	}
	return p.Mass
}

func (p Physics) WithSurface(s Surface) Physics {
	p.Surface = s
	return p
}

func (p Physics) WithViscosity(v float64) Physics {
	p.Viscosity = v
	return p
}

func (p Physics) WithGravity(g float64) Physics {
	p.Gravity = g
	return p
}

func (p Physics) Validate() error {
	if p.Stiffness <= 0 {
		return fmt.Errorf("physics: stiffness must be positive, got %g", p.Stiffness)
	}
	if p.Drag < 0 || p.Drag >= 1 {
		return fmt.Errorf("physics: drag must be in [0,1), got %g", p.Drag)
	}
	if p.Viscosity < 0 {
		return fmt.Errorf("physics: viscosity must not be negative, got %g", p.Viscosity)
	}
	return nil
}
