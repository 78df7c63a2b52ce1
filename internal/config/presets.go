package config

import (
	"sort"

	"github.com/san-kum/tensegrity/internal/physics"
)

var Presets = map[string]physics.Physics{
	"liquid":      physics.Liquid,
	"air-gravity": physics.AirGravity,
	"bouncy":      physics.AirGravity.WithSurface(physics.Bouncy),
	"sticky":      physics.AirGravity.WithSurface(physics.Sticky),
	"vacuum":      physics.AirGravity.WithSurface(physics.Absent).WithGravity(0).WithViscosity(0),
	"low-gravity": physics.AirGravity.WithGravity(physics.AirGravity.Gravity / 6),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *physics.Physics {
	preset, ok := Presets[name]
	if !ok {
		return nil
	}
	return &preset
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
