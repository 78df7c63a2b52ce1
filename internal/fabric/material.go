package fabric

import (
	"fmt"
	"strings"
)

type Role int

const (
	Push Role = iota
	Pull
	Spring
)

func (r Role) String() string {
	switch r {
	case Push:
		return "push"
	case Pull:
		return "pull"
	case Spring:
		return "spring"
	default:
		return fmt.Sprintf("role(%d)", int(r))
	}
}

type Material int

const (
	PushMaterial Material = iota
	PullMaterial
	BowTieMaterial
	NorthMaterial
	SouthMaterial
	SpringMaterial
	FaceRadialMaterial
	GuyLineMaterial
)

type MaterialSpec struct {
	Label         string
	Role          Role
	Stiffness     float64
	LinearDensity float64
	// Support intervals hold the fabric up; pretensing leaves them alone.
	Support bool
}

var materials = map[Material]MaterialSpec{
	PushMaterial:       {Label: "push", Role: Push, Stiffness: 30.0, LinearDensity: 1.0},
	PullMaterial:       {Label: "pull", Role: Pull, Stiffness: 1.0, LinearDensity: 0.1},
	BowTieMaterial:     {Label: "bow-tie", Role: Pull, Stiffness: 1.0, LinearDensity: 0.1},
	NorthMaterial:      {Label: "north", Role: Pull, Stiffness: 1.0, LinearDensity: 0.01, Support: true},
	SouthMaterial:      {Label: "south", Role: Pull, Stiffness: 1.0, LinearDensity: 0.01, Support: true},
	SpringMaterial:     {Label: "spring", Role: Spring, Stiffness: 0.5, LinearDensity: 0.01},
	FaceRadialMaterial: {Label: "face-radial", Role: Pull, Stiffness: 1.0, LinearDensity: 0.1},
	GuyLineMaterial:    {Label: "guy-line", Role: Pull, Stiffness: 1.0, LinearDensity: 0.1, Support: true},
}

func (m Material) Spec() MaterialSpec {
	if spec, ok := materials[m]; ok {
		return spec
	}
	return materials[PullMaterial]
}

func (m Material) String() string { return m.Spec().Label }

func Materials() []Material {
	return []Material{
		PushMaterial, PullMaterial, BowTieMaterial, NorthMaterial,
		SouthMaterial, SpringMaterial, FaceRadialMaterial, GuyLineMaterial,
	}
}

func MaterialByLabel(label string) (Material, bool) {
	label = strings.TrimPrefix(label, ":")
	for _, m := range Materials() {
		if materials[m].Label == label {
			return m, true
		}
	}
	return 0, false
}

// MaterialFor picks the plain material for a role.
func MaterialFor(role Role) Material {
	switch role {
	case Push:
		return PushMaterial
	case Spring:
		return SpringMaterial
	default:
		return PullMaterial
	}
}
