// Package growth interprets the build section of a fabric plan.
//
// Growth keeps a queue of buds. Each GrowthStep advances every bud by one
// brick, so a caller can let the fabric settle between steps. Nodes that
// follow a finished column run on its final face and may queue more buds
// or add face marks for the shape phase.
package growth

import (
	"fmt"

	"github.com/san-kum/tensegrity/internal/fabric"
	"github.com/san-kum/tensegrity/internal/tenscript"
)

// Bud is a column still growing from Face.
type Bud struct {
	Face    fabric.FaceID
	Forward string
	Scale   float64
	Node    tenscript.BuildNode
}

// FaceMark labels a face for the shape phase.
type FaceMark struct {
	Face fabric.FaceID
	Name string
}

type launchKind int

const (
	seeded launchKind = iota
	namedFace
	identifiedFace
)

// launch says where a node applies: to a seed still to be planted, to a
// face of the latest brick by name, or to a known face.
type launch struct {
	kind launchKind
	name fabric.FaceName
	face fabric.FaceID
}

type Growth struct {
	plan     *tenscript.FabricPlan
	pretenst float64
	buds     []Bud
	marks    []FaceMark
}

func New(plan *tenscript.FabricPlan) *Growth {
	return &Growth{plan: plan, pretenst: fabric.DefaultPretenstFactor}
}

// WithPretenst overrides the push/pull factor used for new bricks.
func (g *Growth) WithPretenst(factor float64) *Growth {
	g.pretenst = factor
	return g
}

// Init plants the seed and interprets the root node.
func (g *Growth) Init(f *fabric.Fabric) error {
	build := g.plan.Build
	if build.Root == nil {
		_, err := g.twist(f, build.Seed.Omni, build.Seed.Spin, 1, fabric.FaceID{})
		return err
	}
	buds, marks, err := g.execute(f, launch{kind: seeded}, build.Root, nil)
	if err != nil {
		return err
	}
	g.buds = buds
	g.marks = marks
	return nil
}

func (g *Growth) IsGrowing() bool { return len(g.buds) > 0 }

func (g *Growth) NeedsShaping() bool { return g.plan.NeedsShaping() }

// Marks returns the face marks collected so far.
func (g *Growth) Marks() []FaceMark {
	return append([]FaceMark(nil), g.marks...)
}

func (g *Growth) Buds() []Bud {
	return append([]Bud(nil), g.buds...)
}

// GrowthStep advances every queued bud once.
func (g *Growth) GrowthStep(f *fabric.Fabric) error {
	buds := g.buds
	g.buds = nil
	for _, bud := range buds {
		next, marks, err := g.executeBud(f, bud)
		if err != nil {
			return err
		}
		g.buds = append(g.buds, next...)
		g.marks = append(g.marks, marks...)
	}
	return nil
}

func (g *Growth) executeBud(f *fabric.Fabric, bud Bud) ([]Bud, []FaceMark, error) {
	face, err := f.Face(bud.Face)
	if err != nil {
		return nil, nil, &PlanError{Op: "grow", Term: bud.Face.String(), Wrapped: ErrMissingFace}
	}
	if bud.Forward == "" {
		if bud.Node == nil {
			return nil, nil, nil
		}
		return g.execute(f, launch{kind: identifiedFace, face: bud.Face}, bud.Node, nil)
	}
	spin := face.Spin
	if bud.Forward[0] == 'X' {
		spin = spin.Opposite()
	}
	faces, err := f.AttachTwist(spin, false, g.pretenst, bud.Scale, bud.Face)
	if err != nil {
		return nil, nil, &PlanError{Op: "grow", Term: bud.Forward, Wrapped: err}
	}
	top, ok := fabric.FindFace(faces, fabric.APos)
	if !ok {
		return nil, nil, &PlanError{Op: "grow", Term: fabric.APos.String(), Wrapped: ErrMissingFace}
	}
	next := Bud{Face: top, Forward: bud.Forward[1:], Scale: bud.Scale, Node: bud.Node}
	if next.Forward == "" && next.Node == nil {
		return nil, nil, nil
	}
	return []Bud{next}, nil, nil
}

func (g *Growth) execute(f *fabric.Fabric, l launch, node tenscript.BuildNode, faces []fabric.NamedFace) ([]Bud, []FaceMark, error) {
	switch n := node.(type) {
	case tenscript.FaceNode:
		return g.executeFace(f, l, n, faces)
	case tenscript.GrowNode:
		var id fabric.FaceID
		switch l.kind {
		case seeded:
			seed := g.plan.Build.Seed
			planted, err := g.twist(f, false, seed.Spin, n.Scale, fabric.FaceID{})
			if err != nil {
				return nil, nil, err
			}
			return g.execute(f, launch{kind: namedFace, name: fabric.APos}, n, planted)
		case namedFace:
			var err error
			if id, err = find(faces, l.name, "grow"); err != nil {
				return nil, nil, err
			}
		default:
			id = l.face
		}
		if n.Forward == "" && n.Node == nil {
			return nil, nil, nil
		}
		return []Bud{{Face: id, Forward: n.Forward, Scale: n.Scale, Node: n.Node}}, nil, nil
	case tenscript.BranchNode:
		return g.executeBranch(f, l, n, faces)
	case tenscript.MarkNode:
		var id fabric.FaceID
		switch l.kind {
		case seeded:
			return nil, nil, &PlanError{Op: "mark", Term: n.Name, Wrapped: ErrMarkNeedsFace}
		case namedFace:
			var err error
			if id, err = find(faces, l.name, "mark"); err != nil {
				return nil, nil, err
			}
		default:
			id = l.face
		}
		return nil, []FaceMark{{Face: id, Name: n.Name}}, nil
	case nil:
		return nil, nil, nil
	}
	return nil, nil, &PlanError{Op: "build", Term: fmt.Sprintf("%T", node), Wrapped: tenscript.ErrUnknownForm}
}

// executeFace names a face to continue from. A seed is planted first when
// there is none yet. After a column, A+ is the column's own end and any
// other name grows an omni twist to branch from.
func (g *Growth) executeFace(f *fabric.Fabric, l launch, n tenscript.FaceNode, faces []fabric.NamedFace) ([]Bud, []FaceMark, error) {
	switch l.kind {
	case seeded:
		seed := g.plan.Build.Seed
		planted, err := g.twist(f, seed.Omni || n.Name != fabric.APos, seed.Spin, 1, fabric.FaceID{})
		if err != nil {
			return nil, nil, err
		}
		return g.execute(f, launch{kind: namedFace, name: n.Name}, n.Node, planted)
	case namedFace:
		return g.execute(f, launch{kind: namedFace, name: n.Name}, n.Node, faces)
	default:
		if n.Name == fabric.APos {
			return g.execute(f, l, n.Node, nil)
		}
		return g.executeBranch(f, l, tenscript.BranchNode{Faces: []tenscript.BuildNode{n}}, nil)
	}
}

func (g *Growth) executeBranch(f *fabric.Fabric, l launch, n tenscript.BranchNode, faces []fabric.NamedFace) ([]Bud, []FaceMark, error) {
	children := make([]tenscript.FaceNode, 0, len(n.Faces))
	special := false
	for _, child := range n.Faces {
		face, ok := child.(tenscript.FaceNode)
		if !ok {
			return nil, nil, &PlanError{Op: "branch", Term: fmt.Sprintf("%T", child), Wrapped: ErrBranchChild}
		}
		special = special || face.Name != fabric.APos
		children = append(children, face)
	}
	var (
		spin fabric.Spin
		base fabric.FaceID
		omni = special
	)
	switch l.kind {
	case seeded:
		seed := g.plan.Build.Seed
		spin = seed.Spin
		omni = omni || seed.Omni
	case namedFace:
		id, err := find(faces, l.name, "branch")
		if err != nil {
			return nil, nil, err
		}
		base = id
	default:
		base = l.face
	}
	if !base.IsZero() {
		face, err := f.Face(base)
		if err != nil {
			return nil, nil, &PlanError{Op: "branch", Term: base.String(), Wrapped: ErrMissingFace}
		}
		spin = face.Spin.Opposite()
	}
	twisted, err := g.twist(f, omni, spin, 1, base)
	if err != nil {
		return nil, nil, err
	}
	var buds []Bud
	var marks []FaceMark
	for _, child := range children {
		b, m, err := g.execute(f, launch{kind: namedFace, name: child.Name}, child.Node, twisted)
		if err != nil {
			return nil, nil, err
		}
		buds = append(buds, b...)
		marks = append(marks, m...)
	}
	return buds, marks, nil
}

// twist attaches one brick. A seed is turned so its down faces point at
// the ground.
func (g *Growth) twist(f *fabric.Fabric, omni bool, spin fabric.Spin, scale float64, base fabric.FaceID) ([]fabric.NamedFace, error) {
	faces, err := f.AttachTwist(spin, omni, g.pretenst, scale, base)
	if err != nil {
		return nil, &PlanError{Op: "twist", Term: fabric.TwistBrick(spin, omni).String(), Wrapped: err}
	}
	if down := g.plan.Build.Seed.Down; base.IsZero() && len(down) > 0 {
		if err := f.OrientDown(faces, down); err != nil {
			return nil, &PlanError{Op: "orient", Wrapped: err}
		}
	}
	return faces, nil
}

func find(faces []fabric.NamedFace, name fabric.FaceName, op string) (fabric.FaceID, error) {
	id, ok := fabric.FindFace(faces, name)
	if !ok {
		return fabric.FaceID{}, &PlanError{Op: op, Term: name.String(), Wrapped: ErrMissingFace}
	}
	return id, nil
}
