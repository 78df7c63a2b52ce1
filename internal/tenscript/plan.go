package tenscript

import (
	"github.com/san-kum/tensegrity/internal/fabric"
	"github.com/san-kum/tensegrity/internal/physics"
)

// DefaultPretenseFactor is how much pushes lengthen while pretensing when a
// plan does not say.
const DefaultPretenseFactor = 1.03

type FabricPlan struct {
	Name     string
	Surface  *physics.Surface
	Build    BuildPhase
	Shape    []ShapeOperation
	Pretense *PretensePhase
}

// NeedsShaping reports whether the plan has any shape operations.
func (p *FabricPlan) NeedsShaping() bool { return len(p.Shape) > 0 }

// PretenseSurface resolves the surface used once the fabric is pretensed.
func (p *FabricPlan) PretenseSurface() physics.Surface {
	if p.Pretense != nil && p.Pretense.Surface != nil {
		return *p.Pretense.Surface
	}
	if p.Surface != nil {
		return *p.Surface
	}
	return physics.Frozen
}

// PretenseFactor resolves the push lengthening factor.
func (p *FabricPlan) PretenseFactor() float64 {
	if p.Pretense != nil && p.Pretense.Factor > 0 {
		return p.Pretense.Factor
	}
	return DefaultPretenseFactor
}

type Seed struct {
	Spin fabric.Spin
	Omni bool
	Down []fabric.FaceName
}

func (s Seed) Brick() fabric.BrickName { return fabric.TwistBrick(s.Spin, s.Omni) }

func (s Seed) String() string {
	switch {
	case s.Spin == fabric.Left && s.Omni:
		return "left-right"
	case s.Omni:
		return "right-left"
	default:
		return s.Spin.String()
	}
}

func parseSeed(name string) (Seed, bool) {
	switch name {
	case "left":
		return Seed{Spin: fabric.Left}, true
	case "right":
		return Seed{Spin: fabric.Right}, true
	case "left-right":
		return Seed{Spin: fabric.Left, Omni: true}, true
	case "right-left":
		return Seed{Spin: fabric.Right, Omni: true}, true
	}
	return Seed{}, false
}

type BuildPhase struct {
	Seed Seed
	Root BuildNode
}

// BuildNode is one of FaceNode, GrowNode, MarkNode or BranchNode.
type BuildNode interface {
	buildNode()
}

// FaceNode applies Node to the named face of the most recent brick.
type FaceNode struct {
	Name fabric.FaceName
	Node BuildNode
}

// GrowNode extends a column one brick per character of Forward. An 'X'
// flips the chirality and any other character keeps it. Node runs on the
// final A+ face.
type GrowNode struct {
	Forward string
	Scale   float64
	Node    BuildNode
}

// MarkNode labels a face for the shape phase.
type MarkNode struct {
	Name string
}

// BranchNode attaches one brick and runs each child on its named face.
type BranchNode struct {
	Faces []BuildNode
}

func (FaceNode) buildNode()   {}
func (GrowNode) buildNode()   {}
func (MarkNode) buildNode()   {}
func (BranchNode) buildNode() {}

// ShapeOperation is one instruction of the shape phase.
type ShapeOperation interface {
	shapeOperation()
}

// Join pulls the middles of the faces marked Mark together and merges the
// faces once the pull completes.
type Join struct {
	Mark string
}

// Distance pulls the marked faces to Factor times their current separation.
type Distance struct {
	Mark   string
	Factor float64
}

// RemoveShapers completes the named shapers early. An empty list completes
// all of them.
type RemoveShapers struct {
	Marks []string
}

// Countdown runs Operations back to back and then waits Count ticks.
type Countdown struct {
	Count      int
	Operations []ShapeOperation
}

type Vulcanize struct{}

type ReplaceFaces struct{}

type SetViscosity struct {
	Viscosity float64
}

func (Join) shapeOperation()          {}
func (Distance) shapeOperation()      {}
func (RemoveShapers) shapeOperation() {}
func (Countdown) shapeOperation()     {}
func (Vulcanize) shapeOperation()     {}
func (ReplaceFaces) shapeOperation()  {}
func (SetViscosity) shapeOperation()  {}

type MusclePlan struct {
	Amplitude float64
	Countdown int
}

type PretensePhase struct {
	Surface *physics.Surface
	Factor  float64
	Muscle  *MusclePlan
}
