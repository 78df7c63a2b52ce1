// Package shape runs the shape section of a fabric plan.
//
// A Phase walks its operations one ShapingStep at a time. Each step returns
// a Command telling the caller how long to let the fabric settle before the
// next step. Joins and distances install temporary shaper pulls that stay
// until they are removed explicitly or the operations run out.
package shape

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/tensegrity/internal/fabric"
	"github.com/san-kum/tensegrity/internal/growth"
	"github.com/san-kum/tensegrity/internal/tenscript"
)

const (
	// ShaperCountdown is the settling time after adding a shaper.
	ShaperCountdown = 20000

	// VulcanizeCountdown is the settling time after installing bow ties.
	VulcanizeCountdown = 5000

	joinIdeal = 0.3
)

type CommandKind int

const (
	Noop CommandKind = iota
	StartCountdown
	SetViscosity
	Terminate
)

func (k CommandKind) String() string {
	switch k {
	case Noop:
		return "noop"
	case StartCountdown:
		return "start-countdown"
	case SetViscosity:
		return "set-viscosity"
	default:
		return "terminate"
	}
}

// Command is what the caller does after a step. Viscosity applies whenever
// HasViscosity is set, which a countdown can combine with its wait.
type Command struct {
	Kind         CommandKind
	Countdown    int
	Viscosity    float64
	HasViscosity bool
}

// Shaper is a temporary set of pulls acting on marked faces. A join
// shaper merges its faces on completion.
type Shaper struct {
	Mark      string
	Faces     []fabric.FaceID
	Intervals []fabric.IntervalID
	Hub       fabric.JointID
	Join      bool
}

type Phase struct {
	operations []tenscript.ShapeOperation
	marks      []growth.FaceMark
	shapers    []Shaper
	next       int
}

func New(operations []tenscript.ShapeOperation, marks []growth.FaceMark) *Phase {
	return &Phase{operations: operations, marks: marks}
}

func (p *Phase) NeedsShaping() bool { return len(p.operations) > 0 }

// Done reports whether every operation has run.
func (p *Phase) Done() bool { return p.next >= len(p.operations) }

func (p *Phase) Shapers() []Shaper {
	return append([]Shaper(nil), p.shapers...)
}

// ShapingStep runs the next operation. Once the operations run out every
// remaining shaper is completed and Terminate is returned.
func (p *Phase) ShapingStep(f *fabric.Fabric) (Command, error) {
	if p.Done() {
		if err := p.completeAll(f); err != nil {
			return Command{}, err
		}
		return Command{Kind: Terminate}, nil
	}
	op := p.operations[p.next]
	p.next++
	return p.execute(f, op)
}

func (p *Phase) execute(f *fabric.Fabric, op tenscript.ShapeOperation) (Command, error) {
	switch op := op.(type) {
	case tenscript.Join:
		if err := p.join(f, op.Mark); err != nil {
			return Command{}, err
		}
		return Command{Kind: StartCountdown, Countdown: ShaperCountdown}, nil
	case tenscript.Distance:
		if err := p.distance(f, op.Mark, op.Factor); err != nil {
			return Command{}, err
		}
		return Command{Kind: StartCountdown, Countdown: ShaperCountdown}, nil
	case tenscript.RemoveShapers:
		if len(op.Marks) == 0 {
			return Command{Kind: Noop}, p.completeAll(f)
		}
		for _, mark := range op.Marks {
			if err := p.remove(f, mark); err != nil {
				return Command{}, err
			}
		}
		return Command{Kind: Noop}, nil
	case tenscript.Countdown:
		cmd := Command{Kind: StartCountdown, Countdown: op.Count}
		for _, sub := range op.Operations {
			inner, err := p.execute(f, sub)
			if err != nil {
				return Command{}, err
			}
			if inner.HasViscosity {
				cmd.Viscosity, cmd.HasViscosity = inner.Viscosity, true
			}
		}
		return cmd, nil
	case tenscript.Vulcanize:
		f.InstallBowTies()
		return Command{Kind: StartCountdown, Countdown: VulcanizeCountdown}, nil
	case tenscript.ReplaceFaces:
		if err := f.ReplaceFaces(); err != nil {
			return Command{}, &Error{Op: "replace-faces", Wrapped: err}
		}
		return Command{Kind: Noop}, nil
	case tenscript.SetViscosity:
		return Command{Kind: SetViscosity, Viscosity: op.Viscosity, HasViscosity: true}, nil
	}
	return Command{}, &Error{Op: "shape", Wrapped: tenscript.ErrUnknownForm}
}

func (p *Phase) marked(mark string) []fabric.FaceID {
	var faces []fabric.FaceID
	for _, m := range p.marks {
		if m.Name == mark {
			faces = append(faces, m.Face)
		}
	}
	return faces
}

func (p *Phase) middles(f *fabric.Fabric, op, mark string, faces []fabric.FaceID) ([]fabric.JointID, error) {
	middles := make([]fabric.JointID, len(faces))
	for i, face := range faces {
		middle, err := f.FaceMiddle(face)
		if err != nil {
			return nil, &Error{Op: op, Mark: mark, Wrapped: err}
		}
		middles[i] = middle
	}
	return middles, nil
}

// join pulls two marked faces together, or three toward a shared hub.
func (p *Phase) join(f *fabric.Fabric, mark string) error {
	faces := p.marked(mark)
	switch len(faces) {
	case 0:
		return &Error{Op: "join", Mark: mark, Wrapped: ErrMarkNotFound}
	case 2, 3:
	default:
		return &Error{Op: "join", Mark: mark, Wrapped: ErrMarkFaceCount}
	}
	middles, err := p.middles(f, "join", mark, faces)
	if err != nil {
		return err
	}
	shaper := Shaper{Mark: mark, Faces: faces, Join: true}
	if len(faces) == 2 {
		shaper.Intervals = []fabric.IntervalID{
			f.CreateInterval(middles[0], middles[1], joinIdeal, fabric.PullMaterial),
		}
	} else {
		var center mgl64.Vec3
		for _, m := range middles {
			center = center.Add(f.Location(m))
		}
		shaper.Hub = f.CreateJoint(center.Mul(1.0 / 3))
		for _, m := range middles {
			shaper.Intervals = append(shaper.Intervals, f.CreateInterval(m, shaper.Hub, joinIdeal, fabric.PullMaterial))
		}
	}
	p.shapers = append(p.shapers, shaper)
	return nil
}

func (p *Phase) distance(f *fabric.Fabric, mark string, factor float64) error {
	faces := p.marked(mark)
	switch len(faces) {
	case 0:
		return &Error{Op: "space", Mark: mark, Wrapped: ErrMarkNotFound}
	case 2:
	default:
		return &Error{Op: "space", Mark: mark, Wrapped: ErrMarkFaceCount}
	}
	middles, err := p.middles(f, "space", mark, faces)
	if err != nil {
		return err
	}
	length := f.Distance(middles[0], middles[1]) * factor
	p.shapers = append(p.shapers, Shaper{
		Mark:      mark,
		Faces:     faces,
		Intervals: []fabric.IntervalID{f.CreateInterval(middles[0], middles[1], length, fabric.PullMaterial)},
	})
	return nil
}

func (p *Phase) remove(f *fabric.Fabric, mark string) error {
	for i, s := range p.shapers {
		if s.Mark != mark {
			continue
		}
		p.shapers = append(p.shapers[:i], p.shapers[i+1:]...)
		return complete(f, s)
	}
	return &Error{Op: "remove-shapers", Mark: mark, Wrapped: ErrNoSuchShaper}
}

func (p *Phase) completeAll(f *fabric.Fabric) error {
	shapers := p.shapers
	p.shapers = nil
	for _, s := range shapers {
		if err := complete(f, s); err != nil {
			return err
		}
	}
	return nil
}

// complete drops the shaper pulls and, for a join, merges the faces.
// Pulls already removed along with their faces are skipped.
func complete(f *fabric.Fabric, s Shaper) error {
	for _, id := range s.Intervals {
		if err := f.RemoveInterval(id); err != nil && !errors.Is(err, fabric.ErrIntervalNotFound) {
			return &Error{Op: "complete", Mark: s.Mark, Wrapped: err}
		}
	}
	if !s.Join {
		return nil
	}
	var err error
	if len(s.Faces) == 2 {
		_, err = f.JoinFaces(s.Faces[0], s.Faces[1])
	} else {
		err = f.MergeFacesAtHub(s.Hub, s.Faces)
	}
	if err != nil {
		return &Error{Op: "join", Mark: s.Mark, Wrapped: err}
	}
	return nil
}
