package fabric

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// DefaultPretenstFactor stretches pushes and shortens pulls of a freshly
// attached brick so that the fabric is born under tension.
const DefaultPretenstFactor = 1.3

type BrickName int

const (
	LeftTwist BrickName = iota
	RightTwist
	LeftOmniTwist
	RightOmniTwist
)

var brickNames = map[BrickName]string{
	LeftTwist:      "left-twist",
	RightTwist:     "right-twist",
	LeftOmniTwist:  "left-omni-twist",
	RightOmniTwist: "right-omni-twist",
}

func (b BrickName) String() string {
	if s, ok := brickNames[b]; ok {
		return s
	}
	return fmt.Sprintf("brick(%d)", int(b))
}

func ParseBrickName(s string) (BrickName, error) {
	s = strings.TrimPrefix(strings.ToLower(s), ":")
	for name, label := range brickNames {
		if label == s {
			return name, nil
		}
	}
	return 0, fmt.Errorf("unknown brick %q", s)
}

// TwistBrick picks the single or omni twist of the given chirality.
func TwistBrick(spin Spin, omni bool) BrickName {
	switch {
	case omni && spin == Left:
		return LeftOmniTwist
	case omni:
		return RightOmniTwist
	case spin == Left:
		return LeftTwist
	default:
		return RightTwist
	}
}

type BrickInterval struct {
	Alpha, Omega int
	Role         Role
}

type BrickFace struct {
	Joints [3]int
	Name   FaceName
	Spin   Spin
}

// Brick is a joint, interval and face template in unit scale, with its A-
// face centered on the origin in the y=0 plane and growth along +y.
type Brick struct {
	Name      BrickName
	Joints    []mgl64.Vec3
	Intervals []BrickInterval
	Faces     []BrickFace
}

func (b *Brick) Clone() *Brick {
	c := &Brick{Name: b.Name}
	c.Joints = append(c.Joints, b.Joints...)
	c.Intervals = append(c.Intervals, b.Intervals...)
	c.Faces = append(c.Faces, b.Faces...)
	return c
}

func (b *Brick) Validate() error {
	for _, in := range b.Intervals {
		if in.Alpha < 0 || in.Alpha >= len(b.Joints) || in.Omega < 0 || in.Omega >= len(b.Joints) {
			return fmt.Errorf("brick %s: interval %d-%d out of range", b.Name, in.Alpha, in.Omega)
		}
		if in.Role == Spring {
			return fmt.Errorf("brick %s: interval %d-%d has role %s", b.Name, in.Alpha, in.Omega, in.Role)
		}
	}
	base := false
	for _, face := range b.Faces {
		for _, j := range face.Joints {
			if j < 0 || j >= len(b.Joints) {
				return fmt.Errorf("brick %s: face %s joint %d out of range", b.Name, face.Name, j)
			}
		}
		base = base || face.Name == ANeg
	}
	if !base {
		return fmt.Errorf("brick %s: %w", b.Name, ErrNoBaseFace)
	}
	return nil
}

// compact drops joints that no interval or face refers to and renumbers the
// rest.
func (b *Brick) compact() {
	used := make([]bool, len(b.Joints))
	for _, in := range b.Intervals {
		used[in.Alpha], used[in.Omega] = true, true
	}
	for _, face := range b.Faces {
		for _, j := range face.Joints {
			used[j] = true
		}
	}
	index := make([]int, len(b.Joints))
	var joints []mgl64.Vec3
	for i, p := range b.Joints {
		if used[i] {
			index[i] = len(joints)
			joints = append(joints, p)
		}
	}
	b.Joints = joints
	for i := range b.Intervals {
		b.Intervals[i].Alpha = index[b.Intervals[i].Alpha]
		b.Intervals[i].Omega = index[b.Intervals[i].Omega]
	}
	for i := range b.Faces {
		for k, j := range b.Faces[i].Joints {
			b.Faces[i].Joints[k] = index[j]
		}
	}
}

// BrickFor returns a private copy of a built-in template.
func BrickFor(name BrickName) (*Brick, error) {
	b, ok := brickLibrary[name]
	if !ok {
		return nil, fmt.Errorf("unknown brick %s", name)
	}
	return b.Clone(), nil
}

// AttachBrick instantiates a brick. With a zero base it becomes a seed at
// the origin and every face is returned. Otherwise it is placed in the base
// face's frame, its A- face is joined to the base, and the remaining faces
// are returned.
func (f *Fabric) AttachBrick(brick *Brick, pretenst, scaleFactor float64, base FaceID) ([]NamedFace, error) {
	if err := brick.Validate(); err != nil {
		return nil, err
	}
	scale := scaleFactor
	matrix := mgl64.Scale3D(scale, scale, scale)
	if !base.IsZero() {
		face, err := f.Face(base)
		if err != nil {
			return nil, err
		}
		scale = face.Scale * scaleFactor
		if matrix, err = f.FaceVectorSpace(base, scale); err != nil {
			return nil, err
		}
	}
	joints := make([]JointID, len(brick.Joints))
	for i, p := range brick.Joints {
		joints[i] = f.CreateJoint(mgl64.TransformCoordinate(p, matrix))
	}
	for _, in := range brick.Intervals {
		alpha, omega := joints[in.Alpha], joints[in.Omega]
		distance := f.Distance(alpha, omega)
		switch in.Role {
		case Push:
			f.CreateInterval(alpha, omega, distance*pretenst, PushMaterial)
		default:
			f.CreateInterval(alpha, omega, distance/pretenst, PullMaterial)
		}
	}
	faces := make([]NamedFace, 0, len(brick.Faces))
	var baseFace FaceID
	for _, bf := range brick.Faces {
		var mid mgl64.Vec3
		for _, j := range bf.Joints {
			mid = mid.Add(f.Location(joints[j]))
		}
		middle := f.CreateJoint(mid.Mul(1.0 / 3))
		var radials [3]IntervalID
		for k, j := range bf.Joints {
			end := joints[j]
			radials[k] = f.CreateInterval(middle, end, f.Distance(middle, end)/pretenst, FaceRadialMaterial)
		}
		id := f.CreateFace(bf.Name, scale, bf.Spin, radials)
		if bf.Name == ANeg {
			baseFace = id
		}
		faces = append(faces, NamedFace{Name: bf.Name, ID: id})
	}
	if base.IsZero() {
		return faces, nil
	}
	if _, err := f.JoinFaces(base, baseFace); err != nil {
		return nil, err
	}
	remaining := faces[:0]
	for _, nf := range faces {
		if nf.ID != baseFace {
			remaining = append(remaining, nf)
		}
	}
	return remaining, nil
}

// AttachTwist is AttachBrick for the built-in twists.
func (f *Fabric) AttachTwist(spin Spin, omni bool, pretenst, scaleFactor float64, base FaceID) ([]NamedFace, error) {
	brick, err := BrickFor(TwistBrick(spin, omni))
	if err != nil {
		return nil, err
	}
	return f.AttachBrick(brick, pretenst, scaleFactor, base)
}

// OrientDown rotates the fabric so the summed normals of the named faces
// point along -y.
func (f *Fabric) OrientDown(faces []NamedFace, down []FaceName) error {
	var sum mgl64.Vec3
	for _, nf := range faces {
		for _, name := range down {
			if nf.Name != name {
				continue
			}
			normal, err := f.FaceNormal(nf.ID)
			if err != nil {
				return err
			}
			sum = sum.Add(normal)
		}
	}
	f.Orient(sum)
	return nil
}
