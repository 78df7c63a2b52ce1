package fabric

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

type Spin int

const (
	Left Spin = iota
	Right
)

func (s Spin) Opposite() Spin {
	if s == Left {
		return Right
	}
	return Left
}

func (s Spin) String() string {
	if s == Left {
		return "left"
	}
	return "right"
}

// FaceName labels a face of a brick template. A is the growth axis: A- is
// the base a brick attaches by and A+ is where a column continues.
type FaceName int

const (
	APos FaceName = iota
	ANeg
	BPos
	BNeg
	CPos
	CNeg
	DPos
	DNeg
)

var faceNames = [...]string{"A+", "A-", "B+", "B-", "C+", "C-", "D+", "D-"}

func (n FaceName) String() string {
	if n < 0 || int(n) >= len(faceNames) {
		return fmt.Sprintf("face(%d)", int(n))
	}
	return faceNames[n]
}

func ParseFaceName(s string) (FaceName, bool) {
	if len(s) > 0 && s[0] == ':' {
		s = s[1:]
	}
	for i, name := range faceNames {
		if name == s {
			return FaceName(i), true
		}
	}
	return 0, false
}

type FaceID ID

func (f FaceID) String() string     { return ID(f).String() }
func (f FaceID) IsZero() bool       { return ID(f).IsZero() }
func (f FaceID) Less(o FaceID) bool { return ID(f).Less(ID(o)) }

// Face is a triangular attachment point: three face-radial pulls from a
// synthetic middle joint to the three outer ends.
type Face struct {
	Name    FaceName
	Spin    Spin
	Scale   float64
	Radials [3]IntervalID
}

// NamedFace pairs a template face name with the face created for it.
type NamedFace struct {
	Name FaceName
	ID   FaceID
}

func FindFace(faces []NamedFace, name FaceName) (FaceID, bool) {
	for _, f := range faces {
		if f.Name == name {
			return f.ID, true
		}
	}
	return FaceID{}, false
}

func (f *Fabric) CreateFace(name FaceName, scale float64, spin Spin, radials [3]IntervalID) FaceID {
	return FaceID(f.faces.insert(Face{Name: name, Spin: spin, Scale: scale, Radials: radials}))
}

func (f *Fabric) Face(id FaceID) (*Face, error) {
	face := f.faces.get(ID(id))
	if face == nil {
		return nil, fmt.Errorf("%w: %s", ErrFaceNotFound, id)
	}
	return face, nil
}

func (f *Fabric) FaceIDs() []FaceID {
	ids := f.faces.ids()
	out := make([]FaceID, len(ids))
	for i, id := range ids {
		out[i] = FaceID(id)
	}
	return out
}

// RemoveFace deletes the face along with its radials and middle joint.
func (f *Fabric) RemoveFace(id FaceID) error {
	face, err := f.Face(id)
	if err != nil {
		return err
	}
	middle, err := f.FaceMiddle(id)
	if err != nil {
		return err
	}
	for _, radial := range face.Radials {
		f.intervals.remove(ID(radial))
	}
	if err := f.RemoveJoint(middle); err != nil {
		return err
	}
	f.faces.remove(ID(id))
	return nil
}

func (f *Fabric) FaceMiddle(id FaceID) (JointID, error) {
	face, err := f.Face(id)
	if err != nil {
		return JointID{}, err
	}
	radial, err := f.Interval(face.Radials[0])
	if err != nil {
		return JointID{}, err
	}
	return radial.Alpha, nil
}

// FaceEnds returns the three outer joints in radial order.
func (f *Fabric) FaceEnds(id FaceID) ([3]JointID, error) {
	var ends [3]JointID
	face, err := f.Face(id)
	if err != nil {
		return ends, err
	}
	for i, radial := range face.Radials {
		in, err := f.Interval(radial)
		if err != nil {
			return ends, err
		}
		ends[i] = in.Omega
	}
	return ends, nil
}

func (f *Fabric) facePoints(id FaceID) ([3]mgl64.Vec3, error) {
	var points [3]mgl64.Vec3
	ends, err := f.FaceEnds(id)
	if err != nil {
		return points, err
	}
	for i, end := range ends {
		points[i] = f.Location(end)
	}
	return points, nil
}

func (f *Fabric) FaceMidpoint(id FaceID) (mgl64.Vec3, error) {
	p, err := f.facePoints(id)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return p[0].Add(p[1]).Add(p[2]).Mul(1.0 / 3), nil
}

// FaceNormal points away from the brick that owns the face.
func (f *Fabric) FaceNormal(id FaceID) (mgl64.Vec3, error) {
	p, err := f.facePoints(id)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return faceNormal(p), nil
}

// FaceStrain is the mean strain of the radials.
func (f *Fabric) FaceStrain(id FaceID) (float64, error) {
	face, err := f.Face(id)
	if err != nil {
		return 0, err
	}
	sum := 0.0
	for _, radial := range face.Radials {
		in, err := f.Interval(radial)
		if err != nil {
			return 0, err
		}
		sum += in.Strain
	}
	return sum / 3, nil
}

// Template faces all wind counterclockwise seen from outside, so the outward
// normal does not depend on spin.
func faceNormal(p [3]mgl64.Vec3) mgl64.Vec3 {
	v1 := p[1].Sub(p[0])
	v2 := p[2].Sub(p[0])
	n := v2.Cross(v1)
	if n.Len() == 0 {
		return mgl64.Vec3{}
	}
	return n.Normalize()
}

// VectorSpace maps brick template coordinates onto the face: the origin sits
// at the face midpoint, +y runs along the outward normal and +x points at
// the edge selected by rotation.
func VectorSpace(p [3]mgl64.Vec3, scale float64, rotation int) mgl64.Mat4 {
	mid := p[0].Add(p[1]).Add(p[2]).Mul(1.0 / 3)
	a, b := p[rotation%3], p[(rotation+1)%3]
	y := faceNormal(p)
	x := a.Add(b).Sub(mid.Mul(2)).Normalize()
	z := x.Cross(y).Normalize()
	return mgl64.Translate3D(mid.X(), mid.Y(), mid.Z()).
		Mul4(mgl64.Mat3FromCols(x, y, z).Mat4()).
		Mul4(mgl64.Scale3D(scale, scale, scale))
}

func (f *Fabric) FaceVectorSpace(id FaceID, scale float64) (mgl64.Mat4, error) {
	p, err := f.facePoints(id)
	if err != nil {
		return mgl64.Mat4{}, err
	}
	return VectorSpace(p, scale, 0), nil
}
