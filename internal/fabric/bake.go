package fabric

import "github.com/go-gl/mathgl/mgl64"

// BakeBrick captures the fabric as a brick template. Face middles and their
// radials are left out because AttachBrick recreates them.
func (f *Fabric) BakeBrick(name BrickName) (*Brick, error) {
	middles := make(map[JointID]bool)
	radials := make(map[IntervalID]bool)
	for _, id := range f.FaceIDs() {
		face, err := f.Face(id)
		if err != nil {
			return nil, err
		}
		middle, err := f.FaceMiddle(id)
		if err != nil {
			return nil, err
		}
		middles[middle] = true
		for _, r := range face.Radials {
			radials[r] = true
		}
	}
	b := &Brick{Name: name}
	index := make(map[JointID]int)
	f.joints.each(func(id ID, j *Joint) {
		if middles[JointID(id)] {
			return
		}
		index[JointID(id)] = len(b.Joints)
		b.Joints = append(b.Joints, j.Location)
	})
	f.intervals.each(func(id ID, in *Interval) {
		if radials[IntervalID(id)] {
			return
		}
		alpha, okA := index[in.Alpha]
		omega, okO := index[in.Omega]
		if !okA || !okO || in.Role == Spring {
			return
		}
		b.Intervals = append(b.Intervals, BrickInterval{Alpha: alpha, Omega: omega, Role: in.Role})
	})
	for _, id := range f.FaceIDs() {
		face, _ := f.Face(id)
		ends, err := f.FaceEnds(id)
		if err != nil {
			return nil, err
		}
		b.Faces = append(b.Faces, BrickFace{
			Joints: [3]int{index[ends[0]], index[ends[1]], index[ends[2]]},
			Name:   face.Name,
			Spin:   face.Spin,
		})
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	b.normalize()
	return b, nil
}

// normalize moves the template so the A- face sits centered on the origin
// with its outward normal along -y and unit circumradius.
func (b *Brick) normalize() {
	var base [3]mgl64.Vec3
	for _, face := range b.Faces {
		if face.Name == ANeg {
			for k, j := range face.Joints {
				base[k] = b.Joints[j]
			}
		}
	}
	mid := base[0].Add(base[1]).Add(base[2]).Mul(1.0 / 3)
	radius := base[0].Sub(mid).Len()
	if radius == 0 {
		return
	}
	down := faceNormal(base)
	rotation := mgl64.QuatBetweenVectors(down, mgl64.Vec3{0, -1, 0})
	m := mgl64.Scale3D(1/radius, 1/radius, 1/radius).
		Mul4(rotation.Mat4()).
		Mul4(mgl64.Translate3D(-mid.X(), -mid.Y(), -mid.Z()))
	for i, p := range b.Joints {
		b.Joints[i] = mgl64.TransformCoordinate(p, m)
	}
}
