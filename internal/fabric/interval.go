package fabric

import (
	"github.com/go-gl/mathgl/mgl64"
)

const minLength = 1e-5

type IntervalID ID

func (i IntervalID) String() string         { return ID(i).String() }
func (i IntervalID) IsZero() bool           { return ID(i).IsZero() }
func (i IntervalID) Less(o IntervalID) bool { return ID(i).Less(ID(o)) }

// JointPair is an unordered pair of joints in canonical order.
type JointPair struct {
	A, B JointID
}

func PairOf(a, b JointID) JointPair {
	if b.Less(a) {
		a, b = b, a
	}
	return JointPair{A: a, B: b}
}

type Interval struct {
	Alpha    JointID
	Omega    JointID
	Role     Role
	Material Material
	Span     Span
	Unit     mgl64.Vec3
	Strain   float64
}

func (in *Interval) Key() JointPair { return PairOf(in.Alpha, in.Omega) }

func (in *Interval) Touches(j JointID) bool { return in.Alpha == j || in.Omega == j }

// OtherJoint returns the far end from j, or the zero ID if j is not an end.
func (in *Interval) OtherJoint(j JointID) JointID {
	switch j {
	case in.Alpha:
		return in.Omega
	case in.Omega:
		return in.Alpha
	}
	return JointID{}
}

// SharedJoint returns an end this interval has in common with other.
func (in *Interval) SharedJoint(other *Interval) (JointID, bool) {
	if other.Touches(in.Alpha) {
		return in.Alpha, true
	}
	if other.Touches(in.Omega) {
		return in.Omega, true
	}
	return JointID{}, false
}

func (in *Interval) measure(alpha, omega mgl64.Vec3) float64 {
	delta := omega.Sub(alpha)
	lengthSquared := delta.LenSqr()
	if lengthSquared < minLength*minLength {
		in.Unit = mgl64.Vec3{}
		return minLength
	}
	length := delta.Len()
	in.Unit = delta.Mul(1 / length)
	return length
}

// strain is zero when the role cannot resist the deformation: pushes do not
// pull and pulls do not push.
func strain(role Role, length, ideal float64) float64 {
	if ideal < minLength {
		ideal = minLength
	}
	switch {
	case role == Push && length > ideal:
		return 0
	case role == Pull && length < ideal:
		return 0
	}
	return (length - ideal) / ideal
}

func (in *Interval) iterate(alpha, omega *Joint, nuance, muscleNuance, stiffnessScale float64) {
	ideal := in.Span.restLength(nuance, muscleNuance)
	length := in.measure(alpha.Location, omega.Location)
	spec := in.Material.Spec()
	in.Strain = strain(in.Role, length, ideal)
	force := in.Unit.Mul(in.Strain * spec.Stiffness * stiffnessScale / 2)
	alpha.Force = alpha.Force.Add(force)
	omega.Force = omega.Force.Sub(force)
	halfMass := spec.LinearDensity * length / 2
	alpha.AccumulatedMass += halfMass
	omega.AccumulatedMass += halfMass
}
