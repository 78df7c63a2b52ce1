package fabric

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/tensegrity/internal/physics"
)

const (
	ambientMass    = 0.01
	resurface      = 0.01
	stickyDownDrag = 0.8
)

type JointID ID

func (j JointID) String() string      { return ID(j).String() }
func (j JointID) IsZero() bool        { return ID(j).IsZero() }
func (j JointID) Less(o JointID) bool { return ID(j).Less(ID(o)) }

type Joint struct {
	Location        mgl64.Vec3
	Velocity        mgl64.Vec3
	Force           mgl64.Vec3
	AccumulatedMass float64
	// Fixed joints are anchors: they never move.
	Fixed bool
}

func newJoint(location mgl64.Vec3) Joint {
	return Joint{Location: location, AccumulatedMass: ambientMass}
}

func (j *Joint) reset() {
	j.Force = mgl64.Vec3{}
	j.AccumulatedMass = ambientMass
}

// iterate integrates one tick and returns the squared speed.
func (j *Joint) iterate(p *physics.Physics) float64 {
	if j.Fixed {
		j.Velocity = mgl64.Vec3{}
		return 0
	}
	mass := j.AccumulatedMass * p.MassScale()
	altitude := j.Location.Y()
	if altitude >= 0 || p.Surface == physics.Absent {
		j.Velocity[1] -= p.Gravity
		speedSquared := j.Velocity.LenSqr()
		j.Velocity = j.Velocity.
			Add(j.Force.Mul(1 / mass)).
			Sub(j.Velocity.Mul(speedSquared * p.Viscosity)).
			Mul(1 - p.Drag)
	} else {
		submerged := math.Min(-altitude, 1)
		antigravity := p.Antigravity * submerged
		j.Velocity = j.Velocity.Add(j.Force.Mul(1 / mass))
		switch p.Surface {
		case physics.Frozen:
			j.Velocity = mgl64.Vec3{}
			j.Location[1] = -resurface
		case physics.Sticky:
			drag := 1 - p.Drag
			if j.Velocity.Y() < 0 {
				drag = stickyDownDrag
			}
			j.Velocity[0] *= drag
			j.Velocity[1] += antigravity
			j.Velocity[2] *= drag
		case physics.Bouncy:
			j.Velocity = j.Velocity.Mul(1 - submerged)
			j.Velocity[1] += antigravity
		}
	}
	j.Location = j.Location.Add(j.Velocity)
	return j.Velocity.LenSqr()
}
