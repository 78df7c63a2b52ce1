package fabric

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/tensegrity/internal/physics"
)

// MaxSpeed is the per-tick joint speed beyond which a fabric is considered
// unstable and gets frozen.
const MaxSpeed = 1.0

type Fabric struct {
	joints         arena[Joint]
	intervals      arena[Interval]
	faces          arena[Face]
	progress       Progress
	muscleRotation float64
	age            int
	frozen         bool
}

func New() *Fabric {
	return &Fabric{}
}

// Clone returns a deep copy. Handles issued by f remain valid in the copy.
func (f *Fabric) Clone() *Fabric {
	return &Fabric{
		joints:         f.joints.clone(),
		intervals:      f.intervals.clone(),
		faces:          f.faces.clone(),
		progress:       f.progress,
		muscleRotation: f.muscleRotation,
		age:            f.age,
		frozen:         f.frozen,
	}
}

func (f *Fabric) Age() int            { return f.age }
func (f *Fabric) Frozen() bool        { return f.frozen }
func (f *Fabric) Progress() *Progress { return &f.progress }
func (f *Fabric) JointCount() int     { return f.joints.len() }
func (f *Fabric) IntervalCount() int  { return f.intervals.len() }
func (f *Fabric) FaceCount() int      { return f.faces.len() }

func (f *Fabric) CreateJoint(location mgl64.Vec3) JointID {
	return JointID(f.joints.insert(newJoint(location)))
}

func (f *Fabric) Joint(id JointID) (*Joint, error) {
	j := f.joints.get(ID(id))
	if j == nil {
		return nil, fmt.Errorf("%w: %s", ErrJointNotFound, id)
	}
	return j, nil
}

func (f *Fabric) Location(id JointID) mgl64.Vec3 {
	if j := f.joints.get(ID(id)); j != nil {
		return j.Location
	}
	return mgl64.Vec3{}
}

func (f *Fabric) Distance(alpha, omega JointID) float64 {
	return f.Location(alpha).Sub(f.Location(omega)).Len()
}

// RemoveJoint removes a joint together with every interval touching it.
// All other handles stay valid.
func (f *Fabric) RemoveJoint(id JointID) error {
	if f.joints.get(ID(id)) == nil {
		return fmt.Errorf("%w: %s", ErrJointNotFound, id)
	}
	var touching []ID
	f.intervals.each(func(iid ID, in *Interval) {
		if in.Touches(id) {
			touching = append(touching, iid)
		}
	})
	for _, iid := range touching {
		f.intervals.remove(iid)
	}
	f.joints.remove(ID(id))
	return nil
}

func (f *Fabric) JointIDs() []JointID {
	ids := f.joints.ids()
	out := make([]JointID, len(ids))
	for i, id := range ids {
		out[i] = JointID(id)
	}
	return out
}

// CreateInterval connects two joints with a span approaching ideal from the
// current distance, so the fabric eases into the new length over the next
// countdown.
func (f *Fabric) CreateInterval(alpha, omega JointID, ideal float64, material Material) IntervalID {
	initial := f.Distance(alpha, omega)
	return f.CreateIntervalWithSpan(alpha, omega, Approaching{Initial: initial, Target: ideal}, material)
}

func (f *Fabric) CreateIntervalWithSpan(alpha, omega JointID, span Span, material Material) IntervalID {
	return IntervalID(f.intervals.insert(Interval{
		Alpha:    alpha,
		Omega:    omega,
		Role:     material.Spec().Role,
		Material: material,
		Span:     span,
	}))
}

func (f *Fabric) Interval(id IntervalID) (*Interval, error) {
	in := f.intervals.get(ID(id))
	if in == nil {
		return nil, fmt.Errorf("%w: %s", ErrIntervalNotFound, id)
	}
	return in, nil
}

func (f *Fabric) RemoveInterval(id IntervalID) error {
	if !f.intervals.remove(ID(id)) {
		return fmt.Errorf("%w: %s", ErrIntervalNotFound, id)
	}
	return nil
}

func (f *Fabric) IntervalIDs() []IntervalID {
	ids := f.intervals.ids()
	out := make([]IntervalID, len(ids))
	for i, id := range ids {
		out[i] = IntervalID(id)
	}
	return out
}

// EachInterval visits intervals in handle order.
func (f *Fabric) EachInterval(fn func(IntervalID, *Interval)) {
	f.intervals.each(func(id ID, in *Interval) { fn(IntervalID(id), in) })
}

func (f *Fabric) IntervalLength(in *Interval) float64 {
	return f.Distance(in.Alpha, in.Omega)
}

func (f *Fabric) Linked(a, b JointID) bool {
	linked := false
	f.intervals.each(func(_ ID, in *Interval) {
		if !linked && in.Touches(a) && in.Touches(b) {
			linked = true
		}
	})
	return linked
}

// Iterate advances the fabric by one tick and returns the largest squared
// joint speed. A NaN or excessive speed freezes the fabric for good.
func (f *Fabric) Iterate(p *physics.Physics) float64 {
	if f.frozen {
		return 0
	}
	f.joints.each(func(_ ID, j *Joint) { j.reset() })
	nuance := f.progress.Nuance()
	muscle := f.MuscleNuance()
	f.intervals.each(func(_ ID, in *Interval) {
		alpha, omega := f.joints.get(ID(in.Alpha)), f.joints.get(ID(in.Omega))
		if alpha == nil || omega == nil {
			return
		}
		in.iterate(alpha, omega, nuance, muscle, p.Stiffness)
	})
	maxSpeedSquared := 0.0
	unstable := false
	f.joints.each(func(_ ID, j *Joint) {
		speedSquared := j.iterate(p)
		if math.IsNaN(speedSquared) {
			unstable = true
		} else if speedSquared > maxSpeedSquared {
			maxSpeedSquared = speedSquared
		}
	})
	if unstable || maxSpeedSquared > MaxSpeed*MaxSpeed {
		f.freeze()
		return maxSpeedSquared
	}
	if f.progress.Step() {
		f.intervals.each(func(_ ID, in *Interval) {
			if span, ok := in.Span.(Approaching); ok {
				in.Span = Fixed{Length: span.Target}
			}
		})
	}
	f.age++
	return maxSpeedSquared
}

func (f *Fabric) freeze() {
	f.joints.each(func(_ ID, j *Joint) {
		j.Velocity = mgl64.Vec3{}
		j.Force = mgl64.Vec3{}
	})
	f.frozen = true
}

// Midpoint is the mean joint location.
func (f *Fabric) Midpoint() mgl64.Vec3 {
	var sum mgl64.Vec3
	n := f.joints.len()
	if n == 0 {
		return sum
	}
	f.joints.each(func(_ ID, j *Joint) { sum = sum.Add(j.Location) })
	return sum.Mul(1 / float64(n))
}

func (f *Fabric) ApplyMatrix(m mgl64.Mat4) {
	f.joints.each(func(_ ID, j *Joint) {
		j.Location = mgl64.TransformCoordinate(j.Location, m)
		j.Velocity = mgl64.TransformNormal(j.Velocity, m)
	})
}

// Centralize moves the fabric over the origin and, when lift is set, puts its
// lowest joint at the given altitude.
func (f *Fabric) Centralize(lift bool, altitude float64) {
	mid := f.Midpoint()
	mid[1] = 0
	lowest := math.Inf(1)
	f.joints.each(func(_ ID, j *Joint) {
		j.Location = j.Location.Sub(mid)
		lowest = math.Min(lowest, j.Location.Y())
	})
	if !lift || math.IsInf(lowest, 1) {
		return
	}
	f.joints.each(func(_ ID, j *Joint) { j.Location[1] -= lowest - altitude })
}

// Orient rotates the fabric about its midpoint so down points along -y.
func (f *Fabric) Orient(down mgl64.Vec3) {
	if down.Len() == 0 {
		return
	}
	mid := f.Midpoint()
	rotation := mgl64.QuatBetweenVectors(down.Normalize(), mgl64.Vec3{0, -1, 0})
	m := mgl64.Translate3D(mid.X(), mid.Y(), mid.Z()).
		Mul4(rotation.Mat4()).
		Mul4(mgl64.Translate3D(-mid.X(), -mid.Y(), -mid.Z()))
	f.ApplyMatrix(m)
}

// ZeroMotion clears velocity and force on every joint.
func (f *Fabric) ZeroMotion() {
	f.joints.each(func(_ ID, j *Joint) {
		j.Velocity = mgl64.Vec3{}
		j.Force = mgl64.Vec3{}
	})
}
