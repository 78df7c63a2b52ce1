package fabric

import (
	"errors"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/tensegrity/internal/physics"
)

func TestStrainZeroing(t *testing.T) {
	tests := []struct {
		name   string
		role   Role
		length float64
		ideal  float64
		zero   bool
	}{
		{"push compressed", Push, 0.8, 1.0, false},
		{"push stretched", Push, 1.2, 1.0, true},
		{"pull stretched", Pull, 1.2, 1.0, false},
		{"pull compressed", Pull, 0.8, 1.0, true},
		{"spring compressed", Spring, 0.8, 1.0, false},
		{"spring stretched", Spring, 1.2, 1.0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := strain(tt.role, tt.length, tt.ideal)
			if tt.zero && s != 0 {
				t.Errorf("expected zero strain, got %f", s)
			}
			if !tt.zero && s == 0 {
				t.Error("expected non-zero strain")
			}
		})
	}
}

func TestStrainZeroingInFabric(t *testing.T) {
	f := New()
	a := f.CreateJoint(mgl64.Vec3{0, 1, 0})
	b := f.CreateJoint(mgl64.Vec3{2, 1, 0})
	c := f.CreateJoint(mgl64.Vec3{0, 1, 2})
	stretchedPush := f.CreateIntervalWithSpan(a, b, Fixed{Length: 1}, PushMaterial)
	compressedPull := f.CreateIntervalWithSpan(a, c, Fixed{Length: 3}, PullMaterial)

	p := physics.Liquid
	f.Iterate(&p)

	push, _ := f.Interval(stretchedPush)
	if push.Strain != 0 {
		t.Errorf("expected stretched push strain 0, got %f", push.Strain)
	}
	pull, _ := f.Interval(compressedPull)
	if pull.Strain != 0 {
		t.Errorf("expected compressed pull strain 0, got %f", pull.Strain)
	}
}

func TestProgressNuance(t *testing.T) {
	var p Progress
	p.Start(10)
	if !p.IsBusy() {
		t.Fatal("expected busy after start")
	}
	last := p.Nuance()
	completed := 0
	for i := 1; i <= 12; i++ {
		done := p.Step()
		n := p.Nuance()
		if n < last {
			t.Errorf("nuance decreased from %f to %f", last, n)
		}
		last = n
		if done {
			completed++
			if i != 10 {
				t.Errorf("expected completion on step 10, got %d", i)
			}
			if n != 1.0 {
				t.Errorf("expected nuance 1.0 on completion, got %f", n)
			}
		}
	}
	if completed != 1 {
		t.Errorf("expected exactly one completion, got %d", completed)
	}
	if p.IsBusy() {
		t.Error("expected idle after completion")
	}
}

func TestApproachingEnds(t *testing.T) {
	s := Approaching{Initial: 1.7, Target: 0.4}
	if got := s.At(0); got != 1.7 {
		t.Errorf("expected 1.7 at nuance 0, got %f", got)
	}
	if got := s.At(1); got != 0.4 {
		t.Errorf("expected 0.4 at nuance 1, got %f", got)
	}
	if got := s.Ideal(); got != 0.4 {
		t.Errorf("expected ideal 0.4, got %f", got)
	}
}

func TestApproachingBecomesFixed(t *testing.T) {
	f := New()
	a := f.CreateJoint(mgl64.Vec3{0, 1, 0})
	b := f.CreateJoint(mgl64.Vec3{1, 1, 0})
	id := f.CreateInterval(a, b, 0.9, PullMaterial)
	in, _ := f.Interval(id)
	if _, ok := in.Span.(Approaching); !ok {
		t.Fatalf("expected approaching span, got %T", in.Span)
	}

	f.Progress().Start(5)
	p := physics.Liquid
	for i := 0; i < 5; i++ {
		f.Iterate(&p)
	}
	in, _ = f.Interval(id)
	fixed, ok := in.Span.(Fixed)
	if !ok {
		t.Fatalf("expected fixed span, got %T", in.Span)
	}
	if fixed.Length != 0.9 {
		t.Errorf("expected length 0.9, got %f", fixed.Length)
	}
}

func TestMuscleSpan(t *testing.T) {
	m := Muscle{Rest: 2, Contracted: 1}
	if got := m.restLength(0, 0); got != 2 {
		t.Errorf("expected rest 2, got %f", got)
	}
	if got := m.restLength(0, 1); got != 1 {
		t.Errorf("expected contracted 1, got %f", got)
	}
	m.Reverse = true
	if got := m.restLength(0, 0); got != 1 {
		t.Errorf("expected reversed 1, got %f", got)
	}
}

func TestRemoveJointPreservesIntervals(t *testing.T) {
	f := New()
	var joints []JointID
	for i := 0; i < 5; i++ {
		joints = append(joints, f.CreateJoint(mgl64.Vec3{float64(i), float64(i * i), 1}))
	}
	pairs := [][2]int{{0, 1}, {1, 2}, {2, 3}, {3, 4}, {0, 4}, {1, 3}, {2, 4}}
	type ends struct{ alpha, omega mgl64.Vec3 }
	before := make(map[IntervalID]ends)
	for _, p := range pairs {
		id := f.CreateIntervalWithSpan(joints[p[0]], joints[p[1]], Fixed{Length: 1}, PullMaterial)
		before[id] = ends{f.Location(joints[p[0]]), f.Location(joints[p[1]])}
	}

	removed := joints[2]
	if err := f.RemoveJoint(removed); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := f.Joint(removed); !errors.Is(err, ErrJointNotFound) {
		t.Errorf("expected ErrJointNotFound, got %v", err)
	}
	if f.IntervalCount() != 4 {
		t.Errorf("expected 4 surviving intervals, got %d", f.IntervalCount())
	}

	f.CreateJoint(mgl64.Vec3{9, 9, 9})
	if _, err := f.Joint(removed); err == nil {
		t.Error("stale handle resolved after slot reuse")
	}

	for _, id := range f.IntervalIDs() {
		in, err := f.Interval(id)
		if err != nil {
			t.Fatalf("interval %s: %v", id, err)
		}
		want := before[id]
		if f.Location(in.Alpha) != want.alpha || f.Location(in.Omega) != want.omega {
			t.Errorf("interval %s endpoints moved", id)
		}
	}
}

func TestFreeFall(t *testing.T) {
	f := New()
	a := f.CreateJoint(mgl64.Vec3{0, 10, 0})
	b := f.CreateJoint(mgl64.Vec3{0, 11, 0})
	f.CreateIntervalWithSpan(a, b, Fixed{Length: 1}, PushMaterial)

	g := 1e-5
	p := physics.Physics{Surface: physics.Absent, Gravity: g, Stiffness: 1, Mass: 1}
	lastSpeed := 0.0
	for n := 1; n <= 200; n++ {
		speedSquared := f.Iterate(&p)
		speed := math.Sqrt(speedSquared)
		if speed <= lastSpeed {
			t.Fatalf("tick %d: speed %g did not increase from %g", n, speed, lastSpeed)
		}
		lastSpeed = speed
		if math.Abs(speed-g*float64(n)) > 1e-9 {
			t.Errorf("tick %d: expected speed %g, got %g", n, g*float64(n), speed)
		}
	}
	fallen := 10 - f.Location(a).Y()
	expected := g * 200 * 201 / 2
	if math.Abs(fallen-expected) > 1e-8 {
		t.Errorf("expected fall %g, got %g", expected, fallen)
	}
	if f.Frozen() {
		t.Error("fabric should not freeze in free fall")
	}
}

func TestFreezeOnRunaway(t *testing.T) {
	tests := []struct {
		name     string
		velocity mgl64.Vec3
	}{
		{"too fast", mgl64.Vec3{2, 0, 0}},
		{"nan", mgl64.Vec3{math.NaN(), 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New()
			a := f.CreateJoint(mgl64.Vec3{0, 1, 0})
			f.CreateJoint(mgl64.Vec3{1, 1, 0})
			j, _ := f.Joint(a)
			j.Velocity = tt.velocity

			p := physics.Physics{Surface: physics.Absent, Stiffness: 1, Mass: 1}
			f.Iterate(&p)
			if !f.Frozen() {
				t.Fatal("expected frozen fabric")
			}
			if f.MaxSpeedSquared() != 0 {
				t.Errorf("expected velocities zeroed, got %g", f.MaxSpeedSquared())
			}
			age := f.Age()
			if got := f.Iterate(&p); got != 0 || f.Age() != age {
				t.Error("frozen fabric should not advance")
			}
		})
	}
}

func TestSurfaces(t *testing.T) {
	tests := []struct {
		surface physics.Surface
		check   func(t *testing.T, j *Joint)
	}{
		{physics.Frozen, func(t *testing.T, j *Joint) {
			if j.Velocity.Len() != 0 {
				t.Errorf("expected frozen joint at rest, got %v", j.Velocity)
			}
			if j.Location.Y() != -resurface {
				t.Errorf("expected altitude %f, got %f", -resurface, j.Location.Y())
			}
		}},
		{physics.Bouncy, func(t *testing.T, j *Joint) {
			if j.Velocity.Y() <= 0 {
				t.Errorf("expected upward push, got %v", j.Velocity)
			}
		}},
		{physics.Sticky, func(t *testing.T, j *Joint) {
			if j.Velocity.Y() <= 0 {
				t.Errorf("expected upward push, got %v", j.Velocity)
			}
		}},
		{physics.Absent, func(t *testing.T, j *Joint) {
			if j.Location.Y() >= -0.5 {
				t.Errorf("expected joint to keep sinking, got %f", j.Location.Y())
			}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.surface.String(), func(t *testing.T) {
			f := New()
			id := f.CreateJoint(mgl64.Vec3{0, -0.5, 0})
			p := physics.AirGravity.WithSurface(tt.surface)
			f.Iterate(&p)
			j, _ := f.Joint(id)
			tt.check(t, j)
		})
	}
}

func TestCloneIsIndependent(t *testing.T) {
	f := New()
	a := f.CreateJoint(mgl64.Vec3{0, 1, 0})
	c := f.Clone()
	j, _ := c.Joint(a)
	j.Location = mgl64.Vec3{5, 5, 5}
	if f.Location(a) != (mgl64.Vec3{0, 1, 0}) {
		t.Error("clone shares joint storage with original")
	}
}

func TestCentralize(t *testing.T) {
	f := New()
	f.CreateJoint(mgl64.Vec3{3, 2, 1})
	f.CreateJoint(mgl64.Vec3{5, 4, 3})
	f.Centralize(true, 0.5)
	mid := f.Midpoint()
	if math.Abs(mid.X()) > 1e-12 || math.Abs(mid.Z()) > 1e-12 {
		t.Errorf("expected centered fabric, got %v", mid)
	}
	if got := f.Stats().Height; math.Abs(got-2) > 1e-12 {
		t.Errorf("expected height 2, got %f", got)
	}
	lowest := math.Min(f.Snapshot().Joints[0].Y(), f.Snapshot().Joints[1].Y())
	if math.Abs(lowest-0.5) > 1e-12 {
		t.Errorf("expected lowest joint at 0.5, got %f", lowest)
	}
}
