package crucible

import (
	"github.com/san-kum/tensegrity/internal/fabric"
	"github.com/san-kum/tensegrity/internal/physics"
	"github.com/san-kum/tensegrity/internal/tenscript"
)

// Lab keeps a finished fabric standing and runs its muscle cycle.
type Lab struct {
	physics   physics.Physics
	muscle    *tenscript.MusclePlan
	cycling   bool
	increment float64
}

// NewLab installs the plan's muscles, if any, relaxed at rotation zero.
func NewLab(f *fabric.Fabric, p physics.Physics, muscle *tenscript.MusclePlan) *Lab {
	if muscle != nil {
		f.ActivateMuscles(muscle.Amplitude)
	}
	return &Lab{physics: p, muscle: muscle}
}

func (l *Lab) Physics() physics.Physics { return l.physics }

func (l *Lab) Cycling() bool { return l.cycling }

func (l *Lab) Iterate(f *fabric.Fabric) {
	f.Iterate(&l.physics)
	if l.cycling {
		f.AdvanceMuscles(l.increment)
	}
}

func (l *Lab) SetGravity(g float64) { l.physics.Gravity = g }

// ToggleMuscles starts or stops the muscle cycle. One cycle lasts the
// plan's muscle countdown.
func (l *Lab) ToggleMuscles(f *fabric.Fabric) error {
	if l.muscle == nil {
		return ErrNoMuscles
	}
	if l.cycling {
		l.cycling = false
		f.AdvanceMuscles(-f.MuscleRotation())
		return nil
	}
	l.cycling = true
	l.increment = 1 / float64(l.muscle.Countdown)
	return nil
}

func (l *Lab) SetMuscleRotation(f *fabric.Fabric, rotation float64) {
	f.AdvanceMuscles(rotation - f.MuscleRotation())
}
