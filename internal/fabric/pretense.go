package fabric

import "math"

// PrepareForPretensing freezes the current shape into the spans: pulls and
// springs are fixed at their present length while pushes start approaching
// factor times theirs. Support intervals are left alone.
func (f *Fabric) PrepareForPretensing(factor float64) {
	f.intervals.each(func(_ ID, in *Interval) {
		spec := in.Material.Spec()
		if spec.Support {
			return
		}
		length := f.IntervalLength(in)
		switch in.Role {
		case Push:
			in.Span = Approaching{Initial: length, Target: length * factor}
		default:
			in.Span = Fixed{Length: length}
		}
	})
	f.ZeroMotion()
}

// ShortenPulls makes every pull strained beyond threshold approach factor
// times its ideal length. It returns how many were changed.
func (f *Fabric) ShortenPulls(threshold, factor float64) int {
	count := 0
	f.intervals.each(func(_ ID, in *Interval) {
		if in.Role != Pull || in.Material.Spec().Support || in.Strain <= threshold {
			return
		}
		ideal := in.Span.Ideal()
		in.Span = Approaching{Initial: ideal, Target: ideal * factor}
		count++
	})
	return count
}

// MuscleNuance follows a raised cosine over one muscle rotation.
func (f *Fabric) MuscleNuance() float64 {
	return (1 - math.Cos(2*math.Pi*f.muscleRotation)) / 2
}

func (f *Fabric) MuscleRotation() float64 { return f.muscleRotation }

// AdvanceMuscles moves the muscle cycle forward, wrapping at one.
func (f *Fabric) AdvanceMuscles(increment float64) {
	f.muscleRotation = math.Mod(f.muscleRotation+increment, 1)
	if f.muscleRotation < 0 {
		f.muscleRotation++
	}
}

func muscular(in *Interval) bool {
	return in.Role == Pull && !in.Material.Spec().Support && in.Material != FaceRadialMaterial
}

// ActivateMuscles turns pulls into muscles contracting by amplitude.
// Intervals on the -x side of the fabric run in reverse so the two halves
// alternate.
func (f *Fabric) ActivateMuscles(amplitude float64) int {
	mid := f.Midpoint()
	count := 0
	f.intervals.each(func(_ ID, in *Interval) {
		if !muscular(in) {
			return
		}
		if _, ok := in.Span.(Muscle); ok {
			return
		}
		rest := in.Span.Ideal()
		center := f.Location(in.Alpha).Add(f.Location(in.Omega)).Mul(0.5)
		in.Span = Muscle{
			Rest:       rest,
			Contracted: rest * (1 - amplitude),
			Reverse:    center.X() < mid.X(),
		}
		count++
	})
	f.muscleRotation = 0
	return count
}

// RelaxMuscles puts every muscle back to a fixed rest length.
func (f *Fabric) RelaxMuscles() {
	f.intervals.each(func(_ ID, in *Interval) {
		if m, ok := in.Span.(Muscle); ok {
			in.Span = Fixed{Length: m.Rest}
		}
	})
	f.muscleRotation = 0
}
