package fabric

import "math"

type StrainLimits struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type Stats struct {
	Age           int                     `json:"age"`
	Frozen        bool                    `json:"frozen"`
	Joints        int                     `json:"joints"`
	Pushes        int                     `json:"pushes"`
	Pulls         int                     `json:"pulls"`
	Springs       int                     `json:"springs"`
	Faces         int                     `json:"faces"`
	Height        float64                 `json:"height"`
	MinPushLength float64                 `json:"min_push_length"`
	MaxPushLength float64                 `json:"max_push_length"`
	Strain        map[string]StrainLimits `json:"strain"`
}

func (f *Fabric) Stats() Stats {
	s := Stats{
		Age:           f.age,
		Frozen:        f.frozen,
		Joints:        f.joints.len(),
		Faces:         f.faces.len(),
		MinPushLength: math.Inf(1),
		Strain:        make(map[string]StrainLimits),
	}
	lowest, highest := math.Inf(1), math.Inf(-1)
	f.joints.each(func(_ ID, j *Joint) {
		lowest = math.Min(lowest, j.Location.Y())
		highest = math.Max(highest, j.Location.Y())
	})
	if s.Joints > 0 {
		s.Height = highest - lowest
	}
	f.intervals.each(func(_ ID, in *Interval) {
		switch in.Role {
		case Push:
			s.Pushes++
			length := f.IntervalLength(in)
			s.MinPushLength = math.Min(s.MinPushLength, length)
			s.MaxPushLength = math.Max(s.MaxPushLength, length)
		case Pull:
			s.Pulls++
		case Spring:
			s.Springs++
		}
		label := in.Material.String()
		limits, ok := s.Strain[label]
		if !ok {
			limits = StrainLimits{Min: in.Strain, Max: in.Strain}
		}
		limits.Min = math.Min(limits.Min, in.Strain)
		limits.Max = math.Max(limits.Max, in.Strain)
		s.Strain[label] = limits
	})
	if s.Pushes == 0 {
		s.MinPushLength = 0
	}
	return s
}

// MaxSpeedSquared reports the fastest joint without advancing time.
func (f *Fabric) MaxSpeedSquared() float64 {
	fastest := 0.0
	f.joints.each(func(_ ID, j *Joint) {
		fastest = math.Max(fastest, j.Velocity.LenSqr())
	})
	return fastest
}
