package fabric

// Span is the rest-length policy of an interval.
type Span interface {
	// Ideal is the length the span settles on once no countdown is running.
	Ideal() float64
	restLength(nuance, muscleNuance float64) float64
}

type Fixed struct {
	Length float64
}

func (s Fixed) Ideal() float64                  { return s.Length }
func (s Fixed) restLength(_, _ float64) float64 { return s.Length }

// Approaching moves linearly from Initial to Target over the fabric's
// progress countdown and becomes Fixed when the countdown completes.
type Approaching struct {
	Initial float64
	Target  float64
}

func (s Approaching) Ideal() float64 { return s.Target }

func (s Approaching) At(nuance float64) float64 {
	return s.Initial*(1-nuance) + s.Target*nuance
}

func (s Approaching) restLength(nuance, _ float64) float64 { return s.At(nuance) }

// Muscle oscillates between Rest and Contracted as the muscle nuance moves
// between 0 and 1. Reverse muscles contract while the others relax.
type Muscle struct {
	Rest       float64
	Contracted float64
	Reverse    bool
}

func (s Muscle) Ideal() float64 { return (s.Rest + s.Contracted) / 2 }

func (s Muscle) restLength(_, muscleNuance float64) float64 {
	if s.Reverse {
		muscleNuance = 1 - muscleNuance
	}
	return s.Rest*(1-muscleNuance) + s.Contracted*muscleNuance
}
