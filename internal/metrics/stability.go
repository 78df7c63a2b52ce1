package metrics

import (
	"math"

	"github.com/san-kum/tensegrity/internal/fabric"
)

// Stability is the fraction of frames in which the fabric was neither frozen
// nor moving faster than the threshold.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(f *fabric.Fabric, frame int) {
	s.samples++
	if f.Frozen() || math.Sqrt(f.MaxSpeedSquared()) > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
