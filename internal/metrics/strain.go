package metrics

import (
	"math"

	"github.com/san-kum/tensegrity/internal/fabric"
)

// PeakStrain tracks the largest strain magnitude seen on any push or pull.
type PeakStrain struct {
	name string
	peak float64
}

func NewPeakStrain() *PeakStrain {
	return &PeakStrain{name: "peak_strain"}
}

func (p *PeakStrain) Name() string { return p.name }

func (p *PeakStrain) Observe(f *fabric.Fabric, frame int) {
	f.EachInterval(func(_ fabric.IntervalID, in *fabric.Interval) {
		if in.Role == fabric.Spring {
			return
		}
		p.peak = math.Max(p.peak, math.Abs(in.Strain))
	})
}

func (p *PeakStrain) Value() float64 { return p.peak }

func (p *PeakStrain) Reset() { p.peak = 0 }

// PeakSpeed tracks the fastest joint speed over the run.
type PeakSpeed struct {
	name string
	peak float64
}

func NewPeakSpeed() *PeakSpeed {
	return &PeakSpeed{name: "peak_speed"}
}

func (p *PeakSpeed) Name() string { return p.name }

func (p *PeakSpeed) Observe(f *fabric.Fabric, frame int) {
	p.peak = math.Max(p.peak, math.Sqrt(f.MaxSpeedSquared()))
}

func (p *PeakSpeed) Value() float64 { return p.peak }

func (p *PeakSpeed) Reset() { p.peak = 0 }

// Height reports the fabric height on the latest frame.
type Height struct {
	name   string
	height float64
}

func NewHeight() *Height {
	return &Height{name: "height"}
}

func (h *Height) Name() string { return h.name }

func (h *Height) Observe(f *fabric.Fabric, frame int) {
	h.height = f.Stats().Height
}

func (h *Height) Value() float64 { return h.height }

func (h *Height) Reset() { h.height = 0 }
