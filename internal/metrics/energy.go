package metrics

import (
	"github.com/san-kum/tensegrity/internal/fabric"
)

// KineticEnergy averages the fabric's kinetic energy over observed frames.
type KineticEnergy struct {
	name    string
	samples int
	total   float64
	last    float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(f *fabric.Fabric, frame int) {
	e.last = Kinetic(f)
	e.total += e.last
	e.samples++
}

func (e *KineticEnergy) Value() float64 {
	if e.samples == 0 {
		return 0
	}
	return e.total / float64(e.samples)
}

// Last is the energy seen on the latest frame.
func (e *KineticEnergy) Last() float64 { return e.last }

func (e *KineticEnergy) Reset() {
	e.total = 0
	e.last = 0
	e.samples = 0
}

// Kinetic sums half m v squared over the joints, using the mass each
// joint gathered from its intervals on the latest tick.
func Kinetic(f *fabric.Fabric) float64 {
	energy := 0.0
	for _, id := range f.JointIDs() {
		j, err := f.Joint(id)
		if err != nil {
			continue
		}
		energy += 0.5 * j.AccumulatedMass * j.Velocity.LenSqr()
	}
	return energy
}
