package fabric

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/ojrac/opensimplex-go"
)

const shakeFrequency = 1.7

// Shake displaces every joint by up to amplitude along a smooth noise field.
// The same seed always produces the same displacement.
func (f *Fabric) Shake(seed int64, amplitude float64) {
	noise := opensimplex.New(seed)
	f.joints.each(func(_ ID, j *Joint) {
		if j.Fixed {
			return
		}
		p := j.Location.Mul(shakeFrequency)
		offset := mgl64.Vec3{
			noise.Eval3(p.X(), p.Y(), p.Z()),
			noise.Eval3(p.X()+31.7, p.Y(), p.Z()),
			noise.Eval3(p.X(), p.Y()+57.3, p.Z()),
		}
		j.Location = j.Location.Add(offset.Mul(amplitude))
	})
}
