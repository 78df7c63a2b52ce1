package crucible

import (
	"fmt"

	"github.com/san-kum/tensegrity/internal/fabric"
	"github.com/san-kum/tensegrity/internal/physics"
)

const (
	ovenIterations  = 60
	ovenMinAge      = 1000
	ovenMaxAge      = 200000
	ovenSpeedSquare = 1e-12
	ovenShake       = 0.02
)

// Oven settles a brick prototype in liquid and bakes the result back into
// a template. Settling stops early only once the prototype is both old and
// still.
type Oven struct {
	name    fabric.BrickName
	physics physics.Physics
}

func NewOven(name fabric.BrickName) *Oven {
	return &Oven{name: name, physics: physics.Liquid}
}

// Prototype builds the fabric to be settled, shaken by seed so the settled
// shape does not depend on the template's exact symmetry.
func (o *Oven) Prototype(seed int64) (*fabric.Fabric, error) {
	brick, err := fabric.BrickFor(o.name)
	if err != nil {
		return nil, err
	}
	f := fabric.New()
	if _, err := f.AttachBrick(brick, fabric.DefaultPretenstFactor, 1, fabric.FaceID{}); err != nil {
		return nil, fmt.Errorf("oven: %w", err)
	}
	f.Shake(seed, ovenShake)
	return f, nil
}

// Iterate runs one batch of ticks and returns the baked brick once the
// prototype has settled. A prototype that froze is never baked.
func (o *Oven) Iterate(f *fabric.Fabric) (*fabric.Brick, error) {
	speedSquared := 1.0
	for i := 0; i < ovenIterations; i++ {
		speedSquared = f.Iterate(&o.physics)
	}
	if f.Frozen() {
		return nil, fmt.Errorf("oven: prototype froze at age %d", f.Age())
	}
	settled := f.Age() > ovenMinAge && speedSquared < ovenSpeedSquare
	if !settled && f.Age() < ovenMaxAge {
		return nil, nil
	}
	brick, err := f.BakeBrick(o.name)
	if err != nil {
		return nil, fmt.Errorf("oven: %w", err)
	}
	return brick, nil
}
