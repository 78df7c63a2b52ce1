package crucible

import (
	"github.com/san-kum/tensegrity/internal/fabric"
	"github.com/san-kum/tensegrity/internal/physics"
	"github.com/san-kum/tensegrity/internal/tenscript"
)

type pretenseStage int

const (
	pretenseStart pretenseStage = iota
	slacken
	pretensing
	settling
	pretenst
)

var pretenseStageNames = [...]string{"start", "slacken", "pretensing", "settling", "pretenst"}

func (s pretenseStage) String() string { return pretenseStageNames[s] }

// Pretenser expands the pushes of a finished fabric under gravity and waits
// for it to come to rest.
type Pretenser struct {
	stage       pretenseStage
	factor      float64
	countdown   int
	settleLimit int
	settleSpeed float64
	settled     int
	physics     physics.Physics
	muscle      *tenscript.MusclePlan
}

// NewPretenser reads surface, factor and muscles from the plan. A positive
// factor in settings wins over the plan's.
func NewPretenser(plan *tenscript.FabricPlan, settings Settings) *Pretenser {
	surface := plan.PretenseSurface()
	p := &Pretenser{
		factor:      plan.PretenseFactor(),
		countdown:   settings.PretenseCountdown,
		settleLimit: settings.SettleLimit,
		settleSpeed: settings.SettleSpeed,
		physics:     physics.AirGravity.WithSurface(surface),
	}
	if settings.PretenseFactor > 0 {
		p.factor = settings.PretenseFactor
	}
	if surface == physics.Absent {
		p.physics = p.physics.WithGravity(0)
	}
	if plan.Pretense != nil {
		p.muscle = plan.Pretense.Muscle
	}
	return p
}

func (p *Pretenser) Physics() physics.Physics { return p.physics }

func (p *Pretenser) Muscle() *tenscript.MusclePlan { return p.muscle }

func (p *Pretenser) IsDone() bool { return p.stage == pretenst }

func (p *Pretenser) Stage() string { return p.stage.String() }

// Resume skips slackening so spans already set on the fabric are kept.
func (p *Pretenser) Resume(f *fabric.Fabric) {
	f.Progress().Start(p.countdown)
	p.stage = pretensing
}

func (p *Pretenser) Iterate(f *fabric.Fabric) {
	switch p.stage {
	case pretenseStart:
		f.Centralize(p.physics.Surface != physics.Absent, 0)
		p.stage = slacken
	case slacken:
		f.PrepareForPretensing(p.factor)
		f.Progress().Start(p.countdown)
		p.stage = pretensing
	case pretensing:
		f.Iterate(&p.physics)
		if !f.Progress().IsBusy() {
			p.stage = settling
		}
	case settling:
		speedSquared := f.Iterate(&p.physics)
		p.settled++
		if speedSquared <= p.settleSpeed*p.settleSpeed || p.settled >= p.settleLimit || f.Frozen() {
			p.stage = pretenst
		}
	case pretenst:
		f.Iterate(&p.physics)
	}
}
