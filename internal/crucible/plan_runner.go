package crucible

import (
	"github.com/san-kum/tensegrity/internal/fabric"
	"github.com/san-kum/tensegrity/internal/growth"
	"github.com/san-kum/tensegrity/internal/physics"
	"github.com/san-kum/tensegrity/internal/shape"
	"github.com/san-kum/tensegrity/internal/tenscript"
)

type runnerStage int

const (
	initialize runnerStage = iota
	growStep
	growApproach
	growCalm
	shaping
	completed
)

var runnerStageNames = [...]string{"initialize", "grow-step", "grow-approach", "grow-calm", "shaping", "completed"}

func (s runnerStage) String() string { return runnerStageNames[s] }

// PlanRunner grows and shapes a fabric from a plan in liquid physics. Every
// brick gets an approach countdown and a calm countdown before the next.
type PlanRunner struct {
	plan      *tenscript.FabricPlan
	stage     runnerStage
	growth    *growth.Growth
	shape     *shape.Phase
	physics   physics.Physics
	countdown int
}

func NewPlanRunner(plan *tenscript.FabricPlan, growCountdown int) *PlanRunner {
	return &PlanRunner{
		plan:      plan,
		growth:    growth.New(plan),
		physics:   physics.Liquid,
		countdown: growCountdown,
	}
}

func (r *PlanRunner) Physics() physics.Physics { return r.physics }

func (r *PlanRunner) IsDone() bool { return r.stage == completed }

func (r *PlanRunner) Stage() string { return r.stage.String() }

// Iterate runs one tick and, once the fabric's progress is idle, takes the
// next growth or shaping step.
func (r *PlanRunner) Iterate(f *fabric.Fabric) error {
	f.Iterate(&r.physics)
	if f.Progress().IsBusy() {
		return nil
	}
	next, countdown := r.stage, 0
	switch r.stage {
	case initialize:
		if err := r.growth.Init(f); err != nil {
			return err
		}
		next = growApproach
	case growStep:
		switch {
		case r.growth.IsGrowing():
			if err := r.growth.GrowthStep(f); err != nil {
				return err
			}
			next = growApproach
		case r.growth.NeedsShaping():
			r.shape = shape.New(r.plan.Shape, r.growth.Marks())
			next = shaping
		default:
			next = completed
		}
	case growApproach:
		next, countdown = growCalm, r.countdown
	case growCalm:
		next, countdown = growStep, r.countdown
	case shaping:
		cmd, err := r.shape.ShapingStep(f)
		if err != nil {
			return err
		}
		if cmd.HasViscosity {
			r.physics.Viscosity = cmd.Viscosity
		}
		switch cmd.Kind {
		case shape.StartCountdown:
			countdown = cmd.Countdown
		case shape.Terminate:
			next = completed
		}
	}
	f.Progress().Start(countdown)
	r.stage = next
	return nil
}
