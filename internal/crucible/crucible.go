// Package crucible drives one fabric from plan to finished structure.
//
// A Crucible moves through its stages on completion signals only:
//
//	Empty -> AcceptingPlan -> RunningPlan -> Pretensing -> Interactive | Finished
//
// A plan without a pretense section skips Pretensing. Baking a brick
// prototype and adding a brick to a finished fabric are side stages. Each
// Iterate call runs one frame of ticks and then advances the active stage.
//
// A failing plan never leaves a half-built fabric behind: the crucible goes
// back to whatever it held before the plan was loaded.
package crucible

import (
	"fmt"
	"log/slog"

	"github.com/san-kum/tensegrity/internal/fabric"
	"github.com/san-kum/tensegrity/internal/physics"
	"github.com/san-kum/tensegrity/internal/tenscript"
)

type Stage int

const (
	Empty Stage = iota
	AcceptingPlan
	RunningPlan
	Pretensing
	Interactive
	Finished
	BakingBrick
	AddingBrick
)

var stageNames = [...]string{
	"empty", "accepting-plan", "running-plan", "pretensing",
	"interactive", "finished", "baking-brick", "adding-brick",
}

func (s Stage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Event reports what a frame completed, if anything.
type Event int

const (
	NoEvent Event = iota
	FabricBuilt
	PlanFailed
	BrickBaked
)

// checkpoint is what a failed plan falls back to. It carries whatever
// drives the saved stage so an interrupted pretense or bake resumes.
type checkpoint struct {
	fabric    *fabric.Fabric
	frozen    *fabric.Fabric
	stage     Stage
	plan      *tenscript.FabricPlan
	pretenser *Pretenser
	lab       *Lab
	oven      *Oven
}

type Crucible struct {
	settings  Settings
	logger    *slog.Logger
	fabric    *fabric.Fabric
	frozen    *fabric.Fabric
	stage     Stage
	plan      *tenscript.FabricPlan
	runner    *PlanRunner
	pretenser *Pretenser
	lab       *Lab
	oven      *Oven
	baked     *fabric.Brick
	prior     *checkpoint
	warned    bool
}

func New(settings Settings, logger *slog.Logger) *Crucible {
	if logger == nil {
		logger = slog.Default()
	}
	return &Crucible{
		settings: settings,
		logger:   logger,
		fabric:   fabric.New(),
	}
}

func (c *Crucible) Fabric() *fabric.Fabric       { return c.fabric }
func (c *Crucible) Stage() Stage                 { return c.stage }
func (c *Crucible) Plan() *tenscript.FabricPlan  { return c.plan }
func (c *Crucible) Settings() Settings           { return c.settings }
func (c *Crucible) Baked() *fabric.Brick         { return c.baked }
func (c *Crucible) FrozenFabric() *fabric.Fabric { return c.frozen }
func (c *Crucible) IterationsPerFrame() int      { return c.settings.IterationsPerFrame }
func (c *Crucible) Done() bool                   { return c.stage == Finished }
func (c *Crucible) MuscleCycling() bool          { return c.lab != nil && c.lab.Cycling() }
func (c *Crucible) HasMuscles() bool             { return c.lab != nil && c.lab.muscle != nil }
func (c *Crucible) Unstable() bool               { return c.fabric.Frozen() }
func (c *Crucible) Pretenser() *Pretenser        { return c.pretenser }
func (c *Crucible) Runner() *PlanRunner          { return c.runner }

// Busy reports whether the fabric is still being built or changed.
func (c *Crucible) Busy() bool {
	switch c.stage {
	case AcceptingPlan, RunningPlan, Pretensing, BakingBrick, AddingBrick:
		return true
	}
	return false
}

// Detail names the step within the current stage.
func (c *Crucible) Detail() string {
	switch c.stage {
	case RunningPlan:
		return c.runner.Stage()
	case Pretensing:
		return c.pretenser.Stage()
	}
	return c.stage.String()
}

// Physics is the environment the current stage iterates in.
func (c *Crucible) Physics() physics.Physics {
	switch c.stage {
	case RunningPlan:
		return c.runner.Physics()
	case Pretensing:
		return c.pretenser.Physics()
	case Interactive, AddingBrick:
		return c.lab.Physics()
	}
	return physics.Liquid
}

func (c *Crucible) SetSpeed(iterationsPerFrame int) error {
	if iterationsPerFrame <= 0 {
		return fmt.Errorf("crucible: iterations per frame must be positive, got %d", iterationsPerFrame)
	}
	c.settings.IterationsPerFrame = iterationsPerFrame
	return nil
}

// BuildFabric starts growing plan on a fresh fabric, replacing whatever
// the crucible was doing.
func (c *Crucible) BuildFabric(plan *tenscript.FabricPlan) error {
	if plan == nil {
		return ErrNoPlan
	}
	if c.stage != AcceptingPlan && c.stage != RunningPlan {
		c.prior = &checkpoint{
			fabric:    c.fabric,
			frozen:    c.frozen,
			stage:     c.stage,
			plan:      c.plan,
			pretenser: c.pretenser,
			lab:       c.lab,
			oven:      c.oven,
		}
	}
	c.replaceFabric(fabric.New())
	c.plan = plan
	c.frozen = nil
	c.runner, c.pretenser, c.lab, c.oven = nil, nil, nil, nil
	c.setStage(AcceptingPlan)
	return nil
}

// Reset drops everything and returns to Empty.
func (c *Crucible) Reset() {
	c.replaceFabric(fabric.New())
	c.plan, c.frozen, c.prior, c.baked = nil, nil, nil, nil
	c.runner, c.pretenser, c.lab, c.oven = nil, nil, nil, nil
	c.setStage(Empty)
}

// Iterate runs one frame.
func (c *Crucible) Iterate() (Event, error) {
	event, err := c.frame()
	if c.fabric.Frozen() && !c.warned {
		c.warned = true
		c.logger.Warn("fabric froze",
			"stage", c.stage,
			"age", c.fabric.Age(),
			"max_speed_squared", c.fabric.MaxSpeedSquared(),
		)
	}
	return event, err
}

func (c *Crucible) frame() (Event, error) {
	n := c.settings.IterationsPerFrame
	if c.fabric.Frozen() && (c.stage == RunningPlan || c.stage == Pretensing || c.stage == AddingBrick) {
		c.prior = nil
		c.setStage(Finished)
		return NoEvent, nil
	}
	switch c.stage {
	case AcceptingPlan:
		c.runner = NewPlanRunner(c.plan, c.settings.GrowCountdown)
		c.setStage(RunningPlan)
	case RunningPlan:
		for i := 0; i < n && !c.runner.IsDone(); i++ {
			if err := c.runner.Iterate(c.fabric); err != nil {
				return c.fail(err)
			}
		}
		if !c.runner.IsDone() {
			return NoEvent, nil
		}
		if c.plan.Pretense != nil {
			c.beginPretense(c.plan)
			return NoEvent, nil
		}
		c.finish(c.runner.Physics(), nil)
		return FabricBuilt, nil
	case Pretensing:
		for i := 0; i < n && !c.pretenser.IsDone(); i++ {
			c.pretenser.Iterate(c.fabric)
		}
		if !c.pretenser.IsDone() {
			return NoEvent, nil
		}
		c.finish(c.pretenser.Physics(), c.pretenser.Muscle())
		return FabricBuilt, nil
	case Interactive:
		for i := 0; i < n; i++ {
			c.lab.Iterate(c.fabric)
		}
	case AddingBrick:
		for i := 0; i < n && c.fabric.Progress().IsBusy(); i++ {
			c.lab.Iterate(c.fabric)
		}
		if !c.fabric.Progress().IsBusy() {
			c.setStage(Interactive)
		}
	case BakingBrick:
		brick, err := c.oven.Iterate(c.fabric)
		if err != nil {
			c.setStage(Finished)
			return NoEvent, err
		}
		if brick == nil {
			return NoEvent, nil
		}
		c.baked = brick
		c.logger.Info("brick baked", "brick", brick.Name, "age", c.fabric.Age(), "joints", len(brick.Joints))
		c.setStage(Finished)
		return BrickBaked, nil
	}
	return NoEvent, nil
}

func (c *Crucible) finish(p physics.Physics, muscle *tenscript.MusclePlan) {
	stats := c.fabric.Stats()
	c.logger.Info("fabric built",
		"plan", c.planName(),
		"age", stats.Age,
		"joints", stats.Joints,
		"pushes", stats.Pushes,
		"pulls", stats.Pulls,
		"height", stats.Height,
	)
	c.prior = nil
	if !c.settings.Interactive {
		c.setStage(Finished)
		return
	}
	if c.settings.Lab != nil {
		p = *c.settings.Lab
	}
	c.lab = NewLab(c.fabric, p, muscle)
	c.setStage(Interactive)
}

func (c *Crucible) fail(err error) (Event, error) {
	c.logger.Error("plan failed", "plan", c.planName(), "stage", c.runner.Stage(), "err", err)
	err = fmt.Errorf("plan %q: %w", c.planName(), err)
	c.runner = nil
	if prior := c.prior; prior != nil {
		c.replaceFabric(prior.fabric)
		c.frozen, c.plan = prior.frozen, prior.plan
		c.pretenser, c.lab, c.oven = prior.pretenser, prior.lab, prior.oven
		c.prior = nil
		c.setStage(prior.stage)
	} else {
		c.Reset()
	}
	return PlanFailed, err
}

func (c *Crucible) beginPretense(plan *tenscript.FabricPlan) {
	c.frozen = c.fabric.Clone()
	c.pretenser = NewPretenser(plan, c.settings)
	c.lab = nil
	c.setStage(Pretensing)
}

// StartPretensing pretenses the current fabric again, optionally with new
// settings.
func (c *Crucible) StartPretensing(phase *tenscript.PretensePhase) error {
	if c.stage != Interactive && c.stage != Finished {
		return ErrBusy
	}
	if c.plan == nil {
		return ErrNoPlan
	}
	plan := *c.plan
	if phase != nil {
		plan.Pretense = phase
	}
	c.plan = &plan
	c.beginPretense(c.plan)
	return nil
}

// ShortenPulls shortens overstrained pulls and lets the fabric pretense
// into its new lengths. It returns the number of pulls changed.
func (c *Crucible) ShortenPulls(threshold, factor float64) (int, error) {
	if c.stage != Interactive && c.stage != Finished {
		return 0, ErrBusy
	}
	if c.plan == nil {
		return 0, ErrNoPlan
	}
	n := c.fabric.ShortenPulls(threshold, factor)
	c.pretenser = NewPretenser(c.plan, c.settings)
	c.pretenser.Resume(c.fabric)
	c.lab = nil
	c.setStage(Pretensing)
	c.logger.Info("pulls shortened", "count", n, "threshold", threshold, "factor", factor)
	return n, nil
}

// RevertToFrozen restores the fabric as it was before its last pretense.
func (c *Crucible) RevertToFrozen() error {
	if c.frozen == nil {
		return ErrNothingToRevert
	}
	if c.stage == AcceptingPlan || c.stage == RunningPlan || c.stage == BakingBrick {
		return ErrBusy
	}
	c.replaceFabric(c.frozen.Clone())
	c.pretenser, c.lab = nil, nil
	c.setStage(Finished)
	return nil
}

// AddBrick grows a single twist on a face of the standing fabric.
func (c *Crucible) AddBrick(face fabric.FaceID, spin fabric.Spin) ([]fabric.NamedFace, error) {
	if c.stage != Interactive {
		return nil, ErrBusy
	}
	faces, err := c.fabric.AttachTwist(spin, false, fabric.DefaultPretenstFactor, 1, face)
	if err != nil {
		return nil, fmt.Errorf("add brick: %w", err)
	}
	c.fabric.Progress().Start(c.settings.GrowCountdown)
	c.setStage(AddingBrick)
	return faces, nil
}

// BakeBrick replaces the fabric with a brick prototype to settle and bake.
func (c *Crucible) BakeBrick(name fabric.BrickName, seed int64) error {
	oven := NewOven(name)
	prototype, err := oven.Prototype(seed)
	if err != nil {
		return err
	}
	c.replaceFabric(prototype)
	c.plan, c.frozen, c.prior, c.baked = nil, nil, nil, nil
	c.runner, c.pretenser, c.lab = nil, nil, nil
	c.oven = oven
	c.setStage(BakingBrick)
	return nil
}

func (c *Crucible) SetGravity(g float64) error {
	if c.lab == nil {
		return ErrBusy
	}
	c.lab.SetGravity(g)
	return nil
}

func (c *Crucible) ToggleMuscles() error {
	if c.lab == nil {
		return ErrBusy
	}
	return c.lab.ToggleMuscles(c.fabric)
}

func (c *Crucible) SetMuscleRotation(rotation float64) error {
	if c.lab == nil {
		return ErrBusy
	}
	c.lab.SetMuscleRotation(c.fabric, rotation)
	return nil
}

func (c *Crucible) replaceFabric(f *fabric.Fabric) {
	c.fabric = f
	c.warned = false
}

func (c *Crucible) setStage(s Stage) {
	if s == c.stage {
		return
	}
	c.logger.Debug("stage", "from", c.stage, "to", s, "plan", c.planName())
	c.stage = s
}

func (c *Crucible) planName() string {
	if c.plan == nil {
		return ""
	}
	return c.plan.Name
}
