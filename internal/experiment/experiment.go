package experiment

import (
	"context"
	"errors"
	"log/slog"

	"github.com/san-kum/tensegrity/internal/crucible"
	"github.com/san-kum/tensegrity/internal/sim"
	"github.com/san-kum/tensegrity/internal/tenscript"
)

var ErrNotSetup = errors.New("experiment not setup")

type Config struct {
	Plan     string
	Settings crucible.Settings
	Sim      sim.Config
}

// Experiment runs one plan through a crucible under a fixed configuration.
type Experiment struct {
	cfg       Config
	plan      *tenscript.FabricPlan
	simulator *sim.Simulator
	logger    *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Experiment {
	if logger == nil {
		logger = slog.Default()
	}
	return &Experiment{cfg: cfg, logger: logger}
}

func (e *Experiment) Setup(plan *tenscript.FabricPlan, metrics []sim.Metric) error {
	if plan == nil {
		return ErrUnknownPlan
	}
	if err := e.cfg.Settings.Validate(); err != nil {
		return err
	}
	if err := e.cfg.Sim.Validate(); err != nil {
		return err
	}
	e.plan = plan
	e.simulator = sim.New(e.logger.With("plan", plan.Name))
	for _, m := range metrics {
		e.simulator.AddMetric(m)
	}
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, ErrNotSetup
	}
	return e.simulator.RunPlan(ctx, e.plan, e.cfg.Settings, e.cfg.Sim)
}

// Simulator returns the underlying simulator for adding observers.
func (e *Experiment) Simulator() *sim.Simulator {
	return e.simulator
}

// Prepare builds an experiment for a named plan with the default metrics.
func (r *Registry) Prepare(cfg Config, logger *slog.Logger) (*Experiment, error) {
	plan, err := r.GetPlan(cfg.Plan)
	if err != nil {
		return nil, err
	}
	exp := New(cfg, logger)
	if err := exp.Setup(plan, r.DefaultMetrics()); err != nil {
		return nil, err
	}
	return exp, nil
}
