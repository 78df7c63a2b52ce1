package experiment

import (
	"errors"
	"fmt"

	"github.com/san-kum/tensegrity/internal/config"
	"github.com/san-kum/tensegrity/internal/metrics"
	"github.com/san-kum/tensegrity/internal/physics"
	"github.com/san-kum/tensegrity/internal/sim"
	"github.com/san-kum/tensegrity/internal/tenscript"
)

var (
	ErrUnknownPlan   = errors.New("unknown plan")
	ErrUnknownPreset = errors.New("unknown physics preset")
)

// Registry resolves plan and preset names for experiments.
type Registry struct {
	plans *tenscript.Library
}

// NewRegistry serves the built-in plans plus any found in planDir.
func NewRegistry(planDir string) (*Registry, error) {
	lib, err := tenscript.Bootstrap()
	if err != nil {
		return nil, err
	}
	if planDir != "" {
		if _, err := lib.LoadDir(planDir); err != nil {
			return nil, fmt.Errorf("plan dir %s: %w", planDir, err)
		}
	}
	return &Registry{plans: lib}, nil
}

func NewRegistryFrom(lib *tenscript.Library) *Registry {
	return &Registry{plans: lib}
}

func (r *Registry) Library() *tenscript.Library { return r.plans }

func (r *Registry) GetPlan(name string) (*tenscript.FabricPlan, error) {
	plan, err := r.plans.Plan(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPlan, name)
	}
	return plan, nil
}

func (r *Registry) GetPreset(name string) (*physics.Physics, error) {
	p := config.GetPreset(name)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPreset, name)
	}
	return p, nil
}

func (r *Registry) ListPlans() []string { return r.plans.Names() }

func (r *Registry) ListPresets() []string { return config.ListPresets() }

func (r *Registry) DefaultMetrics() []sim.Metric {
	return []sim.Metric{
		metrics.NewKineticEnergy(),
		metrics.NewStability(1e-3),
		metrics.NewPeakStrain(),
		metrics.NewPeakSpeed(),
		metrics.NewHeight(),
	}
}
