package automation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/tensegrity/internal/analysis"
	"github.com/san-kum/tensegrity/internal/crucible"
	"github.com/san-kum/tensegrity/internal/experiment"
	"github.com/san-kum/tensegrity/internal/sim"
)

var ErrEmptyScenario = errors.New("scenario has no steps")

// Scenario defines a scripted sequence of fabric runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep runs one plan. Zero fields keep the base settings.
type ScenarioStep struct {
	Plan           string   `yaml:"plan"`
	Frames         int      `yaml:"frames"`
	SampleEvery    int      `yaml:"sample_every"`
	Preset         string   `yaml:"preset"`
	Gravity        *float64 `yaml:"gravity,omitempty"`
	PretenseFactor float64  `yaml:"pretense_factor"`
	SaveAs         string   `yaml:"save_as"`
}

// StepResult pairs a step with its run.
type StepResult struct {
	Step   ScenarioStep
	Result *sim.Result
}

// Runner carries what every scenario step shares.
type Runner struct {
	Registry *experiment.Registry
	Settings crucible.Settings
	Sim      sim.Config
	Logger   *slog.Logger

	// Save is called for steps with a SaveAs name.
	Save func(name string, result *sim.Result) error
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, ErrEmptyScenario
	}
	for i, step := range scenario.Steps {
		if step.Plan == "" {
			return nil, fmt.Errorf("step %d: no plan", i+1)
		}
	}
	return &scenario, nil
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

func (r *Runner) stepConfig(step ScenarioStep) (experiment.Config, error) {
	cfg := experiment.Config{Plan: step.Plan, Settings: r.Settings, Sim: r.Sim}
	if step.Frames > 0 {
		cfg.Sim.MaxFrames = step.Frames
	}
	if step.SampleEvery > 0 {
		cfg.Sim.SampleEvery = step.SampleEvery
	}
	if step.PretenseFactor > 0 {
		cfg.Settings.PretenseFactor = step.PretenseFactor
	}
	if step.Preset != "" {
		lab, err := r.Registry.GetPreset(step.Preset)
		if err != nil {
			return cfg, err
		}
		cfg.Settings.Lab = lab
	}
	if step.Gravity != nil {
		if cfg.Settings.Lab == nil {
			return cfg, fmt.Errorf("gravity override needs a preset")
		}
		cfg.Settings.Lab.Gravity = *step.Gravity
	}
	return cfg, nil
}

// RunScenario executes the steps in order and stops at the first failure.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) ([]StepResult, error) {
	log := r.logger().With("scenario", scenario.Name)
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		log.Info("running step", "step", i+1, "of", len(scenario.Steps), "plan", step.Plan)

		cfg, err := r.stepConfig(step)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		exp, err := r.Registry.Prepare(cfg, log)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}
		if step.SaveAs != "" && r.Save != nil {
			if err := r.Save(step.SaveAs, result); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, StepResult{Step: step, Result: result})
	}

	return results, nil
}

// PretenseSweep runs a plan across evenly spaced pretense factors.
type PretenseSweep struct {
	Plan      string
	FactorMin float64
	FactorMax float64
	NumSteps  int
}

func (s PretenseSweep) Factors() []float64 {
	if s.NumSteps <= 1 {
		return []float64{s.FactorMin}
	}
	step := (s.FactorMax - s.FactorMin) / float64(s.NumSteps-1)
	factors := make([]float64, s.NumSteps)
	for i := range factors {
		factors[i] = s.FactorMin + float64(i)*step
	}
	return factors
}

func (r *Runner) RunSweep(ctx context.Context, sweep PretenseSweep) ([]analysis.SweepPoint, error) {
	plan, err := r.Registry.GetPlan(sweep.Plan)
	if err != nil {
		return nil, err
	}
	if sweep.FactorMax < sweep.FactorMin {
		return nil, fmt.Errorf("sweep: max factor %g below min %g", sweep.FactorMax, sweep.FactorMin)
	}
	points, err := analysis.PretenseSweep(ctx, plan, r.Settings, sweep.Factors(), r.Sim)
	if err != nil {
		return points, err
	}
	for i, p := range points {
		r.logger().Debug("sweep", "point", i+1, "of", len(points), "factor", p.Factor, "height", p.Height)
	}
	return points, nil
}

// MonteCarloConfig jitters the pretense factor of a plan across trials.
type MonteCarloConfig struct {
	Plan         string
	BaseFactor   float64
	Perturbation float64
	NumTrials    int
	Seed         int64
}

type MonteCarloResult struct {
	TrialID int
	Factor  float64
	Height  float64
	Stable  bool
	Elapsed time.Duration
	Metrics map[string]float64
}

// RunMonteCarlo builds the plan once per trial with a factor drawn
// uniformly from BaseFactor plus or minus Perturbation of itself.
func (r *Runner) RunMonteCarlo(ctx context.Context, cfg MonteCarloConfig) ([]MonteCarloResult, error) {
	if cfg.BaseFactor <= 0 {
		return nil, fmt.Errorf("monte carlo: base factor must be positive, got %g", cfg.BaseFactor)
	}
	if cfg.Perturbation < 0 || cfg.Perturbation >= 1 {
		return nil, fmt.Errorf("monte carlo: perturbation must be in [0, 1), got %g", cfg.Perturbation)
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	log := r.logger().With("plan", cfg.Plan)

	results := make([]MonteCarloResult, 0, cfg.NumTrials)
	for trial := 0; trial < cfg.NumTrials; trial++ {
		factor := cfg.BaseFactor * (1 + (rng.Float64()-0.5)*2*cfg.Perturbation)

		settings := r.Settings
		settings.PretenseFactor = factor
		exp, err := r.Registry.Prepare(experiment.Config{Plan: cfg.Plan, Settings: settings, Sim: r.Sim}, log)
		if err != nil {
			return results, err
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("trial %d: %w", trial, err)
		}

		results = append(results, MonteCarloResult{
			TrialID: trial,
			Factor:  factor,
			Height:  result.Stats.Height,
			Stable:  result.Built && !result.Unstable,
			Elapsed: result.Elapsed,
			Metrics: result.Metrics,
		})

		if (trial+1)%10 == 0 {
			log.Info("monte carlo", "done", trial+1, "of", cfg.NumTrials)
		}
	}

	return results, nil
}

func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
