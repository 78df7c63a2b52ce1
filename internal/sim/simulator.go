package sim

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/san-kum/tensegrity/internal/crucible"
	"github.com/san-kum/tensegrity/internal/metrics"
	"github.com/san-kum/tensegrity/internal/tenscript"
)

var ErrNoFabric = errors.New("crucible holds no fabric")

type Simulator struct {
	metrics   []Metric
	observers []Observer
	logger    *slog.Logger
}

func New(logger *slog.Logger) *Simulator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Simulator{
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		logger:    logger,
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// RunPlan builds a crucible for the plan and runs it to rest.
func (s *Simulator) RunPlan(ctx context.Context, plan *tenscript.FabricPlan, settings crucible.Settings, cfg Config) (*Result, error) {
	c := crucible.New(settings, s.logger)
	if err := c.BuildFabric(plan); err != nil {
		return nil, err
	}
	return s.Run(ctx, c, cfg)
}

// Run drives the crucible one frame at a time until it comes to rest,
// the frame limit is reached, or the context is cancelled.
func (s *Simulator) Run(ctx context.Context, c *crucible.Crucible, cfg Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if c.Stage() == crucible.Empty {
		return nil, ErrNoFabric
	}

	start := time.Now()
	result := &Result{
		Plan:    planName(c),
		History: make([]Sample, 0, historyCap(cfg)),
		Metrics: make(map[string]float64),
	}
	for _, m := range s.metrics {
		m.Reset()
	}

	log := s.logger.With("plan", result.Plan)
	log.Debug("run started", "max_frames", cfg.MaxFrames)

	var runErr error
	for frame := 0; frame < cfg.MaxFrames; frame++ {
		select {
		case <-ctx.Done():
			s.finish(c, result, start)
			return result, ctx.Err()
		default:
		}

		event, err := c.Iterate()
		result.Frames++
		if err != nil {
			runErr = &SimError{Plan: result.Plan, Frame: frame, Stage: c.Stage().String(), Err: err}
			break
		}
		switch event {
		case crucible.FabricBuilt:
			result.Built = true
			log.Info("fabric built", "frame", frame, "age", c.Fabric().Age())
		case crucible.BrickBaked:
			log.Info("brick baked", "frame", frame)
		}

		f := c.Fabric()
		for _, m := range s.metrics {
			m.Observe(f, frame)
		}
		for _, obs := range s.observers {
			obs.OnFrame(c, frame)
		}
		if cfg.SampleEvery > 0 && frame%cfg.SampleEvery == 0 {
			result.History = append(result.History, sample(c, frame))
		}

		if cfg.StopAtRest && !c.Busy() {
			break
		}
	}

	s.finish(c, result, start)
	if runErr != nil {
		log.Warn("run failed", "err", runErr)
		return result, runErr
	}
	log.Debug("run finished", "frames", result.Frames, "stage", result.Stage)
	return result, nil
}

// RunWithCallback iterates the crucible and hands it to the callback after
// every frame. The run ends when the callback returns false.
func (s *Simulator) RunWithCallback(ctx context.Context, c *crucible.Crucible, cfg Config, callback func(*crucible.Crucible, crucible.Event, int) bool) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	name := planName(c)
	for frame := 0; frame < cfg.MaxFrames; frame++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		event, err := c.Iterate()
		if err != nil {
			return &SimError{Plan: name, Frame: frame, Stage: c.Stage().String(), Err: err}
		}
		if !callback(c, event, frame) {
			return nil
		}
		if cfg.StopAtRest && !c.Busy() {
			return nil
		}
	}

	return nil
}

func (s *Simulator) finish(c *crucible.Crucible, result *Result, start time.Time) {
	f := c.Fabric()
	result.Stage = c.Stage().String()
	result.Unstable = c.Unstable()
	result.Stats = f.Stats()
	result.Snapshot = f.Snapshot()
	result.Elapsed = time.Since(start)
	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
}

func sample(c *crucible.Crucible, frame int) Sample {
	f := c.Fabric()
	return Sample{
		Frame:     frame,
		Age:       f.Age(),
		Stage:     c.Stage().String(),
		Speed:     math.Sqrt(f.MaxSpeedSquared()),
		Energy:    metrics.Kinetic(f),
		Height:    f.Stats().Height,
		Joints:    f.JointCount(),
		Intervals: f.IntervalCount(),
	}
}

func planName(c *crucible.Crucible) string {
	if p := c.Plan(); p != nil && p.Name != "" {
		return p.Name
	}
	return "unnamed"
}

func historyCap(cfg Config) int {
	if cfg.SampleEvery <= 0 {
		return 0
	}
	return cfg.MaxFrames/cfg.SampleEvery + 1
}
