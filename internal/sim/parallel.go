package sim

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/san-kum/tensegrity/internal/crucible"
	"github.com/san-kum/tensegrity/internal/tenscript"
)

// Ensemble runs many plans side by side. Each run owns its crucible and a
// fresh set of metrics, so nothing is shared between goroutines.
type Ensemble struct {
	settings crucible.Settings
	metrics  func() []Metric
	limit    int
	logger   *slog.Logger
}

func NewEnsemble(settings crucible.Settings, metrics func() []Metric, limit int, logger *slog.Logger) *Ensemble {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ensemble{settings: settings, metrics: metrics, limit: limit, logger: logger}
}

// Run returns one result per plan, in plan order. The first failure
// cancels the runs still in flight.
func (e *Ensemble) Run(ctx context.Context, plans []*tenscript.FabricPlan, cfg Config) ([]*Result, error) {
	results := make([]*Result, len(plans))

	g, ctx := errgroup.WithContext(ctx)
	if e.limit > 0 {
		g.SetLimit(e.limit)
	}
	for i, plan := range plans {
		i, plan := i, plan
		g.Go(func() error {
			s := New(e.logger.With("run", i))
			if e.metrics != nil {
				for _, m := range e.metrics() {
					s.AddMetric(m)
				}
			}
			result, err := s.RunPlan(ctx, plan, e.settings, cfg)
			results[i] = result
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}
