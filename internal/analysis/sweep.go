package analysis

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/tensegrity/internal/crucible"
	"github.com/san-kum/tensegrity/internal/sim"
	"github.com/san-kum/tensegrity/internal/tenscript"
)

// SweepPoint is the outcome of pretensing a plan at one factor.
type SweepPoint struct {
	Factor     float64
	Height     float64
	PeakStrain float64
	Unstable   bool
}

// PretenseSweep builds the plan once per factor, each time pretensing with
// that factor, and records where the fabric came to rest.
func PretenseSweep(ctx context.Context, plan *tenscript.FabricPlan, settings crucible.Settings, factors []float64, cfg sim.Config) ([]SweepPoint, error) {
	runner := sim.New(nil)
	results := make([]SweepPoint, 0, len(factors))
	for _, factor := range factors {
		if factor <= 0 {
			return results, fmt.Errorf("pretense factor must be positive, got %f", factor)
		}
		s := settings
		s.PretenseFactor = factor
		result, err := runner.RunPlan(ctx, plan, s, cfg)
		if err != nil {
			return results, err
		}
		peak := 0.0
		for _, limits := range result.Stats.Strain {
			peak = math.Max(peak, math.Max(math.Abs(limits.Min), math.Abs(limits.Max)))
		}
		results = append(results, SweepPoint{
			Factor:     factor,
			Height:     result.Stats.Height,
			PeakStrain: peak,
			Unstable:   result.Unstable,
		})
	}
	return results, nil
}

// SweepToASCII plots a value of each sweep point against its factor.
// Points where the fabric froze are marked with a cross.
func SweepToASCII(data []SweepPoint, value func(SweepPoint) float64, width, height int) string {
	if len(data) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	values := make([]float64, len(data))
	for i, p := range data {
		values[i] = value(p)
	}
	sv := spanOf(values, 0)

	g := newGrid(width, height)
	for i, p := range data {
		mark := '•'
		if p.Unstable {
			mark = '×'
		}
		g.plot(min(width-1, i*width/len(data)), sv.cell(values[i], height), mark)
	}
	return g.String()
}
