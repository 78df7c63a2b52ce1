package analysis

import "github.com/san-kum/tensegrity/internal/sim"

// SettleFrame returns the frame of the first sample after which every
// sample moved no faster than threshold. It reports false when the last
// sample is still above the threshold.
func SettleFrame(history []sim.Sample, threshold float64) (int, bool) {
	if len(history) == 0 {
		return 0, false
	}
	settled := -1
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Speed > threshold {
			break
		}
		settled = i
	}
	if settled < 0 {
		return 0, false
	}
	return history[settled].Frame, true
}

// Column pulls one quantity out of a run history.
type Column func(sim.Sample) float64

var Columns = map[string]Column{
	"speed":     func(s sim.Sample) float64 { return s.Speed },
	"energy":    func(s sim.Sample) float64 { return s.Energy },
	"height":    func(s sim.Sample) float64 { return s.Height },
	"joints":    func(s sim.Sample) float64 { return float64(s.Joints) },
	"intervals": func(s sim.Sample) float64 { return float64(s.Intervals) },
	"age":       func(s sim.Sample) float64 { return float64(s.Age) },
}

// Series extracts a column from the history.
func Series(history []sim.Sample, col Column) []float64 {
	values := make([]float64, len(history))
	for i, s := range history {
		values[i] = col(s)
	}
	return values
}
