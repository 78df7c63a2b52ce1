package viz

import "github.com/charmbracelet/harmonica"

// gauges ease displayed readings toward their latest values so numbers
// that jump every frame stay readable.
type gauges struct {
	spring harmonica.Spring
	pos    []float64
	vel    []float64
	primed []bool
}

func newGauges(fps, n int, frequency, damping float64) *gauges {
	return &gauges{
		spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping),
		pos:    make([]float64, n),
		vel:    make([]float64, n),
		primed: make([]bool, n),
	}
}

// step moves gauge i one frame toward target. The first reading is taken
// as is.
func (g *gauges) step(i int, target float64) float64 {
	if !g.primed[i] {
		g.primed[i] = true
		g.pos[i] = target
		return target
	}
	p, v := g.spring.Update(g.pos[i], g.vel[i], target)
	g.pos[i] = p
	g.vel[i] = v
	return p
}

func (g *gauges) value(i int) float64 { return g.pos[i] }

func (g *gauges) reset() {
	for i := range g.pos {
		g.pos[i], g.vel[i], g.primed[i] = 0, 0, false
	}
}
