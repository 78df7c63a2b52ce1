package analysis

import "github.com/san-kum/tensegrity/internal/sim"

type Point struct{ X, Y float64 }

// PhasePortrait pairs two history columns frame by frame.
type PhasePortrait struct {
	XLabel, YLabel string
	Points         []Point
}

func NewPhasePortrait(history []sim.Sample, xLabel, yLabel string) (*PhasePortrait, error) {
	x, ok := Columns[xLabel]
	if !ok {
		return nil, &UnknownColumnError{Name: xLabel}
	}
	y, ok := Columns[yLabel]
	if !ok {
		return nil, &UnknownColumnError{Name: yLabel}
	}
	portrait := &PhasePortrait{
		XLabel: xLabel,
		YLabel: yLabel,
		Points: make([]Point, 0, len(history)),
	}
	for _, s := range history {
		portrait.Points = append(portrait.Points, Point{X: x(s), Y: y(s)})
	}
	return portrait, nil
}

type UnknownColumnError struct {
	Name string
}

func (e *UnknownColumnError) Error() string { return "unknown history column: " + e.Name }

// ASCII plots the portrait on a width by height grid of runes, with axes
// drawn where zero is in view.
func (pp *PhasePortrait) ASCII(width, height int) string {
	if pp == nil || len(pp.Points) == 0 || width <= 0 || height <= 0 {
		return ""
	}

	xs := make([]float64, len(pp.Points))
	ys := make([]float64, len(pp.Points))
	for i, p := range pp.Points {
		xs[i], ys[i] = p.X, p.Y
	}
	sx, sy := spanOf(xs, 0.1), spanOf(ys, 0.1)

	g := newGrid(width, height)
	for _, p := range pp.Points {
		g.plot(sx.cell(p.X, width), sy.cell(p.Y, height), '•')
	}
	if sx.contains(0) {
		col := sx.cell(0, width)
		for row := 0; row < height; row++ {
			g.fill(col, row, '│')
		}
	}
	if sy.contains(0) {
		row := sy.cell(0, height)
		for col := 0; col < width; col++ {
			g.fill(col, row, '─')
		}
	}
	return g.String()
}
