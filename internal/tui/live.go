package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/san-kum/tensegrity/internal/crucible"
	"github.com/san-kum/tensegrity/internal/fabric"
	"github.com/san-kum/tensegrity/internal/viz"
)

const (
	width       = 70
	height      = 24
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
	spinPerDraw = 0.02
)

var roleRunes = map[string]rune{
	fabric.Push.String():   '#',
	fabric.Pull.String():   '.',
	fabric.Spring.String(): '~',
}

// LiveRenderer draws the crucible's fabric as plain text after each frame.
// It is a sim.Observer for runs without a full-screen terminal program.
type LiveRenderer struct {
	out       io.Writer
	frameRate int
	lastFrame time.Time
	canvas    [][]rune
	camera    *viz.Camera
	framed    bool
}

// NewLiveRenderer draws at most frameRate times a second. A frameRate of
// zero draws every frame.
func NewLiveRenderer(out io.Writer, frameRate int) *LiveRenderer {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
	}
	return &LiveRenderer{
		out:       out,
		frameRate: frameRate,
		canvas:    canvas,
		camera:    viz.NewCamera(),
	}
}

func (r *LiveRenderer) OnFrame(c *crucible.Crucible, frame int) {
	if r.frameRate > 0 {
		if time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
			return
		}
		r.lastFrame = time.Now()
	}

	snap := c.Fabric().Snapshot()
	if c.Busy() || !r.framed {
		r.camera.Frame(snap)
		r.framed = true
	}
	r.camera.Orbit(spinPerDraw, 0)

	r.clear()
	r.draw(snap)
	r.render(c, frame)
}

func (r *LiveRenderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
		}
	}
}

func (r *LiveRenderer) set(x, y int, c rune) {
	if x >= 0 && x < width && y >= 0 && y < height {
		r.canvas[y][x] = c
	}
}

func (r *LiveRenderer) line(x1, y1, x2, y2 int, c rune) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx, sy := 1, 1
	if x1 > x2 {
		sx = -1
	}
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy
	for {
		r.set(x1, y1, c)
		if x1 == x2 && y1 == y2 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x1 += sx
		}
		if e2 < dx {
			err += dx
			y1 += sy
		}
	}
}

// Character cells are about twice as tall as wide, so projection runs on
// a doubled vertical grid.
func (r *LiveRenderer) draw(snap *fabric.Snapshot) {
	for _, s := range viz.ProjectSnapshot(snap, r.camera, width, height*2) {
		ch, ok := roleRunes[s.Role]
		if !ok {
			ch = '+'
		}
		r.line(s.X1, s.Y1/2, s.X2, s.Y2/2, ch)
	}
}

func (r *LiveRenderer) render(c *crucible.Crucible, frame int) {
	f := c.Fabric()
	stats := f.Stats()

	var b strings.Builder
	b.WriteString(clearScreen)
	fmt.Fprintf(&b, "  %s  frame %s  %s\n", planLabel(c), humanize.Comma(int64(frame)), c.Stage())
	b.WriteString("  " + strings.Repeat("-", width) + "\n")

	for _, row := range r.canvas {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	b.WriteString("  " + strings.Repeat("-", width) + "\n")
	fmt.Fprintf(&b, "  age=%s joints=%d pushes=%d pulls=%d height=%.3f\n",
		humanize.Comma(int64(stats.Age)), stats.Joints, stats.Pushes, stats.Pulls, stats.Height)

	io.WriteString(r.out, b.String())
}

func planLabel(c *crucible.Crucible) string {
	if p := c.Plan(); p != nil && p.Name != "" {
		return p.Name
	}
	return "fabric"
}

func (r *LiveRenderer) Start() { io.WriteString(r.out, hideCursor) }
func (r *LiveRenderer) Stop()  { io.WriteString(r.out, showCursor) }

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
