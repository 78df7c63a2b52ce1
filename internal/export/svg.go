// Package export renders fabrics and run histories as SVG.
package export

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/san-kum/tensegrity/internal/fabric"
	"github.com/san-kum/tensegrity/internal/viz"
)

const svgHeader = `<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`

// Options control a wireframe export.
type Options struct {
	Width, Height int
	Camera        *viz.Camera
	Theme         viz.Theme
	// StrainShading fades pulls by how little they are strained.
	StrainShading bool
}

func DefaultOptions() Options {
	return Options{Width: 800, Height: 800, Theme: viz.CurrentTheme, StrainShading: true}
}

// WriteWireframe draws the snapshot as lines, pushes thicker than pulls,
// far intervals first.
func WriteWireframe(w io.Writer, snap *fabric.Snapshot, opts Options) error {
	if opts.Width <= 0 || opts.Height <= 0 {
		return fmt.Errorf("invalid size %dx%d", opts.Width, opts.Height)
	}
	cam := opts.Camera
	if cam == nil {
		cam = viz.NewCamera()
		cam.Frame(snap)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, opts.Width, opts.Height, opts.Width, opts.Height, opts.Theme.Background)

	segments := viz.ProjectSnapshot(snap, cam, opts.Width, opts.Height)
	peak := 0.0
	for _, s := range segments {
		peak = math.Max(peak, math.Abs(s.Strain))
	}

	sb.WriteString(`<g stroke-linecap="round">` + "\n")
	for _, s := range segments {
		stroke := 1.5
		if s.Role == fabric.Push.String() {
			stroke = 5
		}
		color, opacity := opts.Theme.RoleColor(s.Role), 1.0
		if opts.StrainShading && s.Role != fabric.Push.String() && peak > 0 {
			color = opts.Theme.StrainColor(s.Role, s.Strain, peak)
			opacity = 0.3 + 0.7*math.Abs(s.Strain)/peak
		}
		fmt.Fprintf(&sb, `<line x1="%d" y1="%d" x2="%d" y2="%d" stroke="%s" stroke-width="%.1f" stroke-opacity="%.2f"/>`+"\n",
			s.X1, s.Y1, s.X2, s.Y2, color, stroke, opacity)
	}
	sb.WriteString("</g>\n</svg>\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

// CanvasToSVG converts a braille canvas to SVG, one circle per lit dot.
func CanvasToSVG(canvas *viz.Canvas, scale float64, theme viz.Theme) string {
	if canvas == nil {
		return ""
	}

	dotsX, dotsY := canvas.Dots()
	width := int(float64(dotsX) * scale)
	height := int(float64(dotsY) * scale)

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, width, height, width, height, theme.Background)
	fmt.Fprintf(&sb, "<g fill=\"%s\">\n", theme.Push)

	dotRadius := scale * 0.4
	for y := 0; y < dotsY; y++ {
		for x := 0; x < dotsX; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			fmt.Fprintf(&sb, "<circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", cx, cy, dotRadius)
		}
	}

	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SeriesToSVG plots values against their index as a single path.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	rangeY := hi - lo
	if rangeY == 0 {
		rangeY = 1
	}
	lo -= rangeY * 0.1
	rangeY *= 1.2
	stepX := float64(width) / float64(len(values)-1)

	var sb strings.Builder
	fmt.Fprintf(&sb, svgHeader, width, height, width, height, "#0a0a0a")
	fmt.Fprintf(&sb, `<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor)
	for i, v := range values {
		x := float64(i) * stepX
		y := float64(height) - (v-lo)/rangeY*float64(height)
		if i == 0 {
			fmt.Fprintf(&sb, "%.1f,%.1f", x, y)
		} else {
			fmt.Fprintf(&sb, " L%.1f,%.1f", x, y)
		}
	}
	sb.WriteString(`"/>` + "\n</svg>")
	return sb.String()
}
