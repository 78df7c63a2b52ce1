package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/san-kum/tensegrity/internal/crucible"
)

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(46)
	headerStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
	menuStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#444466")).Padding(1, 2)
	keyHint     = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688")).Italic(true)
)

func sparkStyle(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

// StageStyle colors a crucible stage by whether it is busy, interactive or
// at rest.
func StageStyle(stage crucible.Stage) lipgloss.Style {
	style := lipgloss.NewStyle().Bold(true)
	switch stage {
	case crucible.Interactive:
		return style.Foreground(CurrentTheme.Success)
	case crucible.Finished:
		return style.Foreground(CurrentTheme.Accent)
	case crucible.Empty:
		return style.Foreground(CurrentTheme.Muted)
	}
	return style.Foreground(CurrentTheme.Warning)
}

// GradientText blends each rune from startColor to endColor.
func GradientText(text string, startColor, endColor lipgloss.Color) string {
	runes := []rune(text)
	var result strings.Builder
	for i, c := range runes {
		t := 0.0
		if len(runes) > 1 {
			t = float64(i) / float64(len(runes)-1)
		}
		result.WriteString(lipgloss.NewStyle().Foreground(blend(startColor, endColor, t)).Render(string(c)))
	}
	return result.String()
}

// blend mixes two hex colors in Lab space. Colors that are not hex, such
// as ANSI palette indexes, blend as white.
func blend(a, b lipgloss.Color, t float64) lipgloss.Color {
	ca, err := colorful.Hex(string(a))
	if err != nil {
		ca = colorful.Color{R: 1, G: 1, B: 1}
	}
	cb, err := colorful.Hex(string(b))
	if err != nil {
		cb = colorful.Color{R: 1, G: 1, B: 1}
	}
	return lipgloss.Color(ca.BlendLab(cb, t).Clamped().Hex())
}

// AnimatedSpinner returns the spinner glyph for a frame.
func AnimatedSpinner(frame int) string {
	spinners := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	return spinners[frame%len(spinners)]
}

// ProgressBar fills width cells in proportion to fraction.
func ProgressBar(fraction float64, width int) string {
	filled := int(fraction * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	return lipgloss.NewStyle().Foreground(CurrentTheme.Accent).Render(bar)
}

// SparklineChart squeezes values into width cells on a log scale, since
// joint speeds fall by orders of magnitude as a fabric settles. Cells are
// tinted from calm to fast.
func SparklineChart(values []float64, width int) string {
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	const floor = 1e-12

	logs := make([]float64, len(values))
	lo, hi := math.Inf(1), math.Inf(-1)
	for i, v := range values {
		logs[i] = math.Log10(math.Max(math.Abs(v), floor))
		lo = math.Min(lo, logs[i])
		hi = math.Max(hi, logs[i])
	}
	span := hi - lo
	if span == 0 {
		span = 1
	}

	step := max(1, len(values)/width)
	var result strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		norm := (logs[i*step] - lo) / span
		idx := min(len(chars)-1, max(0, int(norm*float64(len(chars)-1))))
		color := CurrentTheme.Success
		switch {
		case norm > 0.7:
			color = CurrentTheme.Error
		case norm > 0.3:
			color = CurrentTheme.Warning
		}
		result.WriteString(sparkStyle(color).Render(string(chars[idx])))
	}
	return result.String()
}
