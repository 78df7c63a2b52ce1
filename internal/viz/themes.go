package viz

import (
	"math"

	"github.com/charmbracelet/lipgloss"
)

// Theme colors the fabric and the panels around it.
type Theme struct {
	Name string

	// Interval roles
	Push   lipgloss.Color
	Pull   lipgloss.Color
	Spring lipgloss.Color

	// Panels and status
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	// Background is used by exported images.
	Background lipgloss.Color
}

var (
	// ThemeStudio follows the usual tensegrity drawing: blue struts, red cables.
	ThemeStudio = Theme{
		Name:       "studio",
		Push:       lipgloss.Color("#4f8fe8"),
		Pull:       lipgloss.Color("#e8574f"),
		Spring:     lipgloss.Color("#9aa39c"),
		Accent:     lipgloss.Color("#f2c14e"),
		Text:       lipgloss.Color("#eeeeee"),
		Muted:      lipgloss.Color("#6b6b78"),
		Success:    lipgloss.Color("#5fcf80"),
		Warning:    lipgloss.Color("#f2a541"),
		Error:      lipgloss.Color("#f25f5c"),
		Background: lipgloss.Color("#16161d"),
	}

	ThemeBlueprint = Theme{
		Name:       "blueprint",
		Push:       lipgloss.Color("#ffffff"),
		Pull:       lipgloss.Color("#a9cdf5"),
		Spring:     lipgloss.Color("#5b87c2"),
		Accent:     lipgloss.Color("#ffe9a8"),
		Text:       lipgloss.Color("#e6f0ff"),
		Muted:      lipgloss.Color("#5b87c2"),
		Success:    lipgloss.Color("#9fe6c4"),
		Warning:    lipgloss.Color("#ffe9a8"),
		Error:      lipgloss.Color("#ff9c8a"),
		Background: lipgloss.Color("#0d2b52"),
	}

	ThemeChalk = Theme{
		Name:       "chalk",
		Push:       lipgloss.Color("#f4f4f0"),
		Pull:       lipgloss.Color("#8c8c86"),
		Spring:     lipgloss.Color("#55554f"),
		Accent:     lipgloss.Color("#d9d9d2"),
		Text:       lipgloss.Color("#f4f4f0"),
		Muted:      lipgloss.Color("#707069"),
		Success:    lipgloss.Color("#b6d7a8"),
		Warning:    lipgloss.Color("#e5cf8c"),
		Error:      lipgloss.Color("#e09a9a"),
		Background: lipgloss.Color("#262624"),
	}

	ThemeEmber = Theme{
		Name:       "ember",
		Push:       lipgloss.Color("#ffb347"),
		Pull:       lipgloss.Color("#b5523b"),
		Spring:     lipgloss.Color("#6e3b2f"),
		Accent:     lipgloss.Color("#ffd28a"),
		Text:       lipgloss.Color("#fff1e0"),
		Muted:      lipgloss.Color("#8a6553"),
		Success:    lipgloss.Color("#c6d46e"),
		Warning:    lipgloss.Color("#ffb347"),
		Error:      lipgloss.Color("#ff5e3a"),
		Background: lipgloss.Color("#1c0f0a"),
	}

	ThemeReef = Theme{
		Name:       "reef",
		Push:       lipgloss.Color("#ff8a65"),
		Pull:       lipgloss.Color("#4dd0e1"),
		Spring:     lipgloss.Color("#26796f"),
		Accent:     lipgloss.Color("#ffe082"),
		Text:       lipgloss.Color("#e0f7fa"),
		Muted:      lipgloss.Color("#4f8a8b"),
		Success:    lipgloss.Color("#80cbc4"),
		Warning:    lipgloss.Color("#ffcc80"),
		Error:      lipgloss.Color("#ef5350"),
		Background: lipgloss.Color("#062a30"),
	}

	CurrentTheme = ThemeStudio

	Themes = []Theme{ThemeStudio, ThemeBlueprint, ThemeChalk, ThemeEmber, ThemeReef}
)

// RoleColor picks the theme color for an interval role name.
func (t Theme) RoleColor(role string) lipgloss.Color {
	switch role {
	case "push":
		return t.Push
	case "spring":
		return t.Spring
	}
	return t.Pull
}

// StrainColor shades a role color toward Error as the strain magnitude
// approaches limit.
func (t Theme) StrainColor(role string, strain, limit float64) lipgloss.Color {
	if limit <= 0 {
		return t.RoleColor(role)
	}
	return blend(t.RoleColor(role), t.Error, math.Min(1, math.Abs(strain)/limit))
}

// GetTheme returns a theme by name, falling back to studio.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeStudio
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
	CurrentTheme = ThemeStudio
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
