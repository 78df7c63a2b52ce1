package viz

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/tensegrity/internal/crucible"
	"github.com/san-kum/tensegrity/internal/tenscript"
)

var (
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	detailStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	idleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	subtitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#666688"))
	hotkeyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
)

const (
	stateMenu = iota
	stateConfig
	stateWatch
)

type setting struct {
	name  string
	value float64
	step  float64
	min   float64
}

// picker lets the user choose a plan from the library, tune a few crucible
// settings and then watch it grow.
type picker struct {
	state, cursor int
	library       *tenscript.Library
	names         []string
	selected      string
	settings      crucible.Settings
	knobs         []setting
	knob          int
	err           error
	live          Model
}

func newPicker(lib *tenscript.Library, settings crucible.Settings) picker {
	return picker{
		state:    stateMenu,
		library:  lib,
		names:    lib.Names(),
		settings: settings,
	}
}

func (p picker) Init() tea.Cmd { return nil }

func (p picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if p.state == stateWatch {
		live, cmd := p.live.Update(msg)
		p.live = live.(Model)
		return p, cmd
	}
	if key, ok := msg.(tea.KeyMsg); ok {
		switch p.state {
		case stateMenu:
			return p.menuKey(key)
		case stateConfig:
			return p.configKey(key)
		}
	}
	return p, nil
}

func (p picker) menuKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return p, tea.Quit
	case "up", "k":
		if p.cursor > 0 {
			p.cursor--
		}
	case "down", "j":
		if p.cursor < len(p.names)-1 {
			p.cursor++
		}
	case "enter", " ":
		if len(p.names) == 0 {
			return p, nil
		}
		p.selected = p.names[p.cursor]
		p.state, p.knob, p.err = stateConfig, 0, nil
		p.knobs = []setting{
			{name: "iterations", value: float64(p.settings.IterationsPerFrame), step: 25, min: 1},
			{name: "grow", value: float64(p.settings.GrowCountdown), step: 250, min: 1},
			{name: "pretense", value: float64(p.settings.PretenseCountdown), step: 2500, min: 1},
		}
	}
	return p, nil
}

func (p picker) configKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return p, tea.Quit
	case "esc":
		p.state = stateMenu
	case "up", "k":
		if p.knob > 0 {
			p.knob--
		}
	case "down", "j":
		if p.knob < len(p.knobs)-1 {
			p.knob++
		}
	case "left", "h":
		k := &p.knobs[p.knob]
		k.value = max(k.min, k.value-k.step)
	case "right", "l":
		k := &p.knobs[p.knob]
		k.value += k.step
	case "enter", "s":
		return p.start()
	}
	return p, nil
}

func (p picker) start() (tea.Model, tea.Cmd) {
	plan, err := p.library.Plan(p.selected)
	if err != nil {
		p.err = err
		return p, nil
	}
	settings := p.settings
	settings.IterationsPerFrame = int(p.knobs[0].value)
	settings.GrowCountdown = int(p.knobs[1].value)
	settings.PretenseCountdown = int(p.knobs[2].value)
	settings.Interactive = true
	if err := settings.Validate(); err != nil {
		p.err = err
		return p, nil
	}

	c := crucible.New(settings, slog.New(slog.NewTextHandler(io.Discard, nil)))
	live, err := NewModel(c, plan)
	if err != nil {
		p.err = err
		return p, nil
	}
	p.live, p.state = live, stateWatch
	return p, p.live.Init()
}

func (p picker) View() string {
	switch p.state {
	case stateConfig:
		return p.viewConfig()
	case stateWatch:
		return p.live.View()
	}
	return p.viewMenu()
}

func hints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(hotkeyStyle.Render(pairs[i]) + idleStyle.Render(" "+pairs[i+1]+"  "))
	}
	return b.String()
}

func (p picker) viewMenu() string {
	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle.Render("TENSEGRITY") + "\n    " + subtitleStyle.Render("fabric plans") + "\n    " + subtitleStyle.Render("─────────────────────────") + "\n\n")
	for i, name := range p.names {
		if i == p.cursor {
			b.WriteString(fmt.Sprintf("    %s %s\n", cursorStyle.Render("▸"), selectedStyle.Render(name)))
		} else {
			b.WriteString(fmt.Sprintf("      %s\n", idleStyle.Render(name)))
		}
	}
	b.WriteString("\n    " + hints("j/k", "navigate", "enter", "select", "q", "quit") + "\n")
	return menuStyle.Render(b.String())
}

func (p picker) viewConfig() string {
	var b strings.Builder
	b.WriteString("\n\n    " + titleStyle.Render(strings.ToUpper(p.selected)) + "\n    " + subtitleStyle.Render("crucible settings") + "\n    " + subtitleStyle.Render("─────────────────────────") + "\n\n")
	for i, k := range p.knobs {
		value := fmt.Sprintf("%8.0f", k.value)
		if i == p.knob {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", cursorStyle.Render("▸"), selectedStyle.Render(fmt.Sprintf("%-12s", k.name)), detailStyle.Render(value)))
		} else {
			b.WriteString(fmt.Sprintf("      %s %s\n", idleStyle.Render(fmt.Sprintf("%-12s", k.name)), idleStyle.Render(value)))
		}
	}
	if p.err != nil {
		b.WriteString("\n    " + lipgloss.NewStyle().Foreground(CurrentTheme.Error).Render(p.err.Error()) + "\n")
	}
	b.WriteString("\n    " + hints("j/k", "select", "h/l", "adjust", "s", "start", "esc", "back") + "\n")
	return menuStyle.Render(b.String())
}

// RunInteractive lets the user pick a plan from lib and watch it.
func RunInteractive(lib *tenscript.Library, settings crucible.Settings) error {
	_, err := tea.NewProgram(newPicker(lib, settings), tea.WithAltScreen()).Run()
	return err
}
