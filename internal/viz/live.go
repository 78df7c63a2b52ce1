package viz

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/tensegrity/internal/crucible"
	"github.com/san-kum/tensegrity/internal/metrics"
	"github.com/san-kum/tensegrity/internal/physics"
	"github.com/san-kum/tensegrity/internal/tenscript"
)

const (
	width           = 60
	height          = 22
	fps             = 30
	historyCapacity = 300
	reframeEvery    = 45
)

const (
	gaugeSpeed = iota
	gaugeHeight
	gaugeEnergy
	gaugeCount
)

type TickMsg time.Time

// Model watches a crucible frame by frame and lets the user poke at the
// fabric once it is built.
type Model struct {
	crucible     *crucible.Crucible
	plan         *tenscript.FabricPlan
	canvas       *Canvas
	camera       *Camera
	gauges       *gauges
	running      bool
	pushesOnly   bool
	spin         bool
	frame        int
	speedHistory []float64
	status       string
	failed       bool
	showHelp     bool
}

// NewModel starts building plan in c and returns a model watching it.
func NewModel(c *crucible.Crucible, plan *tenscript.FabricPlan) (Model, error) {
	if err := c.BuildFabric(plan); err != nil {
		return Model{}, err
	}
	return Model{
		crucible:     c,
		plan:         plan,
		canvas:       NewCanvas(width, height),
		camera:       NewCamera(),
		gauges:       newGauges(fps, gaugeCount, 6.0, 1.0),
		running:      true,
		speedHistory: make([]float64, 0, historyCapacity),
		status:       "building " + plan.Name,
	}, nil
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/fps, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd { return tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case TickMsg:
		if m.running {
			m.step()
		}
		if m.spin {
			m.camera.Orbit(0.02, 0)
		}
		return m, tick()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.crucible
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case " ":
		m.running = !m.running
	case "?":
		m.showHelp = !m.showHelp
	case "t":
		NextTheme()
	case "left", "h":
		m.camera.Orbit(-0.1, 0)
	case "right", "l":
		m.camera.Orbit(0.1, 0)
	case "up", "k":
		m.camera.Orbit(0, -0.1)
	case "down", "j":
		m.camera.Orbit(0, 0.1)
	case "+", "=":
		m.camera.ZoomIn()
	case "-", "_":
		m.camera.ZoomOut()
	case "f":
		m.camera.Frame(c.Fabric().Snapshot())
	case "a":
		m.spin = !m.spin
	case "o":
		m.pushesOnly = !m.pushesOnly
	case "]":
		m.report("speed", c.SetSpeed(c.IterationsPerFrame()*2))
	case "[":
		m.report("speed", c.SetSpeed(max(1, c.IterationsPerFrame()/2)))
	case "b":
		m.report("rebuild", c.BuildFabric(m.plan))
		m.reset()
	case "p":
		m.report("pretense", c.StartPretensing(nil))
	case "r":
		m.report("revert", c.RevertToFrozen())
	case "m":
		m.report("muscles", c.ToggleMuscles())
	case "g":
		gravity := physics.AirGravity.Gravity
		if c.Physics().Gravity != 0 {
			gravity = 0
		}
		m.report("gravity", c.SetGravity(gravity))
	case "s":
		threshold := c.Fabric().Stats().Strain["pull"].Max / 2
		n, err := c.ShortenPulls(threshold, 0.98)
		if m.report("shorten", err) {
			m.status = fmt.Sprintf("shortened %d pulls", n)
		}
	}
	return m, nil
}

// report records the outcome of a user action and says whether it worked.
func (m *Model) report(action string, err error) bool {
	if err != nil {
		m.status = action + ": " + err.Error()
		m.failed = true
		return false
	}
	m.status = action
	m.failed = false
	return true
}

func (m *Model) reset() {
	m.frame = 0
	m.speedHistory = m.speedHistory[:0]
	m.gauges.reset()
}

func (m *Model) step() {
	c := m.crucible
	event, err := c.Iterate()
	m.frame++
	switch {
	case err != nil:
		m.report("plan", err)
	case event == crucible.FabricBuilt:
		m.status = "built " + m.plan.Name
		m.camera.Frame(c.Fabric().Snapshot())
	case event == crucible.BrickBaked:
		m.status = "brick baked"
	}
	if c.Busy() && m.frame%reframeEvery == 1 {
		m.camera.Frame(c.Fabric().Snapshot())
	}

	f := c.Fabric()
	speed := math.Sqrt(f.MaxSpeedSquared())
	if len(m.speedHistory) >= historyCapacity {
		m.speedHistory = m.speedHistory[1:]
	}
	m.speedHistory = append(m.speedHistory, speed)
	m.gauges.step(gaugeSpeed, speed)
	m.gauges.step(gaugeHeight, f.Stats().Height)
	m.gauges.step(gaugeEnergy, metrics.Kinetic(f))
}

func (m Model) View() string {
	c := m.crucible
	f := c.Fabric()
	m.canvas.Clear()
	RenderSnapshot(m.canvas, f.Snapshot(), m.camera, m.pushesOnly)
	canvasView := canvasStyle.Render(lipgloss.NewStyle().Foreground(CurrentTheme.Push).Render(m.canvas.String()))

	var s strings.Builder
	title := strings.ToUpper(m.plan.Name)
	s.WriteString(headerStyle.Render(GradientText(title, CurrentTheme.Push, CurrentTheme.Pull)) + "\n")

	stage := StageStyle(c.Stage()).Render(c.Detail())
	if c.Busy() && m.running {
		stage = AnimatedSpinner(m.frame) + " " + stage
	}
	if !m.running {
		stage += " (paused)"
	}
	s.WriteString(stage + "\n\n")

	stats := f.Stats()
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Age", humanize.Comma(int64(stats.Age)))
	row("Joints", humanize.Comma(int64(stats.Joints)))
	row("Intervals", fmt.Sprintf("%d push  %d pull  %d spring", stats.Pushes, stats.Pulls, stats.Springs))
	row("Height", fmt.Sprintf("%.3f", m.gauges.value(gaugeHeight)))
	row("Speed", fmt.Sprintf("%.2e", m.gauges.value(gaugeSpeed)))
	row("Energy", fmt.Sprintf("%.2e", m.gauges.value(gaugeEnergy)))
	row("Frame", fmt.Sprintf("%d × %d", m.frame, c.IterationsPerFrame()))
	if progress := f.Progress(); progress.IsBusy() {
		row("Progress", ProgressBar(progress.Nuance(), 20))
	}
	if c.HasMuscles() {
		state := "still"
		if c.MuscleCycling() {
			state = "cycling"
		}
		row("Muscles", state)
	}

	if len(m.speedHistory) > 1 {
		chart := asciigraph.Plot(m.speedHistory, asciigraph.Height(5), asciigraph.Width(34), asciigraph.Caption("max speed"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	s.WriteString(SparklineChart(m.speedHistory, 34) + "\n")

	if m.status != "" {
		style := lipgloss.NewStyle().Foreground(CurrentTheme.Success)
		if m.failed {
			style = style.Foreground(CurrentTheme.Error)
		}
		s.WriteString("\n" + style.Render(m.status) + "\n")
	}
	s.WriteString(helpStyle.Render("SP:Pause Q:Quit ?:Help\nP:Pretense M:Muscles G:Gravity"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, statsStyle.Render(s.String()))
	if m.showHelp {
		return keyHint.Render(helpText) + "\n" + mainView
	}
	return mainView
}

const helpText = `
╔══════════════════════════════════════╗
║           KEYBOARD SHORTCUTS         ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  Q        - Quit                     ║
║  H/L J/K  - Orbit camera             ║
║  +/-      - Zoom                     ║
║  F        - Frame the fabric         ║
║  A        - Toggle auto spin         ║
║  O        - Pushes only              ║
║  [ ]      - Slower/faster frames     ║
║  B        - Rebuild the plan         ║
║  P        - Pretense again           ║
║  R        - Revert to unpretensed    ║
║  S        - Shorten strained pulls   ║
║  M        - Toggle muscles           ║
║  G        - Toggle gravity           ║
║  T        - Cycle themes             ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// Watch runs the live view full screen until the user quits.
func Watch(c *crucible.Crucible, plan *tenscript.FabricPlan) error {
	m, err := NewModel(c, plan)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
