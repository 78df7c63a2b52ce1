package viz

import (
	"io"
	"log/slog"
	"math"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/tensegrity/internal/crucible"
	"github.com/san-kum/tensegrity/internal/fabric"
	"github.com/san-kum/tensegrity/internal/tenscript"
)

func TestCanvasSetUnset(t *testing.T) {
	c := NewCanvas(2, 1)
	if w, h := c.Dots(); w != 4 || h != 4 {
		t.Fatalf("expected 4x4 dots, got %dx%d", w, h)
	}

	c.Set(0, 0)
	c.Set(3, 3)
	if c.Grid[0][0] != 0x2801 {
		t.Errorf("expected dot 1 lit, got %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != 0x2880 {
		t.Errorf("expected dot 8 lit, got %U", c.Grid[0][1])
	}
	if !c.IsSet(3, 3) || c.IsSet(1, 1) {
		t.Error("IsSet disagrees with Set")
	}

	c.Set(-1, 0)
	c.Set(100, 0)
	c.Unset(0, 0)
	if c.Grid[0][0] != brailleBlank {
		t.Errorf("expected blank cell, got %U", c.Grid[0][0])
	}

	c.Clear()
	if strings.Trim(c.String(), "\u2800\n") != "" {
		t.Errorf("expected an empty canvas, got %q", c.String())
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(4, 2)
	c.DrawLine(0, 0, 7, 7)
	for i := 0; i < 8; i++ {
		if !c.IsSet(i, i) {
			t.Errorf("expected diagonal dot (%d,%d)", i, i)
		}
	}
	if len(c.Rows()) != 2 {
		t.Errorf("expected 2 rows, got %d", len(c.Rows()))
	}
}

func TestCameraProject(t *testing.T) {
	cam := NewCamera()
	cam.Target = mgl64.Vec3{1, 2, 3}

	x, y, depth, ok := cam.Project(cam.Target, 100, 80)
	if !ok || x != 50 || y != 40 {
		t.Errorf("expected target at screen center, got (%d,%d) visible=%v", x, y, ok)
	}
	if math.Abs(depth-cam.Distance) > 1e-9 {
		t.Errorf("expected depth %f, got %f", cam.Distance, depth)
	}

	cam.Pitch, cam.Yaw = 0, 0
	x, y, _, _ = cam.Project(cam.Target.Add(mgl64.Vec3{0, 1, 0}), 100, 80)
	if x != 50 || y >= 40 {
		t.Errorf("expected a higher point above center, got (%d,%d)", x, y)
	}

	if _, _, _, ok := cam.Project(cam.Target.Add(mgl64.Vec3{0, 0, cam.Distance + 1}), 100, 80); ok {
		t.Error("expected a point behind the camera to be hidden")
	}
}

func TestCameraOrbitClampsPitch(t *testing.T) {
	cam := NewCamera()
	cam.Orbit(0, 10)
	if cam.Pitch != math.Pi/2 {
		t.Errorf("expected pitch clamped to %f, got %f", math.Pi/2, cam.Pitch)
	}
	cam.ZoomIn()
	if cam.Zoom <= 1 {
		t.Errorf("expected zoom above 1, got %f", cam.Zoom)
	}
}

func snapshot() *fabric.Snapshot {
	f := fabric.New()
	a := f.CreateJoint(mgl64.Vec3{-1, 0, 0})
	b := f.CreateJoint(mgl64.Vec3{1, 0, 0})
	c := f.CreateJoint(mgl64.Vec3{0, 2, 0})
	f.CreateInterval(a, b, 2, fabric.PushMaterial)
	f.CreateInterval(b, c, 2, fabric.PullMaterial)
	f.CreateInterval(c, a, 2, fabric.PullMaterial)
	return f.Snapshot()
}

func TestProjectSnapshot(t *testing.T) {
	snap := snapshot()
	cam := NewCamera()
	cam.Frame(snap)

	want := mgl64.Vec3{0, 2.0 / 3, 0}
	if !cam.Target.ApproxEqual(want) {
		t.Errorf("expected target %v, got %v", want, cam.Target)
	}

	segments := ProjectSnapshot(snap, cam, 120, 88)
	if len(segments) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segments))
	}
	for i := 1; i < len(segments); i++ {
		if segments[i].Depth > segments[i-1].Depth {
			t.Error("expected segments sorted far to near")
		}
	}

	all, pushes := NewCanvas(60, 22), NewCanvas(60, 22)
	RenderSnapshot(all, snap, cam, false)
	RenderSnapshot(pushes, snap, cam, true)
	if lit(all) <= lit(pushes) || lit(pushes) == 0 {
		t.Errorf("expected pushes only to draw less, got %d and %d dots", lit(all), lit(pushes))
	}
}

func lit(c *Canvas) int {
	n := 0
	w, h := c.Dots()
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			if c.IsSet(x, y) {
				n++
			}
		}
	}
	return n
}

func TestGauges(t *testing.T) {
	g := newGauges(30, 1, 6, 1)
	if got := g.step(0, 5); got != 5 {
		t.Errorf("expected first reading as is, got %f", got)
	}
	for i := 0; i < 300; i++ {
		g.step(0, 10)
	}
	if math.Abs(g.value(0)-10) > 1e-3 {
		t.Errorf("expected gauge to settle at 10, got %f", g.value(0))
	}
	g.reset()
	if g.value(0) != 0 {
		t.Errorf("expected reset gauge, got %f", g.value(0))
	}
}

func TestThemes(t *testing.T) {
	defer SetTheme(CurrentTheme.Name)

	SetTheme("ember")
	if CurrentTheme.Name != "ember" {
		t.Errorf("expected ember, got %s", CurrentTheme.Name)
	}
	NextTheme()
	if CurrentTheme.Name != "reef" {
		t.Errorf("expected reef after ember, got %s", CurrentTheme.Name)
	}
	NextTheme()
	if CurrentTheme.Name != "studio" {
		t.Errorf("expected themes to wrap, got %s", CurrentTheme.Name)
	}
	if GetTheme("nope").Name != "studio" {
		t.Error("expected unknown theme to fall back to studio")
	}
	if ThemeChalk.RoleColor("push") != ThemeChalk.Push || ThemeChalk.RoleColor("pull") != ThemeChalk.Pull {
		t.Error("expected role colors from the theme")
	}
	if len(ThemeNames()) != len(Themes) {
		t.Errorf("expected %d theme names, got %d", len(Themes), len(ThemeNames()))
	}
}

func TestBlend(t *testing.T) {
	tests := []struct {
		a, b     lipgloss.Color
		t        float64
		expected lipgloss.Color
	}{
		{"#000000", "#ffffff", 0, "#000000"},
		{"#000000", "#ffffff", 1, "#ffffff"},
		{"240", "#ffffff", 0.5, "#ffffff"},
	}
	for _, tt := range tests {
		if got := blend(tt.a, tt.b, tt.t); got != tt.expected {
			t.Errorf("blend(%s, %s, %g): expected %s, got %s", tt.a, tt.b, tt.t, tt.expected, got)
		}
	}
}

func TestStrainColor(t *testing.T) {
	th := ThemeStudio
	if th.StrainColor("pull", 0.5, 0) != th.Pull {
		t.Error("expected plain role color without a limit")
	}
	if th.StrainColor("push", -0.02, 0.01) != blend(th.Push, th.Error, 1) {
		t.Error("expected strain past the limit to reach the error color")
	}
}

func TestSparklineLogScale(t *testing.T) {
	out := SparklineChart([]float64{1e-1, 1e-3, 1e-5, 1e-7, 1e-9}, 5)
	if !strings.ContainsRune(out, '█') || !strings.ContainsRune(out, '▁') {
		t.Errorf("expected full range of bars, got %q", out)
	}
	if SparklineChart(nil, 4) != "────" {
		t.Error("expected a flat line for no values")
	}
}

func TestWatchModel(t *testing.T) {
	plan, err := tenscript.ParsePlan(`(fabric (name "column") (build (seed :left) (grow A+ 2)))`)
	if err != nil {
		t.Fatal(err)
	}
	settings := crucible.DefaultSettings()
	settings.IterationsPerFrame = 100
	settings.GrowCountdown = 10
	settings.Interactive = true
	c := crucible.New(settings, slog.New(slog.NewTextHandler(io.Discard, nil)))

	m, err := NewModel(c, plan)
	if err != nil {
		t.Fatal(err)
	}
	var model tea.Model = m
	for i := 0; i < 2000 && c.Stage() != crucible.Interactive; i++ {
		model, _ = model.Update(TickMsg{})
	}
	if c.Stage() != crucible.Interactive {
		t.Fatalf("expected the watched fabric to become interactive, got %s", c.Stage())
	}

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'m'}})
	if !strings.Contains(model.(Model).status, "muscles") {
		t.Errorf("expected a muscles status, got %q", model.(Model).status)
	}
	if !model.(Model).failed {
		t.Error("expected toggling muscles without any to fail")
	}

	model, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}})
	if model.(Model).running {
		t.Error("expected space to pause")
	}

	view := model.View()
	if !strings.Contains(view, "paused") {
		t.Errorf("expected the paused marker in the view")
	}

	_, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Error("expected a quit command")
	}
}
