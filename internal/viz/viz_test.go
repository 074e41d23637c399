package viz

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/bouncebox/internal/config"
	"github.com/san-kum/bouncebox/internal/dynamo"
	"github.com/san-kum/bouncebox/internal/experiment"
)

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestCanvas_SetLit(t *testing.T) {
	c := NewCanvas(4, 2)
	if c.PixelWidth() != 8 || c.PixelHeight() != 8 {
		t.Fatalf("unexpected pixel size %dx%d", c.PixelWidth(), c.PixelHeight())
	}

	c.Set(3, 5)
	if !c.Lit(3, 5) {
		t.Error("expected (3,5) lit")
	}
	if c.Lit(2, 5) || c.Lit(-1, 0) || c.Lit(100, 0) {
		t.Error("unexpected lit pixel")
	}

	c.Unset(3, 5)
	if c.Lit(3, 5) {
		t.Error("expected (3,5) cleared")
	}
}

func TestCanvas_FillRectMerge(t *testing.T) {
	a := NewCanvas(4, 2)
	a.FillRect(3, 3, 1, 1)
	for y := 1; y <= 3; y++ {
		for x := 1; x <= 3; x++ {
			if !a.Lit(x, y) {
				t.Errorf("(%d,%d) should be lit", x, y)
			}
		}
	}

	b := NewCanvas(4, 2)
	b.Set(7, 7)
	a.Merge(b)
	if !a.Lit(7, 7) || !a.Lit(2, 2) {
		t.Error("merge should keep both layers")
	}

	a.Clear()
	if a.Lit(2, 2) {
		t.Error("clear should unset everything")
	}
}

func TestScene_WallsAndSquare(t *testing.T) {
	window := config.DefaultConfig().Window
	s := NewScene(canvasWidth, canvasHeight, window)

	comp := s.Composite()
	cx := comp.PixelWidth() / 2
	if !comp.Lit(cx, 0) || !comp.Lit(cx, comp.PixelHeight()-1) {
		t.Error("top and bottom walls should reach the canvas edges")
	}
	if comp.Lit(cx, comp.PixelHeight()/2) {
		t.Error("centre should be empty before the square is rendered")
	}

	s.Render(dynamo.Transform{Translation: dynamo.Vec2{}, Scale: 50})
	comp = s.Composite()
	if !comp.Lit(cx, comp.PixelHeight()/2) {
		t.Error("square should cover the centre")
	}

	s.Render(dynamo.Transform{Translation: dynamo.Vec2{Y: 200}, Scale: 0})
	if s.Transform().Translation.Y != 200 {
		t.Error("scene should remember the last transform")
	}
	px, py := s.toPixel(0, 200)
	if !s.Composite().Lit(px, py) {
		t.Error("zero-size square should still show one dot")
	}

	view := s.View(ThemeDefault)
	if strings.Count(view, "\n") != canvasHeight {
		t.Errorf("expected %d rows in view", canvasHeight)
	}
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	exp := experiment.New(config.DefaultConfig())
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		t.Fatal(err)
	}
	return NewModel(exp.Simulator(), config.DefaultConfig().Window, LiveOptions{
		FixedDt: 1.0 / 60,
		GIFPath: filepath.Join(t.TempDir(), "out.gif"),
	})
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModel_TickAdvances(t *testing.T) {
	m := newTestModel(t)
	now := time.Now()
	for i := 0; i < 3; i++ {
		m = update(m, TickMsg(now.Add(time.Duration(i)*frameInterval)))
	}

	if m.Frame().Tick != 3 {
		t.Errorf("expected tick 3, got %d", m.Frame().Tick)
	}
	if len(m.sizeHistory) != 3 || len(m.posHistory) != 3 {
		t.Errorf("history not recorded: %d/%d", len(m.sizeHistory), len(m.posHistory))
	}
	if !strings.Contains(m.View(), "RUNNING") {
		t.Error("view should show running status")
	}
}

func TestModel_PauseStepReset(t *testing.T) {
	m := newTestModel(t)

	m = update(m, key(" "))
	if m.Running() {
		t.Fatal("space should pause")
	}
	m = update(m, TickMsg(time.Now()))
	if m.Frame().Tick != 0 {
		t.Error("paused model should not advance on tick")
	}

	m = update(m, key("n"))
	if m.Frame().Tick != 1 {
		t.Errorf("single step should advance one tick, got %d", m.Frame().Tick)
	}

	m = update(m, key("r"))
	if m.Frame().Tick != 0 || m.Frame().Body != config.DefaultConfig().InitialBody() {
		t.Error("reset should restore the initial frame")
	}
}

func TestModel_Record(t *testing.T) {
	m := newTestModel(t)

	m = update(m, key("g"))
	m = update(m, TickMsg(time.Now()))
	m = update(m, TickMsg(time.Now()))
	m = update(m, key("g"))

	if _, err := os.Stat(m.opts.GIFPath); err != nil {
		t.Errorf("gif not written: %v", err)
	}
	if !strings.Contains(m.message, "saved 2 frames") {
		t.Errorf("unexpected message %q", m.message)
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("nope").Name != "default" {
		t.Error("unknown theme should fall back to default")
	}
	seen := map[string]bool{}
	th := ThemeDefault
	for range Themes {
		seen[th.Name] = true
		th = NextTheme(th)
	}
	if len(seen) != len(Themes) || th.Name != ThemeDefault.Name {
		t.Error("NextTheme should cycle through every theme")
	}
}

func TestInteractive_MenuToConfig(t *testing.T) {
	app := *NewInteractiveApp()
	if len(app.previews) != len(app.presets) {
		t.Fatal("every preset should have a preview")
	}

	next, _ := app.Update(key("j"))
	app = next.(model)
	if app.cursor != 1 {
		t.Errorf("expected cursor 1, got %d", app.cursor)
	}

	next, _ = app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	app = next.(model)
	if app.state != stateConfig || app.cfg == nil {
		t.Fatal("enter should open the config screen")
	}

	before := app.cfg.Body.VY
	next, _ = app.Update(key("l"))
	app = next.(model)
	if app.cfg.Body.VY != before+params[0].step {
		t.Errorf("adjust should add one step to velocity")
	}

	app.cfg.Body.MaxVY = 0
	next, _ = app.Update(key("s"))
	app = next.(model)
	if app.state != stateConfig || app.err == nil {
		t.Error("invalid config should stay on the config screen")
	}

	app.cfg.Body.MaxVY = 1500
	next, _ = app.Update(key("s"))
	app = next.(model)
	if app.state != stateSim {
		t.Error("valid config should start the live view")
	}
}

func TestLayout_Walls(t *testing.T) {
	l := NewLayout(config.DefaultConfig().Window)
	if w, h := l.Size(); w != 210 || h != 472 {
		t.Fatalf("Size() = %dx%d, want 210x472", w, h)
	}

	walls := l.Walls()
	want := [4]Rect{
		{X: 0, Y: 0, W: 10, H: 472},
		{X: 200, Y: 0, W: 10, H: 472},
		{X: 0, Y: 0, W: 210, H: 10},
		{X: 0, Y: 462, W: 210, H: 10},
	}
	for i := range want {
		if walls[i] != want[i] {
			t.Errorf("wall %d = %+v, want %+v", i, walls[i], want[i])
		}
	}
}

func TestLayout_Square(t *testing.T) {
	l := NewLayout(config.DefaultConfig().Window)
	l.Scale = 2

	got := l.Square(dynamo.Transform{Translation: dynamo.Vec2{Y: 100}, Scale: 50})
	want := Rect{X: 160, Y: 222, W: 100, H: 100}
	if got != want {
		t.Errorf("Square() = %+v, want %+v", got, want)
	}
}

func TestRGB(t *testing.T) {
	r, g, b := RGB(ThemeDefault.Border)
	if r != 0xb3 || g != 0 || b != 0 {
		t.Errorf("RGB(border) = %d,%d,%d", r, g, b)
	}
}
