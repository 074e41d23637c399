package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/bouncebox/internal/config"
	"github.com/san-kum/bouncebox/internal/dynamo"
)

const (
	canvasWidth     = 32
	canvasHeight    = 30
	historyCapacity = 600
	frameInterval   = time.Second / 60
)

type TickMsg time.Time

type LiveOptions struct {
	Title string
	Theme string
	// FixedDt advances every frame by this many seconds; 0 uses the wall
	// clock between frames.
	FixedDt float64
	GIFPath string
}

// Model drives a simulator from Bubble Tea ticks and draws it on a Scene.
type Model struct {
	sim         *dynamo.Simulator
	scene       *Scene
	opts        LiveOptions
	theme       Theme
	running     bool
	lastTick    time.Time
	frame       dynamo.Frame
	sizeHistory []float64
	posHistory  []float64
	recorder    *Recorder
	recording   bool
	showHelp    bool
	message     string
	err         error
}

// NewModel attaches a Scene renderer to sim and returns a running model.
func NewModel(sim *dynamo.Simulator, window config.WindowConfig, opts LiveOptions) Model {
	if opts.Title == "" {
		opts.Title = window.Title
	}
	if opts.GIFPath == "" {
		opts.GIFPath = "bouncebox.gif"
	}

	scene := NewScene(canvasWidth, canvasHeight, window)
	sim.AddRenderer(scene)
	scene.Render(sim.Current().Transform())

	return Model{
		sim:         sim,
		scene:       scene,
		opts:        opts,
		theme:       GetTheme(opts.Theme),
		running:     true,
		frame:       sim.Current(),
		sizeHistory: make([]float64, 0, historyCapacity),
		posHistory:  make([]float64, 0, historyCapacity),
		recorder:    NewRecorder(2),
	}
}

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.recording {
				m.toggleRecording()
			}
			return m, tea.Quit
		case " ":
			m.running = !m.running
			m.lastTick = time.Time{}
		case "r":
			m.reset()
		case "n", ".":
			if !m.running {
				m.advance(m.stepDt())
			}
		case "g":
			m.toggleRecording()
		case "t":
			m.theme = NextTheme(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		now := time.Time(msg)
		if m.running {
			dt := m.opts.FixedDt
			if dt == 0 && !m.lastTick.IsZero() {
				dt = now.Sub(m.lastTick).Seconds()
			}
			m.lastTick = now
			m.advance(dt)
		}
		if m.recording {
			m.recorder.Capture(m.scene.Composite())
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) stepDt() float64 {
	if m.opts.FixedDt > 0 {
		return m.opts.FixedDt
	}
	return frameInterval.Seconds()
}

// advance ticks the simulator once. A failed tick pauses the view and keeps
// the error on screen.
func (m *Model) advance(dt float64) {
	frame, err := m.sim.Tick(dt)
	if err != nil {
		m.err = err
		m.running = false
		return
	}
	m.frame = frame
	m.sizeHistory = appendCapped(m.sizeHistory, frame.Size)
	m.posHistory = appendCapped(m.posHistory, frame.Body.Position.Y)
}

func appendCapped(h []float64, v float64) []float64 {
	h = append(h, v)
	if len(h) > historyCapacity {
		h = h[1:]
	}
	return h
}

func (m *Model) reset() {
	m.sim.Reset()
	m.frame = m.sim.Current()
	m.scene.Render(m.frame.Transform())
	m.sizeHistory = m.sizeHistory[:0]
	m.posHistory = m.posHistory[:0]
	m.lastTick = time.Time{}
	m.err = nil
	m.message = ""
}

func (m *Model) toggleRecording() {
	if !m.recording {
		m.recording = true
		m.message = ""
		return
	}
	m.recording = false
	n := m.recorder.Len()
	if err := m.recorder.Save(m.opts.GIFPath); err != nil {
		m.message = "gif: " + err.Error()
		return
	}
	m.message = fmt.Sprintf("saved %d frames to %s", n, m.opts.GIFPath)
}

// Running reports whether the simulation is advancing.
func (m Model) Running() bool { return m.running }

// Frame is the most recent simulator frame.
func (m Model) Frame() dynamo.Frame { return m.frame }

func (m Model) Err() error { return m.err }

func (m Model) View() string {
	canvasView := canvasStyle.Render(m.scene.View(m.theme))

	var s strings.Builder
	s.WriteString(GradientText(strings.ToUpper(m.opts.Title), m.theme.Square, m.theme.Accent) + "\n\n")

	switch {
	case m.err != nil:
		s.WriteString(lipgloss.NewStyle().Foreground(m.theme.Warn).Render("HALTED: "+m.err.Error()) + "\n")
	case m.recording:
		s.WriteString(StatusRecording.Render("● REC") + "\n")
	case m.running:
		s.WriteString(StatusRunning.Render("RUNNING") + "\n")
	default:
		s.WriteString(StatusPaused.Render("PAUSED") + "\n")
	}

	if len(m.sizeHistory) > 1 {
		chart := asciigraph.Plot(m.sizeHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("size"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	if len(m.posHistory) > 1 {
		chart := asciigraph.Plot(m.posHistory, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("y"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}

	f := m.frame
	row := func(label, value string) {
		s.WriteString(labelStyle.Render(label) + valueStyle.Render(value) + "\n")
	}
	row("Time", fmt.Sprintf("%.2fs", f.Time))
	row("Tick", fmt.Sprintf("%d", f.Tick))
	row("Y", fmt.Sprintf("%8.2f", f.Body.Position.Y))
	row("Velocity", fmt.Sprintf("%8.2f", f.Body.Velocity.Y))
	row("Accel", fmt.Sprintf("%8.2f", f.Body.Acceleration.Y))
	row("Size", fmt.Sprintf("%8.2f", f.Size))
	row("Events", f.Events.String())

	values := m.sim.MetricValues()
	for _, name := range []string{"bounces", "velocity_clamps", "double_flips"} {
		if v, ok := values[name]; ok {
			row(name, fmt.Sprintf("%.0f", v))
		}
	}

	if m.message != "" {
		s.WriteString("\n" + Subtle.Render(m.message) + "\n")
	}
	s.WriteString(helpStyle.Render("SP:Pause R:Reset Q:Quit\nT:Theme  G:Record ?:Help"))

	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, panelStyle.Render(s.String()))
	if m.showHelp {
		return helpOverlay + "\n" + mainView
	}
	return mainView
}

const helpOverlay = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume             ║
║  N / .    - Single step while paused ║
║  R        - Reset                    ║
║  G        - Toggle GIF recording     ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝
`

// RunLive shows sim full screen until the user quits.
func RunLive(sim *dynamo.Simulator, window config.WindowConfig, opts LiveOptions) error {
	_, err := tea.NewProgram(NewModel(sim, window, opts), tea.WithAltScreen()).Run()
	return err
}
