package viz

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/bouncebox/internal/config"
	"github.com/san-kum/bouncebox/internal/experiment"
)

var (
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#00ffff")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#ffffff")).Bold(true)
	descStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff88ff"))
	idleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#555566"))
	keyStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#00aaaa")).Bold(true)
	errStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff4444"))
)

const (
	stateMenu = iota
	stateConfig
	stateSim
)

const previewSeconds = 2.0

// param is one editable field of the configuration screen.
type param struct {
	name string
	step float64
}

var params = []param{
	{"velocity", 5},
	{"accel", 5},
	{"max_speed", 50},
	{"frequency", 0.5},
	{"amplitude", 5},
	{"height", 20},
}

func (p param) get(c *config.Config) float64 {
	v, _ := c.Param(p.name)
	return v
}

func (p param) set(c *config.Config, v float64) {
	c.SetParam(p.name, v)
}

type model struct {
	state, cursor int
	presets       []string
	previews      map[string]string
	selected      string
	cfg           *config.Config
	paramCursor   int
	editing       bool
	editBuf       string
	registry      *experiment.Registry
	live          Model
	err           error
}

// NewInteractiveApp builds the preset picker. Each preset gets a short size
// preview computed offline.
func NewInteractiveApp() *model {
	m := &model{
		state:    stateMenu,
		presets:  config.ListPresets(),
		previews: make(map[string]string),
		registry: experiment.NewRegistry(),
	}
	for _, name := range m.presets {
		m.previews[name] = m.preview(config.GetPreset(name))
	}
	return m
}

func (m *model) preview(cfg *config.Config) string {
	cfg.Duration = previewSeconds
	exp := experiment.New(cfg)
	if err := exp.Setup(m.registry); err != nil {
		return errStyle.Render("invalid")
	}
	result, err := exp.Run(context.Background())
	if err != nil {
		return errStyle.Render("invalid")
	}
	sizes := make([]float64, len(result.Frames))
	for i, f := range result.Frames {
		sizes[i] = f.Size
	}
	return SparklineChart(sizes, 24)
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	default:
		if m.state == stateSim {
			return m.forward(msg)
		}
	}
	return m, nil
}

func (m model) forward(msg tea.Msg) (model, tea.Cmd) {
	newLive, cmd := m.live.Update(msg)
	m.live = newLive.(Model)
	return m, cmd
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch m.state {
	case stateMenu:
		return m.menuKey(msg)
	case stateConfig:
		return m.configKey(msg)
	case stateSim:
		return m.forward(msg)
	}
	return m, nil
}

func (m model) menuKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.presets)-1 {
			m.cursor++
		}
	case "enter", " ":
		m.selected = m.presets[m.cursor]
		m.cfg = config.GetPreset(m.selected)
		m.state, m.paramCursor, m.err = stateConfig, 0, nil
	}
	return m, nil
}

func (m model) configKey(msg tea.KeyMsg) (model, tea.Cmd) {
	p := params[m.paramCursor]
	if m.editing {
		switch msg.String() {
		case "enter":
			if val, err := strconv.ParseFloat(m.editBuf, 64); err == nil {
				p.set(m.cfg, val)
			}
			m.editing, m.editBuf = false, ""
		case "esc":
			m.editing, m.editBuf = false, ""
		case "backspace":
			if len(m.editBuf) > 0 {
				m.editBuf = m.editBuf[:len(m.editBuf)-1]
			}
		default:
			if s := msg.String(); len(s) == 1 {
				c := s[0]
				if (c >= '0' && c <= '9') || c == '.' || c == '-' {
					m.editBuf += s
				}
			}
		}
		return m, nil
	}
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "q", "esc":
		m.state = stateMenu
	case "up", "k":
		if m.paramCursor > 0 {
			m.paramCursor--
		}
	case "down", "j":
		if m.paramCursor < len(params)-1 {
			m.paramCursor++
		}
	case "enter", " ":
		m.editing, m.editBuf = true, strconv.FormatFloat(p.get(m.cfg), 'f', -1, 64)
	case "left", "h":
		p.set(m.cfg, p.get(m.cfg)-p.step)
	case "right", "l":
		p.set(m.cfg, p.get(m.cfg)+p.step)
	case "s":
		return m.start()
	}
	return m, nil
}

// start validates the edited configuration and switches to the live view.
// An invalid configuration stays on the config screen with the error shown.
func (m model) start() (model, tea.Cmd) {
	exp := experiment.New(m.cfg)
	if err := exp.Setup(m.registry); err != nil {
		m.err = err
		return m, nil
	}
	m.live = NewModel(exp.Simulator(), m.cfg.Window, LiveOptions{Theme: m.cfg.Theme})
	m.state, m.err = stateSim, nil
	return m, m.live.Init()
}

func (m model) View() string {
	switch m.state {
	case stateMenu:
		return m.viewMenu()
	case stateConfig:
		return m.viewConfig()
	case stateSim:
		return m.live.View()
	}
	return ""
}

func header(title, subtitle string) string {
	h := lipgloss.NewStyle().Foreground(lipgloss.Color("#00cccc")).Bold(true)
	return "\n\n    " + h.Render(title) + "\n    " + Subtle.Render(subtitle) + "\n    " + Separator(25) + "\n\n"
}

func hints(pairs ...string) string {
	var b strings.Builder
	b.WriteString("\n    ")
	for i := 0; i+1 < len(pairs); i += 2 {
		b.WriteString(keyStyle.Render(pairs[i]) + idleStyle.Render(" "+pairs[i+1]+"  "))
	}
	return b.String() + "\n"
}

func (m model) viewMenu() string {
	var b strings.Builder
	b.WriteString(header("BOUNCEBOX", "pick a preset"))
	for i, name := range m.presets {
		cfg := config.Presets[name]
		desc := fmt.Sprintf("v=%-5.0f a=%-5.0f max=%-5.0f", cfg.Body.VY, cfg.Body.AY, cfg.Body.MaxVY)
		if i == m.cursor {
			b.WriteString(fmt.Sprintf("    %s %s  %s  %s\n", cursorStyle.Render("▸"), selectedStyle.Render(fmt.Sprintf("%-10s", name)), descStyle.Render(desc), m.previews[name]))
		} else {
			b.WriteString(fmt.Sprintf("    %s  %s\n", idleStyle.Render(fmt.Sprintf("  %-10s", name)), idleStyle.Render(desc)))
		}
	}
	b.WriteString(hints("j/k", "navigate", "enter", "select", "q", "quit"))
	return b.String()
}

func (m model) viewConfig() string {
	var b strings.Builder
	b.WriteString(header(strings.ToUpper(m.selected), fmt.Sprintf("integrator %s, dt %.4f", m.cfg.Integrator, m.cfg.Dt)))
	for i, p := range params {
		valStr := fmt.Sprintf("%8.2f", p.get(m.cfg))
		if m.editing && i == m.paramCursor {
			valStr = fmt.Sprintf("%8s", m.editBuf+"_")
		}
		if i == m.paramCursor {
			b.WriteString(fmt.Sprintf("    %s %s %s\n", cursorStyle.Render("▸"), selectedStyle.Render(fmt.Sprintf("%-10s", p.name)), descStyle.Bold(true).Render(valStr)))
		} else {
			b.WriteString(fmt.Sprintf("    %s %s\n", idleStyle.Render(fmt.Sprintf("  %-10s", p.name)), idleStyle.Render(valStr)))
		}
	}
	if m.err != nil {
		b.WriteString("\n    " + errStyle.Render(m.err.Error()) + "\n")
	}
	b.WriteString(hints("j/k", "select", "h/l", "adjust", "enter", "edit", "s", "start", "esc", "back"))
	return b.String()
}

// RunInteractive opens the preset picker full screen.
func RunInteractive() error {
	_, err := tea.NewProgram(NewInteractiveApp(), tea.WithAltScreen()).Run()
	return err
}
