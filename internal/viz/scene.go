package viz

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/bouncebox/internal/config"
	"github.com/san-kum/bouncebox/internal/dynamo"
)

// Scene draws the bordered game area and the square onto Braille canvases.
// It implements dynamo.Renderer. World coordinates are centred on the
// origin with y pointing up.
type Scene struct {
	window config.WindowConfig
	walls  *Canvas
	body   *Canvas
	scale  float64
	last   dynamo.Transform
}

func NewScene(w, h int, window config.WindowConfig) *Scene {
	s := &Scene{
		window: window,
		walls:  NewCanvas(w, h),
		body:   NewCanvas(w, h),
	}
	s.scale = math.Min(
		float64(s.walls.PixelWidth())/window.GameWidth(),
		float64(s.walls.PixelHeight())/window.WindowHeight(),
	)
	s.drawWalls()
	return s
}

func (s *Scene) drawWalls() {
	w := s.window
	half := w.BorderSize / 2
	wallY := w.WindowHeight()/2 - half

	s.fillWorld(-w.BaseWidth/2, 0, w.BorderSize, w.WindowHeight(), s.walls)
	s.fillWorld(w.BaseWidth/2, 0, w.BorderSize, w.WindowHeight(), s.walls)
	s.fillWorld(0, wallY, w.GameWidth(), w.BorderSize, s.walls)
	s.fillWorld(0, -wallY, w.GameWidth(), w.BorderSize, s.walls)
}

// fillWorld fills a w x h world rectangle centred on (cx, cy).
func (s *Scene) fillWorld(cx, cy, w, h float64, c *Canvas) {
	x0, y0 := s.toPixel(cx-w/2, cy+h/2)
	x1, y1 := s.toPixel(cx+w/2, cy-h/2)
	c.FillRect(x0, y0, x1, y1)
}

func (s *Scene) toPixel(x, y float64) (int, int) {
	ox := float64(s.walls.PixelWidth()) / 2
	oy := float64(s.walls.PixelHeight()) / 2
	return int(math.Round(ox + x*s.scale)), int(math.Round(oy - y*s.scale))
}

// Render redraws the square at tr. The square always covers at least one
// dot.
func (s *Scene) Render(tr dynamo.Transform) {
	s.last = tr
	s.body.Clear()
	s.fillWorld(tr.Translation.X, tr.Translation.Y, tr.Scale, tr.Scale, s.body)
}

// Transform is the last transform rendered.
func (s *Scene) Transform() dynamo.Transform { return s.last }

// Composite returns walls and square merged on one canvas.
func (s *Scene) Composite() *Canvas {
	c := NewCanvas(s.walls.Width, s.walls.Height)
	c.Merge(s.walls)
	c.Merge(s.body)
	return c
}

const (
	cellBlank = iota
	cellWall
	cellBody
)

// View renders the scene with the square and walls in theme colours.
func (s *Scene) View(theme Theme) string {
	styles := [...]lipgloss.Style{
		cellBlank: lipgloss.NewStyle(),
		cellWall:  lipgloss.NewStyle().Foreground(theme.Border),
		cellBody:  lipgloss.NewStyle().Foreground(theme.Square),
	}

	var b strings.Builder
	for row := range s.walls.Grid {
		var run strings.Builder
		kind := -1
		flush := func() {
			if run.Len() > 0 {
				b.WriteString(styles[kind].Render(run.String()))
				run.Reset()
			}
		}
		for col := range s.walls.Grid[row] {
			wall := s.walls.Grid[row][col] & 0xff
			body := s.body.Grid[row][col] & 0xff
			k := cellBlank
			switch {
			case body != 0:
				k = cellBody
			case wall != 0:
				k = cellWall
			}
			if k != kind {
				flush()
				kind = k
			}
			run.WriteRune(0x2800 | wall | body)
		}
		flush()
		b.WriteByte('\n')
	}
	return b.String()
}
