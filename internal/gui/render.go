package gui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/bouncebox/internal/dynamo"
	"github.com/san-kum/bouncebox/internal/viz"
)

func (a *App) drawScene() {
	for _, w := range a.Layout.Walls() {
		fillRect(w, a.borderCol)
	}
	fillRect(a.Layout.Square(a.last), a.squareCol)
}

func fillRect(r viz.Rect, c rl.Color) {
	x, y, w, h := pixelRect(r)
	rl.DrawRectangle(x, y, w, h, c)
}

// pixelRect rounds r to whole pixels. A non-empty rect keeps at least one
// pixel on each side.
func pixelRect(r viz.Rect) (x, y, w, h int32) {
	x = int32(math.Round(r.X))
	y = int32(math.Round(r.Y))
	w = int32(math.Round(r.W))
	h = int32(math.Round(r.H))
	if r.W > 0 && w == 0 {
		w = 1
	}
	if r.H > 0 && h == 0 {
		h = 1
	}
	return x, y, w, h
}

func themeColor(c lipgloss.Color) rl.Color {
	r, g, b := viz.RGB(c)
	return rl.NewColor(r, g, b, 255)
}

func hudLines(f dynamo.Frame, running bool) []string {
	status := "RUNNING"
	if !running {
		status = "PAUSED"
	}
	return []string{
		status,
		fmt.Sprintf("t  %.2f", f.Time),
		fmt.Sprintf("y  %.1f", f.Body.Position.Y),
		fmt.Sprintf("vy %.1f", f.Body.Velocity.Y),
		fmt.Sprintf("sz %.1f", f.Size),
	}
}

func levelBar(level float64, width int) string {
	n := min(max(int(level*float64(width)), 0), width)
	return "[" + strings.Repeat("|", n) + strings.Repeat(" ", width-n) + "]"
}
