// Package tui is the plain ANSI fallback for terminals where the Bubble Tea
// view is unavailable, such as when output is piped or logged.
package tui

import (
	"context"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/san-kum/bouncebox/internal/config"
	"github.com/san-kum/bouncebox/internal/dynamo"
)

const (
	width       = 42
	height      = 24
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

// LiveRenderer redraws a character picture of the box on every observed
// frame, at most frameRate times per second.
type LiveRenderer struct {
	out       io.Writer
	window    config.WindowConfig
	frameRate int
	ansi      bool
	now       func() time.Time
	lastFrame time.Time
	canvas    [][]rune
}

func NewLiveRenderer(out io.Writer, window config.WindowConfig, frameRate int) *LiveRenderer {
	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
	}
	return &LiveRenderer{
		out:       out,
		window:    window,
		frameRate: frameRate,
		ansi:      true,
		now:       time.Now,
		canvas:    canvas,
	}
}

// SetANSI toggles screen clearing between frames.
func (r *LiveRenderer) SetANSI(on bool) { r.ansi = on }

func (r *LiveRenderer) OnFrame(f dynamo.Frame) {
	if r.frameRate > 0 {
		now := r.now()
		if now.Sub(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
			return
		}
		r.lastFrame = now
	}

	r.clear()
	r.drawWalls()
	r.drawSquare(f.Transform())
	r.render(f)
}

func (r *LiveRenderer) clear() {
	for y := range r.canvas {
		for x := range r.canvas[y] {
			r.canvas[y][x] = ' '
		}
	}
}

func (r *LiveRenderer) set(x, y int, c rune) {
	if x >= 0 && x < width && y >= 0 && y < height {
		r.canvas[y][x] = c
	}
}

// cell maps a world point to a character cell.
func (r *LiveRenderer) cell(x, y float64) (int, int) {
	cx := (x/r.window.GameWidth() + 0.5) * float64(width-1)
	cy := (0.5 - y/r.window.WindowHeight()) * float64(height-1)
	return int(math.Round(cx)), int(math.Round(cy))
}

func (r *LiveRenderer) fill(cx, cy, w, h float64, c rune) {
	x0, y0 := r.cell(cx-w/2, cy+h/2)
	x1, y1 := r.cell(cx+w/2, cy-h/2)
	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			r.set(x, y, c)
		}
	}
}

func (r *LiveRenderer) drawWalls() {
	w := r.window
	wallY := w.WindowHeight()/2 - w.BorderSize/2
	r.fill(-w.BaseWidth/2, 0, w.BorderSize, w.WindowHeight(), '|')
	r.fill(w.BaseWidth/2, 0, w.BorderSize, w.WindowHeight(), '|')
	r.fill(0, wallY, w.GameWidth(), w.BorderSize, '=')
	r.fill(0, -wallY, w.GameWidth(), w.BorderSize, '=')
}

func (r *LiveRenderer) drawSquare(tr dynamo.Transform) {
	r.fill(tr.Translation.X, tr.Translation.Y, tr.Scale, tr.Scale, '#')
}

func (r *LiveRenderer) render(f dynamo.Frame) {
	var b strings.Builder
	if r.ansi {
		b.WriteString(clearScreen)
	}
	fmt.Fprintf(&b, "  %s  t=%.2fs\n", r.window.Title, f.Time)

	for _, row := range r.canvas {
		b.WriteString("  ")
		b.WriteString(string(row))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "  y=%.1f vy=%.1f size=%.1f %s\n", f.Body.Position.Y, f.Body.Velocity.Y, f.Size, f.Events)
	fmt.Fprint(r.out, b.String())
}

func (r *LiveRenderer) Start() {
	if r.ansi {
		fmt.Fprint(r.out, hideCursor)
	}
}

func (r *LiveRenderer) Stop() {
	if r.ansi {
		fmt.Fprint(r.out, showCursor)
	}
}

// Play ticks sim in real time with a fixed dt until duration has elapsed or
// ctx is cancelled. dt must be at least one nanosecond.
func Play(ctx context.Context, sim *dynamo.Simulator, dt, duration float64) error {
	interval := time.Duration(dt * float64(time.Second))
	if math.IsNaN(dt) || math.IsInf(dt, 0) || interval <= 0 {
		return fmt.Errorf("dt %v is below the real-time resolution: %w", dt, dynamo.ErrNegativeDt)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for sim.Elapsed() < duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := sim.Tick(dt); err != nil {
				return err
			}
		}
	}
	return nil
}
