// Package screen runs the simulator in an ebiten window. Unlike the raylib
// window it advances on ebiten's fixed update rate instead of the measured
// frame time.
package screen

import (
	"fmt"
	"image/color"
	"log"

	"github.com/charmbracelet/lipgloss"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/san-kum/bouncebox/internal/config"
	"github.com/san-kum/bouncebox/internal/dynamo"
	"github.com/san-kum/bouncebox/internal/viz"
)

type Options struct {
	Title string
	Theme viz.Theme
	Scale float64
	HUD   bool
}

type Game struct {
	sim     *dynamo.Simulator
	layout  viz.Layout
	opts    Options
	running bool
	err     error
	last    dynamo.Transform

	square color.RGBA
	border color.RGBA
}

func NewGame(sim *dynamo.Simulator, window config.WindowConfig, opts Options) *Game {
	if opts.Title == "" {
		opts.Title = window.Title
	}
	if opts.Theme.Name == "" {
		opts.Theme = viz.ThemeDefault
	}
	layout := viz.NewLayout(window)
	layout.Scale = max(opts.Scale, 1)

	g := &Game{
		sim:     sim,
		layout:  layout,
		opts:    opts,
		running: true,
		last:    sim.Current().Transform(),
		square:  rgba(opts.Theme.Square),
		border:  rgba(opts.Theme.Border),
	}
	sim.AddRenderer(g)
	return g
}

func (g *Game) Render(tr dynamo.Transform) { g.last = tr }

func (g *Game) Err() error { return g.err }

// Advance ticks the simulator once by dt while running.
func (g *Game) Advance(dt float64) {
	if !g.running {
		return
	}
	if _, err := g.sim.Tick(dt); err != nil {
		log.Printf("simulation stopped: %v", err)
		g.err = err
		g.running = false
	}
}

func (g *Game) TogglePause() { g.running = !g.running }

func (g *Game) Reset() {
	g.sim.Reset()
	g.last = g.sim.Current().Transform()
	g.err = nil
	g.running = true
}

func (g *Game) Update() error {
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyQ), inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		return ebiten.Termination
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		g.TogglePause()
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.Reset()
	case inpututil.IsKeyJustPressed(ebiten.KeyH):
		g.opts.HUD = !g.opts.HUD
	}

	g.Advance(1 / float64(ebiten.TPS()))
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)

	for _, w := range g.layout.Walls() {
		fill(screen, w, g.border)
	}
	fill(screen, g.layout.Square(g.last), g.square)

	if g.opts.HUD {
		f := g.sim.Current()
		x := int(g.layout.Scale*g.layout.Window.BorderSize) + 4
		msg := fmt.Sprintf("t  %.2f\ny  %.1f\nvy %.1f\nsz %.1f\n%.0f TPS",
			f.Time, f.Body.Position.Y, f.Body.Velocity.Y, f.Size, ebiten.ActualTPS())
		if !g.running {
			msg = "PAUSED\n" + msg
		}
		ebitenutil.DebugPrintAt(screen, msg, x, x)
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.layout.Size()
}

func fill(screen *ebiten.Image, r viz.Rect, c color.RGBA) {
	vector.FillRect(screen, float32(r.X), float32(r.Y), float32(r.W), float32(r.H), c, false)
}

func rgba(c lipgloss.Color) color.RGBA {
	r, g, b := viz.RGB(c)
	return color.RGBA{R: r, G: g, B: b, A: 255}
}

// Run opens the window and blocks until it is closed.
func Run(sim *dynamo.Simulator, window config.WindowConfig, opts Options) error {
	g := NewGame(sim, window, opts)
	w, h := g.layout.Size()
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle(g.opts.Title)

	if err := ebiten.RunGame(g); err != nil {
		return err
	}
	return g.err
}
