package gui

import (
	"fmt"
	"log"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/bouncebox/internal/audio"
	"github.com/san-kum/bouncebox/internal/config"
	"github.com/san-kum/bouncebox/internal/dynamo"
	"github.com/san-kum/bouncebox/internal/viz"
)

var (
	ColBg      = rl.NewColor(0, 0, 0, 255)
	ColText    = rl.NewColor(200, 200, 200, 255)
	ColTextDim = rl.NewColor(90, 90, 90, 255)
	ColError   = rl.NewColor(255, 170, 0, 255)
)

type Options struct {
	Title string
	Theme viz.Theme
	// Scale multiplies the window size. Values below 1 are treated as 1.
	Scale float64
	HUD   bool
	Audio bool
	// Amplitude is the oscillator amplitude, used to scale loudness.
	Amplitude float64
}

// App owns the raylib window and drives the simulator once per frame with
// the measured frame time.
type App struct {
	Sim     *dynamo.Simulator
	Layout  viz.Layout
	Opts    Options
	Running bool
	Err     error

	last  dynamo.Transform
	synth *audio.Synth
	Audio *audio.Processor

	squareCol rl.Color
	borderCol rl.Color
}

func initWindow(l viz.Layout, title string) {
	w, h := l.Size()
	rl.InitWindow(int32(w), int32(h), title)
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// NewApp attaches the app to sim as a renderer. The window is not opened
// until Run.
func NewApp(sim *dynamo.Simulator, window config.WindowConfig, opts Options) *App {
	if opts.Title == "" {
		opts.Title = window.Title
	}
	if opts.Amplitude <= 0 {
		opts.Amplitude = dynamo.DefaultAmplitude
	}
	if opts.Theme.Name == "" {
		opts.Theme = viz.ThemeDefault
	}
	layout := viz.NewLayout(window)
	layout.Scale = max(opts.Scale, 1)

	a := &App{
		Sim:       sim,
		Layout:    layout,
		Opts:      opts,
		Running:   true,
		last:      sim.Current().Transform(),
		squareCol: themeColor(opts.Theme.Square),
		borderCol: themeColor(opts.Theme.Border),
	}
	sim.AddRenderer(a)
	return a
}

// Render implements dynamo.Renderer.
func (a *App) Render(tr dynamo.Transform) {
	a.last = tr
}

// Run opens the window and blocks until it is closed.
func Run(sim *dynamo.Simulator, window config.WindowConfig, opts Options) error {
	a := NewApp(sim, window, opts)

	if opts.Audio {
		a.synth = audio.NewSynth(sim.Bounds(), a.Opts.Amplitude)
		sim.AddObserver(a.synth)
		a.Audio = audio.NewProcessor(a.synth)
		if err := a.Audio.Start(); err != nil {
			log.Printf("audio disabled: %v", err)
		}
		defer a.Audio.Stop()
	}

	initWindow(a.Layout, a.Opts.Title)
	defer rl.CloseWindow()
	a.RunLoop()
	return a.Err
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if !a.Update() {
			return
		}
		a.Draw()
	}
}

// Update handles input and advances the simulation. It returns false when
// the user asked to quit.
func (a *App) Update() bool {
	switch {
	case rl.IsKeyPressed(rl.KeyQ), rl.IsKeyPressed(rl.KeyEscape):
		return false
	case rl.IsKeyPressed(rl.KeySpace):
		a.Running = !a.Running
	case rl.IsKeyPressed(rl.KeyR):
		a.Sim.Reset()
		a.last = a.Sim.Current().Transform()
		a.Err = nil
		a.Running = true
	case rl.IsKeyPressed(rl.KeyH):
		a.Opts.HUD = !a.Opts.HUD
	}

	if a.Running {
		a.step(float64(rl.GetFrameTime()))
	}
	return true
}

func (a *App) step(dt float64) {
	if _, err := a.Sim.Tick(dt); err != nil {
		log.Printf("simulation stopped: %v", err)
		a.Err = err
		a.Running = false
	}
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	a.drawScene()
	if a.Opts.HUD {
		a.DrawHUD()
	}

	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	f := a.Sim.Current()
	x := int32(a.Layout.Scale*a.Layout.Window.BorderSize) + 6
	y := int32(a.Layout.Scale*a.Layout.Window.BorderSize) + 6

	for i, line := range hudLines(f, a.Running) {
		rl.DrawText(line, x, y+int32(i)*14, 10, ColText)
	}

	if a.synth != nil && a.Audio.Active {
		low, mid, high := a.synth.Bands()
		rl.DrawText(levelBar((low+mid+high)/3, 12), x, y+5*14, 10, ColTextDim)
	}
	if a.Err != nil {
		rl.DrawText("ERROR [R] RESET", x, y+6*14, 10, ColError)
	}
	rl.DrawText(fmt.Sprintf("%d FPS", rl.GetFPS()), x, y+7*14, 10, ColTextDim)
}
