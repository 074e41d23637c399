package viz

import (
	"github.com/san-kum/bouncebox/internal/config"
	"github.com/san-kum/bouncebox/internal/dynamo"
)

// Rect is an axis-aligned rectangle in window pixels, origin top-left.
type Rect struct {
	X, Y, W, H float64
}

// Layout maps world coordinates (origin at the window centre, y up) onto a
// GameWidth x WindowHeight pixel window scaled by Scale.
type Layout struct {
	Window config.WindowConfig
	Scale  float64
}

func NewLayout(window config.WindowConfig) Layout {
	return Layout{Window: window, Scale: 1}
}

// Size is the window size in pixels.
func (l Layout) Size() (w, h int) {
	return int(l.Window.GameWidth() * l.Scale), int(l.Window.WindowHeight() * l.Scale)
}

func (l Layout) ToScreen(x, y float64) (float64, float64) {
	w, h := l.Size()
	return float64(w)/2 + x*l.Scale, float64(h)/2 - y*l.Scale
}

// Centered is the screen rect of a w x h world box centred on (cx, cy).
func (l Layout) Centered(cx, cy, w, h float64) Rect {
	x, y := l.ToScreen(cx-w/2, cy+h/2)
	return Rect{X: x, Y: y, W: w * l.Scale, H: h * l.Scale}
}

// Walls returns the left, right, top and bottom borders.
func (l Layout) Walls() [4]Rect {
	w := l.Window
	wallY := w.WindowHeight()/2 - w.BorderSize/2
	return [4]Rect{
		l.Centered(-w.BaseWidth/2, 0, w.BorderSize, w.WindowHeight()),
		l.Centered(w.BaseWidth/2, 0, w.BorderSize, w.WindowHeight()),
		l.Centered(0, wallY, w.GameWidth(), w.BorderSize),
		l.Centered(0, -wallY, w.GameWidth(), w.BorderSize),
	}
}

// Square is the screen rect of the unit square under tr.
func (l Layout) Square(tr dynamo.Transform) Rect {
	return l.Centered(tr.Translation.X, tr.Translation.Y, tr.Scale, tr.Scale)
}
