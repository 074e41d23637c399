package dynamo

import (
	"fmt"
	"math"
	"strings"
)

type Vec2 struct {
	X, Y float64
}

func Splat(v float64) Vec2 { return Vec2{X: v, Y: v} }

// FromHomogeneous projects a 3-component point onto the z=1 plane.
func FromHomogeneous(x, y, z float64) Vec2 {
	return Vec2{X: x / z, Y: y / z}
}

// Lossy drops z without projecting.
func Lossy(x, y, _ float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Homogeneous() (x, y, z float64) {
	return v.X, v.Y, 1
}

func (v Vec2) IsValid() bool {
	return finite(v.X) && finite(v.Y)
}

type Body struct {
	Position     Vec2
	Velocity     Vec2
	MaxVelocity  Vec2
	Acceleration Vec2
}

func (b Body) IsValid() bool {
	return b.Position.IsValid() && b.Velocity.IsValid() &&
		b.MaxVelocity.IsValid() && b.Acceleration.IsValid()
}

// Validate reports whether b can be integrated and sized.
func (b Body) Validate() error {
	if !b.IsValid() {
		return ErrInvalidState
	}
	if b.MaxVelocity.Y == 0 {
		return ErrZeroMaxVelocity
	}
	if b.MaxVelocity.Y < 0 {
		return fmt.Errorf("max velocity %.4f: %w", b.MaxVelocity.Y, ErrParameterBounds)
	}
	return nil
}

type Bounds struct {
	Top    float64
	Bottom float64
}

func NewBounds(top, bottom float64) (Bounds, error) {
	b := Bounds{Top: top, Bottom: bottom}
	if err := b.Validate(); err != nil {
		return Bounds{}, err
	}
	return b, nil
}

func (b Bounds) Validate() error {
	if !finite(b.Top) || !finite(b.Bottom) || b.Top <= b.Bottom {
		return fmt.Errorf("top=%.4f bottom=%.4f: %w", b.Top, b.Bottom, ErrInvalidBounds)
	}
	return nil
}

// Clamp pins y into [Bottom, Top]. Clamping an in-range value is a no-op.
func (b Bounds) Clamp(y float64) float64 {
	return math.Min(math.Max(y, b.Bottom), b.Top)
}

func (b Bounds) Contains(y float64) bool {
	return y >= b.Bottom && y <= b.Top
}

func (b Bounds) Height() float64 { return b.Top - b.Bottom }

// Event records what the integrator corrected during one step.
type Event uint8

const (
	EventVelocityClamp Event = 1 << iota
	EventBounceTop
	EventBounceBottom
)

func (e Event) Has(flag Event) bool { return e&flag != 0 }

func (e Event) Bounced() bool { return e.Has(EventBounceTop) || e.Has(EventBounceBottom) }

// DoubleFlip is true when the velocity clamp and a wall bounce both negated
// the acceleration in the same step.
func (e Event) DoubleFlip() bool { return e.Has(EventVelocityClamp) && e.Bounced() }

func (e Event) String() string {
	if e == 0 {
		return "none"
	}
	parts := make([]string, 0, 3)
	if e.Has(EventVelocityClamp) {
		parts = append(parts, "clamp")
	}
	if e.Has(EventBounceTop) {
		parts = append(parts, "top")
	}
	if e.Has(EventBounceBottom) {
		parts = append(parts, "bottom")
	}
	return strings.Join(parts, "|")
}

// Transform is what a Renderer receives: translation is the body position,
// scale is the uniform size.
type Transform struct {
	Translation Vec2
	Scale       float64
}

type Frame struct {
	Tick   int
	Time   float64
	Dt     float64
	Body   Body
	Size   float64
	Events Event
}

func (f Frame) Transform() Transform {
	return Transform{Translation: f.Body.Position, Scale: f.Size}
}

type Integrator interface {
	Step(b Body, bounds Bounds, dt float64) (Body, Event)
}

type Renderer interface {
	Render(tr Transform)
}

// RendererFunc adapts a plain function to Renderer.
type RendererFunc func(tr Transform)

func (f RendererFunc) Render(tr Transform) { f(tr) }

type Observer interface {
	OnFrame(f Frame)
}

type Metric interface {
	Name() string
	Observe(f Frame)
	Value() float64
	Reset()
}

type Config struct {
	Dt       float64
	Duration float64
	// KeepFrames records every frame in Result.Frames.
	KeepFrames bool
}

func DefaultConfig() Config {
	return Config{
		Dt:         1.0 / 60,
		Duration:   10.0,
		KeepFrames: true,
	}
}

func (c Config) Steps() int {
	return int(math.Round(c.Duration / c.Dt))
}

type Result struct {
	Initial    Frame
	Frames     []Frame
	Final      Frame
	Metrics    map[string]float64
	StepsTaken int
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
