package dynamo

import (
	"context"
	"fmt"
)

type Simulator struct {
	integrator Integrator
	oscillator Oscillator
	bounds     Bounds
	initial    Body
	body       Body
	t          float64
	tick       int
	last       Frame
	renderers  []Renderer
	observers  []Observer
	metrics    []Metric
}

// New validates bounds and body and returns a simulator positioned at body.
// Invalid bounds or a zero max velocity refuse to start.
func New(integrator Integrator, oscillator Oscillator, bounds Bounds, body Body) (*Simulator, error) {
	if integrator == nil {
		return nil, fmt.Errorf("integrator: %w", ErrParameterBounds)
	}
	if err := bounds.Validate(); err != nil {
		return nil, err
	}
	if err := body.Validate(); err != nil {
		return nil, err
	}
	s := &Simulator{
		integrator: integrator,
		oscillator: oscillator,
		bounds:     bounds,
		initial:    body,
		renderers:  make([]Renderer, 0),
		observers:  make([]Observer, 0),
		metrics:    make([]Metric, 0),
	}
	s.Reset()
	return s, nil
}

func (s *Simulator) AddRenderer(r Renderer) { s.renderers = append(s.renderers, r) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }
func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }

func (s *Simulator) Body() Body       { return s.body }
func (s *Simulator) Bounds() Bounds   { return s.bounds }
func (s *Simulator) Elapsed() float64 { return s.t }
func (s *Simulator) Ticks() int       { return s.tick }

// Current returns the most recent frame, or the initial frame before the
// first tick.
func (s *Simulator) Current() Frame { return s.last }

// Reset restores the initial body, zeroes the clock and resets metrics.
// Renderers and observers stay attached.
func (s *Simulator) Reset() {
	s.body = s.initial
	s.t = 0
	s.tick = 0
	size, _ := s.oscillator.Size(0, s.body.Velocity.Y, s.body.MaxVelocity.Y)
	s.last = Frame{Body: s.body, Size: size}
	for _, m := range s.metrics {
		m.Reset()
	}
}

// Tick advances one frame of dt seconds: integrate, size, render, then
// notify observers and metrics.
func (s *Simulator) Tick(dt float64) (Frame, error) {
	if dt < 0 || !finite(dt) {
		return s.last, s.fail(fmt.Errorf("dt=%v: %w", dt, ErrNegativeDt))
	}

	body, events := s.integrator.Step(s.body, s.bounds, dt)
	if !body.IsValid() {
		return s.last, s.fail(ErrInvalidState)
	}

	t := s.t + dt
	size, err := s.oscillator.Size(t, body.Velocity.Y, body.MaxVelocity.Y)
	if err != nil {
		return s.last, s.fail(err)
	}

	s.body = body
	s.t = t
	s.tick++

	frame := Frame{
		Tick:   s.tick,
		Time:   s.t,
		Dt:     dt,
		Body:   body,
		Size:   size,
		Events: events,
	}
	s.last = frame

	tr := frame.Transform()
	for _, r := range s.renderers {
		r.Render(tr)
	}
	for _, o := range s.observers {
		o.OnFrame(frame)
	}
	for _, m := range s.metrics {
		m.Observe(frame)
	}

	return frame, nil
}

// maxPrealloc caps the frame buffer reserved up front; longer runs grow it.
const maxPrealloc = 1 << 16

// Run advances the simulator from its current state with a fixed dt until
// cfg.Duration has elapsed. Call Reset first for a fresh run.
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	steps := cfg.Steps()
	result := &Result{
		Initial: s.last,
		Metrics: make(map[string]float64),
	}
	if cfg.KeepFrames {
		result.Frames = make([]Frame, 0, min(steps, maxPrealloc))
	}

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			result.Final = s.last
			return result, ctx.Err()
		default:
		}

		frame, err := s.Tick(cfg.Dt)
		if err != nil {
			result.Final = s.last
			return result, err
		}
		if cfg.KeepFrames {
			result.Frames = append(result.Frames, frame)
		}
		result.StepsTaken++
	}

	result.Final = s.last
	result.Metrics = s.MetricValues()

	return result, nil
}

// MetricValues snapshots every attached metric by name.
func (s *Simulator) MetricValues() map[string]float64 {
	values := make(map[string]float64, len(s.metrics))
	for _, m := range s.metrics {
		values[m.Name()] = m.Value()
	}
	return values
}

func (s *Simulator) fail(err error) error {
	return &SimulationError{Tick: s.tick, Time: s.t, Body: s.body, Wrapped: err}
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 || !finite(cfg.Dt) {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 || !finite(cfg.Duration) {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}
