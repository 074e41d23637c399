package dynamo

import (
	"context"
	"errors"
	"math"
	"testing"
)

// driftIntegrator moves the body by velocity*dt with no walls.
type driftIntegrator struct{}

func (driftIntegrator) Step(b Body, bounds Bounds, dt float64) (Body, Event) {
	b.Position.Y += b.Velocity.Y * dt
	return b, 0
}

type nanIntegrator struct{}

func (nanIntegrator) Step(b Body, bounds Bounds, dt float64) (Body, Event) {
	b.Position.Y = math.NaN()
	return b, 0
}

type callLog struct {
	calls []string
}

func (c *callLog) Render(tr Transform) { c.calls = append(c.calls, "render") }
func (c *callLog) OnFrame(f Frame)     { c.calls = append(c.calls, "observe") }

type countMetric struct {
	count int
}

func (m *countMetric) Name() string    { return "count" }
func (m *countMetric) Observe(f Frame) { m.count++ }
func (m *countMetric) Value() float64  { return float64(m.count) }
func (m *countMetric) Reset()          { m.count = 0 }

func testBody() Body {
	return Body{
		Velocity:     Vec2{Y: 10},
		MaxVelocity:  Splat(1500),
		Acceleration: Splat(50),
	}
}

func testBounds() Bounds {
	return Bounds{Top: 200, Bottom: -200}
}

func TestNew_RejectsInvalidSetup(t *testing.T) {
	tests := []struct {
		name   string
		bounds Bounds
		body   Body
		want   error
	}{
		{"inverted bounds", Bounds{Top: -1, Bottom: 1}, testBody(), ErrInvalidBounds},
		{"zero max velocity", testBounds(), Body{}, ErrZeroMaxVelocity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(driftIntegrator{}, DefaultOscillator(), tt.bounds, tt.body)
			if !errors.Is(err, tt.want) {
				t.Errorf("New() error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := New(nil, DefaultOscillator(), testBounds(), testBody()); err == nil {
		t.Error("expected error for nil integrator")
	}
}

func TestSimulatorTick(t *testing.T) {
	s, err := New(driftIntegrator{}, DefaultOscillator(), testBounds(), testBody())
	if err != nil {
		t.Fatal(err)
	}

	frame, err := s.Tick(0.5)
	if err != nil {
		t.Fatalf("tick failed: %v", err)
	}

	if frame.Tick != 1 || s.Ticks() != 1 {
		t.Errorf("expected tick 1, got frame=%d sim=%d", frame.Tick, s.Ticks())
	}
	if frame.Time != 0.5 || s.Elapsed() != 0.5 {
		t.Errorf("expected elapsed 0.5, got %v", frame.Time)
	}
	if frame.Body.Position.Y != 5 {
		t.Errorf("expected y=5, got %v", frame.Body.Position.Y)
	}

	want, _ := Size(0.5, 10, 1500)
	if frame.Size != want {
		t.Errorf("size uses elapsed time after the step: got %v, want %v", frame.Size, want)
	}
}

func TestSimulatorTick_ZeroDt(t *testing.T) {
	s, _ := New(driftIntegrator{}, DefaultOscillator(), testBounds(), testBody())

	frame, err := s.Tick(0)
	if err != nil {
		t.Fatalf("zero dt should be valid: %v", err)
	}
	if frame.Body != testBody() {
		t.Errorf("zero dt should not move the body: %+v", frame.Body)
	}
}

func TestSimulatorTick_RejectsBadDt(t *testing.T) {
	s, _ := New(driftIntegrator{}, DefaultOscillator(), testBounds(), testBody())

	for _, dt := range []float64{-0.1, math.NaN(), math.Inf(1)} {
		_, err := s.Tick(dt)
		if !errors.Is(err, ErrNegativeDt) {
			t.Errorf("Tick(%v) error = %v, want ErrNegativeDt", dt, err)
		}
		var simErr *SimulationError
		if !errors.As(err, &simErr) {
			t.Errorf("Tick(%v) should return *SimulationError", dt)
		}
	}
	if s.Ticks() != 0 {
		t.Errorf("rejected ticks must not advance, got %d", s.Ticks())
	}
}

func TestSimulatorTick_InvalidState(t *testing.T) {
	s, _ := New(nanIntegrator{}, DefaultOscillator(), testBounds(), testBody())

	_, err := s.Tick(0.1)
	if !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
	if math.IsNaN(s.Body().Position.Y) {
		t.Error("invalid step must not be committed")
	}
}

func TestSimulatorCallOrder(t *testing.T) {
	s, _ := New(driftIntegrator{}, DefaultOscillator(), testBounds(), testBody())

	log := &callLog{}
	s.AddObserver(log)
	s.AddRenderer(log)

	for i := 0; i < 2; i++ {
		if _, err := s.Tick(0.1); err != nil {
			t.Fatal(err)
		}
	}

	want := []string{"render", "observe", "render", "observe"}
	if len(log.calls) != len(want) {
		t.Fatalf("calls = %v, want %v", log.calls, want)
	}
	for i := range want {
		if log.calls[i] != want[i] {
			t.Errorf("call %d = %s, want %s", i, log.calls[i], want[i])
		}
	}
}

func TestSimulatorRun(t *testing.T) {
	s, _ := New(driftIntegrator{}, DefaultOscillator(), testBounds(), testBody())

	metric := &countMetric{}
	s.AddMetric(metric)

	cfg := Config{Dt: 0.1, Duration: 1.0, KeepFrames: true}
	result, err := s.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if len(result.Frames) != 10 {
		t.Errorf("expected 10 frames, got %d", len(result.Frames))
	}
	if result.StepsTaken != 10 {
		t.Errorf("expected 10 steps, got %d", result.StepsTaken)
	}
	if result.Initial.Tick != 0 || result.Final.Tick != 10 {
		t.Errorf("initial/final ticks = %d/%d", result.Initial.Tick, result.Final.Tick)
	}
	if result.Metrics["count"] != 10 {
		t.Errorf("expected metric 10, got %v", result.Metrics["count"])
	}
	if math.Abs(result.Final.Body.Position.Y-10) > 1e-9 {
		t.Errorf("expected y=10, got %v", result.Final.Body.Position.Y)
	}
}

func TestSimulatorRun_InvalidConfig(t *testing.T) {
	s, _ := New(driftIntegrator{}, DefaultOscillator(), testBounds(), testBody())

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}},
		{"zero duration", Config{Dt: 0.1, Duration: 0}},
		{"negative duration", Config{Dt: 0.1, Duration: -1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Run(context.Background(), tt.cfg); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

func TestSimulatorRun_Canceled(t *testing.T) {
	s, _ := New(driftIntegrator{}, DefaultOscillator(), testBounds(), testBody())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.Run(ctx, Config{Dt: 0.1, Duration: 1.0})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if result == nil || result.StepsTaken != 0 {
		t.Errorf("canceled run should return a partial result with no steps")
	}
}

func TestSimulatorRun_LongRunCanceled(t *testing.T) {
	s, _ := New(driftIntegrator{}, DefaultOscillator(), testBounds(), testBody())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := s.Run(ctx, Config{Dt: 1e-9, Duration: 1e4, KeepFrames: true})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if result == nil || cap(result.Frames) > maxPrealloc {
		t.Errorf("frame buffer should be capped at %d", maxPrealloc)
	}
}

func TestSimulatorReset(t *testing.T) {
	s, _ := New(driftIntegrator{}, DefaultOscillator(), testBounds(), testBody())
	metric := &countMetric{}
	s.AddMetric(metric)

	for i := 0; i < 5; i++ {
		s.Tick(0.1)
	}
	s.Reset()

	if s.Ticks() != 0 || s.Elapsed() != 0 {
		t.Errorf("reset should zero the clock: ticks=%d t=%v", s.Ticks(), s.Elapsed())
	}
	if s.Body() != testBody() {
		t.Errorf("reset should restore the initial body")
	}
	if metric.count != 0 {
		t.Errorf("reset should reset metrics")
	}
}

func TestRunSweep(t *testing.T) {
	velocities := []float64{1, 2, 3}
	builds := make([]Build, len(velocities))
	for i, v := range velocities {
		builds[i] = func() (*Simulator, error) {
			b := testBody()
			b.Velocity.Y = v
			return New(driftIntegrator{}, DefaultOscillator(), testBounds(), b)
		}
	}

	results, err := RunSweep(context.Background(), builds, Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("sweep failed: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, v := range velocities {
		if got := results[i].Final.Body.Position.Y; math.Abs(got-v) > 1e-9 {
			t.Errorf("result %d: y=%v, want %v", i, got, v)
		}
	}
}

func TestRunSweep_BuildError(t *testing.T) {
	builds := []Build{
		func() (*Simulator, error) { return New(driftIntegrator{}, DefaultOscillator(), testBounds(), testBody()) },
		func() (*Simulator, error) { return New(driftIntegrator{}, DefaultOscillator(), testBounds(), Body{}) },
	}

	_, err := RunSweep(context.Background(), builds, Config{Dt: 0.1, Duration: 1.0})
	if !errors.Is(err, ErrZeroMaxVelocity) {
		t.Errorf("expected ErrZeroMaxVelocity, got %v", err)
	}
}
