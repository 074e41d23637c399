package analysis

import (
	"math"
	"strings"
	"testing"

	"github.com/san-kum/bouncebox/internal/dynamo"
	"github.com/san-kum/bouncebox/internal/integrators"
)

func TestPowerSpectrum_Padding(t *testing.T) {
	ps := PowerSpectrum(make([]float64, 100))
	if len(ps) != 64 {
		t.Errorf("expected 64 bins for 100 samples, got %d", len(ps))
	}
	if PowerSpectrum(nil) != nil {
		t.Error("expected nil spectrum for no data")
	}
}

func TestDominantFrequency_PureTone(t *testing.T) {
	const (
		sampleRate = 64.0
		n          = 256
		tone       = 5.0
	)
	data := make([]float64, n)
	for i := range data {
		data[i] = 3 + math.Sin(2*math.Pi*tone*float64(i)/sampleRate)
	}

	got, power := DominantFrequency(data, sampleRate)
	if math.Abs(got-tone) > 1e-9 {
		t.Errorf("expected %v Hz, got %v", tone, got)
	}
	if power <= 0 {
		t.Errorf("expected positive power, got %v", power)
	}
}

func TestDominantFrequency_Degenerate(t *testing.T) {
	if f, _ := DominantFrequency([]float64{1}, 60); f != 0 {
		t.Errorf("expected 0 for a single sample, got %v", f)
	}
	if f, _ := DominantFrequency(make([]float64, 32), 60); f != 0 {
		t.Errorf("expected 0 for a flat signal, got %v", f)
	}
}

func frames() []dynamo.Frame {
	return []dynamo.Frame{
		{Time: 0.1, Body: dynamo.Body{Position: dynamo.Vec2{Y: -50}, Velocity: dynamo.Vec2{Y: 10}}, Size: 1},
		{Time: 0.2, Body: dynamo.Body{Position: dynamo.Vec2{Y: 200}, Velocity: dynamo.Vec2{Y: -20}}, Size: 2, Events: dynamo.EventBounceTop},
		{Time: 0.3, Body: dynamo.Body{Position: dynamo.Vec2{Y: 100}, Velocity: dynamo.Vec2{Y: -30}}, Size: 3},
	}
}

func TestSeries(t *testing.T) {
	got := Series(frames(), Size)
	want := []float64{1, 2, 3}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Series()[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestPhasePortrait(t *testing.T) {
	p := PhasePortrait(frames())
	if len(p.Points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(p.Points))
	}
	if p.Points[1] != (Point{X: 200, Y: -20}) {
		t.Errorf("unexpected point %+v", p.Points[1])
	}

	art := PhasePortraitToASCII(p, 40, 10)
	lines := strings.Split(strings.TrimSuffix(art, "\n"), "\n")
	if len(lines) != 10 {
		t.Errorf("expected 10 rows, got %d", len(lines))
	}
	if !strings.Contains(art, "•") {
		t.Error("expected plotted points")
	}
}

func TestBounceSection(t *testing.T) {
	s := BounceSection(frames())
	if len(s.Points) != 1 || s.Points[0] != (Point{X: 0.2, Y: -20}) {
		t.Errorf("unexpected section %+v", s.Points)
	}
	if got := BounceSectionToASCII(&PhasePortrait2D{}, 10, 5); got != "No bounces detected" {
		t.Errorf("unexpected empty plot %q", got)
	}
}

func TestDivergence(t *testing.T) {
	body := dynamo.Body{
		Velocity:     dynamo.Splat(5),
		MaxVelocity:  dynamo.Splat(1500),
		Acceleration: dynamo.Splat(50),
	}
	bounds := dynamo.Bounds{Top: 200, Bottom: -200}

	got := Divergence(integrators.NewHalfStep(), bounds, body, 1.0/60, 10, 1e-6)
	if math.IsNaN(got) || math.IsInf(got, 0) {
		t.Errorf("divergence should be finite, got %v", got)
	}

	if got := Divergence(integrators.NewHalfStep(), bounds, body, 0, 10, 1e-6); got != 0 {
		t.Errorf("expected 0 for zero dt, got %v", got)
	}
}
