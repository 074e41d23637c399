package experiment

import (
	"context"
	"errors"
	"testing"

	"github.com/san-kum/bouncebox/internal/config"
	"github.com/san-kum/bouncebox/internal/dynamo"
)

func TestRegistry_GetIntegrator(t *testing.T) {
	reg := NewRegistry()

	for _, name := range reg.ListIntegrators() {
		if _, err := reg.GetIntegrator(name, 4); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}

	if _, err := reg.GetIntegrator("rk4", 1); err == nil {
		t.Error("expected error for unknown integrator")
	}
}

func TestExperiment_Run(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Duration = 5

	exp := New(cfg)
	if err := exp.Setup(NewRegistry()); err != nil {
		t.Fatalf("setup failed: %v", err)
	}

	result, err := exp.Run(context.Background())
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}

	if result.StepsTaken != 300 {
		t.Errorf("expected 300 steps, got %d", result.StepsTaken)
	}
	for _, name := range []string{"bounces", "velocity_clamps", "double_flips", "peak_speed", "mean_size", "max_size"} {
		if _, ok := result.Metrics[name]; !ok {
			t.Errorf("missing metric %s", name)
		}
	}
	for _, f := range result.Frames {
		if f.Body.Position.Y > 200 || f.Body.Position.Y < -200 {
			t.Fatalf("frame %d left the box: y=%v", f.Tick, f.Body.Position.Y)
		}
	}
}

func TestExperiment_RunWithoutSetup(t *testing.T) {
	if _, err := New(config.DefaultConfig()).Run(context.Background()); err == nil {
		t.Error("expected error when not set up")
	}
}

func TestExperiment_InvalidConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Body.MaxVY = 0

	err := New(cfg).Setup(NewRegistry())
	if !errors.Is(err, dynamo.ErrZeroMaxVelocity) {
		t.Errorf("expected ErrZeroMaxVelocity, got %v", err)
	}
}

func TestBuild_Sweep(t *testing.T) {
	reg := NewRegistry()
	a, b := config.DefaultConfig(), config.GetPreset("frantic")
	a.Duration, b.Duration = 1, 1

	results, err := dynamo.RunSweep(context.Background(), []dynamo.Build{Build(reg, a), Build(reg, b)}, a.SimConfig())
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 2 || results[0].StepsTaken != 60 {
		t.Errorf("unexpected sweep results: %d", len(results))
	}
}
