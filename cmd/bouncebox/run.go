package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/san-kum/bouncebox/internal/config"
	"github.com/san-kum/bouncebox/internal/experiment"
	"github.com/san-kum/bouncebox/internal/export"
	"github.com/san-kum/bouncebox/internal/gui"
	"github.com/san-kum/bouncebox/internal/screen"
	"github.com/san-kum/bouncebox/internal/storage"
	"github.com/san-kum/bouncebox/internal/tui"
	"github.com/san-kum/bouncebox/internal/viz"
)

// setup resolves the configuration and builds a ready simulator.
func setup(cmd *cobra.Command) (*config.Config, *experiment.Experiment, error) {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	exp := experiment.New(cfg)
	if err := exp.Setup(experiment.NewRegistry()); err != nil {
		return nil, nil, err
	}
	return cfg, exp, nil
}

func newMetadata(cfg *config.Config) storage.RunMetadata {
	bounds, _ := cfg.Bounds()
	return storage.RunMetadata{
		Preset:     presetName(),
		Integrator: cfg.Integrator,
		Substeps:   cfg.Substeps,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Top:        bounds.Top,
		Bottom:     bounds.Bottom,
	}
}

func printMetrics(metrics map[string]float64) {
	names := make([]string, 0, len(metrics))
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %.6f\n", name, metrics[name])
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, exp, err := setup(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if watch {
		return watchRun(ctx, cfg, exp)
	}

	fmt.Printf("running %s (%s, dt=%.4f, %.1fs)...\n", presetName(), cfg.Integrator, cfg.Dt, cfg.Duration)
	start := time.Now()
	result, err := exp.Run(ctx)
	if err != nil {
		return err
	}
	elapsed := time.Since(start)

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("final: y=%.3f vy=%.3f size=%.3f\n",
		result.Final.Body.Position.Y, result.Final.Body.Velocity.Y, result.Final.Size)
	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)

	if !save {
		return nil
	}
	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(newMetadata(cfg), result)
	if err != nil {
		return err
	}
	fmt.Printf("\nrun id: %s\n", runID)
	return nil
}

func watchRun(ctx context.Context, cfg *config.Config, exp *experiment.Experiment) error {
	r := tui.NewLiveRenderer(os.Stdout, cfg.Window, frameRate)
	exp.Simulator().AddObserver(r)
	r.Start()
	defer r.Stop()
	return tui.Play(ctx, exp.Simulator(), cfg.Dt, cfg.Duration)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, exp, err := setup(cmd)
	if err != nil {
		return err
	}

	if plain {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		return watchRun(ctx, cfg, exp)
	}

	return viz.RunLive(exp.Simulator(), cfg.Window, viz.LiveOptions{
		Title:   cfg.Window.Title,
		Theme:   cfg.Theme,
		FixedDt: fixedDt,
		GIFPath: gifPath,
	})
}

func runWindow(cmd *cobra.Command, args []string) error {
	cfg, exp, err := setup(cmd)
	if err != nil {
		return err
	}
	theme := viz.GetTheme(cfg.Theme)

	switch backend {
	case "raylib":
		return gui.Run(exp.Simulator(), cfg.Window, gui.Options{
			Theme:     theme,
			Scale:     windowScale,
			HUD:       showHUD,
			Audio:     withAudio,
			Amplitude: cfg.Oscillator.Amplitude,
		})
	case "ebiten":
		if withAudio {
			log.Printf("--audio is only supported by the raylib backend")
		}
		return screen.Run(exp.Simulator(), cfg.Window, screen.Options{
			Theme: theme,
			Scale: windowScale,
			HUD:   showHUD,
		})
	default:
		return fmt.Errorf("unknown backend: %s (available: raylib, ebiten)", backend)
	}
}

// snapshot runs offline up to --at and writes the window at that moment.
func snapshot(cmd *cobra.Command, args []string) error {
	cfg, exp, err := setup(cmd)
	if err != nil {
		return err
	}
	if snapAt < 0 {
		return fmt.Errorf("--at must not be negative, got %v", snapAt)
	}

	sim := exp.Simulator()
	scene := viz.NewScene(32, 30, cfg.Window)
	sim.AddRenderer(scene)

	for sim.Elapsed() < snapAt {
		if _, err := sim.Tick(min(cfg.Dt, snapAt-sim.Elapsed())); err != nil {
			return err
		}
	}

	theme := viz.GetTheme(cfg.Theme)
	tr := sim.Current().Transform()
	var svg string
	if braille {
		scene.Render(tr)
		svg = export.CanvasToSVG(scene.Composite(), 4, string(theme.Square))
	} else {
		svg = export.SceneToSVG(viz.NewLayout(cfg.Window), tr, theme)
	}

	if err := os.WriteFile(snapOut, []byte(svg), 0644); err != nil {
		return err
	}
	fmt.Printf("t=%.3f y=%.3f size=%.3f written to %s\n", sim.Elapsed(), tr.Translation.Y, tr.Scale, snapOut)
	return nil
}
