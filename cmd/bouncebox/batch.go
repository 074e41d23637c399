package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/bouncebox/internal/analysis"
	"github.com/san-kum/bouncebox/internal/automation"
	"github.com/san-kum/bouncebox/internal/dynamo"
	"github.com/san-kum/bouncebox/internal/experiment"
	"github.com/san-kum/bouncebox/internal/storage"
)

func compareIntegrators(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	registry := experiment.NewRegistry()
	bounds, _ := base.Bounds()

	builds := make([]dynamo.Build, len(args))
	divergence := make([]float64, len(args))
	for i, name := range args {
		integ, err := registry.GetIntegrator(name, base.Substeps)
		if err != nil {
			return err
		}
		cfg := *base
		cfg.Integrator = name
		builds[i] = experiment.Build(registry, &cfg)
		divergence[i] = analysis.Divergence(integ, bounds, cfg.InitialBody(), cfg.Dt, cfg.Duration, 1e-6)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	simCfg := base.SimConfig()
	simCfg.KeepFrames = false
	results, err := dynamo.RunSweep(ctx, builds, simCfg)
	if err != nil {
		return err
	}

	fmt.Printf("comparing integrators (dt=%.4f, %.1fs)\n\n", base.Dt, base.Duration)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INTEGRATOR\tBOUNCES\tCLAMPS\tDOUBLE\tPEAK SPEED\tFINAL Y\tDIVERGENCE")
	for i, r := range results {
		fmt.Fprintf(w, "%s\t%.0f\t%.0f\t%.0f\t%.2f\t%.3f\t%.4f\n",
			args[i],
			r.Metrics["bounces"],
			r.Metrics["velocity_clamps"],
			r.Metrics["double_flips"],
			r.Metrics["peak_speed"],
			r.Final.Body.Position.Y,
			divergence[i],
		)
	}
	return w.Flush()
}

func sweepParam(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if sweepN < 1 {
		return fmt.Errorf("--steps must be at least 1, got %d", sweepN)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunSweep(ctx, &automation.ParameterSweep{
		Base:      base,
		ParamName: sweepName,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  sweepN,
	}, experiment.NewRegistry())
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tBOUNCES\tCLAMPS\tPEAK SPEED\tMEAN SIZE\tFINAL Y\n", sweepName)
	for _, r := range results {
		fmt.Fprintf(w, "%.4g\t%.0f\t%.0f\t%.2f\t%.2f\t%.3f\n",
			r.ParamValue,
			r.Metrics["bounces"],
			r.Metrics["velocity_clamps"],
			r.Metrics["peak_speed"],
			r.Metrics["mean_size"],
			r.Final.Body.Position.Y,
		)
	}
	return w.Flush()
}

func monteCarlo(cmd *cobra.Command, args []string) error {
	base, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Base:         base,
		Perturbation: perturb,
		NumTrials:    trials,
		Seed:         seed,
	}, experiment.NewRegistry())
	if err != nil {
		return err
	}

	stable, unstable := automation.MonteCarloStats(results)
	fmt.Printf("trials: %d\n", len(results))
	fmt.Printf("stable: %d\n", stable)
	fmt.Printf("unstable: %d\n", unstable)
	if unstable > 0 {
		return fmt.Errorf("%d trials left the box", unstable)
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	results, err := automation.RunScenario(ctx, scenario, experiment.NewRegistry())
	if err != nil {
		return err
	}

	var st *storage.Store
	if saveSteps {
		st = storage.New(dataDir)
		if err := st.Init(); err != nil {
			return err
		}
	}

	fmt.Printf("scenario: %s\n", scenario.Name)
	if scenario.Description != "" {
		fmt.Printf("%s\n", scenario.Description)
	}
	fmt.Println()

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "STEP\tPRESET\tINTEG\tSTEPS\tBOUNCES\tFINAL Y\tRUN ID")
	for i, r := range results {
		runID := "-"
		if st != nil && r.Step.SaveAs != "" {
			bounds, _ := r.Config.Bounds()
			id, err := st.Save(storage.RunMetadata{
				Preset:     r.Step.SaveAs,
				Integrator: r.Config.Integrator,
				Substeps:   r.Config.Substeps,
				Dt:         r.Config.Dt,
				Duration:   r.Config.Duration,
				Top:        bounds.Top,
				Bottom:     bounds.Bottom,
			}, r.Result)
			if err != nil {
				return err
			}
			runID = id
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%.0f\t%.3f\t%s\n",
			i+1,
			r.Step.Preset,
			r.Config.Integrator,
			r.Result.StepsTaken,
			r.Result.Metrics["bounces"],
			r.Result.Final.Body.Position.Y,
			runID,
		)
	}
	return w.Flush()
}
