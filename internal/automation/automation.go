package automation

import (
	"context"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/bouncebox/internal/config"
	"github.com/san-kum/bouncebox/internal/dynamo"
	"github.com/san-kum/bouncebox/internal/experiment"
)

// Scenario defines a scripted sequence of runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is one run: a preset plus overrides. Zero values keep the
// preset's setting.
type ScenarioStep struct {
	Name       string             `yaml:"name"`
	Preset     string             `yaml:"preset"`
	Integrator string             `yaml:"integrator"`
	Substeps   int                `yaml:"substeps"`
	Duration   float64            `yaml:"duration"`
	Dt         float64            `yaml:"dt"`
	Params     map[string]float64 `yaml:"params"`
	SaveAs     string             `yaml:"save_as"`
}

// StepResult pairs a step with the configuration it ran and its result.
type StepResult struct {
	Step   ScenarioStep
	Config *config.Config
	Result *dynamo.Result
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse scenario %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}

	return &scenario, nil
}

// Config resolves the step into a validated configuration.
func (s ScenarioStep) Config() (*config.Config, error) {
	preset := s.Preset
	if preset == "" {
		preset = "classic"
	}
	cfg := config.GetPreset(preset)
	if cfg == nil {
		return nil, fmt.Errorf("unknown preset: %s", preset)
	}

	if s.Integrator != "" {
		cfg.Integrator = s.Integrator
	}
	if s.Substeps > 0 {
		cfg.Substeps = s.Substeps
	}
	if s.Duration > 0 {
		cfg.Duration = s.Duration
	}
	if s.Dt > 0 {
		cfg.Dt = s.Dt
	}
	if err := cfg.SetParams(s.Params); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

// RunScenario executes all steps in order and stops at the first failure,
// returning the results gathered so far.
func RunScenario(ctx context.Context, scenario *Scenario, registry *experiment.Registry) ([]StepResult, error) {
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		label := step.Name
		if label == "" {
			label = step.Preset
		}
		log.Printf("scenario %s: step %d/%d %s", scenario.Name, i+1, len(scenario.Steps), label)

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		exp := experiment.New(cfg)
		if err := exp.Setup(registry); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Step: step, Config: cfg, Result: result})
	}

	return results, nil
}

// ParameterSweep runs a base configuration across evenly spaced values of
// one parameter.
type ParameterSweep struct {
	Base      *config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
}

type SweepResult struct {
	ParamValue float64
	Final      dynamo.Frame
	Metrics    map[string]float64
}

// Values returns the swept parameter values, min and max included.
func (s *ParameterSweep) Values() []float64 {
	if s.NumSteps <= 1 {
		return []float64{s.ParamMin}
	}
	step := (s.ParamMax - s.ParamMin) / float64(s.NumSteps-1)
	vals := make([]float64, s.NumSteps)
	for i := range vals {
		vals[i] = s.ParamMin + float64(i)*step
	}
	return vals
}

// RunSweep executes every point of the sweep concurrently.
func RunSweep(ctx context.Context, sweep *ParameterSweep, registry *experiment.Registry) ([]SweepResult, error) {
	if sweep.Base == nil {
		return nil, fmt.Errorf("sweep has no base configuration")
	}

	values := sweep.Values()
	builds := make([]dynamo.Build, len(values))
	for i, v := range values {
		cfg := *sweep.Base
		if err := cfg.SetParam(sweep.ParamName, v); err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("%s=%g: %w", sweep.ParamName, v, err)
		}
		builds[i] = experiment.Build(registry, &cfg)
	}

	simCfg := sweep.Base.SimConfig()
	simCfg.KeepFrames = false
	runs, err := dynamo.RunSweep(ctx, builds, simCfg)
	if err != nil {
		return nil, err
	}

	results := make([]SweepResult, len(runs))
	for i, r := range runs {
		results[i] = SweepResult{ParamValue: values[i], Final: r.Final, Metrics: r.Metrics}
	}
	log.Printf("sweep %s: %d runs", sweep.ParamName, len(results))
	return results, nil
}

// MonteCarloConfig perturbs the initial height and velocity of a base
// configuration.
type MonteCarloConfig struct {
	Base         *config.Config
	Perturbation float64
	NumTrials    int
	Seed         int64
}

type MonteCarloResult struct {
	TrialID int
	Initial dynamo.Body
	Final   dynamo.Body
	// Stable is true when the final body is inside the box and under the
	// speed limit.
	Stable bool
}

func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, registry *experiment.Registry) ([]MonteCarloResult, error) {
	if cfg.Base == nil {
		return nil, fmt.Errorf("monte carlo has no base configuration")
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	results := make([]MonteCarloResult, 0, cfg.NumTrials)
	for trial := 0; trial < cfg.NumTrials; trial++ {
		c := *cfg.Base
		c.Body.Y += (rng.Float64() - 0.5) * 2 * cfg.Perturbation
		c.Body.VY += (rng.Float64() - 0.5) * 2 * cfg.Perturbation

		exp := experiment.New(&c)
		if err := exp.Setup(registry); err != nil {
			return results, fmt.Errorf("trial %d: %w", trial, err)
		}

		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("trial %d: %w", trial, err)
		}

		final := result.Final.Body
		bounds := exp.Simulator().Bounds()
		results = append(results, MonteCarloResult{
			TrialID: trial,
			Initial: result.Initial.Body,
			Final:   final,
			Stable:  bounds.Contains(final.Position.Y) && math.Abs(final.Velocity.Y) <= final.MaxVelocity.Y,
		})

		if (trial+1)%10 == 0 {
			log.Printf("monte carlo: %d/%d trials complete", trial+1, cfg.NumTrials)
		}
	}

	return results, nil
}

func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
