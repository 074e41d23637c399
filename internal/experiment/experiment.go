package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/bouncebox/internal/config"
	"github.com/san-kum/bouncebox/internal/dynamo"
)

// Experiment binds a validated configuration to a ready simulator with the
// default metrics attached.
type Experiment struct {
	cfg       *config.Config
	simulator *dynamo.Simulator
}

func New(cfg *config.Config) *Experiment {
	return &Experiment{cfg: cfg}
}

func (e *Experiment) Setup(reg *Registry) error {
	if err := e.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	integ, err := reg.GetIntegrator(e.cfg.Integrator, e.cfg.Substeps)
	if err != nil {
		return err
	}
	bounds, err := e.cfg.Bounds()
	if err != nil {
		return err
	}

	sim, err := dynamo.New(integ, e.cfg.NewOscillator(), bounds, e.cfg.InitialBody())
	if err != nil {
		return err
	}
	for _, m := range reg.DefaultMetrics() {
		sim.AddMetric(m)
	}
	e.simulator = sim
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*dynamo.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, e.cfg.SimConfig())
}

func (e *Experiment) Config() *config.Config { return e.cfg }

// Simulator returns the underlying simulator for attaching renderers and
// observers.
func (e *Experiment) Simulator() *dynamo.Simulator {
	return e.simulator
}

// Build returns a sweep build function for cfg.
func Build(reg *Registry, cfg *config.Config) dynamo.Build {
	return func() (*dynamo.Simulator, error) {
		exp := New(cfg)
		if err := exp.Setup(reg); err != nil {
			return nil, err
		}
		return exp.Simulator(), nil
	}
}
