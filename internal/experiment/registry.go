package experiment

import (
	"fmt"
	"sort"

	"github.com/san-kum/bouncebox/internal/dynamo"
	"github.com/san-kum/bouncebox/internal/integrators"
	"github.com/san-kum/bouncebox/internal/metrics"
)

type Registry struct {
	integrators map[string]func(substeps int) dynamo.Integrator
}

func NewRegistry() *Registry {
	r := &Registry{
		integrators: make(map[string]func(int) dynamo.Integrator),
	}

	r.integrators["halfstep"] = func(int) dynamo.Integrator { return integrators.NewHalfStep() }
	r.integrators["euler"] = func(int) dynamo.Integrator { return integrators.NewEuler() }
	r.integrators["verlet"] = func(int) dynamo.Integrator { return integrators.NewVerlet() }
	r.integrators["leapfrog"] = func(int) dynamo.Integrator { return integrators.NewLeapfrog() }
	r.integrators["substep"] = func(n int) dynamo.Integrator {
		return integrators.NewSubstep(integrators.NewHalfStep(), n)
	}

	return r
}

func (r *Registry) GetIntegrator(name string, substeps int) (dynamo.Integrator, error) {
	fn, ok := r.integrators[name]
	if !ok {
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
	return fn(substeps), nil
}

func (r *Registry) ListIntegrators() []string {
	names := make([]string, 0, len(r.integrators))
	for name := range r.integrators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics() []dynamo.Metric {
	return metrics.Defaults()
}
