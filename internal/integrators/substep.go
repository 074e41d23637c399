package integrators

import "github.com/san-kum/bouncebox/internal/dynamo"

// Substep splits every dt into n equal steps of the wrapped integrator and
// merges the events of all of them. A clamp in one substep and a bounce in
// another therefore report as a double flip for the tick, so double_flips
// counts ticks, not substeps.
type Substep struct {
	inner dynamo.Integrator
	n     int
}

func NewSubstep(inner dynamo.Integrator, n int) *Substep {
	if n < 1 {
		n = 1
	}
	return &Substep{inner: inner, n: n}
}

func (s *Substep) Count() int { return s.n }

func (s *Substep) Step(b dynamo.Body, bounds dynamo.Bounds, dt float64) (dynamo.Body, dynamo.Event) {
	var events dynamo.Event
	h := dt / float64(s.n)
	for i := 0; i < s.n; i++ {
		var ev dynamo.Event
		b, ev = s.inner.Step(b, bounds, h)
		events |= ev
	}
	return b, events
}
