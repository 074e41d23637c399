package integrators

import "github.com/san-kum/bouncebox/internal/dynamo"

// Euler is a full-step semi-implicit Euler update with the same clamp and
// bounce rules as HalfStep. Used for comparison runs only.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(b dynamo.Body, bounds dynamo.Bounds, dt float64) (dynamo.Body, dynamo.Event) {
	b.Velocity.Y += b.Acceleration.Y * dt
	b.Position.Y += b.Velocity.Y * dt
	return b, correct(&b, bounds)
}
