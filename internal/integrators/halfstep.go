package integrators

import (
	"math"

	"github.com/san-kum/bouncebox/internal/dynamo"
)

// HalfStep advances position by v*dt/2 and velocity by a*dt/2, then applies
// the velocity clamp, the wall bounce and the hard position clamp, in that
// order. This is the reference motion of the demo.
type HalfStep struct{}

func NewHalfStep() *HalfStep {
	return &HalfStep{}
}

func (h *HalfStep) Step(b dynamo.Body, bounds dynamo.Bounds, dt float64) (dynamo.Body, dynamo.Event) {
	b.Position.Y += b.Velocity.Y * dt / 2
	b.Velocity.Y += b.Acceleration.Y * dt / 2
	return b, correct(&b, bounds)
}

// correct applies the post-integration rules shared by every integrator.
// The clamp runs before the wall check, so one step can negate the
// acceleration twice.
func correct(b *dynamo.Body, bounds dynamo.Bounds) dynamo.Event {
	var ev dynamo.Event

	if math.Abs(b.Velocity.Y) > b.MaxVelocity.Y {
		b.Velocity.Y = math.Copysign(b.MaxVelocity.Y, b.Velocity.Y)
		b.Acceleration.Y = -b.Acceleration.Y
		ev |= dynamo.EventVelocityClamp
	}

	if b.Position.Y > bounds.Top {
		b.Velocity.Y = -b.Velocity.Y
		b.Acceleration.Y = -b.Acceleration.Y
		ev |= dynamo.EventBounceTop
	} else if b.Position.Y < bounds.Bottom {
		b.Velocity.Y = -b.Velocity.Y
		b.Acceleration.Y = -b.Acceleration.Y
		ev |= dynamo.EventBounceBottom
	}

	b.Position.Y = bounds.Clamp(b.Position.Y)
	return ev
}
