package integrators

import "github.com/san-kum/bouncebox/internal/dynamo"

// Verlet is velocity Verlet. With constant acceleration between walls it
// gives the exact kinematics, so it is the reference for comparisons.
type Verlet struct{}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Step(b dynamo.Body, bounds dynamo.Bounds, dt float64) (dynamo.Body, dynamo.Event) {
	b.Position.Y += b.Velocity.Y*dt + 0.5*b.Acceleration.Y*dt*dt
	b.Velocity.Y += b.Acceleration.Y * dt
	return b, correct(&b, bounds)
}

// Leapfrog kicks velocity by half a step, drifts position a full step and
// kicks again.
type Leapfrog struct{}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Step(b dynamo.Body, bounds dynamo.Bounds, dt float64) (dynamo.Body, dynamo.Event) {
	halfDt := dt * 0.5
	b.Velocity.Y += b.Acceleration.Y * halfDt
	b.Position.Y += b.Velocity.Y * dt
	b.Velocity.Y += b.Acceleration.Y * halfDt
	return b, correct(&b, bounds)
}
