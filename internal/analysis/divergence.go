package analysis

import (
	"math"

	"github.com/san-kum/bouncebox/internal/dynamo"
)

// Divergence estimates the mean exponential growth rate of the separation
// between two bodies whose initial heights differ by perturbation. The
// perturbed body is pulled back to distance perturbation whenever the
// separation exceeds 1.
func Divergence(
	integ dynamo.Integrator,
	bounds dynamo.Bounds,
	body dynamo.Body,
	dt, duration float64,
	perturbation float64,
) float64 {
	if dt <= 0 || perturbation <= 0 {
		return 0
	}

	a := body
	b := body
	b.Position.Y = bounds.Clamp(b.Position.Y + perturbation)
	d0 := math.Abs(b.Position.Y - a.Position.Y)
	if d0 == 0 {
		return 0
	}

	sumLog := 0.0
	count := 0

	for t := 0.0; t < duration; t += dt {
		a, _ = integ.Step(a, bounds, dt)
		b, _ = integ.Step(b, bounds, dt)

		dy := b.Position.Y - a.Position.Y
		dv := (b.Velocity.Y - a.Velocity.Y) * dt
		sep := math.Hypot(dy, dv)

		if sep > 0 {
			sumLog += math.Log(sep / d0)
			count++
		}

		if sep > 1.0 {
			scale := d0 / sep
			b.Position.Y = a.Position.Y + dy*scale
			b.Velocity.Y = a.Velocity.Y + (b.Velocity.Y-a.Velocity.Y)*scale
		}
	}

	if count == 0 {
		return 0
	}
	return sumLog / (float64(count) * dt)
}
