package integrators_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/bouncebox/internal/dynamo"
	"github.com/san-kum/bouncebox/internal/integrators"
)

const dt = 1.0 / 60

var bounds = dynamo.Bounds{Top: 200, Bottom: -200}

func body(y, vy, ay float64) dynamo.Body {
	return dynamo.Body{
		Position:     dynamo.Vec2{X: 3, Y: y},
		Velocity:     dynamo.Vec2{X: 5, Y: vy},
		MaxVelocity:  dynamo.Splat(1500),
		Acceleration: dynamo.Vec2{X: 50, Y: ay},
	}
}

var _ = Describe("HalfStep", func() {
	var step *integrators.HalfStep

	BeforeEach(func() {
		step = integrators.NewHalfStep()
	})

	It("moves by half of v*dt and a*dt inside the box", func() {
		next, ev := step.Step(body(0, 5, 50), bounds, dt)

		Expect(ev).To(Equal(dynamo.Event(0)))
		Expect(next.Position.Y).To(BeNumerically("~", 5.0/120, 1e-12))
		Expect(next.Velocity.Y).To(BeNumerically("~", 5+50.0/120, 1e-12))
		Expect(next.Acceleration.Y).To(Equal(50.0))
	})

	It("bounces off the top wall", func() {
		next, ev := step.Step(body(200, 5, 50), bounds, dt)

		Expect(ev).To(Equal(dynamo.EventBounceTop))
		Expect(next.Velocity.Y).To(BeNumerically("~", -5.416666666, 1e-6))
		Expect(next.Acceleration.Y).To(Equal(-50.0))
		Expect(next.Position.Y).To(Equal(200.0))
	})

	It("bounces off the bottom wall", func() {
		next, ev := step.Step(body(-200, -5, -50), bounds, dt)

		Expect(ev).To(Equal(dynamo.EventBounceBottom))
		Expect(next.Velocity.Y).To(BeNumerically("~", 5.416666666, 1e-6))
		Expect(next.Acceleration.Y).To(Equal(50.0))
		Expect(next.Position.Y).To(Equal(-200.0))
	})

	It("clamps speed and reverses acceleration", func() {
		next, ev := step.Step(body(0, 1600, 50), bounds, dt)

		Expect(ev).To(Equal(dynamo.EventVelocityClamp))
		Expect(next.Velocity.Y).To(Equal(1500.0))
		Expect(next.Acceleration.Y).To(Equal(-50.0))
	})

	It("keeps the sign when clamping a downward velocity", func() {
		next, _ := step.Step(body(0, -1600, -50), bounds, dt)

		Expect(next.Velocity.Y).To(Equal(-1500.0))
		Expect(next.Acceleration.Y).To(Equal(50.0))
	})

	// Clamp and bounce in the same step negate the acceleration twice.
	It("restores acceleration on a clamp plus bounce", func() {
		next, ev := step.Step(body(199.99, 1499.9, 50), bounds, dt)

		Expect(ev.DoubleFlip()).To(BeTrue())
		Expect(ev).To(Equal(dynamo.EventVelocityClamp | dynamo.EventBounceTop))
		Expect(next.Velocity.Y).To(Equal(-1500.0))
		Expect(next.Acceleration.Y).To(Equal(50.0))
		Expect(next.Position.Y).To(Equal(200.0))
	})

	It("leaves the x axis alone", func() {
		next, _ := step.Step(body(200, 1600, 50), bounds, dt)

		Expect(next.Position.X).To(Equal(3.0))
		Expect(next.Velocity.X).To(Equal(5.0))
		Expect(next.Acceleration.X).To(Equal(50.0))
	})

	It("does nothing with dt = 0 in range", func() {
		in := body(10, 5, 50)
		next, ev := step.Step(in, bounds, 0)

		Expect(ev).To(Equal(dynamo.Event(0)))
		Expect(next).To(Equal(in))
	})

	It("keeps the body in the box and under the speed cap", func() {
		rng := rand.New(rand.NewSource(42))
		b := body(0, 5, 50)

		for i := 0; i < 20000; i++ {
			h := rng.Float64() * 0.2
			b, _ = step.Step(b, bounds, h)

			Expect(bounds.Contains(b.Position.Y)).To(BeTrue(), "tick %d y=%v", i, b.Position.Y)
			Expect(math.Abs(b.Velocity.Y)).To(BeNumerically("<=", b.MaxVelocity.Y))
			Expect(math.Abs(b.Acceleration.Y)).To(Equal(50.0))
		}
	})
})

var _ = Describe("Euler", func() {
	It("applies velocity before position", func() {
		next, ev := integrators.NewEuler().Step(body(0, 5, 60), bounds, 0.5)

		Expect(ev).To(Equal(dynamo.Event(0)))
		Expect(next.Velocity.Y).To(Equal(35.0))
		Expect(next.Position.Y).To(Equal(17.5))
	})

	It("shares the wall rules", func() {
		next, ev := integrators.NewEuler().Step(body(199, 120, 0), bounds, 0.1)

		Expect(ev).To(Equal(dynamo.EventBounceTop))
		Expect(next.Velocity.Y).To(Equal(-120.0))
		Expect(next.Position.Y).To(Equal(200.0))
	})
})

var _ = Describe("Substep", func() {
	It("matches its inner integrator with one substep", func() {
		in := body(150, 700, 50)
		want, wantEv := integrators.NewHalfStep().Step(in, bounds, dt)
		got, gotEv := integrators.NewSubstep(integrators.NewHalfStep(), 1).Step(in, bounds, dt)

		Expect(got).To(Equal(want))
		Expect(gotEv).To(Equal(wantEv))
	})

	It("treats n < 1 as a single step", func() {
		Expect(integrators.NewSubstep(integrators.NewHalfStep(), 0).Count()).To(Equal(1))
	})

	It("merges events from every substep", func() {
		s := integrators.NewSubstep(integrators.NewEuler(), 4)
		_, ev := s.Step(body(199, 1499, 50), bounds, 0.1)

		Expect(ev.Has(dynamo.EventBounceTop)).To(BeTrue())
		Expect(ev.Has(dynamo.EventVelocityClamp)).To(BeTrue())
	})
})

var _ = Describe("Verlet and Leapfrog", func() {
	DescribeTable("follow constant-acceleration kinematics between the walls",
		func(integ dynamo.Integrator) {
			next, ev := integ.Step(body(0, 5, 60), bounds, 0.5)

			Expect(ev).To(Equal(dynamo.Event(0)))
			Expect(next.Position.Y).To(Equal(10.0))
			Expect(next.Velocity.Y).To(Equal(35.0))
		},
		Entry("verlet", integrators.NewVerlet()),
		Entry("leapfrog", integrators.NewLeapfrog()),
	)

	It("shares the wall rules", func() {
		next, ev := integrators.NewVerlet().Step(body(-199, -120, 0), bounds, 0.1)

		Expect(ev).To(Equal(dynamo.EventBounceBottom))
		Expect(next.Velocity.Y).To(Equal(120.0))
		Expect(next.Position.Y).To(Equal(-200.0))
	})
})
