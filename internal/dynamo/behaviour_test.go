package dynamo_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/bouncebox/internal/dynamo"
	"github.com/san-kum/bouncebox/internal/integrators"
)

type frameLog struct {
	frames []dynamo.Frame
}

func (l *frameLog) OnFrame(f dynamo.Frame) { l.frames = append(l.frames, f) }

var _ = Describe("Simulator", func() {
	var (
		sim    *dynamo.Simulator
		frames *frameLog
		bounds = dynamo.Bounds{Top: 200, Bottom: -200}
	)

	newSim := func(body dynamo.Body) *dynamo.Simulator {
		s, err := dynamo.New(integrators.NewHalfStep(), dynamo.DefaultOscillator(), bounds, body)
		Expect(err).NotTo(HaveOccurred())
		frames = &frameLog{}
		s.AddObserver(frames)
		return s
	}

	BeforeEach(func() {
		sim = newSim(dynamo.Body{
			Velocity:     dynamo.Splat(5),
			MaxVelocity:  dynamo.Splat(1500),
			Acceleration: dynamo.Splat(50),
		})
	})

	It("starts with a zero-size square", func() {
		Expect(sim.Current().Size).To(Equal(0.0))
		Expect(sim.Current().Tick).To(Equal(0))
	})

	It("keeps the square inside the box and under the speed limit", func() {
		for i := 0; i < 60*60; i++ {
			f, err := sim.Tick(1.0 / 60)
			Expect(err).NotTo(HaveOccurred())
			Expect(bounds.Contains(f.Body.Position.Y)).To(BeTrue())
			Expect(math.Abs(f.Body.Velocity.Y)).To(BeNumerically("<=", 1500))
			Expect(f.Size).To(BeNumerically(">=", 0))
			Expect(f.Size).To(BeNumerically("<=", dynamo.DefaultAmplitude))
		}
		Expect(frames.frames).To(HaveLen(3600))
	})

	It("negates velocity and acceleration at the top wall", func() {
		sim = newSim(dynamo.Body{
			Position:     dynamo.Vec2{Y: 200},
			Velocity:     dynamo.Vec2{Y: 5},
			MaxVelocity:  dynamo.Splat(1500),
			Acceleration: dynamo.Vec2{Y: 50},
		})

		f, err := sim.Tick(1.0 / 60)
		Expect(err).NotTo(HaveOccurred())
		Expect(f.Events).To(Equal(dynamo.EventBounceTop))
		Expect(f.Body.Velocity.Y).To(BeNumerically("<", 0))
		Expect(f.Body.Acceleration.Y).To(Equal(-50.0))
		Expect(f.Body.Position.Y).To(Equal(200.0))
	})

	It("clamps an over-speed body and flips its acceleration", func() {
		sim = newSim(dynamo.Body{
			Velocity:     dynamo.Vec2{Y: 1600},
			MaxVelocity:  dynamo.Splat(1500),
			Acceleration: dynamo.Vec2{Y: 50},
		})

		f, err := sim.Tick(0.001)
		Expect(err).NotTo(HaveOccurred())
		Expect(f.Events.Has(dynamo.EventVelocityClamp)).To(BeTrue())
		Expect(f.Body.Velocity.Y).To(Equal(1500.0))
		Expect(f.Body.Acceleration.Y).To(Equal(-50.0))
	})

	It("replays the same run after Reset", func() {
		first, err := sim.Run(context.Background(), dynamo.Config{Dt: 1.0 / 60, Duration: 2, KeepFrames: true})
		Expect(err).NotTo(HaveOccurred())

		sim.Reset()
		second, err := sim.Run(context.Background(), dynamo.Config{Dt: 1.0 / 60, Duration: 2, KeepFrames: true})
		Expect(err).NotTo(HaveOccurred())

		Expect(second.Final).To(Equal(first.Final))
		Expect(second.Frames).To(Equal(first.Frames))
	})
})
