// Package dynamo provides the simulation core for a single bouncing body.
//
// The package defines the types and interfaces shared by every host loop:
//
//   - [Body]: position, velocity, max velocity and acceleration of the square
//   - [Bounds]: the top and bottom walls the body bounces between
//   - [Integrator]: per-tick motion update (see package integrators)
//   - [Oscillator]: pulsing scale derived from elapsed time and velocity
//   - [Renderer]: one-way sink receiving translation and scale each frame
//   - [Simulator]: owns the body and runs the fixed per-frame order
//
// # Frame Order
//
// Every tick runs Integrator, then Oscillator, then each Renderer, then
// observers and metrics. Hosts drive the simulator either with [Simulator.Tick]
// (one call per rendered frame) or offline with [Simulator.Run].
//
// # Example
//
//	integ := integrators.NewHalfStep()
//	s, err := dynamo.New(integ, dynamo.DefaultOscillator(), bounds, body)
//	if err != nil {
//	    return err
//	}
//	frame, err := s.Tick(1.0 / 60)
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe. [RunSweep] runs several
// independent simulators concurrently, one goroutine each.
package dynamo
