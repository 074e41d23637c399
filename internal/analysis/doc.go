// Package analysis provides offline tools for recorded bounce runs.
//
//   - [PowerSpectrum], [DominantFrequency]: spectra of a frame series via go-dsp
//   - [PhasePortrait]: position.y against velocity.y
//   - [BounceSection]: velocity.y sampled at each wall contact
//   - [Divergence]: sensitivity of the motion to the starting height
//
// # Pulse Frequency
//
// The size signal of a run carries the oscillator frequency:
//
//	size := analysis.Series(frames, analysis.Size)
//	hz, _ := analysis.DominantFrequency(size, 1/dt)
package analysis
