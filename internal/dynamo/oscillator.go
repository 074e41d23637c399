package dynamo

import "math"

const (
	DefaultFrequency = 5.0
	DefaultAmplitude = 50.0
)

// Oscillator computes the pulsing scale of the square. It keeps no state;
// elapsed time is tracked by the caller.
type Oscillator struct {
	Frequency float64
	Amplitude float64
}

func DefaultOscillator() Oscillator {
	return Oscillator{Frequency: DefaultFrequency, Amplitude: DefaultAmplitude}
}

// Size returns |sin(elapsed * (vy/maxVy * Frequency))| * Amplitude.
// A zero maxVy yields 0 and ErrZeroMaxVelocity.
func (o Oscillator) Size(elapsed, vy, maxVy float64) (float64, error) {
	if maxVy == 0 {
		return 0, ErrZeroMaxVelocity
	}
	return math.Abs(math.Sin(elapsed*(vy/maxVy*o.Frequency))) * o.Amplitude, nil
}

// Size uses the default oscillator.
func Size(elapsed, vy, maxVy float64) (float64, error) {
	return DefaultOscillator().Size(elapsed, vy, maxVy)
}
