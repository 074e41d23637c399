package analysis

import (
	"math/cmplx"

	"github.com/mjibson/go-dsp/dsputils"
	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"

	"github.com/san-kum/bouncebox/internal/dynamo"
)

// PowerSpectrum returns the magnitude of the first half of the spectrum of
// data, zero-padded to the next power of two.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	padded := dsputils.ZeroPadToNextPowerOf2(data)
	spec := fft.FFTReal(padded)
	ps := make([]float64, len(spec)/2)

	for i := range ps {
		ps[i] = cmplx.Abs(spec[i])
	}

	return ps
}

// DominantFrequency returns the strongest non-DC frequency in data, in Hz,
// and its magnitude. The mean is removed and a Hann window applied first.
func DominantFrequency(data []float64, sampleRate float64) (float64, float64) {
	if len(data) < 2 || sampleRate <= 0 {
		return 0, 0
	}

	x := make([]float64, len(data))
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))
	for i, v := range data {
		x[i] = v - mean
	}
	window.Apply(x, window.Hann)

	ps := PowerSpectrum(x)
	best, peak := 0, 0.0
	for i := 1; i < len(ps); i++ {
		if ps[i] > peak {
			best, peak = i, ps[i]
		}
	}
	if best == 0 {
		return 0, 0
	}

	n := 2 * len(ps)
	return float64(best) * sampleRate / float64(n), peak
}

// Series extracts one value per frame.
func Series(frames []dynamo.Frame, pick func(dynamo.Frame) float64) []float64 {
	out := make([]float64, len(frames))
	for i, f := range frames {
		out[i] = pick(f)
	}
	return out
}

func PositionY(f dynamo.Frame) float64 { return f.Body.Position.Y }
func VelocityY(f dynamo.Frame) float64 { return f.Body.Velocity.Y }
func Size(f dynamo.Frame) float64      { return f.Size }
