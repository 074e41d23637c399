package audio

import (
	"log"
	"math"
	"math/cmplx"
	"sync"

	"github.com/gordonklaus/portaudio"
	"github.com/mjibson/go-dsp/fft"

	"github.com/san-kum/bouncebox/internal/dynamo"
)

const (
	SampleRate = 44100
	BufferSize = 1024

	minPitch = 110.0
	maxPitch = 440.0
)

// Synth turns simulation frames into a tone: height sets the pitch, the
// square's size sets the loudness and every bounce adds a short click.
// OnFrame may be called from the simulation goroutine while Fill runs on
// the audio callback.
type Synth struct {
	mu        sync.Mutex
	bounds    dynamo.Bounds
	amplitude float64
	pitch     float64
	level     float64
	clicks    int

	// band levels of the last buffer, read by the HUD
	bands [3]float64

	// audio thread only
	phase       float64
	pitchSmooth float64
	levelSmooth float64
	click       float64
	filter      [2]float64
	buf         []complex128
	smooth      [3]float64
}

func NewSynth(bounds dynamo.Bounds, amplitude float64) *Synth {
	return &Synth{
		bounds:      bounds,
		amplitude:   amplitude,
		pitch:       minPitch,
		pitchSmooth: minPitch,
		buf:         make([]complex128, BufferSize),
	}
}

// Pitch maps y linearly from [bottom, top] onto [110, 440] Hz.
func Pitch(y float64, bounds dynamo.Bounds) float64 {
	h := bounds.Height()
	if h <= 0 {
		return minPitch
	}
	t := (bounds.Clamp(y) - bounds.Bottom) / h
	return minPitch + t*(maxPitch-minPitch)
}

func (s *Synth) OnFrame(f dynamo.Frame) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pitch = Pitch(f.Body.Position.Y, s.bounds)
	if s.amplitude > 0 {
		s.level = math.Min(f.Size/s.amplitude, 1)
	}
	if f.Events.Bounced() {
		s.clicks++
	}
}

// Fill renders one stereo buffer.
func (s *Synth) Fill(out [][]float32) {
	s.mu.Lock()
	pitch, level, clicks := s.pitch, s.level, s.clicks
	s.clicks = 0
	s.mu.Unlock()

	if clicks > 0 {
		s.click = 1
	}

	dt := 1.0 / float64(SampleRate)
	n := len(out[0])
	for i := 0; i < n; i++ {
		s.pitchSmooth = s.pitchSmooth*0.999 + pitch*0.001
		s.levelSmooth = s.levelSmooth*0.995 + level*0.005

		s.phase += s.pitchSmooth * dt
		s.phase -= math.Floor(s.phase)

		tone := triangle(s.phase) * (0.2 + 0.8*s.levelSmooth)
		noise := math.Sin(s.phase*97) * s.click
		s.click *= 0.995

		var l, r float64
		l, s.filter[0] = lpf(tone+noise*0.5, 1200, dt, s.filter[0])
		r, s.filter[1] = lpf(tone+noise*0.4, 1200, dt, s.filter[1])

		out[0][i] = float32(l * 0.25)
		if len(out) > 1 {
			out[1][i] = float32(r * 0.25)
		}
		if i < len(s.buf) {
			s.buf[i] = complex(l, 0)
		}
	}
	s.analyze(n)
}

// analyze splits the spectrum of the last buffer into low, mid and high
// bands normalised to [0, 1].
func (s *Synth) analyze(n int) {
	n = min(n, len(s.buf))
	if n == 0 {
		return
	}
	for i := 0; i < n; i++ {
		w := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(max(n-1, 1))))
		s.buf[i] = complex(real(s.buf[i])*w, 0)
	}
	spectrum := fft.FFT(s.buf[:n])

	var sums [3]float64
	for i := 0; i < n/2; i++ {
		mag := cmplx.Abs(spectrum[i])
		switch {
		case i < 5:
			sums[0] += mag
		case i < 46:
			sums[1] += mag
		default:
			sums[2] += mag
		}
	}
	for i, v := range sums {
		s.smooth[i] = s.smooth[i]*0.8 + math.Min(v/float64(n), 1)*0.2
	}

	s.mu.Lock()
	s.bands = s.smooth
	s.mu.Unlock()
}

// Bands returns the smoothed low, mid and high levels. Safe to call while
// the audio callback is running.
func (s *Synth) Bands() (low, mid, high float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.bands[0], s.bands[1], s.bands[2]
}

func triangle(phase float64) float64 {
	p := phase - math.Floor(phase)
	return 4.0*math.Abs(p-0.5) - 1.0
}

// lpf is a one-pole low pass.
func lpf(sample, cutoff, dt, state float64) (float64, float64) {
	rc := 1.0 / (2.0 * math.Pi * cutoff)
	alpha := dt / (rc + dt)
	out := state + alpha*(sample-state)
	return out, out
}

// Processor plays a Synth on the default output device.
type Processor struct {
	Synth  *Synth
	stream *portaudio.Stream
	Active bool
}

func NewProcessor(synth *Synth) *Processor {
	return &Processor{Synth: synth}
}

func (p *Processor) Start() error {
	if err := portaudio.Initialize(); err != nil {
		return err
	}

	stream, err := portaudio.OpenDefaultStream(0, 2, SampleRate, BufferSize, p.Synth.Fill)
	if err != nil {
		portaudio.Terminate()
		return err
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return err
	}

	log.Printf("audio started: %d Hz, %d frames per buffer", SampleRate, BufferSize)
	p.stream = stream
	p.Active = true
	return nil
}

func (p *Processor) Stop() {
	if !p.Active {
		return
	}
	p.stream.Stop()
	p.stream.Close()
	portaudio.Terminate()
	p.Active = false
}
