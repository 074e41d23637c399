package metrics

import (
	"math"

	"github.com/san-kum/bouncebox/internal/dynamo"
)

type PeakSpeed struct {
	name string
	peak float64
}

func NewPeakSpeed() *PeakSpeed {
	return &PeakSpeed{
		name: "peak_speed",
	}
}

func (p *PeakSpeed) Name() string {
	return p.name
}

func (p *PeakSpeed) Observe(f dynamo.Frame) {
	p.peak = math.Max(p.peak, math.Abs(f.Body.Velocity.Y))
}

func (p *PeakSpeed) Value() float64 {
	return p.peak
}

func (p *PeakSpeed) Reset() {
	p.peak = 0
}
