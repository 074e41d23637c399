package metrics

import (
	"math"

	"github.com/san-kum/bouncebox/internal/dynamo"
)

type MeanSize struct {
	name    string
	sum     float64
	samples int
}

func NewMeanSize() *MeanSize {
	return &MeanSize{
		name: "mean_size",
	}
}

func (m *MeanSize) Name() string {
	return m.name
}

func (m *MeanSize) Observe(f dynamo.Frame) {
	m.sum += f.Size
	m.samples++
}

func (m *MeanSize) Value() float64 {
	if m.samples == 0 {
		return 0
	}
	return m.sum / float64(m.samples)
}

func (m *MeanSize) Reset() {
	m.sum = 0
	m.samples = 0
}

type MaxSize struct {
	name string
	max  float64
}

func NewMaxSize() *MaxSize {
	return &MaxSize{
		name: "max_size",
	}
}

func (m *MaxSize) Name() string { return m.name }

func (m *MaxSize) Observe(f dynamo.Frame) {
	m.max = math.Max(m.max, f.Size)
}

func (m *MaxSize) Value() float64 { return m.max }

func (m *MaxSize) Reset() { m.max = 0 }

// Defaults returns a fresh set of every frame metric.
func Defaults() []dynamo.Metric {
	return []dynamo.Metric{
		NewBounces(),
		NewVelocityClamps(),
		NewDoubleFlips(),
		NewPeakSpeed(),
		NewMeanSize(),
		NewMaxSize(),
	}
}
