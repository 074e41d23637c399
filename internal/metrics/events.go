package metrics

import "github.com/san-kum/bouncebox/internal/dynamo"

// EventCount counts frames whose events match a predicate.
type EventCount struct {
	name  string
	match func(dynamo.Event) bool
	count int
}

func NewBounces() *EventCount {
	return &EventCount{
		name:  "bounces",
		match: dynamo.Event.Bounced,
	}
}

func NewVelocityClamps() *EventCount {
	return &EventCount{
		name:  "velocity_clamps",
		match: func(e dynamo.Event) bool { return e.Has(dynamo.EventVelocityClamp) },
	}
}

// NewDoubleFlips counts steps where the clamp and a bounce both reversed the
// acceleration.
func NewDoubleFlips() *EventCount {
	return &EventCount{
		name:  "double_flips",
		match: dynamo.Event.DoubleFlip,
	}
}

func (c *EventCount) Name() string { return c.name }

func (c *EventCount) Observe(f dynamo.Frame) {
	if c.match(f.Events) {
		c.count++
	}
}

func (c *EventCount) Value() float64 { return float64(c.count) }

func (c *EventCount) Reset() { c.count = 0 }
