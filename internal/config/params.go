package config

import (
	"fmt"
	"sort"
)

type field struct {
	get func(*Config) float64
	set func(*Config, float64)
}

// params are the scalar knobs exposed to sweeps, scenarios and the picker.
var params = map[string]field{
	"velocity":  {func(c *Config) float64 { return c.Body.VY }, func(c *Config, v float64) { c.Body.VY = v }},
	"accel":     {func(c *Config) float64 { return c.Body.AY }, func(c *Config, v float64) { c.Body.AY = v }},
	"max_speed": {func(c *Config) float64 { return c.Body.MaxVY }, func(c *Config, v float64) { c.Body.MaxVY = v }},
	"y":         {func(c *Config) float64 { return c.Body.Y }, func(c *Config, v float64) { c.Body.Y = v }},
	"frequency": {func(c *Config) float64 { return c.Oscillator.Frequency }, func(c *Config, v float64) { c.Oscillator.Frequency = v }},
	"amplitude": {func(c *Config) float64 { return c.Oscillator.Amplitude }, func(c *Config, v float64) { c.Oscillator.Amplitude = v }},
	"height":    {func(c *Config) float64 { return c.Window.BaseHeight }, func(c *Config, v float64) { c.Window.BaseHeight = v }},
	"dt":        {func(c *Config) float64 { return c.Dt }, func(c *Config, v float64) { c.Dt = v }},
	"duration":  {func(c *Config) float64 { return c.Duration }, func(c *Config, v float64) { c.Duration = v }},
}

func (c *Config) Param(name string) (float64, error) {
	f, ok := params[name]
	if !ok {
		return 0, fmt.Errorf("unknown parameter: %s", name)
	}
	return f.get(c), nil
}

func (c *Config) SetParam(name string, v float64) error {
	f, ok := params[name]
	if !ok {
		return fmt.Errorf("unknown parameter: %s", name)
	}
	f.set(c, v)
	return nil
}

// SetParams applies every entry of values, stopping at the first unknown
// name.
func (c *Config) SetParams(values map[string]float64) error {
	names := make([]string, 0, len(values))
	for k := range values {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		if err := c.SetParam(k, values[k]); err != nil {
			return err
		}
	}
	return nil
}

func ParamNames() []string {
	names := make([]string, 0, len(params))
	for k := range params {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
