package config

import "sort"

// Presets are complete configurations keyed by name. Callers must copy
// before modifying; see GetPreset.
var Presets = map[string]*Config{
	"classic": DefaultConfig(),
	"calm": with(func(c *Config) {
		c.Body.VY, c.Body.AY = 1, 10
		c.Body.MaxVY = 300
		c.Duration = 30
	}),
	"frantic": with(func(c *Config) {
		c.Body.VY, c.Body.AY = 800, 900
		c.Body.MaxVY = 1500
		c.Theme = "neon"
	}),
	"tall": with(func(c *Config) {
		c.Window.BaseHeight = 800
		c.Body.AY = 200
		c.Duration = 20
	}),
	"fine": with(func(c *Config) {
		c.Integrator = "substep"
		c.Substeps = 8
	}),
	"euler": with(func(c *Config) {
		c.Integrator = "euler"
	}),
}

func with(mod func(*Config)) *Config {
	c := DefaultConfig()
	mod(c)
	return c
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	cp := *cfg
	return &cp
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
