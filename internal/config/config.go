package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/bouncebox/internal/dynamo"
)

const (
	DefaultDt         = 1.0 / 60
	DefaultDuration   = 10.0
	DefaultSquareSize = 50.0
	DefaultBorderSize = 10.0
	DefaultBaseHeight = 400.0
	DefaultBaseWidth  = 200.0
	DefaultVelocity   = 5.0
	DefaultMaxSpeed   = 1500.0
	DefaultAccel      = 50.0
	DefaultTitle      = "Simple test game"
)

type Config struct {
	Integrator string           `yaml:"integrator"`
	Substeps   int              `yaml:"substeps"`
	Dt         float64          `yaml:"dt"`
	Duration   float64          `yaml:"duration"`
	Theme      string           `yaml:"theme"`
	Window     WindowConfig     `yaml:"window"`
	Body       BodyConfig       `yaml:"body"`
	Oscillator OscillatorConfig `yaml:"oscillator"`
}

type WindowConfig struct {
	Title      string  `yaml:"title"`
	SquareSize float64 `yaml:"square_size"`
	BorderSize float64 `yaml:"border_size"`
	BaseHeight float64 `yaml:"base_height"`
	BaseWidth  float64 `yaml:"base_width"`
}

type BodyConfig struct {
	X     float64 `yaml:"x"`
	Y     float64 `yaml:"y"`
	VX    float64 `yaml:"vx"`
	VY    float64 `yaml:"vy"`
	MaxVX float64 `yaml:"max_vx"`
	MaxVY float64 `yaml:"max_vy"`
	AX    float64 `yaml:"ax"`
	AY    float64 `yaml:"ay"`
}

type OscillatorConfig struct {
	Frequency float64 `yaml:"frequency"`
	Amplitude float64 `yaml:"amplitude"`
}

func DefaultConfig() *Config {
	return &Config{
		Integrator: "halfstep",
		Substeps:   1,
		Dt:         DefaultDt,
		Duration:   DefaultDuration,
		Theme:      "default",
		Window: WindowConfig{
			Title:      DefaultTitle,
			SquareSize: DefaultSquareSize,
			BorderSize: DefaultBorderSize,
			BaseHeight: DefaultBaseHeight,
			BaseWidth:  DefaultBaseWidth,
		},
		Body: BodyConfig{
			VX:    DefaultVelocity,
			VY:    DefaultVelocity,
			MaxVX: DefaultMaxSpeed,
			MaxVY: DefaultMaxSpeed,
			AX:    DefaultAccel,
			AY:    DefaultAccel,
		},
		Oscillator: OscillatorConfig{
			Frequency: dynamo.DefaultFrequency,
			Amplitude: dynamo.DefaultAmplitude,
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects configurations the simulator cannot start from.
func (c *Config) Validate() error {
	var errs []error
	if !(c.Dt > 0) || math.IsInf(c.Dt, 0) {
		errs = append(errs, fmt.Errorf("dt must be positive, got %v", c.Dt))
	}
	if !(c.Duration > 0) || math.IsInf(c.Duration, 0) {
		errs = append(errs, fmt.Errorf("duration must be positive, got %v", c.Duration))
	}
	if c.Substeps < 1 {
		errs = append(errs, fmt.Errorf("substeps must be at least 1, got %d", c.Substeps))
	}
	if c.Window.BorderSize < 0 || c.Window.SquareSize < 0 || c.Window.BaseWidth <= 0 {
		errs = append(errs, fmt.Errorf("window dimensions must be positive: %w", dynamo.ErrParameterBounds))
	}
	if _, err := c.Bounds(); err != nil {
		errs = append(errs, err)
	}
	if err := c.InitialBody().Validate(); err != nil {
		errs = append(errs, fmt.Errorf("body: %w", err))
	}
	if c.Oscillator.Amplitude < 0 {
		errs = append(errs, fmt.Errorf("amplitude %v: %w", c.Oscillator.Amplitude, dynamo.ErrParameterBounds))
	}
	return errors.Join(errs...)
}

// Bounds is the vertical travel range, centred on the origin.
func (c *Config) Bounds() (dynamo.Bounds, error) {
	return dynamo.NewBounds(c.Window.BaseHeight/2, -c.Window.BaseHeight/2)
}

func (c *Config) InitialBody() dynamo.Body {
	return dynamo.Body{
		Position:     dynamo.Vec2{X: c.Body.X, Y: c.Body.Y},
		Velocity:     dynamo.Vec2{X: c.Body.VX, Y: c.Body.VY},
		MaxVelocity:  dynamo.Vec2{X: c.Body.MaxVX, Y: c.Body.MaxVY},
		Acceleration: dynamo.Vec2{X: c.Body.AX, Y: c.Body.AY},
	}
}

func (c *Config) NewOscillator() dynamo.Oscillator {
	return dynamo.Oscillator{
		Frequency: c.Oscillator.Frequency,
		Amplitude: c.Oscillator.Amplitude,
	}
}

func (c *Config) SimConfig() dynamo.Config {
	return dynamo.Config{
		Dt:         c.Dt,
		Duration:   c.Duration,
		KeepFrames: true,
	}
}

// GameHeight leaves room for a full-size square plus a pixel each side.
func (w WindowConfig) GameHeight() float64 { return w.BaseHeight + w.SquareSize + 2 }

func (w WindowConfig) WindowHeight() float64 { return w.GameHeight() + 2*w.BorderSize }

func (w WindowConfig) GameWidth() float64 { return w.BaseWidth + w.BorderSize }

func (w WindowConfig) Left() float64 { return -(w.GameWidth()/2 - w.BorderSize) }

func (w WindowConfig) Right() float64 { return w.GameWidth()/2 - w.BorderSize }
