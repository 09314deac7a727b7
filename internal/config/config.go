package config

import (
	"fmt"
	"time"

	"gopkg.in/gcfg.v1"
)

const (
	WindowWidth  = 320
	WindowHeight = 240
	WindowTitle  = "corner viz"

	// Field parameters
	ParticleCount  = 28
	PulseKick      = 0.8
	StimulusKick   = 0.6
	DebounceMillis = 150

	// Audio parameters
	VisualRingSize     = 8192
	BeatWindow         = 1024
	BeatThreshold      = 1.6
	BeatCooldownMillis = 250
	SmoothingFactor    = 0.9
)

type WindowConfig struct {
	Width, Height int
	Title         string
}

type FieldConfig struct {
	ParticleCount int
	// Seed of the particle random source. Zero means seed from the clock.
	Seed         uint64
	PulseKick    float64
	StimulusKick float64
}

type ResizeConfig struct {
	DebounceMillis int
}

type AudioConfig struct {
	Enabled            bool
	BeatThreshold      float64
	BeatCooldownMillis int
}

// Config mirrors the sections of a corner-viz INI file.
type Config struct {
	Window WindowConfig
	Field  FieldConfig
	Resize ResizeConfig
	Audio  AudioConfig
}

func Default() Config {
	return Config{
		Window: WindowConfig{Width: WindowWidth, Height: WindowHeight, Title: WindowTitle},
		Field: FieldConfig{
			ParticleCount: ParticleCount,
			PulseKick:     PulseKick,
			StimulusKick:  StimulusKick,
		},
		Resize: ResizeConfig{DebounceMillis: DebounceMillis},
		Audio: AudioConfig{
			Enabled:            true,
			BeatThreshold:      BeatThreshold,
			BeatCooldownMillis: BeatCooldownMillis,
		},
	}
}

// Load reads path over the defaults. An empty path yields the defaults.
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	if err := gcfg.ReadFileInto(&c, path); err != nil {
		return c, fmt.Errorf("reading config %s: %w", path, err)
	}
	return c, c.Validate()
}

// Parse is Load for in-memory config text.
func Parse(text string) (Config, error) {
	c := Default()
	if err := gcfg.ReadStringInto(&c, text); err != nil {
		return c, fmt.Errorf("parsing config: %w", err)
	}
	return c, c.Validate()
}

func (c *Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf(
			"Window size must be positive, but is %dx%d.",
			c.Window.Width, c.Window.Height,
		)
	}
	if c.Field.ParticleCount <= 0 {
		return fmt.Errorf(
			"Need a positive ParticleCount, but is %d.", c.Field.ParticleCount,
		)
	}
	if c.Field.PulseKick < 0 {
		return fmt.Errorf("PulseKick given a negative value, %g.", c.Field.PulseKick)
	} else if c.Field.StimulusKick < 0 {
		return fmt.Errorf("StimulusKick given a negative value, %g.", c.Field.StimulusKick)
	}
	if c.Resize.DebounceMillis < 0 {
		return fmt.Errorf("DebounceMillis given a negative value, %d.", c.Resize.DebounceMillis)
	}
	if c.Audio.BeatThreshold <= 1 {
		return fmt.Errorf(
			"BeatThreshold must be greater than 1, but is %g.", c.Audio.BeatThreshold,
		)
	}
	if c.Audio.BeatCooldownMillis < 0 {
		return fmt.Errorf("BeatCooldownMillis given a negative value, %d.", c.Audio.BeatCooldownMillis)
	}
	return nil
}

func (r ResizeConfig) Debounce() time.Duration {
	return time.Duration(r.DebounceMillis) * time.Millisecond
}

func (a AudioConfig) BeatCooldown() time.Duration {
	return time.Duration(a.BeatCooldownMillis) * time.Millisecond
}
