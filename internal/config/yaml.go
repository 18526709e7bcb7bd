// SPDX-License-Identifier: MIT
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid configuration")

// LoadConfig loads configuration from a YAML file specified by path. If path
// is empty, it searches the default location ("config.yaml"). If no file is
// found, it uses built-in defaults. The final configuration is validated
// before it is returned.
func LoadConfig(path string) (*Config, error) {
	cfg := NewConfig()

	if path == "" {
		candidates := []string{
			"config.yaml",
		}
		for _, candidate := range candidates {
			if _, err := os.Stat(candidate); err == nil {
				path = candidate
				break
			}
		}
		if path == "" {
			if err := cfg.Validate(); err != nil {
				return nil, fmt.Errorf("invalid default configuration: %w", err)
			}
			return cfg, nil
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks every field against the limits the render session
// supports.
func (c *Config) Validate() error {
	if c.Plugin.Path == "" {
		return fmt.Errorf("%w: plugin.path must be set", ErrInvalid)
	}
	if c.Plugin.Inputs < 0 || c.Plugin.Outputs < 0 {
		return fmt.Errorf("%w: plugin channel counts must not be negative", ErrInvalid)
	}

	// Render Validation
	if c.Render.SampleRate < MinSampleRate || c.Render.SampleRate > MaxSampleRate {
		return fmt.Errorf("%w: render.sample_rate %d outside [%d, %d]",
			ErrInvalid, c.Render.SampleRate, MinSampleRate, MaxSampleRate)
	}
	if c.Render.BlockSize < 1 || c.Render.BlockSize > MaxBufferFrames {
		return fmt.Errorf("%w: render.block_size %d outside [1, %d]",
			ErrInvalid, c.Render.BlockSize, MaxBufferFrames)
	}
	if c.Render.TotalBlocks < 0 {
		return fmt.Errorf("%w: render.total_blocks must not be negative", ErrInvalid)
	}
	if c.Render.TickInterval < 1 {
		return fmt.Errorf("%w: render.tick_interval must be at least 1", ErrInvalid)
	}

	// Notes Validation
	if c.Notes.Channel < 0 || c.Notes.Channel > 15 {
		return fmt.Errorf("%w: notes.channel %d outside [0, 15]", ErrInvalid, c.Notes.Channel)
	}
	if c.Notes.Velocity < 0 || c.Notes.Velocity > 127 {
		return fmt.Errorf("%w: notes.velocity %d outside [0, 127]", ErrInvalid, c.Notes.Velocity)
	}
	if c.Notes.SMFFile == "" && len(c.Notes.Pitches) == 0 {
		return fmt.Errorf("%w: notes.pitches must not be empty", ErrInvalid)
	}
	for i, p := range c.Notes.Pitches {
		if p < 0 || p > 127 {
			return fmt.Errorf("%w: notes.pitches[%d] = %d outside [0, 127]", ErrInvalid, i, p)
		}
	}

	// Output Validation
	if c.Output.Path == "" {
		return fmt.Errorf("%w: output.path must be set", ErrInvalid)
	}
	if c.Output.Channels < 1 {
		return fmt.Errorf("%w: output.channels must be at least 1", ErrInvalid)
	}

	return nil
}

// IsBuiltin reports whether the configured plugin is the built-in instrument.
func (c *Config) IsBuiltin() bool {
	return c.Plugin.Path == BuiltinSine
}
