package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned for configuration values the player cannot use
var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	MsBetweenKeyframes    int    `yaml:"ms_between_keyframes"`
	MsStep                int    `yaml:"ms_step"`
	MinMsBetweenKeyframes int    `yaml:"min_ms_between_keyframes"`
	AnimateFPS            int    `yaml:"animate_fps"`
	Workers               int    `yaml:"workers"`
	ScriptDir             string `yaml:"script_dir"`
	ShowStats             bool   `yaml:"show_stats"`
	BuildVersion          string `yaml:"-"`
}

// Default returns the viewer's stock settings: two seconds between
// keyframes, 30 frames per second.
func Default() *Config {
	return &Config{
		MsBetweenKeyframes:    2000,
		MsStep:                300,
		MinMsBetweenKeyframes: 100,
		AnimateFPS:            30,
		Workers:               runtime.NumCPU(),
		ScriptDir:             "scripts",
	}
}

// Load reads a YAML file over the defaults. Keys missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration as YAML
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case c.AnimateFPS <= 0:
		return fmt.Errorf("%w: animate_fps must be positive, got %d", ErrInvalid, c.AnimateFPS)
	case c.MinMsBetweenKeyframes <= 0:
		return fmt.Errorf("%w: min_ms_between_keyframes must be positive, got %d", ErrInvalid, c.MinMsBetweenKeyframes)
	case c.MsBetweenKeyframes < c.MinMsBetweenKeyframes:
		return fmt.Errorf("%w: ms_between_keyframes must be at least %d, got %d", ErrInvalid, c.MinMsBetweenKeyframes, c.MsBetweenKeyframes)
	case c.MsStep < 0:
		return fmt.Errorf("%w: ms_step must not be negative, got %d", ErrInvalid, c.MsStep)
	case c.Workers <= 0:
		return fmt.Errorf("%w: workers must be positive, got %d", ErrInvalid, c.Workers)
	}
	return nil
}

// Faster shortens the time between keyframes by one step
func (c *Config) Faster() int {
	c.MsBetweenKeyframes -= c.MsStep
	if c.MsBetweenKeyframes < c.MinMsBetweenKeyframes {
		c.MsBetweenKeyframes = c.MinMsBetweenKeyframes
	}
	return c.MsBetweenKeyframes
}

// Slower lengthens the time between keyframes by one step
func (c *Config) Slower() int {
	c.MsBetweenKeyframes += c.MsStep
	return c.MsBetweenKeyframes
}

// FrameMs is the animation clock advance per rendered frame
func (c *Config) FrameMs() float64 {
	return 1000.0 / float64(c.AnimateFPS)
}

// FramesPerInterval is how many frames play between two keyframes
func (c *Config) FramesPerInterval() int {
	n := c.MsBetweenKeyframes * c.AnimateFPS / 1000
	if n < 1 {
		n = 1
	}
	return n
}
