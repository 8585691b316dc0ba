// Package config loads plotview settings from a TOML file.
package config

import (
	"errors"
	"fmt"

	"github.com/BurntSushi/toml"
)

type Config struct {
	// Elements are the chart element ids mounted at start, in tab order.
	Elements []string `toml:"elements"`
	Watch    bool     `toml:"watch"`
	DebugLog string   `toml:"debug_log"`
	Camera   Camera   `toml:"camera"`
	Theme    Theme    `toml:"theme"`
}

type Camera struct {
	RotateStep float64 `toml:"rotate_step"`
	ZoomStep   float64 `toml:"zoom_step"`
}

type Theme struct {
	Accent string `toml:"accent"`
	Border string `toml:"border"`
}

func Default() Config {
	return Config{
		Elements: []string{"chart1"},
		Camera: Camera{
			RotateStep: 0.1,
			ZoomStep:   1.2,
		},
		Theme: Theme{
			Accent: "#7C3AED",
			Border: "#243141",
		},
	}
}

// Load decodes path over the defaults. Keys missing from the file keep their
// default value; unknown keys are an error.
func Load(path string) (Config, error) {
	c := Default()
	md, err := toml.DecodeFile(path, &c)
	if err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	if und := md.Undecoded(); len(und) > 0 {
		return Config{}, fmt.Errorf("config %s: unknown key %q", path, und[0].String())
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return c, nil
}

func (c Config) Validate() error {
	if len(c.Elements) == 0 {
		return errors.New("no elements")
	}
	seen := make(map[string]bool, len(c.Elements))
	for _, id := range c.Elements {
		if id == "" {
			return errors.New("empty element id")
		}
		if seen[id] {
			return fmt.Errorf("duplicate element %q", id)
		}
		seen[id] = true
	}
	if c.Camera.RotateStep <= 0 {
		return fmt.Errorf("camera.rotate_step must be positive, got %g", c.Camera.RotateStep)
	}
	if c.Camera.ZoomStep <= 1 {
		return fmt.Errorf("camera.zoom_step must be greater than 1, got %g", c.Camera.ZoomStep)
	}
	return nil
}
