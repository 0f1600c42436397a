package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/taigrr/nova/pkg/models"
	"github.com/taigrr/nova/pkg/render"
)

var errInvalidConfig = errors.New("invalid config")

// Config is a scene description. It is read from an optional TOML file and
// then overridden by any flags set on the command line.
type Config struct {
	Width      int          `toml:"width"`
	Height     int          `toml:"height"`
	FOV        float64      `toml:"fov"`        // Horizontal, degrees
	Background string       `toml:"background"` // "R,G,B"
	Light      [3]float64   `toml:"light"`      // View-space direction
	Texture    string       `toml:"texture"`
	FPS        int          `toml:"fps"`
	LogLevel   string       `toml:"log_level"`
	LogFile    string       `toml:"log_file"`
	Camera     CameraConfig `toml:"camera"`
}

// CameraConfig places the orbit camera around the model.
type CameraConfig struct {
	Yaw      float64 `toml:"yaw"`   // Degrees
	Pitch    float64 `toml:"pitch"` // Degrees
	Distance float64 `toml:"distance"`
}

// DefaultConfig returns the built-in scene settings.
func DefaultConfig() Config {
	return Config{
		Width:      640,
		Height:     480,
		FOV:        render.DefaultFOV,
		Background: "30,30,40",
		Light:      [3]float64{0, 0, -1},
		FPS:        30,
		LogLevel:   "info",
		Camera: CameraConfig{
			Yaw:      30,
			Pitch:    -20,
			Distance: 3,
		},
	}
}

// LoadConfig decodes a TOML file over the defaults. Unknown keys are errors.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := toml.NewDecoder(f).DisallowUnknownFields().Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

// Validate checks ranges the renderer cannot recover from.
func (c Config) Validate() error {
	switch {
	case c.Width <= 0 || c.Height <= 0 || c.Width > render.MaxDimension || c.Height > render.MaxDimension:
		return fmt.Errorf("size %dx%d: %w", c.Width, c.Height, errInvalidConfig)
	case !(c.FOV > 0 && c.FOV < 180):
		return fmt.Errorf("fov %g: %w", c.FOV, errInvalidConfig)
	case c.FPS <= 0:
		return fmt.Errorf("fps %d: %w", c.FPS, errInvalidConfig)
	case !(c.Camera.Distance > 0):
		return fmt.Errorf("camera distance %g: %w", c.Camera.Distance, errInvalidConfig)
	case c.Light == [3]float64{}:
		return fmt.Errorf("light has no direction: %w", errInvalidConfig)
	}
	if _, err := parseColor(c.Background); err != nil {
		return err
	}
	return nil
}

// parseColor parses "R,G,B" into an opaque packed pixel.
func parseColor(s string) (uint32, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return 0, fmt.Errorf("color %q: %w", s, errInvalidConfig)
	}
	var rgb [3]uint8
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 8)
		if err != nil {
			return 0, fmt.Errorf("color %q: %w", s, errInvalidConfig)
		}
		rgb[i] = uint8(v)
	}
	return models.PackRGBA(rgb[0], rgb[1], rgb[2], 0xff), nil
}
