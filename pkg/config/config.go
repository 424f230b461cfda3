// Package config provides YAML configuration loading for exports.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/user/picedit/pkg/editor"
	"github.com/user/picedit/pkg/geometry"
	"github.com/user/picedit/pkg/orchestrator"
	"github.com/user/picedit/pkg/ports"
)

// ErrInvalidConfig is returned for values that cannot be converted.
var ErrInvalidConfig = errors.New("invalid config")

// Config represents the full configuration for an export.
type Config struct {
	// Input/Output
	InputPath  string `yaml:"input"`
	OutputPath string `yaml:"output"`

	// Edit
	Crop      *CropConfig `yaml:"crop"`
	Rotate    float64     `yaml:"rotate"`
	FlipX     bool        `yaml:"flip_x"`
	FlipY     bool        `yaml:"flip_y"`
	Zoom      float64     `yaml:"zoom"`
	ApplyZoom bool        `yaml:"apply_zoom"`

	// Output
	Format              string  `yaml:"format"`
	Quality             float64 `yaml:"quality"`
	TargetSize          string  `yaml:"target_size"` // e.g. "500KB"; empty means none
	Width               int     `yaml:"width"`
	Height              int     `yaml:"height"`
	MaintainAspectRatio bool    `yaml:"maintain_aspect_ratio"`

	Watermark WatermarkConfig `yaml:"watermark"`

	// Logging and debug
	LogLevel string `yaml:"log_level"`
	Debug    bool   `yaml:"debug"`
	DebugDir string `yaml:"debug_dir"`
}

// CropConfig is an image-space crop rectangle.
type CropConfig struct {
	X      float64 `yaml:"x"`
	Y      float64 `yaml:"y"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// WatermarkConfig represents the tiled text watermark. It is enabled when Text is set.
type WatermarkConfig struct {
	Text     string  `yaml:"text"`
	Color    string  `yaml:"color"`
	Opacity  float64 `yaml:"opacity"`
	Rotation float64 `yaml:"rotation"`
	SpacingX float64 `yaml:"spacing_x"`
	SpacingY float64 `yaml:"spacing_y"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	wm := editor.DefaultWatermark()
	return Config{
		Zoom: 1,

		Format:              "jpeg",
		Quality:             0.92,
		MaintainAspectRatio: true,

		Watermark: WatermarkConfig{
			Color:    "#ffffff",
			Opacity:  wm.Opacity,
			Rotation: wm.RotationDeg,
		},

		LogLevel: "info",
		DebugDir: "./debug",
	}
}

// LoadFromFile loads configuration from a YAML file over Defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// ParseColor parses "#RRGGBB" or "#RRGGBBAA" (the "#" is optional).
func ParseColor(hex string) (color.NRGBA, error) {
	s := strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(s) != 6 && len(s) != 8 {
		return color.NRGBA{}, fmt.Errorf("%w: color %q", ErrInvalidConfig, hex)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("%w: color %q", ErrInvalidConfig, hex)
	}
	if len(s) == 6 {
		v = v<<8 | 0xFF
	}
	return color.NRGBA{
		R: uint8(v >> 24),
		G: uint8(v >> 16),
		B: uint8(v >> 8),
		A: uint8(v),
	}, nil
}

var byteUnits = []struct {
	suffix string
	mult   float64
}{
	{"GIB", 1 << 30}, {"MIB", 1 << 20}, {"KIB", 1 << 10},
	{"GB", 1 << 30}, {"MB", 1 << 20}, {"KB", 1 << 10},
	{"G", 1 << 30}, {"M", 1 << 20}, {"K", 1 << 10},
	{"B", 1},
}

// ParseByteSize parses sizes like "500KB", "1.5MB" or "2048".
// Units are binary (1KB = 1024 bytes). Empty input returns 0.
func ParseByteSize(s string) (int64, error) {
	t := strings.ToUpper(strings.TrimSpace(s))
	if t == "" {
		return 0, nil
	}
	mult := 1.0
	for _, u := range byteUnits {
		if strings.HasSuffix(t, u.suffix) {
			t = strings.TrimSpace(strings.TrimSuffix(t, u.suffix))
			mult = u.mult
			break
		}
	}
	n, err := strconv.ParseFloat(t, 64)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%w: size %q", ErrInvalidConfig, s)
	}
	v := n * mult
	if math.IsNaN(v) || math.IsInf(v, 0) || v >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: size %q out of range", ErrInvalidConfig, s)
	}
	return int64(v), nil
}

// ToExportSettings converts the output section to editor.ExportSettings.
func (c Config) ToExportSettings() (editor.ExportSettings, error) {
	settings := editor.DefaultExportSettings()

	format, err := ports.ParseImageFormat(c.Format)
	if err != nil {
		return settings, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if c.Quality <= 0 || c.Quality > 1 {
		return settings, fmt.Errorf("%w: quality %v must be in (0, 1]", ErrInvalidConfig, c.Quality)
	}
	target, err := ParseByteSize(c.TargetSize)
	if err != nil {
		return settings, err
	}
	if c.Width < 0 || c.Height < 0 {
		return settings, fmt.Errorf("%w: negative target dimensions", ErrInvalidConfig)
	}

	settings.Format = format
	settings.Quality = c.Quality
	settings.TargetSizeBytes = target
	settings.TargetWidth = c.Width
	settings.TargetHeight = c.Height
	settings.MaintainAspectRatio = c.MaintainAspectRatio
	settings.ApplyZoom = c.ApplyZoom

	if c.Watermark.Text != "" {
		col, err := ParseColor(c.Watermark.Color)
		if err != nil {
			return settings, err
		}
		if c.Watermark.Opacity < 0 || c.Watermark.Opacity > 1 {
			return settings, fmt.Errorf("%w: watermark opacity %v must be in [0, 1]", ErrInvalidConfig, c.Watermark.Opacity)
		}
		settings.Watermark = editor.Watermark{
			Enabled:     true,
			Text:        c.Watermark.Text,
			Color:       col,
			Opacity:     c.Watermark.Opacity,
			RotationDeg: c.Watermark.Rotation,
			SpacingX:    c.Watermark.SpacingX,
			SpacingY:    c.Watermark.SpacingY,
		}
	}
	return settings, nil
}

// ToOrchestratorConfig converts Config to orchestrator.Config.
func (c Config) ToOrchestratorConfig() (orchestrator.Config, error) {
	settings, err := c.ToExportSettings()
	if err != nil {
		return orchestrator.Config{}, err
	}
	oc := orchestrator.Config{
		InputPath:   c.InputPath,
		OutputPath:  c.OutputPath,
		RotationDeg: c.Rotate,
		FlipX:       c.FlipX,
		FlipY:       c.FlipY,
		Scale:       c.Zoom,
		Settings:    settings,
	}
	if c.Crop != nil {
		if c.Crop.Width <= 0 || c.Crop.Height <= 0 {
			return oc, fmt.Errorf("%w: crop must have a positive size", ErrInvalidConfig)
		}
		oc.Crop = &geometry.Rect{X: c.Crop.X, Y: c.Crop.Y, Width: c.Crop.Width, Height: c.Crop.Height}
	}
	return oc, nil
}

// ToEditState returns the edit this config applies to src.
func (c Config) ToEditState(src editor.ImageSource) (editor.EditState, error) {
	oc, err := c.ToOrchestratorConfig()
	if err != nil {
		return editor.EditState{}, err
	}
	return orchestrator.BuildEditState(src, oc), nil
}
