// Package picedit provides a high-level API for building image exports.
package picedit

import (
	"image/color"

	"github.com/user/picedit/pkg/editor"
	"github.com/user/picedit/pkg/geometry"
	"github.com/user/picedit/pkg/orchestrator"
	"github.com/user/picedit/pkg/ports"
)

// QualityPreset represents an encoder quality preset name.
type QualityPreset string

const (
	QualityLow    QualityPreset = "low"
	QualityMedium QualityPreset = "medium"
	QualityHigh   QualityPreset = "high"
)

// GetQuality returns the encoder quality (0.01-1) for the given preset.
func GetQuality(preset QualityPreset) float64 {
	switch preset {
	case QualityLow:
		return 0.6
	case QualityHigh:
		return 0.92
	default: // medium
		return 0.8
	}
}

// SettingsBuilder provides a fluent interface for building an export.
type SettingsBuilder struct {
	config orchestrator.Config
}

// NewSettingsBuilder creates a new SettingsBuilder with JPEG high-quality defaults.
func NewSettingsBuilder() *SettingsBuilder {
	return &SettingsBuilder{
		config: orchestrator.DefaultConfig(),
	}
}

// NewWebBuilder creates a SettingsBuilder tuned for web delivery:
// WEBP at medium quality.
func NewWebBuilder() *SettingsBuilder {
	b := NewSettingsBuilder()
	b.config.Settings.Format = ports.FormatWEBP
	b.config.Settings.Quality = GetQuality(QualityMedium)
	return b
}

// Build returns the final Config, applying constraints.
func (b *SettingsBuilder) Build() orchestrator.Config {
	cfg := b.config

	cfg.Settings = cfg.Settings.WithQuality(cfg.Settings.Quality)

	if cfg.Settings.TargetSizeBytes < 0 {
		cfg.Settings.TargetSizeBytes = 0
	}
	if cfg.Settings.TargetWidth < 0 {
		cfg.Settings.TargetWidth = 0
	}
	if cfg.Settings.TargetHeight < 0 {
		cfg.Settings.TargetHeight = 0
	}
	cfg.Scale = editor.EditState{}.WithScale(cfg.Scale).Scale

	return cfg
}

// Settings returns only the export settings of the built config.
func (b *SettingsBuilder) Settings() editor.ExportSettings {
	return b.Build().Settings
}

// WithInput sets the source image path.
func (b *SettingsBuilder) WithInput(path string) *SettingsBuilder {
	b.config.InputPath = path
	return b
}

// WithOutput sets the output path.
func (b *SettingsBuilder) WithOutput(path string) *SettingsBuilder {
	b.config.OutputPath = path
	return b
}

// WithCrop sets the crop rectangle in image pixels.
func (b *SettingsBuilder) WithCrop(x, y, width, height float64) *SettingsBuilder {
	b.config.Crop = &geometry.Rect{X: x, Y: y, Width: width, Height: height}
	return b
}

// WithRotation sets the rotation in degrees.
func (b *SettingsBuilder) WithRotation(deg float64) *SettingsBuilder {
	b.config.RotationDeg = deg
	return b
}

// WithFlip sets horizontal and vertical flips.
func (b *SettingsBuilder) WithFlip(x, y bool) *SettingsBuilder {
	b.config.FlipX = x
	b.config.FlipY = y
	return b
}

// WithZoom sets the user zoom and whether it is applied to the export.
func (b *SettingsBuilder) WithZoom(scale float64, apply bool) *SettingsBuilder {
	b.config.Scale = scale
	b.config.Settings.ApplyZoom = apply
	return b
}

// WithFormat sets the output format.
func (b *SettingsBuilder) WithFormat(format ports.ImageFormat) *SettingsBuilder {
	b.config.Settings.Format = format
	return b
}

// WithQuality sets the encoder quality (0.01-1).
func (b *SettingsBuilder) WithQuality(q float64) *SettingsBuilder {
	b.config.Settings.Quality = q
	return b
}

// WithQualityPreset sets the encoder quality from a preset.
func (b *SettingsBuilder) WithQualityPreset(preset QualityPreset) *SettingsBuilder {
	b.config.Settings.Quality = GetQuality(preset)
	return b
}

// WithTargetSize sets the output byte budget (0 = none).
func (b *SettingsBuilder) WithTargetSize(bytes int64) *SettingsBuilder {
	b.config.Settings.TargetSizeBytes = bytes
	return b
}

// WithResize sets the output dimensions. Zero leaves a dimension to be derived.
func (b *SettingsBuilder) WithResize(width, height int, maintainAspect bool) *SettingsBuilder {
	b.config.Settings.TargetWidth = width
	b.config.Settings.TargetHeight = height
	b.config.Settings.MaintainAspectRatio = maintainAspect
	return b
}

// WithWatermark enables a tiled text watermark with default styling.
func (b *SettingsBuilder) WithWatermark(text string) *SettingsBuilder {
	wm := editor.DefaultWatermark()
	wm.Enabled = text != ""
	wm.Text = text
	b.config.Settings.Watermark = wm
	return b
}

// WithWatermarkStyle sets watermark colour, opacity and rotation.
func (b *SettingsBuilder) WithWatermarkStyle(c color.NRGBA, opacity, rotationDeg float64) *SettingsBuilder {
	b.config.Settings.Watermark.Color = c
	b.config.Settings.Watermark.Opacity = opacity
	b.config.Settings.Watermark.RotationDeg = rotationDeg
	return b
}

// WithWatermarkSpacing sets the watermark tile spacing (0 = derived from the image).
func (b *SettingsBuilder) WithWatermarkSpacing(x, y float64) *SettingsBuilder {
	b.config.Settings.Watermark.SpacingX = x
	b.config.Settings.Watermark.SpacingY = y
	return b
}

// KBToBytes converts kilobytes to bytes using 1024 as the base.
func KBToBytes(kb float64) int64 {
	return int64(kb * 1024)
}
