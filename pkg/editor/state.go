// Package editor holds the interactive editing model: the active image, its
// edit state and export settings, pointer-driven crop sessions, zoom/pan and
// undo history.
//
// EditState and ExportSettings are value objects. Every mutation returns a
// new value; no mutable reference is shared between components.
package editor

import (
	"image"
	"image/color"

	"github.com/user/picedit/pkg/crop"
	"github.com/user/picedit/pkg/geometry"
	"github.com/user/picedit/pkg/ports"
)

// User zoom limits applied to wheel and pinch gestures.
const (
	MinUserScale = 0.5
	MaxUserScale = 3.0
)

// ImageSource is an immutable decoded image plus its ingestion metadata.
type ImageSource struct {
	Width    int
	Height   int
	Image    image.Image
	Format   ports.ImageFormat
	ByteSize int64 // original encoded size, for display only
}

// Bounds returns the image extent for crop clamping.
func (s ImageSource) Bounds() crop.Bounds {
	return crop.Bounds{Width: float64(s.Width), Height: float64(s.Height)}
}

// EditState is the per-image interactive state.
type EditState struct {
	Scale            float64       `json:"scale"`
	RotationDeg      float64       `json:"rotation_deg"`
	FlipX            bool          `json:"flip_x"`
	FlipY            bool          `json:"flip_y"`
	IsCropping       bool          `json:"is_cropping"`
	CropRect         geometry.Rect `json:"crop_rect"`
	CropAspectLocked bool          `json:"crop_aspect_locked"`
}

// NewEditState returns the initial state for src: unit zoom, no rotation and
// a crop rectangle covering the whole image.
func NewEditState(src ImageSource) EditState {
	return EditState{
		Scale:    1,
		CropRect: geometry.FullRect(float64(src.Width), float64(src.Height)),
	}
}

// WithScale returns a copy with the user zoom clamped to [MinUserScale, MaxUserScale].
func (s EditState) WithScale(scale float64) EditState {
	if scale < MinUserScale {
		scale = MinUserScale
	}
	if scale > MaxUserScale {
		scale = MaxUserScale
	}
	s.Scale = scale
	return s
}

// RotatedBy returns a copy rotated by deg, normalised into [0, 360).
func (s EditState) RotatedBy(deg float64) EditState {
	s.RotationDeg = geometry.NormalizeDegrees(s.RotationDeg + deg)
	return s
}

// WithFlipX returns a copy with the horizontal flip set.
func (s EditState) WithFlipX(v bool) EditState {
	s.FlipX = v
	return s
}

// WithFlipY returns a copy with the vertical flip set.
func (s EditState) WithFlipY(v bool) EditState {
	s.FlipY = v
	return s
}

// WithCropping returns a copy with the crop overlay toggled.
func (s EditState) WithCropping(v bool) EditState {
	s.IsCropping = v
	return s
}

// WithAspectLocked returns a copy with the corner aspect lock toggled.
func (s EditState) WithAspectLocked(v bool) EditState {
	s.CropAspectLocked = v
	return s
}

// WithCropRect returns a copy with r clamped into b.
func (s EditState) WithCropRect(r geometry.Rect, b crop.Bounds) EditState {
	s.CropRect = crop.Clamp(r, b)
	return s
}

// Watermark configures the tiled text watermark.
// The font size is derived from the output dimensions and never set here.
type Watermark struct {
	Enabled     bool        `json:"enabled"`
	Text        string      `json:"text"`
	Color       color.NRGBA `json:"color"`
	Opacity     float64     `json:"opacity"`
	RotationDeg float64     `json:"rotation_deg"`
	SpacingX    float64     `json:"spacing_x"` // <= 0 falls back to a size-derived default
	SpacingY    float64     `json:"spacing_y"`
}

// Active reports whether the watermark should be drawn.
func (w Watermark) Active() bool {
	return w.Enabled && w.Text != ""
}

// DefaultWatermark returns a disabled, semi-transparent white watermark tilted -30°.
func DefaultWatermark() Watermark {
	return Watermark{
		Color:       color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		Opacity:     0.3,
		RotationDeg: -30,
	}
}

// ExportSettings controls the exported artifact.
type ExportSettings struct {
	Format              ports.ImageFormat `json:"format"`
	Quality             float64           `json:"quality"`
	TargetSizeBytes     int64             `json:"target_size_bytes,omitempty"` // 0 = no target
	TargetWidth         int               `json:"target_width,omitempty"`      // 0 = unset
	TargetHeight        int               `json:"target_height,omitempty"`
	MaintainAspectRatio bool              `json:"maintain_aspect_ratio"`
	Watermark           Watermark         `json:"watermark"`

	// ApplyZoom feeds EditState.Scale into the exported render size.
	// Interactive zoom is view-only unless this is set.
	ApplyZoom bool `json:"apply_zoom"`
}

// DefaultExportSettings returns JPEG at 0.92 quality with no size constraints.
func DefaultExportSettings() ExportSettings {
	return ExportSettings{
		Format:              ports.FormatJPEG,
		Quality:             0.92,
		MaintainAspectRatio: true,
		Watermark:           DefaultWatermark(),
	}
}

// ResetForImage returns the settings to use when a new image becomes active.
// Format, quality and watermark survive; size constraints do not.
func (e ExportSettings) ResetForImage() ExportSettings {
	e.TargetSizeBytes = 0
	e.TargetWidth = 0
	e.TargetHeight = 0
	return e
}

// WithQuality returns a copy with quality clamped into (0, 1].
func (e ExportSettings) WithQuality(q float64) ExportSettings {
	if q <= 0 {
		q = 0.01
	}
	if q > 1 {
		q = 1
	}
	e.Quality = q
	return e
}

// WithTargetSize returns a copy with the byte budget set (0 clears it).
func (e ExportSettings) WithTargetSize(bytes int64) ExportSettings {
	if bytes < 0 {
		bytes = 0
	}
	e.TargetSizeBytes = bytes
	return e
}
