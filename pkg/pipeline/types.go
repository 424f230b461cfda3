package pipeline

import (
	"image"
	"image/color"

	"github.com/user/picedit/pkg/editor"
	"github.com/user/picedit/pkg/geometry"
	"github.com/user/picedit/pkg/ports"
)

// =============================================================================
// Decode Stage Types
// =============================================================================

// DecodeInput contains encoded image bytes.
type DecodeInput struct {
	Data []byte
}

// DecodeResult contains the decoded image and its metadata.
type DecodeResult struct {
	Source editor.ImageSource
}

// =============================================================================
// Compose Stage Types
// =============================================================================

// ResizeSpec describes an optional output size. Zero means unset.
type ResizeSpec struct {
	Width               int
	Height              int
	MaintainAspectRatio bool
}

// Enabled reports whether any target dimension is set.
func (r ResizeSpec) Enabled() bool {
	return r.Width > 0 || r.Height > 0
}

// WatermarkSpec describes the tiled text watermark.
type WatermarkSpec struct {
	Text        string
	Color       color.Color
	Opacity     float64
	RotationDeg float64
	SpacingX    float64 // <= 0 uses the size-derived default
	SpacingY    float64
}

// ComposeInput contains the source image and the edit to apply.
type ComposeInput struct {
	Image       image.Image
	Window      geometry.Rect // image-space source window; zero size means the full image
	RotationDeg float64
	FlipX       bool
	FlipY       bool
	Scale       float64 // output scale applied to the rotated bounding box; <= 0 means 1
	Resize      ResizeSpec
	Watermark   *WatermarkSpec // nil means no watermark
}

// ComposeResult contains the rendered buffer handed to the encoder.
type ComposeResult struct {
	Image          image.Image
	Width          int
	Height         int
	Resized        bool
	WatermarkTiles int
}

// =============================================================================
// Encode Stage Types
// =============================================================================

// EncodeInput contains the buffer and the encoding constraints.
type EncodeInput struct {
	ExportID        string // for debug output only
	Image           image.Image
	Format          ports.ImageFormat
	Quality         float64 // (0, 1]; ignored for PNG
	TargetSizeBytes int64   // 0 means no target; ignored for PNG
}

// EncodeAttempt records one encoder call.
type EncodeAttempt struct {
	Quality float64
	Size    int
}

// EncodeResult contains the chosen encoding.
type EncodeResult struct {
	Data      []byte
	Quality   float64
	Attempts  []EncodeAttempt
	TargetMet bool
}
