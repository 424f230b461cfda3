package ports

import (
	"image"
	"image/color"
)

// Renderer abstracts raster surface creation and resampling.
type Renderer interface {
	// NewSurface creates a transparent drawing surface of the given size.
	// It returns an error wrapping ErrRenderSurface when the surface cannot be allocated.
	NewSurface(width, height int) (Surface, error)

	// Resize resamples an image to exactly width x height with a non-nearest filter.
	Resize(img image.Image, width, height int) (image.Image, error)
}

// Surface is a 2D raster target that accepts transformed draws.
type Surface interface {
	// Width returns the surface width in pixels.
	Width() int

	// Height returns the surface height in pixels.
	Height() int

	// DrawImage draws img centred on the transform origin after applying
	// rotation, then flip/scale (ScaleX/ScaleY may be negative).
	DrawImage(img image.Image, t Transform)

	// DrawText draws a single line of text centred on the transform origin,
	// rotated about its own centre. It fails when no font face can be
	// created for style.FontSize.
	DrawText(text string, t Transform, style TextStyle) error

	// ToImage returns the surface contents.
	ToImage() image.Image
}

// Transform positions a draw on a surface.
// The forward mapping is translate(X, Y) · rotate(RotationDeg) · scale(ScaleX, ScaleY).
type Transform struct {
	X           float64
	Y           float64
	RotationDeg float64
	ScaleX      float64
	ScaleY      float64
}

// Identity returns a transform that places the draw centred at (x, y) unscaled.
func Identity(x, y float64) Transform {
	return Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1}
}

// TextStyle defines text rendering properties.
type TextStyle struct {
	FontSize float64
	Color    color.Color
	Opacity  float64 // 0-1, multiplied into Color's alpha
}
