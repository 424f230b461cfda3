package compose

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/user/picedit/pkg/geometry"
	"github.com/user/picedit/pkg/pipeline"
	"github.com/user/picedit/pkg/ports"
)

// Watermark sizing.
const (
	fontSizeRatio = 0.03
	minFontSize   = 16.0
	spacingXRatio = 0.2
	minSpacingX   = 200.0
	spacingYRatio = 0.15
	minSpacingY   = 150.0
)

// WatermarkFontSize returns the font size for a width x height output.
func WatermarkFontSize(width, height int) float64 {
	return math.Max(fontSizeRatio*float64(min(width, height)), minFontSize)
}

// WatermarkSpacing returns the tile spacing, falling back to size-derived
// values for non-positive inputs.
func WatermarkSpacing(width, height int, spacingX, spacingY float64) (float64, float64) {
	if spacingX <= 0 {
		spacingX = math.Max(spacingXRatio*float64(width), minSpacingX)
	}
	if spacingY <= 0 {
		spacingY = math.Max(spacingYRatio*float64(height), minSpacingY)
	}
	return spacingX, spacingY
}

// WatermarkGrid returns the tile centres for a width x height output.
// The grid starts one step before the origin and extends one step past the
// far edges so rotated tiles cover the whole output.
func WatermarkGrid(width, height int, spacingX, spacingY float64) []geometry.Point {
	if width <= 0 || height <= 0 || spacingX <= 0 || spacingY <= 0 {
		return nil
	}
	rows := int(math.Ceil(float64(height)/spacingY)) + 2
	cols := int(math.Ceil(float64(width)/spacingX)) + 2

	points := make([]geometry.Point, 0, rows*cols)
	for row := -1; row < rows-1; row++ {
		for col := -1; col < cols-1; col++ {
			points = append(points, geometry.Point{X: float64(col) * spacingX, Y: float64(row) * spacingY})
		}
	}
	return points
}

// ApplyWatermark draws img onto a new surface and tiles wm.Text on top.
// It returns the result and the number of tiles drawn.
func ApplyWatermark(renderer ports.Renderer, img image.Image, wm pipeline.WatermarkSpec) (image.Image, int, error) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	surface, err := renderer.NewSurface(w, h)
	if err != nil {
		return nil, 0, err
	}
	surface.DrawImage(img, ports.Identity(float64(w)/2, float64(h)/2))

	var c color.Color = color.White
	if wm.Color != nil {
		c = wm.Color
	}
	style := ports.TextStyle{
		FontSize: WatermarkFontSize(w, h),
		Color:    c,
		Opacity:  wm.Opacity,
	}

	sx, sy := WatermarkSpacing(w, h, wm.SpacingX, wm.SpacingY)
	tiles := WatermarkGrid(w, h, sx, sy)
	for _, p := range tiles {
		t := ports.Identity(p.X, p.Y)
		t.RotationDeg = wm.RotationDeg
		if err := surface.DrawText(wm.Text, t, style); err != nil {
			return nil, 0, fmt.Errorf("draw watermark: %w", err)
		}
	}
	return surface.ToImage(), len(tiles), nil
}
