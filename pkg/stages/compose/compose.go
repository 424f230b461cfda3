// Package compose renders an edit into the raster buffer handed to the encoder:
// crop window, rotation, flip and scale, optional resize, optional watermark.
package compose

import (
	"context"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"

	"github.com/user/picedit/pkg/geometry"
	"github.com/user/picedit/pkg/pipeline"
	"github.com/user/picedit/pkg/ports"
)

// Stage composes the export buffer.
type Stage struct {
	renderer ports.Renderer
	logger   ports.Logger
}

// NewStage creates a new compose stage.
func NewStage(renderer ports.Renderer, logger ports.Logger) *Stage {
	return &Stage{
		renderer: renderer,
		logger:   logger.WithComponent("compose"),
	}
}

// Execute renders input. Surface allocation failures wrap ports.ErrRenderSurface.
func (s *Stage) Execute(ctx context.Context, input pipeline.ComposeInput) (pipeline.ComposeResult, error) {
	result := pipeline.ComposeResult{}

	if input.Image == nil {
		return result, fmt.Errorf("no image to compose")
	}

	img, err := Compose(s.renderer, input)
	if err != nil {
		return result, err
	}
	result.Image = img
	b := img.Bounds()
	result.Width, result.Height = b.Dx(), b.Dy()
	s.logger.Debug("Composed %dx%d buffer", result.Width, result.Height)

	if err := ctx.Err(); err != nil {
		return result, err
	}

	if input.Resize.Enabled() {
		w, h := ResolveResize(result.Width, result.Height, input.Resize)
		if w != result.Width || h != result.Height {
			s.logger.Debug("Resizing %dx%d to %dx%d", result.Width, result.Height, w, h)
			resized, err := s.renderer.Resize(result.Image, w, h)
			if err != nil {
				return result, fmt.Errorf("resize: %w", err)
			}
			result.Image = resized
			result.Width, result.Height = w, h
			result.Resized = true
		}
	}

	if wm := input.Watermark; wm != nil && wm.Text != "" {
		marked, tiles, err := ApplyWatermark(s.renderer, result.Image, *wm)
		if err != nil {
			return result, fmt.Errorf("watermark: %w", err)
		}
		s.logger.Debug("Watermark drawn in %d tiles", tiles)
		result.Image = marked
		result.WatermarkTiles = tiles
	}

	return result, nil
}

// Compose draws the source window of input.Image rotated, flipped and scaled
// onto a surface sized to the rotated bounding box.
func Compose(renderer ports.Renderer, input pipeline.ComposeInput) (image.Image, error) {
	window := sourceWindow(input.Image, input.Window)

	scale := input.Scale
	if scale <= 0 {
		scale = 1
	}

	wb := window.Bounds()
	sw, sh := float64(wb.Dx()), float64(wb.Dy())
	rw, rh := geometry.RotatedBounds(sw, sh, input.RotationDeg)
	cw := int(math.Max(1, math.Round(rw*scale)))
	ch := int(math.Max(1, math.Round(rh*scale)))

	surface, err := renderer.NewSurface(cw, ch)
	if err != nil {
		return nil, fmt.Errorf("create %dx%d surface: %w", cw, ch, err)
	}

	sx, sy := scale, scale
	if input.FlipX {
		sx = -sx
	}
	if input.FlipY {
		sy = -sy
	}
	surface.DrawImage(window, ports.Transform{
		X:           float64(cw) / 2,
		Y:           float64(ch) / 2,
		RotationDeg: input.RotationDeg,
		ScaleX:      sx,
		ScaleY:      sy,
	})
	return surface.ToImage(), nil
}

// sourceWindow extracts the integer pixel window for r, or the whole image
// when r has no area. The result always has a (0,0) origin.
func sourceWindow(img image.Image, r geometry.Rect) image.Image {
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	if r.Width <= 0 || r.Height <= 0 {
		r = geometry.FullRect(w, h)
	}
	r = r.Round(w, h)
	if b.Min == (image.Point{}) && int(r.Width) == b.Dx() && int(r.Height) == b.Dy() {
		return img
	}
	rect := image.Rect(int(r.X), int(r.Y), int(r.X+r.Width), int(r.Y+r.Height)).Add(b.Min)
	return imaging.Crop(img, rect)
}

// ResolveResize returns the output size for a cur-sized buffer.
// With only one dimension set, the other follows the buffer aspect ratio when
// MaintainAspectRatio is set and keeps its current value otherwise.
func ResolveResize(curW, curH int, spec pipeline.ResizeSpec) (int, int) {
	w, h := spec.Width, spec.Height
	switch {
	case w > 0 && h > 0:
	case w > 0:
		h = curH
		if spec.MaintainAspectRatio && curW > 0 {
			h = roundPositive(float64(w) * float64(curH) / float64(curW))
		}
	case h > 0:
		w = curW
		if spec.MaintainAspectRatio && curH > 0 {
			w = roundPositive(float64(h) * float64(curW) / float64(curH))
		}
	default:
		return curW, curH
	}
	return w, h
}

func roundPositive(v float64) int {
	return int(math.Max(1, math.Round(v)))
}

// Ensure Stage implements pipeline.Stage
var _ pipeline.Stage[pipeline.ComposeInput, pipeline.ComposeResult] = (*Stage)(nil)
