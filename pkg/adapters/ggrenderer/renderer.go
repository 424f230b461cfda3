// Package ggrenderer provides a ports.Renderer backed by the gg library.
package ggrenderer

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"sync"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"

	"github.com/user/picedit/pkg/ports"
)

// MaxSurfacePixels bounds the area of a single surface.
const MaxSurfacePixels = 16384 * 16384

var (
	fontOnce sync.Once
	fontTTF  *opentype.Font
	fontErr  error
)

func regularFont() (*opentype.Font, error) {
	fontOnce.Do(func() {
		fontTTF, fontErr = opentype.Parse(goregular.TTF)
	})
	return fontTTF, fontErr
}

// Renderer implements ports.Renderer using gg.
type Renderer struct{}

// New creates a new Renderer.
func New() *Renderer {
	return &Renderer{}
}

// NewSurface creates a transparent surface of width x height.
func (r *Renderer) NewSurface(width, height int) (ports.Surface, error) {
	if width <= 0 || height <= 0 || int64(width)*int64(height) > MaxSurfacePixels {
		return nil, fmt.Errorf("%w: %dx%d", ports.ErrRenderSurface, width, height)
	}
	return &Surface{dc: gg.NewContext(width, height), faces: make(map[float64]font.Face)}, nil
}

// Resize resamples img to width x height with Catmull-Rom.
func (r *Renderer) Resize(img image.Image, width, height int) (image.Image, error) {
	if width <= 0 || height <= 0 || int64(width)*int64(height) > MaxSurfacePixels {
		return nil, fmt.Errorf("%w: resize to %dx%d", ports.ErrRenderSurface, width, height)
	}
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Src, nil)
	return dst, nil
}

// Ensure Renderer implements ports.Renderer
var _ ports.Renderer = (*Renderer)(nil)

// Surface implements ports.Surface using gg.Context.
type Surface struct {
	dc    *gg.Context
	faces map[float64]font.Face
}

// Width returns the surface width.
func (s *Surface) Width() int {
	return s.dc.Width()
}

// Height returns the surface height.
func (s *Surface) Height() int {
	return s.dc.Height()
}

// DrawImage draws img centred on (t.X, t.Y), rotated then scaled.
func (s *Surface) DrawImage(img image.Image, t ports.Transform) {
	b := img.Bounds()
	s.dc.Push()
	defer s.dc.Pop()

	s.dc.Translate(t.X, t.Y)
	s.dc.Rotate(gg.Radians(t.RotationDeg))
	s.dc.Scale(t.ScaleX, t.ScaleY)
	// Float offset keeps odd-sized images centred.
	s.dc.Translate(-float64(b.Dx())/2, -float64(b.Dy())/2)
	s.dc.DrawImage(img, -b.Min.X, -b.Min.Y)
}

// DrawText draws a single line of text centred on (t.X, t.Y), rotated about its centre.
func (s *Surface) DrawText(text string, t ports.Transform, style ports.TextStyle) error {
	face, err := s.face(style.FontSize)
	if err != nil {
		return err
	}
	s.dc.Push()
	defer s.dc.Pop()

	s.dc.SetFontFace(face)
	s.dc.SetColor(withOpacity(style.Color, style.Opacity))
	s.dc.Translate(t.X, t.Y)
	s.dc.Rotate(gg.Radians(t.RotationDeg))
	if t.ScaleX != 0 && t.ScaleY != 0 {
		s.dc.Scale(t.ScaleX, t.ScaleY)
	}
	s.dc.DrawStringAnchored(text, 0, 0, 0.5, 0.5)
	return nil
}

func (s *Surface) face(size float64) (font.Face, error) {
	if f, ok := s.faces[size]; ok {
		return f, nil
	}
	if !(size > 0) || math.IsInf(size, 0) {
		return nil, fmt.Errorf("invalid font size %v", size)
	}
	ttf, err := regularFont()
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	f, err := opentype.NewFace(ttf, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, fmt.Errorf("create font face: %w", err)
	}
	s.faces[size] = f
	return f, nil
}

// withOpacity multiplies opacity into c's alpha.
func withOpacity(c color.Color, opacity float64) color.Color {
	if c == nil {
		c = color.White
	}
	if opacity < 0 {
		opacity = 0
	}
	if opacity > 1 {
		opacity = 1
	}
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = uint8(float64(n.A)*opacity + 0.5)
	return n
}

// ToImage returns the surface contents.
func (s *Surface) ToImage() image.Image {
	return s.dc.Image()
}

// Ensure Surface implements ports.Surface
var _ ports.Surface = (*Surface)(nil)
