// Package mocks provides mock implementations for testing.
package mocks

import (
	"image"

	"github.com/user/picedit/pkg/ports"
)

// Renderer is a mock implementation of ports.Renderer.
type Renderer struct {
	NewSurfaceFunc func(width, height int) (ports.Surface, error)
	ResizeFunc     func(img image.Image, width, height int) (image.Image, error)

	// Recorded calls for verification
	Surfaces    []*Surface
	ResizeCalls []ResizeCall
}

// ResizeCall records a call to Resize.
type ResizeCall struct {
	Width  int
	Height int
}

func (m *Renderer) NewSurface(width, height int) (ports.Surface, error) {
	if m.NewSurfaceFunc != nil {
		return m.NewSurfaceFunc(width, height)
	}
	s := &Surface{W: width, H: height}
	m.Surfaces = append(m.Surfaces, s)
	return s, nil
}

func (m *Renderer) Resize(img image.Image, width, height int) (image.Image, error) {
	m.ResizeCalls = append(m.ResizeCalls, ResizeCall{Width: width, Height: height})
	if m.ResizeFunc != nil {
		return m.ResizeFunc(img, width, height)
	}
	return image.NewRGBA(image.Rect(0, 0, width, height)), nil
}

var _ ports.Renderer = (*Renderer)(nil)

// Surface is a mock implementation of ports.Surface that records draws.
type Surface struct {
	W, H int

	DrawTextFunc func(text string, t ports.Transform, style ports.TextStyle) error

	ImageDraws []ports.Transform
	TextDraws  []TextDraw
}

// TextDraw records a call to DrawText.
type TextDraw struct {
	Text      string
	Transform ports.Transform
	Style     ports.TextStyle
}

func (m *Surface) Width() int  { return m.W }
func (m *Surface) Height() int { return m.H }

func (m *Surface) DrawImage(img image.Image, t ports.Transform) {
	m.ImageDraws = append(m.ImageDraws, t)
}

func (m *Surface) DrawText(text string, t ports.Transform, style ports.TextStyle) error {
	m.TextDraws = append(m.TextDraws, TextDraw{Text: text, Transform: t, Style: style})
	if m.DrawTextFunc != nil {
		return m.DrawTextFunc(text, t, style)
	}
	return nil
}

func (m *Surface) ToImage() image.Image {
	return image.NewRGBA(image.Rect(0, 0, m.W, m.H))
}

var _ ports.Surface = (*Surface)(nil)
