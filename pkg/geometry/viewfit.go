package geometry

import "math"

// FallbackFitScale is used when the available region is degenerate, for
// example while a container is transiently zero-sized.
const FallbackFitScale = 1.0

// Viewport describes the region the image is displayed in.
type Viewport struct {
	Width          float64
	Height         float64
	Padding        float64 // chrome padding subtracted from each side
	SidebarWidth   float64
	SidebarVisible bool
}

// Available returns the width and height left for the image.
func (v Viewport) Available() (float64, float64) {
	w := v.Width - 2*v.Padding
	if v.SidebarVisible {
		w -= v.SidebarWidth
	}
	h := v.Height - 2*v.Padding
	return w, h
}

// FitScale returns the scale that fits a width x height image rotated by deg
// inside the viewport's available region.
func FitScale(v Viewport, width, height, deg float64) float64 {
	availW, availH := v.Available()
	rw, rh := RotatedBounds(width, height, deg)
	if rw <= 0 || rh <= 0 {
		return FallbackFitScale
	}
	s := math.Min(availW/rw, availH/rh)
	if s <= 0 || math.IsNaN(s) || math.IsInf(s, 0) {
		return FallbackFitScale
	}
	return s
}
