package geometry

import "math"

// ViewTransform is the composed mapping from image space to screen space.
// It is derived from the edit state and viewport and is never persisted.
//
// The forward transform applied to an image point p (relative to the image
// centre) is: screen = centre + pan + R(θ) · F · (FitScale·UserScale) · p,
// where F negates the flipped axes.
type ViewTransform struct {
	FitScale    float64
	UserScale   float64
	RotationDeg float64
	FlipX       bool
	FlipY       bool
	Pan         Point
}

// EffectiveScale returns FitScale × UserScale.
func (vt ViewTransform) EffectiveScale() float64 {
	return vt.FitScale * vt.UserScale
}

// ScreenDeltaToImage converts a pointer displacement in screen space into the
// corresponding displacement in image space.
//
// The delta is rotated by −θ, flipped axes are negated, and both components
// are divided by the effective scale.
func ScreenDeltaToImage(dx, dy float64, vt ViewTransform) Point {
	rad := -vt.RotationDeg * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	rx := dx*cos - dy*sin
	ry := dx*sin + dy*cos

	if vt.FlipX {
		rx = -rx
	}
	if vt.FlipY {
		ry = -ry
	}

	s := vt.EffectiveScale()
	if s == 0 {
		return Point{}
	}
	return Point{X: rx / s, Y: ry / s}
}

// ImageDeltaToScreen is the forward counterpart of ScreenDeltaToImage.
func ImageDeltaToScreen(dx, dy float64, vt ViewTransform) Point {
	s := vt.EffectiveScale()
	x, y := dx*s, dy*s
	if vt.FlipX {
		x = -x
	}
	if vt.FlipY {
		y = -y
	}
	rad := vt.RotationDeg * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	return Point{X: x*cos - y*sin, Y: x*sin + y*cos}
}

// ScreenPointToImage maps an absolute screen point to image space.
// viewportCenter is the screen position the image centre is drawn at before panning.
func ScreenPointToImage(p, viewportCenter Point, imageWidth, imageHeight float64, vt ViewTransform) Point {
	rel := p.Sub(viewportCenter).Sub(vt.Pan)
	d := ScreenDeltaToImage(rel.X, rel.Y, vt)
	return Point{X: d.X + imageWidth/2, Y: d.Y + imageHeight/2}
}

// HandleCompensation returns the per-axis factor the presentation layer applies
// to crop-handle glyphs so they keep a constant on-screen size and orientation
// regardless of zoom and flip.
func HandleCompensation(vt ViewTransform) (sx, sy float64) {
	s := vt.EffectiveScale()
	if s == 0 {
		return 1, 1
	}
	sx, sy = 1/s, 1/s
	if vt.FlipX {
		sx = -sx
	}
	if vt.FlipY {
		sy = -sy
	}
	return sx, sy
}

// RotatedBounds returns the axis-aligned bounding box of a width x height
// rectangle rotated by deg degrees about its centre.
func RotatedBounds(width, height, deg float64) (float64, float64) {
	rad := deg * math.Pi / 180
	cos := math.Abs(math.Cos(rad))
	sin := math.Abs(math.Sin(rad))
	return width*cos + height*sin, width*sin + height*cos
}

// NormalizeDegrees maps deg into [0, 360).
func NormalizeDegrees(deg float64) float64 {
	d := math.Mod(deg, 360)
	if d < 0 {
		d += 360
	}
	if d == 360 {
		return 0
	}
	return d
}
