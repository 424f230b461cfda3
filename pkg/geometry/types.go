// Package geometry maps pointer interaction between screen space and image
// space and sizes rotated content.
//
// Image space is anchored to the original, unrotated, unscaled pixel grid of
// the source image. Screen space is the coordinate system of pointer events in
// the viewport. All arithmetic is float64; nothing is rounded here.
package geometry

import "math"

// Point is a 2D point or displacement.
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

// Add returns p+q.
func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

// Sub returns p-q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Rect is an axis-aligned rectangle in image-space pixels.
type Rect struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// FullRect returns the rectangle covering a width x height image.
func FullRect(width, height float64) Rect {
	return Rect{Width: width, Height: height}
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Center returns the centre point.
func (r Rect) Center() Point {
	return Point{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// AspectRatio returns width/height, or 0 for a degenerate rectangle.
func (r Rect) AspectRatio() float64 {
	if r.Height == 0 {
		return 0
	}
	return r.Width / r.Height
}

// Within reports whether r lies inside [0,width] x [0,height].
func (r Rect) Within(width, height float64) bool {
	return r.X >= 0 && r.Y >= 0 && r.Right() <= width && r.Bottom() <= height
}

// Round snaps the rectangle to whole pixels, keeping it inside [0,width] x [0,height].
func (r Rect) Round(width, height float64) Rect {
	x := math.Max(0, math.Round(r.X))
	y := math.Max(0, math.Round(r.Y))
	w := math.Min(math.Round(r.Width), width-x)
	h := math.Min(math.Round(r.Height), height-y)
	return Rect{X: x, Y: y, Width: w, Height: h}
}
