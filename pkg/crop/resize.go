// Package crop implements the drag-handle resize algorithm for the crop
// rectangle and the per-drag session state machine that drives it.
package crop

import (
	"fmt"
	"math"

	"github.com/user/picedit/pkg/geometry"
)

// MinCropSize is the smallest width or height, in image pixels, a crop
// rectangle may have.
const MinCropSize = 20.0

// Handle identifies the part of the crop overlay being dragged.
type Handle string

const (
	HandleBody Handle = "body"
	HandleNW   Handle = "nw"
	HandleNE   Handle = "ne"
	HandleSW   Handle = "sw"
	HandleSE   Handle = "se"
	HandleN    Handle = "n"
	HandleS    Handle = "s"
	HandleE    Handle = "e"
	HandleW    Handle = "w"
)

// Handles lists every handle in hit-test order.
var Handles = []Handle{HandleNW, HandleNE, HandleSW, HandleSE, HandleN, HandleS, HandleE, HandleW, HandleBody}

// ParseHandle parses a handle name.
func ParseHandle(s string) (Handle, error) {
	for _, h := range Handles {
		if string(h) == s {
			return h, nil
		}
	}
	return "", fmt.Errorf("unknown crop handle: %q", s)
}

// IsCorner reports whether h is one of the four corner handles.
func (h Handle) IsCorner() bool {
	return h == HandleNW || h == HandleNE || h == HandleSW || h == HandleSE
}

// movesLeft reports whether the handle drags the left edge.
func (h Handle) movesLeft() bool { return h == HandleW || h == HandleNW || h == HandleSW }

// movesRight reports whether the handle drags the right edge.
func (h Handle) movesRight() bool { return h == HandleE || h == HandleNE || h == HandleSE }

// movesTop reports whether the handle drags the top edge.
func (h Handle) movesTop() bool { return h == HandleN || h == HandleNW || h == HandleNE }

// movesBottom reports whether the handle drags the bottom edge.
func (h Handle) movesBottom() bool { return h == HandleS || h == HandleSW || h == HandleSE }

// Bounds is the image extent a crop rectangle must stay inside.
type Bounds struct {
	Width  float64
	Height float64
}

// Resize applies an image-space displacement (dx, dy), measured from the start
// of the drag, to the rectangle captured at drag start.
//
// It returns the new rectangle and true, or start and false when the update is
// rejected. Rejection only happens for aspect-locked corner drags whose derived
// rectangle would leave the bounds or fall below MinCropSize; every other
// handle clamps instead.
func Resize(h Handle, start geometry.Rect, dx, dy float64, b Bounds, locked bool) (geometry.Rect, bool) {
	if h == HandleBody {
		return translate(start, dx, dy, b), true
	}
	if locked && h.IsCorner() && start.Height > 0 {
		return resizeLocked(h, start, dx, b)
	}

	r := start
	switch {
	case h.movesLeft():
		// Right edge stays fixed.
		right := start.Right()
		x := clamp(start.X+dx, 0, right-MinCropSize)
		r.X, r.Width = x, right-x
	case h.movesRight():
		r.Width = clamp(start.Width+dx, MinCropSize, b.Width-start.X)
	}
	switch {
	case h.movesTop():
		bottom := start.Bottom()
		y := clamp(start.Y+dy, 0, bottom-MinCropSize)
		r.Y, r.Height = y, bottom-y
	case h.movesBottom():
		r.Height = clamp(start.Height+dy, MinCropSize, b.Height-start.Y)
	}
	return r, true
}

func translate(start geometry.Rect, dx, dy float64, b Bounds) geometry.Rect {
	r := start
	r.X = clamp(start.X+dx, 0, b.Width-start.Width)
	r.Y = clamp(start.Y+dy, 0, b.Height-start.Height)
	return r
}

// resizeLocked resizes from a corner keeping the drag-start aspect ratio.
// Width drives the change for all four corners; the opposite corner is the anchor.
func resizeLocked(h Handle, start geometry.Rect, dx float64, b Bounds) (geometry.Rect, bool) {
	ratio := start.Width / start.Height

	newW := start.Width + dx
	if h.movesLeft() {
		newW = start.Width - dx
	}
	newH := newW / ratio

	x := start.X
	if h.movesLeft() {
		x = start.Right() - newW
	}
	y := start.Y
	if h.movesTop() {
		y = start.Bottom() - newH
	}

	r := geometry.Rect{X: x, Y: y, Width: newW, Height: newH}
	if newW < MinCropSize || newH < MinCropSize || !fits(r, b) {
		return start, false
	}
	return r, true
}

// Clamp forces r inside the bounds and above MinCropSize, shrinking or moving
// it as needed. It is used to repair a rectangle after the image changes.
func Clamp(r geometry.Rect, b Bounds) geometry.Rect {
	minW := math.Min(MinCropSize, b.Width)
	minH := math.Min(MinCropSize, b.Height)
	r.Width = clamp(r.Width, minW, b.Width)
	r.Height = clamp(r.Height, minH, b.Height)
	r.X = clamp(r.X, 0, b.Width-r.Width)
	r.Y = clamp(r.Y, 0, b.Height-r.Height)
	return r
}

// fits is Rect.Within with room for the rounding of an edge derived from
// the opposite edge.
func fits(r geometry.Rect, b Bounds) bool {
	const tol = 1e-9
	return r.X >= -tol && r.Y >= -tol && r.Right() <= b.Width+tol && r.Bottom() <= b.Height+tol
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
