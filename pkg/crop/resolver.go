package crop

import (
	"github.com/user/picedit/pkg/geometry"
)

// State is the resolver's drag state.
type State int

const (
	// Idle means no drag is in progress.
	Idle State = iota
	// Dragging means a handle is held down.
	Dragging
)

// String returns the state name.
func (s State) String() string {
	if s == Dragging {
		return "dragging"
	}
	return "idle"
}

// Resolver tracks one drag session at a time: Idle → Dragging → Idle.
//
// Each Move recomputes the rectangle from the drag-start pointer and
// drag-start rectangle using the transform current at that event, so long
// drags do not accumulate drift.
type Resolver struct {
	state        State
	handle       Handle
	startPtr     geometry.Point
	startRect    geometry.Rect
	current      geometry.Rect
	bounds       Bounds
	aspectLocked bool
}

// NewResolver creates an idle resolver.
func NewResolver() *Resolver {
	return &Resolver{}
}

// State returns the current drag state.
func (r *Resolver) State() State {
	return r.state
}

// Handle returns the handle being dragged, or "" when idle.
func (r *Resolver) Handle() Handle {
	if r.state != Dragging {
		return ""
	}
	return r.handle
}

// Begin starts a drag on handle at the given screen position.
// It returns false and stays idle when cropping is off or a drag is already active.
func (r *Resolver) Begin(h Handle, screen geometry.Point, rect geometry.Rect, b Bounds, cropping, aspectLocked bool) bool {
	if !cropping || r.state == Dragging {
		return false
	}
	r.state = Dragging
	r.handle = h
	r.startPtr = screen
	r.startRect = rect
	r.current = rect
	r.bounds = b
	r.aspectLocked = aspectLocked
	return true
}

// Move recomputes the rectangle for the pointer at screen under vt.
// It returns the rectangle to apply and whether the drag is active. When an
// aspect-locked update is rejected the last applied rectangle is returned.
func (r *Resolver) Move(screen geometry.Point, vt geometry.ViewTransform) (geometry.Rect, bool) {
	if r.state != Dragging {
		return geometry.Rect{}, false
	}
	d := screen.Sub(r.startPtr)
	delta := geometry.ScreenDeltaToImage(d.X, d.Y, vt)
	if next, ok := Resize(r.handle, r.startRect, delta.X, delta.Y, r.bounds, r.aspectLocked); ok {
		r.current = next
	}
	return r.current, true
}

// End finishes the drag. The last applied rectangle stays in effect.
func (r *Resolver) End() {
	r.reset()
}

// Cancel discards the drag session, e.g. when the active image is replaced.
func (r *Resolver) Cancel() {
	r.reset()
}

func (r *Resolver) reset() {
	*r = Resolver{}
}
