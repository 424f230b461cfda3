package editor

import (
	"context"
	"errors"
	"math"

	"github.com/user/picedit/pkg/crop"
	"github.com/user/picedit/pkg/geometry"
	"github.com/user/picedit/pkg/ports"
)

// WheelStep is the additive user-zoom change per wheel notch.
const WheelStep = 0.1

// ErrNoImage is returned by operations that need an active image.
var ErrNoImage = errors.New("no active image")

// ExportResult is the artifact produced by an export run.
type ExportResult struct {
	ExportID  string
	Data      []byte
	ByteSize  int
	Format    ports.ImageFormat
	Width     int
	Height    int
	Quality   float64 // quality actually used; 1 for PNG
	Attempts  int
	TargetMet bool // false only when a byte target was set and could not be reached
}

// Exporter renders and encodes an edit.
type Exporter interface {
	Export(ctx context.Context, src ImageSource, edit EditState, settings ExportSettings) (ExportResult, error)
}

// Session is the single-threaded interactive editing model for one active image.
// Handlers are expected to be called from one goroutine.
type Session struct {
	exporter Exporter
	logger   ports.Logger
	onChange func(EditState)

	source   *ImageSource
	state    EditState
	settings ExportSettings

	viewport geometry.Viewport
	fitScale float64
	pan      geometry.Point
	touches  int

	resolver  *crop.Resolver
	dragStart EditState
	history   *History
}

// NewSession creates a session with default export settings and no image.
func NewSession(exporter Exporter, logger ports.Logger) *Session {
	return &Session{
		exporter: exporter,
		logger:   logger.WithComponent("editor"),
		settings: DefaultExportSettings(),
		fitScale: geometry.FallbackFitScale,
		resolver: crop.NewResolver(),
		history:  NewHistory(DefaultHistoryCapacity),
	}
}

// OnChange registers fn to receive every new EditState.
func (s *Session) OnChange(fn func(EditState)) {
	s.onChange = fn
}

// SetImage makes src the active image. Any in-flight drag is discarded and
// the edit state, pan and history start over. Format and quality survive.
func (s *Session) SetImage(src ImageSource) {
	s.resolver.Cancel()
	s.source = &src
	s.state = NewEditState(src)
	s.settings = s.settings.ResetForImage()
	s.pan = geometry.Point{}
	s.history.Reset(s.state)
	s.recomputeFit()
	s.logger.Debug("Image set: %dx%d %s", src.Width, src.Height, src.Format)
	s.emit()
}

// HasImage reports whether an image is active.
func (s *Session) HasImage() bool {
	return s.source != nil
}

// Source returns the active image.
func (s *Session) Source() (ImageSource, bool) {
	if s.source == nil {
		return ImageSource{}, false
	}
	return *s.source, true
}

// State returns the current edit state.
func (s *Session) State() EditState {
	return s.state
}

// Settings returns the current export settings.
func (s *Session) Settings() ExportSettings {
	return s.settings
}

// SetSettings replaces the export settings.
func (s *Session) SetSettings(e ExportSettings) {
	s.settings = e
}

// Dragging reports whether a crop handle is held.
func (s *Session) Dragging() bool {
	return s.resolver.State() == crop.Dragging
}

// ViewTransform returns the transform currently used to display the image.
func (s *Session) ViewTransform() geometry.ViewTransform {
	return geometry.ViewTransform{
		FitScale:    s.fitScale,
		UserScale:   s.state.Scale,
		RotationDeg: s.state.RotationDeg,
		FlipX:       s.state.FlipX,
		FlipY:       s.state.FlipY,
		Pan:         s.pan,
	}
}

// HandleCompensation returns the per-axis scale that keeps handle overlays at
// constant screen size.
func (s *Session) HandleCompensation() (float64, float64) {
	return geometry.HandleCompensation(s.ViewTransform())
}

// SetViewport updates the display area and recomputes the fit scale.
func (s *Session) SetViewport(v geometry.Viewport) {
	s.viewport = v
	s.recomputeFit()
}

// SetSidebarVisible toggles the sidebar and recomputes the fit scale.
func (s *Session) SetSidebarVisible(visible bool) {
	s.viewport.SidebarVisible = visible
	s.recomputeFit()
}

func (s *Session) recomputeFit() {
	if s.source == nil {
		s.fitScale = geometry.FallbackFitScale
		return
	}
	s.fitScale = geometry.FitScale(s.viewport, float64(s.source.Width), float64(s.source.Height), s.state.RotationDeg)
}

// OnPointerDown starts a crop drag on h at screen (x, y).
// It returns false when no drag started.
func (s *Session) OnPointerDown(h crop.Handle, x, y float64) bool {
	if s.source == nil || s.touches > 1 {
		return false
	}
	ok := s.resolver.Begin(h, geometry.Point{X: x, Y: y}, s.state.CropRect, s.source.Bounds(),
		s.state.IsCropping, s.state.CropAspectLocked)
	if ok {
		s.dragStart = s.state
	}
	return ok
}

// OnPointerMove updates the active drag for the pointer at screen (x, y).
func (s *Session) OnPointerMove(x, y float64) {
	r, active := s.resolver.Move(geometry.Point{X: x, Y: y}, s.ViewTransform())
	if !active || r == s.state.CropRect {
		return
	}
	s.state.CropRect = r
	s.emit()
}

// OnPointerUp ends the active drag.
func (s *Session) OnPointerUp() {
	s.endDrag()
}

// OnPointerLeave ends the active drag.
func (s *Session) OnPointerLeave() {
	s.endDrag()
}

// OnTouchCount records the number of active touches. A second touch
// discards any crop drag and switches the gesture to pinch.
func (s *Session) OnTouchCount(n int) {
	s.touches = n
	if n > 1 {
		s.cancelDrag()
	}
}

func (s *Session) endDrag() {
	if !s.Dragging() {
		return
	}
	s.resolver.End()
	if s.state != s.dragStart {
		s.history.Push(s.state)
	}
}

// cancelDrag drops the active drag and restores the state it started from.
func (s *Session) cancelDrag() {
	if !s.Dragging() {
		return
	}
	s.resolver.Cancel()
	if s.state != s.dragStart {
		s.state = s.dragStart
		s.emit()
	}
}

// OnWheel changes the user zoom by one step in the direction of sign.
func (s *Session) OnWheel(sign float64) {
	if s.source == nil || sign == 0 || math.IsNaN(sign) {
		return
	}
	step := WheelStep
	if sign < 0 {
		step = -step
	}
	s.setScale(s.state.Scale + step)
}

// OnPinch multiplies the user zoom by ratio.
func (s *Session) OnPinch(ratio float64) {
	if s.source == nil || ratio <= 0 || math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return
	}
	s.setScale(s.state.Scale * ratio)
}

func (s *Session) setScale(v float64) {
	next := s.state.WithScale(v)
	if next == s.state {
		return
	}
	s.state = next
	s.emit()
}

// Pan moves the view by a screen delta. It is ignored during multi-touch.
func (s *Session) Pan(dx, dy float64) {
	if s.source == nil || s.touches > 1 {
		return
	}
	s.pan = s.pan.Add(geometry.Point{X: dx, Y: dy})
}

// PanOffset returns the current pan.
func (s *Session) PanOffset() geometry.Point {
	return s.pan
}

// RotateBy rotates the image by deg.
func (s *Session) RotateBy(deg float64) {
	s.apply(s.state.RotatedBy(deg))
	s.recomputeFit()
}

// ToggleFlipX mirrors the image horizontally.
func (s *Session) ToggleFlipX() {
	s.apply(s.state.WithFlipX(!s.state.FlipX))
}

// ToggleFlipY mirrors the image vertically.
func (s *Session) ToggleFlipY() {
	s.apply(s.state.WithFlipY(!s.state.FlipY))
}

// SetCropping shows or hides the crop overlay. Hiding it ends any drag.
func (s *Session) SetCropping(on bool) {
	if !on {
		s.cancelDrag()
	}
	s.apply(s.state.WithCropping(on))
}

// SetAspectLocked toggles the corner aspect lock.
func (s *Session) SetAspectLocked(on bool) {
	s.apply(s.state.WithAspectLocked(on))
}

// ResetCrop restores the crop rectangle to the full image.
func (s *Session) ResetCrop() {
	if s.source == nil {
		return
	}
	s.apply(s.state.WithCropRect(geometry.FullRect(float64(s.source.Width), float64(s.source.Height)), s.source.Bounds()))
}

func (s *Session) apply(next EditState) {
	if s.source == nil || next == s.state {
		return
	}
	s.state = next
	s.history.Push(next)
	s.emit()
}

// Undo restores the previous snapshot.
func (s *Session) Undo() bool {
	if s.Dragging() {
		return false
	}
	prev, ok := s.history.Undo()
	if !ok {
		return false
	}
	s.restore(prev)
	return true
}

// Redo re-applies the next snapshot.
func (s *Session) Redo() bool {
	if s.Dragging() {
		return false
	}
	next, ok := s.history.Redo()
	if !ok {
		return false
	}
	s.restore(next)
	return true
}

func (s *Session) restore(st EditState) {
	rotated := st.RotationDeg != s.state.RotationDeg
	s.state = st
	if rotated {
		s.recomputeFit()
	}
	s.emit()
}

// OutputAspect returns width/height of the rendered output before resize:
// the rotated bounding box of the crop window (or the full image).
func (s *Session) OutputAspect() float64 {
	if s.source == nil {
		return 0
	}
	w, h := float64(s.source.Width), float64(s.source.Height)
	if s.state.IsCropping {
		w, h = s.state.CropRect.Width, s.state.CropRect.Height
	}
	rw, rh := geometry.RotatedBounds(w, h, s.state.RotationDeg)
	if rh == 0 {
		return 0
	}
	return rw / rh
}

// SetTargetWidthText parses a user-entered target width. On malformed input
// the previous value is kept and ErrInvalidDimensionInput is returned. With
// MaintainAspectRatio the height follows.
func (s *Session) SetTargetWidthText(text string) error {
	w, err := ParseDimension(text)
	if err != nil {
		s.logger.Debug("Ignoring target width %q", text)
		return err
	}
	s.settings.TargetWidth = w
	if s.settings.MaintainAspectRatio {
		s.settings.TargetHeight = CompanionDimension(w, s.OutputAspect(), true)
	}
	return nil
}

// SetTargetHeightText is the height counterpart of SetTargetWidthText.
func (s *Session) SetTargetHeightText(text string) error {
	h, err := ParseDimension(text)
	if err != nil {
		s.logger.Debug("Ignoring target height %q", text)
		return err
	}
	s.settings.TargetHeight = h
	if s.settings.MaintainAspectRatio {
		s.settings.TargetWidth = CompanionDimension(h, s.OutputAspect(), false)
	}
	return nil
}

// RequestExport renders and encodes the current edit.
func (s *Session) RequestExport(ctx context.Context) (ExportResult, error) {
	if s.source == nil {
		return ExportResult{}, ErrNoImage
	}
	return s.exporter.Export(ctx, *s.source, s.state, s.settings)
}

func (s *Session) emit() {
	if s.onChange != nil {
		s.onChange(s.state)
	}
}
