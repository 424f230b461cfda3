// Package nullsink provides a no-op debug sink implementation.
package nullsink

import (
	"image"

	"github.com/user/picedit/pkg/ports"
)

// Sink is a no-op implementation of ports.DebugSink.
type Sink struct{}

// New creates a new NullSink.
func New() *Sink {
	return &Sink{}
}

// Enabled returns false as this sink discards all output.
func (s *Sink) Enabled() bool {
	return false
}

// SaveComposed does nothing.
func (s *Sink) SaveComposed(exportID string, img image.Image) error {
	return nil
}

// SaveAttempt does nothing.
func (s *Sink) SaveAttempt(exportID string, index int, quality float64, format ports.ImageFormat, data []byte) error {
	return nil
}

// SaveReport does nothing.
func (s *Sink) SaveReport(exportID string, data []byte) error {
	return nil
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
