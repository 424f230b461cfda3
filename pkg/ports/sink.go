package ports

import (
	"image"
)

// DebugSink abstracts debug output for intermediate export results.
type DebugSink interface {
	// Enabled returns true if debug output is enabled.
	Enabled() bool

	// SaveComposed saves the composed buffer handed to the encoder.
	SaveComposed(exportID string, img image.Image) error

	// SaveAttempt saves one encoder attempt.
	SaveAttempt(exportID string, index int, quality float64, format ImageFormat, data []byte) error

	// SaveReport saves the export report as JSON.
	SaveReport(exportID string, data []byte) error
}
