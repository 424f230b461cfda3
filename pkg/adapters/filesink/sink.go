// Package filesink provides a file-based debug sink implementation.
//
// Each export gets its own directory under the base directory:
//
//	<base>/<export-id>/composed.png
//	<base>/<export-id>/attempt-00-q100.jpg
//	<base>/<export-id>/report.json
package filesink

import (
	"fmt"
	"image"
	"math"
	"path/filepath"

	"github.com/user/picedit/pkg/ports"
)

// Sink saves debug output to files.
type Sink struct {
	baseDir string
	fs      ports.FileSystem
	codec   ports.ImageCodec
}

// New creates a new FileSink. codec is used to write the composed buffer as PNG.
func New(baseDir string, fs ports.FileSystem, codec ports.ImageCodec) *Sink {
	return &Sink{
		baseDir: baseDir,
		fs:      fs,
		codec:   codec,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

func (s *Sink) exportDir(exportID string) (string, error) {
	if exportID == "" {
		exportID = "unnamed"
	}
	dir := filepath.Join(s.baseDir, exportID)
	if err := s.fs.MkdirAll(dir); err != nil {
		return "", err
	}
	return dir, nil
}

// SaveComposed saves the buffer handed to the encoder as PNG.
func (s *Sink) SaveComposed(exportID string, img image.Image) error {
	dir, err := s.exportDir(exportID)
	if err != nil {
		return err
	}
	data, err := s.codec.Encode(img, ports.FormatPNG, 1)
	if err != nil {
		return fmt.Errorf("encode composed buffer: %w", err)
	}
	return s.fs.WriteFile(filepath.Join(dir, "composed.png"), data)
}

// SaveAttempt saves one encoder attempt, named by index and quality percent.
func (s *Sink) SaveAttempt(exportID string, index int, quality float64, format ports.ImageFormat, data []byte) error {
	dir, err := s.exportDir(exportID)
	if err != nil {
		return err
	}
	name := fmt.Sprintf("attempt-%02d-q%03d%s", index, int(math.Round(quality*100)), format.Extension())
	return s.fs.WriteFile(filepath.Join(dir, name), data)
}

// SaveReport saves the export report.
func (s *Sink) SaveReport(exportID string, data []byte) error {
	dir, err := s.exportDir(exportID)
	if err != nil {
		return err
	}
	return s.fs.WriteFile(filepath.Join(dir, "report.json"), data)
}

// Ensure Sink implements ports.DebugSink
var _ ports.DebugSink = (*Sink)(nil)
