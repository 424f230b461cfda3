// Package summarizer provides summary generation for export results.
package summarizer

import (
	"math"
	"time"

	"github.com/user/picedit/pkg/editor"
	"github.com/user/picedit/pkg/orchestrator"
)

// Summary contains all data collected during an export.
type Summary struct {
	// Metadata
	GeneratedAt time.Time

	// Source image
	Source SourceInfo

	// Edits applied
	Edit EditInfo

	// Requested output settings
	Settings Settings

	// Encoded output
	Output OutputInfo
}

// SourceInfo contains information about the loaded image.
type SourceInfo struct {
	Path     string
	Format   string
	Width    int
	Height   int
	ByteSize int64
}

// CropInfo is the crop window in source pixels.
type CropInfo struct {
	X      int
	Y      int
	Width  int
	Height int
}

// EditInfo contains the geometric edits.
type EditInfo struct {
	RotationDeg float64
	FlipX       bool
	FlipY       bool
	Crop        *CropInfo // nil = full image
	Scale       float64
	ZoomApplied bool
}

// Settings contains the export configuration.
type Settings struct {
	Format              string
	Quality             float64
	TargetSizeBytes     int64 // 0 = none
	TargetWidth         int
	TargetHeight        int
	MaintainAspectRatio bool
	Watermark           string // empty = none
}

// OutputInfo contains information about the encoded image.
type OutputInfo struct {
	Path      string
	ExportID  string
	Format    string
	Width     int
	Height    int
	ByteSize  int64
	Quality   float64
	Attempts  int
	TargetMet bool
}

// NewSummary creates a new Summary with the current timestamp.
func NewSummary() *Summary {
	return &Summary{
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Summary.
type Builder struct {
	summary *Summary
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		summary: NewSummary(),
	}
}

// WithSource sets source image information.
func (b *Builder) WithSource(path string, src editor.ImageSource) *Builder {
	b.summary.Source = SourceInfo{
		Path:     path,
		Format:   src.Format.String(),
		Width:    src.Width,
		Height:   src.Height,
		ByteSize: src.ByteSize,
	}
	return b
}

// WithEdit sets the edit information.
func (b *Builder) WithEdit(edit editor.EditState, zoomApplied bool) *Builder {
	info := EditInfo{
		RotationDeg: edit.RotationDeg,
		FlipX:       edit.FlipX,
		FlipY:       edit.FlipY,
		Scale:       edit.Scale,
		ZoomApplied: zoomApplied,
	}
	if edit.IsCropping {
		r := edit.CropRect
		info.Crop = &CropInfo{
			X:      int(math.Round(r.X)),
			Y:      int(math.Round(r.Y)),
			Width:  int(math.Round(r.Width)),
			Height: int(math.Round(r.Height)),
		}
	}
	b.summary.Edit = info
	return b
}

// WithSettings sets export settings.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.summary.Settings = settings
	return b
}

// WithExportSettings sets export settings from editor.ExportSettings.
func (b *Builder) WithExportSettings(s editor.ExportSettings) *Builder {
	wm := ""
	if s.Watermark.Active() {
		wm = s.Watermark.Text
	}
	return b.WithSettings(Settings{
		Format:              s.Format.String(),
		Quality:             s.Quality,
		TargetSizeBytes:     s.TargetSizeBytes,
		TargetWidth:         s.TargetWidth,
		TargetHeight:        s.TargetHeight,
		MaintainAspectRatio: s.MaintainAspectRatio,
		Watermark:           wm,
	})
}

// WithOutput sets encoded output information.
func (b *Builder) WithOutput(path string, result editor.ExportResult) *Builder {
	b.summary.Output = OutputInfo{
		Path:      path,
		ExportID:  result.ExportID,
		Format:    result.Format.String(),
		Width:     result.Width,
		Height:    result.Height,
		ByteSize:  int64(result.ByteSize),
		Quality:   result.Quality,
		Attempts:  result.Attempts,
		TargetMet: result.TargetMet,
	}
	return b
}

// WithRunResult fills every section from an orchestrator run.
func (b *Builder) WithRunResult(r orchestrator.RunResult) *Builder {
	return b.
		WithSource(r.InputPath, r.Source).
		WithEdit(r.Edit, r.Settings.ApplyZoom).
		WithExportSettings(r.Settings).
		WithOutput(r.OutputPath, r.Output)
}

// Build returns the constructed Summary.
func (b *Builder) Build() *Summary {
	return b.summary
}
