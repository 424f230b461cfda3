// Package orchestrator runs an export end to end: decode, compose, encode and
// write, with debug output and a report for summaries.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/user/picedit/pkg/editor"
	"github.com/user/picedit/pkg/geometry"
	"github.com/user/picedit/pkg/pipeline"
	"github.com/user/picedit/pkg/ports"
)

// ErrExportFailed wraps every error returned from an export.
var ErrExportFailed = errors.New("export failed")

// Config describes a non-interactive export of one file.
type Config struct {
	InputPath  string
	OutputPath string // empty skips writing

	// Edit
	Crop        *geometry.Rect // image-space; nil exports the full image
	RotationDeg float64
	FlipX       bool
	FlipY       bool
	Scale       float64 // user zoom; only affects output with Settings.ApplyZoom

	Settings editor.ExportSettings
}

// DefaultConfig returns a Config with default export settings.
func DefaultConfig() Config {
	return Config{
		Scale:    1,
		Settings: editor.DefaultExportSettings(),
	}
}

// Orchestrator coordinates the execution of all pipeline stages.
type Orchestrator struct {
	decodeStage  pipeline.Stage[pipeline.DecodeInput, pipeline.DecodeResult]
	composeStage pipeline.Stage[pipeline.ComposeInput, pipeline.ComposeResult]
	encodeStage  pipeline.Stage[pipeline.EncodeInput, pipeline.EncodeResult]
	fs           ports.FileSystem
	sink         ports.DebugSink
	logger       ports.Logger
	newID        func() string
}

// New creates a new Orchestrator.
func New(
	decodeStage pipeline.Stage[pipeline.DecodeInput, pipeline.DecodeResult],
	composeStage pipeline.Stage[pipeline.ComposeInput, pipeline.ComposeResult],
	encodeStage pipeline.Stage[pipeline.EncodeInput, pipeline.EncodeResult],
	fs ports.FileSystem,
	sink ports.DebugSink,
	logger ports.Logger,
) *Orchestrator {
	return &Orchestrator{
		decodeStage:  decodeStage,
		composeStage: composeStage,
		encodeStage:  encodeStage,
		fs:           fs,
		sink:         sink,
		logger:       logger,
		newID:        uuid.NewString,
	}
}

// Load reads and decodes an image file.
func (o *Orchestrator) Load(ctx context.Context, path string) (editor.ImageSource, error) {
	data, err := o.fs.ReadFile(path)
	if err != nil {
		return editor.ImageSource{}, fmt.Errorf("read input: %w", err)
	}
	decoded, err := o.decodeStage.Execute(ctx, pipeline.DecodeInput{Data: data})
	if err != nil {
		return editor.ImageSource{}, fmt.Errorf("decode input: %w", err)
	}
	return decoded.Source, nil
}

// Run loads config.InputPath, applies the edit, exports and writes the result.
func (o *Orchestrator) Run(ctx context.Context, config Config) (RunResult, error) {
	o.logger.Info("Loading %s", config.InputPath)
	src, err := o.Load(ctx, config.InputPath)
	if err != nil {
		o.logger.Error("Failed to load image: %s", err)
		return RunResult{}, fmt.Errorf("%w: %w", ErrExportFailed, err)
	}
	o.logger.Info("Loaded %s image %dx%d", src.Format, src.Width, src.Height)

	edit := BuildEditState(src, config)
	out, err := o.Export(ctx, src, edit, config.Settings)
	if err != nil {
		return RunResult{}, err
	}

	if config.OutputPath != "" {
		if err := o.fs.WriteFile(config.OutputPath, out.Data); err != nil {
			o.logger.Error("Failed to write output: %s", err)
			return RunResult{}, fmt.Errorf("%w: write output: %w", ErrExportFailed, err)
		}
		o.logger.Info("Output saved to %s", config.OutputPath)
	}

	return RunResult{
		InputPath:  config.InputPath,
		OutputPath: config.OutputPath,
		Source:     src,
		Edit:       edit,
		Settings:   config.Settings,
		Output:     out,
	}, nil
}

// BuildEditState derives the edit state for src from config.
func BuildEditState(src editor.ImageSource, config Config) editor.EditState {
	edit := editor.NewEditState(src).
		RotatedBy(config.RotationDeg).
		WithFlipX(config.FlipX).
		WithFlipY(config.FlipY)
	if config.Scale > 0 {
		edit = edit.WithScale(config.Scale)
	}
	if config.Crop != nil {
		edit = edit.WithCropping(true).WithCropRect(*config.Crop, src.Bounds())
	}
	return edit
}

// Export composes and encodes edit for src. It implements editor.Exporter.
func (o *Orchestrator) Export(ctx context.Context, src editor.ImageSource, edit editor.EditState, settings editor.ExportSettings) (editor.ExportResult, error) {
	exportID := o.newID()
	log := o.logger

	log.Info("Starting export %s", exportID)

	composed, err := o.composeStage.Execute(ctx, BuildComposeInput(src, edit, settings))
	if err != nil {
		log.Error("Failed to compose image: %s", err)
		return editor.ExportResult{}, fmt.Errorf("%w: compose: %w", ErrExportFailed, err)
	}
	log.Info("Composed %dx%d", composed.Width, composed.Height)

	if o.sink.Enabled() {
		if err := o.sink.SaveComposed(exportID, composed.Image); err != nil {
			log.Warn("Failed to save debug output: %s", err)
		}
	}

	log.Info("Encoding %s at quality %.2f", settings.Format, settings.Quality)
	encoded, err := o.encodeStage.Execute(ctx, pipeline.EncodeInput{
		ExportID:        exportID,
		Image:           composed.Image,
		Format:          settings.Format,
		Quality:         settings.Quality,
		TargetSizeBytes: settings.TargetSizeBytes,
	})
	if err != nil {
		log.Error("Failed to encode image: %s", err)
		return editor.ExportResult{}, fmt.Errorf("%w: encode: %w", ErrExportFailed, err)
	}
	log.Info("Encoded %d bytes in %d attempts", len(encoded.Data), len(encoded.Attempts))

	result := editor.ExportResult{
		ExportID:  exportID,
		Data:      encoded.Data,
		ByteSize:  len(encoded.Data),
		Format:    settings.Format,
		Width:     composed.Width,
		Height:    composed.Height,
		Quality:   encoded.Quality,
		Attempts:  len(encoded.Attempts),
		TargetMet: encoded.TargetMet,
	}

	if o.sink.Enabled() {
		if data, err := json.MarshalIndent(newReport(src, edit, settings, result, encoded.Attempts), "", "  "); err == nil {
			if err := o.sink.SaveReport(exportID, data); err != nil {
				log.Warn("Failed to save debug output: %s", err)
			}
		}
	}

	return result, nil
}

// BuildComposeInput maps an edit onto the compose stage input.
// Zoom only reaches the output when settings.ApplyZoom is set.
func BuildComposeInput(src editor.ImageSource, edit editor.EditState, settings editor.ExportSettings) pipeline.ComposeInput {
	input := pipeline.ComposeInput{
		Image:       src.Image,
		RotationDeg: edit.RotationDeg,
		FlipX:       edit.FlipX,
		FlipY:       edit.FlipY,
		Scale:       1,
		Resize: pipeline.ResizeSpec{
			Width:               settings.TargetWidth,
			Height:              settings.TargetHeight,
			MaintainAspectRatio: settings.MaintainAspectRatio,
		},
	}
	if edit.IsCropping {
		input.Window = edit.CropRect
	}
	if settings.ApplyZoom && edit.Scale > 0 {
		input.Scale = edit.Scale
	}
	if wm := settings.Watermark; wm.Active() {
		input.Watermark = &pipeline.WatermarkSpec{
			Text:        wm.Text,
			Color:       wm.Color,
			Opacity:     wm.Opacity,
			RotationDeg: wm.RotationDeg,
			SpacingX:    wm.SpacingX,
			SpacingY:    wm.SpacingY,
		}
	}
	return input
}

// RunResult contains the results of a file export for summary generation.
type RunResult struct {
	InputPath  string
	OutputPath string
	Source     editor.ImageSource
	Edit       editor.EditState
	Settings   editor.ExportSettings
	Output     editor.ExportResult
}

// Ensure Orchestrator implements editor.Exporter
var _ editor.Exporter = (*Orchestrator)(nil)
