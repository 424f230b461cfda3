package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"testing"

	"github.com/user/picedit/pkg/adapters/ggrenderer"
	"github.com/user/picedit/pkg/adapters/imagecodec"
	"github.com/user/picedit/pkg/adapters/logger"
	"github.com/user/picedit/pkg/adapters/nullsink"
	"github.com/user/picedit/pkg/editor"
	"github.com/user/picedit/pkg/geometry"
	"github.com/user/picedit/pkg/imageinfo"
	"github.com/user/picedit/pkg/mocks"
	"github.com/user/picedit/pkg/pipeline"
	"github.com/user/picedit/pkg/ports"
	"github.com/user/picedit/pkg/stages/compose"
	"github.com/user/picedit/pkg/stages/decode"
	"github.com/user/picedit/pkg/stages/encode"
)

// mockDecodeStage is a mock for the decode stage.
type mockDecodeStage struct {
	result pipeline.DecodeResult
	err    error
}

func (m *mockDecodeStage) Execute(ctx context.Context, input pipeline.DecodeInput) (pipeline.DecodeResult, error) {
	if m.err != nil {
		return pipeline.DecodeResult{}, m.err
	}
	return m.result, nil
}

// mockComposeStage is a mock for the compose stage.
type mockComposeStage struct {
	input  pipeline.ComposeInput
	result pipeline.ComposeResult
	err    error
}

func (m *mockComposeStage) Execute(ctx context.Context, input pipeline.ComposeInput) (pipeline.ComposeResult, error) {
	m.input = input
	if m.err != nil {
		return pipeline.ComposeResult{}, m.err
	}
	return m.result, nil
}

// mockEncodeStage is a mock for the encode stage.
type mockEncodeStage struct {
	input  pipeline.EncodeInput
	result pipeline.EncodeResult
	err    error
}

func (m *mockEncodeStage) Execute(ctx context.Context, input pipeline.EncodeInput) (pipeline.EncodeResult, error) {
	m.input = input
	if m.err != nil {
		return pipeline.EncodeResult{}, m.err
	}
	return m.result, nil
}

func testSource(w, h int) editor.ImageSource {
	return editor.ImageSource{
		Width:    w,
		Height:   h,
		Image:    image.NewRGBA(image.Rect(0, 0, w, h)),
		Format:   ports.FormatJPEG,
		ByteSize: 1234,
	}
}

func newMocked(decodeStage *mockDecodeStage, composeStage *mockComposeStage, encodeStage *mockEncodeStage, fs *mocks.FileSystem, sink ports.DebugSink) *Orchestrator {
	o := New(decodeStage, composeStage, encodeStage, fs, sink, logger.NewNoop())
	o.newID = func() string { return "export-1" }
	return o
}

func TestOrchestrator_Run(t *testing.T) {
	src := testSource(400, 300)
	decodeStage := &mockDecodeStage{result: pipeline.DecodeResult{Source: src}}
	composeStage := &mockComposeStage{result: pipeline.ComposeResult{
		Image: image.NewRGBA(image.Rect(0, 0, 300, 400)), Width: 300, Height: 400,
	}}
	encodeStage := &mockEncodeStage{result: pipeline.EncodeResult{
		Data: []byte{0xFF, 0xD8, 0xFF, 0x00}, Quality: 0.8,
		Attempts: []pipeline.EncodeAttempt{{Quality: 0.8, Size: 4}}, TargetMet: true,
	}}
	fs := mocks.NewFileSystem()
	fs.WriteFile("in.jpg", []byte("input"))
	sink := mocks.NewDebugSink(true)

	o := newMocked(decodeStage, composeStage, encodeStage, fs, sink)

	config := DefaultConfig()
	config.InputPath = "in.jpg"
	config.OutputPath = "out/out.jpg"
	config.RotationDeg = 90
	config.FlipY = true
	config.Crop = &geometry.Rect{X: 10, Y: 10, Width: 100, Height: 50}
	config.Settings.Quality = 0.8

	result, err := o.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	in := composeStage.input
	if in.RotationDeg != 90 || !in.FlipY || in.FlipX {
		t.Errorf("unexpected compose input %+v", in)
	}
	if in.Window != (geometry.Rect{X: 10, Y: 10, Width: 100, Height: 50}) {
		t.Errorf("expected crop window, got %+v", in.Window)
	}
	if encodeStage.input.Quality != 0.8 || encodeStage.input.ExportID != "export-1" {
		t.Errorf("unexpected encode input %+v", encodeStage.input)
	}

	if data, ok := fs.GetFile("out/out.jpg"); !ok || len(data) != 4 {
		t.Errorf("expected output written, got %v (%v)", data, ok)
	}
	if result.Output.ByteSize != 4 || result.Output.Width != 300 || result.Output.Attempts != 1 {
		t.Errorf("unexpected output %+v", result.Output)
	}
	if result.Source.Width != 400 {
		t.Errorf("expected source recorded, got %+v", result.Source)
	}

	if _, ok := sink.Composed["export-1"]; !ok {
		t.Error("expected composed buffer saved")
	}
	var rep map[string]interface{}
	if err := json.Unmarshal(sink.Reports["export-1"], &rep); err != nil {
		t.Fatalf("expected JSON report, got %v", err)
	}
	if rep["export_id"] != "export-1" {
		t.Errorf("expected export id in report, got %v", rep["export_id"])
	}
}

func TestOrchestrator_ComposeError(t *testing.T) {
	composeStage := &mockComposeStage{err: fmt.Errorf("create surface: %w", ports.ErrRenderSurface)}
	o := newMocked(&mockDecodeStage{}, composeStage, &mockEncodeStage{}, mocks.NewFileSystem(), nullsink.New())

	_, err := o.Export(context.Background(), testSource(10, 10), editor.EditState{Scale: 1}, editor.DefaultExportSettings())
	if !errors.Is(err, ErrExportFailed) {
		t.Errorf("expected ErrExportFailed, got %v", err)
	}
	if !errors.Is(err, ports.ErrRenderSurface) {
		t.Errorf("expected ErrRenderSurface preserved, got %v", err)
	}
}

func TestOrchestrator_EncodeError(t *testing.T) {
	composeStage := &mockComposeStage{result: pipeline.ComposeResult{Image: image.NewRGBA(image.Rect(0, 0, 1, 1))}}
	encodeStage := &mockEncodeStage{err: ports.ErrEncode}
	o := newMocked(&mockDecodeStage{}, composeStage, encodeStage, mocks.NewFileSystem(), nullsink.New())

	_, err := o.Export(context.Background(), testSource(10, 10), editor.EditState{Scale: 1}, editor.DefaultExportSettings())
	if !errors.Is(err, ErrExportFailed) || !errors.Is(err, ports.ErrEncode) {
		t.Errorf("expected ErrExportFailed wrapping ErrEncode, got %v", err)
	}
}

func TestOrchestrator_LoadErrors(t *testing.T) {
	fs := mocks.NewFileSystem()
	o := newMocked(&mockDecodeStage{err: imageinfo.ErrUnsupportedFormat}, &mockComposeStage{}, &mockEncodeStage{}, fs, nullsink.New())

	_, err := o.Run(context.Background(), Config{InputPath: "missing.jpg"})
	if !errors.Is(err, ErrExportFailed) {
		t.Errorf("expected ErrExportFailed for missing input, got %v", err)
	}

	fs.WriteFile("anim.gif", []byte("GIF89a"))
	_, err = o.Run(context.Background(), Config{InputPath: "anim.gif"})
	if !errors.Is(err, imageinfo.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}
}

func TestOrchestrator_WriteError(t *testing.T) {
	src := testSource(10, 10)
	fs := mocks.NewFileSystem()
	fs.WriteFile("in.jpg", []byte("input"))
	fs.WriteFileFunc = func(path string, data []byte) error { return errors.New("disk full") }

	o := newMocked(
		&mockDecodeStage{result: pipeline.DecodeResult{Source: src}},
		&mockComposeStage{result: pipeline.ComposeResult{Image: src.Image, Width: 10, Height: 10}},
		&mockEncodeStage{result: pipeline.EncodeResult{Data: []byte{1}}},
		fs, nullsink.New(),
	)
	_, err := o.Run(context.Background(), Config{InputPath: "in.jpg", OutputPath: "out.jpg", Settings: editor.DefaultExportSettings()})
	if !errors.Is(err, ErrExportFailed) {
		t.Errorf("expected ErrExportFailed, got %v", err)
	}
}

func TestBuildComposeInput(t *testing.T) {
	src := testSource(100, 100)
	edit := editor.NewEditState(src).WithScale(2)
	settings := editor.DefaultExportSettings()

	in := BuildComposeInput(src, edit, settings)
	if in.Scale != 1 {
		t.Errorf("expected zoom to stay view-only, got scale %f", in.Scale)
	}
	if in.Window != (geometry.Rect{}) {
		t.Errorf("expected full image when not cropping, got %+v", in.Window)
	}
	if in.Watermark != nil {
		t.Error("expected no watermark by default")
	}

	settings.ApplyZoom = true
	settings.Watermark.Enabled = true
	settings.Watermark.Text = "proof"
	settings.TargetWidth = 50
	in = BuildComposeInput(src, edit, settings)
	if in.Scale != 2 {
		t.Errorf("expected zoom applied, got %f", in.Scale)
	}
	if in.Watermark == nil || in.Watermark.Text != "proof" {
		t.Errorf("expected watermark spec, got %+v", in.Watermark)
	}
	if in.Resize.Width != 50 || !in.Resize.MaintainAspectRatio {
		t.Errorf("unexpected resize %+v", in.Resize)
	}
}

func TestBuildEditState(t *testing.T) {
	src := testSource(200, 100)
	config := DefaultConfig()
	config.RotationDeg = -90
	config.Crop = &geometry.Rect{X: 150, Y: 0, Width: 100, Height: 100}

	edit := BuildEditState(src, config)
	if edit.RotationDeg != 270 {
		t.Errorf("expected 270, got %f", edit.RotationDeg)
	}
	if !edit.IsCropping {
		t.Error("expected cropping on")
	}
	if !edit.CropRect.Within(200, 100) {
		t.Errorf("expected crop clamped into image, got %+v", edit.CropRect)
	}
}

func TestOrchestrator_EndToEnd(t *testing.T) {
	codec := imagecodec.New()
	src := image.NewRGBA(image.Rect(0, 0, 160, 120))
	for y := 0; y < 120; y++ {
		for x := 0; x < 160; x++ {
			src.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	input, err := codec.Encode(src, ports.FormatPNG, 1)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}

	fs := mocks.NewFileSystem()
	fs.WriteFile("in.png", input)
	log := logger.NewNoop()
	sink := nullsink.New()

	o := New(
		decode.NewStage(codec, log),
		compose.NewStage(ggrenderer.New(), log),
		encode.NewStage(codec, sink, log),
		fs, sink, log,
	)

	config := DefaultConfig()
	config.InputPath = "in.png"
	config.OutputPath = "out.jpg"
	config.RotationDeg = 90
	config.Settings.TargetWidth = 60
	config.Settings.Watermark.Enabled = true
	config.Settings.Watermark.Text = "sample"

	result, err := o.Run(context.Background(), config)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Output.Width != 60 || result.Output.Height != 80 {
		t.Errorf("expected 60x80, got %dx%d", result.Output.Width, result.Output.Height)
	}

	out, ok := fs.GetFile("out.jpg")
	if !ok {
		t.Fatal("expected output written")
	}
	info, err := imageinfo.Read(out)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if info.Format != ports.FormatJPEG || info.Width != 60 || info.Height != 80 {
		t.Errorf("unexpected output %+v", info)
	}
}
