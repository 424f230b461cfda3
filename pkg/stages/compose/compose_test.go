package compose

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/user/picedit/pkg/adapters/ggrenderer"
	"github.com/user/picedit/pkg/adapters/logger"
	"github.com/user/picedit/pkg/geometry"
	"github.com/user/picedit/pkg/mocks"
	"github.com/user/picedit/pkg/pipeline"
	"github.com/user/picedit/pkg/ports"
)

func halves(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x < w/2 {
				img.Set(x, y, color.RGBA{R: 255, A: 255})
			} else {
				img.Set(x, y, color.RGBA{G: 255, A: 255})
			}
		}
	}
	return img
}

func TestResolveResize(t *testing.T) {
	tests := []struct {
		name         string
		curW, curH   int
		spec         pipeline.ResizeSpec
		wantW, wantH int
	}{
		{"width derives height", 1600, 1200, pipeline.ResizeSpec{Width: 800, MaintainAspectRatio: true}, 800, 600},
		{"height derives width", 1600, 1200, pipeline.ResizeSpec{Height: 300, MaintainAspectRatio: true}, 400, 300},
		{"width keeps height when not maintained", 1600, 1200, pipeline.ResizeSpec{Width: 800}, 800, 1200},
		{"height keeps width when not maintained", 1600, 1200, pipeline.ResizeSpec{Height: 100}, 1600, 100},
		{"both set", 1600, 1200, pipeline.ResizeSpec{Width: 100, Height: 100, MaintainAspectRatio: true}, 100, 100},
		{"unset", 1600, 1200, pipeline.ResizeSpec{}, 1600, 1200},
		{"rounds derived", 1000, 333, pipeline.ResizeSpec{Width: 500, MaintainAspectRatio: true}, 500, 167},
		{"derived at least one pixel", 1000, 1, pipeline.ResizeSpec{Width: 10, MaintainAspectRatio: true}, 10, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := ResolveResize(tt.curW, tt.curH, tt.spec)
			if w != tt.wantW || h != tt.wantH {
				t.Errorf("expected %dx%d, got %dx%d", tt.wantW, tt.wantH, w, h)
			}
		})
	}
}

func TestWatermarkGrid_Counts(t *testing.T) {
	pts := WatermarkGrid(1000, 600, 200, 150)
	// rows = ceil(600/150)+2 = 6, cols = ceil(1000/200)+2 = 7
	if len(pts) != 42 {
		t.Fatalf("expected 42 tiles, got %d", len(pts))
	}
	if pts[0] != (geometry.Point{X: -200, Y: -150}) {
		t.Errorf("expected first tile at (-200,-150), got %+v", pts[0])
	}
	last := pts[len(pts)-1]
	if last != (geometry.Point{X: 1000, Y: 600}) {
		t.Errorf("expected last tile at (1000,600), got %+v", last)
	}
}

func TestWatermarkGrid_CoversOutput(t *testing.T) {
	sizes := [][2]int{{1, 1}, {199, 149}, {200, 150}, {1920, 1080}, {3000, 4000}, {333, 777}}
	spacings := [][2]float64{{200, 150}, {57, 91}, {1000, 1000}}
	for _, sz := range sizes {
		for _, sp := range spacings {
			t.Run(fmt.Sprintf("%dx%d/%vx%v", sz[0], sz[1], sp[0], sp[1]), func(t *testing.T) {
				pts := WatermarkGrid(sz[0], sz[1], sp[0], sp[1])
				minX, minY := math.Inf(1), math.Inf(1)
				maxX, maxY := math.Inf(-1), math.Inf(-1)
				for _, p := range pts {
					minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
					minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
				}
				if minX > -sp[0] || minY > -sp[1] {
					t.Errorf("expected grid to start one step before origin, got (%f,%f)", minX, minY)
				}
				if maxX < float64(sz[0]) || maxY < float64(sz[1]) {
					t.Errorf("expected grid to reach far edges, got (%f,%f)", maxX, maxY)
				}
			})
		}
	}
}

func TestWatermarkGrid_Degenerate(t *testing.T) {
	if pts := WatermarkGrid(100, 100, 0, 10); pts != nil {
		t.Errorf("expected nil grid for zero spacing, got %d tiles", len(pts))
	}
}

func TestWatermarkSizing(t *testing.T) {
	if got := WatermarkFontSize(2000, 1000); got != 30 {
		t.Errorf("expected font size 30, got %f", got)
	}
	if got := WatermarkFontSize(100, 100); got != 16 {
		t.Errorf("expected minimum font size 16, got %f", got)
	}
	sx, sy := WatermarkSpacing(2000, 2000, 0, 0)
	if sx != 400 || sy != 300 {
		t.Errorf("expected 400x300 spacing, got %fx%f", sx, sy)
	}
	sx, sy = WatermarkSpacing(100, 100, -1, 0)
	if sx != 200 || sy != 150 {
		t.Errorf("expected minimum spacing 200x150, got %fx%f", sx, sy)
	}
	sx, sy = WatermarkSpacing(100, 100, 50, 60)
	if sx != 50 || sy != 60 {
		t.Errorf("expected explicit spacing kept, got %fx%f", sx, sy)
	}
}

func TestCompose_RotatedBoundingBox(t *testing.T) {
	r := &mocks.Renderer{}
	_, err := Compose(r, pipeline.ComposeInput{
		Image:       image.NewRGBA(image.Rect(0, 0, 400, 200)),
		RotationDeg: 90,
		FlipX:       true,
		Scale:       1,
	})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	if len(r.Surfaces) != 1 {
		t.Fatalf("expected 1 surface, got %d", len(r.Surfaces))
	}
	s := r.Surfaces[0]
	if s.W != 200 || s.H != 400 {
		t.Errorf("expected 200x400 surface, got %dx%d", s.W, s.H)
	}
	want := ports.Transform{X: 100, Y: 200, RotationDeg: 90, ScaleX: -1, ScaleY: 1}
	if len(s.ImageDraws) != 1 || s.ImageDraws[0] != want {
		t.Errorf("expected draw %+v, got %+v", want, s.ImageDraws)
	}
}

func TestCompose_WindowAndScale(t *testing.T) {
	r := &mocks.Renderer{}
	_, err := Compose(r, pipeline.ComposeInput{
		Image:  image.NewRGBA(image.Rect(0, 0, 400, 300)),
		Window: geometry.Rect{X: 10.4, Y: 20, Width: 99.6, Height: 50},
		Scale:  2,
	})
	if err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	s := r.Surfaces[0]
	if s.W != 200 || s.H != 100 {
		t.Errorf("expected 200x100 surface, got %dx%d", s.W, s.H)
	}
	if tr := s.ImageDraws[0]; tr.ScaleX != 2 || tr.ScaleY != 2 {
		t.Errorf("expected scale 2, got %+v", tr)
	}
}

func TestCompose_DiagonalRotation(t *testing.T) {
	r := &mocks.Renderer{}
	if _, err := Compose(r, pipeline.ComposeInput{
		Image:       image.NewRGBA(image.Rect(0, 0, 100, 100)),
		RotationDeg: 45,
	}); err != nil {
		t.Fatalf("Compose failed: %v", err)
	}
	// 100*cos45 + 100*sin45 = 141.42
	if s := r.Surfaces[0]; s.W != 141 || s.H != 141 {
		t.Errorf("expected 141x141 surface, got %dx%d", s.W, s.H)
	}
}

func TestCompose_SurfaceFailure(t *testing.T) {
	r := &mocks.Renderer{
		NewSurfaceFunc: func(width, height int) (ports.Surface, error) {
			return nil, fmt.Errorf("%w: out of memory", ports.ErrRenderSurface)
		},
	}
	stage := NewStage(r, logger.NewNoop())
	_, err := stage.Execute(context.Background(), pipeline.ComposeInput{
		Image: image.NewRGBA(image.Rect(0, 0, 10, 10)),
	})
	if !errors.Is(err, ports.ErrRenderSurface) {
		t.Errorf("expected ErrRenderSurface, got %v", err)
	}
}

func TestStage_ResizeAndWatermark(t *testing.T) {
	r := &mocks.Renderer{}
	stage := NewStage(r, logger.NewNoop())

	result, err := stage.Execute(context.Background(), pipeline.ComposeInput{
		Image:  image.NewRGBA(image.Rect(0, 0, 1600, 1200)),
		Resize: pipeline.ResizeSpec{Width: 800, MaintainAspectRatio: true},
		Watermark: &pipeline.WatermarkSpec{
			Text:        "SAMPLE",
			Color:       color.White,
			Opacity:     0.3,
			RotationDeg: -30,
		},
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.Width != 800 || result.Height != 600 || !result.Resized {
		t.Errorf("expected resized 800x600, got %dx%d (resized=%v)", result.Width, result.Height, result.Resized)
	}
	if len(r.ResizeCalls) != 1 {
		t.Errorf("expected 1 resize call, got %d", len(r.ResizeCalls))
	}

	if len(r.Surfaces) != 2 {
		t.Fatalf("expected compose and watermark surfaces, got %d", len(r.Surfaces))
	}
	wm := r.Surfaces[1]
	// spacing 200x150: rows = 4+2, cols = 4+2
	if len(wm.TextDraws) != 36 || result.WatermarkTiles != 36 {
		t.Errorf("expected 36 tiles, got %d (%d)", len(wm.TextDraws), result.WatermarkTiles)
	}
	d := wm.TextDraws[0]
	if d.Style.FontSize != 18 || d.Style.Opacity != 0.3 || d.Transform.RotationDeg != -30 {
		t.Errorf("unexpected tile style %+v", d)
	}
}

func TestStage_WatermarkDrawFailure(t *testing.T) {
	errNoFace := errors.New("no font face")
	r := &mocks.Renderer{
		NewSurfaceFunc: func(width, height int) (ports.Surface, error) {
			return &mocks.Surface{
				W: width,
				H: height,
				DrawTextFunc: func(text string, tr ports.Transform, style ports.TextStyle) error {
					return errNoFace
				},
			}, nil
		},
	}
	stage := NewStage(r, logger.NewNoop())

	_, err := stage.Execute(context.Background(), pipeline.ComposeInput{
		Image:     image.NewRGBA(image.Rect(0, 0, 100, 100)),
		Watermark: &pipeline.WatermarkSpec{Text: "X", Color: color.White, Opacity: 0.5},
	})
	if !errors.Is(err, errNoFace) {
		t.Errorf("expected draw error to propagate, got %v", err)
	}
}

func TestStage_NoWatermarkForEmptyText(t *testing.T) {
	r := &mocks.Renderer{}
	stage := NewStage(r, logger.NewNoop())
	result, err := stage.Execute(context.Background(), pipeline.ComposeInput{
		Image:     image.NewRGBA(image.Rect(0, 0, 50, 50)),
		Watermark: &pipeline.WatermarkSpec{Text: ""},
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if len(r.Surfaces) != 1 || result.WatermarkTiles != 0 {
		t.Errorf("expected no watermark pass, got %d surfaces", len(r.Surfaces))
	}
	if len(r.ResizeCalls) != 0 {
		t.Errorf("expected no resize, got %d", len(r.ResizeCalls))
	}
}

func TestStage_PixelsFlipped(t *testing.T) {
	stage := NewStage(ggrenderer.New(), logger.NewNoop())
	result, err := stage.Execute(context.Background(), pipeline.ComposeInput{
		Image: halves(40, 20),
		FlipX: true,
		Scale: 1,
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.Width != 40 || result.Height != 20 {
		t.Fatalf("expected 40x20, got %dx%d", result.Width, result.Height)
	}
	if _, g, _, _ := result.Image.At(5, 10).RGBA(); g == 0 {
		t.Error("expected green on the left after flip")
	}
	if red, _, _, _ := result.Image.At(35, 10).RGBA(); red == 0 {
		t.Error("expected red on the right after flip")
	}
}

func TestStage_PixelsCropped(t *testing.T) {
	stage := NewStage(ggrenderer.New(), logger.NewNoop())
	result, err := stage.Execute(context.Background(), pipeline.ComposeInput{
		Image:  halves(40, 20),
		Window: geometry.Rect{X: 20, Y: 0, Width: 20, Height: 20},
	})
	if err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if result.Width != 20 || result.Height != 20 {
		t.Fatalf("expected 20x20, got %dx%d", result.Width, result.Height)
	}
	if red, g, _, _ := result.Image.At(10, 10).RGBA(); g == 0 || red != 0 {
		t.Error("expected only the green half in the crop window")
	}
}
