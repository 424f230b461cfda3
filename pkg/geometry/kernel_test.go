package geometry

import (
	"math"
	"testing"
)

const eps = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < eps
}

func TestScreenDeltaToImage(t *testing.T) {
	tests := []struct {
		name   string
		dx, dy float64
		vt     ViewTransform
		want   Point
	}{
		{
			name: "identity",
			dx:   10, dy: 20,
			vt:   ViewTransform{FitScale: 1, UserScale: 1},
			want: Point{X: 10, Y: 20},
		},
		{
			name: "scaled",
			dx:   10, dy: 20,
			vt:   ViewTransform{FitScale: 0.5, UserScale: 2, RotationDeg: 0},
			want: Point{X: 10, Y: 20},
		},
		{
			name: "fit scale only",
			dx:   10, dy: 20,
			vt:   ViewTransform{FitScale: 0.25, UserScale: 1},
			want: Point{X: 40, Y: 80},
		},
		{
			name: "rotated 90",
			dx:   0, dy: 10,
			vt:   ViewTransform{FitScale: 1, UserScale: 1, RotationDeg: 90},
			want: Point{X: 10, Y: 0},
		},
		{
			name: "rotated 180",
			dx:   5, dy: 7,
			vt:   ViewTransform{FitScale: 1, UserScale: 1, RotationDeg: 180},
			want: Point{X: -5, Y: -7},
		},
		{
			name: "flip x",
			dx:   5, dy: 7,
			vt:   ViewTransform{FitScale: 1, UserScale: 1, FlipX: true},
			want: Point{X: -5, Y: 7},
		},
		{
			name: "flip y with zoom",
			dx:   6, dy: 8,
			vt:   ViewTransform{FitScale: 1, UserScale: 2, FlipY: true},
			want: Point{X: 3, Y: -4},
		},
		{
			name: "zero scale",
			dx:   6, dy: 8,
			vt:   ViewTransform{},
			want: Point{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScreenDeltaToImage(tt.dx, tt.dy, tt.vt)
			if !almostEqual(got.X, tt.want.X) || !almostEqual(got.Y, tt.want.Y) {
				t.Errorf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestScreenDeltaToImage_InvertsForward(t *testing.T) {
	transforms := []ViewTransform{
		{FitScale: 0.37, UserScale: 1.5, RotationDeg: 33},
		{FitScale: 1.2, UserScale: 0.5, RotationDeg: 270, FlipX: true},
		{FitScale: 0.8, UserScale: 3, RotationDeg: 121.5, FlipX: true, FlipY: true},
	}

	for _, vt := range transforms {
		screen := ImageDeltaToScreen(123.4, -56.7, vt)
		back := ScreenDeltaToImage(screen.X, screen.Y, vt)
		if math.Abs(back.X-123.4) > 1e-6 || math.Abs(back.Y+56.7) > 1e-6 {
			t.Errorf("round trip through %+v: got %+v", vt, back)
		}
	}
}

func TestScreenPointToImage(t *testing.T) {
	vt := ViewTransform{FitScale: 0.5, UserScale: 1, Pan: Point{X: 10, Y: 0}}
	center := Point{X: 400, Y: 300}

	// The image centre is drawn at viewport centre + pan.
	got := ScreenPointToImage(Point{X: 410, Y: 300}, center, 1000, 800, vt)
	if !almostEqual(got.X, 500) || !almostEqual(got.Y, 400) {
		t.Errorf("expected image centre (500,400), got %+v", got)
	}

	got = ScreenPointToImage(Point{X: 160, Y: 100}, center, 1000, 800, vt)
	if !almostEqual(got.X, 0) || !almostEqual(got.Y, 0) {
		t.Errorf("expected top-left (0,0), got %+v", got)
	}
}

func TestHandleCompensation(t *testing.T) {
	sx, sy := HandleCompensation(ViewTransform{FitScale: 0.5, UserScale: 2})
	if !almostEqual(sx, 1) || !almostEqual(sy, 1) {
		t.Errorf("expected (1,1), got (%v,%v)", sx, sy)
	}

	sx, sy = HandleCompensation(ViewTransform{FitScale: 0.25, UserScale: 1, FlipX: true})
	if !almostEqual(sx, -4) || !almostEqual(sy, 4) {
		t.Errorf("expected (-4,4), got (%v,%v)", sx, sy)
	}
}

func TestRotatedBounds(t *testing.T) {
	w, h := RotatedBounds(1600, 1200, 90)
	if math.Abs(w-1200) > 1e-6 || math.Abs(h-1600) > 1e-6 {
		t.Errorf("expected 1200x1600, got %vx%v", w, h)
	}

	w, h = RotatedBounds(100, 100, 45)
	want := 100 * math.Sqrt2
	if math.Abs(w-want) > 1e-6 || math.Abs(h-want) > 1e-6 {
		t.Errorf("expected %vx%v, got %vx%v", want, want, w, h)
	}
}

func TestRotatedBounds_FullTurn(t *testing.T) {
	for _, deg := range []float64{0, 360, 720, -360} {
		w, h := RotatedBounds(640, 480, deg)
		if math.Abs(w-640) > 1e-6 || math.Abs(h-480) > 1e-6 {
			t.Errorf("deg %v: expected 640x480, got %vx%v", deg, w, h)
		}
	}
}

func TestNormalizeDegrees(t *testing.T) {
	tests := map[float64]float64{
		0:    0,
		90:   90,
		360:  0,
		450:  90,
		-90:  270,
		-360: 0,
	}
	for in, want := range tests {
		if got := NormalizeDegrees(in); got != want {
			t.Errorf("NormalizeDegrees(%v): expected %v, got %v", in, want, got)
		}
	}
}

func TestRect_Round(t *testing.T) {
	r := Rect{X: 10.4, Y: -0.2, Width: 99.6, Height: 2000.7}
	got := r.Round(200, 1000)
	want := Rect{X: 10, Y: 0, Width: 100, Height: 1000}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}
