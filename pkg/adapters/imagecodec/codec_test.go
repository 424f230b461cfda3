package imagecodec

import (
	"bytes"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"math/rand"
	"runtime"
	"testing"

	"github.com/user/picedit/pkg/imageinfo"
	"github.com/user/picedit/pkg/ports"
)

func noisy(w, h int) *image.NRGBA {
	rng := rand.New(rand.NewSource(1))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(rng.Intn(256)), G: uint8(x), B: uint8(y), A: 255})
		}
	}
	return img
}

func TestCodec_RoundTrip(t *testing.T) {
	c := New()
	img := noisy(48, 32)

	for _, f := range []ports.ImageFormat{ports.FormatJPEG, ports.FormatPNG, ports.FormatWEBP} {
		t.Run(f.String(), func(t *testing.T) {
			data, err := c.Encode(img, f, 0.8)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			if got, err := imageinfo.DetectFromBytes(data); err != nil || got != f {
				t.Errorf("expected %s container, got %s (%v)", f, got, err)
			}
			decoded, err := c.Decode(data)
			if err != nil {
				t.Fatalf("Decode failed: %v", err)
			}
			if b := decoded.Bounds(); b.Dx() != 48 || b.Dy() != 32 {
				t.Errorf("expected 48x32, got %dx%d", b.Dx(), b.Dy())
			}
		})
	}
}

func TestCodec_QualityAffectsSize(t *testing.T) {
	c := New()
	img := noisy(128, 128)

	for _, f := range []ports.ImageFormat{ports.FormatJPEG, ports.FormatWEBP} {
		low, err := c.Encode(img, f, 0.1)
		if err != nil {
			t.Fatalf("%s: Encode failed: %v", f, err)
		}
		high, err := c.Encode(img, f, 1.0)
		if err != nil {
			t.Fatalf("%s: Encode failed: %v", f, err)
		}
		if len(low) >= len(high) {
			t.Errorf("%s: expected low quality smaller, got %d >= %d", f, len(low), len(high))
		}
	}
}

func TestCodec_DecodeLimit(t *testing.T) {
	data, err := New().Encode(noisy(20, 20), ports.FormatPNG, 1)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if _, err := NewWithLimit(100).Decode(data); !errors.Is(err, ErrTooManyPixels) {
		t.Errorf("expected ErrTooManyPixels, got %v", err)
	}
	if _, err := NewWithLimit(0).Decode(data); err != nil {
		t.Errorf("expected no limit, got %v", err)
	}
}

// pngHeaderOnly returns a PNG signature plus an IHDR chunk declaring w x h
// 8-bit grayscale, with no pixel data.
func pngHeaderOnly(w, h uint32) []byte {
	var buf bytes.Buffer
	buf.Write([]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'})

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], w)
	binary.BigEndian.PutUint32(ihdr[4:8], h)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 0 // grayscale

	chunk := append([]byte("IHDR"), ihdr...)
	binary.Write(&buf, binary.BigEndian, uint32(len(ihdr)))
	buf.Write(chunk)
	binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func TestCodec_DecodeLimitCheckedBeforeDecoding(t *testing.T) {
	// A full decode of this header would fail on the missing IDAT, so
	// ErrTooManyPixels proves the limit ran first.
	data := pngHeaderOnly(30000, 30000)

	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	_, err := New().Decode(data)
	runtime.ReadMemStats(&after)

	if !errors.Is(err, ErrTooManyPixels) {
		t.Fatalf("expected ErrTooManyPixels, got %v", err)
	}
	if allocated := after.TotalAlloc - before.TotalAlloc; allocated > 1<<20 {
		t.Errorf("expected rejection without pixel allocation, got %d bytes allocated", allocated)
	}
}

func TestCodec_DecodeLimitLargeProduct(t *testing.T) {
	// 70000 x 70000 overflows a 32-bit int product.
	if _, err := NewWithLimit(DefaultMaxPixels).Decode(pngHeaderOnly(70000, 70000)); !errors.Is(err, ErrTooManyPixels) {
		t.Errorf("expected ErrTooManyPixels, got %v", err)
	}
}

func TestCodec_DecodeGarbage(t *testing.T) {
	if _, err := New().Decode([]byte("not an image")); err == nil {
		t.Error("expected error")
	}
}

func TestQualityMapping(t *testing.T) {
	tests := []struct {
		q    float64
		jpeg int
		webp float32
	}{
		{1.0, 100, 100},
		{0.92, 92, 92},
		{0.01, 1, 1},
		{0.001, 1, 0.1},
		{1.5, 100, 100},
	}
	for _, tt := range tests {
		if got := JPEGQuality(tt.q); got != tt.jpeg {
			t.Errorf("JPEGQuality(%f): expected %d, got %d", tt.q, tt.jpeg, got)
		}
		if got := WEBPQuality(tt.q); got-tt.webp > 1e-4 || tt.webp-got > 1e-4 {
			t.Errorf("WEBPQuality(%f): expected %f, got %f", tt.q, tt.webp, got)
		}
	}
}
