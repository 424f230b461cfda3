// Package imagecodec provides a ports.ImageCodec for JPEG, PNG and WEBP.
package imagecodec

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp" // register WEBP decoding for imaging.Decode

	"github.com/user/picedit/pkg/ports"
)

// DefaultMaxPixels bounds decoded images.
const DefaultMaxPixels = 100_000_000

// ErrTooManyPixels is returned when a decoded image exceeds the pixel limit.
var ErrTooManyPixels = errors.New("image exceeds maximum pixel count")

// Codec implements ports.ImageCodec.
type Codec struct {
	maxPixels int
}

// New creates a codec with DefaultMaxPixels.
func New() *Codec {
	return &Codec{maxPixels: DefaultMaxPixels}
}

// NewWithLimit creates a codec rejecting images above maxPixels (0 disables the limit).
func NewWithLimit(maxPixels int) *Codec {
	return &Codec{maxPixels: maxPixels}
}

// Decode decodes the first frame of data with EXIF orientation applied.
// The pixel limit is checked against the header before any pixels are decoded.
func (c *Codec) Decode(data []byte) (image.Image, error) {
	if c.maxPixels > 0 {
		cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("decode image header: %w", err)
		}
		if int64(cfg.Width)*int64(cfg.Height) > int64(c.maxPixels) {
			return nil, fmt.Errorf("%w: %dx%d", ErrTooManyPixels, cfg.Width, cfg.Height)
		}
	}
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// Encode encodes img. quality in (0, 1] maps to the codec's native scale.
func (c *Codec) Encode(img image.Image, format ports.ImageFormat, quality float64) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case ports.FormatJPEG:
		if err := imaging.Encode(&buf, img, imaging.JPEG, imaging.JPEGQuality(JPEGQuality(quality))); err != nil {
			return nil, fmt.Errorf("encode JPEG: %w", err)
		}
	case ports.FormatPNG:
		if err := imaging.Encode(&buf, img, imaging.PNG); err != nil {
			return nil, fmt.Errorf("encode PNG: %w", err)
		}
	case ports.FormatWEBP:
		if err := webp.Encode(&buf, img, &webp.Options{Quality: WEBPQuality(quality)}); err != nil {
			return nil, fmt.Errorf("encode WEBP: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %s", format)
	}

	return buf.Bytes(), nil
}

// JPEGQuality maps quality in (0, 1] to libjpeg's 1-100.
func JPEGQuality(q float64) int {
	v := int(math.Round(q * 100))
	if v < 1 {
		return 1
	}
	if v > 100 {
		return 100
	}
	return v
}

// WEBPQuality maps quality in (0, 1] to libwebp's 0-100.
func WEBPQuality(q float64) float32 {
	v := q * 100
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	return float32(v)
}

// Ensure Codec implements ports.ImageCodec
var _ ports.ImageCodec = (*Codec)(nil)
