package mocks

import (
	"image"

	"github.com/user/picedit/pkg/ports"
)

// ImageCodec is a mock implementation of ports.ImageCodec.
//
// When EncodeFunc is nil, Encode returns SizeFunc(quality) bytes (or 100 bytes
// when SizeFunc is nil as well).
type ImageCodec struct {
	DecodeFunc func(data []byte) (image.Image, error)
	EncodeFunc func(img image.Image, format ports.ImageFormat, quality float64) ([]byte, error)
	SizeFunc   func(quality float64) int

	// Recorded calls for verification
	EncodeCalls []EncodeCall
	DecodeCalls int
}

// EncodeCall records a call to Encode.
type EncodeCall struct {
	Format  ports.ImageFormat
	Quality float64
}

func (m *ImageCodec) Decode(data []byte) (image.Image, error) {
	m.DecodeCalls++
	if m.DecodeFunc != nil {
		return m.DecodeFunc(data)
	}
	return image.NewRGBA(image.Rect(0, 0, 100, 100)), nil
}

func (m *ImageCodec) Encode(img image.Image, format ports.ImageFormat, quality float64) ([]byte, error) {
	m.EncodeCalls = append(m.EncodeCalls, EncodeCall{Format: format, Quality: quality})
	if m.EncodeFunc != nil {
		return m.EncodeFunc(img, format, quality)
	}
	size := 100
	if m.SizeFunc != nil {
		size = m.SizeFunc(quality)
	}
	return make([]byte, size), nil
}

var _ ports.ImageCodec = (*ImageCodec)(nil)
