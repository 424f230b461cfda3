// Package ports defines interfaces for the editor's external collaborators:
// raster surfaces, codecs, logging, file access and debug output.
package ports

import "image"

// ImageCodec abstracts still-image decoding and encoding.
type ImageCodec interface {
	// Decode decodes a single still frame. EXIF orientation is applied when present.
	Decode(data []byte) (image.Image, error)

	// Encode encodes img in the given format. quality is in (0, 1] and is
	// ignored by lossless formats.
	Encode(img image.Image, format ImageFormat, quality float64) ([]byte, error)
}
