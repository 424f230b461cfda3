package ports

import (
	"fmt"
	"strings"
)

// ImageFormat specifies an image container/codec.
type ImageFormat int

const (
	FormatJPEG ImageFormat = iota
	FormatPNG
	FormatWEBP
)

// String returns the lower-case name of the format.
func (f ImageFormat) String() string {
	switch f {
	case FormatJPEG:
		return "jpeg"
	case FormatPNG:
		return "png"
	case FormatWEBP:
		return "webp"
	default:
		return "unknown"
	}
}

// MIMEType returns the media type written for the format.
func (f ImageFormat) MIMEType() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	case FormatPNG:
		return "image/png"
	case FormatWEBP:
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}

// Extension returns the conventional file extension including the dot.
func (f ImageFormat) Extension() string {
	switch f {
	case FormatJPEG:
		return ".jpg"
	case FormatPNG:
		return ".png"
	case FormatWEBP:
		return ".webp"
	default:
		return ""
	}
}

// Lossy reports whether the encoder honours a quality parameter.
func (f ImageFormat) Lossy() bool {
	return f == FormatJPEG || f == FormatWEBP
}

// ParseImageFormat parses a format name or extension ("jpg", ".webp", "image/png").
func ParseImageFormat(s string) (ImageFormat, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.TrimPrefix(v, ".")
	v = strings.TrimPrefix(v, "image/")
	switch v {
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	case "webp":
		return FormatWEBP, nil
	default:
		return 0, fmt.Errorf("unsupported image format: %q", s)
	}
}
