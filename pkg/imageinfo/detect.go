// Package imageinfo identifies image containers by their magic bytes and reads
// dimensions without decoding pixels.
package imageinfo

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // register decoders for DecodeConfig
	_ "image/png"
	"io"
	"os"

	_ "golang.org/x/image/webp"

	"github.com/user/picedit/pkg/ports"
)

// ErrUnsupportedFormat is returned for containers the editor cannot ingest.
var ErrUnsupportedFormat = errors.New("unsupported image format")

// Container is a detected file container.
type Container string

const (
	ContainerJPEG    Container = "JPEG"
	ContainerPNG     Container = "PNG"
	ContainerWEBP    Container = "WebP"
	ContainerGIF     Container = "GIF"
	ContainerBMP     Container = "BMP"
	ContainerUnknown Container = ""
)

// SniffLen is the number of leading bytes needed to identify any container.
const SniffLen = 12

var (
	jpegSignature = []byte{0xFF, 0xD8, 0xFF}
	pngSignature  = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	riffSignature = []byte{0x52, 0x49, 0x46, 0x46}
	webpSignature = []byte{0x57, 0x45, 0x42, 0x50}
	gif87         = []byte("GIF87a")
	gif89         = []byte("GIF89a")
	bmpSignature  = []byte{0x42, 0x4D}
)

// DetectContainer identifies the container from its leading bytes.
func DetectContainer(magic []byte) Container {
	switch {
	case bytes.HasPrefix(magic, jpegSignature):
		return ContainerJPEG
	case bytes.HasPrefix(magic, pngSignature):
		return ContainerPNG
	case len(magic) >= 12 && bytes.HasPrefix(magic, riffSignature) && bytes.Equal(magic[8:12], webpSignature):
		return ContainerWEBP
	case bytes.HasPrefix(magic, gif87), bytes.HasPrefix(magic, gif89):
		return ContainerGIF
	case bytes.HasPrefix(magic, bmpSignature):
		return ContainerBMP
	}
	return ContainerUnknown
}

// Format maps a container to an editable format.
func (c Container) Format() (ports.ImageFormat, error) {
	switch c {
	case ContainerJPEG:
		return ports.FormatJPEG, nil
	case ContainerPNG:
		return ports.FormatPNG, nil
	case ContainerWEBP:
		return ports.FormatWEBP, nil
	case ContainerUnknown:
		return 0, ErrUnsupportedFormat
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, string(c))
	}
}

// DetectFromBytes returns the editable format of data.
func DetectFromBytes(data []byte) (ports.ImageFormat, error) {
	return DetectContainer(data).Format()
}

// Info describes an image file without its pixels.
type Info struct {
	Format   ports.ImageFormat
	Width    int
	Height   int
	ByteSize int64
}

// Read detects the format of data and reads its dimensions.
func Read(data []byte) (Info, error) {
	format, err := DetectFromBytes(data)
	if err != nil {
		return Info{}, err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Info{}, fmt.Errorf("read %s header: %w", format, err)
	}
	return Info{
		Format:   format,
		Width:    cfg.Width,
		Height:   cfg.Height,
		ByteSize: int64(len(data)),
	}, nil
}

// ReadFile is Read for a file on disk.
func ReadFile(path string) (Info, error) {
	f, err := os.Open(path)
	if err != nil {
		return Info{}, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return Info{}, fmt.Errorf("read file: %w", err)
	}
	return Read(data)
}
