// Package decode implements the ingestion stage: bytes to an editable image.
package decode

import (
	"context"
	"fmt"

	"github.com/user/picedit/pkg/editor"
	"github.com/user/picedit/pkg/imageinfo"
	"github.com/user/picedit/pkg/pipeline"
	"github.com/user/picedit/pkg/ports"
)

// Stage decodes encoded image bytes.
type Stage struct {
	codec  ports.ImageCodec
	logger ports.Logger
}

// NewStage creates a new decode stage.
func NewStage(codec ports.ImageCodec, logger ports.Logger) *Stage {
	return &Stage{
		codec:  codec,
		logger: logger.WithComponent("decode"),
	}
}

// Execute detects the container and decodes a single still frame.
// Unknown and non-editable containers fail with imageinfo.ErrUnsupportedFormat.
func (s *Stage) Execute(ctx context.Context, input pipeline.DecodeInput) (pipeline.DecodeResult, error) {
	result := pipeline.DecodeResult{}

	format, err := imageinfo.DetectFromBytes(input.Data)
	if err != nil {
		return result, err
	}
	if err := ctx.Err(); err != nil {
		return result, err
	}

	img, err := s.codec.Decode(input.Data)
	if err != nil {
		return result, fmt.Errorf("decode %s: %w", format, err)
	}

	b := img.Bounds()
	result.Source = editor.ImageSource{
		Width:    b.Dx(),
		Height:   b.Dy(),
		Image:    img,
		Format:   format,
		ByteSize: int64(len(input.Data)),
	}
	s.logger.Debug("Decoded %s %dx%d (%d bytes)", format, b.Dx(), b.Dy(), len(input.Data))
	return result, nil
}

// Ensure Stage implements pipeline.Stage
var _ pipeline.Stage[pipeline.DecodeInput, pipeline.DecodeResult] = (*Stage)(nil)
