// Package encode implements the adaptive image encoding stage.
package encode

import (
	"context"
	"fmt"

	"github.com/user/picedit/pkg/pipeline"
	"github.com/user/picedit/pkg/ports"
)

// Quality search bounds for lossy formats with a byte target.
const (
	MinQuality     = 0.01
	MaxQuality     = 1.0
	BisectionSteps = 6
	// MaxAttempts is the probe, the bisection steps and the fallback encode.
	MaxAttempts = BisectionSteps + 2
)

// Stage encodes the composed buffer, searching quality to meet a byte target.
type Stage struct {
	codec  ports.ImageCodec
	sink   ports.DebugSink
	logger ports.Logger
}

// NewStage creates a new encode stage.
func NewStage(codec ports.ImageCodec, sink ports.DebugSink, logger ports.Logger) *Stage {
	return &Stage{
		codec:  codec,
		sink:   sink,
		logger: logger.WithComponent("encode"),
	}
}

// Execute encodes input.Image.
//
// PNG is encoded once; quality and target are ignored. Lossy formats without a
// target are encoded once at input.Quality. With a target, quality 1.0 is
// probed first, then up to BisectionSteps halvings over [MinQuality,
// MaxQuality] keep the best result under the target. If nothing fits, a final
// encode at the lowest quality is returned with TargetMet false.
func (s *Stage) Execute(ctx context.Context, input pipeline.EncodeInput) (pipeline.EncodeResult, error) {
	result := pipeline.EncodeResult{}

	if input.Image == nil {
		return result, fmt.Errorf("no image to encode")
	}

	if !input.Format.Lossy() {
		data, err := s.attempt(input, &result, 1)
		if err != nil {
			return result, err
		}
		result.Data = data
		result.Quality = 1
		result.TargetMet = true
		return result, nil
	}

	if input.TargetSizeBytes <= 0 {
		q := clampQuality(input.Quality)
		data, err := s.attempt(input, &result, q)
		if err != nil {
			return result, err
		}
		result.Data = data
		result.Quality = q
		result.TargetMet = true
		return result, nil
	}

	target := input.TargetSizeBytes
	s.logger.Debug("Searching quality for %d byte target", target)

	data, err := s.attempt(input, &result, MaxQuality)
	if err != nil {
		return result, err
	}
	if int64(len(data)) <= target {
		result.Data = data
		result.Quality = MaxQuality
		result.TargetMet = true
		return result, nil
	}

	lo, hi := MinQuality, MaxQuality
	var best []byte
	bestQ := 0.0
	for i := 0; i < BisectionSteps; i++ {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		mid := (lo + hi) / 2
		data, err := s.attempt(input, &result, mid)
		if err != nil {
			return result, err
		}
		if int64(len(data)) <= target {
			best, bestQ = data, mid
			lo = mid
		} else {
			hi = mid
		}
	}

	if best != nil {
		result.Data = best
		result.Quality = bestQ
		result.TargetMet = true
		return result, nil
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}
	data, err = s.attempt(input, &result, lo)
	if err != nil {
		return result, err
	}
	result.Data = data
	result.Quality = lo
	result.TargetMet = int64(len(data)) <= target
	if !result.TargetMet {
		s.logger.Warn("Target size %d bytes not reached, using %d bytes at quality %.2f", target, len(data), lo)
	}
	return result, nil
}

// attempt runs one encoder call and records it.
func (s *Stage) attempt(input pipeline.EncodeInput, result *pipeline.EncodeResult, quality float64) ([]byte, error) {
	data, err := s.codec.Encode(input.Image, input.Format, quality)
	if err != nil {
		return nil, fmt.Errorf("encode %s at quality %.2f: %w", input.Format, quality, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("encode %s at quality %.2f: %w", input.Format, quality, ports.ErrEncode)
	}

	index := len(result.Attempts)
	result.Attempts = append(result.Attempts, pipeline.EncodeAttempt{Quality: quality, Size: len(data)})
	s.logger.Debug("Attempt %d: quality %.3f, %d bytes", index+1, quality, len(data))

	if s.sink.Enabled() {
		if err := s.sink.SaveAttempt(input.ExportID, index, quality, input.Format, data); err != nil {
			s.logger.Warn("Failed to save debug attempt: %v", err)
		}
	}
	return data, nil
}

func clampQuality(q float64) float64 {
	if q <= 0 {
		return MinQuality
	}
	if q > MaxQuality {
		return MaxQuality
	}
	return q
}

// Ensure Stage implements pipeline.Stage
var _ pipeline.Stage[pipeline.EncodeInput, pipeline.EncodeResult] = (*Stage)(nil)
