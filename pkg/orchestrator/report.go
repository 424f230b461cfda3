package orchestrator

import (
	"github.com/user/picedit/pkg/editor"
	"github.com/user/picedit/pkg/pipeline"
)

// report is the debug JSON written for each export.
type report struct {
	ExportID string           `json:"export_id"`
	Source   reportSource     `json:"source"`
	Edit     editor.EditState `json:"edit"`
	Settings reportSettings   `json:"settings"`
	Output   reportOutput     `json:"output"`
	Attempts []reportAttempt  `json:"attempts"`
}

type reportSource struct {
	Format   string `json:"format"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
	ByteSize int64  `json:"byte_size"`
}

type reportSettings struct {
	Format              string  `json:"format"`
	Quality             float64 `json:"quality"`
	TargetSizeBytes     int64   `json:"target_size_bytes,omitempty"`
	TargetWidth         int     `json:"target_width,omitempty"`
	TargetHeight        int     `json:"target_height,omitempty"`
	MaintainAspectRatio bool    `json:"maintain_aspect_ratio"`
	ApplyZoom           bool    `json:"apply_zoom"`
	Watermark           string  `json:"watermark,omitempty"`
}

type reportOutput struct {
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	ByteSize  int     `json:"byte_size"`
	Quality   float64 `json:"quality"`
	TargetMet bool    `json:"target_met"`
}

type reportAttempt struct {
	Quality float64 `json:"quality"`
	Size    int     `json:"size"`
}

func newReport(src editor.ImageSource, edit editor.EditState, settings editor.ExportSettings, out editor.ExportResult, attempts []pipeline.EncodeAttempt) report {
	r := report{
		ExportID: out.ExportID,
		Source: reportSource{
			Format:   src.Format.String(),
			Width:    src.Width,
			Height:   src.Height,
			ByteSize: src.ByteSize,
		},
		Edit: edit,
		Settings: reportSettings{
			Format:              settings.Format.String(),
			Quality:             settings.Quality,
			TargetSizeBytes:     settings.TargetSizeBytes,
			TargetWidth:         settings.TargetWidth,
			TargetHeight:        settings.TargetHeight,
			MaintainAspectRatio: settings.MaintainAspectRatio,
			ApplyZoom:           settings.ApplyZoom,
		},
		Output: reportOutput{
			Width:     out.Width,
			Height:    out.Height,
			ByteSize:  out.ByteSize,
			Quality:   out.Quality,
			TargetMet: out.TargetMet,
		},
	}
	if settings.Watermark.Active() {
		r.Settings.Watermark = settings.Watermark.Text
	}
	for _, a := range attempts {
		r.Attempts = append(r.Attempts, reportAttempt{Quality: a.Quality, Size: a.Size})
	}
	return r
}
