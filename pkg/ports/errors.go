package ports

import "errors"

var (
	// ErrRenderSurface is returned when a drawing surface cannot be acquired.
	// It is fatal for the export attempt and is not retried.
	ErrRenderSurface = errors.New("render surface unavailable")

	// ErrEncode is returned when a codec fails or produces no data.
	ErrEncode = errors.New("encoder returned no data")
)
