package mocks

import (
	"image"
	"sync"

	"github.com/user/picedit/pkg/ports"
)

// DebugSink is a mock implementation of ports.DebugSink.
type DebugSink struct {
	mu sync.RWMutex

	enabled bool

	Composed map[string]image.Image
	Attempts map[string][]SavedAttempt
	Reports  map[string][]byte
}

// SavedAttempt records a call to SaveAttempt.
type SavedAttempt struct {
	Index   int
	Quality float64
	Format  ports.ImageFormat
	Size    int
}

// NewDebugSink creates a new mock DebugSink.
func NewDebugSink(enabled bool) *DebugSink {
	return &DebugSink{
		enabled:  enabled,
		Composed: make(map[string]image.Image),
		Attempts: make(map[string][]SavedAttempt),
		Reports:  make(map[string][]byte),
	}
}

func (m *DebugSink) Enabled() bool {
	return m.enabled
}

func (m *DebugSink) SaveComposed(exportID string, img image.Image) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Composed[exportID] = img
	return nil
}

func (m *DebugSink) SaveAttempt(exportID string, index int, quality float64, format ports.ImageFormat, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Attempts[exportID] = append(m.Attempts[exportID], SavedAttempt{
		Index:   index,
		Quality: quality,
		Format:  format,
		Size:    len(data),
	})
	return nil
}

func (m *DebugSink) SaveReport(exportID string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Reports[exportID] = data
	return nil
}

var _ ports.DebugSink = (*DebugSink)(nil)
