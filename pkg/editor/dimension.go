package editor

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidDimensionInput is returned for malformed width/height text.
// Callers keep the previous value; the error is informational.
var ErrInvalidDimensionInput = errors.New("invalid dimension input")

// ParseDimension parses user-entered width/height text.
// Empty text means "unset" and returns 0. Values must be positive integers.
func ParseDimension(text string) (int, error) {
	s := strings.TrimSpace(text)
	s = strings.TrimSuffix(s, "px")
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDimensionInput, text)
	}
	return n, nil
}

// CompanionDimension derives the other target dimension from aspect (w/h).
// When fromWidth is true, value is a width and a height is returned.
func CompanionDimension(value int, aspect float64, fromWidth bool) int {
	if value <= 0 || aspect <= 0 || math.IsNaN(aspect) || math.IsInf(aspect, 0) {
		return 0
	}
	var out float64
	if fromWidth {
		out = float64(value) / aspect
	} else {
		out = float64(value) * aspect
	}
	return int(math.Max(1, math.Round(out)))
}
