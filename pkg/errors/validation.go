package errors

import (
	"math"
	"strings"
	"unicode"
)

// MaxNodeIDLength bounds node identifiers accepted from external input.
const MaxNodeIDLength = 256

// ValidateNodeID validates a node identifier from external input.
//
// The rules are intentionally conservative:
//   - No empty IDs
//   - No control characters or null bytes
//   - No leading or trailing whitespace
//   - Maximum length of [MaxNodeIDLength] bytes
func ValidateNodeID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "node ID cannot be empty")
	}

	if len(id) > MaxNodeIDLength {
		return New(ErrCodeInvalidInput, "node ID too long (max %d characters)", MaxNodeIDLength)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "node ID %q contains control characters", id)
		}
	}

	if strings.TrimSpace(id) != id {
		return New(ErrCodeInvalidInput, "node ID %q has leading or trailing whitespace", id)
	}

	return nil
}

// ValidatePath validates a relative path for safety.
// It is used for cache keys that become file names.
//
// Rules:
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}

// MaxDimension bounds the drawing area accepted from external input.
const MaxDimension = 100_000

// ValidateDimensions checks a requested drawing size. Both sides must be
// finite, positive and at most [MaxDimension].
func ValidateDimensions(width, height float64) error {
	for _, d := range []struct {
		name string
		v    float64
	}{{"width", width}, {"height", height}} {
		if math.IsNaN(d.v) || math.IsInf(d.v, 0) {
			return New(ErrCodeInvalidInput, "%s must be a finite number", d.name)
		}
		if d.v <= 0 {
			return New(ErrCodeDegenerateCanvas, "%s must be positive, got %v", d.name, d.v)
		}
		if d.v > MaxDimension {
			return New(ErrCodeInvalidInput, "%s too large (max %d)", d.name, MaxDimension)
		}
	}
	return nil
}
