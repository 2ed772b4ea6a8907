//go:build !((linux || darwin || freebsd) && !android && !ios && (amd64 || arm64))

package libyuv

import (
	"errors"

	"github.com/vearutop/reformat/internal/yuv"
)

// ErrLibraryNotFound is returned when libyuv cannot be located.
var ErrLibraryNotFound = errors.New("libyuv: library not found")

// Backend is unavailable on this platform.
type Backend struct {
	yuv.Backend
}

// Load always fails on this platform.
func Load() (*Backend, error) {
	return nil, ErrLibraryNotFound
}

// Available tells if libyuv was loaded successfully.
func Available() bool { return false }

// FindLibrary always fails on this platform.
func FindLibrary() (string, error) {
	return "", ErrLibraryNotFound
}

// LibrarySearchPaths returns no paths on this platform.
func LibrarySearchPaths() []string { return nil }

// Path returns an empty string on this platform.
func (b *Backend) Path() string { return "" }

// Missing returns nil on this platform.
func (b *Backend) Missing() []string { return nil }
