// Package pytyped reads PEP 561 py.typed marker files.
package pytyped

import (
	"path/filepath"
	"strings"

	"github.com/stackb/pyimports/pkg/importfs"
)

const (
	// FileName is the marker file name.
	FileName = "py.typed"
	// MaxFileSize bounds how much of a marker is inspected; larger markers
	// still count as present but are never treated as partial.
	MaxFileSize = 64 * 1024

	partialMarker = "partial"
)

// Info describes a py.typed marker.
type Info struct {
	// Path is the marker file.
	Path string
	// IsPartiallyTyped is set when the marker content declares "partial".
	IsPartiallyTyped bool
}

// Read returns the marker found directly inside dir, or nil if there is none.
func Read(fsys importfs.FileSystem, dir string) *Info {
	path := filepath.Join(dir, FileName)
	st, err := fsys.Stat(path)
	if err != nil || !st.IsFile {
		return nil
	}
	info := &Info{Path: path}
	if st.Size > MaxFileSize {
		return info
	}
	content, err := fsys.ReadFile(path)
	if err != nil {
		return info
	}
	info.IsPartiallyTyped = IsPartial(content)
	return info
}

// IsPartial reports whether marker content declares a partial package: the
// literal "partial", optionally followed by a line ending.
func IsPartial(content string) bool {
	if strings.Contains(content, partialMarker+"\n") || strings.Contains(content, partialMarker+"\r\n") {
		return true
	}
	return strings.TrimSpace(content) == partialMarker
}
