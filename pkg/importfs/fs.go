// Package importfs defines the read-only filesystem surface consumed by the
// import resolver.
package importfs

import (
	"errors"
	"io/fs"
)

// ErrNotExist is returned (possibly wrapped) when a path does not exist.
var ErrNotExist = fs.ErrNotExist

// Entry is a single directory listing record.
type Entry struct {
	Name           string
	IsFile         bool
	IsDirectory    bool
	IsSymbolicLink bool
}

// Stat describes a path after following symbolic links.
type Stat struct {
	IsFile         bool
	IsDirectory    bool
	IsSymbolicLink bool
	Size           int64
}

// FileSystem is the set of filesystem capabilities the resolver needs. All
// methods are read-only.
type FileSystem interface {
	// Exists reports whether the path names an existing file or directory.
	Exists(path string) bool
	// Stat describes the path, following symbolic links.
	Stat(path string) (Stat, error)
	// ReadDirEntries lists the directory, without following symbolic links.
	ReadDirEntries(path string) ([]Entry, error)
	// ReadFile returns the utf-8 content of the file.
	ReadFile(path string) (string, error)
	// RealPath resolves all symbolic links in path.
	RealPath(path string) (string, error)
}

// IsNotExist reports whether err means the path is absent.
func IsNotExist(err error) bool {
	return errors.Is(err, ErrNotExist)
}

// IsFile reports whether path exists and is a regular file.
func IsFile(fsys FileSystem, path string) bool {
	st, err := fsys.Stat(path)
	return err == nil && st.IsFile
}

// IsDirectory reports whether path exists and is a directory.
func IsDirectory(fsys FileSystem, path string) bool {
	st, err := fsys.Stat(path)
	return err == nil && st.IsDirectory
}
