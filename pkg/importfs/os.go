package importfs

import (
	"fmt"
	"os"
	"path/filepath"
)

// OSFileSystem implements FileSystem over the host operating system.
type OSFileSystem struct{}

// NewOSFileSystem returns the host filesystem.
func NewOSFileSystem() *OSFileSystem {
	return &OSFileSystem{}
}

// Exists implements FileSystem.
func (OSFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Stat implements FileSystem. IsSymbolicLink describes path itself; the
// other fields describe the link target.
func (OSFileSystem) Stat(path string) (Stat, error) {
	linfo, err := os.Lstat(path)
	if err != nil {
		return Stat{}, fmt.Errorf("stat %s: %w", path, err)
	}
	info := linfo
	isLink := linfo.Mode()&os.ModeSymlink != 0
	if isLink {
		if info, err = os.Stat(path); err != nil {
			return Stat{}, fmt.Errorf("stat %s: %w", path, err)
		}
	}
	return Stat{
		IsFile:         info.Mode().IsRegular(),
		IsDirectory:    info.IsDir(),
		IsSymbolicLink: isLink,
		Size:           info.Size(),
	}, nil
}

// ReadDirEntries implements FileSystem.
func (OSFileSystem) ReadDirEntries(path string) ([]Entry, error) {
	dirents, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("readdir %s: %w", path, err)
	}
	entries := make([]Entry, 0, len(dirents))
	for _, d := range dirents {
		mode := d.Type()
		entries = append(entries, Entry{
			Name:           d.Name(),
			IsFile:         mode.IsRegular(),
			IsDirectory:    mode.IsDir(),
			IsSymbolicLink: mode&os.ModeSymlink != 0,
		})
	}
	return entries, nil
}

// ReadFile implements FileSystem.
func (OSFileSystem) ReadFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return string(data), nil
}

// RealPath implements FileSystem.
func (OSFileSystem) RealPath(path string) (string, error) {
	real, err := filepath.EvalSymlinks(path)
	if err != nil {
		return "", fmt.Errorf("realpath %s: %w", path, err)
	}
	return real, nil
}
