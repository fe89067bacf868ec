// Package afsfs serves the resolver's filesystem from any storage supported
// by github.com/viant/afs, such as a typeshed tree in memory or in a bucket.
package afsfs

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/url"

	"github.com/stackb/pyimports/pkg/importfs"
)

// FileSystem maps absolute slash paths onto URLs under a base URL, so
// "/typeshed/stdlib/os.pyi" becomes "<baseURL>/typeshed/stdlib/os.pyi".
type FileSystem struct {
	ctx     context.Context
	service afs.Service
	baseURL string
}

// New creates a FileSystem rooted at baseURL.
func New(service afs.Service, baseURL string) *FileSystem {
	return &FileSystem{
		ctx:     context.Background(),
		service: service,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}
}

// WithContext returns a copy that issues storage calls with ctx.
func (f *FileSystem) WithContext(ctx context.Context) *FileSystem {
	c := *f
	c.ctx = ctx
	return &c
}

// URL returns the storage URL of path.
func (f *FileSystem) URL(path string) string {
	rel := strings.TrimPrefix(filepath.ToSlash(filepath.Clean(path)), "/")
	if rel == "" || rel == "." {
		return f.baseURL
	}
	return url.Join(f.baseURL, rel)
}

// Exists implements importfs.FileSystem.
func (f *FileSystem) Exists(path string) bool {
	ok, err := f.service.Exists(f.ctx, f.URL(path))
	return err == nil && ok
}

// Stat implements importfs.FileSystem. Object storage has no symbolic links.
func (f *FileSystem) Stat(path string) (importfs.Stat, error) {
	URL := f.URL(path)
	if !f.Exists(path) {
		return importfs.Stat{}, fmt.Errorf("%s: %w", URL, importfs.ErrNotExist)
	}
	object, err := f.service.Object(f.ctx, URL)
	if err != nil {
		return importfs.Stat{}, fmt.Errorf("%s: %w", URL, err)
	}
	return importfs.Stat{
		IsFile:      !object.IsDir(),
		IsDirectory: object.IsDir(),
		Size:        object.Size(),
	}, nil
}

// ReadDirEntries implements importfs.FileSystem.
func (f *FileSystem) ReadDirEntries(path string) ([]importfs.Entry, error) {
	st, err := f.Stat(path)
	if err != nil {
		return nil, err
	}
	URL := f.URL(path)
	if !st.IsDirectory {
		return nil, fmt.Errorf("%s: not a directory", URL)
	}
	objects, err := f.service.List(f.ctx, URL)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", URL, err)
	}
	entries := make([]importfs.Entry, 0, len(objects))
	for _, object := range objects {
		// the listing includes the directory itself
		if url.Equals(object.URL(), URL) {
			continue
		}
		entries = append(entries, importfs.Entry{
			Name:        object.Name(),
			IsFile:      !object.IsDir(),
			IsDirectory: object.IsDir(),
		})
	}
	return entries, nil
}

// ReadFile implements importfs.FileSystem.
func (f *FileSystem) ReadFile(path string) (string, error) {
	URL := f.URL(path)
	if !f.Exists(path) {
		return "", fmt.Errorf("%s: %w", URL, importfs.ErrNotExist)
	}
	data, err := f.service.DownloadWithURL(f.ctx, URL)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", URL, err)
	}
	return string(data), nil
}

// RealPath implements importfs.FileSystem. Paths are already canonical.
func (f *FileSystem) RealPath(path string) (string, error) {
	if !f.Exists(path) {
		return "", fmt.Errorf("%s: %w", f.URL(path), importfs.ErrNotExist)
	}
	return filepath.Clean(path), nil
}
