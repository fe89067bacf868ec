// Package dircache memoizes the directory and file probes made during import
// resolution. Every probe is answered from a cached parent directory listing
// so that a resolve costs at most one readdir per directory visited.
package dircache

import (
	"path/filepath"

	"github.com/stackb/pyimports/pkg/importfs"
)

type kind int

const (
	kindNone kind = iota
	kindFile
	kindDirectory
)

// Cache memoizes exists/readdir probes by path. The zero value is not usable;
// construct with New. A Cache is not safe for concurrent use.
type Cache struct {
	fs importfs.FileSystem
	// entries holds directory listings, keyed by directory path.
	entries map[string][]importfs.Entry
	// links holds the real kind of symlinked paths.
	links map[string]kind
	// roots holds the existence of filesystem roots, which have no parent
	// listing to consult.
	roots map[string]bool
}

// New creates an empty cache in front of the given filesystem.
func New(fs importfs.FileSystem) *Cache {
	c := &Cache{fs: fs}
	c.Clear()
	return c
}

// FileSystem returns the filesystem behind the cache.
func (c *Cache) FileSystem() importfs.FileSystem {
	return c.fs
}

// Clear drops every memoized probe.
func (c *Cache) Clear() {
	c.entries = make(map[string][]importfs.Entry)
	c.links = make(map[string]kind)
	c.roots = make(map[string]bool)
}

// ReadDirEntries returns the listing of the directory. A missing or unreadable
// directory yields an empty list.
func (c *Cache) ReadDirEntries(dir string) []importfs.Entry {
	if entries, ok := c.entries[dir]; ok {
		return entries
	}
	entries, err := c.fs.ReadDirEntries(dir)
	if err != nil {
		entries = []importfs.Entry{}
	}
	c.entries[dir] = entries
	return entries
}

// FileExists reports whether path is a file, following symbolic links.
func (c *Cache) FileExists(path string) bool {
	dir := filepath.Dir(path)
	if dir == path {
		// a root is never a file
		return false
	}
	entry, ok := c.lookup(dir, filepath.Base(path))
	if !ok {
		return false
	}
	if entry.IsFile {
		return true
	}
	if entry.IsSymbolicLink {
		return c.linkKind(path) == kindFile
	}
	return false
}

// DirExists reports whether path is a directory, following symbolic links.
func (c *Cache) DirExists(path string) bool {
	dir := filepath.Dir(path)
	if dir == path {
		if exists, ok := c.roots[path]; ok {
			return exists
		}
		exists := importfs.IsDirectory(c.fs, path)
		c.roots[path] = exists
		return exists
	}
	entry, ok := c.lookup(dir, filepath.Base(path))
	if !ok {
		return false
	}
	if entry.IsDirectory {
		return true
	}
	if entry.IsSymbolicLink {
		return c.linkKind(path) == kindDirectory
	}
	return false
}

// Files returns the full paths of the files directly inside dir, following
// symbolic links.
func (c *Cache) Files(dir string) []string {
	var files []string
	for _, entry := range c.ReadDirEntries(dir) {
		path := filepath.Join(dir, entry.Name)
		if entry.IsFile || (entry.IsSymbolicLink && c.linkKind(path) == kindFile) {
			files = append(files, path)
		}
	}
	return files
}

// Directories returns the full paths of the directories directly inside dir,
// following symbolic links.
func (c *Cache) Directories(dir string) []string {
	var dirs []string
	for _, entry := range c.ReadDirEntries(dir) {
		path := filepath.Join(dir, entry.Name)
		if entry.IsDirectory || (entry.IsSymbolicLink && c.linkKind(path) == kindDirectory) {
			dirs = append(dirs, path)
		}
	}
	return dirs
}

func (c *Cache) lookup(dir, name string) (importfs.Entry, bool) {
	for _, entry := range c.ReadDirEntries(dir) {
		if entry.Name == name {
			return entry, true
		}
	}
	return importfs.Entry{}, false
}

// linkKind resolves a symlink to the kind of its target. A dangling link is
// kindNone.
func (c *Cache) linkKind(path string) kind {
	if k, ok := c.links[path]; ok {
		return k
	}
	k := kindNone
	if real, err := c.fs.RealPath(path); err == nil {
		if st, err := c.fs.Stat(real); err == nil {
			switch {
			case st.IsFile:
				k = kindFile
			case st.IsDirectory:
				k = kindDirectory
			}
		}
	}
	c.links[path] = k
	return k
}
