// Package host discovers the module search paths of a Python installation.
// Every type here satisfies resolver.Host.
package host

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/stackb/pyimports/pkg/importfs"
	"github.com/stackb/pyimports/pkg/procutil"
)

// ErrNoSearchPaths is returned when a host finds nothing to search.
var ErrNoSearchPaths = errors.New("no python search paths")

// PathProvider is the interface every host implements.
type PathProvider interface {
	PythonSearchPaths(pythonPath string) ([]string, error)
}

// Static returns a fixed list of search paths.
type Static struct {
	Paths []string
}

// PythonSearchPaths implements PathProvider.
func (s *Static) PythonSearchPaths(string) ([]string, error) {
	return s.Paths, nil
}

// Env returns the entries of the PYTHONPATH environment variable.
type Env struct{}

// PythonSearchPaths implements PathProvider.
func (Env) PythonSearchPaths(string) ([]string, error) {
	paths := procutil.LookupPathListEnv(procutil.PYTHONPATH)
	if len(paths) == 0 {
		return nil, fmt.Errorf("%s: %w", procutil.PYTHONPATH, ErrNoSearchPaths)
	}
	return paths, nil
}

// sitePackagesPatterns are relative to a virtualenv directory, for POSIX and
// Windows layouts.
var sitePackagesPatterns = []string{
	"lib/python3*/site-packages",
	"lib64/python3*/site-packages",
	"Lib/site-packages",
}

// Venv finds the site-packages directories of a virtualenv at
// <VenvPath>/<Venv> (or just VenvPath when Venv is empty).
type Venv struct {
	FS       importfs.FileSystem
	VenvPath string
	Venv     string
}

// Dir returns the virtualenv directory.
func (v *Venv) Dir() string {
	return filepath.Join(v.VenvPath, v.Venv)
}

// PythonSearchPaths implements PathProvider.
func (v *Venv) PythonSearchPaths(string) ([]string, error) {
	fsys := v.FS
	if fsys == nil {
		fsys = importfs.NewOSFileSystem()
	}
	dir := v.Dir()

	var paths []string
	for _, pattern := range sitePackagesPatterns {
		for _, candidate := range v.expand(fsys, dir, pattern) {
			if importfs.IsDirectory(fsys, candidate) {
				paths = append(paths, candidate)
			}
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("virtualenv %s: %w", dir, ErrNoSearchPaths)
	}
	return paths, nil
}

// expand matches a slash pattern of fixed depth by listing one level at a
// time.
func (v *Venv) expand(fsys importfs.FileSystem, dir, pattern string) []string {
	matches := []string{""}
	for _, segment := range strings.Split(pattern, "/") {
		var next []string
		for _, rel := range matches {
			entries, err := fsys.ReadDirEntries(filepath.Join(dir, filepath.FromSlash(rel)))
			if err != nil {
				continue
			}
			for _, entry := range entries {
				if ok, _ := doublestar.Match(segment, entry.Name); ok {
					next = append(next, joinSlash(rel, entry.Name))
				}
			}
		}
		matches = next
	}
	sort.Strings(matches)
	paths := make([]string, len(matches))
	for i, rel := range matches {
		paths[i] = filepath.Join(dir, filepath.FromSlash(rel))
	}
	return paths
}

func joinSlash(a, b string) string {
	if a == "" {
		return b
	}
	return a + "/" + b
}

// Chain concatenates the paths of several hosts, dropping duplicates. A
// failing host is skipped unless every host fails.
type Chain []PathProvider

// PythonSearchPaths implements PathProvider.
func (c Chain) PythonSearchPaths(pythonPath string) ([]string, error) {
	var paths []string
	var errs []error
	seen := make(map[string]bool)
	for _, next := range c {
		found, err := next.PythonSearchPaths(pythonPath)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		for _, p := range found {
			if !seen[p] {
				seen[p] = true
				paths = append(paths, p)
			}
		}
	}
	if len(paths) == 0 && len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return paths, nil
}
