// Package partialstub presents partially typed PEP 561 stub-only packages
// ("pkg-stubs" directories whose py.typed says "partial") as if their .pyi
// files had been copied into the real installed "pkg" package.
//
// Nothing is written to disk. The overlay answers existence, listing, stat
// and read queries for the virtual layout and hides the original pkg-stubs
// directory so that normal resolution falls through to the real package.
package partialstub

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/rs/zerolog"

	"github.com/stackb/pyimports/pkg/collections"
	"github.com/stackb/pyimports/pkg/importfs"
	"github.com/stackb/pyimports/pkg/pytyped"
)

const (
	// StubsSuffix names a stub-only distribution for a package.
	StubsSuffix = "-stubs"
	// DefaultStubPattern selects the files that are moved into the real
	// package, relative to the stub package directory.
	DefaultStubPattern = "**/*.pyi"
)

// AllowMovingFunc decides whether the files of a partial stub package may be
// layered on top of the real package. packagePyTyped is nil when the real
// package has no marker.
type AllowMovingFunc func(isBundled bool, packagePyTyped, stubPyTyped *pytyped.Info) bool

// DefaultAllowMoving always allows non-bundled stubs. Bundled stubs are only
// layered over packages that are not themselves fully typed, so that a
// library's own type information is never shadowed.
func DefaultAllowMoving(isBundled bool, packagePyTyped, stubPyTyped *pytyped.Info) bool {
	if !isBundled {
		return true
	}
	return packagePyTyped == nil || packagePyTyped.IsPartiallyTyped
}

// Option configures a FileSystem.
type Option func(*FileSystem) *FileSystem

// WithLogger sets the logger used to report scans.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *FileSystem) *FileSystem {
		o.logger = logger
		return o
	}
}

// WithAllowMoving replaces DefaultAllowMoving.
func WithAllowMoving(fn AllowMovingFunc) Option {
	return func(o *FileSystem) *FileSystem {
		o.allowMoving = fn
		return o
	}
}

// WithStubPattern replaces DefaultStubPattern.
func WithStubPattern(pattern string) Option {
	return func(o *FileSystem) *FileSystem {
		o.pattern = pattern
		return o
	}
}

// FileSystem is an importfs.FileSystem overlay. It is not safe for
// concurrent use.
type FileSystem struct {
	real        importfs.FileSystem
	logger      zerolog.Logger
	allowMoving AllowMovingFunc
	pattern     string

	// scanned holds the candidate roots already processed.
	scanned map[string]bool
	// stubPackages holds the partial pkg-stubs directories, which are hidden.
	stubPackages map[string]bool
	// moved maps a virtual path to the stub file backing it.
	moved map[string]string
	// reverse maps a stub file to its virtual path.
	reverse map[string]string
	// folders holds the synthetic listing entries of each directory.
	folders map[string][]importfs.Entry
	// syntheticDirs holds virtual directories that do not exist on disk.
	syntheticDirs map[string]bool
}

// New creates an overlay over the real filesystem with nothing moved.
func New(real importfs.FileSystem, options ...Option) *FileSystem {
	o := &FileSystem{
		real:        real,
		logger:      zerolog.Nop(),
		allowMoving: DefaultAllowMoving,
		pattern:     DefaultStubPattern,
	}
	for _, opt := range options {
		o = opt(o)
	}
	o.Clear()
	return o
}

// Clear forgets every scanned root and moved entry.
func (o *FileSystem) Clear() {
	o.scanned = make(map[string]bool)
	o.stubPackages = make(map[string]bool)
	o.moved = make(map[string]string)
	o.reverse = make(map[string]string)
	o.folders = make(map[string][]importfs.Entry)
	o.syntheticDirs = make(map[string]bool)
}

// IsPathScanned reports whether the root has been processed since the last
// Clear.
func (o *FileSystem) IsPathScanned(root string) bool {
	return o.scanned[root]
}

// ScanRoots looks for partial stub packages directly inside each candidate
// root not yet scanned. For every one found, its .pyi files are layered over
// a same-named package directory in any of the search roots. The
// bundledStubsRoot, if non-empty, identifies the candidate root holding
// bundled stubs. It reports whether the visible layout changed, in which case
// callers must drop any listings cached above the overlay.
func (o *FileSystem) ScanRoots(candidateRoots, searchRoots []string, bundledStubsRoot string) bool {
	movedBefore, hiddenBefore := len(o.moved), len(o.stubPackages)

	for _, root := range candidateRoots {
		if root == "" || o.scanned[root] {
			continue
		}
		o.scanned[root] = true

		entries, err := o.real.ReadDirEntries(root)
		if err != nil {
			continue
		}
		isBundled := bundledStubsRoot != "" && root == bundledStubsRoot

		for _, entry := range entries {
			if !strings.HasSuffix(entry.Name, StubsSuffix) {
				continue
			}
			stubPackagePath := filepath.Join(root, entry.Name)
			isDir := entry.IsDirectory || (entry.IsSymbolicLink && importfs.IsDirectory(o.real, stubPackagePath))
			if !isDir {
				continue
			}
			stubPyTyped := pytyped.Read(o.real, stubPackagePath)
			if stubPyTyped == nil || !stubPyTyped.IsPartiallyTyped {
				// fully typed stub packages are resolved normally
				continue
			}
			o.stubPackages[stubPackagePath] = true
			o.movePackage(stubPackagePath, strings.TrimSuffix(entry.Name, StubsSuffix), searchRoots, isBundled, stubPyTyped)
		}
	}

	return len(o.moved) > movedBefore || len(o.stubPackages) > hiddenBefore
}

func (o *FileSystem) movePackage(stubPackagePath, packageName string, searchRoots []string, isBundled bool, stubPyTyped *pytyped.Info) {
	var stubFiles []string
	listed := false

	for _, searchRoot := range searchRoots {
		packagePath := filepath.Join(searchRoot, packageName)
		if !importfs.IsDirectory(o.real, packagePath) {
			continue
		}
		if !o.allowMoving(isBundled, pytyped.Read(o.real, packagePath), stubPyTyped) {
			o.logger.Debug().Msgf("partial stub %s not layered over %s (package is py.typed)", stubPackagePath, packagePath)
			continue
		}
		if !listed {
			stubFiles = o.listStubFiles(stubPackagePath)
			listed = true
		}
		for _, rel := range stubFiles {
			mapped := filepath.Join(packagePath, rel)
			original := filepath.Join(stubPackagePath, rel)
			o.recordMovedEntry(mapped, original, packagePath)
			o.logger.Debug().Msgf("partial stub: %s -> %s", original, mapped)
		}
	}
}

// listStubFiles walks the stub package and returns the slash-separated
// relative paths of the files matching the stub pattern.
func (o *FileSystem) listStubFiles(stubPackagePath string) []string {
	var files []string
	var stack collections.Stack[string]
	stack.Push(stubPackagePath)

	for !stack.IsEmpty() {
		dir, _ := stack.Pop()
		entries, err := o.real.ReadDirEntries(dir)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name)
			isDir, isFile := entry.IsDirectory, entry.IsFile
			if entry.IsSymbolicLink {
				if st, err := o.real.Stat(path); err == nil {
					isDir, isFile = st.IsDirectory, st.IsFile
				}
			}
			if isDir {
				stack.Push(path)
				continue
			}
			if !isFile {
				continue
			}
			rel, err := filepath.Rel(stubPackagePath, path)
			if err != nil {
				continue
			}
			rel = filepath.ToSlash(rel)
			if ok, err := doublestar.Match(o.pattern, rel); err == nil && ok {
				files = append(files, rel)
			}
		}
	}

	sort.Strings(files)
	return files
}

func (o *FileSystem) recordMovedEntry(mapped, original, packagePath string) {
	o.moved[mapped] = original
	o.reverse[original] = mapped
	o.addFolderEntry(filepath.Dir(mapped), importfs.Entry{Name: filepath.Base(mapped), IsFile: true})

	// directories that exist only in the stub package become virtual
	for dir := filepath.Dir(mapped); dir != packagePath && strings.HasPrefix(dir, packagePath); dir = filepath.Dir(dir) {
		if o.syntheticDirs[dir] || importfs.IsDirectory(o.real, dir) {
			break
		}
		o.syntheticDirs[dir] = true
		o.addFolderEntry(filepath.Dir(dir), importfs.Entry{Name: filepath.Base(dir), IsDirectory: true})
	}
}

func (o *FileSystem) addFolderEntry(dir string, entry importfs.Entry) {
	for _, existing := range o.folders[dir] {
		if existing.Name == entry.Name {
			return
		}
	}
	o.folders[dir] = append(o.folders[dir], entry)
}

// IsMovedEntry reports whether path is a virtual file backed by a stub.
func (o *FileSystem) IsMovedEntry(path string) bool {
	_, ok := o.moved[path]
	return ok
}

// IsPartialStubPackage reports whether path is a hidden partial pkg-stubs
// directory.
func (o *FileSystem) IsPartialStubPackage(path string) bool {
	return o.stubPackages[path]
}

// OriginalPath returns the stub file backing a virtual path, or path itself.
func (o *FileSystem) OriginalPath(path string) string {
	if original, ok := o.moved[path]; ok {
		return original
	}
	return path
}

// MappedPath returns the virtual path of a stub file that was moved.
func (o *FileSystem) MappedPath(original string) (string, bool) {
	mapped, ok := o.reverse[original]
	return mapped, ok
}

// MovedEntries returns a copy of the virtual->original mapping.
func (o *FileSystem) MovedEntries() map[string]string {
	moved := make(map[string]string, len(o.moved))
	for k, v := range o.moved {
		moved[k] = v
	}
	return moved
}

// Exists implements importfs.FileSystem.
func (o *FileSystem) Exists(path string) bool {
	if o.stubPackages[path] {
		return false
	}
	if original, ok := o.moved[path]; ok {
		return o.real.Exists(original)
	}
	if o.syntheticDirs[path] {
		return true
	}
	return o.real.Exists(path)
}

// Stat implements importfs.FileSystem.
func (o *FileSystem) Stat(path string) (importfs.Stat, error) {
	if o.stubPackages[path] {
		return importfs.Stat{}, fmt.Errorf("stat %s: %w", path, importfs.ErrNotExist)
	}
	if original, ok := o.moved[path]; ok {
		return o.real.Stat(original)
	}
	if o.syntheticDirs[path] {
		return importfs.Stat{IsDirectory: true}, nil
	}
	return o.real.Stat(path)
}

// ReadDirEntries implements importfs.FileSystem.
func (o *FileSystem) ReadDirEntries(dir string) ([]importfs.Entry, error) {
	synthetic := o.folders[dir]
	real, err := o.real.ReadDirEntries(dir)
	if err != nil && synthetic == nil && !o.syntheticDirs[dir] {
		return nil, err
	}

	entries := make([]importfs.Entry, 0, len(real)+len(synthetic))
	for _, entry := range real {
		path := filepath.Join(dir, entry.Name)
		if o.stubPackages[path] {
			continue
		}
		if _, ok := o.moved[path]; ok {
			continue
		}
		entries = append(entries, entry)
	}
	return append(entries, synthetic...), nil
}

// ReadFile implements importfs.FileSystem.
func (o *FileSystem) ReadFile(path string) (string, error) {
	return o.real.ReadFile(o.OriginalPath(path))
}

// RealPath implements importfs.FileSystem. Virtual paths are their own real
// path.
func (o *FileSystem) RealPath(path string) (string, error) {
	if _, ok := o.moved[path]; ok {
		return path, nil
	}
	if o.syntheticDirs[path] {
		return path, nil
	}
	return o.real.RealPath(path)
}
