package typeshed

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/dghubble/trie"

	"github.com/stackb/pyimports/pkg/collections"
	"github.com/stackb/pyimports/pkg/pyversion"
)

// ModuleIndex is a set of dotted module names.
type ModuleIndex struct {
	modules *trie.PathTrie
	size    int
}

// NewModuleIndex creates an empty index.
func NewModuleIndex() *ModuleIndex {
	return &ModuleIndex{
		modules: trie.NewPathTrieWithConfig(dottedPathTrieConfig),
	}
}

// Add inserts a module name.
func (x *ModuleIndex) Add(name string) {
	if x.modules.Put(name, name) {
		x.size++
	}
}

// Has reports whether the exact module name is present.
func (x *ModuleIndex) Has(name string) bool {
	return x.modules.Get(name) != nil
}

// Len returns the number of modules.
func (x *ModuleIndex) Len() int {
	return x.size
}

// Modules returns the sorted module names equal to prefix or nested under it.
// An empty prefix lists every module.
func (x *ModuleIndex) Modules(prefix string) (names []string) {
	x.modules.Walk(func(key string, value interface{}) error {
		name := value.(string)
		if prefix == "" || name == prefix || strings.HasPrefix(name, prefix+".") {
			names = append(names, name)
		}
		return nil
	})
	sort.Strings(names)
	return
}

type indexDir struct {
	path   string
	prefix string
}

// BuildStdlibIndex walks the stdlib stub tree and records every public module
// that is valid for the given version and platform. Names with a leading
// underscore are private and skipped.
func BuildStdlibIndex(lister Lister, stdlibDir string, versions *VersionMap, version pyversion.Version, platform string) *ModuleIndex {
	index := NewModuleIndex()
	valid := func(name string) bool {
		return versions == nil || versions.IsModuleValidForVersion(name, version, platform)
	}

	var stack collections.Stack[indexDir]
	stack.Push(indexDir{path: stdlibDir})
	for !stack.IsEmpty() {
		dir, _ := stack.Pop()
		for _, file := range lister.Files(dir.path) {
			base := filepath.Base(file)
			if !isPythonSource(base) {
				continue
			}
			stripped := stripExtension(base)
			if stripped == "__init__" {
				if dir.prefix != "" {
					index.Add(dir.prefix)
				}
				continue
			}
			if strings.HasPrefix(stripped, "_") {
				continue
			}
			name := joinModule(dir.prefix, stripped)
			if valid(name) {
				index.Add(name)
			}
		}
		for _, sub := range lister.Directories(dir.path) {
			base := filepath.Base(sub)
			if strings.HasPrefix(base, "_") || strings.HasPrefix(base, "@") {
				continue
			}
			name := joinModule(dir.prefix, base)
			if !valid(name) {
				continue
			}
			stack.Push(indexDir{path: sub, prefix: name})
		}
	}
	return index
}

func joinModule(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
