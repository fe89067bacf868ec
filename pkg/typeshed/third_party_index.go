package typeshed

import (
	"path/filepath"
	"sort"
	"strings"
)

const python2Dir = "@python2"

// ThirdPartyIndex maps a top-level package name to the typeshed distribution
// directories (stubs/<dist>) that provide it.
type ThirdPartyIndex struct {
	packages map[string][]string
	roots    []string
}

// BuildThirdPartyIndex lists stubs/<dist>/<pkg> for every distribution.
func BuildThirdPartyIndex(lister Lister, thirdPartyDir string) *ThirdPartyIndex {
	x := &ThirdPartyIndex{
		packages: make(map[string][]string),
	}
	if thirdPartyDir == "" {
		return x
	}

	for _, distDir := range lister.Directories(thirdPartyDir) {
		for _, inner := range lister.Directories(distDir) {
			name := filepath.Base(inner)
			if name == python2Dir {
				continue
			}
			x.packages[name] = append(x.packages[name], distDir)
		}
		for _, inner := range lister.Files(distDir) {
			name := filepath.Base(inner)
			if filepath.Ext(name) != ".pyi" {
				continue
			}
			stripped := stripExtension(name)
			x.packages[stripped] = append(x.packages[stripped], distDir)
		}
	}

	seen := make(map[string]bool)
	for _, dirs := range x.packages {
		for _, dir := range dirs {
			if !seen[dir] {
				seen[dir] = true
				x.roots = append(x.roots, dir)
			}
		}
	}
	sort.Strings(x.roots)
	return x
}

// Lookup returns the distribution directories providing the top-level package.
func (x *ThirdPartyIndex) Lookup(name string) []string {
	return x.packages[name]
}

// LookupPrefix returns the distribution directories of every top-level
// package whose name starts with prefix.
func (x *ThirdPartyIndex) LookupPrefix(prefix string) []string {
	if prefix == "" {
		return nil
	}
	names := make([]string, 0, len(x.packages))
	for name := range x.packages {
		if strings.HasPrefix(name, prefix) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	var dirs []string
	for _, name := range names {
		dirs = append(dirs, x.packages[name]...)
	}
	return dirs
}

// Roots returns every distribution directory, sorted and de-duplicated.
func (x *ThirdPartyIndex) Roots() []string {
	return x.roots
}
