package resolver

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/stackb/pyimports/pkg/typeshed"
)

const typingExtensions = "typing_extensions"

func (r *Resolver) stdlibTypeshedPath() string {
	if r.typeshedPath == "" {
		return ""
	}
	path := typeshed.StdlibPath(r.typeshedPath)
	if !r.dirs.DirExists(path) {
		return ""
	}
	return path
}

func (r *Resolver) thirdPartyTypeshedPath() string {
	if r.typeshedPath == "" {
		return ""
	}
	path := typeshed.ThirdPartyPath(r.typeshedPath)
	if !r.dirs.DirExists(path) {
		return ""
	}
	return path
}

// versionMap loads stdlib/VERSIONS once for the life of the Resolver.
func (r *Resolver) versionMap() *typeshed.VersionMap {
	if r.versions != nil {
		return r.versions
	}
	stdlib := r.stdlibTypeshedPath()
	if stdlib == "" {
		return typeshed.NewVersionMap()
	}
	versions, err := typeshed.ReadVersionsFile(r.overlay, stdlib)
	if err != nil {
		r.logger.Warn().Err(err).Msg("typeshed stdlib versions unavailable")
	}
	r.versions = versions
	return versions
}

func (r *Resolver) thirdPartyIndex() *typeshed.ThirdPartyIndex {
	if r.thirdParty == nil {
		r.thirdParty = typeshed.BuildThirdPartyIndex(r.dirs, r.thirdPartyTypeshedPath())
	}
	return r.thirdParty
}

func (r *Resolver) isStdlibTypeshedStubValidForVersion(desc ModuleDescriptor, env *ExecutionEnvironment, trail *[]string) bool {
	name := strings.Join(desc.NameParts, ".")
	if r.versionMap().IsModuleValidForVersion(name, env.Version(), env.PythonPlatform) {
		return true
	}
	*trail = append(*trail, fmt.Sprintf("Typeshed stdlib module %q is not available in Python %s", name, env.Version()))
	return false
}

// findTypeshedPath resolves the descriptor in the stdlib stubs, or in the
// third-party distributions that provide its top-level package.
func (r *Resolver) findTypeshedPath(env *ExecutionEnvironment, desc ModuleDescriptor, importName string, isStdlib bool, trail *[]string) *ImportResult {
	var paths []string
	if isStdlib {
		if path := r.stdlibTypeshedPath(); path != "" {
			paths = []string{path}
		}
	} else if len(desc.NameParts) > 0 {
		paths = r.thirdPartyIndex().Lookup(desc.NameParts[0])
	}

	for _, path := range paths {
		if !r.dirs.DirExists(path) {
			continue
		}
		result := r.resolveAbsoluteImport(path, env, desc, importName, trail, resolveOptions{allowPyi: true})
		if !result.IsImportFound {
			continue
		}
		if isStdlib && !r.isStdlibTypeshedStubValidForVersion(desc, env, trail) {
			continue
		}
		importType := ImportTypeThirdParty
		if isStdlib && importName != typingExtensions {
			importType = ImportTypeBuiltIn
		}
		result.ImportType = importType
		return result
	}

	*trail = append(*trail, "Typeshed path not found")
	return nil
}

// stdlibIndex lists the stdlib modules available to the environment.
func (r *Resolver) stdlibIndex(env *ExecutionEnvironment) *typeshed.ModuleIndex {
	key := env.key()
	if index, ok := r.stdlibIndexes[key]; ok {
		return index
	}
	var index *typeshed.ModuleIndex
	if stdlib := r.stdlibTypeshedPath(); stdlib != "" {
		index = typeshed.BuildStdlibIndex(r.dirs, stdlib, r.versionMap(), env.Version(), env.PythonPlatform)
	} else {
		index = typeshed.NewModuleIndex()
	}
	r.stdlibIndexes[key] = index
	return index
}

// IsStdlibModule reports whether name is a public stdlib module available to
// the environment.
func (r *Resolver) IsStdlibModule(name string, env *ExecutionEnvironment) bool {
	return r.stdlibIndex(env).Has(name)
}

// StdlibModules lists the stdlib modules equal to or under prefix, sorted.
func (r *Resolver) StdlibModules(prefix string, env *ExecutionEnvironment) []string {
	return r.stdlibIndex(env).Modules(prefix)
}

// StdlibExcludeList returns the stdlib stub paths (module directory and
// .pyi file) of every VERSIONS entry unavailable to the environment.
func (r *Resolver) StdlibExcludeList(env *ExecutionEnvironment) []string {
	stdlib := r.stdlibTypeshedPath()
	if stdlib == "" {
		return nil
	}
	versions := r.versionMap()
	var excludes []string
	for _, name := range versions.Names() {
		if versions.IsModuleValidForVersion(name, env.Version(), env.PythonPlatform) {
			continue
		}
		moduleDir := filepath.Join(stdlib, filepath.Join(splitModuleName(name)...))
		excludes = append(excludes, moduleDir, moduleDir+pyiExt)
	}
	return excludes
}
