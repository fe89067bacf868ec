package resolver

import (
	"path/filepath"
	"strings"
)

// findImplicitImports lists the submodules and subpackages of dirPath. The
// excluded paths (the package's own __init__ files) are skipped. When a name
// has both a stub and a source file, the stub wins.
func (r *Resolver) findImplicitImports(importingModuleName string, env *ExecutionEnvironment, dirPath string, exclusions ...string) map[string]*ImplicitImport {
	excluded := func(path string) bool {
		for _, exclusion := range exclusions {
			if exclusion == path {
				return true
			}
		}
		return false
	}

	implicitImports := make(map[string]*ImplicitImport)

	for _, filePath := range r.dirs.Files(dirPath) {
		fileName := filepath.Base(filePath)
		ext := filepath.Ext(fileName)
		var name string
		isNativeLib := false

		switch {
		case ext == pyExt || ext == pyiExt:
			name = strings.TrimSuffix(fileName, ext)
		case isNativeModuleFileExtension(ext):
			name = stripAllExtensions(fileName)
			base := filepath.Join(dirPath, name)
			if r.dirs.FileExists(base+pyExt) || r.dirs.FileExists(base+pyiExt) {
				continue
			}
			isNativeLib = true
		default:
			continue
		}
		if excluded(filePath) {
			continue
		}

		imp := &ImplicitImport{
			Name:        name,
			Path:        filePath,
			IsStubFile:  ext == pyiExt,
			IsNativeLib: isNativeLib,
		}
		if existing, ok := implicitImports[name]; ok && existing.IsStubFile {
			continue
		}
		if isNativeLib {
			if stub := r.ext.ResolveNativeImportStub(r, filePath, env, importingModuleName+"."+name); stub != "" {
				imp.Path = stub
				imp.IsNativeLib = false
				imp.IsStubFile = strings.HasSuffix(stub, pyiExt)
			}
		}
		implicitImports[name] = imp
	}

	for _, subdir := range r.dirs.Directories(dirPath) {
		pyFile := filepath.Join(subdir, initName+pyExt)
		pyiFile := filepath.Join(subdir, initName+pyiExt)
		var path string
		isStubFile := false
		if r.dirs.FileExists(pyiFile) {
			path = pyiFile
			isStubFile = true
		} else if r.dirs.FileExists(pyFile) {
			path = pyFile
		}
		if path == "" || excluded(path) {
			continue
		}
		name := filepath.Base(subdir)
		implicitImports[name] = &ImplicitImport{
			Name:        name,
			Path:        path,
			IsStubFile:  isStubFile,
			PyTypedInfo: r.pyTypedInfo(subdir),
		}
	}

	return implicitImports
}
