package resolver

import (
	"fmt"
	"path/filepath"
	"strings"
)

var nativeModuleExtensions = map[string]bool{
	".pyd":   true,
	".so":    true,
	".dylib": true,
}

func isNativeModuleFileExtension(ext string) bool {
	return nativeModuleExtensions[strings.ToLower(ext)]
}

// stripAllExtensions turns "mtrand.cp36-win_amd64.pyd" into "mtrand".
func stripAllExtensions(name string) string {
	if i := strings.IndexByte(name, '.'); i > 0 {
		return name[:i]
	}
	return name
}

// isNativeModuleFileName reports whether fileName is a compiled extension
// for moduleName, such as "foo.cpython-311-x86_64-linux-gnu.so" for "foo".
func isNativeModuleFileName(moduleName, fileName string) bool {
	if !isNativeModuleFileExtension(filepath.Ext(fileName)) {
		return false
	}
	return strings.EqualFold(moduleName, stripAllExtensions(fileName))
}

// findNativeModule returns the compiled extension for moduleName in dir, or "".
func (r *Resolver) findNativeModule(dir, moduleName string) string {
	for _, file := range r.dirs.Files(dir) {
		if isNativeModuleFileName(moduleName, filepath.Base(file)) {
			return file
		}
	}
	return ""
}

// resolveNativeModuleStub asks the extensions for a stub standing in for the
// compiled module. It returns the path to record and whether that path is
// the compiled module itself.
func (r *Resolver) resolveNativeModuleStub(nativeLibPath string, env *ExecutionEnvironment, importName string, desc ModuleDescriptor, trail *[]string) (string, bool) {
	moduleName := importName
	if desc.LeadingDots > 0 {
		// ".mtrand" is "numpy.random.mtrand" seen from a search root
		stubName := strings.TrimSuffix(nativeLibPath, filepath.Ext(nativeLibPath))
		stubName = strings.TrimSuffix(stubName, filepath.Ext(stubName)) + pyiExt
		if info := r.ModuleNameForFile(stubName, env, false, false); info.ModuleName != "" {
			moduleName = info.ModuleName
		}
	}

	if stub := r.ext.ResolveNativeImportStub(r, nativeLibPath, env, moduleName); stub != "" {
		*trail = append(*trail, fmt.Sprintf("Resolved native import %s with stub %q", importName, stub))
		return stub, false
	}
	*trail = append(*trail, fmt.Sprintf("Resolved import with file %q", nativeLibPath))
	return nativeLibPath, true
}
