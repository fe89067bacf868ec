package resolver

import (
	"path/filepath"
)

// Host discovers the interpreter's module search paths (site-packages and
// friends).
type Host interface {
	// PythonSearchPaths returns the search paths of the interpreter named by
	// pythonPath, or of the default interpreter when it is empty.
	PythonSearchPaths(pythonPath string) ([]string, error)
}

// ResolveContext is the part of the Resolver available to Extensions.
type ResolveContext interface {
	// ResolveInRoot resolves the descriptor as an absolute import under a
	// single search root.
	ResolveInRoot(root string, env *ExecutionEnvironment, desc ModuleDescriptor) *ImportResult
	// FileExists is a cached file probe.
	FileExists(path string) bool
	// DirExists is a cached directory probe.
	DirExists(path string) bool
}

// Extensions adds stub sources to the resolver.
type Extensions interface {
	// StubPath returns an extra stub root, or "". Partial stub packages
	// under it are treated as bundled.
	StubPath(env *ExecutionEnvironment) string
	// ResolveImport is consulted for absolute imports after the stdlib.
	// A nil result means no opinion.
	ResolveImport(rc ResolveContext, sourceFile string, env *ExecutionEnvironment, desc ModuleDescriptor, allowPyi bool) *ImportResult
	// ResolveNativeImportStub returns a stub file standing in for the
	// compiled module at nativeLibPath, or "".
	ResolveNativeImportStub(rc ResolveContext, nativeLibPath string, env *ExecutionEnvironment, moduleName string) string
}

// NoopExtensions adds nothing.
type NoopExtensions struct{}

// StubPath implements Extensions.
func (NoopExtensions) StubPath(*ExecutionEnvironment) string { return "" }

// ResolveImport implements Extensions.
func (NoopExtensions) ResolveImport(ResolveContext, string, *ExecutionEnvironment, ModuleDescriptor, bool) *ImportResult {
	return nil
}

// ResolveNativeImportStub implements Extensions.
func (NoopExtensions) ResolveNativeImportStub(ResolveContext, string, *ExecutionEnvironment, string) string {
	return ""
}

// BundledStubs serves a directory of stubs shipped with the tool. Packages
// in it are resolved like any other root, and compiled modules find their
// stubs at <Root>/<dotted/name>.pyi.
type BundledStubs struct {
	Root string
}

// StubPath implements Extensions.
func (b *BundledStubs) StubPath(*ExecutionEnvironment) string {
	return b.Root
}

// ResolveImport implements Extensions.
func (b *BundledStubs) ResolveImport(rc ResolveContext, sourceFile string, env *ExecutionEnvironment, desc ModuleDescriptor, allowPyi bool) *ImportResult {
	if b.Root == "" || !allowPyi || !rc.DirExists(b.Root) {
		return nil
	}
	result := rc.ResolveInRoot(b.Root, env, desc)
	if !result.IsImportFound {
		return nil
	}
	return result
}

// ResolveNativeImportStub implements Extensions.
func (b *BundledStubs) ResolveNativeImportStub(rc ResolveContext, nativeLibPath string, env *ExecutionEnvironment, moduleName string) string {
	if b.Root == "" || moduleName == "" {
		return ""
	}
	stub := filepath.Join(b.Root, filepath.Join(splitModuleName(moduleName)...)) + ".pyi"
	if rc.FileExists(stub) {
		return stub
	}
	return ""
}
