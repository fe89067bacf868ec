package resolver

import (
	"fmt"
	"strings"

	"github.com/stackb/pyimports/pkg/pytyped"
	"github.com/stackb/pyimports/pkg/pyversion"
)

// ImportType classifies where a resolved import came from.
type ImportType int

const (
	// ImportTypeBuiltIn is a module of the standard library typeshed tree.
	ImportTypeBuiltIn ImportType = iota
	// ImportTypeThirdParty is an installed or typeshed-provided library.
	ImportTypeThirdParty
	// ImportTypeLocal is a module of the project itself.
	ImportTypeLocal
)

func (t ImportType) String() string {
	switch t {
	case ImportTypeBuiltIn:
		return "BuiltIn"
	case ImportTypeThirdParty:
		return "ThirdParty"
	case ImportTypeLocal:
		return "Local"
	default:
		return fmt.Sprintf("ImportType(%d)", int(t))
	}
}

// ExecutionEnvironment is the set of roots, version and platform that apply
// to a group of source files.
type ExecutionEnvironment struct {
	// Root is the project root. Empty for the default environment.
	Root string
	// ExtraPaths are searched after Root, in order.
	ExtraPaths []string
	// PythonVersion selects the available stdlib modules. The zero value means
	// pyversion.Latest.
	PythonVersion pyversion.Version
	// PythonPlatform is "Linux", "Darwin", "Windows", "All" or empty.
	PythonPlatform string
}

// Version returns the configured version or pyversion.Latest.
func (e *ExecutionEnvironment) Version() pyversion.Version {
	if e.PythonVersion.IsZero() {
		return pyversion.Latest
	}
	return e.PythonVersion
}

// key identifies the environment in cache keys. Environments are replaced
// wholesale on configuration change, so every field participates.
func (e *ExecutionEnvironment) key() string {
	return e.Root + "|" + e.Version().String() + "|" + e.PythonPlatform + "|" + strings.Join(e.ExtraPaths, "\x00")
}

// ImplicitImport is a submodule or subpackage found by listing a package
// directory rather than named by the import statement.
type ImplicitImport struct {
	Name        string
	Path        string
	IsStubFile  bool
	IsNativeLib bool
	PyTypedInfo *pytyped.Info
}

// ImportResult is the outcome of resolving one module descriptor. Values
// returned by the Resolver are shared with its cache and must be treated as
// immutable.
type ImportResult struct {
	// ImportName is the formatted dotted name, with leading dots.
	ImportName string
	// IsRelative is set for imports with leading dots.
	IsRelative bool
	// IsImportFound is set when every name part resolved.
	IsImportFound bool
	// IsPartlyResolved is set when some but not all name parts resolved.
	IsPartlyResolved bool
	// IsNamespacePackage is set when any resolved segment is a directory
	// without an __init__ file.
	IsNamespacePackage bool
	// IsInitFilePresent reports an __init__ file in the last directory.
	IsInitFilePresent bool
	// IsStubPackage is set when the first part resolved to a "-stubs"
	// directory.
	IsStubPackage bool
	ImportType    ImportType
	// ResolvedPaths has one entry per consumed name part. An empty string
	// marks a namespace package segment.
	ResolvedPaths []string
	// SearchPath is the root the import was resolved under.
	SearchPath string
	IsStubFile bool
	IsNativeLib bool

	IsStdlibTypeshedFile     bool
	IsThirdPartyTypeshedFile bool
	IsLocalTypingsFile       bool

	// ImplicitImports holds the submodules of the resolved package.
	ImplicitImports map[string]*ImplicitImport
	// FilteredImplicitImports is the subset of ImplicitImports named by the
	// descriptor's imported symbols.
	FilteredImplicitImports map[string]*ImplicitImport
	// NonStubImportResult is the non-stub sibling of a stub hit. It is only
	// set when IsStubFile is.
	NonStubImportResult *ImportResult
	// ImportFailureInfo is the diagnostic trail of a failed resolution.
	ImportFailureInfo []string
	// PackageDirectory is the directory of the first name part.
	PackageDirectory string
	PyTypedInfo      *pytyped.Info
}

// ResolvedPath returns the last resolved path, which is empty for a
// namespace package.
func (r *ImportResult) ResolvedPath() string {
	if len(r.ResolvedPaths) == 0 {
		return ""
	}
	return r.ResolvedPaths[len(r.ResolvedPaths)-1]
}

// Err returns nil for a found import and an error wrapping
// ErrImportNotFound otherwise.
func (r *ImportResult) Err() error {
	if r.IsImportFound {
		return nil
	}
	return &ImportNotFoundError{Result: r}
}

// firstResolvedIndex returns the index of the first non-namespace segment,
// or -1.
func (r *ImportResult) firstResolvedIndex() int {
	for i, p := range r.ResolvedPaths {
		if p != "" {
			return i
		}
	}
	return -1
}

// lastSegmentIsNamespace reports whether the final segment is an unresolved
// namespace directory.
func (r *ImportResult) lastSegmentIsNamespace() bool {
	return len(r.ResolvedPaths) > 0 && r.ResolvedPaths[len(r.ResolvedPaths)-1] == ""
}

// ModuleNameInfo is the answer of the reverse mapper.
type ModuleNameInfo struct {
	ModuleName                 string
	ImportType                 ImportType
	IsTypeshedFile             bool
	IsLocalTypingsFile         bool
	IsThirdPartyPyTypedPresent bool
}
