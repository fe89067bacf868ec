package typeshed

import (
	"path/filepath"
	"strings"
)

const (
	// StdlibDirName is the stdlib stub tree inside a typeshed checkout.
	StdlibDirName = "stdlib"
	// ThirdPartyDirName holds one directory per third-party distribution.
	ThirdPartyDirName = "stubs"
)

// Lister answers directory listing questions, typically from a cache.
type Lister interface {
	Files(dir string) []string
	Directories(dir string) []string
}

// StdlibPath returns the stdlib directory of a typeshed root.
func StdlibPath(typeshedRoot string) string {
	return filepath.Join(typeshedRoot, StdlibDirName)
}

// ThirdPartyPath returns the third-party stubs directory of a typeshed root.
func ThirdPartyPath(typeshedRoot string) string {
	return filepath.Join(typeshedRoot, ThirdPartyDirName)
}

func isPythonSource(name string) bool {
	ext := filepath.Ext(name)
	return ext == ".py" || ext == ".pyi"
}

func stripExtension(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}
