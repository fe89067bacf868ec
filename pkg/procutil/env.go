package procutil

import (
	"os"
	"path/filepath"
	"strings"
)

type EnvVar string

const (
	// PYIMPORTS_VERBOSE turns on verbose resolution trails.
	PYIMPORTS_VERBOSE = EnvVar("PYIMPORTS_VERBOSE")
	// PYTHONPATH is the interpreter's own search path override.
	PYTHONPATH = EnvVar("PYTHONPATH")
)

func LookupBoolEnv(name EnvVar, defaultValue bool) bool {
	if val, ok := os.LookupEnv(string(name)); ok {
		switch strings.ToLower(val) {
		case "true", "1":
			return true
		case "false", "0":
			return false
		}
	}
	return defaultValue
}

func LookupEnv(name EnvVar) (string, bool) {
	return os.LookupEnv(string(name))
}

// LookupPathListEnv splits a path list variable such as PYTHONPATH on the
// OS list separator, dropping empty elements.
func LookupPathListEnv(name EnvVar) []string {
	val, ok := LookupEnv(name)
	if !ok {
		return nil
	}
	var paths []string
	for _, p := range filepath.SplitList(val) {
		if p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
