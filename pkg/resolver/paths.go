package resolver

import (
	"path/filepath"
	"strings"
	"unicode"
)

// isUnder reports whether path is root or inside it.
func isUnder(path, root string) bool {
	if root == "" {
		return false
	}
	if path == root {
		return true
	}
	if strings.HasSuffix(root, string(filepath.Separator)) {
		return strings.HasPrefix(path, root)
	}
	return strings.HasPrefix(path, root+string(filepath.Separator))
}

// isStrictlyUnder reports whether path is inside root but not root itself.
func isStrictlyUnder(path, root string) bool {
	return path != root && isUnder(path, root)
}

// isUnderEnvironmentRoot is the default TrackedFileFunc. Every file is
// tracked by an environment without a root.
func isUnderEnvironmentRoot(sourceFile string, env *ExecutionEnvironment) bool {
	if env.Root == "" {
		return true
	}
	return isUnder(sourceFile, env.Root)
}

// parentImportResolutionRoot bounds the walk-up fallback.
func parentImportResolutionRoot(sourceFile string, env *ExecutionEnvironment) string {
	if env.Root != "" {
		return filepath.Clean(env.Root)
	}
	return filepath.Dir(sourceFile)
}

// shouldWalkUp reports whether current may be searched by the walk-up
// fallback. The root itself was already searched, unless the environment
// has no root.
func shouldWalkUp(current, root string, env *ExecutionEnvironment) bool {
	return isStrictlyUnder(current, root) || (current == root && env.Root == "")
}

func splitModuleName(name string) []string {
	return strings.Split(name, ".")
}

// isIdentifier reports whether s is a valid Python identifier.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, c := range s {
		if c == '_' || unicode.IsLetter(c) {
			continue
		}
		if i > 0 && (unicode.IsDigit(c) || unicode.Is(unicode.Mn, c) || unicode.Is(unicode.Mc, c) || unicode.Is(unicode.Pc, c)) {
			continue
		}
		return false
	}
	return true
}
