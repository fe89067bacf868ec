package resolver

// checkedPath is shared by every directory visited during one walk-up. Once
// an ancestor resolves the import, path points every visited directory at
// that ancestor's result.
type checkedPath struct {
	path  string
	found bool
}

// parentDirectoryCache memoizes the walk-up fallback by (import name,
// directory).
type parentDirectoryCache struct {
	importRoots func(env *ExecutionEnvironment) []string
	// checkedPaths is keyed by import name, then directory.
	checkedPaths map[string]map[string]*checkedPath
	// results is keyed by import name, then the directory that resolved it.
	results map[string]map[string]*ImportResult
	// libPaths holds, per root, the import roots nested inside it.
	libPaths map[string][]string
}

func newParentDirectoryCache(importRoots func(env *ExecutionEnvironment) []string) *parentDirectoryCache {
	return &parentDirectoryCache{
		importRoots:  importRoots,
		checkedPaths: make(map[string]map[string]*checkedPath),
		results:      make(map[string]map[string]*ImportResult),
		libPaths:     make(map[string][]string),
	}
}

// get reports whether dir was already checked for importName. The result is
// nil when the walk that checked it found nothing.
func (c *parentDirectoryCache) get(dir, importName string) (*ImportResult, bool) {
	checked, ok := c.checkedPaths[importName][dir]
	if !ok {
		return nil, false
	}
	if !checked.found {
		return nil, true
	}
	return c.results[importName][checked.path], true
}

// checkValidPath reports whether a walk-up from sourceFile is allowed:
// the file must be under root and not inside a library root nested in it.
func (c *parentDirectoryCache) checkValidPath(sourceFile, root string, env *ExecutionEnvironment) bool {
	if !isUnder(sourceFile, root) {
		return false
	}
	key := root + "|" + env.key()
	libPaths, ok := c.libPaths[key]
	if !ok {
		for _, p := range c.importRoots(env) {
			if p != root && isUnder(p, root) {
				libPaths = append(libPaths, p)
			}
		}
		c.libPaths[key] = libPaths
	}
	for _, p := range libPaths {
		if isUnder(sourceFile, p) {
			return false
		}
	}
	return true
}

func (c *parentDirectoryCache) checked(dir, importName string, checked *checkedPath) {
	dirs, ok := c.checkedPaths[importName]
	if !ok {
		dirs = make(map[string]*checkedPath)
		c.checkedPaths[importName] = dirs
	}
	dirs[dir] = checked
}

func (c *parentDirectoryCache) add(dir, importName string, result *ImportResult) {
	dirs, ok := c.results[importName]
	if !ok {
		dirs = make(map[string]*ImportResult)
		c.results[importName] = dirs
	}
	dirs[dir] = result
}
