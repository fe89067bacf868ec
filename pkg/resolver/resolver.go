// Package resolver maps Python import statements to files on disk.
//
// Resolution follows the interpreter's import system (regular, namespace and
// compiled-extension modules, absolute and relative imports) together with the
// PEP 561 conventions for distributing type information: stub files,
// "-stubs" packages, py.typed markers and partial stubs. Results are memoized
// until InvalidateCache is called.
//
// A Resolver is not safe for concurrent use. Workers that resolve in parallel
// should each own a Resolver built from the same configuration.
package resolver

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/stackb/pyimports/pkg/dircache"
	"github.com/stackb/pyimports/pkg/importfs"
	"github.com/stackb/pyimports/pkg/partialstub"
	"github.com/stackb/pyimports/pkg/pytyped"
	"github.com/stackb/pyimports/pkg/typeshed"
)

// allowPartialResolutionForThirdPartyPackages stays off even though some
// namespace packages split across site-packages then fail to resolve.
const allowPartialResolutionForThirdPartyPackages = false

type cacheKey struct {
	env             string
	importName      string
	fromTrackedFile bool
	// sourceFile is only set for relative imports.
	sourceFile string
}

type moduleNameKey struct {
	env                    string
	file                   string
	allowInvalidModuleName bool
	detectPyTyped          bool
}

type pyTypedEntry struct {
	info *pytyped.Info
}

// Resolver resolves imports for any number of execution environments.
type Resolver struct {
	logger       zerolog.Logger
	verbose      bool
	fs           importfs.FileSystem
	host         Host
	pythonPath   string
	ext          Extensions
	typeshedPath string
	stubPath     string
	isTracked    TrackedFileFunc

	overlay *partialstub.FileSystem
	dirs    *dircache.Cache

	// versions lives as long as the Resolver; the typeshed path cannot
	// change without building a new one.
	versions *typeshed.VersionMap

	results           map[cacheKey]*ImportResult
	parents           *parentDirectoryCache
	moduleNames       map[moduleNameKey]*ModuleNameInfo
	pyTyped           map[string]pyTypedEntry
	stdlibIndexes     map[string]*typeshed.ModuleIndex
	thirdParty        *typeshed.ThirdPartyIndex
	searchPaths       []string
	searchPathsLoaded bool
	partialStubEnvs   map[string]bool
}

// New creates a Resolver with empty caches.
func New(options ...Option) *Resolver {
	r := &Resolver{
		logger: zerolog.Nop(),
		ext:    NoopExtensions{},
	}
	for _, opt := range options {
		r = opt(r)
	}
	if r.fs == nil {
		r.fs = importfs.NewOSFileSystem()
	}
	if r.isTracked == nil {
		r.isTracked = isUnderEnvironmentRoot
	}
	r.overlay = partialstub.New(r.fs, partialstub.WithLogger(r.logger))
	r.dirs = dircache.New(r.overlay)
	r.InvalidateCache()
	return r
}

// InvalidateCache drops every cached probe, result and index. It must be
// called after configuration changes and filesystem change notifications.
func (r *Resolver) InvalidateCache() {
	r.results = make(map[cacheKey]*ImportResult)
	r.parents = newParentDirectoryCache(r.ImportRoots)
	r.moduleNames = make(map[moduleNameKey]*ModuleNameInfo)
	r.pyTyped = make(map[string]pyTypedEntry)
	r.stdlibIndexes = make(map[string]*typeshed.ModuleIndex)
	r.thirdParty = nil
	r.searchPaths = nil
	r.searchPathsLoaded = false
	r.partialStubEnvs = make(map[string]bool)
	r.overlay.Clear()
	r.dirs.Clear()
}

// FileSystem returns the filesystem resolution observes, including the
// partial stub overlay.
func (r *Resolver) FileSystem() importfs.FileSystem {
	return r.overlay
}

// ResolveImport resolves the descriptor as imported from sourceFile. It
// never fails: an unresolved import is reported with IsImportFound unset and
// a trail in ImportFailureInfo.
func (r *Resolver) ResolveImport(sourceFile string, env *ExecutionEnvironment, desc ModuleDescriptor) *ImportResult {
	result := r.resolveImport(sourceFile, env, desc)
	if !result.IsImportFound && r.verbose {
		r.logger.Debug().
			Str("import", result.ImportName).
			Str("from", sourceFile).
			Strs("trail", result.ImportFailureInfo).
			Msg("import not found")
	}
	return result
}

func (r *Resolver) resolveImport(sourceFile string, env *ExecutionEnvironment, desc ModuleDescriptor) *ImportResult {
	importName := FormatImportName(desc)
	notFound := r.resolveImportStrict(importName, sourceFile, env, desc)
	if notFound.IsImportFound || desc.LeadingDots > 0 {
		return notFound
	}

	// Try the importing file's directory and its ancestors up to the root.
	origin := filepath.Dir(sourceFile)
	if result, ok := r.parents.get(origin, importName); ok {
		if result == nil {
			return notFound
		}
		return filterImplicitImports(result, desc.ImportedSymbols)
	}

	root := parentImportResolutionRoot(sourceFile, env)
	if !r.parents.checkValidPath(sourceFile, root, env) {
		return notFound
	}

	var trail []string
	checked := &checkedPath{}
	current := origin
	for shouldWalkUp(current, root, env) {
		result := r.resolveAbsoluteImport(current, env, desc, importName, &trail, resolveOptions{
			allowNativeLib: true,
			allowPyi:       true,
		})
		r.parents.checked(current, importName, checked)
		if result.IsImportFound {
			checked.path, checked.found = current, true
			r.parents.add(current, importName, result)
			return filterImplicitImports(result, desc.ImportedSymbols)
		}
		parent := filepath.Dir(current)
		if parent == current {
			break
		}
		current = parent
	}
	r.parents.checked(current, importName, checked)
	return notFound
}

func (r *Resolver) resolveImportStrict(importName, sourceFile string, env *ExecutionEnvironment, desc ModuleDescriptor) *ImportResult {
	fromTrackedFile := r.isTracked(sourceFile, env)
	var trail []string
	notFound := func() *ImportResult {
		return &ImportResult{
			ImportName:        importName,
			IsRelative:        desc.LeadingDots > 0,
			ImportType:        ImportTypeLocal,
			ImportFailureInfo: trail,
		}
	}

	r.ensurePartialStubPackages(env)

	key := cacheKey{
		env:             env.key(),
		importName:      importName,
		fromTrackedFile: fromTrackedFile,
	}
	if desc.LeadingDots > 0 {
		key.sourceFile = sourceFile
	}
	if cached, ok := r.results[key]; ok {
		return filterImplicitImports(cached, desc.ImportedSymbols)
	}

	if desc.LeadingDots > 0 {
		if relative := r.resolveRelativeImport(sourceFile, env, desc, importName, &trail); relative != nil {
			relative.IsRelative = true
			return r.addResultToCache(key, relative, desc)
		}
	} else {
		if best := r.resolveBestAbsoluteImport(sourceFile, env, desc, true, &trail); best != nil {
			if best.IsStubFile {
				var nonStubTrail []string
				best.NonStubImportResult = r.resolveBestAbsoluteImport(sourceFile, env, desc, false, &nonStubTrail)
				if best.NonStubImportResult == nil {
					best.NonStubImportResult = notFound()
				}
			}
			if !best.IsImportFound {
				best.ImportFailureInfo = trail
			}
			return r.addResultToCache(key, best, desc)
		}
	}
	return r.addResultToCache(key, notFound(), desc)
}

func (r *Resolver) addResultToCache(key cacheKey, result *ImportResult, desc ModuleDescriptor) *ImportResult {
	r.results[key] = result
	return filterImplicitImports(result, desc.ImportedSymbols)
}

func (r *Resolver) resolveRelativeImport(sourceFile string, env *ExecutionEnvironment, desc ModuleDescriptor, importName string, trail *[]string) *ImportResult {
	dir, ok := directoryLeadingDotsPointsTo(filepath.Dir(sourceFile), desc.LeadingDots)
	if !ok {
		*trail = append(*trail, fmt.Sprintf("Invalid relative path %q", importName))
		return nil
	}

	result := r.resolveAbsoluteImport(dir, env, desc, importName, trail, resolveOptions{
		allowNativeLib: true,
		allowPyi:       true,
	})
	if result.IsStubFile {
		// only the same folder may hold the runtime module
		var nonStubTrail []string
		result.NonStubImportResult = r.resolveAbsoluteImport(dir, env, desc, importName, &nonStubTrail, resolveOptions{
			allowNativeLib: true,
		})
		if !result.NonStubImportResult.IsImportFound {
			result.NonStubImportResult = &ImportResult{
				ImportName:        importName,
				IsRelative:        true,
				ImportType:        ImportTypeLocal,
				ImportFailureInfo: nonStubTrail,
			}
		}
	}
	if !result.IsImportFound {
		result.ImportFailureInfo = *trail
	}
	return result
}

// directoryLeadingDotsPointsTo walks up leadingDots-1 levels. It fails when
// that would go above the filesystem root.
func directoryLeadingDotsPointsTo(dir string, leadingDots int) (string, bool) {
	current := dir
	for i := 1; i < leadingDots; i++ {
		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
	return current, true
}

func (r *Resolver) resolveBestAbsoluteImport(sourceFile string, env *ExecutionEnvironment, desc ModuleDescriptor, allowPyi bool, trail *[]string) *ImportResult {
	importName := FormatImportName(desc)
	r.note(trail, "Resolving absolute import %q", importName)

	if allowPyi && r.stubPath != "" {
		*trail = append(*trail, fmt.Sprintf("Looking in stubPath %q", r.stubPath))
		typings := r.resolveAbsoluteImport(r.stubPath, env, desc, importName, trail, resolveOptions{
			useStubPackage: true,
			allowPyi:       allowPyi,
		})
		if typings.IsImportFound {
			// typings are treated as part of the project
			typings.ImportType = ImportTypeLocal
			typings.IsLocalTypingsFile = true
			if !typings.IsNamespacePackage || !typings.lastSegmentIsNamespace() || isNamespacePackageResolved(desc, typings.ImplicitImports) {
				return typings
			}
		}
	}

	var best *ImportResult
	if env.Root != "" {
		*trail = append(*trail, fmt.Sprintf("Looking in root directory of execution environment %q", env.Root))
		best = r.resolveAbsoluteImport(env.Root, env, desc, importName, trail, resolveOptions{
			allowNativeLib: true,
			useStubPackage: true,
			allowPyi:       allowPyi,
		})
	}

	for _, extraPath := range env.ExtraPaths {
		*trail = append(*trail, fmt.Sprintf("Looking in extraPath %q", extraPath))
		local := r.resolveAbsoluteImport(extraPath, env, desc, importName, trail, resolveOptions{
			allowNativeLib: true,
			useStubPackage: true,
			allowPyi:       allowPyi,
		})
		best = pickBestImport(best, local, desc)
	}

	if allowPyi && len(desc.NameParts) > 0 {
		*trail = append(*trail, "Looking for typeshed stdlib path")
		if stdlib := r.findTypeshedPath(env, desc, importName, true, trail); stdlib != nil {
			stdlib.IsStdlibTypeshedFile = true
			return stdlib
		}
	}

	if extra := r.ext.ResolveImport(r, sourceFile, env, desc, allowPyi); extra != nil {
		*trail = append(*trail, "Consulted import resolution extensions")
		best = pickBestImport(best, extra, desc)
	}

	searchPaths := r.pythonSearchPaths(trail)
	if len(searchPaths) > 0 {
		for _, searchPath := range searchPaths {
			*trail = append(*trail, fmt.Sprintf("Looking in python search path %q", searchPath))
			thirdParty := r.resolveAbsoluteImport(searchPath, env, desc, importName, trail, resolveOptions{
				allowPartial:   allowPartialResolutionForThirdPartyPackages,
				allowNativeLib: true,
				useStubPackage: true,
				allowPyi:       allowPyi,
				lookForPyTyped: true,
			})
			thirdParty.ImportType = ImportTypeThirdParty
			best = pickBestImport(best, thirdParty, desc)
		}
	} else {
		*trail = append(*trail, "No python interpreter search path")
	}

	// A fully py.typed library is final, unless the project is typeshed
	// itself and should see its own stubs.
	if env.Root == "" || env.Root != r.typeshedPath {
		if best != nil && best.PyTypedInfo != nil && !best.IsPartlyResolved {
			return best
		}
	}

	if allowPyi && len(desc.NameParts) > 0 {
		*trail = append(*trail, "Looking for typeshed third-party path")
		if thirdParty := r.findTypeshedPath(env, desc, importName, false, trail); thirdParty != nil {
			thirdParty.IsThirdPartyTypeshedFile = true
			best = pickBestImport(best, thirdParty, desc)
		}
	}

	return best
}

// note records a trail entry only in verbose mode.
func (r *Resolver) note(trail *[]string, format string, args ...interface{}) {
	if r.verbose {
		*trail = append(*trail, fmt.Sprintf(format, args...))
	}
}

// ResolveInRoot implements ResolveContext.
func (r *Resolver) ResolveInRoot(root string, env *ExecutionEnvironment, desc ModuleDescriptor) *ImportResult {
	var trail []string
	return r.resolveAbsoluteImport(root, env, desc, FormatImportName(desc), &trail, resolveOptions{
		useStubPackage: true,
		allowPyi:       true,
	})
}

// FileExists implements ResolveContext.
func (r *Resolver) FileExists(path string) bool {
	return r.dirs.FileExists(path)
}

// DirExists implements ResolveContext.
func (r *Resolver) DirExists(path string) bool {
	return r.dirs.DirExists(path)
}

// pyTypedInfo reads the py.typed marker of a package directory, once.
func (r *Resolver) pyTypedInfo(dir string) *pytyped.Info {
	if entry, ok := r.pyTyped[dir]; ok {
		return entry.info
	}
	var info *pytyped.Info
	if r.dirs.FileExists(filepath.Join(dir, pytyped.FileName)) {
		info = pytyped.Read(r.overlay, dir)
	}
	r.pyTyped[dir] = pyTypedEntry{info: info}
	return info
}

// pythonSearchPaths asks the host once per cache lifetime.
func (r *Resolver) pythonSearchPaths(trail *[]string) []string {
	if r.searchPathsLoaded {
		return r.searchPaths
	}
	r.searchPathsLoaded = true
	if r.host == nil {
		return nil
	}
	paths, err := r.host.PythonSearchPaths(r.pythonPath)
	if err != nil {
		r.logger.Warn().Err(err).Msg("python search paths unavailable")
		*trail = append(*trail, fmt.Sprintf("Failed to get python search paths: %v", err))
		return nil
	}
	for _, path := range paths {
		if path != "" {
			r.searchPaths = append(r.searchPaths, filepath.Clean(path))
		}
	}
	return r.searchPaths
}

// ensurePartialStubPackages scans the environment's roots for partial stub
// packages the first time the environment is seen.
func (r *Resolver) ensurePartialStubPackages(env *ExecutionEnvironment) {
	key := env.key()
	if r.partialStubEnvs[key] {
		return
	}
	r.partialStubEnvs[key] = true

	var ignored []string
	bundled := r.ext.StubPath(env)
	var candidates []string
	add := func(path string) {
		if path != "" {
			candidates = append(candidates, path)
		}
	}
	add(r.stubPath)
	add(env.Root)
	for _, p := range env.ExtraPaths {
		add(p)
	}
	add(bundled)
	for _, p := range r.pythonSearchPaths(&ignored) {
		add(p)
	}

	if r.overlay.ScanRoots(candidates, r.ImportRoots(env), bundled) {
		r.dirs.Clear()
		r.pyTyped = make(map[string]pyTypedEntry)
		if r.verbose {
			r.logger.Debug().Int("moved", len(r.overlay.MovedEntries())).Msg("partial stub packages layered")
		}
	}
}
