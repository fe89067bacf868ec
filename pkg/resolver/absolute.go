package resolver

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/stackb/pyimports/pkg/partialstub"
	"github.com/stackb/pyimports/pkg/pytyped"
)

const (
	initName = "__init__"
	pyExt    = ".py"
	pyiExt   = ".pyi"
)

type resolveOptions struct {
	// allowPartial reports a result as found when at least one part
	// resolved.
	allowPartial bool
	// allowNativeLib accepts compiled extension modules.
	allowNativeLib bool
	// useStubPackage tries "<first>-stubs" before "<first>".
	useStubPackage bool
	// allowPyi accepts stub files.
	allowPyi bool
	// lookForPyTyped records the first py.typed marker on the way down.
	lookForPyTyped bool
}

// resolveAbsoluteImport resolves the descriptor under a single root. A
// partial "-stubs" package that does not resolve the name falls back to the
// real package.
func (r *Resolver) resolveAbsoluteImport(root string, env *ExecutionEnvironment, desc ModuleDescriptor, importName string, trail *[]string, opts resolveOptions) *ImportResult {
	if opts.allowPyi && opts.useStubPackage {
		stubOpts := opts
		stubOpts.allowNativeLib = false
		result := r.resolveAbsoluteImportInRoot(root, env, desc, importName, trail, stubOpts)
		if result.PackageDirectory != "" {
			if !result.IsNamespacePackage || result.IsImportFound {
				return result
			}
		}
	}
	opts.useStubPackage = false
	return r.resolveAbsoluteImportInRoot(root, env, desc, importName, trail, opts)
}

func (r *Resolver) resolveAbsoluteImportInRoot(root string, env *ExecutionEnvironment, desc ModuleDescriptor, importName string, trail *[]string, opts resolveOptions) *ImportResult {
	r.note(trail, "Attempting to resolve using root path %q", root)

	var (
		resolvedPaths      []string
		isNamespacePackage bool
		isInitFilePresent  bool
		isStubPackage      bool
		isStubFile         bool
		isNativeLib        bool
		implicitImports    = map[string]*ImplicitImport{}
		packageDirectory   string
		pyTypedInfo        *pytyped.Info
	)

	dirPath := root
	if len(desc.NameParts) == 0 {
		// from . import x
		pyFile := filepath.Join(dirPath, initName+pyExt)
		pyiFile := filepath.Join(dirPath, initName+pyiExt)
		switch {
		case opts.allowPyi && r.dirs.FileExists(pyiFile):
			r.note(trail, "Resolved import with file %q", pyiFile)
			resolvedPaths = append(resolvedPaths, pyiFile)
			isStubFile = true
		case r.dirs.FileExists(pyFile):
			r.note(trail, "Resolved import with file %q", pyFile)
			resolvedPaths = append(resolvedPaths, pyFile)
		default:
			*trail = append(*trail, fmt.Sprintf("Partially resolved import with directory %q", dirPath))
			resolvedPaths = append(resolvedPaths, "")
			isNamespacePackage = true
		}
		implicitImports = r.findImplicitImports(importName, env, dirPath, pyFile, pyiFile)
	} else {
		for i, part := range desc.NameParts {
			isFirstPart := i == 0
			isLastPart := i == len(desc.NameParts)-1
			dirPath = filepath.Join(dirPath, part)
			if opts.useStubPackage && isFirstPart {
				dirPath += partialstub.StubsSuffix
				isStubPackage = true
			}

			foundDirectory := r.dirs.DirExists(dirPath)
			if foundDirectory {
				if isFirstPart {
					packageDirectory = dirPath
				}

				pyFile := filepath.Join(dirPath, initName+pyExt)
				pyiFile := filepath.Join(dirPath, initName+pyiExt)
				isInitFilePresent = false
				if opts.allowPyi && r.dirs.FileExists(pyiFile) {
					r.note(trail, "Resolved import with file %q", pyiFile)
					resolvedPaths = append(resolvedPaths, pyiFile)
					if isLastPart {
						isStubFile = true
					}
					isInitFilePresent = true
				} else if r.dirs.FileExists(pyFile) {
					r.note(trail, "Resolved import with file %q", pyFile)
					resolvedPaths = append(resolvedPaths, pyFile)
					isInitFilePresent = true
				}

				if pyTypedInfo == nil && opts.lookForPyTyped {
					pyTypedInfo = r.pyTypedInfo(dirPath)
				}

				if !isLastPart {
					if !isInitFilePresent {
						resolvedPaths = append(resolvedPaths, "")
						isNamespacePackage = true
						pyTypedInfo = nil
					}
					continue
				}

				if isInitFilePresent {
					implicitImports = r.findImplicitImports(strings.Join(desc.NameParts, "."), env, dirPath, pyFile, pyiFile)
					break
				}
			}

			// No directory, or a directory without an __init__ file: look
			// for a module file of the same name.
			pyFile := dirPath + pyExt
			pyiFile := dirPath + pyiExt
			fileDirectory := filepath.Dir(dirPath)
			nativeResolved := false

			if opts.allowPyi && r.dirs.FileExists(pyiFile) {
				r.note(trail, "Resolved import with file %q", pyiFile)
				resolvedPaths = append(resolvedPaths, pyiFile)
				isStubFile = true
			} else if r.dirs.FileExists(pyFile) {
				r.note(trail, "Resolved import with file %q", pyFile)
				resolvedPaths = append(resolvedPaths, pyFile)
			} else {
				if opts.allowNativeLib && r.dirs.DirExists(fileDirectory) {
					if nativeLibPath := r.findNativeModule(fileDirectory, filepath.Base(dirPath)); nativeLibPath != "" {
						path, native := r.resolveNativeModuleStub(nativeLibPath, env, importName, desc, trail)
						resolvedPaths = append(resolvedPaths, path)
						isNativeLib = native
						isStubFile = !native && strings.HasSuffix(path, pyiExt)
						nativeResolved = true
					}
				}

				if !nativeResolved && foundDirectory {
					*trail = append(*trail, fmt.Sprintf("Partially resolved import with directory %q", dirPath))
					resolvedPaths = append(resolvedPaths, "")
					if isLastPart {
						implicitImports = r.findImplicitImports(importName, env, dirPath, pyFile, pyiFile)
						isNamespacePackage = true
					}
				} else if !nativeResolved {
					*trail = append(*trail, fmt.Sprintf("Did not find file %q or %q", pyiFile, pyFile))
				}
			}
			break
		}
	}

	var importFound bool
	isPartlyResolved := len(resolvedPaths) > 0 && len(resolvedPaths) < len(desc.NameParts)
	if opts.allowPartial {
		importFound = len(resolvedPaths) > 0
	} else {
		importFound = len(resolvedPaths) >= len(desc.NameParts)
	}

	return &ImportResult{
		ImportName:              importName,
		IsNamespacePackage:      isNamespacePackage,
		IsInitFilePresent:       isInitFilePresent,
		IsStubPackage:           isStubPackage,
		IsImportFound:           importFound,
		IsPartlyResolved:        isPartlyResolved,
		ImportType:              ImportTypeLocal,
		ResolvedPaths:           resolvedPaths,
		SearchPath:              root,
		IsStubFile:              isStubFile,
		IsNativeLib:             isNativeLib,
		ImplicitImports:         implicitImports,
		FilteredImplicitImports: implicitImports,
		PackageDirectory:        packageDirectory,
		PyTypedInfo:             pyTypedInfo,
	}
}
