package resolver

import (
	"path/filepath"
	"strings"

	"github.com/stackb/pyimports/pkg/partialstub"
)

// ModuleNameForFile finds the shortest dotted module name under which file
// can be imported from any root of the environment. With
// allowInvalidModuleName, a name containing non-identifier components is
// returned when no legal one exists. With detectPyTyped, a third-party hit
// reports whether its package is fully py.typed.
func (r *Resolver) ModuleNameForFile(file string, env *ExecutionEnvironment, allowInvalidModuleName, detectPyTyped bool) ModuleNameInfo {
	key := moduleNameKey{
		env:                    env.key(),
		file:                   file,
		allowInvalidModuleName: allowInvalidModuleName,
		detectPyTyped:          detectPyTyped,
	}
	if info, ok := r.moduleNames[key]; ok {
		return *info
	}
	info := r.moduleNameForFile(file, env, allowInvalidModuleName, detectPyTyped)
	r.moduleNames[key] = &info
	return info
}

func (r *Resolver) moduleNameForFile(file string, env *ExecutionEnvironment, allowInvalidModuleName, detectPyTyped bool) ModuleNameInfo {
	r.ensurePartialStubPackages(env)
	// a moved stub is named by its place in the real package
	if mapped, ok := r.overlay.MappedPath(file); ok {
		file = mapped
	}

	var (
		moduleName         string
		invalidModuleName  string
		importType         = ImportTypeBuiltIn
		isLocalTypingsFile bool
		isTypeshedFile     bool
		nameRoot           string
	)

	if stdlib := r.stdlibTypeshedPath(); stdlib != "" {
		if name, ok := moduleNameFromPath(stdlib, file, false); ok {
			desc := ModuleDescriptor{NameParts: splitModuleName(name)}
			var ignored []string
			if r.isStdlibTypeshedStubValidForVersion(desc, env, &ignored) {
				return ModuleNameInfo{
					ModuleName:     name,
					ImportType:     importType,
					IsTypeshedFile: true,
				}
			}
		}
	}

	// consider returns true when the candidate from root is the new best.
	consider := func(root string, stripTopContainerDir bool) bool {
		name, valid, ok := moduleNameInfoFromPath(root, file, stripTopContainerDir)
		if !ok {
			return false
		}
		if !valid {
			if invalidModuleName == "" || len(name) < len(invalidModuleName) {
				invalidModuleName = name
			}
			return false
		}
		if moduleName == "" || len(name) < len(moduleName) {
			moduleName = name
			nameRoot = root
			return true
		}
		return false
	}

	if env.Root != "" {
		consider(env.Root, false)
		importType = ImportTypeLocal
	}
	for _, extraPath := range env.ExtraPaths {
		consider(extraPath, false)
		importType = ImportTypeLocal
	}

	if r.stubPath != "" && consider(r.stubPath, false) {
		importType = ImportTypeLocal
		isLocalTypingsFile = true
	}

	if thirdParty := r.thirdPartyTypeshedPath(); thirdParty != "" && consider(thirdParty, true) {
		importType = ImportTypeThirdParty
		isTypeshedFile = true
	}

	if stubPath := r.ext.StubPath(env); stubPath != "" && consider(stubPath, false) {
		importType = ImportTypeThirdParty
		isTypeshedFile = true
	}

	var ignored []string
	for _, searchPath := range r.pythonSearchPaths(&ignored) {
		if consider(searchPath, false) {
			importType = ImportTypeThirdParty
			isTypeshedFile = false
		}
	}

	info := ModuleNameInfo{
		ModuleName:         moduleName,
		ImportType:         importType,
		IsTypeshedFile:     isTypeshedFile,
		IsLocalTypingsFile: isLocalTypingsFile,
	}

	if detectPyTyped && importType == ImportTypeThirdParty && nameRoot != "" {
		// the nearest marker between the file and its search root decides
		for current := filepath.Dir(file); isStrictlyUnder(current, nameRoot); current = filepath.Dir(current) {
			if pyTyped := r.pyTypedInfo(current); pyTyped != nil {
				info.IsThirdPartyPyTypedPresent = !pyTyped.IsPartiallyTyped
				break
			}
		}
	}

	if moduleName != "" {
		return info
	}
	if allowInvalidModuleName && invalidModuleName != "" {
		info.ModuleName = invalidModuleName
		return info
	}
	return ModuleNameInfo{
		ImportType:                 ImportTypeLocal,
		IsLocalTypingsFile:         isLocalTypingsFile,
		IsThirdPartyPyTypedPresent: info.IsThirdPartyPyTypedPresent,
	}
}

// moduleNameFromPath is moduleNameInfoFromPath restricted to legal names.
func moduleNameFromPath(root, file string, stripTopContainerDir bool) (string, bool) {
	name, valid, ok := moduleNameInfoFromPath(root, file, stripTopContainerDir)
	if !ok || !valid {
		return "", false
	}
	return name, true
}

// moduleNameInfoFromPath computes the dotted name of file relative to root.
// valid is unset when a component is not an identifier.
func moduleNameInfoFromPath(root, file string, stripTopContainerDir bool) (name string, valid bool, ok bool) {
	withoutExt := strings.TrimSuffix(file, filepath.Ext(file))
	if isNativeModuleFileExtension(filepath.Ext(file)) {
		// "mtrand.cp36-win_amd64.pyd"
		withoutExt = strings.TrimSuffix(withoutExt, filepath.Ext(withoutExt))
	}
	if !isUnder(withoutExt, root) {
		return "", false, false
	}
	if filepath.Base(withoutExt) == initName {
		withoutExt = filepath.Dir(withoutExt)
	}

	rel, err := filepath.Rel(root, withoutExt)
	if err != nil || rel == "." {
		return "", false, false
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if stripTopContainerDir {
		parts = parts[1:]
	}
	if len(parts) == 0 {
		return "", false, false
	}
	parts[0] = strings.TrimSuffix(parts[0], partialstub.StubsSuffix)

	valid = true
	for _, part := range parts {
		if !isIdentifier(part) {
			valid = false
			break
		}
	}
	return strings.Join(parts, "."), valid, true
}
