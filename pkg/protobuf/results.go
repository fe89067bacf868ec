package protobuf

import (
	"sort"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/stackb/pyimports/pkg/pytyped"
	"github.com/stackb/pyimports/pkg/resolver"
)

// ImportResultStruct converts a resolution into a Struct. False flags and
// empty collections are left out.
func ImportResultStruct(result *resolver.ImportResult) (*structpb.Struct, error) {
	return structpb.NewStruct(importResultMap(result))
}

func importResultMap(result *resolver.ImportResult) map[string]any {
	m := map[string]any{
		"importName":    result.ImportName,
		"importType":    result.ImportType.String(),
		"isImportFound": result.IsImportFound,
	}
	setFlag(m, "isRelative", result.IsRelative)
	setFlag(m, "isPartlyResolved", result.IsPartlyResolved)
	setFlag(m, "isNamespacePackage", result.IsNamespacePackage)
	setFlag(m, "isInitFilePresent", result.IsInitFilePresent)
	setFlag(m, "isStubPackage", result.IsStubPackage)
	setFlag(m, "isStubFile", result.IsStubFile)
	setFlag(m, "isNativeLib", result.IsNativeLib)
	setFlag(m, "isStdlibTypeshedFile", result.IsStdlibTypeshedFile)
	setFlag(m, "isThirdPartyTypeshedFile", result.IsThirdPartyTypeshedFile)
	setFlag(m, "isLocalTypingsFile", result.IsLocalTypingsFile)
	setString(m, "searchPath", result.SearchPath)
	setString(m, "packageDirectory", result.PackageDirectory)
	setList(m, "resolvedPaths", result.ResolvedPaths)
	setList(m, "importFailureInfo", result.ImportFailureInfo)
	if info := pyTypedMap(result.PyTypedInfo); info != nil {
		m["pyTypedInfo"] = info
	}
	if imports := implicitImportsList(result.ImplicitImports); imports != nil {
		m["implicitImports"] = imports
	}
	if imports := implicitImportsList(result.FilteredImplicitImports); imports != nil {
		m["filteredImplicitImports"] = imports
	}
	if result.NonStubImportResult != nil {
		m["nonStubImportResult"] = importResultMap(result.NonStubImportResult)
	}
	return m
}

// ModuleNameStruct converts a reverse-mapping answer into a Struct.
func ModuleNameStruct(file string, info resolver.ModuleNameInfo) (*structpb.Struct, error) {
	m := map[string]any{
		"file":       file,
		"moduleName": info.ModuleName,
		"importType": info.ImportType.String(),
	}
	setFlag(m, "isTypeshedFile", info.IsTypeshedFile)
	setFlag(m, "isLocalTypingsFile", info.IsLocalTypingsFile)
	setFlag(m, "isThirdPartyPyTypedPresent", info.IsThirdPartyPyTypedPresent)
	return structpb.NewStruct(m)
}

// StringListStruct wraps a list of strings under key.
func StringListStruct(key string, values []string) (*structpb.Struct, error) {
	m := map[string]any{key: []any{}}
	setList(m, key, values)
	return structpb.NewStruct(m)
}

func setFlag(m map[string]any, key string, value bool) {
	if value {
		m[key] = true
	}
}

func setString(m map[string]any, key, value string) {
	if value != "" {
		m[key] = value
	}
}

func setList(m map[string]any, key string, values []string) {
	if len(values) == 0 {
		return
	}
	list := make([]any, len(values))
	for i, v := range values {
		list[i] = v
	}
	m[key] = list
}

func pyTypedMap(info *pytyped.Info) map[string]any {
	if info == nil {
		return nil
	}
	m := map[string]any{"path": info.Path}
	setFlag(m, "isPartiallyTyped", info.IsPartiallyTyped)
	return m
}

func implicitImportsList(imports map[string]*resolver.ImplicitImport) []any {
	if len(imports) == 0 {
		return nil
	}
	names := make([]string, 0, len(imports))
	for name := range imports {
		names = append(names, name)
	}
	sort.Strings(names)

	list := make([]any, 0, len(names))
	for _, name := range names {
		imp := imports[name]
		m := map[string]any{
			"name": imp.Name,
			"path": imp.Path,
		}
		setFlag(m, "isStubFile", imp.IsStubFile)
		setFlag(m, "isNativeLib", imp.IsNativeLib)
		if info := pyTypedMap(imp.PyTypedInfo); info != nil {
			m["pyTypedInfo"] = info
		}
		list = append(list, m)
	}
	return list
}
