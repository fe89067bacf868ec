package resolver

import (
	"strings"
)

// ModuleDescriptor is one import clause: "import a.b" is {0, [a b], nil} and
// "from ..a import x, y" is {2, [a], {x y}}.
type ModuleDescriptor struct {
	LeadingDots int
	NameParts   []string
	// ImportedSymbols is nil when the clause names no symbols. An empty,
	// non-nil set is a wildcard import.
	ImportedSymbols map[string]bool
}

// FormatImportName renders the descriptor as written, e.g. "..a.b".
func FormatImportName(desc ModuleDescriptor) string {
	return strings.Repeat(".", desc.LeadingDots) + strings.Join(desc.NameParts, ".")
}

// ParseModuleDescriptor splits a dotted import name such as "..a.b" into a
// descriptor. Passing "*" as the only symbol yields a wildcard import.
func ParseModuleDescriptor(name string, symbols ...string) ModuleDescriptor {
	trimmed := strings.TrimLeft(name, ".")
	desc := ModuleDescriptor{
		LeadingDots: len(name) - len(trimmed),
	}
	if trimmed != "" {
		desc.NameParts = strings.Split(trimmed, ".")
	}
	if len(symbols) > 0 {
		desc.ImportedSymbols = make(map[string]bool, len(symbols))
		for _, sym := range symbols {
			if sym == "*" {
				continue
			}
			desc.ImportedSymbols[sym] = true
		}
	}
	return desc
}

// filterImplicitImports returns a view of result whose filtered implicit
// imports match the descriptor's symbols. The input is never modified.
func filterImplicitImports(result *ImportResult, importedSymbols map[string]bool) *ImportResult {
	if importedSymbols == nil {
		if len(result.FilteredImplicitImports) == 0 {
			return result
		}
		filtered := *result
		filtered.FilteredImplicitImports = map[string]*ImplicitImport{}
		return &filtered
	}
	if len(importedSymbols) == 0 {
		return result
	}
	if len(result.ImplicitImports) == 0 {
		return result
	}

	implicit := make(map[string]*ImplicitImport)
	for name, imp := range result.ImplicitImports {
		if importedSymbols[name] {
			implicit[name] = imp
		}
	}
	if len(implicit) == len(result.FilteredImplicitImports) && sameKeys(implicit, result.FilteredImplicitImports) {
		return result
	}
	filtered := *result
	filtered.FilteredImplicitImports = implicit
	if result.NonStubImportResult != nil {
		filtered.NonStubImportResult = filterImplicitImports(result.NonStubImportResult, importedSymbols)
	}
	return &filtered
}

func sameKeys(a, b map[string]*ImplicitImport) bool {
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

// isNamespacePackageResolved reports whether the implicit imports of an
// unresolved namespace package satisfy the descriptor. Every requested symbol
// must be present; a request without symbols needs at least one submodule.
func isNamespacePackageResolved(desc ModuleDescriptor, implicitImports map[string]*ImplicitImport) bool {
	if len(desc.ImportedSymbols) > 0 {
		for sym := range desc.ImportedSymbols {
			if _, ok := implicitImports[sym]; !ok {
				return false
			}
		}
		return true
	}
	return len(implicitImports) > 0
}
