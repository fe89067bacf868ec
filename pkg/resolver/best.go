package resolver

// pickBestImport chooses between the best candidate so far and a new one.
// On a tie the earlier candidate wins, so search path order decides.
func pickBestImport(best, candidate *ImportResult, desc ModuleDescriptor) *ImportResult {
	if best == nil {
		return candidate
	}
	if candidate == nil {
		return best
	}

	if candidate.IsImportFound {
		if !best.IsImportFound {
			return candidate
		}

		// regular packages beat namespace packages
		if winner, ok := pickByFirstResolvedSegment(best, candidate); ok {
			return winner
		}

		if best.IsNamespacePackage && candidate.IsNamespacePackage && desc.ImportedSymbols != nil {
			if !isNamespacePackageResolved(desc, best.ImplicitImports) {
				if isNamespacePackageResolved(desc, candidate.ImplicitImports) {
					return candidate
				}
				if best.IsInitFilePresent && !candidate.IsInitFilePresent {
					return best
				}
				if !best.IsInitFilePresent && candidate.IsInitFilePresent {
					return candidate
				}
			}
		}

		if best.ImportType == ImportTypeLocal && !best.IsNamespacePackage {
			return best
		}

		if best.PyTypedInfo != nil && candidate.PyTypedInfo == nil {
			return best
		}
		if best.PyTypedInfo == nil && candidate.PyTypedInfo != nil {
			if best.ImportType == candidate.ImportType || best.ImportType != ImportTypeLocal {
				return candidate
			}
		}

		if best.IsStubFile && !candidate.IsStubFile {
			return best
		}
		if !best.IsStubFile && candidate.IsStubFile {
			return candidate
		}

		if len(best.ResolvedPaths) > len(candidate.ResolvedPaths) {
			return candidate
		}
	} else if candidate.IsPartlyResolved {
		if winner, ok := pickByFirstResolvedSegment(best, candidate); ok {
			return winner
		}
	}

	return best
}

// pickByFirstResolvedSegment prefers the result whose first real (non
// namespace) segment comes earlier. It reports false on a tie.
func pickByFirstResolvedSegment(best, candidate *ImportResult) (*ImportResult, bool) {
	bestIndex := best.firstResolvedIndex()
	candidateIndex := candidate.firstResolvedIndex()
	if bestIndex == candidateIndex {
		return nil, false
	}
	if bestIndex < 0 {
		return candidate, true
	}
	if candidateIndex < 0 {
		return best, true
	}
	if bestIndex < candidateIndex {
		return best, true
	}
	return candidate, true
}
