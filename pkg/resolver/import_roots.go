package resolver

// ImportRoots lists every root searched for the environment, in precedence
// order: stdlib typeshed, project root, extra paths, stub path, third-party
// typeshed distributions, extension stubs, then interpreter search paths.
func (r *Resolver) ImportRoots(env *ExecutionEnvironment) []string {
	var ignored []string
	var roots []string

	if stdlib := r.stdlibTypeshedPath(); stdlib != "" {
		roots = append(roots, stdlib)
	}
	if env.Root != "" {
		roots = append(roots, env.Root)
	}
	roots = append(roots, env.ExtraPaths...)
	if r.stubPath != "" {
		roots = append(roots, r.stubPath)
	}
	roots = append(roots, r.thirdPartyIndex().Roots()...)
	if stubPath := r.ext.StubPath(env); stubPath != "" {
		roots = append(roots, stubPath)
	}
	roots = append(roots, r.pythonSearchPaths(&ignored)...)

	return roots
}
