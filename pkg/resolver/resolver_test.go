package resolver_test

import (
	"errors"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/stackb/pyimports/pkg/host"
	"github.com/stackb/pyimports/pkg/importfs"
	"github.com/stackb/pyimports/pkg/pyversion"
	"github.com/stackb/pyimports/pkg/resolver"
	"github.com/stackb/pyimports/pkg/resolver/mocks"
	"github.com/stackb/pyimports/pkg/testutil"
)

func newResolver(t *testing.T, options ...resolver.Option) *resolver.Resolver {
	options = append([]resolver.Option{
		resolver.WithLogger(testutil.NewTestLogger(t)),
		resolver.WithVerbose(true),
	}, options...)
	return resolver.New(options...)
}

func implicitNames(imports map[string]*resolver.ImplicitImport) []string {
	names := []string{}
	for name := range imports {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func TestResolveImportStubPrecedence(t *testing.T) {
	dir := testutil.MustPrepareTestFiles(t, []testutil.FileSpec{
		{Path: "foo.py"},
		{Path: "foo.pyi"},
		{Path: "main.py"},
	})
	env := &resolver.ExecutionEnvironment{Root: dir}
	r := newResolver(t)

	result := r.ResolveImport(filepath.Join(dir, "main.py"), env, resolver.ParseModuleDescriptor("foo"))
	require.True(t, result.IsImportFound)
	assert.True(t, result.IsStubFile)
	assert.Equal(t, filepath.Join(dir, "foo.pyi"), result.ResolvedPath())
	assert.Equal(t, resolver.ImportTypeLocal, result.ImportType)

	require.NotNil(t, result.NonStubImportResult)
	assert.True(t, result.NonStubImportResult.IsImportFound)
	assert.False(t, result.NonStubImportResult.IsStubFile)
	assert.Equal(t, filepath.Join(dir, "foo.py"), result.NonStubImportResult.ResolvedPath())
}

func TestResolveImportPartialStubPackage(t *testing.T) {
	dir := testutil.MustPrepareTestFiles(t, []testutil.FileSpec{
		{Path: "project/main.py"},
		{Path: "lib/myLib/__init__.py"},
		{Path: "lib/myLib/partialStub.py", Content: "def f(): pass\n"},
		{Path: "lib/myLib/other.py"},
		{Path: "lib/myLib-stubs/py.typed", Content: "partial\n"},
		{Path: "lib/myLib-stubs/partialStub.pyi", Content: "def f() -> int: ...\n"},
	})
	lib := filepath.Join(dir, "lib")
	h := mocks.NewHost(t)
	h.On("PythonSearchPaths", "").Return([]string{lib}, nil)

	env := &resolver.ExecutionEnvironment{Root: filepath.Join(dir, "project")}
	r := newResolver(t, resolver.WithHost(h))
	source := filepath.Join(dir, "project", "main.py")

	result := r.ResolveImport(source, env, resolver.ParseModuleDescriptor("myLib.partialStub"))
	require.True(t, result.IsImportFound, strings.Join(result.ImportFailureInfo, "\n"))
	assert.True(t, result.IsStubFile)
	assert.Equal(t, resolver.ImportTypeThirdParty, result.ImportType)
	assert.Equal(t, filepath.Join(lib, "myLib", "partialStub.pyi"), result.ResolvedPath())

	content, err := r.FileSystem().ReadFile(result.ResolvedPath())
	require.NoError(t, err)
	assert.Equal(t, "def f() -> int: ...\n", content)

	require.NotNil(t, result.NonStubImportResult)
	assert.Equal(t, filepath.Join(lib, "myLib", "partialStub.py"), result.NonStubImportResult.ResolvedPath())

	other := r.ResolveImport(source, env, resolver.ParseModuleDescriptor("myLib.other"))
	require.True(t, other.IsImportFound)
	assert.False(t, other.IsStubFile)
	assert.Equal(t, filepath.Join(lib, "myLib", "other.py"), other.ResolvedPath())

	// the stub package itself is no longer importable
	stubs := r.ResolveImport(source, env, resolver.ParseModuleDescriptor("myLib-stubs"))
	assert.False(t, stubs.IsImportFound)
}

func TestResolveImportFullyTypedStubPackage(t *testing.T) {
	dir := testutil.MustPrepareTestFiles(t, []testutil.FileSpec{
		{Path: "project/main.py"},
		{Path: "lib/myLib-stubs/__init__.pyi"},
		{Path: "lib/myLib-stubs/stub.pyi"},
	})
	lib := filepath.Join(dir, "lib")
	env := &resolver.ExecutionEnvironment{Root: filepath.Join(dir, "project")}
	r := newResolver(t, resolver.WithHost(&host.Static{Paths: []string{lib}}))
	source := filepath.Join(dir, "project", "main.py")

	pkg := r.ResolveImport(source, env, resolver.ParseModuleDescriptor("myLib"))
	require.True(t, pkg.IsImportFound)
	assert.True(t, pkg.IsStubPackage)
	assert.True(t, pkg.IsStubFile)
	assert.Equal(t, filepath.Join(lib, "myLib-stubs", "__init__.pyi"), pkg.ResolvedPath())
	assert.Equal(t, filepath.Join(lib, "myLib-stubs"), pkg.PackageDirectory)

	stub := r.ResolveImport(source, env, resolver.ParseModuleDescriptor("myLib.stub"))
	require.True(t, stub.IsImportFound)
	assert.Equal(t, filepath.Join(lib, "myLib-stubs", "stub.pyi"), stub.ResolvedPath())

	missing := r.ResolveImport(source, env, resolver.ParseModuleDescriptor("myLib.partialStub"))
	assert.False(t, missing.IsImportFound)
	assert.True(t, errors.Is(missing.Err(), resolver.ErrImportNotFound))
}

func TestResolveImportNamespacePackageAcrossExtraPaths(t *testing.T) {
	for name, tc := range map[string]struct {
		files     []testutil.FileSpec
		wantFound bool
		wantPath  string
	}{
		"regular package in first path": {
			files: []testutil.FileSpec{
				{Path: "packages1/a/__init__.py"},
				{Path: "packages1/a/b/c/d.py"},
				{Path: "packages2/a/__init__.py"},
			},
			wantFound: true,
			wantPath:  "packages1/a/b/c/d.py",
		},
		"namespace loses to shallower regular package": {
			files: []testutil.FileSpec{
				{Path: "packages1/a/b/c/d.py"},
				{Path: "packages2/a/__init__.py"},
			},
		},
		"namespace package alone": {
			files: []testutil.FileSpec{
				{Path: "packages1/a/b/c/d.py"},
				{Path: "packages2/x/__init__.py"},
			},
			wantFound: true,
			wantPath:  "packages1/a/b/c/d.py",
		},
	} {
		t.Run(name, func(t *testing.T) {
			dir := testutil.MustPrepareTestFiles(t, append(tc.files, testutil.FileSpec{Path: "src/main.py"}))
			env := &resolver.ExecutionEnvironment{
				ExtraPaths: []string{filepath.Join(dir, "packages1"), filepath.Join(dir, "packages2")},
			}
			r := newResolver(t)

			result := r.ResolveImport(filepath.Join(dir, "src", "main.py"), env, resolver.ParseModuleDescriptor("a.b.c.d"))
			assert.Equal(t, tc.wantFound, result.IsImportFound, strings.Join(result.ImportFailureInfo, "\n"))
			if tc.wantFound {
				assert.Equal(t, filepath.Join(dir, filepath.FromSlash(tc.wantPath)), result.ResolvedPath())
				assert.Len(t, result.ResolvedPaths, 4)
			}
		})
	}
}

func TestResolveImportStdlibVersions(t *testing.T) {
	dir := testutil.MustPrepareTestFiles(t, []testutil.FileSpec{
		{Path: "typeshed/stdlib/VERSIONS", Content: "# comment\nmod: 3.8-3.9\nos: 3.0-\ntyping_extensions: 3.0-\nwinreg: 3.0-; platforms=win32\n"},
		{Path: "typeshed/stdlib/mod.pyi"},
		{Path: "typeshed/stdlib/os/__init__.pyi"},
		{Path: "typeshed/stdlib/os/path.pyi"},
		{Path: "typeshed/stdlib/typing_extensions.pyi"},
		{Path: "typeshed/stdlib/winreg.pyi"},
		{Path: "project/main.py"},
	})
	source := filepath.Join(dir, "project", "main.py")

	for name, tc := range map[string]struct {
		version   pyversion.Version
		platform  string
		module    string
		wantFound bool
		wantType  resolver.ImportType
	}{
		"in range": {
			version:   pyversion.V3_8,
			module:    "mod",
			wantFound: true,
			wantType:  resolver.ImportTypeBuiltIn,
		},
		"upper bound inclusive": {
			version:   pyversion.V3_9,
			module:    "mod",
			wantFound: true,
			wantType:  resolver.ImportTypeBuiltIn,
		},
		"removed": {
			version: pyversion.V3_10,
			module:  "mod",
		},
		"submodule": {
			version:   pyversion.V3_12,
			module:    "os.path",
			wantFound: true,
			wantType:  resolver.ImportTypeBuiltIn,
		},
		"typing_extensions is third party": {
			version:   pyversion.V3_12,
			module:    "typing_extensions",
			wantFound: true,
			wantType:  resolver.ImportTypeThirdParty,
		},
		"platform excluded": {
			version:  pyversion.V3_12,
			platform: "Linux",
			module:   "winreg",
		},
		"platform included": {
			version:   pyversion.V3_12,
			platform:  "Windows",
			module:    "winreg",
			wantFound: true,
			wantType:  resolver.ImportTypeBuiltIn,
		},
	} {
		t.Run(name, func(t *testing.T) {
			r := newResolver(t, resolver.WithTypeshedPath(filepath.Join(dir, "typeshed")))
			env := &resolver.ExecutionEnvironment{
				Root:           filepath.Join(dir, "project"),
				PythonVersion:  tc.version,
				PythonPlatform: tc.platform,
			}
			result := r.ResolveImport(source, env, resolver.ParseModuleDescriptor(tc.module))
			require.Equal(t, tc.wantFound, result.IsImportFound, strings.Join(result.ImportFailureInfo, "\n"))
			if tc.wantFound {
				assert.True(t, result.IsStdlibTypeshedFile)
				assert.Equal(t, tc.wantType, result.ImportType)
			}
		})
	}
}

func TestResolveImportThirdPartyTypeshed(t *testing.T) {
	dir := testutil.MustPrepareTestFiles(t, []testutil.FileSpec{
		{Path: "typeshed/stdlib/VERSIONS"},
		{Path: "typeshed/stubs/requests/requests/__init__.pyi"},
		{Path: "typeshed/stubs/requests/requests/api.pyi"},
		{Path: "typeshed/stubs/six/six/__init__.pyi"},
		{Path: "site/typedlib/__init__.py"},
		{Path: "site/typedlib/py.typed"},
		{Path: "typeshed/stubs/typedlib/typedlib/__init__.pyi"},
		{Path: "project/main.py"},
	})
	env := &resolver.ExecutionEnvironment{Root: filepath.Join(dir, "project")}
	r := newResolver(t,
		resolver.WithTypeshedPath(filepath.Join(dir, "typeshed")),
		resolver.WithHost(&host.Static{Paths: []string{filepath.Join(dir, "site")}}),
	)
	source := filepath.Join(dir, "project", "main.py")

	api := r.ResolveImport(source, env, resolver.ParseModuleDescriptor("requests.api"))
	require.True(t, api.IsImportFound)
	assert.True(t, api.IsThirdPartyTypeshedFile)
	assert.Equal(t, resolver.ImportTypeThirdParty, api.ImportType)
	assert.Equal(t, filepath.Join(dir, "typeshed", "stubs", "requests", "requests", "api.pyi"), api.ResolvedPath())

	// a fully py.typed installed library wins over typeshed stubs
	typed := r.ResolveImport(source, env, resolver.ParseModuleDescriptor("typedlib"))
	require.True(t, typed.IsImportFound)
	assert.False(t, typed.IsThirdPartyTypeshedFile)
	assert.NotNil(t, typed.PyTypedInfo)
	assert.Equal(t, filepath.Join(dir, "site", "typedlib", "__init__.py"), typed.ResolvedPath())
}

func TestResolveImportLocalBeatsThirdParty(t *testing.T) {
	dir := testutil.MustPrepareTestFiles(t, []testutil.FileSpec{
		{Path: "project/util.py"},
		{Path: "project/main.py"},
		{Path: "site/util.pyi"},
	})
	env := &resolver.ExecutionEnvironment{Root: filepath.Join(dir, "project")}
	r := newResolver(t, resolver.WithHost(&host.Static{Paths: []string{filepath.Join(dir, "site")}}))

	result := r.ResolveImport(filepath.Join(dir, "project", "main.py"), env, resolver.ParseModuleDescriptor("util"))
	require.True(t, result.IsImportFound)
	assert.Equal(t, resolver.ImportTypeLocal, result.ImportType)
	assert.Equal(t, filepath.Join(dir, "project", "util.py"), result.ResolvedPath())
}

func TestResolveImportStubPath(t *testing.T) {
	dir := testutil.MustPrepareTestFiles(t, []testutil.FileSpec{
		{Path: "typings/vendored.pyi"},
		{Path: "typings/ns/"},
		{Path: "site/vendored.py"},
		{Path: "site/ns/mod.py"},
		{Path: "project/main.py"},
	})
	env := &resolver.ExecutionEnvironment{Root: filepath.Join(dir, "project")}
	r := newResolver(t,
		resolver.WithStubPath(filepath.Join(dir, "typings")),
		resolver.WithHost(&host.Static{Paths: []string{filepath.Join(dir, "site")}}),
	)
	source := filepath.Join(dir, "project", "main.py")

	result := r.ResolveImport(source, env, resolver.ParseModuleDescriptor("vendored"))
	require.True(t, result.IsImportFound)
	assert.True(t, result.IsLocalTypingsFile)
	assert.Equal(t, resolver.ImportTypeLocal, result.ImportType)
	assert.Equal(t, filepath.Join(dir, "typings", "vendored.pyi"), result.ResolvedPath())
	require.NotNil(t, result.NonStubImportResult)
	assert.Equal(t, filepath.Join(dir, "site", "vendored.py"), result.NonStubImportResult.ResolvedPath())

	// an empty namespace directory in typings does not shadow the library
	ns := r.ResolveImport(source, env, resolver.ParseModuleDescriptor("ns", "mod"))
	require.True(t, ns.IsImportFound)
	assert.False(t, ns.IsLocalTypingsFile)
	assert.Equal(t, []string{"mod"}, implicitNames(ns.FilteredImplicitImports))
}

func TestResolveImportImplicitImports(t *testing.T) {
	dir := testutil.MustPrepareTestFiles(t, []testutil.FileSpec{
		{Path: "pkg/__init__.py"},
		{Path: "pkg/__init__.pyi"},
		{Path: "pkg/a.py"},
		{Path: "pkg/a.pyi"},
		{Path: "pkg/b.py"},
		{Path: "pkg/fast.cpython-311-x86_64-linux-gnu.so"},
		{Path: "pkg/shadowed.py"},
		{Path: "pkg/shadowed.so"},
		{Path: "pkg/sub/__init__.py"},
		{Path: "pkg/sub/py.typed"},
		{Path: "pkg/notapackage/"},
		{Path: "pkg/README.md"},
		{Path: "main.py"},
	})
	env := &resolver.ExecutionEnvironment{Root: dir}
	r := newResolver(t)
	source := filepath.Join(dir, "main.py")

	wildcard := r.ResolveImport(source, env, resolver.ParseModuleDescriptor("pkg", "*"))
	require.True(t, wildcard.IsImportFound)
	assert.True(t, wildcard.IsStubFile)
	assert.True(t, wildcard.IsInitFilePresent)
	if diff := cmp.Diff([]string{"a", "b", "fast", "shadowed", "sub"}, implicitNames(wildcard.FilteredImplicitImports)); diff != "" {
		t.Errorf("implicit imports (-want +got):\n%s", diff)
	}
	imports := wildcard.ImplicitImports
	assert.True(t, imports["a"].IsStubFile)
	assert.Equal(t, filepath.Join(dir, "pkg", "a.pyi"), imports["a"].Path)
	assert.True(t, imports["fast"].IsNativeLib)
	assert.False(t, imports["shadowed"].IsNativeLib)
	assert.NotNil(t, imports["sub"].PyTypedInfo)

	named := r.ResolveImport(source, env, resolver.ParseModuleDescriptor("pkg", "b", "missing"))
	assert.Equal(t, []string{"b"}, implicitNames(named.FilteredImplicitImports))

	plain := r.ResolveImport(source, env, resolver.ParseModuleDescriptor("pkg"))
	assert.Empty(t, plain.FilteredImplicitImports)
	assert.Len(t, plain.ImplicitImports, 5)

	// filtering never leaks into the cached value
	again := r.ResolveImport(source, env, resolver.ParseModuleDescriptor("pkg", "*"))
	assert.Len(t, again.FilteredImplicitImports, 5)
}

func TestResolveImportNativeModule(t *testing.T) {
	dir := testutil.MustPrepareTestFiles(t, []testutil.FileSpec{
		{Path: "site/np/__init__.py"},
		{Path: "site/np/mtrand.cp36-win_amd64.pyd"},
		{Path: "site/np/core.cpython-311-darwin.so"},
		{Path: "bundled/np/core.pyi"},
		{Path: "project/main.py"},
	})
	env := &resolver.ExecutionEnvironment{Root: filepath.Join(dir, "project")}
	r := newResolver(t,
		resolver.WithHost(&host.Static{Paths: []string{filepath.Join(dir, "site")}}),
		resolver.WithExtensions(&resolver.BundledStubs{Root: filepath.Join(dir, "bundled")}),
	)
	source := filepath.Join(dir, "project", "main.py")

	native := r.ResolveImport(source, env, resolver.ParseModuleDescriptor("np.mtrand"))
	require.True(t, native.IsImportFound)
	assert.True(t, native.IsNativeLib)
	assert.False(t, native.IsStubFile)
	assert.Equal(t, filepath.Join(dir, "site", "np", "mtrand.cp36-win_amd64.pyd"), native.ResolvedPath())

	stubbed := r.ResolveImport(source, env, resolver.ParseModuleDescriptor("np.core"))
	require.True(t, stubbed.IsImportFound)
	assert.False(t, stubbed.IsNativeLib)
	assert.True(t, stubbed.IsStubFile)
	assert.Equal(t, filepath.Join(dir, "bundled", "np", "core.pyi"), stubbed.ResolvedPath())
}

func TestResolveImportExtensions(t *testing.T) {
	dir := testutil.MustPrepareTestFiles(t, []testutil.FileSpec{
		{Path: "project/main.py"},
		{Path: "elsewhere/magic.pyi"},
	})
	env := &resolver.ExecutionEnvironment{Root: filepath.Join(dir, "project")}
	magic := &resolver.ImportResult{
		ImportName:    "magic",
		IsImportFound: true,
		IsStubFile:    true,
		ImportType:    resolver.ImportTypeThirdParty,
		ResolvedPaths: []string{filepath.Join(dir, "elsewhere", "magic.pyi")},
	}

	ext := mocks.NewExtensions(t)
	ext.On("StubPath", env).Return("")
	ext.On("ResolveImport", mock.Anything, mock.Anything, env, mock.Anything, true).Return(magic)
	ext.On("ResolveImport", mock.Anything, mock.Anything, env, mock.Anything, false).Return(nil)

	r := newResolver(t, resolver.WithExtensions(ext))
	result := r.ResolveImport(filepath.Join(dir, "project", "main.py"), env, resolver.ParseModuleDescriptor("magic"))
	require.True(t, result.IsImportFound)
	assert.Equal(t, magic.ResolvedPaths, result.ResolvedPaths)
	require.NotNil(t, result.NonStubImportResult)
	assert.False(t, result.NonStubImportResult.IsImportFound)
}

func TestResolveImportCache(t *testing.T) {
	dir := testutil.MustPrepareTestFiles(t, []testutil.FileSpec{
		{Path: "project/pkg/__init__.py"},
		{Path: "project/pkg/mod.py"},
		{Path: "project/main.py"},
	})
	fs := importfs.NewCountingFileSystem(importfs.NewOSFileSystem())
	env := &resolver.ExecutionEnvironment{Root: filepath.Join(dir, "project")}
	r := newResolver(t, resolver.WithFileSystem(fs))
	source := filepath.Join(dir, "project", "main.py")
	desc := resolver.ParseModuleDescriptor("pkg.mod")

	first := r.ResolveImport(source, env, desc)
	require.True(t, first.IsImportFound)
	assert.Greater(t, fs.Total(), 0)

	fs.Reset()
	second := r.ResolveImport(source, env, desc)
	assert.Equal(t, 0, fs.Total())
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("(-first +second):\n%s", diff)
	}

	r.InvalidateCache()
	third := r.ResolveImport(source, env, desc)
	assert.Greater(t, fs.Total(), 0)
	if diff := cmp.Diff(first, third); diff != "" {
		t.Errorf("(-first +third):\n%s", diff)
	}
}

func TestResolveImportRelative(t *testing.T) {
	dir := testutil.MustPrepareTestFiles(t, []testutil.FileSpec{
		{Path: "pkg/__init__.py"},
		{Path: "pkg/sibling.py"},
		{Path: "pkg/typed.py"},
		{Path: "pkg/typed.pyi"},
		{Path: "pkg/onlystub.pyi"},
		{Path: "pkg/sub/__init__.py"},
		{Path: "pkg/sub/mod.py"},
	})
	env := &resolver.ExecutionEnvironment{Root: dir}
	r := newResolver(t)
	source := filepath.Join(dir, "pkg", "sub", "mod.py")

	for name, tc := range map[string]struct {
		source      string
		name        string
		symbols     []string
		wantFound   bool
		wantPath    string
		wantNonStub string
	}{
		"from . import mod": {
			source:    source,
			name:      ".",
			symbols:   []string{"mod"},
			wantFound: true,
			wantPath:  "pkg/sub/__init__.py",
		},
		"from .. import sibling": {
			source:    source,
			name:      "..",
			symbols:   []string{"sibling"},
			wantFound: true,
			wantPath:  "pkg/__init__.py",
		},
		"from ..sibling import x": {
			source:    source,
			name:      "..sibling",
			wantFound: true,
			wantPath:  "pkg/sibling.py",
		},
		"stub with sibling source": {
			source:      source,
			name:        "..typed",
			wantFound:   true,
			wantPath:    "pkg/typed.pyi",
			wantNonStub: "pkg/typed.py",
		},
		"stub without source": {
			source:    source,
			name:      "..onlystub",
			wantFound: true,
			wantPath:  "pkg/onlystub.pyi",
		},
		"missing": {
			source: source,
			name:   ".nothere",
		},
	} {
		t.Run(name, func(t *testing.T) {
			result := r.ResolveImport(tc.source, env, resolver.ParseModuleDescriptor(tc.name, tc.symbols...))
			require.Equal(t, tc.wantFound, result.IsImportFound, strings.Join(result.ImportFailureInfo, "\n"))
			assert.True(t, result.IsRelative)
			if !tc.wantFound {
				return
			}
			assert.Equal(t, filepath.Join(dir, filepath.FromSlash(tc.wantPath)), result.ResolvedPath())
			if result.IsStubFile {
				require.NotNil(t, result.NonStubImportResult)
				if tc.wantNonStub == "" {
					assert.False(t, result.NonStubImportResult.IsImportFound)
				} else {
					assert.Equal(t, filepath.Join(dir, filepath.FromSlash(tc.wantNonStub)), result.NonStubImportResult.ResolvedPath())
				}
			}
		})
	}
}

func TestResolveImportRelativeAboveRoot(t *testing.T) {
	dir := testutil.MustPrepareTestFiles(t, []testutil.FileSpec{
		{Path: "a/b/main.py"},
	})
	source := filepath.Join(dir, "a", "b", "main.py")
	depth := len(strings.Split(filepath.ToSlash(source), "/"))
	env := &resolver.ExecutionEnvironment{Root: dir}
	r := newResolver(t)

	desc := resolver.ModuleDescriptor{LeadingDots: depth + 2, NameParts: []string{"x"}}
	result := r.ResolveImport(source, env, desc)
	assert.False(t, result.IsImportFound)
	assert.True(t, result.IsRelative)
	assert.Contains(t, strings.Join(result.ImportFailureInfo, "\n"), "Invalid relative path")
}

func TestResolveImportWalkUp(t *testing.T) {
	dir := testutil.MustPrepareTestFiles(t, []testutil.FileSpec{
		{Path: "project/src/app/helper.py"},
		{Path: "project/src/app/main.py"},
		{Path: "project/src/app/deep/nested/other.py"},
		{Path: "project/src/common.py"},
		{Path: "project/venv/lib/thing.py"},
		{Path: "project/venv/lib/pkg/user.py"},
	})
	root := filepath.Join(dir, "project")
	venv := filepath.Join(root, "venv", "lib")

	fs := importfs.NewCountingFileSystem(importfs.NewOSFileSystem())
	env := &resolver.ExecutionEnvironment{Root: root}
	r := newResolver(t,
		resolver.WithFileSystem(fs),
		resolver.WithHost(&host.Static{Paths: []string{venv}}),
	)

	main := filepath.Join(root, "src", "app", "main.py")
	helper := r.ResolveImport(main, env, resolver.ParseModuleDescriptor("helper"))
	require.True(t, helper.IsImportFound, strings.Join(helper.ImportFailureInfo, "\n"))
	assert.Equal(t, filepath.Join(root, "src", "app", "helper.py"), helper.ResolvedPath())

	nested := filepath.Join(root, "src", "app", "deep", "nested", "other.py")
	common := r.ResolveImport(nested, env, resolver.ParseModuleDescriptor("common"))
	require.True(t, common.IsImportFound)
	assert.Equal(t, filepath.Join(root, "src", "common.py"), common.ResolvedPath())

	// a sibling file of the same subtree reuses the walk
	fs.Reset()
	again := r.ResolveImport(filepath.Join(root, "src", "app", "deep", "nested", "x.py"), env, resolver.ParseModuleDescriptor("common"))
	require.True(t, again.IsImportFound)
	assert.Equal(t, 0, fs.Total())

	// library files never walk up
	user := r.ResolveImport(filepath.Join(venv, "pkg", "user.py"), env, resolver.ParseModuleDescriptor("pkg.nothing"))
	assert.False(t, user.IsImportFound)

	// nor do files outside the project
	outside := r.ResolveImport(filepath.Join(dir, "elsewhere", "x.py"), env, resolver.ParseModuleDescriptor("helper"))
	assert.False(t, outside.IsImportFound)
}

func TestResolveImportWalkUpUntrackedFile(t *testing.T) {
	dir := testutil.MustPrepareTestFiles(t, []testutil.FileSpec{
		{Path: "project/scripts/tool.py"},
		{Path: "project/scripts/shared.py"},
	})
	root := filepath.Join(dir, "project")
	env := &resolver.ExecutionEnvironment{Root: root}
	r := newResolver(t,
		resolver.WithHost(&host.Static{}),
		resolver.WithTrackedFiles(func(string, *resolver.ExecutionEnvironment) bool { return false }),
	)

	shared := r.ResolveImport(filepath.Join(root, "scripts", "tool.py"), env, resolver.ParseModuleDescriptor("shared"))
	require.True(t, shared.IsImportFound, strings.Join(shared.ImportFailureInfo, "\n"))
	assert.Equal(t, filepath.Join(root, "scripts", "shared.py"), shared.ResolvedPath())
}

func TestResolveImportPythonSearchPathFailure(t *testing.T) {
	dir := testutil.MustPrepareTestFiles(t, []testutil.FileSpec{
		{Path: "project/main.py"},
	})
	h := mocks.NewHost(t)
	h.On("PythonSearchPaths", "/usr/bin/python3").Return(nil, errors.New("boom"))

	env := &resolver.ExecutionEnvironment{Root: filepath.Join(dir, "project")}
	r := newResolver(t, resolver.WithHost(h), resolver.WithPythonPath("/usr/bin/python3"))
	result := r.ResolveImport(filepath.Join(dir, "project", "main.py"), env, resolver.ParseModuleDescriptor("requests"))
	assert.False(t, result.IsImportFound)
	assert.Empty(t, r.ImportRoots(env)[1:])
}
