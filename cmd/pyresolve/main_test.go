package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stackb/pyimports/pkg/testutil"
)

func prepareProject(t *testing.T) string {
	t.Helper()
	t.Setenv("PYTHONPATH", "")
	return testutil.MustPrepareTestFiles(t, []testutil.FileSpec{
		{Path: "pyimports.yaml", Content: "typeshedPath: typeshed\nsearchPaths: [site]\npythonVersion: \"3.12\"\n"},
		{Path: "typeshed/stdlib/VERSIONS", Content: "os: 3.0-\nasynchat: 3.0-3.11\n"},
		{Path: "typeshed/stdlib/os/__init__.pyi"},
		{Path: "typeshed/stdlib/os/path.pyi"},
		{Path: "typeshed/stdlib/asynchat.pyi"},
		{Path: "site/requests/__init__.py"},
		{Path: "app/__init__.py"},
		{Path: "app/main.py"},
		{Path: "app/util.py"},
	})
}

func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := newRootCommand(&stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestResolveCommand(t *testing.T) {
	dir := prepareProject(t)
	main := filepath.Join(dir, "app", "main.py")

	stdout, _, err := run(t, "--project", dir, "resolve", main, "os.path", "requests", ".util")
	require.NoError(t, err)

	// detail lines are indented
	var lines []string
	for _, line := range strings.Split(strings.TrimSpace(stdout), "\n") {
		if !strings.HasPrefix(line, " ") {
			lines = append(lines, line)
		}
	}
	require.Len(t, lines, 3)
	assert.Contains(t, stdout, "  stub\n")
	assert.Equal(t, []string{"os.path", "found", "BuiltIn", filepath.Join(dir, "typeshed", "stdlib", "os", "path.pyi")}, strings.Fields(lines[0]))
	assert.Equal(t, []string{"requests", "found", "ThirdParty", filepath.Join(dir, "site", "requests", "__init__.py")}, strings.Fields(lines[1]))
	assert.Equal(t, []string{".util", "found", "Local", filepath.Join(dir, "app", "util.py")}, strings.Fields(lines[2]))
}

func TestResolveCommandNotFound(t *testing.T) {
	dir := prepareProject(t)

	stdout, _, err := run(t, "--project", dir, "--verbose", "--format", "json", "resolve", filepath.Join(dir, "app", "main.py"), "asynchat")
	require.EqualError(t, err, "1 of 1 imports not found")

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, "asynchat", got["importName"])
	assert.Equal(t, false, got["isImportFound"])
	assert.NotEmpty(t, got["importFailureInfo"])
}

func TestModuleNameCommand(t *testing.T) {
	dir := prepareProject(t)
	file := filepath.Join(dir, "site", "requests", "__init__.py")

	stdout, _, err := run(t, "--project", dir, "--format", "json", "modulename", file)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	want := map[string]any{
		"file":       file,
		"moduleName": "requests",
		"importType": "ThirdParty",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestListCommands(t *testing.T) {
	dir := prepareProject(t)
	stdlib := filepath.Join(dir, "typeshed", "stdlib")

	for name, tc := range map[string]struct {
		args []string
		want []string
	}{
		"roots": {
			args: []string{"roots"},
			want: []string{stdlib, dir, filepath.Join(dir, "site")},
		},
		"stdlib": {
			args: []string{"stdlib"},
			want: []string{"os", "os.path"},
		},
		"stdlib prefix on older python": {
			args: []string{"--python_version", "3.10", "stdlib", "asynchat"},
			want: []string{"asynchat"},
		},
		"stdlib-exclude": {
			args: []string{"stdlib-exclude"},
			want: []string{filepath.Join(stdlib, "asynchat"), filepath.Join(stdlib, "asynchat.pyi")},
		},
	} {
		t.Run(name, func(t *testing.T) {
			stdout, _, err := run(t, append([]string{"--project", dir}, tc.args...)...)
			require.NoError(t, err)
			if diff := cmp.Diff(tc.want, strings.Fields(stdout)); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestInvalidFormat(t *testing.T) {
	dir := prepareProject(t)
	_, _, err := run(t, "--project", dir, "--format", "xml", "roots")
	require.EqualError(t, err, `invalid --format "xml"`)
}
