package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bazelbuild/bazel-gazelle/testtools"
	"github.com/bazelbuild/rules_go/go/tools/bazel"
)

// FileSpec describes a file, directory (trailing slash), or symlink to be
// created under a test root.
type FileSpec = testtools.FileSpec

// MustPrepareTestFiles creates a fresh temporary directory, writes the given
// files into it, and returns the (symlink-free) directory path. The directory
// is removed when the test ends.
func MustPrepareTestFiles(t *testing.T, files []FileSpec) string {
	t.Helper()

	tmpDir, err := bazel.NewTmpDir("pyimports")
	if err != nil {
		t.Fatal(err)
	}
	// macOS hands out /var/... which is a link to /private/var/...
	if real, err := filepath.EvalSymlinks(tmpDir); err == nil {
		tmpDir = real
	}
	t.Cleanup(func() {
		os.RemoveAll(tmpDir)
	})

	MustWriteTestFiles(t, tmpDir, files)
	return tmpDir
}

// MustWriteTestFiles writes the given files under tmpDir and returns their
// absolute paths. A Path ending in "/" creates an empty directory.
func MustWriteTestFiles(t *testing.T, tmpDir string, files []FileSpec) []string {
	t.Helper()

	var filenames []string
	for _, file := range files {
		abs := filepath.Join(tmpDir, filepath.FromSlash(file.Path))
		if file.Path != "" && file.Path[len(file.Path)-1] == '/' {
			if err := os.MkdirAll(abs, os.ModePerm); err != nil {
				t.Fatal(err)
			}
			filenames = append(filenames, abs)
			continue
		}
		if err := os.MkdirAll(filepath.Dir(abs), os.ModePerm); err != nil {
			t.Fatal(err)
		}
		switch {
		case file.NotExist:
			if err := os.RemoveAll(abs); err != nil {
				t.Fatal(err)
			}
		case file.Symlink != "":
			if err := os.Symlink(file.Symlink, abs); err != nil {
				t.Fatal(err)
			}
		default:
			if err := os.WriteFile(abs, []byte(file.Content), 0644); err != nil {
				t.Fatal(err)
			}
		}
		filenames = append(filenames, abs)
	}
	return filenames
}
