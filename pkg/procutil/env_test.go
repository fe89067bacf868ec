package procutil

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLookupBoolEnv(t *testing.T) {
	for name, tc := range map[string]struct {
		value        string
		set          bool
		defaultValue bool
		want         bool
	}{
		"unset":          {defaultValue: true, want: true},
		"true":           {set: true, value: "true", want: true},
		"TRUE":           {set: true, value: "TRUE", want: true},
		"1":              {set: true, value: "1", want: true},
		"false":          {set: true, value: "false", defaultValue: true, want: false},
		"0":              {set: true, value: "0", defaultValue: true, want: false},
		"garbage":        {set: true, value: "yes please", defaultValue: true, want: true},
		"empty defaults": {set: true, value: "", want: false},
	} {
		t.Run(name, func(t *testing.T) {
			if tc.set {
				t.Setenv(string(PYIMPORTS_VERBOSE), tc.value)
			}
			got := LookupBoolEnv(PYIMPORTS_VERBOSE, tc.defaultValue)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("(-want +got):\n%s", diff)
			}
		})
	}
}

func TestLookupPathListEnv(t *testing.T) {
	sep := string(filepath.ListSeparator)
	t.Setenv(string(PYTHONPATH), strings.Join([]string{"/a", "", "/b/c"}, sep))

	want := []string{"/a", "/b/c"}
	if diff := cmp.Diff(want, LookupPathListEnv(PYTHONPATH)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}
