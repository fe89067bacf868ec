// Package typeshed reads the layout of a typeshed checkout: the stdlib
// VERSIONS manifest, the set of stdlib modules, and the third-party stub
// distributions under stubs/.
package typeshed

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dghubble/trie"

	"github.com/stackb/pyimports/pkg/importfs"
	"github.com/stackb/pyimports/pkg/pyversion"
)

const (
	// VersionsFileName is the manifest inside the stdlib directory.
	VersionsFileName = "VERSIONS"
	// MaxVersionsFileSize bounds the manifest; larger files are treated as
	// absent.
	MaxVersionsFileSize = 256 * 1024

	platformsKey = "platforms="
)

// VersionRange is the availability of one stdlib module.
type VersionRange struct {
	// Min is the first version that ships the module.
	Min pyversion.Version
	// Max is the last version that ships the module; nil when it is still
	// present.
	Max *pyversion.Version
	// SupportedPlatforms is nil when the manifest has no positive platform
	// list.
	SupportedPlatforms map[string]bool
	// UnsupportedPlatforms is nil when the manifest has no negated platform
	// list.
	UnsupportedPlatforms map[string]bool
}

// VersionMap holds parsed VERSIONS entries keyed by dotted module name.
type VersionMap struct {
	ranges *trie.PathTrie
	names  []string
}

// NewVersionMap returns an empty map, which accepts every module.
func NewVersionMap() *VersionMap {
	return &VersionMap{
		ranges: trie.NewPathTrieWithConfig(dottedPathTrieConfig),
	}
}

// BuildVersionMap parses the text of a VERSIONS manifest. Malformed lines are
// skipped.
func BuildVersionMap(manifest string) *VersionMap {
	m := NewVersionMap()
	for _, line := range strings.Split(manifest, "\n") {
		name, vr, ok := parseVersionsLine(line)
		if !ok {
			continue
		}
		m.Put(name, vr)
	}
	return m
}

// ReadVersionsFile loads stdlibDir/VERSIONS. A missing, unreadable or
// oversized manifest yields an empty map together with the reason.
func ReadVersionsFile(fsys importfs.FileSystem, stdlibDir string) (*VersionMap, error) {
	filename := filepath.Join(stdlibDir, VersionsFileName)
	st, err := fsys.Stat(filename)
	if err != nil {
		return NewVersionMap(), err
	}
	if !st.IsFile {
		return NewVersionMap(), fmt.Errorf("%s is not a file", filename)
	}
	if st.Size > MaxVersionsFileSize {
		return NewVersionMap(), fmt.Errorf("%s exceeds %d bytes (%d)", filename, MaxVersionsFileSize, st.Size)
	}
	content, err := fsys.ReadFile(filename)
	if err != nil {
		return NewVersionMap(), err
	}
	return BuildVersionMap(content), nil
}

// Put records the range of a module, replacing any earlier entry.
func (m *VersionMap) Put(name string, vr *VersionRange) {
	if m.ranges.Put(name, vr) {
		m.names = append(m.names, name)
	}
}

// Get returns the recorded range of the module, if any.
func (m *VersionMap) Get(name string) (*VersionRange, bool) {
	value := m.ranges.Get(name)
	if value == nil {
		return nil, false
	}
	return value.(*VersionRange), true
}

// Len returns the number of modules with a recorded range.
func (m *VersionMap) Len() int {
	return len(m.names)
}

// Names returns the recorded module names, sorted.
func (m *VersionMap) Names() []string {
	names := append([]string(nil), m.names...)
	sort.Strings(names)
	return names
}

// IsModuleValidForVersion reports whether the dotted module is available in
// the given version and platform. Every prefix of the name is checked against
// its own recorded range, so "a.b.c" is rejected if "a" is. An empty platform
// skips the platform checks.
func (m *VersionMap) IsModuleValidForVersion(name string, version pyversion.Version, platform string) bool {
	sysPlatform := SysPlatform(platform)
	valid := true
	m.ranges.WalkPath(name, func(key string, value interface{}) error {
		if !value.(*VersionRange).allows(version, sysPlatform) {
			valid = false
			return errInvalid
		}
		return nil
	})
	return valid
}

var errInvalid = fmt.Errorf("invalid for version")

func (vr *VersionRange) allows(version pyversion.Version, sysPlatform string) bool {
	if version.LessThan(vr.Min) {
		return false
	}
	if vr.Max != nil && version.GreaterThan(*vr.Max) {
		return false
	}
	if sysPlatform == "" {
		return true
	}
	if vr.SupportedPlatforms != nil && !vr.SupportedPlatforms[sysPlatform] {
		return false
	}
	if vr.UnsupportedPlatforms != nil && vr.UnsupportedPlatforms[sysPlatform] {
		return false
	}
	return true
}

// parseVersionsLine parses "module.name: MIN[-MAX][; platforms=a,!b]".
func parseVersionsLine(line string) (string, *VersionRange, bool) {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}
	qualifiers := strings.Split(line, ";")
	colonSplit := strings.Split(qualifiers[0], ":")
	if len(colonSplit) != 2 {
		return "", nil, false
	}
	name := strings.TrimSpace(colonSplit[0])
	if name == "" {
		return "", nil, false
	}
	versionSplit := strings.Split(colonSplit[1], "-")
	if len(versionSplit) > 2 {
		return "", nil, false
	}

	vr := &VersionRange{Min: pyversion.V3_0}
	minText := strings.TrimSuffix(strings.TrimSpace(versionSplit[0]), "+")
	if min, err := pyversion.Parse(minText); err == nil {
		vr.Min = min
	}
	if len(versionSplit) > 1 {
		if max, err := pyversion.Parse(versionSplit[1]); err == nil {
			vr.Max = &max
		}
	}

	for _, qualifier := range qualifiers[1:] {
		qualifier = strings.TrimSpace(qualifier)
		if !strings.HasPrefix(qualifier, platformsKey) {
			continue
		}
		for _, platform := range strings.Split(qualifier[len(platformsKey):], ",") {
			platform = strings.TrimSpace(platform)
			switch {
			case platform == "" || platform == "!":
			case platform[0] == '!':
				if vr.UnsupportedPlatforms == nil {
					vr.UnsupportedPlatforms = make(map[string]bool)
				}
				vr.UnsupportedPlatforms[platform[1:]] = true
			default:
				if vr.SupportedPlatforms == nil {
					vr.SupportedPlatforms = make(map[string]bool)
				}
				vr.SupportedPlatforms[platform] = true
			}
		}
	}

	return name, vr, true
}

// SysPlatform maps a configured platform name ("Linux", "Windows", "Darwin")
// to the sys.platform spelling used in typeshed manifests. "All" and the empty
// string map to "".
func SysPlatform(platform string) string {
	switch strings.ToLower(strings.TrimSpace(platform)) {
	case "", "all":
		return ""
	case "windows", "win32":
		return "win32"
	case "darwin", "macos":
		return "darwin"
	case "linux":
		return "linux"
	default:
		return strings.ToLower(platform)
	}
}
