// Package pyversion models Python language versions such as "3.10".
package pyversion

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a Python language version. Micro is only meaningful when HasMicro
// is set; comparisons ignore it otherwise.
type Version struct {
	Major    int
	Minor    int
	Micro    int
	HasMicro bool
}

var (
	// V3_0 is the oldest version the resolver understands. It is the default
	// lower bound for unparsable VERSIONS entries.
	V3_0  = Version{Major: 3, Minor: 0}
	V3_8  = Version{Major: 3, Minor: 8}
	V3_9  = Version{Major: 3, Minor: 9}
	V3_10 = Version{Major: 3, Minor: 10}
	V3_11 = Version{Major: 3, Minor: 11}
	V3_12 = Version{Major: 3, Minor: 12}
	V3_13 = Version{Major: 3, Minor: 13}

	// Latest is used when an execution environment does not name a version.
	Latest = V3_13
)

// Parse parses "3", "3.10" or "3.10.4".
func Parse(s string) (Version, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ".")
	if s == "" || len(parts) > 3 {
		return Version{}, fmt.Errorf("invalid python version %q", s)
	}
	var nums [3]int
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("invalid python version %q", s)
		}
		nums[i] = n
	}
	return Version{
		Major:    nums[0],
		Minor:    nums[1],
		Micro:    nums[2],
		HasMicro: len(parts) == 3,
	}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) Version {
	v, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return v
}

// Compare returns -1, 0 or +1.
func (v Version) Compare(other Version) int {
	if c := compareInt(v.Major, other.Major); c != 0 {
		return c
	}
	if c := compareInt(v.Minor, other.Minor); c != 0 {
		return c
	}
	if v.HasMicro && other.HasMicro {
		return compareInt(v.Micro, other.Micro)
	}
	return 0
}

func (v Version) LessThan(other Version) bool {
	return v.Compare(other) < 0
}

func (v Version) GreaterThan(other Version) bool {
	return v.Compare(other) > 0
}

// IsZero reports whether the version was never set.
func (v Version) IsZero() bool {
	return v == Version{}
}

// String implements fmt.Stringer.
func (v Version) String() string {
	if v.HasMicro {
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Micro)
	}
	return fmt.Sprintf("%d.%d", v.Major, v.Minor)
}

// UnmarshalText allows versions in YAML configuration files.
func (v *Version) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}

func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
