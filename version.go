// Package flourish is a terminal text editor component with persistent
// annotation state. See the editor, state and store packages.
package flourish

import (
	_ "embed"
	"fmt"
	"strconv"
	"strings"
)

//go:embed VERSION
var embeddedVersion string

// Version returns the module version without the leading "v".
func Version() string {
	return strings.TrimSpace(embeddedVersion)
}

// VersionTag returns Version in git tag form.
func VersionTag() string {
	return "v" + Version()
}

// SemVer is a parsed SemVer 2.0.0 version.
type SemVer struct {
	Major, Minor, Patch int
	Pre                 string
	Build               string
}

// ParseSemVer parses v, which must not carry a "v" prefix.
func ParseSemVer(v string) (SemVer, error) {
	var s SemVer
	rest := strings.TrimSpace(v)
	if i := strings.IndexByte(rest, '+'); i >= 0 {
		s.Build, rest = rest[i+1:], rest[:i]
		if !validIdents(s.Build, false) {
			return SemVer{}, fmt.Errorf("semver %q: bad build metadata", v)
		}
	}
	if i := strings.IndexByte(rest, '-'); i >= 0 {
		s.Pre, rest = rest[i+1:], rest[:i]
		if !validIdents(s.Pre, true) {
			return SemVer{}, fmt.Errorf("semver %q: bad pre-release", v)
		}
	}

	parts := strings.Split(rest, ".")
	if len(parts) != 3 {
		return SemVer{}, fmt.Errorf("semver %q: want MAJOR.MINOR.PATCH", v)
	}
	nums := [3]*int{&s.Major, &s.Minor, &s.Patch}
	for i, p := range parts {
		if !numeric(p) || (len(p) > 1 && p[0] == '0') {
			return SemVer{}, fmt.Errorf("semver %q: bad number %q", v, p)
		}
		n, err := strconv.Atoi(p)
		if err != nil {
			return SemVer{}, fmt.Errorf("semver %q: %w", v, err)
		}
		*nums[i] = n
	}
	return s, nil
}

// IsSemver reports whether v is a valid SemVer 2.0.0 string.
func IsSemver(v string) bool {
	_, err := ParseSemVer(v)
	return err == nil
}

func validIdents(s string, noLeadingZero bool) bool {
	for _, id := range strings.Split(s, ".") {
		if id == "" {
			return false
		}
		for _, r := range id {
			if !(r == '-' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
				return false
			}
		}
		if noLeadingZero && numeric(id) && len(id) > 1 && id[0] == '0' {
			return false
		}
	}
	return true
}

func numeric(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
