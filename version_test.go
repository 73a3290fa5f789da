package flourish

import (
	"reflect"
	"testing"
)

func TestEmbeddedVersionParses(t *testing.T) {
	if _, err := ParseSemVer(Version()); err != nil {
		t.Fatalf("embedded version: %v", err)
	}
	if got, want := VersionTag(), "v"+Version(); got != want {
		t.Fatalf("version tag: got %q, want %q", got, want)
	}
}

func TestParseSemVer(t *testing.T) {
	cases := []struct {
		in   string
		want SemVer
		ok   bool
	}{
		{in: "0.2.0", want: SemVer{Minor: 2}, ok: true},
		{in: "1.2.3-alpha.1", want: SemVer{Major: 1, Minor: 2, Patch: 3, Pre: "alpha.1"}, ok: true},
		{in: "2.0.0+build.7", want: SemVer{Major: 2, Build: "build.7"}, ok: true},
		{in: "1.0.0-rc-1+sha.5114f85", want: SemVer{Major: 1, Pre: "rc-1", Build: "sha.5114f85"}, ok: true},
		{in: "v1.2.3"},
		{in: "1.2"},
		{in: "01.2.3"},
		{in: "1.2.3-01"},
		{in: "1.2.3-"},
		{in: "1.2.3+a..b"},
	}

	for _, tc := range cases {
		got, err := ParseSemVer(tc.in)
		if (err == nil) != tc.ok {
			t.Fatalf("ParseSemVer(%q) err: got %v, want ok=%v", tc.in, err, tc.ok)
		}
		if tc.ok && !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("ParseSemVer(%q): got %+v, want %+v", tc.in, got, tc.want)
		}
		if IsSemver(tc.in) != tc.ok {
			t.Fatalf("IsSemver(%q): got %v, want %v", tc.in, !tc.ok, tc.ok)
		}
	}
}
