package buildinfo

import (
	"strings"
	"testing"
)

// TestShortPrefersStamps verifies the stamped version, then commit, wins.
func TestShortPrefersStamps(t *testing.T) {
	defer func(v, c string) { Version, Commit = v, c }(Version, Commit)

	Version, Commit = "v1.2.3", "abcdef0"
	if got := Short(); got != "v1.2.3" {
		t.Errorf("Short() = %q, want v1.2.3", got)
	}

	Version = "dev"
	if got := Short(); got != "abcdef0" {
		t.Errorf("Short() = %q, want abcdef0", got)
	}

	Commit = "unknown"
	if got := Short(); got == "" {
		t.Error("Short() is empty without stamps")
	}
}

// TestString verifies every stamp appears in the long form.
func TestString(t *testing.T) {
	defer func(v, c, d string) { Version, Commit, Date = v, c, d }(Version, Commit, Date)
	Version, Commit, Date = "v0.1.0", "1234567", "2026-01-02"

	s := String()
	for _, want := range []string{"v0.1.0", "1234567", "2026-01-02"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}
