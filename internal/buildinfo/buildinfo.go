// Package buildinfo carries version stamps set with -ldflags -X.
package buildinfo

import (
	"fmt"
	"runtime/debug"
)

var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// Short returns the version, else the commit, else the VCS revision the
// toolchain recorded, else "dev".
func Short() string {
	if Version != "" && Version != "dev" {
		return Version
	}
	if Commit != "" && Commit != "unknown" {
		return Commit
	}
	if rev := vcsRevision(); rev != "" {
		return rev
	}
	return "dev"
}

// String is the long form printed by -version.
func String() string {
	return fmt.Sprintf("backdrop %s (commit %s, built %s)", Version, Commit, Date)
}

func vcsRevision() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" && len(s.Value) >= 7 {
			return s.Value[:7]
		}
	}
	return ""
}
