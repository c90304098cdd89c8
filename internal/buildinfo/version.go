// Package buildinfo reports which mvm build is running.
package buildinfo

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Stamped may be set with -ldflags "-X github.com/tsukumogami/mvm/internal/buildinfo.Stamped=v1.2.3"
// by release tooling. It wins over module metadata.
var Stamped string

// Version returns the version string for the current build: the stamped
// value, the module tag for `go install`ed releases, or a dev pseudo-version.
func Version() string {
	if Stamped != "" {
		return Stamped
	}

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	return fromBuildInfo(info)
}

// Summary is the line printed by `mvm --version`.
func Summary() string {
	return fmt.Sprintf("%s (%s %s/%s)", Version(), runtime.Version(), runtime.GOOS, runtime.GOARCH)
}

func fromBuildInfo(info *debug.BuildInfo) string {
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	var revision string
	var dirty bool
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			revision = s.Value
		case "vcs.modified":
			dirty = s.Value == "true"
		}
	}

	if revision == "" {
		return "dev"
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}

	v := "dev-" + revision
	if dirty {
		v += "-dirty"
	}
	return v
}
