// Package version reports which jmhgate build produced a verdict.
//
// Release builds stamp the fields with ldflags:
//
//	-X github.com/Aman-CERP/jmhgate/pkg/version.Version=$(VERSION)
//	-X github.com/Aman-CERP/jmhgate/pkg/version.Commit=$(COMMIT)
//	-X github.com/Aman-CERP/jmhgate/pkg/version.Date=$(DATE)
//
// Binaries built with `go install` or `go build` in a checkout fall back to
// the module version and VCS stamp embedded by the Go toolchain.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Set via ldflags.
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

// GoVersion is the toolchain that built the binary.
var GoVersion = runtime.Version()

// BuildInfo is structured version information for JSON output.
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	Modified  bool   `json:"modified,omitempty"`
	GoVersion string `json:"go_version"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// String returns "jmhgate <version> (commit: ..., built: ..., go: ...)".
func (b BuildInfo) String() string {
	commit := b.Commit
	if b.Modified {
		commit += "-dirty"
	}
	return fmt.Sprintf("jmhgate %s (commit: %s, built: %s, go: %s)",
		b.Version, commit, b.Date, b.GoVersion)
}

// String returns the full version line of the running binary.
func String() string {
	return GetInfo().String()
}

// Short returns just the version.
func Short() string {
	return GetInfo().Version
}

// GetInfo returns the build information of the running binary.
func GetInfo() BuildInfo {
	bi, _ := debug.ReadBuildInfo()
	return resolve(bi)
}

// resolve fills fields left unset by ldflags from the toolchain stamp.
func resolve(bi *debug.BuildInfo) BuildInfo {
	info := BuildInfo{
		Version:   Version,
		Commit:    Commit,
		Date:      Date,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
	if bi == nil {
		return info
	}

	if info.Version == "dev" && bi.Main.Version != "" && bi.Main.Version != "(devel)" {
		info.Version = bi.Main.Version
	}
	stamped := info.Commit != "unknown"
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if !stamped {
				info.Commit = shortRevision(s.Value)
			}
		case "vcs.time":
			if info.Date == "unknown" {
				info.Date = s.Value
			}
		case "vcs.modified":
			info.Modified = !stamped && s.Value == "true"
		}
	}
	return info
}

func shortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}
