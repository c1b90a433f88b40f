package mpegscan

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version is the semantic version of the mpegscan library.
const Version = "0.1.0"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}

// VersionInfo describes the build of a binary using mpegscan.
type VersionInfo struct {
	Version   string
	GitCommit string
	BuildTime string
	GoVersion string
}

// String formats the information on one line, e.g.
// "mpegscan 0.1.0 (commit 1a2b3c4, built 2026-01-02T15:04:05Z, go1.26.0)".
func (v VersionInfo) String() string {
	return fmt.Sprintf("mpegscan %s (commit %s, built %s, %s)", v.Version, v.GitCommit, v.BuildTime, v.GoVersion)
}

// GetVersionInfo returns the version of the library and of the build.
//
// GitCommit and BuildTime come from -ldflags when set:
//
//	go build -ldflags="-X github.com/simonhull/mpegscan.gitCommit=$(git rev-parse HEAD) \
//	  -X github.com/simonhull/mpegscan.buildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)"
//
// and otherwise from the VCS stamp of the main module, or "unknown".
func GetVersionInfo() VersionInfo {
	info := VersionInfo{
		Version:   Version,
		GitCommit: gitCommit,
		BuildTime: buildTime,
		GoVersion: runtime.Version(),
	}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	for _, s := range bi.Settings {
		switch {
		case s.Key == "vcs.revision" && info.GitCommit == unknown:
			info.GitCommit = shortCommit(s.Value)
		case s.Key == "vcs.time" && info.BuildTime == unknown:
			info.BuildTime = s.Value
		}
	}
	return info
}

func shortCommit(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}

const unknown = "unknown"

// Set with -ldflags -X.
var (
	gitCommit = unknown
	buildTime = unknown
)
