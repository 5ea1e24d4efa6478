// Package version carries the build identity of the ledpanel binary.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"time"
)

// Name is the program name used in version strings and the HTTP User-Agent
const Name = "ledpanel"

// These variables can be set at build time via ldflags:
//
//	go build -ldflags="-X github.com/muurk/ledpanel/internal/version.Version=v1.2.3 \
//	                   -X github.com/muurk/ledpanel/internal/version.Commit=abc123"
//
// If not set, they are filled from the VCS stamp in the build info, or fall
// back to "dev" with a timestamp.
var (
	Version = ""
	Commit  = ""
)

func init() {
	if Version == "" || Commit == "" {
		applyBuildSettings(readBuildSettings())
	}

	if Version == "" {
		Version = fmt.Sprintf("dev-%s", time.Now().Format("20060102-150405"))
	}
	if Commit == "" {
		Commit = "unknown"
	}
}

// buildSettings is the VCS stamp embedded by the go tool
type buildSettings struct {
	revision string
	modified bool
	time     string
}

func readBuildSettings() buildSettings {
	var bs buildSettings

	info, ok := debug.ReadBuildInfo()
	if !ok {
		return bs
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			bs.revision = setting.Value
		case "vcs.modified":
			bs.modified = setting.Value == "true"
		case "vcs.time":
			bs.time = setting.Value
		}
	}
	return bs
}

// applyBuildSettings fills whichever of Version and Commit is still empty
func applyBuildSettings(bs buildSettings) {
	if Commit == "" && bs.revision != "" {
		Commit = bs.revision
		if len(Commit) > 7 {
			Commit = Commit[:7]
		}
		if bs.modified {
			Commit += "-dirty"
		}
	}

	// Build info has no tags, so a VCS build is versioned by commit date
	if Version == "" && bs.time != "" {
		if t, err := time.Parse(time.RFC3339, bs.time); err == nil {
			Version = fmt.Sprintf("dev-%s", t.Format("20060102"))
		}
	}
}

// Full returns the full version string including commit
func Full() string {
	return fmt.Sprintf("%s (commit: %s)", Version, Commit)
}

// String is the one-line banner printed by `ledpanel version`
func String() string {
	return fmt.Sprintf("%s %s %s/%s", Name, Full(), runtime.GOOS, runtime.GOARCH)
}

// UserAgent identifies the panel to the device's HTTP API
func UserAgent() string {
	return Name + "/" + Version
}
