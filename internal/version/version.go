// Package version reports the reservectl build version.
package version

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"sync"
	"time"
)

// Set at build time:
//
//	go build -ldflags="-X github.com/branchdesk/reservectl/internal/version.Version=v0.3.0 \
//	                   -X github.com/branchdesk/reservectl/internal/version.Commit=abc123"
var (
	Version = ""
	Commit  = ""
)

// Build describes the running binary.
type Build struct {
	Version string
	Commit  string
	Dirty   bool      // built from a modified work tree
	Date    time.Time // commit time, zero if unknown
}

var (
	current     Build
	currentOnce sync.Once
)

// Current returns the build description. Linker flags win; otherwise the
// module and VCS build info fill the gaps.
func Current() Build {
	currentOnce.Do(func() {
		info, _ := debug.ReadBuildInfo()
		current = resolve(Version, Commit, info)
	})
	return current
}

func resolve(version, commit string, info *debug.BuildInfo) Build {
	b := Build{Version: version, Commit: commit}

	if info != nil {
		if b.Version == "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			b.Version = info.Main.Version
		}

		vcs := make(map[string]string, len(info.Settings))
		for _, s := range info.Settings {
			vcs[s.Key] = s.Value
		}
		if b.Commit == "" && vcs["vcs.revision"] != "" {
			b.Commit = shortRevision(vcs["vcs.revision"])
			b.Dirty = vcs["vcs.modified"] == "true"
		}
		if t, err := time.Parse(time.RFC3339, vcs["vcs.time"]); err == nil {
			b.Date = t
		}
	}

	if b.Version == "" {
		b.Version = "dev"
		if !b.Date.IsZero() {
			b.Version += "-" + b.Date.Format("20060102")
		}
	}
	if b.Commit == "" {
		b.Commit = "unknown"
	}
	return b
}

func shortRevision(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}

func (b Build) String() string {
	commit := b.Commit
	if b.Dirty {
		commit += "-dirty"
	}
	return fmt.Sprintf("%s (commit: %s)", b.Version, commit)
}

// Full returns the version with its commit, e.g. "v0.3.0 (commit: abc1234)".
func Full() string {
	return Current().String()
}

// UserAgent identifies this build to the API,
// e.g. "reservectl/v0.3.0 (go1.24.10; linux/amd64)".
func UserAgent() string {
	return fmt.Sprintf("reservectl/%s (%s; %s/%s)", Current().Version, runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
