// Package version reports what build of chromalyzer is running
package version

import "fmt"

// Stamped at link time, e.g.
//
//	go build -ldflags "-X chromalyzer/internal/core/version.version=v0.3.0 -X chromalyzer/internal/core/version.commit=$(git rev-parse HEAD)"
var (
	service = "chromalyzer"
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// BuildInfo is served by /meta/version and embedded in detector responses
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

func Info() BuildInfo {
	return BuildInfo{Service: service, Version: version, Commit: commit, Date: date}
}

// String renders the one line printed by -version
func (b BuildInfo) String() string {
	return fmt.Sprintf("%s %s (commit %s, built %s)", b.Service, b.Version, b.Commit, b.Date)
}
