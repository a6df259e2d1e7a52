package ch

import (
	"runtime"
	"runtime/debug"

	"github.com/ClickHouse/clickhouse-go/v2"

	"chromalyzer/internal/core/version"
)

// BuildClientInfo names this process in system.query_log. name is the binary,
// tag its release; a blank tag falls back to the linked build version
func BuildClientInfo(name, tag string) clickhouse.ClientInfo {
	b := version.Info()
	if tag == "" {
		tag = b.Version
	}
	return clickhouse.ClientInfo{Products: []struct{ Name, Version string }{
		{Name: name, Version: tag},
		{Name: "go", Version: runtime.Version()},
		{Name: "commit", Version: commit(b.Commit)},
	}}
}

// commit prefers the ldflags value and falls back to the vcs stamp
func commit(linked string) string {
	if linked != "" && linked != "none" {
		return linked
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 7 {
				return s.Value[:7]
			}
		}
	}
	return "unknown"
}
