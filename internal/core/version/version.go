// Package version reports build information stamped at link time
package version

// BuildInfo holds version information about the service build
type BuildInfo struct {
	Service string `json:"service"`
	Version string `json:"version"`
	Commit  string `json:"commit"`
	Date    string `json:"date"`
}

// set via -ldflags "-X 'conflux/internal/core/version.version=v0.1.0'
// -X 'conflux/internal/core/version.commit=abcd' -X 'conflux/internal/core/version.date=2026-01-02'"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Info returns the build information for service, "conflux" when empty
func Info(service string) BuildInfo {
	if service == "" {
		service = "conflux"
	}
	return BuildInfo{Service: service, Version: version, Commit: commit, Date: date}
}

// Version returns the stamped release, used as the clickhouse client tag
func Version() string { return version }
