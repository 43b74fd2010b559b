// Package version provides information about the build version of the service.
package version

import "runtime/debug"

// BuildInfo holds version information about the service build.
type BuildInfo struct {
	Service   string `json:"service"`
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	Date      string `json:"date"`
	GoVersion string `json:"go_version,omitempty"`
}

// Set via -ldflags "-X 'facegate/internal/core/version.Version=v0.3.0'
// -X 'facegate/internal/core/version.Commit=abcd' -X 'facegate/internal/core/version.Date=2026-10-01'"
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// Info returns the build information for service
func Info(service string) BuildInfo {
	bi := BuildInfo{Service: service, Version: Version, Commit: Commit, Date: Date}
	if b, ok := debug.ReadBuildInfo(); ok && b != nil {
		bi.GoVersion = b.GoVersion
	}
	return bi
}
