// Package version exposes build metadata injected at link time.
package version

import "fmt"

// Build metadata, overridden via -ldflags at release time.
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// String returns a single-line human-readable version string.
func String() string {
	return fmt.Sprintf("gstats %s (commit: %s, built: %s)", Version, Commit, Date)
}
