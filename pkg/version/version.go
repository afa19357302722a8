// Package version exposes build-time version information for the
// rangekit binary.
package version

// Set via -ldflags at build time; the zero values identify a local
// development build.
var (
	// Version is the semantic version of the release.
	Version = "dev"

	// Commit is the Git commit the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)
