// Package version holds the release information of grass.
package version

import "fmt"

// All of these may be replaced at build time via -ldflags "-X ...".
var (
	Major = "0"
	Minor = "1"
	Patch = "0"

	// ReleaseType is empty for final releases.
	ReleaseType = "beta"

	// GitRev is the commit the binary was built from.
	GitRev = ""

	// BuildTime is an ISO8601 timestamp.
	BuildTime = ""
)

// Semver returns the plain semantic version, e.g. "0.1.0-beta".
func Semver() string {
	semver := fmt.Sprintf("%s.%s.%s", Major, Minor, Patch)
	if ReleaseType != "" {
		semver += "-" + ReleaseType
	}

	return semver
}

// String returns Semver with a "v" prefix and the short git rev as build
// metadata, if known.
func String() string {
	if len(GitRev) < 7 {
		return "v" + Semver()
	}

	return "v" + Semver() + "+" + GitRev[:7]
}
