// Package build exposes build-time metadata injected via ldflags.
package build

import "fmt"

// Version, Commit, and Branch are set at build time by:
//
//	-ldflags "-X github.com/wentitech/wentitech/internal/build.Version=... ..."
var (
	Version = "dev"
	Commit  = "unknown"
	Branch  = "unknown"
)

// Summary is the one-line form printed by --version.
func Summary() string {
	return fmt.Sprintf("%s (%s, branch %s)", Version, Commit, Branch)
}
