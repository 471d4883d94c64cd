// Package version holds build information stamped in by the linker.
package version

import "fmt"

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/arthur-debert/fpm/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/arthur-debert/fpm/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/arthur-debert/fpm/internal/version.Date={{.Date}}
)

// String is the one-line form printed by fpm version.
func String() string {
	return fmt.Sprintf("fpm %s (commit %s, built %s)", Version, Commit, Date)
}
