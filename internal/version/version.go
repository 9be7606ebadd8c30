// Package version holds build metadata, set with -ldflags -X at release time.
package version

import (
	"fmt"
	"runtime"
)

var (
	Version   = "dev"             // ex: v0.1.0
	Commit    = "none"            // ex: abcd123
	BuildDate = "unknown"         // ex: 2025-08-11T18:42:00Z
	GoVersion = runtime.Version() // go version
)

// String is the one-line form printed by the version command.
func String() string {
	return fmt.Sprintf("promptlib %s (commit %s, built %s, %s)", Version, Commit, BuildDate, GoVersion)
}
