package version

import "fmt"

var (
	// Version is the current application version, set with -ldflags -X
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// String formats the build metadata for -version output.
func String() string {
	return fmt.Sprintf("batchest %s (%s, built %s)", Version, GitSHA, BuildTime)
}
