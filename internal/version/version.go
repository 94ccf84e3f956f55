// Package version identifies the scoring engine build. Values are set at
// link time with -ldflags "-X".
package version

var (
	// Version is the engine release.
	Version = "dev"
	// GitSHA is the git commit SHA
	GitSHA = "unknown"
	// BuildTime is the build timestamp
	BuildTime = "unknown"
)

// Engine returns the version string stamped into analysis records:
// Version, plus the short commit when it is known.
func Engine() string {
	if GitSHA == "" || GitSHA == "unknown" {
		return Version
	}
	sha := GitSHA
	if len(sha) > 7 {
		sha = sha[:7]
	}
	return Version + "+" + sha
}
