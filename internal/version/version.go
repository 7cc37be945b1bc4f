// Package version holds build information for keyoverlap.
package version

// Overridable with ldflags:
// go build -ldflags "-X github.com/vchilikov/keyoverlap/internal/version.Version=1.2.0"
var (
	Version   = "0.3.0"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// Info returns a formatted version string
func Info() string {
	if Commit != "unknown" && len(Commit) > 7 {
		return Version + " (" + Commit[:7] + ")"
	}
	return Version
}

// Full returns complete version information
func Full() string {
	return "keyoverlap version " + Version + "\n" +
		"Commit: " + Commit + "\n" +
		"Built: " + BuildDate
}
