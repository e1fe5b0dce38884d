package cmd

import "strings"

var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// SetVersionInfo records the build metadata injected through ldflags.
func SetVersionInfo(v, built, commit string) {
	version, buildTime, gitCommit = v, built, commit
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("convertany {{.Version}} (built " + buildTime + ", commit " + gitCommit + ")\n")
}

// shortVersion is the major.minor shown in the startup notice.
func shortVersion() string {
	v := strings.TrimPrefix(version, "v")
	parts := strings.SplitN(v, ".", 3)
	if len(parts) < 2 {
		return "1.0"
	}
	return parts[0] + "." + parts[1]
}
