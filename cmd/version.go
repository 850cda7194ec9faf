package cmd

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/spf13/cobra"
)

// Version will be set by build flags during release builds
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of Alpine Search CLI",
	Run: func(cmd *cobra.Command, args []string) {
		OutputInfo("Alpine Search CLI %s", formatVersionForDisplay(Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// formatVersionForDisplay normalizes a build version for display: semver
// builds get a "v" prefix, anything else (dev builds, commit hashes) is
// shown as-is.
func formatVersionForDisplay(v string) string {
	trimmed := strings.TrimPrefix(strings.TrimSpace(v), "v")
	if _, err := semver.StrictNewVersion(trimmed); err != nil {
		return v
	}
	return "v" + trimmed
}
