package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// buildVersion is set from main via SetVersion, "dev" for local builds
var buildVersion = "dev"

// SetVersion records the build version injected through -ldflags
func SetVersion(v string) {
	if v != "" {
		buildVersion = v
	}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("OraSpectre %s\n", buildVersion)
		fmt.Println("Interactive Oracle CIS audit")
	},
}
