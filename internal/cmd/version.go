package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmgilman/authgate/internal/version"
)

var versionCmd = &cobra.Command{
	Use:         "version",
	Short:       "Display version information",
	Long:        `Display the version, commit, and build date of authgate.`,
	Args:        usageArgs(cobra.NoArgs),
	Annotations: map[string]string{skipInitAnnotation: "true"},
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "authgate %s\n", version.Version)
		fmt.Fprintf(out, "  commit: %s\n", version.Commit)
		fmt.Fprintf(out, "  built:  %s\n", version.Date)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
