package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmgilman/authgate/internal/adapter"
)

const wrappersGroup = "wrappers"

// newWrapperCmd returns a command named after the service's binary that
// runs the binary behind an authentication check. Flags are not parsed so
// every argument reaches the binary untouched.
func newWrapperCmd(desc adapter.Descriptor) *cobra.Command {
	return &cobra.Command{
		Use:                desc.Binary + " [args...]",
		Short:              fmt.Sprintf("Run %s once %s is authenticated", desc.Binary, desc.Name),
		GroupID:            wrappersGroup,
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := requireRunner(cmd.Context())
			if err != nil {
				return err
			}

			return wrapExit(runner.RunWithAuth(cmd.Context(), desc.Name, desc.Binary, args))
		},
	}
}

func init() {
	rootCmd.AddGroup(&cobra.Group{ID: wrappersGroup, Title: "Service wrappers:"})

	for _, id := range adapter.BuiltinServices {
		rootCmd.AddCommand(newWrapperCmd(adapter.Builtin(id)))
	}
}
