package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var invalidateCmd = &cobra.Command{
	Use:   "invalidate <service>",
	Short: "Forget the cached status of a service",
	Long: `Forget the cached status of a service so the next ensure runs a live
check. With --session the session record is removed too, which skips the
session fast path as well.`,
	Example: `  # Re-check GitHub on next use
  authgate invalidate github

  # Also drop the session
  authgate invalidate github --session`,
	Args: usageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		session, err := cmd.Flags().GetBool("session")
		if err != nil {
			return fmt.Errorf("get session flag: %w", err)
		}

		orch, err := requireOrchestrator(cmd.Context())
		if err != nil {
			return err
		}

		if err := orch.InvalidateAuthCache(cmd.Context(), args[0]); err != nil {
			return fmt.Errorf("invalidate cache: %w", err)
		}
		if session {
			if err := orch.InvalidateSession(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("invalidate session: %w", err)
			}
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Invalidated %s\n", args[0])
		return nil
	},
}

func init() {
	rootCmd.AddCommand(invalidateCmd)

	invalidateCmd.Flags().Bool("session", false, "also remove the session record")
}
