package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmgilman/authgate/internal/prompt"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all cached statuses",
	Long: `Remove the cached status of every service. Sessions are kept unless
--sessions is given.

On a terminal you are asked to confirm; --yes skips the question.`,
	Example: `  # Clear the status cache
  authgate clear

  # Clear cache and sessions without asking
  authgate clear --sessions --yes`,
	Args: usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		sessions, err := cmd.Flags().GetBool("sessions")
		if err != nil {
			return fmt.Errorf("get sessions flag: %w", err)
		}
		yes, err := cmd.Flags().GetBool("yes")
		if err != nil {
			return fmt.Errorf("get yes flag: %w", err)
		}

		orch, err := requireOrchestrator(cmd.Context())
		if err != nil {
			return err
		}

		if !yes && orch.Interactive() {
			what := "cached statuses"
			if sessions {
				what = "cached statuses and sessions"
			}
			p := prompt.New(cmd.InOrStdin(), cmd.ErrOrStderr())
			ok, err := p.Confirm("Remove all "+what+"?", "Every service will be checked again on next use.")
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted")
				return nil
			}
		}

		if err := orch.ClearAllAuthCache(cmd.Context()); err != nil {
			return fmt.Errorf("clear cache: %w", err)
		}
		if sessions {
			if err := orch.ClearAllSessions(cmd.Context()); err != nil {
				return fmt.Errorf("clear sessions: %w", err)
			}
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Cleared")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)

	clearCmd.Flags().Bool("sessions", false, "also remove all session records")
	clearCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
}
