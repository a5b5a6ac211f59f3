package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmgilman/authgate/internal/auth"
	"github.com/jmgilman/authgate/internal/slogger"
)

var ensureCmd = &cobra.Command{
	Use:   "ensure <service>",
	Short: "Make sure a service is authenticated",
	Long: `Make sure a service CLI is authenticated, logging in if needed.

A fresh cached result returns immediately. Otherwise the service's status
check runs, and on failure authgate either walks you through a login
(interactive mode) or validates the token named by the service's token
variable (non-interactive mode).`,
	Example: `  # Authenticate the GitHub CLI if needed
  authgate ensure github

  # Use GH_TOKEN in CI
  AUTH_INTERACTIVE=false GH_TOKEN=... authgate ensure github`,
	Args: usageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		orch, err := requireOrchestrator(cmd.Context())
		if err != nil {
			return err
		}

		res := orch.Ensure(cmd.Context(), args[0])
		if diag := res.Diagnostics(); diag != "" {
			slogger.L(cmd.Context()).Info("login attempts\n" + diag)
		}

		if !res.OK {
			return withExitCode(resultCode(res), errors.New(ensureReason(res)))
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s is authenticated (%s)\n", res.Service, res.Path)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(ensureCmd)
}

// ensureReason falls back to the classified error when a result has no
// reason.
func ensureReason(res auth.Result) string {
	if res.Reason != "" {
		return res.Reason
	}
	if res.Err != nil {
		return res.Err.Error()
	}
	return "not authenticated"
}
