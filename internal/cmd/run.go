package cmd

import (
	"errors"

	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <service> -- <command> [args...]",
	Short: "Run a command once a service is authenticated",
	Long: `Ensure a service is authenticated and then run a command with the given
arguments, passing its exit code through.

If authentication fails the command is not run and authgate exits 1. A
command that cannot be found exits 127.`,
	Example: `  # Run terraform once AWS is authenticated
  authgate run aws -- terraform plan

  # Any service from the config file works too
  authgate run vault -- vault kv get secret/app`,
	Args: usageArgs(cobra.MinimumNArgs(2)),
	RunE: func(cmd *cobra.Command, args []string) error {
		service, name, cmdArgs, err := splitRunArgs(args)
		if err != nil {
			return err
		}

		runner, err := requireRunner(cmd.Context())
		if err != nil {
			return err
		}

		return wrapExit(runner.RunWithAuth(cmd.Context(), service, name, cmdArgs))
	},
}

// splitRunArgs separates the service from the command line. Flag parsing
// stops at the service name, so the "--" separator arrives as an argument
// and is dropped here. Later "--" belong to the command.
func splitRunArgs(args []string) (service, name string, cmdArgs []string, err error) {
	if len(args) == 0 {
		return "", "", nil, usageError(errors.New("requires a service and a command"))
	}
	service, rest := args[0], args[1:]
	if len(rest) > 0 && rest[0] == "--" {
		rest = rest[1:]
	}
	if len(rest) == 0 {
		return "", "", nil, usageError(errors.New("requires a command to run"))
	}
	return service, rest[0], rest[1:], nil
}

func init() {
	rootCmd.AddCommand(runCmd)

	// Everything after the service name belongs to the command.
	runCmd.Flags().SetInterspersed(false)
}
