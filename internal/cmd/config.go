package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/jmgilman/authgate/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config [key] [value]",
	Short: "View and modify configuration",
	Long: `View and modify authgate configuration.

With no arguments, displays the effective configuration, including values
set through environment variables.
With one argument, displays the value for the specified key.
With two arguments, sets the value for the specified key in the config file,
creating it if needed.`,
	Example: `  # Show all config
  authgate config

  # Show value for a specific key
  authgate config cache.ttl

  # Never prompt, even on a terminal
  authgate config auth.interactive noninteractive`,
	Args:        usageArgs(cobra.RangeArgs(0, 2)),
	Annotations: map[string]string{skipInitAnnotation: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		loader, err := config.NewLoader()
		if err != nil {
			return fmt.Errorf("init config loader: %w", err)
		}

		// Load validates the file and env before anything is shown or saved.
		if _, err := loader.Load(); err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		out := cmd.OutOrStdout()
		switch len(args) {
		case 0:
			return runShowAll(out, loader)
		case 1:
			return runShowKey(out, loader, args[0])
		default:
			return runSetKey(out, loader, args[0], args[1])
		}
	},
}

func runShowAll(w io.Writer, loader *config.Loader) error {
	out, err := yaml.Marshal(loader.AllSettings())
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	_, err = w.Write(out)
	return err
}

func runShowKey(w io.Writer, loader *config.Loader, key string) error {
	value, err := loader.Get(key)
	if err != nil {
		return usageError(err)
	}

	if value == nil {
		fmt.Fprintln(w, "")
		return nil
	}

	switch v := value.(type) {
	case string:
		fmt.Fprintln(w, v)
	case map[string]any, []any:
		out, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshal value: %w", err)
		}
		_, err = w.Write(out)
		return err
	default:
		fmt.Fprintln(w, value)
	}

	return nil
}

func runSetKey(w io.Writer, loader *config.Loader, key, value string) error {
	if err := loader.Set(key, value); err != nil {
		if errors.Is(err, config.ErrInvalidKey) || errors.Is(err, config.ErrInvalidMode) {
			return usageError(err)
		}
		return fmt.Errorf("save config: %w", err)
	}

	fmt.Fprintf(w, "Set %s = %s\n", key, value)
	return nil
}

func init() {
	rootCmd.AddCommand(configCmd)
}
