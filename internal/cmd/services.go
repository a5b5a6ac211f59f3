package cmd

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/jmgilman/authgate/internal/adapter"
)

var servicesCmd = &cobra.Command{
	Use:   "services",
	Short: "List supported services",
	Long: `List every service authgate can authenticate: the built-in services and
any declared under services in the config file.`,
	Args: usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		registry, err := requireRegistry(cmd.Context())
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetOutputMirror(cmd.OutOrStdout())
		t.SetStyle(table.StyleLight)
		t.AppendHeader(table.Row{"SERVICE", "BINARY", "LOGIN", "TOKEN ENV", "SOURCE"})

		builtin := lo.Map(adapter.BuiltinServices, func(id adapter.ServiceID, _ int) string {
			return string(id)
		})

		for _, name := range registry.Names() {
			a, err := registry.Resolve(name)
			if err != nil {
				return fmt.Errorf("resolve %s: %w", name, err)
			}
			desc := a.Descriptor()

			methods := lo.Map(a.LoginMethods(), func(m adapter.LoginMethod, _ int) string {
				return string(m)
			})

			source := "config"
			if lo.Contains(builtin, name) {
				source = "builtin"
			}

			t.AppendRow(table.Row{
				name,
				desc.Binary,
				strings.Join(methods, ", "),
				lo.Ternary(desc.TokenEnv == "", "-", desc.TokenEnv),
				source,
			})
		}

		t.Render()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(servicesCmd)
}
