package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
	"golang.org/x/term"
	"gopkg.in/yaml.v3"

	"github.com/jmgilman/authgate/internal/auth"
	"github.com/jmgilman/authgate/internal/spinner"
)

// Output formats accepted by status.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

var statusCmd = &cobra.Command{
	Use:   "status [service...]",
	Short: "Show cached authentication state",
	Long: `Show what authgate knows about each service: the cached status and its
age, the session and how it was verified.

With --live the service's status check also runs. Nothing is written to the
cache, and the command exits 1 if any live check fails.`,
	Example: `  # Show all services
  authgate status

  # Run live checks for two services as JSON
  authgate status github aws --live -o json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		output, err := cmd.Flags().GetString("output")
		if err != nil {
			return fmt.Errorf("get output flag: %w", err)
		}
		if output != outputTable && output != outputJSON && output != outputYAML {
			return usageError(fmt.Errorf("unknown output format %q (valid: %s)",
				output, formatList([]string{outputTable, outputJSON, outputYAML})))
		}

		live, err := cmd.Flags().GetBool("live")
		if err != nil {
			return fmt.Errorf("get live flag: %w", err)
		}

		orch, err := requireOrchestrator(cmd.Context())
		if err != nil {
			return err
		}
		registry, err := requireRegistry(cmd.Context())
		if err != nil {
			return err
		}

		services := args
		if len(services) == 0 {
			services = registry.Names()
		}

		reports := make([]auth.Report, 0, len(services))
		err = spinner.Run(liveSpinnerOutput(cmd, live), "checking", func(update func(string)) error {
			for _, svc := range services {
				update("checking " + svc)
				rep, repErr := orch.Report(cmd.Context(), svc, live)
				if repErr != nil {
					return fmt.Errorf("%s: %w", svc, repErr)
				}
				reports = append(reports, rep)
			}
			return nil
		})
		if err != nil {
			return err
		}

		if err := writeReports(cmd.OutOrStdout(), output, reports); err != nil {
			return err
		}

		for _, rep := range reports {
			if rep.Live != nil && !*rep.Live {
				return withExitCode(ExitError, nil)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)

	statusCmd.Flags().StringP("output", "o", outputTable, "output format: table, json or yaml")
	statusCmd.Flags().Bool("live", false, "also run each service's status check")
}

// liveSpinnerOutput returns stderr for the spinner when live checks run.
func liveSpinnerOutput(cmd *cobra.Command, live bool) *os.File {
	if !live {
		return nil
	}
	return stderrFile(cmd)
}

func writeReports(w io.Writer, output string, reports []auth.Report) error {
	switch output {
	case outputJSON:
		out, err := json.MarshalIndent(reports, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal status: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	case outputYAML:
		out, err := yaml.Marshal(reports)
		if err != nil {
			return fmt.Errorf("marshal status: %w", err)
		}
		_, err = w.Write(out)
		return err
	default:
		renderReports(w, reports)
		return nil
	}
}

func renderReports(w io.Writer, reports []auth.Report) {
	if f, ok := w.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		text.DisableColors()
	}

	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	showLive := false
	for _, rep := range reports {
		if rep.Live != nil {
			showLive = true
		}
	}

	header := table.Row{"SERVICE", "CACHE", "AGE", "SESSION", "METHOD"}
	if showLive {
		header = append(header, "LIVE")
	}
	t.AppendHeader(header)

	for _, rep := range reports {
		row := table.Row{
			rep.Service,
			cacheCell(rep.Cache),
			ageCell(rep.Cache),
			stateCell(rep.Session.State),
			rep.Session.Method,
		}
		if showLive {
			row = append(row, liveCell(rep.Live))
		}
		t.AppendRow(row)
	}

	t.Render()
}

func cacheCell(r auth.RecordReport) string {
	if r.Status == "" {
		return stateCell(r.State)
	}
	return stateCell(r.State) + " (" + r.Status + ")"
}

func ageCell(r auth.RecordReport) string {
	if r.State == auth.StateAbsent {
		return "-"
	}
	return formatAge(r.Age)
}

func stateCell(state string) string {
	switch state {
	case auth.StateFresh:
		return text.FgGreen.Sprint(state)
	case auth.StateExpired:
		return text.FgYellow.Sprint(state)
	default:
		return text.Faint.Sprint(state)
	}
}

func liveCell(live *bool) string {
	switch {
	case live == nil:
		return "-"
	case *live:
		return text.FgGreen.Sprint("ok")
	default:
		return text.FgRed.Sprint("failed")
	}
}
