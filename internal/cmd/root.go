// Package cmd implements the authgate CLI commands using Cobra.
// It provides commands for ensuring, inspecting and resetting the
// authentication state of service CLIs, plus wrappers that gate those
// CLIs behind a successful authentication.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmgilman/authgate/internal/adapter"
	"github.com/jmgilman/authgate/internal/auth"
	"github.com/jmgilman/authgate/internal/config"
	"github.com/jmgilman/authgate/internal/envprobe"
	"github.com/jmgilman/authgate/internal/exec"
	"github.com/jmgilman/authgate/internal/prompt"
	"github.com/jmgilman/authgate/internal/retry"
	"github.com/jmgilman/authgate/internal/slogger"
	"github.com/jmgilman/authgate/internal/store"
	"github.com/jmgilman/authgate/internal/wrap"
)

// Exit codes returned by Execute.
const (
	ExitOK    = 0
	ExitError = 1
	ExitUsage = 2
)

// skipInitAnnotation marks commands that run without the orchestrator.
const skipInitAnnotation = "authgate/skip-init"

var (
	verbosity int
	logFormat string
)

var rootCmd = &cobra.Command{
	Use:   "authgate",
	Short: "Ensure CLI tools are authenticated before use",
	Long: `Authgate makes sure command-line tools such as gh, glab, aws, gcloud and az
are authenticated before anything runs them.

Results are cached for a short TTL so repeated invocations cost nothing. When
a tool is not authenticated, authgate logs in interactively on a terminal or
uses a token from the environment in CI, retrying with backoff.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger, err := slogger.New(slogger.Config{
			Verbosity: verbosity,
			Format:    logFormat,
			Output:    cmd.ErrOrStderr(),
		})
		if err != nil {
			return usageError(err)
		}
		ctx := slogger.WithLogger(cmd.Context(), logger)

		if cmd.Annotations[skipInitAnnotation] == "" {
			ctx, err = initApp(ctx, cmd)
			if err != nil {
				return err
			}
		}

		cmd.SetContext(ctx)
		return nil
	},
}

// Execute runs the command tree with os.Args and returns the process exit
// code.
func Execute() int {
	return ExecuteContext(context.Background())
}

// ExecuteContext is Execute with a caller supplied context.
func ExecuteContext(ctx context.Context) int {
	err := rootCmd.ExecuteContext(ctx)
	return exitCode(rootCmd.ErrOrStderr(), err)
}

func init() {
	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "increase log verbosity (-v info, -vv debug)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", slogger.FormatText, "log format: text, json or logfmt")

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})
}

// initApp loads configuration and wires the orchestrator and its
// dependencies into ctx.
func initApp(ctx context.Context, cmd *cobra.Command) (context.Context, error) {
	loader, err := config.NewLoader()
	if err != nil {
		return nil, fmt.Errorf("init config loader: %w", err)
	}

	cfg, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	probe := envprobe.Detect()

	backend := openBackend(ctx, cfg)

	executor := exec.New()
	registry, err := adapter.NewRegistry(executor, cfg.ServiceDescriptors()...)
	if err != nil {
		return nil, fmt.Errorf("build service registry: %w", err)
	}

	streams := adapter.Streams{In: cmd.InOrStdin(), Out: cmd.ErrOrStderr(), Err: cmd.ErrOrStderr()}

	orch := auth.New(auth.Options{
		Registry:     registry,
		Cache:        store.NewCacheStore(backend, cfg.Cache.TTL, probe.Now),
		Sessions:     store.NewSessionStore(backend, cfg.Session.TTL, probe.Now),
		Policy:       retry.New(cfg.Auth.MaxAttempts),
		Prompter:     prompt.New(cmd.InOrStdin(), cmd.ErrOrStderr()),
		Probe:        probe,
		Mode:         cfg.Auth.Interactive,
		CheckTimeout: cfg.Auth.CheckTimeout,
		LoginTimeout: cfg.Auth.LoginTimeout,
		Streams:      streams,
	})

	runner := wrap.New(orch, executor, adapter.Streams{
		In:  cmd.InOrStdin(),
		Out: cmd.OutOrStdout(),
		Err: cmd.ErrOrStderr(),
	})

	ctx = WithConfig(ctx, cfg)
	ctx = WithLoader(ctx, loader)
	ctx = WithRegistry(ctx, registry)
	ctx = WithOrchestrator(ctx, orch)
	ctx = WithRunner(ctx, runner)

	return ctx, nil
}

// openBackend opens the storage backend selected in cfg. A backend that
// cannot be opened degrades to one that caches nothing, so every check
// runs in full instead of the command failing.
func openBackend(ctx context.Context, cfg *config.Config) store.Backend {
	var (
		backend store.Backend
		err     error
	)
	switch cfg.Cache.Backend {
	case config.BackendKeyring:
		backend, err = store.OpenKeyring(cfg.Cache.Dir)
	default:
		backend, err = store.NewFileBackend(ctx, cfg.Cache.Dir)
	}
	if err != nil {
		slogger.L(ctx).Warn("status cache unavailable, continuing without it",
			"backend", cfg.Cache.Backend, "dir", cfg.Cache.Dir, "error", err)
		return store.NullBackend{}
	}
	return backend
}

// exitError carries an explicit process exit code. A nil err means the
// command already reported its own failure.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err == nil {
		return fmt.Sprintf("exit status %d", e.code)
	}
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func withExitCode(code int, err error) error {
	return &exitError{code: code, err: err}
}

func usageError(err error) error {
	return fmt.Errorf("%w: %w", auth.ErrUsage, err)
}

// usageArgs marks positional argument errors as usage errors.
func usageArgs(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := validate(cmd, args); err != nil {
			return usageError(err)
		}
		return nil
	}
}

// exitCode reports err on w and maps it to a process exit code.
func exitCode(w io.Writer, err error) int {
	if err == nil {
		return ExitOK
	}

	var ee *exitError
	if errors.As(err, &ee) {
		if ee.err != nil {
			fmt.Fprintf(w, "Error: %v\n", ee.err)
		}
		return ee.code
	}

	fmt.Fprintf(w, "Error: %v\n", err)

	// Cobra reports unknown subcommands without a typed error.
	if errors.Is(err, auth.ErrUsage) || strings.HasPrefix(err.Error(), "unknown command") {
		return ExitUsage
	}
	return ExitError
}

// resultCode maps an orchestrator failure to an exit code.
func resultCode(res auth.Result) int {
	if res.OK {
		return ExitOK
	}
	if errors.Is(res.Err, auth.ErrUsage) {
		return ExitUsage
	}
	return ExitError
}

// stderrFile returns the command's stderr when it is an *os.File.
func stderrFile(cmd *cobra.Command) *os.File {
	f, _ := cmd.ErrOrStderr().(*os.File)
	return f
}
