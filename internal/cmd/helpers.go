package cmd

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jmgilman/authgate/internal/adapter"
	"github.com/jmgilman/authgate/internal/auth"
	"github.com/jmgilman/authgate/internal/wrap"
)

func requireOrchestrator(ctx context.Context) (*auth.Orchestrator, error) {
	orch := OrchestratorFromContext(ctx)
	if orch == nil {
		return nil, errors.New("auth orchestrator not initialized")
	}
	return orch, nil
}

func requireRegistry(ctx context.Context) (*adapter.Registry, error) {
	registry := RegistryFromContext(ctx)
	if registry == nil {
		return nil, errors.New("service registry not initialized")
	}
	return registry, nil
}

func requireRunner(ctx context.Context) (*wrap.Runner, error) {
	runner := RunnerFromContext(ctx)
	if runner == nil {
		return nil, errors.New("command runner not initialized")
	}
	return runner, nil
}

// formatAge renders a duration at second precision, e.g. "4m12s".
func formatAge(d time.Duration) string {
	return d.Truncate(time.Second).String()
}

// formatList joins strings with commas and "or" before the last item.
func formatList(items []string) string {
	switch len(items) {
	case 0:
		return ""
	case 1:
		return items[0]
	case 2:
		return items[0] + " or " + items[1]
	default:
		return strings.Join(items[:len(items)-1], ", ") + " or " + items[len(items)-1]
	}
}

// wrapExit maps a wrapper result to a command error carrying the exit code.
func wrapExit(code int, err error) error {
	if err == nil && code == ExitOK {
		return nil
	}
	return withExitCode(code, err)
}
