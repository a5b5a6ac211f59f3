// Package wrap runs a service's CLI only after its authentication has been
// ensured.
package wrap

import (
	"context"
	"errors"
	"fmt"
	"os"
	osexec "os/exec"

	"github.com/jmgilman/authgate/internal/adapter"
	"github.com/jmgilman/authgate/internal/auth"
	"github.com/jmgilman/authgate/internal/exec"
	"github.com/jmgilman/authgate/internal/slogger"
)

// ExitNotFound is returned when the wrapped command cannot be located.
const ExitNotFound = 127

// ErrAuthFailed is returned when authentication could not be ensured.
// The wrapped command is not run.
var ErrAuthFailed = errors.New("authentication failed")

// Ensurer is the orchestrator capability wrappers depend on.
type Ensurer interface {
	Ensure(ctx context.Context, service string) auth.Result
}

// Runner delegates to service CLIs behind an authentication gate.
type Runner struct {
	auth     Ensurer
	executor exec.Executor
	streams  adapter.Streams
}

// New creates a Runner. Zero streams default to the process stdio.
func New(ensurer Ensurer, executor exec.Executor, streams adapter.Streams) *Runner {
	if streams.In == nil {
		streams.In = os.Stdin
	}
	if streams.Out == nil {
		streams.Out = os.Stdout
	}
	if streams.Err == nil {
		streams.Err = os.Stderr
	}
	return &Runner{auth: ensurer, executor: executor, streams: streams}
}

// AuthError carries the failed orchestrator result.
type AuthError struct {
	Result auth.Result
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("%s: %s", ErrAuthFailed, e.Result.Reason)
}

// Unwrap exposes both ErrAuthFailed and the classified cause.
func (e *AuthError) Unwrap() []error {
	if e.Result.Err == nil {
		return []error{ErrAuthFailed}
	}
	return []error{ErrAuthFailed, e.Result.Err}
}

// RunWithAuth ensures service is authenticated and then runs name with
// args attached to the runner's streams. It returns the command's exit
// code. A non-zero exit from the command itself is not an error; failures
// to authenticate or to start the command are.
func (r *Runner) RunWithAuth(ctx context.Context, service, name string, args []string) (int, error) {
	res := r.auth.Ensure(ctx, service)
	if !res.OK {
		return 1, &AuthError{Result: res}
	}

	slogger.L(ctx).Debug("running wrapped command", "service", service, "command", name)

	_, err := r.executor.Run(ctx, &exec.RunOptions{
		Name:   name,
		Args:   args,
		Stdin:  r.streams.In,
		Stdout: r.streams.Out,
		Stderr: r.streams.Err,
	})
	if err == nil {
		return 0, nil
	}

	var exitErr *osexec.ExitError
	switch {
	case errors.As(err, &exitErr):
		return exec.ExitCode(err), nil
	case errors.Is(err, exec.ErrCommandNotFound):
		return ExitNotFound, err
	default:
		return 1, err
	}
}
