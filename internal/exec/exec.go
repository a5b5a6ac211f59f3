// Package exec provides an abstraction over executing external service CLIs.
package exec

import (
	"context"
	"errors"
	"io"
	"os/exec"
	"time"
)

// Sentinel errors for command execution.
var (
	// ErrTimeout is returned when a command exceeds RunOptions.Timeout.
	ErrTimeout = errors.New("command timed out")

	// ErrCommandNotFound is returned when the command binary is not in PATH.
	ErrCommandNotFound = errors.New("command not found")
)

// Result holds the output from a completed command.
type Result struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
}

// RunOptions configures command execution.
type RunOptions struct {
	Name    string        // Command name or path (required)
	Args    []string      // Command arguments
	Dir     string        // Working directory (empty = current)
	Env     []string      // Additional environment variables (KEY=VALUE format)
	Stdin   io.Reader     // Stdin source (nil = no input)
	Stdout  io.Writer     // If set, streams stdout here instead of capturing
	Stderr  io.Writer     // If set, streams stderr here instead of capturing
	Timeout time.Duration // Upper bound on run time (0 = bounded only by ctx)
}

// Executor runs external commands.
//
//go:generate go run github.com/matryer/moq@latest -pkg mocks -out mocks/executor.go . Executor
type Executor interface {
	// Run executes a command and returns its output.
	// If Stdout/Stderr writers are set in opts, output streams there and
	// Result.Stdout/Stderr will be nil.
	// Returns os/exec.ExitError on non-zero exit (use errors.As or ExitCode),
	// ErrTimeout when opts.Timeout elapses and ErrCommandNotFound when the
	// binary cannot be located.
	Run(ctx context.Context, opts *RunOptions) (*Result, error)

	// LookPath searches for an executable in PATH.
	// Returns the full path if found, or an error if not.
	LookPath(name string) (string, error)
}

// ExitCode extracts the process exit status from an error returned by Run.
// A nil error is 0; errors that carry no exit status map to 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return exitErr.ExitCode()
	}
	return 1
}
