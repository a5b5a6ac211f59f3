package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
)

type executor struct{}

// New returns a new Executor that uses os/exec.
func New() Executor {
	return &executor{}
}

func (e *executor) Run(ctx context.Context, opts *RunOptions) (*Result, error) {
	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	// The caller is responsible for validating the command and arguments.
	cmd := exec.CommandContext(ctx, opts.Name, opts.Args...) //nolint:gosec // Intentional subprocess execution

	if opts.Dir != "" {
		cmd.Dir = opts.Dir
	}
	if len(opts.Env) > 0 {
		cmd.Env = append(os.Environ(), opts.Env...)
	}
	if opts.Stdin != nil {
		cmd.Stdin = opts.Stdin
	}

	var stdoutBuf, stderrBuf bytes.Buffer

	if opts.Stdout != nil {
		cmd.Stdout = opts.Stdout
	} else {
		cmd.Stdout = &stdoutBuf
	}

	if opts.Stderr != nil {
		cmd.Stderr = opts.Stderr
	} else {
		cmd.Stderr = &stderrBuf
	}

	err := cmd.Run()

	result := &Result{ExitCode: -1}
	if cmd.ProcessState != nil {
		result.ExitCode = cmd.ProcessState.ExitCode()
	}
	if opts.Stdout == nil {
		result.Stdout = stdoutBuf.Bytes()
	}
	if opts.Stderr == nil {
		result.Stderr = stderrBuf.Bytes()
	}

	return result, classify(ctx, opts.Name, err)
}

func (e *executor) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}

// classify maps low-level exec failures onto the package sentinels while
// keeping the original error in the chain.
func classify(ctx context.Context, name string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", name, ErrTimeout, err)
	}
	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w: %w", name, ErrCommandNotFound, err)
	}
	return err
}
